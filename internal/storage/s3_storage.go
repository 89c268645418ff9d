package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
)

const presignExpiry = 15 * time.Minute

// Upload folders accepted by the presign endpoint.
var allowedFolders = map[string]bool{
	"products":    true,
	"collections": true,
	"homepage":    true,
}

var allowedContentTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Presigner issues upload URLs. The upload controller depends on this rather than S3.
type Presigner interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error)
}

type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type S3Storage struct {
	presign *s3.PresignClient
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// environment, shared config or instance role
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	return &S3Storage{
		presign: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PresignUpload returns a PUT URL for a new object under folder and the URL it will be served from.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedUpload, error) {
	if err := ValidateFolder(folder); err != nil {
		return nil, err
	}
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}

	key := ObjectKey(folder, filename)
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ObjectKey builds "<folder>/<uuid><ext>" keeping the lowercased extension of filename.
func ObjectKey(folder, filename string) string {
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}

func ValidateFolder(folder string) error {
	if !allowedFolders[folder] {
		return fmt.Errorf("folder %s is not allowed", folder)
	}
	return nil
}

func ValidateContentType(contentType string) error {
	for _, allowed := range allowedContentTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
