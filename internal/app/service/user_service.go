package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = apperrors.NotFound("User")
	ErrInvalidCredentials = apperrors.Unauthorized(apperrors.AuthInvalidCredentials, "Invalid username or password")
)

type CreateUserInput struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Role     string `json:"role" binding:"omitempty,oneof=admin superAdmin"`
	IsActive *bool  `json:"is_active"`
}

type UpdateUserInput struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50,username"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin superAdmin"`
	IsActive *bool   `json:"is_active"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*dto.UserResponse, error)
	Login(input LoginInput) (*dto.LoginResponse, error)
	GetByID(id uint) (*dto.UserResponse, error)
	List() ([]dto.UserResponse, error)
	Update(id uint, input UpdateUserInput) (*dto.UserResponse, error)
	Delete(id uint) error
}

type userService struct {
	userRepo  repository.UserRepository
	mailer    notify.Mailer
	sms       notify.SMSSender
	jwtSecret string
	jwtExpiry time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	mailer notify.Mailer,
	sms notify.SMSSender,
	jwtSecret string,
	jwtExpiry time.Duration,
) UserService {
	return &userService{
		userRepo:  userRepo,
		mailer:    mailer,
		sms:       sms,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*dto.UserResponse, error) {
	logger.Info("Creating admin user", map[string]interface{}{
		"username": input.Username,
		"email":    input.Email,
		"role":     input.Role,
	})

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	role := model.RoleAdmin
	if input.Role != "" {
		role = model.UserRole(input.Role)
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	user := &model.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         role,
		IsActive:     active,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.FromDB(err, "User")
	}

	s.notifyCreated(ctx, user)

	logger.Info("Admin user created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// notifyCreated sends the SMS and welcome email. Failures are logged and never returned.
func (s *userService) notifyCreated(ctx context.Context, user *model.User) {
	if user.Phone != "" && s.sms != nil {
		text := "Your admin account " + user.Username + " has been created."
		if err := s.sms.Send(ctx, user.Phone, text); err != nil {
			logger.Error("Failed to send account SMS", err, map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	if s.mailer == nil {
		return
	}
	msg, err := notify.WelcomeEmail(user.Email, user.Username, "An administrator account has been created for you. Sign in with your username to get started.")
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Error("Failed to send welcome email", err, map[string]interface{}{
			"user_id": user.ID,
		})
	}
}

func (s *userService) Login(input LoginInput) (*dto.LoginResponse, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": input.Username,
	})

	user, err := s.userRepo.FindByUsername(input.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(input.Username, "@") {
		user, err = s.userRepo.FindByEmail(strings.ToLower(input.Username))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": input.Username,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.FromDB(err, "User")
	}

	if !user.IsActive || !util.VerifyPassword(user.PasswordHash, input.Password) {
		logger.Warn("Login failed: invalid credentials", map[string]interface{}{
			"user_id": user.ID,
			"active":  user.IsActive,
		})
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateToken(util.TokenSubject{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		UserType: util.UserTypeAdmin,
	}, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, apperrors.Internal(err)
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return &dto.LoginResponse{User: dto.NewUserResponse(user), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *userService) GetByID(id uint) (*dto.UserResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) find(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "User")
	}
	return user, nil
}

func (s *userService) List() ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperrors.FromDB(err, "User")
	}
	return dto.NewUserResponses(users), nil
}

func (s *userService) Update(id uint, input UpdateUserInput) (*dto.UserResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = strings.ToLower(*input.Email)
	}
	if input.Password != nil {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		user.PasswordHash = hash
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = model.UserRole(*input.Role)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.FromDB(err, "User")
	}

	logger.Info("User updated", map[string]interface{}{
		"user_id": user.ID,
	})
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) Delete(id uint) error {
	found, err := s.userRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "User")
	}
	if !found {
		return ErrUserNotFound
	}
	logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
