package service

import (
	"context"
	"fmt"

	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
)

type ContactInput struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Subject string `json:"subject" binding:"omitempty,max=200"`
	Message string `json:"message" binding:"required,min=1,max=5000"`
}

// ContactService forwards contact form submissions by email. Nothing is persisted.
type ContactService interface {
	Submit(ctx context.Context, input ContactInput) error
}

type contactService struct {
	mailer    notify.Mailer
	recipient string
}

func NewContactService(mailer notify.Mailer, recipient string) ContactService {
	return &contactService{mailer: mailer, recipient: recipient}
}

func (s *contactService) Submit(ctx context.Context, input ContactInput) error {
	msg, err := notify.ContactEmail(s.recipient, notify.ContactForm{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		return apperrors.Internal(fmt.Errorf("render contact email: %w", err))
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("Failed to send contact email", err, map[string]interface{}{
			"recipient": s.recipient,
		})
		return apperrors.Internal(fmt.Errorf("failed to send contact message: %w", err))
	}
	logger.Info("Contact message forwarded", map[string]interface{}{
		"recipient": s.recipient,
	})
	return nil
}
