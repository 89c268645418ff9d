package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupUserServiceTest(t *testing.T) (UserService, *recordingMailer, *recordingSMS) {
	testDB := setupTestDB(t)
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	svc := NewUserService(repository.NewUserRepository(testDB), mailer, sms, testJWTSecret, time.Hour)
	return svc, mailer, sms
}

func TestUserService_Create(t *testing.T) {
	svc, mailer, sms := setupUserServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    CreateUserInput
		wantKind apperrors.Kind
		wantErr  bool
	}{
		{
			name:  "Valid admin",
			input: CreateUserInput{Username: "alice", Email: "Alice@Example.com", Password: "password123", Phone: "+15550001"},
		},
		{
			name:     "Duplicate username",
			input:    CreateUserInput{Username: "alice", Email: "other@example.com", Password: "password123"},
			wantErr:  true,
			wantKind: apperrors.KindConflict,
		},
		{
			name:     "Duplicate email",
			input:    CreateUserInput{Username: "bob", Email: "alice@example.com", Password: "password123"},
			wantErr:  true,
			wantKind: apperrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Create(ctx, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "admin", user.Role)
			assert.True(t, user.IsActive)
		})
	}

	assert.Equal(t, []string{"+15550001"}, sms.to)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent[0].To)
}

func TestUserService_CreateSwallowsNotificationErrors(t *testing.T) {
	svc, mailer, sms := setupUserServiceTest(t)
	mailer.err = errors.New("smtp down")
	sms.err = errors.New("sms down")

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "carol", Email: "carol@example.com", Password: "password123", Phone: "+15550002",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserService_LoginAndDelete(t *testing.T) {
	svc, _, _ := setupUserServiceTest(t)
	created, err := svc.Create(context.Background(), CreateUserInput{
		Username: "dave", Email: "dave@example.com", Password: "password123", Role: "superAdmin",
	})
	require.NoError(t, err)

	login, err := svc.Login(LoginInput{Username: "dave", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, login.User.ID)

	claims, err := util.ValidateToken(login.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "superAdmin", claims.Role)
	assert.Equal(t, util.UserTypeAdmin, claims.UserType)

	byEmail, err := svc.Login(LoginInput{Username: "dave@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.User.ID)

	_, err = svc.Login(LoginInput{Username: "dave", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Delete(created.ID))
	_, err = svc.Login(LoginInput{Username: "dave", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(created.ID), ErrUserNotFound)
}

func TestUserService_UsernameReusableAfterDelete(t *testing.T) {
	svc, _, _ := setupUserServiceTest(t)
	ctx := context.Background()
	input := CreateUserInput{Username: "erin", Email: "erin@example.com", Password: "password123"}

	first, err := svc.Create(ctx, input)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(first.ID))

	second, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUserService_Update(t *testing.T) {
	svc, _, _ := setupUserServiceTest(t)
	created, err := svc.Create(context.Background(), CreateUserInput{
		Username: "frank", Email: "frank@example.com", Password: "password123",
	})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, UpdateUserInput{Role: strPtr("superAdmin"), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "superAdmin", updated.Role)
	assert.False(t, updated.IsActive)

	_, err = svc.Login(LoginInput{Username: "frank", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Update(9999, UpdateUserInput{Phone: strPtr("1")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
