// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
	"github.com/taibuivan/tsuzuri/pkg/textnorm"
	"github.com/taibuivan/tsuzuri/pkg/uuid"
)

// # Service Layer

// Service implements the identity use cases.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	files                FileStore
	mailer               Mailer
	tokenTTL             time.Duration
	logger               *slog.Logger
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Users       UserRepository
	ResetTokens ResetTokenRepository
	Tokens      TokenProvider
	Files       FileStore
	Mailer      Mailer
	TokenTTL    time.Duration
	Logger      *slog.Logger
}

// NewService constructs a new [Service].
func NewService(deps Dependencies) *Service {
	return &Service{
		userRepository:       deps.Users,
		resetTokenRepository: deps.ResetTokens,
		tokenProvider:        deps.Tokens,
		files:                deps.Files,
		mailer:               deps.Mailer,
		tokenTTL:             deps.TokenTTL,
		logger:               deps.Logger,
	}
}

// # Registration

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	Nickname    string
	DateOfBirth string
	Gender      string
	Icon        *Upload
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

/*
Register validates and persists a new account, then signs the caller in.

Description: An uploaded icon is stored first. If the account cannot be
created the icon is removed again.

Returns:
  - *Session: Access token and the new account
  - error: ValidationError, Conflict (email taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.Nickname = textnorm.Normalize(input.Nickname)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, constants.PasswordMin).
		Custom(FieldPassword, len(input.Password) > constants.PasswordMaxBytes, passwordTooLong)
	validator.Required(FieldNickname, input.Nickname).MaxLen(FieldNickname, input.Nickname, constants.ProfileNicknameMax)

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		parsed, err := time.Parse(DateLayout, input.DateOfBirth)
		validator.Custom(FieldDateOfBirth, err != nil, "Must be formatted as YYYY-MM-DD")
		if err == nil {
			dateOfBirth = &parsed
		}
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Nickname:     input.Nickname,
		Icon:         constants.DefaultIconPath,
		DateOfBirth:  dateOfBirth,
		Gender:       strings.TrimSpace(input.Gender),
		Role:         sec.RoleMember,
	}

	if input.Icon != nil {
		path, err := service.files.Save(context, input.Icon.Name, input.Icon.Content)
		if err != nil {
			return nil, err
		}
		user.Icon = path
	}

	if err := service.userRepository.Create(context, user); err != nil {
		_ = service.files.Delete(context, user.Icon)
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return service.issue(user)
}

// CheckEmail reports whether email is still available for registration.
func (service *Service) CheckEmail(context context.Context, email string) (bool, error) {
	email = normalizeEmail(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return false, err
	}

	_, err := service.userRepository.FindByEmail(context, email)
	if apperr.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// # Authentication

/*
Login verifies credentials and issues an access token.

Returns:
  - *Session: Access token and the account
  - error: apperr.Unauthorized for unknown emails and wrong passwords alike
*/
func (service *Service) Login(context context.Context, email, password string) (*Session, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issue(user)
}

// Me returns the account of the authenticated caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// TokenTTL is the lifetime of issued access tokens.
func (service *Service) TokenTTL() time.Duration {
	return service.tokenTTL
}

func (service *Service) issue(user *User) (*Session, error) {
	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Nickname, string(user.Role), service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return &Session{AccessToken: token, User: user}, nil
}

// # Password Recovery

/*
ForgotPassword sends a reset link when the email belongs to an account.

Description: Unknown emails succeed silently so that the endpoint cannot be
used to discover accounts.
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, sec.HashToken(token), user.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return service.mailer.SendPasswordReset(context, user.Email, token)
}

/*
ResetPassword consumes a reset token and replaces the password.

Returns:
  - error: ValidationError for a short password, Unauthorized for an unknown,
    expired or already used token
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldToken, token)
	validator.Required(FieldPassword, newPassword).MinLen(FieldPassword, newPassword, constants.PasswordMin).
		Custom(FieldPassword, len(newPassword) > constants.PasswordMaxBytes, passwordTooLong)
	if err := validator.Err(); err != nil {
		return err
	}

	userID, err := service.resetTokenRepository.Consume(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized("Reset token is invalid or expired")
		}
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	service.logger.Info("user_password_reset", slog.String("user_id", userID))
	return nil
}
