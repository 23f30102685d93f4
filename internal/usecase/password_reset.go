package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/repository"
	"github.com/langerprakhar/referral-service/internal/security"
)

// PasswordResetUsecase defines the business logic for password reset initiation.
//
// Note: consuming the reset token (accepting it together with a new password)
// is intentionally not part of this service; only link issuance is.
type PasswordResetUsecase interface {
	// RequestPasswordReset initiates the password reset process for a given
	// email. It reveals nothing about whether the account exists.
	RequestPasswordReset(ctx context.Context, email string) error
}

// ResetEmailSender sends the reset link to the account holder.
type ResetEmailSender interface {
	SendSimple(to []string, subject, body string) error
}

// resetTokenTTL is how long an issued reset token stays valid.
const resetTokenTTL = time.Hour

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	mailer   ResetEmailSender
	cfg      *config.Config
	logger   *zerolog.Logger

	now func() time.Time
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	mailer ResetEmailSender,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = security.SanitizeInput(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// To prevent email enumeration, do not reveal that the email
			// does not exist.
			return nil
		}

		return err
	}

	resetToken := uuid.NewString()
	expiresAt := u.now().Add(resetTokenTTL)

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ResetToken:          &resetToken,
		ResetTokenExpiresAt: &expiresAt,
	}); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", u.cfg.BaseURL, resetToken)
	body := fmt.Sprintf("Click the link to reset your password: %s", resetLink)

	// Fire-and-forget: a delivery failure must not change the client-visible
	// response, otherwise mail outages become an enumeration oracle.
	if err := u.mailer.SendSimple([]string{user.Email}, "Password Reset Request", body); err != nil {
		u.logger.Error().Err(err).Msg("failed to send password reset email")
	}

	return nil
}
