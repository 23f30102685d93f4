package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/repository"
	"github.com/langerprakhar/referral-service/internal/repository/memory"
	"github.com/langerprakhar/referral-service/pkg/auth"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendSimple(to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestResetUsecase(t *testing.T) (*passwordResetUsecase, repository.UserRepository, *fakeMailer) {
	t.Helper()

	logger := zerolog.Nop()
	userRepo := memory.NewUserRepository()
	mail := &fakeMailer{}
	cfg := &config.Config{JWTSecret: "test-secret", BaseURL: "http://localhost:3000"}

	u := NewPasswordResetUsecase(userRepo, mail, cfg, &logger).(*passwordResetUsecase)
	return u, userRepo, mail
}

func seedUser(t *testing.T, userRepo repository.UserRepository, username, email string) string {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{JWTSecret: "test-secret"}
	authU := NewAuthUsecase(userRepo, memory.NewReferralRepository(), auth.NewJWTAuthenticator(), cfg, &logger)

	user, err := authU.Register(context.Background(), RegisterParams{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return user.ID.Hex()
}

func TestRequestPasswordReset_EnumerationSafe(t *testing.T) {
	u, userRepo, _ := newTestResetUsecase(t)
	ctx := context.Background()

	seedUser(t, userRepo, "alice", "alice@example.com")

	// Existing and non-existing emails must yield the identical outcome.
	assert.NoError(t, u.RequestPasswordReset(ctx, "alice@example.com"))
	assert.NoError(t, u.RequestPasswordReset(ctx, "nobody@example.com"))
}

func TestRequestPasswordReset_SetsTokenAndExpiry(t *testing.T) {
	u, userRepo, mail := newTestResetUsecase(t)
	ctx := context.Background()

	userID := seedUser(t, userRepo, "alice", "alice@example.com")

	frozen := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return frozen }

	require.NoError(t, u.RequestPasswordReset(ctx, "alice@example.com"))

	user, err := userRepo.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, user.ResetToken)
	_, err = uuid.Parse(user.ResetToken)
	assert.NoError(t, err, "reset token should be a UUID")
	require.NotNil(t, user.ResetTokenExpiresAt)
	assert.Equal(t, frozen.Add(time.Hour), *user.ResetTokenExpiresAt)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, mail.sent[0].to)
	assert.Equal(t, "Password Reset Request", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].body, "http://localhost:3000/reset-password?token="+user.ResetToken)
}

func TestRequestPasswordReset_UnknownEmailSendsNothing(t *testing.T) {
	u, _, mail := newTestResetUsecase(t)

	require.NoError(t, u.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, mail.sent)
}

func TestRequestPasswordReset_MailFailureSwallowed(t *testing.T) {
	u, userRepo, mail := newTestResetUsecase(t)
	ctx := context.Background()

	userID := seedUser(t, userRepo, "alice", "alice@example.com")
	mail.err = errors.New("smtp unreachable")

	// Delivery failure must not surface to the caller.
	assert.NoError(t, u.RequestPasswordReset(ctx, "alice@example.com"))

	// The token is still issued even though the mail never left.
	user, err := userRepo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ResetToken)
}

func TestRequestPasswordReset_TokensAreSingleUseValues(t *testing.T) {
	u, userRepo, _ := newTestResetUsecase(t)
	ctx := context.Background()

	userID := seedUser(t, userRepo, "alice", "alice@example.com")

	require.NoError(t, u.RequestPasswordReset(ctx, "alice@example.com"))
	first, err := userRepo.GetUser(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, u.RequestPasswordReset(ctx, "alice@example.com"))
	second, err := userRepo.GetUser(ctx, userID)
	require.NoError(t, err)

	// A new request replaces the previous token.
	assert.NotEqual(t, first.ResetToken, second.ResetToken)
}
