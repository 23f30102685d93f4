package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/model"
	"github.com/langerprakhar/referral-service/internal/repository"
	"github.com/langerprakhar/referral-service/internal/repository/memory"
	"github.com/langerprakhar/referral-service/pkg/auth"
)

func newTestAuthUsecase(t *testing.T) (*authUsecase, repository.UserRepository, repository.ReferralRepository) {
	t.Helper()

	logger := zerolog.Nop()
	userRepo := memory.NewUserRepository()
	referralRepo := memory.NewReferralRepository()
	cfg := &config.Config{JWTSecret: "test-secret", Env: "test"}

	u := NewAuthUsecase(userRepo, referralRepo, auth.NewJWTAuthenticator(), cfg, &logger).(*authUsecase)
	return u, userRepo, referralRepo
}

func registerParams(username, email string) RegisterParams {
	return RegisterParams{
		Username: username,
		Email:    email,
		Password: "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	u, userRepo, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	user, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Len(t, user.ReferralCode, 8)
	assert.Nil(t, user.ReferredBy)

	stored, err := userRepo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegister_Validation(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  RegisterParams
		wantErr error
	}{
		{
			name:    "missing username",
			params:  RegisterParams{Email: "a@example.com", Password: "password123"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing email",
			params:  RegisterParams{Username: "a", Password: "password123"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing password",
			params:  RegisterParams{Username: "a", Email: "a@example.com"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "bad email format",
			params:  RegisterParams{Username: "a", Email: "not-an-email", Password: "password123"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "short password",
			params:  RegisterParams{Username: "a", Email: "a@example.com", Password: "short"},
			wantErr: ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Register(ctx, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = u.Register(ctx, registerParams("bob", "alice@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = u.Register(ctx, registerParams("alice", "other@example.com"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_SanitizesInput(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	user, err := u.Register(ctx, RegisterParams{
		Username: "<script>alert('x')</script>mallory",
		Email:    "mallory@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "mallory", user.Username)
}

func TestRegister_WithReferralCode(t *testing.T) {
	u, _, referralRepo := newTestAuthUsecase(t)
	ctx := context.Background()

	referrer, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	referred, err := u.Register(ctx, RegisterParams{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "password123",
		ReferralCode: referrer.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, referred.ReferredBy)
	assert.Equal(t, referrer.ID, *referred.ReferredBy)

	referrals, err := referralRepo.ListReferralsByReferrer(ctx, referrer.ID.Hex())
	require.NoError(t, err)
	require.Len(t, referrals, 1)
	assert.Equal(t, referred.ID, referrals[0].ReferredUserID)
	assert.Equal(t, model.ReferralStatusSuccessful, referrals[0].Status)
}

func TestRegister_UnknownReferralCode(t *testing.T) {
	u, _, referralRepo := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := u.Register(ctx, RegisterParams{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "password123",
		ReferralCode: "NOPE1234",
	})
	assert.ErrorIs(t, err, ErrInvalidReferralCode)

	referrals, err := referralRepo.ListReferralsByReferrer(ctx, "000000000000000000000000")
	require.NoError(t, err)
	assert.Empty(t, referrals)
}

func TestRegister_ReferralCodeCollisionRetries(t *testing.T) {
	u, userRepo, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	alice, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	// Force the generator to first emit alice's code, then a fresh one.
	codes := []string{alice.ReferralCode, "FRESH123"}
	u.generateCode = func(int) (string, error) {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}

	bob, err := u.Register(ctx, registerParams("bob", "bob@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "FRESH123", bob.ReferralCode)

	owner, err := userRepo.GetUserByReferralCode(ctx, alice.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner.ID)
}

func TestLogin_Success(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	registered, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	token, user, err := u.Login(ctx, LoginParams{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	// The token's sole custom claim resolves back to the created user.
	jwtAuth := auth.NewJWTAuthenticator()
	claims := &auth.SessionClaims{}
	_, err = jwtAuth.ValidateTokenWithClaims(token, "test-secret", claims)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLogin_GenericFailure(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	_, err := u.Register(ctx, registerParams("alice", "alice@example.com"))
	require.NoError(t, err)

	_, _, errUnknownEmail := u.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "password123"})
	_, _, errWrongPassword := u.Login(ctx, LoginParams{Email: "alice@example.com", Password: "wrongpass"})

	// Both failure modes must be indistinguishable to the caller.
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.Equal(t, errUnknownEmail, errWrongPassword)
}

func TestLogin_MissingSecret(t *testing.T) {
	u, _, _ := newTestAuthUsecase(t)
	u.cfg = &config.Config{}
	ctx := context.Background()

	_, _, err := u.Login(ctx, LoginParams{Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrMissingSecret)
}
