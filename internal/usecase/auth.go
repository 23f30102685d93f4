// Package usecase implements the account and referral business logic.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/model"
	"github.com/langerprakhar/referral-service/internal/refcode"
	"github.com/langerprakhar/referral-service/internal/repository"
	"github.com/langerprakhar/referral-service/internal/security"
	"github.com/langerprakhar/referral-service/pkg/auth"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Login(ctx context.Context, params LoginParams) (string, *model.User, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Username     string
	Email        string
	Password     string
	ReferralCode string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrEmailTaken          = errors.New("email already in use")
	ErrUsernameTaken       = errors.New("username already in use")
	ErrAccountExists       = errors.New("email or username already in use")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingSecret       = errors.New("jwt signing secret is not configured")
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// sessionTokenTTL is the lifetime of an issued session token.
const sessionTokenTTL = time.Hour

var validate = validator.New(validator.WithRequiredStructEnabled())

type authUsecase struct {
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
	jwtAuth      auth.JWTAuthenticator
	cfg          *config.Config
	logger       *zerolog.Logger

	// injectable for tests
	now          func() time.Time
	generateCode func(length int) (string, error)
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	referralRepo repository.ReferralRepository,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		jwtAuth:      jwtAuth,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		generateCode: refcode.Generate,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	username := security.SanitizeInput(params.Username)
	email := security.SanitizeInput(params.Email)
	suppliedCode := security.SanitizeInput(params.ReferralCode)

	if username == "" || email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(params.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := u.userRepo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var referrer *model.User
	if suppliedCode != "" {
		var err error
		referrer, err = u.userRepo.GetUserByReferralCode(ctx, suppliedCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidReferralCode
			}

			return nil, err
		}
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	code, err := u.generateUniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		ReferralCode: code,
	}
	if referrer != nil {
		referrerID := referrer.ID
		newUser.ReferredBy = &referrerID
	}

	user, err := u.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost a race with a concurrent registration; the pre-checks
			// passed but the unique index rejected the write.
			return nil, ErrAccountExists
		}

		return nil, err
	}

	if referrer != nil {
		if _, err := u.referralRepo.CreateReferral(ctx, &model.Referral{
			ReferrerID:     referrer.ID,
			ReferredUserID: user.ID,
			DateReferred:   u.now(),
			Status:         model.ReferralStatusSuccessful,
		}); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, *model.User, error) {
	email := security.SanitizeInput(params.Email)

	if u.cfg.JWTSecret == "" {
		return "", nil, ErrMissingSecret
	}

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", nil, err
	} else if !ok {
		return "", nil, ErrInvalidCredentials
	}

	now := u.now()
	claims := auth.SessionClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}

	token, err := u.jwtAuth.GenerateToken(claims, u.cfg.JWTSecret)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// generateUniqueReferralCode re-samples until the code is absent from the
// user store. Collisions over a 36^8 space are rare enough that the loop is
// effectively bounded.
func (u *authUsecase) generateUniqueReferralCode(ctx context.Context) (string, error) {
	for {
		code, err := u.generateCode(refcode.DefaultLength)
		if err != nil {
			return "", err
		}

		_, err = u.userRepo.GetUserByReferralCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}
