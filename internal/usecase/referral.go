package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/internal/model"
	"github.com/langerprakhar/referral-service/internal/repository"
)

// ReferralUsecase defines read-only aggregation over a user's referrals.
type ReferralUsecase interface {
	ListReferrals(ctx context.Context, userID string) ([]ReferralEntry, error)
	GetReferralStats(ctx context.Context, userID string) (*ReferralStats, error)
}

// ReferredUser is the subset of the referred user's record exposed alongside
// a referral.
type ReferredUser struct {
	ID       string
	Username string
	Email    string
}

// ReferralEntry is a referral joined with its referred user.
type ReferralEntry struct {
	ID           string
	Status       model.ReferralStatus
	DateReferred time.Time
	ReferredUser ReferredUser
}

// ReferralStats aggregates a referrer's counts.
type ReferralStats struct {
	TotalReferrals      int64
	SuccessfulReferrals int64
}

type referralUsecase struct {
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
	logger       *zerolog.Logger
}

// NewReferralUsecase creates a new instance of ReferralUsecase.
func NewReferralUsecase(
	userRepo repository.UserRepository,
	referralRepo repository.ReferralRepository,
	logger *zerolog.Logger,
) ReferralUsecase {
	return &referralUsecase{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		logger:       logger,
	}
}

func (u *referralUsecase) ListReferrals(ctx context.Context, userID string) ([]ReferralEntry, error) {
	referrals, err := u.referralRepo.ListReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]ReferralEntry, 0, len(referrals))
	for _, referral := range referrals {
		referred, err := u.userRepo.GetUser(ctx, referral.ReferredUserID.Hex())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Referred user deleted out from under the referral.
				u.logger.Warn().
					Str("referral_id", referral.ID.Hex()).
					Msg("referred user no longer exists, skipping")
				continue
			}

			return nil, err
		}

		entries = append(entries, ReferralEntry{
			ID:           referral.ID.Hex(),
			Status:       referral.Status,
			DateReferred: referral.DateReferred,
			ReferredUser: ReferredUser{
				ID:       referred.ID.Hex(),
				Username: referred.Username,
				Email:    referred.Email,
			},
		})
	}

	return entries, nil
}

func (u *referralUsecase) GetReferralStats(ctx context.Context, userID string) (*ReferralStats, error) {
	total, err := u.referralRepo.CountReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	successful, err := u.referralRepo.CountReferralsByReferrerAndStatus(
		ctx,
		userID,
		model.ReferralStatusSuccessful,
	)
	if err != nil {
		return nil, err
	}

	return &ReferralStats{
		TotalReferrals:      total,
		SuccessfulReferrals: successful,
	}, nil
}
