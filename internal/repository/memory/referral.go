package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/langerprakhar/referral-service/internal/model"
	"github.com/langerprakhar/referral-service/internal/repository"
)

type referralRepository struct {
	mu        sync.RWMutex
	referrals []*model.Referral
}

// NewReferralRepository creates an in-memory ReferralRepository.
func NewReferralRepository() repository.ReferralRepository {
	return &referralRepository{}
}

func (r *referralRepository) CreateReferral(
	ctx context.Context,
	referral *model.Referral,
) (*model.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	referral.ID = bson.NewObjectID()
	referral.CreatedAt = now
	referral.UpdatedAt = now

	stored := *referral
	r.referrals = append(r.referrals, &stored)

	return referral, nil
}

func (r *referralRepository) ListReferralsByReferrer(
	ctx context.Context,
	referrerID string,
) ([]*model.Referral, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*model.Referral
	for _, referral := range r.referrals {
		if referral.ReferrerID.Hex() == referrerID {
			clone := *referral
			matched = append(matched, &clone)
		}
	}

	return matched, nil
}

func (r *referralRepository) CountReferralsByReferrer(
	ctx context.Context,
	referrerID string,
) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, referral := range r.referrals {
		if referral.ReferrerID.Hex() == referrerID {
			count++
		}
	}

	return count, nil
}

func (r *referralRepository) CountReferralsByReferrerAndStatus(
	ctx context.Context,
	referrerID string,
	status model.ReferralStatus,
) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, referral := range r.referrals {
		if referral.ReferrerID.Hex() == referrerID && referral.Status == status {
			count++
		}
	}

	return count, nil
}
