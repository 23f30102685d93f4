package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ReferralStatus is the lifecycle state of a referral.
type ReferralStatus string

const (
	ReferralStatusPending    ReferralStatus = "pending"
	ReferralStatusSuccessful ReferralStatus = "successful"
)

// Referral records that one user signed up with another user's referral code.
// It holds non-owning references to both users by id.
type Referral struct {
	ID             bson.ObjectID  `bson:"_id,omitempty"`
	ReferrerID     bson.ObjectID  `bson:"referrer_id"`
	ReferredUserID bson.ObjectID  `bson:"referred_user_id"`
	DateReferred   time.Time      `bson:"date_referred"`
	Status         ReferralStatus `bson:"status"`
	CreatedAt      time.Time      `bson:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at"`
}
