package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account holder. Username, email and referral code are
// each unique across the collection, enforced by indexes created at
// repository construction.
type User struct {
	ID                  bson.ObjectID  `bson:"_id,omitempty"`
	Username            string         `bson:"username"`
	Email               string         `bson:"email"`
	PasswordHash        string         `bson:"password_hash"`
	ReferralCode        string         `bson:"referral_code"`
	ReferredBy          *bson.ObjectID `bson:"referred_by,omitempty"`
	ResetToken          string         `bson:"reset_token,omitempty"`
	ResetTokenExpiresAt *time.Time     `bson:"reset_token_expires_at,omitempty"`
	CreatedAt           time.Time      `bson:"created_at"`
	UpdatedAt           time.Time      `bson:"updated_at"`
}
