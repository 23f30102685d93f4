package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/langerprakhar/referral-service/internal/model"
)

// ReferralRepository defines the interface for referral-related database operations.
type ReferralRepository interface {
	CreateReferral(ctx context.Context, referral *model.Referral) (*model.Referral, error)
	ListReferralsByReferrer(ctx context.Context, referrerID string) ([]*model.Referral, error)
	CountReferralsByReferrer(ctx context.Context, referrerID string) (int64, error)
	CountReferralsByReferrerAndStatus(
		ctx context.Context,
		referrerID string,
		status model.ReferralStatus,
	) (int64, error)
}

const referralCollection = "referrals"

type referralMongoRepository struct {
	db *mongo.Database
}

// NewReferralMongoRepository creates a MongoDB-backed ReferralRepository.
func NewReferralMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ReferralRepository {
	collection := db.Collection(referralCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "referrer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "referred_user_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create referral indexes")
	}

	return &referralMongoRepository{db: db}
}

func (r *referralMongoRepository) CreateReferral(
	ctx context.Context,
	referral *model.Referral,
) (*model.Referral, error) {
	now := time.Now()
	referral.CreatedAt = now
	referral.UpdatedAt = now

	result, err := r.db.Collection(referralCollection).InsertOne(ctx, referral)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		referral.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return referral, nil
}

func (r *referralMongoRepository) ListReferralsByReferrer(
	ctx context.Context,
	referrerID string,
) ([]*model.Referral, error) {
	objectID, err := bson.ObjectIDFromHex(referrerID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(referralCollection).Find(ctx, bson.M{"referrer_id": objectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var referrals []*model.Referral
	for cursor.Next(ctx) {
		var referral model.Referral
		if err := cursor.Decode(&referral); err != nil {
			return nil, err
		}
		referrals = append(referrals, &referral)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return referrals, nil
}

func (r *referralMongoRepository) CountReferralsByReferrer(
	ctx context.Context,
	referrerID string,
) (int64, error) {
	objectID, err := bson.ObjectIDFromHex(referrerID)
	if err != nil {
		return 0, err
	}

	return r.db.Collection(referralCollection).CountDocuments(ctx, bson.M{"referrer_id": objectID})
}

func (r *referralMongoRepository) CountReferralsByReferrerAndStatus(
	ctx context.Context,
	referrerID string,
	status model.ReferralStatus,
) (int64, error) {
	objectID, err := bson.ObjectIDFromHex(referrerID)
	if err != nil {
		return 0, err
	}

	return r.db.Collection(referralCollection).CountDocuments(ctx, bson.M{
		"referrer_id": objectID,
		"status":      status,
	})
}
