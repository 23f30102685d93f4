// Package memory provides in-memory repository implementations used in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/langerprakhar/referral-service/internal/model"
	"github.com/langerprakhar/referral-service/internal/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewUserRepository creates an in-memory UserRepository enforcing the same
// unique constraints as the MongoDB implementation.
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[string]*model.User)}
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username ||
			existing.Email == user.Email ||
			existing.ReferralCode == user.ReferralCode {
			return nil, repository.ErrDuplicateKey
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID.Hex()] = &stored

	return user, nil
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Email == email })
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Username == username })
}

func (r *userRepository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.ReferralCode == code })
}

func (r *userRepository) UpdateUser(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.ResetToken != nil {
		user.ResetToken = *params.ResetToken
	}
	if params.ResetTokenExpiresAt != nil {
		expiresAt := *params.ResetTokenExpiresAt
		user.ResetTokenExpiresAt = &expiresAt
	}
	user.UpdatedAt = time.Now()

	clone := *user
	return &clone, nil
}

func (r *userRepository) findOne(match func(*model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}

	return nil, repository.ErrNotFound
}
