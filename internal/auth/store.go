package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore keeps the live bearer token per user in Redis so that a login
// while a previous token is still valid hands back the same token.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore builds a store over the given client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Fetch returns the stored token for the user, or ok=false when none is live.
func (s *TokenStore) Fetch(ctx context.Context, userID string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, nil
	}
	token, err := s.client.Get(ctx, tokenKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

// Save records the user's token with the remaining lifetime as TTL.
func (s *TokenStore) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, tokenKeyPrefix+userID, token, ttl).Err()
}
