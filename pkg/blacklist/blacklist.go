package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "session:revoked:"

// TokenBlacklist records signed-out session tokens in Redis until they expire
type TokenBlacklist struct {
	redis *redis.Client
}

// NewTokenBlacklist creates a new token blacklist service
func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis: redisClient,
	}
}

// tokens are stored by digest so the raw bearer value never lands in Redis
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

// Add adds a token to the blacklist with TTL
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if err := b.redis.Set(ctx, tokenKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// AddUntil blacklists a token for the rest of its lifetime
func (b *TokenBlacklist) AddUntil(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)

	// If already expired, no need to blacklist
	if ttl <= 0 {
		return nil
	}

	return b.Add(ctx, token, ttl)
}

// IsBlacklisted checks if a token is in the blacklist
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	exists, err := b.redis.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}
