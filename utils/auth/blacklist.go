package auth

import (
	"context"
	"errors"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
)

// BlacklistService handles JWT token revocation
type BlacklistService struct {
	tokens repository.TokenRepository
	users  repository.UserRepository
	now    func() time.Time
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(tokens repository.TokenRepository, users repository.UserRepository) *BlacklistService {
	return &BlacklistService{tokens: tokens, users: users, now: time.Now}
}

// RevokeToken adds a token to the blacklist. Revoking an already revoked jti is a no-op.
func (s *BlacklistService) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error {
	err := s.tokens.Revoke(ctx, &model.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

// IsTokenRevoked checks if a token is in the blacklist
func (s *BlacklistService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokens.IsRevoked(ctx, jti, s.now())
}

// RevokeAllUserTokens increments user's token version to invalidate all tokens
func (s *BlacklistService) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

// CleanupExpiredTokens removes expired entries from the blacklist
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now())
}
