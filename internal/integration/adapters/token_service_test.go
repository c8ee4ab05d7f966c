package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/integration/persistence"
)

// fakeTokenRepo embeds the interface and records what the service delegates.
type fakeTokenRepo struct {
	persistence.TokenRepository

	saved           []string
	invalidatedUser []uuid.UUID
}

func (r *fakeTokenRepo) SaveRefreshToken(_ context.Context, token string, _ uuid.UUID, _ time.Time) error {
	r.saved = append(r.saved, token)
	return nil
}

func (r *fakeTokenRepo) InvalidateAllUserRefreshTokens(_ context.Context, userID uuid.UUID) error {
	r.invalidatedUser = append(r.invalidatedUser, userID)
	return nil
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a generated access token", func(t *testing.T) {
		repo := &fakeTokenRepo{}
		service := NewTokenService("test-secret", repo)
		userID := uuid.New()

		pair, err := service.GenerateTokenPair(ctx, userID, "jo@example.com", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.saved) != 1 || repo.saved[0] != pair.RefreshToken {
			t.Error("refresh token was not persisted")
		}

		claims, err := service.ValidateAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != userID || claims.Email != "jo@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("invalidating all tokens reaches every refresh token of the user", func(t *testing.T) {
		repo := &fakeTokenRepo{}
		service := NewTokenService("test-secret", repo)
		userID := uuid.New()

		if err := service.InvalidateAllUserTokens(ctx, userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.invalidatedUser) != 1 || repo.invalidatedUser[0] != userID {
			t.Errorf("expected invalidation for %s, got %v", userID, repo.invalidatedUser)
		}
	})
}
