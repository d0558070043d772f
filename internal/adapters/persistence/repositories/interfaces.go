package repositories

import (
	"context"

	"refundhub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefundFilter shapes the refund listing query. OwnerID restricts the set
// to a single owner; OwnerName is a case-insensitive substring match on the
// owning user's name. Count and page fetch run against the same filter.
type RefundFilter struct {
	OwnerID   *uint
	OwnerName string
	Offset    int
	Limit     int
}

// RefundRepository defines refund repository interface.
// Refunds are append-only: there is no update or delete.
type RefundRepository interface {
	Create(ctx context.Context, refund *models.Refund) error
	GetByID(ctx context.Context, id uint) (*models.Refund, error)
	List(ctx context.Context, filter RefundFilter) ([]*models.Refund, int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
