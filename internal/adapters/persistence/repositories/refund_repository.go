package repositories

import (
	"context"
	"strings"

	"refundhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// refundRepository implements RefundRepository interface
type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

// Create creates a new refund
func (r *refundRepository) Create(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

// GetByID gets a refund by ID with its owner
func (r *refundRepository) GetByID(ctx context.Context, id uint) (*models.Refund, error) {
	var refund models.Refund
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&refund, id).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

// List lists refunds matching the filter, newest first, plus the total
// count under the same predicate. Count and page fetch are two independent
// reads; the total may be marginally stale under concurrent writes.
func (r *refundRepository) List(ctx context.Context, filter RefundFilter) ([]*models.Refund, int64, error) {
	var refunds []*models.Refund
	var total int64

	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Refund{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("User").
		Order("refunds.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&refunds).Error

	return refunds, total, err
}

// applyFilter builds the shared predicate for count and page fetch
func (r *refundRepository) applyFilter(q *gorm.DB, filter RefundFilter) *gorm.DB {
	if filter.OwnerID != nil {
		q = q.Where("refunds.user_id = ?", *filter.OwnerID)
	}
	if filter.OwnerName != "" {
		q = q.Joins("JOIN users ON users.id = refunds.user_id").
			Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(filter.OwnerName)+"%")
	}
	return q
}
