package services

import (
	"context"
	"errors"
	"strings"

	"refundhub/internal/adapters/persistence/models"
	"refundhub/internal/adapters/persistence/repositories"
	"refundhub/internal/core/domain"
	"refundhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Refund service errors
var (
	ErrRefundNotFoundSvc = errors.New("refund not found")
	ErrRefundForbidden   = errors.New("not allowed to view this refund")
)

// RefundService handles the authorization-aware refund query/command logic
type RefundService struct {
	refundRepo repositories.RefundRepository
}

// NewRefundService creates a new refund service
func NewRefundService(refundRepo repositories.RefundRepository) *RefundService {
	return &RefundService{refundRepo: refundRepo}
}

// CreateRefundInput represents refund creation input
type CreateRefundInput struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category" validate:"required,oneof=transport food accommodation services others"`
	Filename string  `json:"filename" validate:"required,min=20"`
}

// ListRefundsInput represents refund listing input
type ListRefundsInput struct {
	Name    string
	Page    int
	PerPage int
}

// ListRefundsOutput represents refund listing output
type ListRefundsOutput struct {
	Refunds    []*models.RefundResponse `json:"refunds"`
	Pagination *pagination.Meta         `json:"pagination"`
}

// Create validates the input and stores a new refund owned by the caller.
// The owner is always the authenticated identity, never a client value.
func (s *RefundService) Create(ctx context.Context, ident domain.Identity, input *CreateRefundInput) (*models.RefundResponse, error) {
	input.Name = strings.TrimSpace(input.Name)

	if verr := validateStruct(input); verr != nil {
		return nil, verr
	}

	refund := &models.Refund{
		Name:     input.Name,
		Amount:   input.Amount,
		Category: input.Category,
		Filename: input.Filename,
		UserID:   ident.UserID,
	}

	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	return refund.ToResponse(false), nil
}

// List returns a page of refunds shaped by the caller's role:
//   - privileged reviewers (manager/admin) see all refunds, may filter by a
//     case-insensitive owner-name substring, and get owner enrichment;
//   - everyone else sees only their own refunds and the name filter is
//     ignored (it is a reviewer-only capability).
func (s *RefundService) List(ctx context.Context, ident domain.Identity, input *ListRefundsInput) (*ListRefundsOutput, error) {
	params := pagination.New(input.Page, input.PerPage)

	filter := repositories.RefundFilter{
		Offset: params.Offset,
		Limit:  params.PerPage,
	}

	privileged := ident.IsPrivileged()
	if privileged {
		filter.OwnerName = strings.TrimSpace(input.Name)
	} else {
		ownerID := ident.UserID
		filter.OwnerID = &ownerID
	}

	refunds, total, err := s.refundRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RefundResponse, len(refunds))
	for i, refund := range refunds {
		responses[i] = refund.ToResponse(privileged)
	}

	return &ListRefundsOutput{
		Refunds:    responses,
		Pagination: pagination.GetMeta(params, total),
	}, nil
}

// Get returns a single refund. Existence is checked before ownership so a
// caller probing a nonexistent id always sees not-found, never a
// permission error that would leak existence.
func (s *RefundService) Get(ctx context.Context, ident domain.Identity, id uint) (*models.RefundResponse, error) {
	refund, err := s.refundRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFoundSvc
		}
		return nil, err
	}

	privileged := ident.IsPrivileged()
	if !privileged && refund.UserID != ident.UserID {
		return nil, ErrRefundForbidden
	}

	return refund.ToResponse(privileged), nil
}
