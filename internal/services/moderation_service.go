// internal/services/moderation_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
)

// ModerationService applies reviewer decisions to the pending queue. Every
// transition leaves the queue row in place as an audit record; approved
// rows double as a resolution shortcut for future messages.
type ModerationService struct {
	products repository.ProductRepository
	pendings repository.PendingRepository
	catalog  *CatalogCache
	log      *logrus.Logger
	now      func() time.Time
}

func NewModerationService(
	products repository.ProductRepository,
	pendings repository.PendingRepository,
	catalog *CatalogCache,
	log *logrus.Logger,
) *ModerationService {
	return &ModerationService{
		products: products,
		pendings: pendings,
		catalog:  catalog,
		log:      log,
		now:      time.Now,
	}
}

var ErrNotPending = fmt.Errorf("queue entry already reviewed")

// Approve links a queue entry to an existing product. With a zero product
// id the entry's suggestion is used.
func (s *ModerationService) Approve(ctx context.Context, id uuid.UUID, productID uuid.UUID, comment string) (*models.ProductPending, error) {
	pending, err := s.pendings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending.Status != models.PendingStatusPending {
		return nil, ErrNotPending
	}

	target := productID
	if target == uuid.Nil {
		if pending.SuggestedID == nil {
			return nil, fmt.Errorf("no product to approve against")
		}
		target = *pending.SuggestedID
	}
	product, err := s.products.FindByID(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("approve target: %w", err)
	}

	pending.SuggestedID = &product.ID
	s.transition(pending, models.PendingStatusApproved, comment)
	if err := s.pendings.Update(ctx, pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// CreateProduct promotes a queue entry into a brand-new catalog product and
// approves the entry against it.
func (s *ModerationService) CreateProduct(ctx context.Context, id uuid.UUID, comment string) (*models.Product, error) {
	pending, err := s.pendings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending.Status != models.PendingStatusPending {
		return nil, ErrNotPending
	}

	product := &models.Product{
		Icon:           pending.Icon,
		Name:           pending.RawTitle,
		NormalizedName: pending.NormalizedTitle,
		Grade:          pending.Grade,
		Status:         models.ProductStatusOK,
		IsVerified:     true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	pending.SuggestedID = &product.ID
	s.transition(pending, models.PendingStatusApproved, comment)
	if err := s.pendings.Update(ctx, pending); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	s.log.WithFields(logrus.Fields{
		"product": product.Name,
		"pending": pending.ID,
	}).Info("product created from moderation queue")
	return product, nil
}

// Merge records the queue entry's spelling as an alias of an existing
// product, so exact lookups hit it directly from now on.
func (s *ModerationService) Merge(ctx context.Context, id uuid.UUID, productID uuid.UUID, comment string) (*models.Product, error) {
	pending, err := s.pendings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending.Status != models.PendingStatusPending {
		return nil, ErrNotPending
	}

	parent, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("merge target: %w", err)
	}
	root := parent.EffectiveID()

	alias := &models.Product{
		ParentID:       &root,
		Icon:           pending.Icon,
		Name:           pending.RawTitle,
		NormalizedName: pending.NormalizedTitle,
		Grade:          pending.Grade,
		Status:         models.ProductStatusOK,
	}
	if err := s.products.Create(ctx, alias); err != nil {
		return nil, err
	}

	pending.SuggestedID = &root
	s.transition(pending, models.PendingStatusMerged, comment)
	if err := s.pendings.Update(ctx, pending); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	return alias, nil
}

// Reject closes a queue entry without touching the catalog.
func (s *ModerationService) Reject(ctx context.Context, id uuid.UUID, comment string) (*models.ProductPending, error) {
	pending, err := s.pendings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending.Status != models.PendingStatusPending {
		return nil, ErrNotPending
	}

	s.transition(pending, models.PendingStatusRejected, comment)
	if err := s.pendings.Update(ctx, pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *ModerationService) transition(pending *models.ProductPending, status models.PendingStatus, comment string) {
	now := s.now()
	pending.Status = status
	pending.AdminComment = comment
	pending.ReviewedAt = &now
}
