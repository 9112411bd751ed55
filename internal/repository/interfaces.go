// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

// MessageRepository stores raw chat messages and tracks parse progress.
type MessageRepository interface {
	// UpsertRaw stores a message and its author, keyed by the platform
	// identity. Replaying the same export is a no-op.
	UpsertRaw(ctx context.Context, user *models.ChatUser, msg *models.Message) (*models.Message, error)
	ListUnparsed(ctx context.Context, limit int) ([]models.Message, error)
	MarkParsed(ctx context.Context, id uuid.UUID) error
}

// ProductRepository reads and back-fills the moderated product catalog.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindByNormalized returns the active product whose normalized name
	// matches exactly and whose grade is compatible: equal grades, or
	// either side carrying no grade.
	FindByNormalized(ctx context.Context, normalized, grade string) (*models.Product, error)
	// ListActive returns the catalog rows eligible for fuzzy matching.
	ListActive(ctx context.Context) ([]models.Product, error)
	// FamilyIDs returns the root product id plus all alias ids, so price
	// history can be read across merged duplicates. Accepts an alias id.
	FamilyIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// BackfillIcon sets the icon only when the product has none yet.
	BackfillIcon(ctx context.Context, id uuid.UUID, icon string) (bool, error)
	// BackfillGrade sets the grade only when the product has none yet.
	BackfillGrade(ctx context.Context, id uuid.UUID, grade string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error)
}

// PendingRepository manages the moderation queue of unresolved names.
type PendingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductPending, error)
	// FindApprovedByNormalized returns an approved queue entry carrying a
	// product link, so already-moderated spellings resolve without review.
	FindApprovedByNormalized(ctx context.Context, normalized string) (*models.ProductPending, error)
	// RecordOccurrence inserts the pending row or bumps Occurrences when
	// an open row for the same (normalized_title, match_reason) exists.
	RecordOccurrence(ctx context.Context, pending *models.ProductPending) error
	List(ctx context.Context, status models.PendingStatus, params utils.PaginationParams) ([]models.ProductPending, int64, error)
	Update(ctx context.Context, pending *models.ProductPending) error
}

// ListingRepository stores resolved buy/sell rows and serves price history.
type ListingRepository interface {
	Upsert(ctx context.Context, listing *models.Listing) error
	// PricesSince returns prices of matching listings posted after the
	// cutoff, for the anomaly window. Only invalid rows are excluded:
	// suspicious prices stay in the baseline, untrimmed.
	PricesSince(ctx context.Context, productIDs []uuid.UUID, listingType models.ListingType, currency models.Currency, since time.Time) ([]int64, error)
	List(ctx context.Context, filter ListingFilter, params utils.PaginationParams) ([]models.Listing, int64, error)
}

// ListingFilter narrows listing reads; zero values mean "any".
type ListingFilter struct {
	ProductID *uuid.UUID
	Type      models.ListingType
	Currency  models.Currency
	Status    models.ListingStatus
}

// ExchangeRepository stores resolved barter rows.
type ExchangeRepository interface {
	Upsert(ctx context.Context, exchange *models.Exchange) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.Exchange, int64, error)
}

// ServiceRepository stores the service catalog and its listings. Services
// are created on first sight, no moderation queue.
type ServiceRepository interface {
	FindOrCreate(ctx context.Context, icon, name, normalized string) (*models.Service, error)
	UpsertListing(ctx context.Context, listing *models.ServiceListing) error
	ListListings(ctx context.Context, params utils.PaginationParams) ([]models.ServiceListing, int64, error)
}
