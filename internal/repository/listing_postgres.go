// internal/repository/listing_postgres.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

type postgresListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &postgresListingRepository{db: db}
}

func (r *postgresListingRepository) Upsert(ctx context.Context, listing *models.Listing) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}, {Name: "product_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "currency", "quantity", "enhancement",
			"durability_current", "durability_max",
			"status", "anomaly_reason", "updated_at",
		}),
	}).Create(listing).Error
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}
	return nil
}

func (r *postgresListingRepository) PricesSince(ctx context.Context, productIDs []uuid.UUID, listingType models.ListingType, currency models.Currency, since time.Time) ([]int64, error) {
	var prices []int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("product_id IN ?", productIDs).
		Where("type = ? AND currency = ?", listingType, currency).
		Where("price IS NOT NULL AND posted_at >= ?", since).
		Where("status <> ?", models.ListingStatusInvalid).
		Pluck("price", &prices).Error
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	return prices, nil
}

func (r *postgresListingRepository) List(ctx context.Context, filter ListingFilter, params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Currency != "" {
		query = query.Where("currency = ?", filter.Currency)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	var listings []models.Listing
	query = query.Preload("Product")
	query = utils.ApplySort(query, params, []string{"created_at", "posted_at", "price"})
	if err := utils.ApplyPagination(query, params).Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	return listings, total, nil
}
