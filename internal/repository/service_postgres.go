// internal/repository/service_postgres.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

type postgresServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &postgresServiceRepository{db: db}
}

func (r *postgresServiceRepository) FindOrCreate(ctx context.Context, icon, name, normalized string) (*models.Service, error) {
	service := &models.Service{
		Icon:           icon,
		Name:           name,
		NormalizedName: normalized,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized_name"}},
		DoNothing: true,
	}).Create(service).Error
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	if err := r.db.WithContext(ctx).First(service, "normalized_name = ?", normalized).Error; err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}

	// First sighting may have had no icon; keep the earliest one seen.
	if service.Icon == "" && icon != "" {
		if err := r.db.WithContext(ctx).Model(service).Update("icon", icon).Error; err != nil {
			return nil, fmt.Errorf("backfill service icon: %w", err)
		}
		service.Icon = icon
	}
	return service, nil
}

func (r *postgresServiceRepository) UpsertListing(ctx context.Context, listing *models.ServiceListing) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}, {Name: "service_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "currency", "description", "status", "updated_at",
		}),
	}).Create(listing).Error
	if err != nil {
		return fmt.Errorf("upsert service listing: %w", err)
	}
	return nil
}

func (r *postgresServiceRepository) ListListings(ctx context.Context, params utils.PaginationParams) ([]models.ServiceListing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ServiceListing{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count service listings: %w", err)
	}

	var listings []models.ServiceListing
	query = query.Preload("Service")
	query = utils.ApplySort(query, params, []string{"created_at", "posted_at", "price"})
	if err := utils.ApplyPagination(query, params).Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("list service listings: %w", err)
	}
	return listings, total, nil
}
