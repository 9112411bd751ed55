// internal/repository/exchange_postgres.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

type postgresExchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) ExchangeRepository {
	return &postgresExchangeRepository{db: db}
}

func (r *postgresExchangeRepository) Upsert(ctx context.Context, exchange *models.Exchange) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}, {Name: "give_product_id"}, {Name: "want_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"give_quantity", "want_quantity",
			"surcharge_amount", "surcharge_currency", "surcharge_direction",
			"status", "updated_at",
		}),
	}).Create(exchange).Error
	if err != nil {
		return fmt.Errorf("upsert exchange: %w", err)
	}
	return nil
}

func (r *postgresExchangeRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Exchange, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Exchange{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count exchanges: %w", err)
	}

	var exchanges []models.Exchange
	query = query.Preload("GiveProduct").Preload("WantProduct")
	query = utils.ApplySort(query, params, []string{"created_at", "posted_at"})
	if err := utils.ApplyPagination(query, params).Find(&exchanges).Error; err != nil {
		return nil, 0, fmt.Errorf("list exchanges: %w", err)
	}
	return exchanges, total, nil
}
