// internal/repository/product_postgres.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

type postgresProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *postgresProductRepository) FindByNormalized(ctx context.Context, normalized, grade string) (*models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("normalized_name = ? AND status = ?", normalized, models.ProductStatusOK)
	if grade != "" {
		query = query.Where("grade = ? OR grade = ''", grade)
	}

	var product models.Product
	// Prefer the graded row over a gradeless one when both exist.
	if err := query.Order("grade DESC").First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *postgresProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusOK).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) FamilyIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	root := product.EffectiveID()
	var ids []uuid.UUID
	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? OR parent_id = ?", root, root).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("product family: %w", err)
	}
	return ids, nil
}

func (r *postgresProductRepository) BackfillIcon(ctx context.Context, id uuid.UUID, icon string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND (icon IS NULL OR icon = '')", id).
		Update("icon", icon)
	if result.Error != nil {
		return false, fmt.Errorf("backfill icon: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postgresProductRepository) BackfillGrade(ctx context.Context, id uuid.UUID, grade string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND (grade IS NULL OR grade = '')", id).
		Update("grade", grade)
	if result.Error != nil {
		return false, fmt.Errorf("backfill grade: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Search != "" {
		query = query.Where("normalized_name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, []string{"created_at", "name", "normalized_name"})
	if err := utils.ApplyPagination(query, params).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}
