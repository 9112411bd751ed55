// internal/repository/pending_postgres.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/utils"
)

type postgresPendingRepository struct {
	db *gorm.DB
}

func NewPendingRepository(db *gorm.DB) PendingRepository {
	return &postgresPendingRepository{db: db}
}

func (r *postgresPendingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductPending, error) {
	var pending models.ProductPending
	if err := r.db.WithContext(ctx).Preload("Suggested").First(&pending, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *postgresPendingRepository) FindApprovedByNormalized(ctx context.Context, normalized string) (*models.ProductPending, error) {
	var pending models.ProductPending
	err := r.db.WithContext(ctx).
		Where("normalized_title = ? AND status = ? AND suggested_id IS NOT NULL",
			normalized, models.PendingStatusApproved).
		Order("reviewed_at DESC").
		First(&pending).Error
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *postgresPendingRepository) RecordOccurrence(ctx context.Context, pending *models.ProductPending) error {
	// Conflict targets match the partial unique indexes on open queue rows;
	// repeats bump the counter and refresh the suggestion. Resolution misses
	// collapse onto one row per title (a name drifting between no_match and
	// low_score keeps a single occurrence count, reason tracking the latest
	// run); conflict reports stay per-reason so an icon and a grade conflict
	// can coexist for the same title.
	updates := map[string]interface{}{
		"occurrences":  gorm.Expr("product_pendings.occurrences + 1"),
		"suggested_id": gorm.Expr("excluded.suggested_id"),
		"match_score":  gorm.Expr("excluded.match_score"),
		"updated_at":   gorm.Expr("NOW()"),
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "normalized_title"}, {Name: "match_reason"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("status = 'pending' AND deleted_at IS NULL AND match_reason IN ('icon_conflict', 'grade_conflict')"),
		}},
	}
	if pending.MatchReason.IsResolutionMiss() {
		updates["match_reason"] = gorm.Expr("excluded.match_reason")
		onConflict.Columns = []clause.Column{{Name: "normalized_title"}}
		onConflict.TargetWhere = clause.Where{Exprs: []clause.Expression{
			gorm.Expr("status = 'pending' AND deleted_at IS NULL AND match_reason IN ('no_match', 'low_score')"),
		}}
	}
	onConflict.DoUpdates = clause.Assignments(updates)

	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(pending).Error; err != nil {
		return fmt.Errorf("record pending occurrence: %w", err)
	}
	return nil
}

func (r *postgresPendingRepository) List(ctx context.Context, status models.PendingStatus, params utils.PaginationParams) ([]models.ProductPending, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductPending{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		query = query.Where("normalized_title LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count pendings: %w", err)
	}

	var pendings []models.ProductPending
	query = query.Preload("Suggested")
	query = utils.ApplySort(query, params, []string{"created_at", "occurrences", "normalized_title"})
	if err := utils.ApplyPagination(query, params).Find(&pendings).Error; err != nil {
		return nil, 0, fmt.Errorf("list pendings: %w", err)
	}
	return pendings, total, nil
}

func (r *postgresPendingRepository) Update(ctx context.Context, pending *models.ProductPending) error {
	if err := r.db.WithContext(ctx).Save(pending).Error; err != nil {
		return fmt.Errorf("update pending: %w", err)
	}
	return nil
}
