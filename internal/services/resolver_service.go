// internal/services/resolver_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tgmarket/market-backend/internal/cache"
	"github.com/tgmarket/market-backend/internal/config"
	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/utils"
)

// MatchTier says which resolution tier produced a match.
type MatchTier string

const (
	MatchExact    MatchTier = "exact"
	MatchApproved MatchTier = "approved"
	MatchFuzzy    MatchTier = "fuzzy"
)

// ResolveResult is a successful product resolution. A nil result with a nil
// error means the name was queued for moderation instead.
type ResolveResult struct {
	Product *models.Product
	Tier    MatchTier
	Score   float64
}

// ResolverService maps free-text product names onto the moderated catalog:
// exact normalized match first, then previously approved queue entries,
// then fuzzy similarity against the catalog snapshot. Anything below the
// accept threshold lands in the moderation queue.
type ResolverService struct {
	products repository.ProductRepository
	pendings repository.PendingRepository
	catalog  *CatalogCache
	results  cache.Cache
	cfg      config.MatchingConfig
	log      *logrus.Logger
}

func NewResolverService(
	products repository.ProductRepository,
	pendings repository.PendingRepository,
	catalog *CatalogCache,
	results cache.Cache,
	cfg config.MatchingConfig,
	log *logrus.Logger,
) *ResolverService {
	return &ResolverService{
		products: products,
		pendings: pendings,
		catalog:  catalog,
		results:  results,
		cfg:      cfg,
		log:      log,
	}
}

// Resolve maps one raw name (with optional grade and icon context) to a
// catalog product. Queued names return (nil, nil); the caller skips the row.
func (s *ResolverService) Resolve(ctx context.Context, rawName, grade, icon string) (*ResolveResult, error) {
	normalized := NormalizeTitle(rawName)
	if normalized == "" {
		return nil, nil
	}

	if result := s.cachedResult(ctx, normalized, grade); result != nil {
		s.backfill(ctx, result.Product, icon, grade)
		return result, nil
	}

	result, err := s.resolveUncached(ctx, rawName, normalized, grade, icon)
	if err != nil || result == nil {
		return result, err
	}

	s.backfill(ctx, result.Product, icon, grade)
	s.storeResult(ctx, normalized, grade, result.Product.ID)
	return result, nil
}

func (s *ResolverService) resolveUncached(ctx context.Context, rawName, normalized, grade, icon string) (*ResolveResult, error) {
	// Tier 1: exact normalized name with a compatible grade.
	product, err := s.products.FindByNormalized(ctx, normalized, grade)
	if err == nil {
		return &ResolveResult{Product: product, Tier: MatchExact, Score: 100}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("exact lookup: %w", err)
	}

	// Tier 2: this exact spelling was already approved by a moderator.
	pending, err := s.pendings.FindApprovedByNormalized(ctx, normalized)
	if err == nil && pending.SuggestedID != nil {
		product, err := s.products.FindByID(ctx, *pending.SuggestedID)
		if err != nil {
			return nil, fmt.Errorf("approved product lookup: %w", err)
		}
		return &ResolveResult{Product: product, Tier: MatchApproved, Score: 100}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("approved lookup: %w", err)
	}

	// Tier 3: fuzzy similarity over grade-compatible catalog entries.
	entries, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}

	var (
		bestID    uuid.UUID
		bestScore float64
	)
	for _, entry := range entries {
		if grade != "" && entry.Grade != "" && entry.Grade != grade {
			continue
		}
		score := utils.SimilarityPercent(normalized, entry.NormalizedName)
		if score > bestScore {
			bestID, bestScore = entry.ID, score
		}
	}

	if bestScore >= s.cfg.AcceptThreshold {
		product, err := s.products.FindByID(ctx, bestID)
		if err != nil {
			return nil, fmt.Errorf("fuzzy product lookup: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"raw":     rawName,
			"product": product.Name,
			"score":   bestScore,
		}).Debug("fuzzy matched product")
		return &ResolveResult{Product: product, Tier: MatchFuzzy, Score: bestScore}, nil
	}

	// No confident match; queue for moderation, with the near miss attached
	// when one exists.
	queued := &models.ProductPending{
		RawTitle:        rawName,
		NormalizedTitle: normalized,
		Grade:           grade,
		Icon:            icon,
		MatchReason:     models.MatchReasonNoMatch,
	}
	if bestScore >= s.cfg.SuggestThreshold {
		queued.MatchReason = models.MatchReasonLowScore
		queued.SuggestedID = &bestID
		queued.MatchScore = &bestScore
	}
	if err := s.pendings.RecordOccurrence(ctx, queued); err != nil {
		return nil, fmt.Errorf("queue pending: %w", err)
	}
	return nil, nil
}

// backfill fills a missing icon or grade from the incoming line, and queues
// a conflict report when the line disagrees with the catalog. Existing
// catalog values are never overwritten.
func (s *ResolverService) backfill(ctx context.Context, product *models.Product, icon, grade string) {
	if icon != "" {
		switch {
		case product.Icon == "":
			if updated, err := s.products.BackfillIcon(ctx, product.ID, icon); err != nil {
				s.log.WithError(err).Warn("icon backfill failed")
			} else if updated {
				product.Icon = icon
			}
		case product.Icon != icon:
			s.queueConflict(ctx, product, icon, grade, models.MatchReasonIconConflict)
		}
	}

	if grade != "" {
		switch {
		case product.Grade == "":
			if updated, err := s.products.BackfillGrade(ctx, product.ID, grade); err != nil {
				s.log.WithError(err).Warn("grade backfill failed")
			} else if updated {
				product.Grade = grade
			}
		case product.Grade != grade:
			s.queueConflict(ctx, product, icon, grade, models.MatchReasonGradeConflict)
		}
	}
}

func (s *ResolverService) queueConflict(ctx context.Context, product *models.Product, icon, grade string, reason models.MatchReason) {
	pending := &models.ProductPending{
		RawTitle:        product.Name,
		NormalizedTitle: product.NormalizedName,
		Grade:           grade,
		Icon:            icon,
		SuggestedID:     &product.ID,
		MatchReason:     reason,
	}
	if err := s.pendings.RecordOccurrence(ctx, pending); err != nil {
		s.log.WithError(err).WithField("reason", reason).Warn("conflict report failed")
	}
}

func (s *ResolverService) cachedResult(ctx context.Context, normalized, grade string) *ResolveResult {
	if s.results == nil {
		return nil
	}
	raw, err := s.results.Get(ctx, resolveCacheKey(normalized, grade))
	if err != nil {
		return nil
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return nil
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	return &ResolveResult{Product: product, Tier: MatchExact, Score: 100}
}

func (s *ResolverService) storeResult(ctx context.Context, normalized, grade string, id uuid.UUID) {
	if s.results == nil {
		return
	}
	ttl := time.Duration(s.cfg.ResolveCacheTTL) * time.Second
	if err := s.results.Set(ctx, resolveCacheKey(normalized, grade), id[:], ttl); err != nil {
		s.log.WithError(err).Debug("resolve cache store failed")
	}
}

func resolveCacheKey(normalized, grade string) string {
	return "resolve:" + grade + "|" + normalized
}
