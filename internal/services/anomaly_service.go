// internal/services/anomaly_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgmarket/market-backend/internal/config"
	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
)

// AnomalyService flags listing prices that deviate too far from the recent
// average for the same product, side and currency. Price history is read
// across the whole alias family so merged duplicates share one baseline.
type AnomalyService struct {
	listings repository.ListingRepository
	products repository.ProductRepository
	cfg      config.AnomalyConfig
	now      func() time.Time
}

func NewAnomalyService(listings repository.ListingRepository, products repository.ProductRepository, cfg config.AnomalyConfig) *AnomalyService {
	return &AnomalyService{
		listings: listings,
		products: products,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Check grades a price against the recent window. With fewer than
// MinSamples prior prices the listing passes unflagged; there is no
// baseline to judge it by.
func (s *AnomalyService) Check(ctx context.Context, productID uuid.UUID, listingType models.ListingType, currency models.Currency, price int64) (models.ListingStatus, string, error) {
	family, err := s.products.FamilyIDs(ctx, productID)
	if err != nil {
		return models.ListingStatusOK, "", fmt.Errorf("price anomaly: %w", err)
	}

	since := s.now().AddDate(0, 0, -s.cfg.WindowDays)
	prices, err := s.listings.PricesSince(ctx, family, listingType, currency, since)
	if err != nil {
		return models.ListingStatusOK, "", fmt.Errorf("price anomaly: %w", err)
	}

	if len(prices) < s.cfg.MinSamples {
		return models.ListingStatusOK, "", nil
	}

	var sum int64
	for _, p := range prices {
		sum += p
	}
	mean := float64(sum) / float64(len(prices))
	if mean == 0 {
		return models.ListingStatusOK, "", nil
	}

	deviation := (float64(price) - mean) / mean * 100
	magnitude := deviation
	direction := "above"
	if magnitude < 0 {
		magnitude = -magnitude
		direction = "below"
	}

	if magnitude <= s.cfg.ThresholdPercent {
		return models.ListingStatusOK, "", nil
	}

	reason := fmt.Sprintf("price %d%s is %.1f%% %s the %d-day average of %.0f (%d samples)",
		price, currencySymbol(currency), magnitude, direction, s.cfg.WindowDays, mean, len(prices))
	return models.ListingStatusSuspicious, reason, nil
}

func currencySymbol(currency models.Currency) string {
	if currency == models.CurrencyCookie {
		return "🍪"
	}
	return "💰"
}
