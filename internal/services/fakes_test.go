package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
	"github.com/tgmarket/market-backend/internal/utils"
)

// In-memory repository fakes so service logic is tested without a database.

type fakeProductRepo struct {
	products []*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	return &fakeProductRepo{products: products}
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByNormalized(ctx context.Context, normalized, grade string) (*models.Product, error) {
	for _, p := range r.products {
		if p.Status != models.ProductStatusOK || p.NormalizedName != normalized {
			continue
		}
		if grade != "" && p.Grade != "" && p.Grade != grade {
			continue
		}
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.Status == models.ProductStatusOK {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FamilyIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	root := product.EffectiveID()
	ids := []uuid.UUID{root}
	for _, p := range r.products {
		if p.ParentID != nil && *p.ParentID == root {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *fakeProductRepo) BackfillIcon(ctx context.Context, id uuid.UUID, icon string) (bool, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p.Icon != "" {
		return false, nil
	}
	p.Icon = icon
	return true, nil
}

func (r *fakeProductRepo) BackfillGrade(ctx context.Context, id uuid.UUID, grade string) (bool, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p.Grade != "" {
		return false, nil
	}
	p.Grade = grade
	return true, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products = append(r.products, product)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakePendingRepo struct {
	rows []*models.ProductPending
}

func (r *fakePendingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductPending, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePendingRepo) FindApprovedByNormalized(ctx context.Context, normalized string) (*models.ProductPending, error) {
	for _, row := range r.rows {
		if row.NormalizedTitle == normalized && row.Status == models.PendingStatusApproved && row.SuggestedID != nil {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePendingRepo) RecordOccurrence(ctx context.Context, pending *models.ProductPending) error {
	for _, row := range r.rows {
		if row.NormalizedTitle != pending.NormalizedTitle || row.Status != models.PendingStatusPending {
			continue
		}
		// misses collapse per title; conflict reports match per reason
		if pending.MatchReason.IsResolutionMiss() {
			if !row.MatchReason.IsResolutionMiss() {
				continue
			}
			row.MatchReason = pending.MatchReason
		} else if row.MatchReason != pending.MatchReason {
			continue
		}
		row.Occurrences++
		row.SuggestedID = pending.SuggestedID
		row.MatchScore = pending.MatchScore
		return nil
	}
	pending.ID = uuid.New()
	pending.Occurrences = 1
	pending.Status = models.PendingStatusPending
	r.rows = append(r.rows, pending)
	return nil
}

func (r *fakePendingRepo) List(ctx context.Context, status models.PendingStatus, params utils.PaginationParams) ([]models.ProductPending, int64, error) {
	var out []models.ProductPending
	for _, row := range r.rows {
		if status == "" || row.Status == status {
			out = append(out, *row)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePendingRepo) Update(ctx context.Context, pending *models.ProductPending) error {
	for i, row := range r.rows {
		if row.ID == pending.ID {
			r.rows[i] = pending
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePendingRepo) open(reason models.MatchReason) []*models.ProductPending {
	var out []*models.ProductPending
	for _, row := range r.rows {
		if row.Status == models.PendingStatusPending && row.MatchReason == reason {
			out = append(out, row)
		}
	}
	return out
}

// priceSample is one preset history row; status matters because invalid
// rows never reach the anomaly baseline while suspicious rows stay in it.
type priceSample struct {
	price  int64
	status models.ListingStatus
}

func okPrices(prices ...int64) []priceSample {
	samples := make([]priceSample, 0, len(prices))
	for _, p := range prices {
		samples = append(samples, priceSample{price: p, status: models.ListingStatusOK})
	}
	return samples
}

type fakeListingRepo struct {
	listings []*models.Listing
	history  []priceSample
}

func (r *fakeListingRepo) Upsert(ctx context.Context, listing *models.Listing) error {
	for i, existing := range r.listings {
		if existing.MessageID == listing.MessageID &&
			existing.ProductID == listing.ProductID &&
			existing.Type == listing.Type {
			r.listings[i] = listing
			return nil
		}
	}
	r.listings = append(r.listings, listing)
	return nil
}

func (r *fakeListingRepo) PricesSince(ctx context.Context, productIDs []uuid.UUID, listingType models.ListingType, currency models.Currency, since time.Time) ([]int64, error) {
	var prices []int64
	for _, s := range r.history {
		if s.status == models.ListingStatusInvalid {
			continue
		}
		prices = append(prices, s.price)
	}
	return prices, nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter repository.ListingFilter, params utils.PaginationParams) ([]models.Listing, int64, error) {
	var out []models.Listing
	for _, l := range r.listings {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

type fakeExchangeRepo struct {
	exchanges []*models.Exchange
}

func (r *fakeExchangeRepo) Upsert(ctx context.Context, exchange *models.Exchange) error {
	r.exchanges = append(r.exchanges, exchange)
	return nil
}

func (r *fakeExchangeRepo) List(ctx context.Context, params utils.PaginationParams) ([]models.Exchange, int64, error) {
	var out []models.Exchange
	for _, e := range r.exchanges {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

type fakeServiceRepo struct {
	services []*models.Service
	listings []*models.ServiceListing
}

func (r *fakeServiceRepo) FindOrCreate(ctx context.Context, icon, name, normalized string) (*models.Service, error) {
	for _, s := range r.services {
		if s.NormalizedName == normalized {
			return s, nil
		}
	}
	service := &models.Service{Icon: icon, Name: name, NormalizedName: normalized}
	service.ID = uuid.New()
	r.services = append(r.services, service)
	return service, nil
}

func (r *fakeServiceRepo) UpsertListing(ctx context.Context, listing *models.ServiceListing) error {
	r.listings = append(r.listings, listing)
	return nil
}

func (r *fakeServiceRepo) ListListings(ctx context.Context, params utils.PaginationParams) ([]models.ServiceListing, int64, error) {
	var out []models.ServiceListing
	for _, l := range r.listings {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

type fakeMessageRepo struct {
	messages []*models.Message
	parsed   []uuid.UUID
}

func (r *fakeMessageRepo) UpsertRaw(ctx context.Context, user *models.ChatUser, msg *models.Message) (*models.Message, error) {
	for _, existing := range r.messages {
		if existing.PlatformMessageID == msg.PlatformMessageID && existing.PlatformChatID == msg.PlatformChatID {
			return existing, nil
		}
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if user != nil {
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		msg.ChatUserID = &user.ID
	}
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *fakeMessageRepo) ListUnparsed(ctx context.Context, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if !m.IsParsed {
			out = append(out, *m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkParsed(ctx context.Context, id uuid.UUID) error {
	for _, m := range r.messages {
		if m.ID == id {
			m.IsParsed = true
		}
	}
	r.parsed = append(r.parsed, id)
	return nil
}
