package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgmarket/market-backend/internal/models"
)

func newTestModeration(products *fakeProductRepo, pendings *fakePendingRepo) *ModerationService {
	catalog := NewCatalogCache(products, time.Minute)
	return NewModerationService(products, pendings, catalog, testLogger())
}

func queuedPending(pendings *fakePendingRepo, raw string, suggested *uuid.UUID) *models.ProductPending {
	pending := &models.ProductPending{
		RawTitle:        raw,
		NormalizedTitle: NormalizeTitle(raw),
		MatchReason:     models.MatchReasonNoMatch,
		SuggestedID:     suggested,
	}
	pendings.RecordOccurrence(context.Background(), pending)
	return pending
}

func TestModerationApprove(t *testing.T) {
	ctx := context.Background()
	product := catalogProduct("Чекан Маржаны", "", "")
	products := newFakeProductRepo(product)
	pendings := &fakePendingRepo{}
	pending := queuedPending(pendings, "Чикан Маржаны", nil)
	svc := newTestModeration(products, pendings)

	approved, err := svc.Approve(ctx, pending.ID, product.ID, "misspelling")
	require.NoError(t, err)
	assert.Equal(t, models.PendingStatusApproved, approved.Status)
	require.NotNil(t, approved.SuggestedID)
	assert.Equal(t, product.ID, *approved.SuggestedID)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, "misspelling", approved.AdminComment)

	// approving twice is rejected
	_, err = svc.Approve(ctx, pending.ID, product.ID, "")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestModerationApproveUsesSuggestion(t *testing.T) {
	ctx := context.Background()
	product := catalogProduct("Чекан Маржаны", "", "")
	products := newFakeProductRepo(product)
	pendings := &fakePendingRepo{}
	pending := queuedPending(pendings, "Чикан Маржаны", &product.ID)
	svc := newTestModeration(products, pendings)

	approved, err := svc.Approve(ctx, pending.ID, uuid.Nil, "")
	require.NoError(t, err)
	assert.Equal(t, product.ID, *approved.SuggestedID)
}

func TestModerationCreateProduct(t *testing.T) {
	ctx := context.Background()
	products := newFakeProductRepo()
	pendings := &fakePendingRepo{}
	pending := queuedPending(pendings, "Философский камень", nil)
	pending.Icon = "🪨"
	pending.Grade = "II"
	svc := newTestModeration(products, pendings)

	product, err := svc.CreateProduct(ctx, pending.ID, "new item")
	require.NoError(t, err)
	assert.Equal(t, "Философский камень", product.Name)
	assert.Equal(t, "философский камень", product.NormalizedName)
	assert.Equal(t, "🪨", product.Icon)
	assert.Equal(t, "II", product.Grade)
	assert.True(t, product.IsVerified)

	// the new product is immediately resolvable
	found, err := products.FindByNormalized(ctx, "философский камень", "II")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestModerationMerge(t *testing.T) {
	ctx := context.Background()
	product := catalogProduct("Чекан Маржаны", "", "")
	products := newFakeProductRepo(product)
	pendings := &fakePendingRepo{}
	pending := queuedPending(pendings, "Чекан Маржан", nil)
	svc := newTestModeration(products, pendings)

	alias, err := svc.Merge(ctx, pending.ID, product.ID, "duplicate")
	require.NoError(t, err)
	require.NotNil(t, alias.ParentID)
	assert.Equal(t, product.ID, *alias.ParentID)
	assert.Equal(t, product.ID, alias.EffectiveID())

	// the alias spelling now resolves exactly, onto the family
	found, err := products.FindByNormalized(ctx, "чекан маржан", "")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.EffectiveID())

	family, err := products.FamilyIDs(ctx, alias.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{product.ID, alias.ID}, family)
}

func TestModerationReject(t *testing.T) {
	ctx := context.Background()
	products := newFakeProductRepo()
	pendings := &fakePendingRepo{}
	pending := queuedPending(pendings, "мусорная строка", nil)
	svc := newTestModeration(products, pendings)

	rejected, err := svc.Reject(ctx, pending.ID, "not a product")
	require.NoError(t, err)
	assert.Equal(t, models.PendingStatusRejected, rejected.Status)
	assert.Empty(t, products.products)
}
