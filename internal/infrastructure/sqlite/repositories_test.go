package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrowkeeper/escrowkeeper/internal/domain/audit"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/participant"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(context.Background(), db))
	return db
}

func TestDealRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewDealRepository(newTestDB(t))

	now := time.Now().UTC()
	amount, _ := decimal.NewFromString("149.99")
	id, err := repo.Create(ctx, &deal.Deal{
		BuyerID:     1,
		SellerID:    2,
		Amount:      amount,
		Description: "camera lens",
		Status:      deal.StatusAwaitSellerConfirm,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.BuyerID)
	assert.Equal(t, int64(2), got.SellerID)
	assert.Equal(t, "149.99", got.Amount.String())
	assert.Equal(t, "camera lens", got.Description)
	assert.True(t, got.CreatedAt.Equal(now), "timestamps survive the round trip")

	missing, err := repo.GetByID(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDealRepositoryUpdateStatusGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewDealRepository(newTestDB(t))

	now := time.Now().UTC()
	id, err := repo.Create(ctx, &deal.Deal{
		BuyerID: 1, SellerID: 2, Amount: decimal.NewFromInt(10),
		Description: "widget", Status: deal.StatusAwaitSellerConfirm,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	moved, err := repo.UpdateStatus(ctx, id, deal.StatusAwaitSellerConfirm, deal.StatusAwaitPayment, now)
	require.NoError(t, err)
	assert.True(t, moved)

	// A second attempt from the stale status must not match.
	moved, err = repo.UpdateStatus(ctx, id, deal.StatusAwaitSellerConfirm, deal.StatusAwaitPayment, now)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, deal.StatusAwaitPayment, got.Status)
}

func TestParticipantRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewParticipantRepository(newTestDB(t))

	missing, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Upsert(ctx, &participant.Participant{ID: 42, DisplayName: "@alice"}))
	require.NoError(t, repo.Upsert(ctx, &participant.Participant{ID: 42, DisplayName: "@alice_renamed", IsArbiter: true}))

	got, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "@alice_renamed", got.DisplayName)
	assert.True(t, got.IsArbiter)
}

func TestAuditRepositoryAppendOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditRepository(newTestDB(t))

	now := time.Now().UTC()
	for _, action := range []string{"deal created", "seller 2 accepted the deal", "buyer 1 reported payment"} {
		require.NoError(t, repo.Append(ctx, &audit.Entry{DealID: 7, Action: action, CreatedAt: now}))
	}
	require.NoError(t, repo.Append(ctx, &audit.Entry{DealID: 8, Action: "deal created", CreatedAt: now}))

	entries, err := repo.ListByDeal(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "deal created", entries[0].Action)
	assert.Equal(t, "buyer 1 reported payment", entries[2].Action)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].ID, entries[i-1].ID, "append order preserved")
	}
}
