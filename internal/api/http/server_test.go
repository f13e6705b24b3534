package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrowkeeper/escrowkeeper/internal/application/lifecycle"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
	"github.com/escrowkeeper/escrowkeeper/internal/infrastructure/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *lifecycle.Service) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.InitSchema(context.Background(), db))

	svc := lifecycle.NewService(
		sqlite.NewDealRepository(db),
		sqlite.NewAuditRepository(db),
		[]int64{900},
		zerolog.Nop(),
	)
	ts := httptest.NewServer(NewServer(svc).Router())
	t.Cleanup(ts.Close)
	return ts, svc
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	status := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGetDeal(t *testing.T) {
	ts, svc := newTestServer(t)
	d, err := svc.Create(context.Background(), 100, 200, decimal.NewFromInt(75), "poster print")
	require.NoError(t, err)

	var body map[string]any
	status := getJSON(t, ts.URL+"/v1/deals/1", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, d.ID, body["id"])
	assert.Equal(t, string(deal.StatusAwaitSellerConfirm), body["status"])
	assert.Equal(t, "poster print", body["description"])

	status = getJSON(t, ts.URL+"/v1/deals/999", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])

	status = getJSON(t, ts.URL+"/v1/deals/bogus", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetDealAudit(t *testing.T) {
	ts, svc := newTestServer(t)
	ctx := context.Background()
	d, err := svc.Create(ctx, 100, 200, decimal.NewFromInt(75), "poster print")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, d.ID, 200, deal.EventSellerAccept)
	require.NoError(t, err)

	var body struct {
		DealID  int64 `json:"dealId"`
		Entries []struct {
			Action string `json:"action"`
		} `json:"entries"`
	}
	status := getJSON(t, ts.URL+"/v1/deals/1/audit", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, d.ID, body.DealID)
	require.Len(t, body.Entries, 2)
	assert.Contains(t, body.Entries[0].Action, "deal created")
	assert.Contains(t, body.Entries[1].Action, "accepted")

	status = getJSON(t, ts.URL+"/v1/deals/999/audit", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListDisputes(t *testing.T) {
	ts, svc := newTestServer(t)
	ctx := context.Background()

	var body struct {
		Disputes []json.RawMessage `json:"disputes"`
	}
	status := getJSON(t, ts.URL+"/v1/disputes", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body.Disputes)

	d, err := svc.Create(ctx, 100, 200, decimal.NewFromInt(75), "poster print")
	require.NoError(t, err)
	for _, step := range []struct {
		actor int64
		event deal.Event
	}{
		{200, deal.EventSellerAccept},
		{100, deal.EventBuyerPaid},
		{200, deal.EventSellerDelivered},
		{100, deal.EventBuyerDispute},
	} {
		_, err = svc.Apply(ctx, d.ID, step.actor, step.event)
		require.NoError(t, err)
	}

	status = getJSON(t, ts.URL+"/v1/disputes", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Disputes, 1)
}
