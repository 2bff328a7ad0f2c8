package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/engine"
	"salesdash/internal/models"
)

func testRecords() []models.SalesRecord {
	rows := []models.SalesRecord{
		{
			Division: "A", Brand: "X", BranchName: "MAIN",
			ItemDescription: "ITEM-1", ItemCode: "I1",
			TotalSales2025: 100, CashSales2025: 60, CreditSales2025: 40,
		},
		{
			Division: "A", Brand: "Y", BranchName: "MAIN",
			ItemDescription: "ITEM-2", ItemCode: "I2",
			TotalSales2024: 50, CashSales2024: 50,
		},
		{
			Division: "B", Brand: "Z", BranchName: "EAST",
			ItemDescription: "ITEM-3", ItemCode: "I3",
			TotalSales2024: 30, TotalSales2025: 45,
		},
	}
	for i := range rows {
		rows[i].SearchIndex = engine.BuildSearchIndex(&rows[i])
	}
	return rows
}

func newTestServer(t *testing.T, load LoadFunc) (*echo.Echo, *engine.Store) {
	t.Helper()
	e := echo.New()
	store := engine.NewStore()
	NewHandler(store, load).RegisterRoutes(e)
	return e, store
}

func doJSON(t *testing.T, e *echo.Echo, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestDashboardLoadingGate(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doJSON(t, e, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboard(t *testing.T) {
	e, store := newTestServer(t, nil)
	snapshot := store.Replace(testRecords())

	var data models.ProcessedData
	rec := doJSON(t, e, http.MethodGet, "/api/dashboard", &data)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, snapshot, data.SnapshotID)
	assert.Equal(t, 3, data.RowCount)
	assert.Equal(t, models.SaleTypeAll, data.SaleType)
	assert.Equal(t, 145.0, data.Totals.Sales2025)
	require.Len(t, data.Items, 3)
	assert.Equal(t, "ITEM-1", data.Items[0].Name)
}

func TestDashboardFiltered(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	var data models.ProcessedData
	rec := doJSON(t, e, http.MethodGet, "/api/dashboard?division=A&saleType=CASH", &data)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, data.RowCount)
	assert.Equal(t, models.SaleTypeCash, data.SaleType)
	assert.Equal(t, 50.0, data.Totals.Sales2024)
	assert.Equal(t, 60.0, data.Totals.Sales2025)
}

func TestDashboardGrowthSentinelJSON(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	rec := doJSON(t, e, http.MethodGet, "/api/dashboard?brand=X", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"growth":"New"`)
}

func TestItemsSortAndPagination(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	var resp struct {
		Data  []models.EntitySalesRow `json:"data"`
		Total int                     `json:"total"`
	}
	rec := doJSON(t, e, http.MethodGet, "/api/items?sort=sales_2024:desc&limit=2", &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "ITEM-2", resp.Data[0].Name)
}

func TestItemsDimensionParam(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	var resp struct {
		Data []models.EntitySalesRow `json:"data"`
	}
	rec := doJSON(t, e, http.MethodGet, "/api/items?dim=brand", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data, 3)

	rec = doJSON(t, e, http.MethodGet, "/api/items?dim=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptions(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	var opts models.FilterOptions
	rec := doJSON(t, e, http.MethodGet, "/api/options?division=A", &opts)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"X", "Y"}, opts.Brands)
	assert.Equal(t, []string{"MAIN"}, opts.Branches)
}

func TestExportCSVEndpoint(t *testing.T) {
	e, store := newTestServer(t, nil)
	store.Replace(testRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/export/csv?dim=brand", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "sales_brand.csv")
	assert.Contains(t, rec.Body.String(), "New")
}

func TestReload(t *testing.T) {
	load := func(context.Context) ([]models.SalesRecord, error) {
		return testRecords()[:1], nil
	}
	e, store := newTestServer(t, load)

	var resp map[string]any
	rec := doJSON(t, e, http.MethodPost, "/api/reload", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["rows"])
	assert.Equal(t, 1, store.Len())
}

func TestReloadFailureKeepsOldRows(t *testing.T) {
	load := func(context.Context) ([]models.SalesRecord, error) {
		return nil, errors.New("upstream gone")
	}
	e, store := newTestServer(t, load)
	store.Replace(testRecords())

	rec := doJSON(t, e, http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 3, store.Len())
}

func TestHealth(t *testing.T) {
	e, store := newTestServer(t, nil)

	var body map[string]any
	rec := doJSON(t, e, http.MethodGet, "/health", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loading", body["status"])

	store.Replace(testRecords())
	rec = doJSON(t, e, http.MethodGet, "/health", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["rows"])
}
