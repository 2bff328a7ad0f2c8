package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"salesdash/internal/engine"
	"salesdash/internal/export"
	"salesdash/internal/models"
)

// LoadFunc acquires and normalizes a fresh row set, used at boot and on
// explicit reload.
type LoadFunc func(ctx context.Context) ([]models.SalesRecord, error)

type Handler struct {
	store *engine.Store
	load  LoadFunc
}

func NewHandler(store *engine.Store, load LoadFunc) *Handler {
	return &Handler{store: store, load: load}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/options", h.GetOptions)
	api.GET("/items", h.GetItems)
	api.GET("/export/csv", h.ExportCSV)
	api.GET("/export/pdf", h.ExportPDF)
	api.POST("/reload", h.Reload)
}

// --- HANDLERS ---

func parseFilterState(c echo.Context) models.FilterState {
	q := c.QueryParams()
	return models.FilterState{
		Divisions:     q["division"],
		Departments:   q["department"],
		Categories:    q["category"],
		Subcategories: q["subcategory"],
		Classes:       q["class"],
		Branches:      q["branch"],
		Brands:        q["brand"],
		Items:         q["item"],
		SaleType:      models.ParseSaleType(c.QueryParam("saleType")),
		Search:        c.QueryParam("search"),
	}
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) loading(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"status": "loading", "message": "data is still loading, retry shortly",
	})
}

func (h *Handler) GetDashboard(c echo.Context) error {
	if !h.store.Ready() {
		return h.loading(c)
	}
	rows, snapshot := h.store.Rows()

	data, err := engine.Process(rows, parseFilterState(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	data.SnapshotID = snapshot
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) GetOptions(c echo.Context) error {
	if !h.store.Ready() {
		return h.loading(c)
	}
	rows, _ := h.store.Rows()
	return c.JSON(http.StatusOK, engine.Options(rows, parseFilterState(c)))
}

// drilldown recomputes the entity rows for one dimension under the request's
// filter state, sorted per the request.
func (h *Handler) drilldown(c echo.Context) ([]models.EntitySalesRow, string, error) {
	rows, _ := h.store.Rows()
	f := parseFilterState(c)

	dim := c.QueryParam("dim")
	if dim == "" {
		dim = models.DimItem
	}

	list, err := engine.AggregateDimension(engine.ApplyFilter(rows, f), dim, f.SaleType)
	if err != nil {
		return nil, dim, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	field, desc := engine.ParseSortParam(c.QueryParam("sort"))
	engine.SortRows(list, field, desc)
	return list, dim, nil
}

func (h *Handler) GetItems(c echo.Context) error {
	if !h.store.Ready() {
		return h.loading(c)
	}
	list, _, err := h.drilldown(c)
	if err != nil {
		return err
	}

	total := len(list)
	limit, offset := getPaginationParams(c, total)
	if offset >= total {
		list = []models.EntitySalesRow{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		list = list[offset:end]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   list,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) ExportCSV(c echo.Context) error {
	if !h.store.Ready() {
		return h.loading(c)
	}
	list, dim, err := h.drilldown(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, list); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sales_%s.csv"`, dim))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) ExportPDF(c echo.Context) error {
	if !h.store.Ready() {
		return h.loading(c)
	}
	list, dim, err := h.drilldown(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("Sales by %s", dim)
	if err := export.WritePDF(&buf, title, list); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sales_%s.pdf"`, dim))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// Reload re-runs the source chain and swaps the row set in whole.
func (h *Handler) Reload(c echo.Context) error {
	if h.load == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "no loader configured")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	records, err := h.load(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	snapshot := h.store.Replace(records)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"snapshot_id": snapshot,
		"rows":        len(records),
	})
}

func (h *Handler) Health(c echo.Context) error {
	status := "ok"
	if !h.store.Ready() {
		status = "loading"
	}
	rows, snapshot := h.store.Rows()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      status,
		"rows":        len(rows),
		"snapshot_id": snapshot,
		"loaded_at":   h.store.LoadedAt(),
	})
}
