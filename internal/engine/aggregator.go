package engine

import (
	"fmt"

	"salesdash/internal/models"
)

// entityAggregate accumulates the six metric sums for one group during a
// single pass. Code keeps the first value seen for the key and is never
// reconciled against later rows.
type entityAggregate struct {
	name string
	code string

	cash2024   float64
	credit2024 float64
	total2024  float64
	cash2025   float64
	credit2025 float64
	total2025  float64
}

// KeyFunc extracts the grouping key for a dimension from a row.
type KeyFunc func(*models.SalesRecord) string

// dimension binds a ProcessedData dimension name to its key and
// representative-code extractors.
type dimension struct {
	key  KeyFunc
	code KeyFunc
}

var dimensions = map[string]dimension{
	models.DimDivision:    {key: func(r *models.SalesRecord) string { return r.Division }},
	models.DimDepartment:  {key: func(r *models.SalesRecord) string { return r.Department }},
	models.DimCategory:    {key: func(r *models.SalesRecord) string { return r.Category }},
	models.DimSubcategory: {key: func(r *models.SalesRecord) string { return r.Subcategory }},
	models.DimClass:       {key: func(r *models.SalesRecord) string { return r.Class }},
	models.DimBrand:       {key: func(r *models.SalesRecord) string { return r.Brand }},
	models.DimBranch: {
		key:  func(r *models.SalesRecord) string { return r.BranchName },
		code: func(r *models.SalesRecord) string { return r.BranchCode },
	},
	models.DimItem: {
		key:  func(r *models.SalesRecord) string { return r.ItemDescription },
		code: func(r *models.SalesRecord) string { return r.ItemCode },
	},
}

// AggregateBy groups rows by keyFn in one pass and emits one EntitySalesRow
// per non-empty group, in first-seen key order. All six metrics accumulate
// regardless of mode; mode only selects which pair lands in Sales2024/2025.
// Rows with a blank key never form a group. codeFn may be nil.
func AggregateBy(rows []models.SalesRecord, keyFn KeyFunc, codeFn KeyFunc, mode models.SaleType) []models.EntitySalesRow {
	groups := make(map[string]*entityAggregate)
	order := make([]string, 0, 64)

	for i := range rows {
		r := &rows[i]
		key := keyFn(r)
		if key == "" {
			continue
		}
		agg, ok := groups[key]
		if !ok {
			agg = &entityAggregate{name: key}
			if codeFn != nil {
				agg.code = codeFn(r)
			}
			groups[key] = agg
			order = append(order, key)
		}
		agg.cash2024 += r.CashSales2024
		agg.credit2024 += r.CreditSales2024
		agg.total2024 += r.TotalSales2024
		agg.cash2025 += r.CashSales2025
		agg.credit2025 += r.CreditSales2025
		agg.total2025 += r.TotalSales2025
	}

	out := make([]models.EntitySalesRow, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		s24, s25 := selectSales(agg, mode)
		out = append(out, models.EntitySalesRow{
			Name:            agg.name,
			Code:            agg.code,
			Sales2024:       s24,
			Sales2025:       s25,
			CashSales2024:   agg.cash2024,
			CreditSales2024: agg.credit2024,
			CashSales2025:   agg.cash2025,
			CreditSales2025: agg.credit2025,
			Growth:          GrowthRate(s25, s24),
		})
	}
	return out
}

func selectSales(agg *entityAggregate, mode models.SaleType) (s24, s25 float64) {
	switch mode {
	case models.SaleTypeCash:
		return agg.cash2024, agg.cash2025
	case models.SaleTypeCredit:
		return agg.credit2024, agg.credit2025
	default:
		return agg.total2024, agg.total2025
	}
}

// AggregateDimension runs AggregateBy for a named dimension.
func AggregateDimension(rows []models.SalesRecord, dim string, mode models.SaleType) ([]models.EntitySalesRow, error) {
	d, ok := dimensions[dim]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
	return AggregateBy(rows, d.key, d.code, mode), nil
}

// Process runs one full recompute: filter, aggregate every dimension over
// the identical filtered subset, then derive growth, Pareto, new/lost and
// counts. The returned graph is freshly built and never mutated afterward;
// on failure the caller gets a single error and no partial result.
func Process(rows []models.SalesRecord, f models.FilterState) (data *models.ProcessedData, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("dashboard recompute failed: %v", r)
		}
	}()

	if f.SaleType == "" {
		f.SaleType = models.SaleTypeAll
	}
	filtered := ApplyFilter(rows, f)

	data = &models.ProcessedData{
		SaleType:     f.SaleType,
		RowCount:     len(filtered),
		Pareto:       make(map[string]models.ParetoResult),
		ParetoRows:   make(map[string][]models.EntitySalesRow),
		NewEntities:  make(map[string]models.EntityChangeSummary),
		LostEntities: make(map[string]models.EntityChangeSummary),
		Options:      Options(rows, f),
	}
	data.Totals = grandTotals(filtered, f.SaleType)

	byDim := make(map[string][]models.EntitySalesRow, len(dimensions))
	for _, dim := range []string{
		models.DimDivision, models.DimDepartment, models.DimCategory,
		models.DimSubcategory, models.DimClass, models.DimBrand,
		models.DimBranch, models.DimItem,
	} {
		list, aggErr := AggregateDimension(filtered, dim, f.SaleType)
		if aggErr != nil {
			return nil, aggErr
		}
		SortRows(list, DefaultSortField, true)
		byDim[dim] = list
	}

	data.Divisions = byDim[models.DimDivision]
	data.Departments = byDim[models.DimDepartment]
	data.Categories = byDim[models.DimCategory]
	data.Subcategories = byDim[models.DimSubcategory]
	data.Classes = byDim[models.DimClass]
	data.Brands = byDim[models.DimBrand]
	data.Branches = byDim[models.DimBranch]
	data.Items = byDim[models.DimItem]

	data.TopBranches = head(data.Branches, 10)
	data.TopItems = head(data.Items, 10)
	data.Top50Items = head(data.Items, 50)

	data.ActiveCounts = models.ActiveCounts{
		Branches2024: activeCount(data.Branches, sales2024Of),
		Branches2025: activeCount(data.Branches, sales2025Of),
		Brands2024:   activeCount(data.Brands, sales2024Of),
		Brands2025:   activeCount(data.Brands, sales2025Of),
		Items2024:    activeCount(data.Items, sales2024Of),
		Items2025:    activeCount(data.Items, sales2025Of),
	}

	for _, dim := range []string{models.DimBranch, models.DimBrand, models.DimItem} {
		list := byDim[dim]

		result, top := Pareto(list)
		data.Pareto[dim] = result
		data.ParetoRows[dim] = top

		newRows := NewEntities(list)
		data.NewEntities[dim] = summarizeChange(newRows, sales2025Of, data.Totals.Sales2025)

		lostRows := LostEntities(list)
		SortRows(lostRows, "sales_2024", true)
		data.LostEntities[dim] = summarizeChange(lostRows, sales2024Of, data.Totals.Sales2024)
	}

	return data, nil
}

func grandTotals(rows []models.SalesRecord, mode models.SaleType) models.GrandTotals {
	var t models.GrandTotals
	for i := range rows {
		r := &rows[i]
		t.CashSales2024 += r.CashSales2024
		t.CreditSales2024 += r.CreditSales2024
		t.TotalSales2024 += r.TotalSales2024
		t.CashSales2025 += r.CashSales2025
		t.CreditSales2025 += r.CreditSales2025
		t.TotalSales2025 += r.TotalSales2025
	}
	switch mode {
	case models.SaleTypeCash:
		t.Sales2024, t.Sales2025 = t.CashSales2024, t.CashSales2025
	case models.SaleTypeCredit:
		t.Sales2024, t.Sales2025 = t.CreditSales2024, t.CreditSales2025
	default:
		t.Sales2024, t.Sales2025 = t.TotalSales2024, t.TotalSales2025
	}
	t.Growth = GrowthRate(t.Sales2025, t.Sales2024)
	return t
}

func head(rows []models.EntitySalesRow, n int) []models.EntitySalesRow {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]models.EntitySalesRow, n)
	copy(out, rows[:n])
	return out
}
