package engine

import (
	"sort"
	"strings"

	"salesdash/internal/models"
)

// DefaultSortField is applied whenever no explicit sort is requested.
const DefaultSortField = "sales_2025"

// SortRows sorts in place by a named field (json names). Numeric fields
// compare numerically, name/code compare as strings, and unknown fields fall
// back to the default. The sort is stable: ties keep their prior relative
// order, which Pareto boundary selection depends on.
func SortRows(rows []models.EntitySalesRow, field string, desc bool) {
	if numeric, ok := numericField(field); ok {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := numeric(rows[i]), numeric(rows[j])
			if desc {
				return a > b
			}
			return a < b
		})
		return
	}

	var str func(models.EntitySalesRow) string
	switch field {
	case "name":
		str = func(r models.EntitySalesRow) string { return r.Name }
	case "code":
		str = func(r models.EntitySalesRow) string { return r.Code }
	default:
		SortRows(rows, DefaultSortField, desc)
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return str(rows[i]) > str(rows[j])
		}
		return str(rows[i]) < str(rows[j])
	})
}

func numericField(field string) (func(models.EntitySalesRow) float64, bool) {
	switch field {
	case "sales_2024":
		return func(r models.EntitySalesRow) float64 { return r.Sales2024 }, true
	case "sales_2025":
		return func(r models.EntitySalesRow) float64 { return r.Sales2025 }, true
	case "cash_sales_2024":
		return func(r models.EntitySalesRow) float64 { return r.CashSales2024 }, true
	case "credit_sales_2024":
		return func(r models.EntitySalesRow) float64 { return r.CreditSales2024 }, true
	case "cash_sales_2025":
		return func(r models.EntitySalesRow) float64 { return r.CashSales2025 }, true
	case "credit_sales_2025":
		return func(r models.EntitySalesRow) float64 { return r.CreditSales2025 }, true
	case "growth":
		return func(r models.EntitySalesRow) float64 { return float64(r.Growth) }, true
	}
	return nil, false
}

// ParseSortParam splits a "field:dir" request value. Missing or malformed
// input yields the default descending 2025 sort.
func ParseSortParam(s string) (field string, desc bool) {
	field, desc = DefaultSortField, true
	if s == "" {
		return
	}
	parts := strings.SplitN(s, ":", 2)
	if parts[0] != "" {
		field = parts[0]
	}
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC":
			desc = false
		case "DESC":
			desc = true
		}
	}
	return
}

// SearchRows filters output rows by case-insensitive substring match against
// name and code.
func SearchRows(rows []models.EntitySalesRow, term string) []models.EntitySalesRow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := make([]models.EntitySalesRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.Code), term) {
			out = append(out, r)
		}
	}
	return out
}
