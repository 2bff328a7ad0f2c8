package engine

import (
	"math"

	"salesdash/internal/models"
)

// GrowthRate implements the piecewise period-over-period rule: a zero
// previous period yields 0 when the current is zero too, and the unbounded
// sentinel when the current is positive. Never coerced to 0 or 100.
func GrowthRate(curr, prev float64) models.Growth {
	if prev == 0 {
		if curr > 0 {
			return models.GrowthNew
		}
		return 0
	}
	return models.Growth((curr - prev) / prev * 100)
}

// Contribution is part as a percent of total, 0 when the total is zero.
// Numerator and denominator must come from the same filter and sale-type
// scope.
func Contribution(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Pareto computes the 80/20 summary for one dimension: contributors are rows
// with positive 2025 sales, sorted descending (stable), and the top 20%
// (rounded up, minimum one) are measured against the contributor total.
// The selected top rows are returned alongside the summary.
func Pareto(rows []models.EntitySalesRow) (models.ParetoResult, []models.EntitySalesRow) {
	contributors := make([]models.EntitySalesRow, 0, len(rows))
	for _, r := range rows {
		if r.Sales2025 > 0 {
			contributors = append(contributors, r)
		}
	}

	result := models.ParetoResult{TotalContributors: len(contributors)}
	if len(contributors) == 0 {
		return result, nil
	}

	SortRows(contributors, "sales_2025", true)

	var total float64
	for _, r := range contributors {
		total += r.Sales2025
	}
	if total == 0 {
		return result, nil
	}

	topCount := int(math.Ceil(float64(len(contributors)) * 0.20))
	if topCount < 1 {
		topCount = 1
	}

	top := contributors[:topCount]
	var topSales float64
	for _, r := range top {
		topSales += r.Sales2025
	}

	result.TopCount = topCount
	result.TotalSales = total
	result.TopSales = topSales
	result.SalesPercent = topSales / total * 100
	return result, top
}

// NewEntities returns rows that have 2025 sales but none in 2024.
func NewEntities(rows []models.EntitySalesRow) []models.EntitySalesRow {
	var out []models.EntitySalesRow
	for _, r := range rows {
		if r.Sales2025 > 0 && r.Sales2024 == 0 {
			out = append(out, r)
		}
	}
	return out
}

// LostEntities returns rows that had 2024 sales but none in 2025.
func LostEntities(rows []models.EntitySalesRow) []models.EntitySalesRow {
	var out []models.EntitySalesRow
	for _, r := range rows {
		if r.Sales2024 > 0 && r.Sales2025 == 0 {
			out = append(out, r)
		}
	}
	return out
}

// summarizeChange builds the count/sum/percent summary for a new or lost
// list. yearSales selects the year that defines the set (2025 for new,
// 2024 for lost) and scopedTotal is the filtered, mode-scoped total for that
// same year.
func summarizeChange(rows []models.EntitySalesRow, yearSales func(models.EntitySalesRow) float64, scopedTotal float64) models.EntityChangeSummary {
	var sum float64
	for _, r := range rows {
		sum += yearSales(r)
	}
	if rows == nil {
		rows = []models.EntitySalesRow{}
	}
	return models.EntityChangeSummary{
		Count:          len(rows),
		Sales:          sum,
		PercentOfTotal: Contribution(sum, scopedTotal),
		Rows:           rows,
	}
}

// activeCount counts entities whose selected-year sales are positive.
func activeCount(rows []models.EntitySalesRow, yearSales func(models.EntitySalesRow) float64) int {
	n := 0
	for _, r := range rows {
		if yearSales(r) > 0 {
			n++
		}
	}
	return n
}

func sales2024Of(r models.EntitySalesRow) float64 { return r.Sales2024 }
func sales2025Of(r models.EntitySalesRow) float64 { return r.Sales2025 }
