// Package export renders already-derived entity rows for download. The rows
// are exactly what the drill-down table shows; unbounded growth is rendered
// as the literal "New".
package export

import (
	"fmt"

	"salesdash/internal/models"
)

var columns = []string{
	"Name", "Code",
	"2024 Sales", "2025 Sales",
	"2024 Cash", "2024 Credit",
	"2025 Cash", "2025 Credit",
	"Growth %",
}

func cells(r models.EntitySalesRow) []string {
	return []string{
		r.Name,
		r.Code,
		money(r.Sales2024),
		money(r.Sales2025),
		money(r.CashSales2024),
		money(r.CreditSales2024),
		money(r.CashSales2025),
		money(r.CreditSales2025),
		r.Growth.String(),
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
