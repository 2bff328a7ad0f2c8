package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SaleType selects which metric counts as "the" sales figure for
// growth, Pareto and contribution purposes.
type SaleType string

const (
	SaleTypeAll    SaleType = "ALL"
	SaleTypeCash   SaleType = "CASH"
	SaleTypeCredit SaleType = "CREDIT"
)

// ParseSaleType maps a request parameter to a SaleType, defaulting to ALL.
func ParseSaleType(s string) SaleType {
	switch SaleType(strings.ToUpper(strings.TrimSpace(s))) {
	case SaleTypeCash:
		return SaleTypeCash
	case SaleTypeCredit:
		return SaleTypeCredit
	default:
		return SaleTypeAll
	}
}

// Growth is a period-over-period percentage. The positive-infinity value is
// the unbounded-growth sentinel (previous period was zero, current is not);
// it renders as the literal "New" everywhere outside the engine.
type Growth float64

// GrowthNew is the unbounded-growth sentinel.
var GrowthNew = Growth(math.Inf(1))

// IsNew reports whether g is the unbounded-growth sentinel.
func (g Growth) IsNew() bool {
	return math.IsInf(float64(g), 1)
}

func (g Growth) String() string {
	if g.IsNew() {
		return "New"
	}
	return fmt.Sprintf("%.2f", float64(g))
}

// MarshalJSON emits "New" for the sentinel; plain +Inf is not valid JSON.
func (g Growth) MarshalJSON() ([]byte, error) {
	if g.IsNew() {
		return []byte(`"New"`), nil
	}
	rounded := math.Round(float64(g)*100) / 100
	return []byte(strconv.FormatFloat(rounded, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts either a number or the "New" token.
func (g *Growth) UnmarshalJSON(data []byte) error {
	if string(data) == `"New"` {
		*g = GrowthNew
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid growth value %s", data)
	}
	*g = Growth(v)
	return nil
}

// SalesRecord is one canonical transaction-aggregated row. Dimension fields
// are upper-cased, metric fields default to 0, and SearchIndex is always
// regenerated together with the dimension fields.
type SalesRecord struct {
	Division        string `json:"division"`
	Department      string `json:"department"`
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory"`
	Class           string `json:"class"`
	Brand           string `json:"brand"`
	BranchCode      string `json:"branch_code"`
	BranchName      string `json:"branch_name"`
	ItemCode        string `json:"item_code"`
	ItemDescription string `json:"item_description"`

	CashSales2024   float64 `json:"cash_sales_2024"`
	CreditSales2024 float64 `json:"credit_sales_2024"`
	TotalSales2024  float64 `json:"total_sales_2024"`
	CashSales2025   float64 `json:"cash_sales_2025"`
	CreditSales2025 float64 `json:"credit_sales_2025"`
	TotalSales2025  float64 `json:"total_sales_2025"`

	SearchIndex string `json:"-"`
}

// EntitySalesRow is one aggregated entity for a dimension. Sales2024 and
// Sales2025 carry the metric selected by the active sale type; the full
// cash/credit breakdown is always present regardless of mode.
type EntitySalesRow struct {
	Name            string  `json:"name"`
	Code            string  `json:"code,omitempty"`
	Sales2024       float64 `json:"sales_2024"`
	Sales2025       float64 `json:"sales_2025"`
	CashSales2024   float64 `json:"cash_sales_2024"`
	CreditSales2024 float64 `json:"credit_sales_2024"`
	CashSales2025   float64 `json:"cash_sales_2025"`
	CreditSales2025 float64 `json:"credit_sales_2025"`
	Growth          Growth  `json:"growth"`
}

// ParetoResult describes how many top contributors make up the top 20%
// of a dimension and what share of sales they represent.
type ParetoResult struct {
	TopCount          int     `json:"top_count"`
	SalesPercent      float64 `json:"sales_percent"`
	TotalSales        float64 `json:"total_sales"`
	TotalContributors int     `json:"total_contributors"`
	TopSales          float64 `json:"top_sales"`
}

// EntityChangeSummary describes the entities that appeared in (or vanished
// from) one year relative to the other. PercentOfTotal is relative to the
// filtered, sale-type-scoped total, never the global one.
type EntityChangeSummary struct {
	Count          int              `json:"count"`
	Sales          float64          `json:"sales"`
	PercentOfTotal float64          `json:"percent_of_total"`
	Rows           []EntitySalesRow `json:"rows"`
}

// FilterState is the full query the dashboard is evaluated under. A nil or
// empty slice imposes no constraint on its dimension; all non-empty
// constraints are ANDed, and Search is ANDed independently on top.
type FilterState struct {
	Divisions     []string `json:"divisions"`
	Departments   []string `json:"departments"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Classes       []string `json:"classes"`
	Branches      []string `json:"branches"`
	Brands        []string `json:"brands"`
	Items         []string `json:"items"`
	SaleType      SaleType `json:"sale_type"`
	Search        string   `json:"search"`
}

// HierarchyActive reports whether any of the upper hierarchy filters is set,
// which triggers branch/brand option narrowing.
func (f FilterState) HierarchyActive() bool {
	return len(f.Divisions) > 0 || len(f.Departments) > 0 || len(f.Categories) > 0
}

// FilterOptions is the selectable-value vocabulary per dimension,
// distinct and sorted.
type FilterOptions struct {
	Divisions     []string `json:"divisions"`
	Departments   []string `json:"departments"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Classes       []string `json:"classes"`
	Brands        []string `json:"brands"`
	Branches      []string `json:"branches"`
	Items         []string `json:"items"`
}

// GrandTotals are the six metric sums over the filtered row set plus the
// sale-type-selected pair and its growth.
type GrandTotals struct {
	CashSales2024   float64 `json:"cash_sales_2024"`
	CreditSales2024 float64 `json:"credit_sales_2024"`
	TotalSales2024  float64 `json:"total_sales_2024"`
	CashSales2025   float64 `json:"cash_sales_2025"`
	CreditSales2025 float64 `json:"credit_sales_2025"`
	TotalSales2025  float64 `json:"total_sales_2025"`
	Sales2024       float64 `json:"sales_2024"`
	Sales2025       float64 `json:"sales_2025"`
	Growth          Growth  `json:"growth"`
}

// ActiveCounts are distinct entity names with a sale-type-selected metric
// above zero, counted independently per year.
type ActiveCounts struct {
	Branches2024 int `json:"branches_2024"`
	Branches2025 int `json:"branches_2025"`
	Brands2024   int `json:"brands_2024"`
	Brands2025   int `json:"brands_2025"`
	Items2024    int `json:"items_2024"`
	Items2025    int `json:"items_2025"`
}

// Dimension keys used in the per-dimension maps of ProcessedData.
const (
	DimDivision    = "division"
	DimDepartment  = "department"
	DimCategory    = "category"
	DimSubcategory = "subcategory"
	DimClass       = "class"
	DimBrand       = "brand"
	DimBranch      = "branch"
	DimItem        = "item"
)

// ProcessedData is the full result graph of one dashboard recompute.
// All lists are sorted descending by 2025 sales unless noted.
type ProcessedData struct {
	SnapshotID string   `json:"snapshot_id,omitempty"`
	SaleType   SaleType `json:"sale_type"`
	RowCount   int      `json:"row_count"`

	Totals GrandTotals `json:"totals"`

	Divisions     []EntitySalesRow `json:"divisions"`
	Departments   []EntitySalesRow `json:"departments"`
	Categories    []EntitySalesRow `json:"categories"`
	Subcategories []EntitySalesRow `json:"subcategories"`
	Classes       []EntitySalesRow `json:"classes"`
	Brands        []EntitySalesRow `json:"brands"`
	Branches      []EntitySalesRow `json:"branches"`
	Items         []EntitySalesRow `json:"items"`

	TopBranches []EntitySalesRow `json:"top_branches"`
	TopItems    []EntitySalesRow `json:"top_items"`
	Top50Items  []EntitySalesRow `json:"top_50_items"`

	ActiveCounts ActiveCounts `json:"active_counts"`

	Pareto     map[string]ParetoResult     `json:"pareto"`
	ParetoRows map[string][]EntitySalesRow `json:"pareto_rows"`

	NewEntities  map[string]EntityChangeSummary `json:"new_entities"`
	LostEntities map[string]EntityChangeSummary `json:"lost_entities"`

	Options FilterOptions `json:"options"`
}
