package engine

import (
	"strconv"
	"strings"

	"salesdash/internal/models"
)

// Header variants accepted for each canonical field. Matching is
// case-insensitive and whitespace-trimmed; the first variant present wins.
var headerVariants = map[string][]string{
	"division":    {"DIVISION"},
	"department":  {"DEPARTMENT"},
	"category":    {"CATEGORY"},
	"subcategory": {"SUBCATEGORY", "SUB CATEGORY", "SUB-CATEGORY"},
	"class":       {"CLASS"},
	"brand":       {"BRAND"},
	"branchCode":  {"BRANCH CODE", "BRANCHCODE"},
	"branchName":  {"BRANCH NAME", "BRANCHNAME", "BRANCH"},
	"itemCode":    {"ITEM CODE", "ITEMCODE"},
	"itemDesc":    {"ITEM DESCRIPTION", "ITEMDESCRIPTION", "ITEM DESC", "DESCRIPTION"},

	"cash2024":   {"2024 CASH SALES", "CASH SALES 2024"},
	"credit2024": {"2024 CREDIT SALES", "CREDIT SALES 2024"},
	"total2024":  {"2024 TOTAL SALES", "TOTAL SALES 2024", "SALES2024", "2024 SALES"},
	"cash2025":   {"2025 CASH SALES", "CASH SALES 2025"},
	"credit2025": {"2025 CREDIT SALES", "CREDIT SALES 2025"},
	"total2025":  {"2025 TOTAL SALES", "TOTAL SALES 2025", "SALES2025", "2025 SALES"},
}

// Normalize maps one raw header-keyed row into a canonical SalesRecord.
// It is row-local and stateless: no merging, no lookups outside the row.
func Normalize(raw map[string]string) models.SalesRecord {
	// Row keys come straight from whatever header the source had, so fold
	// them once to upper/trimmed before resolving variants.
	folded := make(map[string]string, len(raw))
	for k, v := range raw {
		folded[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	str := func(field string) string {
		for _, h := range headerVariants[field] {
			if v, ok := folded[h]; ok {
				return strings.ToUpper(strings.TrimSpace(v))
			}
		}
		return ""
	}
	num := func(field string) float64 {
		for _, h := range headerVariants[field] {
			if v, ok := folded[h]; ok {
				return ParseSalesValue(v)
			}
		}
		return 0
	}

	rec := models.SalesRecord{
		Division:        str("division"),
		Department:      str("department"),
		Category:        str("category"),
		Subcategory:     str("subcategory"),
		Class:           str("class"),
		Brand:           str("brand"),
		BranchCode:      str("branchCode"),
		BranchName:      str("branchName"),
		ItemCode:        str("itemCode"),
		ItemDescription: str("itemDesc"),
		CashSales2024:   num("cash2024"),
		CreditSales2024: num("credit2024"),
		TotalSales2024:  num("total2024"),
		CashSales2025:   num("cash2025"),
		CreditSales2025: num("credit2025"),
		TotalSales2025:  num("total2025"),
	}
	rec.SearchIndex = BuildSearchIndex(&rec)
	return rec
}

// NormalizeAll converts a whole raw row set.
func NormalizeAll(raw []map[string]string) []models.SalesRecord {
	records := make([]models.SalesRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, Normalize(r))
	}
	return records
}

// BuildSearchIndex produces the lowercase space-joined blob of all dimension
// fields. It must be regenerated whenever dimension fields change.
func BuildSearchIndex(r *models.SalesRecord) string {
	return strings.ToLower(strings.Join([]string{
		r.Division, r.Department, r.Category, r.Subcategory, r.Class,
		r.Brand, r.BranchCode, r.BranchName, r.ItemCode, r.ItemDescription,
	}, " "))
}

// ParseSalesValue coerces one raw cell into a signed float64. Blank and
// not-available markers become 0; everything but digits and '.' is stripped;
// a leading '-', trailing '-', or parenthesis wrapping marks the value
// negative; anything still unparseable becomes 0.
func ParseSalesValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch strings.ToUpper(s) {
	case "N/A", "#N/A":
		return 0
	}

	negative := strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))

	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		// Lenient prefix parse, so "1.2.3" still yields 1.2.
		v = parseFloatPrefix(b.String())
	}
	if negative {
		return -v
	}
	return v
}

// parseFloatPrefix parses the longest leading substring that is a valid
// float, returning 0 when there is none.
func parseFloatPrefix(s string) float64 {
	for end := len(s); end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v
		}
	}
	return 0
}
