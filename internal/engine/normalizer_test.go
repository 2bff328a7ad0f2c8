package engine

import (
	"strings"
	"testing"
)

func TestParseSalesValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"N/A", 0},
		{"n/a", 0},
		{"#N/A", 0},
		{"#n/a", 0},
		{"1234.5", 1234.5},
		{"1,234.50", 1234.5},
		{"$1,000", 1000},
		{"-500", -500},
		{"500-", -500},
		{"(1,234.50)", -1234.5},
		{"AED 99.9", 99.9},
		{"1.2.3", 1.2},
		{"abc", 0},
		{"0", 0},
	}
	for _, c := range cases {
		if got := ParseSalesValue(c.in); got != c.want {
			t.Errorf("ParseSalesValue(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeHeaderVariants(t *testing.T) {
	raw := map[string]string{
		" division ":        "electronics",
		"Brand":             "acme",
		"BRANCH NAME":       "main",
		"Item Description":  "widget",
		"ITEM CODE":         "w-1",
		"2024 TOTAL SALES":  "100",
		"2025 total sales":  "250.5",
		"2024 CASH SALES":   "40",
		"2025 CREDIT SALES": "200",
	}
	rec := Normalize(raw)

	if rec.Division != "ELECTRONICS" {
		t.Errorf("Division = %q, want ELECTRONICS", rec.Division)
	}
	if rec.Brand != "ACME" {
		t.Errorf("Brand = %q, want ACME", rec.Brand)
	}
	if rec.BranchName != "MAIN" {
		t.Errorf("BranchName = %q, want MAIN", rec.BranchName)
	}
	if rec.ItemCode != "W-1" {
		t.Errorf("ItemCode = %q, want W-1", rec.ItemCode)
	}
	if rec.TotalSales2024 != 100 || rec.TotalSales2025 != 250.5 {
		t.Errorf("totals = %v/%v, want 100/250.5", rec.TotalSales2024, rec.TotalSales2025)
	}
	if rec.CashSales2024 != 40 || rec.CreditSales2025 != 200 {
		t.Errorf("breakdown = %v/%v, want 40/200", rec.CashSales2024, rec.CreditSales2025)
	}
	// Missing headers default to empty / zero.
	if rec.Department != "" || rec.CreditSales2024 != 0 {
		t.Errorf("missing fields not defaulted: %q / %v", rec.Department, rec.CreditSales2024)
	}
}

func TestNormalizeLegacySalesHeaders(t *testing.T) {
	rec := Normalize(map[string]string{
		"DIVISION":  "A",
		"SALES2024": "10",
		"SALES2025": "20",
	})
	if rec.TotalSales2024 != 10 || rec.TotalSales2025 != 20 {
		t.Errorf("legacy totals = %v/%v, want 10/20", rec.TotalSales2024, rec.TotalSales2025)
	}
}

func TestSearchIndexRegenerated(t *testing.T) {
	rec := Normalize(map[string]string{
		"DIVISION":         "Food",
		"BRAND":            "Acme",
		"BRANCH NAME":      "Downtown",
		"ITEM DESCRIPTION": "Choco Bar",
	})
	for _, want := range []string{"food", "acme", "downtown", "choco bar"} {
		if !strings.Contains(rec.SearchIndex, want) {
			t.Errorf("SearchIndex %q missing %q", rec.SearchIndex, want)
		}
	}
	if rec.SearchIndex != strings.ToLower(rec.SearchIndex) {
		t.Error("SearchIndex must be lowercase")
	}
}
