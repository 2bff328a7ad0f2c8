package engine

import (
	"sort"
	"strings"

	"salesdash/internal/models"
)

type stringSet map[string]struct{}

func newSet(values []string) stringSet {
	if len(values) == 0 {
		return nil
	}
	s := make(stringSet, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			s[v] = struct{}{}
		}
	}
	if len(s) == 0 {
		return nil
	}
	return s
}

// has is match-all on a nil set.
func (s stringSet) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// rowPredicate is the compiled form of a FilterState. Every non-empty
// dimension set is ANDed; the search term is ANDed independently.
type rowPredicate struct {
	divisions     stringSet
	departments   stringSet
	categories    stringSet
	subcategories stringSet
	classes       stringSet
	branches      stringSet
	brands        stringSet
	items         stringSet
	search        string
}

func compileFilter(f models.FilterState) rowPredicate {
	return rowPredicate{
		divisions:     newSet(f.Divisions),
		departments:   newSet(f.Departments),
		categories:    newSet(f.Categories),
		subcategories: newSet(f.Subcategories),
		classes:       newSet(f.Classes),
		branches:      newSet(f.Branches),
		brands:        newSet(f.Brands),
		items:         newSet(f.Items),
		search:        strings.ToLower(strings.TrimSpace(f.Search)),
	}
}

func (p rowPredicate) matches(r *models.SalesRecord) bool {
	if !p.matchesHierarchy(r) {
		return false
	}
	if !p.branches.has(r.BranchName) || !p.brands.has(r.Brand) || !p.items.has(r.ItemDescription) {
		return false
	}
	return p.matchesSearch(r)
}

// matchesHierarchy checks only the division..class chain, which is also the
// scope used for dependent-option narrowing.
func (p rowPredicate) matchesHierarchy(r *models.SalesRecord) bool {
	return p.divisions.has(r.Division) &&
		p.departments.has(r.Department) &&
		p.categories.has(r.Category) &&
		p.subcategories.has(r.Subcategory) &&
		p.classes.has(r.Class)
}

func (p rowPredicate) matchesSearch(r *models.SalesRecord) bool {
	if p.search == "" {
		return true
	}
	if r.SearchIndex != "" {
		return strings.Contains(r.SearchIndex, p.search)
	}
	// Index absent: fall back to OR across the individual fields.
	for _, f := range []string{
		r.Division, r.Department, r.Category, r.Subcategory, r.Class,
		r.Brand, r.BranchCode, r.BranchName, r.ItemCode, r.ItemDescription,
	} {
		if strings.Contains(strings.ToLower(f), p.search) {
			return true
		}
	}
	return false
}

// Matches evaluates the full filter against a single row.
func Matches(r *models.SalesRecord, f models.FilterState) bool {
	p := compileFilter(f)
	return p.matches(r)
}

// ApplyFilter returns the subset of rows matching the filter state.
func ApplyFilter(rows []models.SalesRecord, f models.FilterState) []models.SalesRecord {
	p := compileFilter(f)
	out := make([]models.SalesRecord, 0, len(rows))
	for i := range rows {
		if p.matches(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// Options derives the selectable vocabulary per dimension from the full row
// set. When any of division/department/category is constrained, the branch
// and brand universes are recomputed from rows matching the active hierarchy
// filters, replacing the global lists.
func Options(rows []models.SalesRecord, f models.FilterState) models.FilterOptions {
	opts := models.FilterOptions{
		Divisions:     distinct(rows, func(r *models.SalesRecord) string { return r.Division }),
		Departments:   distinct(rows, func(r *models.SalesRecord) string { return r.Department }),
		Categories:    distinct(rows, func(r *models.SalesRecord) string { return r.Category }),
		Subcategories: distinct(rows, func(r *models.SalesRecord) string { return r.Subcategory }),
		Classes:       distinct(rows, func(r *models.SalesRecord) string { return r.Class }),
		Brands:        distinct(rows, func(r *models.SalesRecord) string { return r.Brand }),
		Branches:      distinct(rows, func(r *models.SalesRecord) string { return r.BranchName }),
		Items:         distinct(rows, func(r *models.SalesRecord) string { return r.ItemDescription }),
	}

	if f.HierarchyActive() {
		p := compileFilter(f)
		scoped := make([]models.SalesRecord, 0, len(rows))
		for i := range rows {
			if p.matchesHierarchy(&rows[i]) {
				scoped = append(scoped, rows[i])
			}
		}
		opts.Branches = distinct(scoped, func(r *models.SalesRecord) string { return r.BranchName })
		opts.Brands = distinct(scoped, func(r *models.SalesRecord) string { return r.Brand })
	}
	return opts
}

func distinct(rows []models.SalesRecord, key func(*models.SalesRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range rows {
		v := key(&rows[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
