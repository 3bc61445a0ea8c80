// Package view derives the named report views from a loaded variant table.
//
// Every view is produced by Derive, which filters and stably sorts a source
// table into a new, independent table. Views are never edited after they are
// built.
package view

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/aerissecure/franklin/variant"
)

// Sheet names, in the order they are written.
const (
	Variants = "variants"
	Extended = "extended"
	Clinical = "klinikai"
)

// FrequencyThreshold is the minimum Variant_Frequency kept in the extended view.
const FrequencyThreshold = 0.35

// ClinicalGenes is the gene set used to build the clinical view.
var ClinicalGenes = []string{"BRCA1", "BRCA2", "PALB2", "ATM", "MLH1", "MSH2", "MSH6", "PMS2", "EPCAM", "stk11"}

// View is a named, immutable table.
type View struct {
	name  string
	table *variant.Table
}

// Name is the sheet name of the view.
func (v *View) Name() string { return v.name }

// Table returns the view's rows. Tables are immutable, so the value may be
// shared freely.
func (v *View) Table() *variant.Table { return v.table }

// Layout is the view's finalized column index map.
func (v *View) Layout() *variant.Layout { return v.table.Layout() }

// Len is the number of data rows.
func (v *View) Len() int { return v.table.Len() }

// Derive builds a view from src keeping the records for which keep returns
// true (nil keeps everything), ordered by compare. The sort is stable: records
// comparing equal keep their order from src. A nil compare keeps src order.
func Derive(name string, src *variant.Table, keep func(variant.Record) bool, compare func(a, b variant.Record) int) *View {
	records := src.Records()
	idx := make([]int, 0, len(records))
	for i, r := range records {
		if keep == nil || keep(r) {
			idx = append(idx, i)
		}
	}
	if compare != nil {
		slices.SortStableFunc(idx, func(a, b int) int {
			return compare(records[a], records[b])
		})
	}
	return &View{name: name, table: src.Subset(idx)}
}

// GeneMatch is the policy for comparing Gene_ID values against ClinicalGenes.
type GeneMatch int

const (
	// MatchExact requires identical case.
	MatchExact GeneMatch = iota
	// MatchFold compares case-insensitively, so "STK11" matches "stk11".
	MatchFold
)

// Options tune view derivation.
type Options struct {
	GeneMatch GeneMatch
}

// GeneSet reports whether gene is one of ClinicalGenes under the given policy.
func GeneSet(match GeneMatch) func(gene string) bool {
	set := make(map[string]struct{}, len(ClinicalGenes))
	for _, g := range ClinicalGenes {
		if match == MatchFold {
			g = strings.ToUpper(g)
		}
		set[g] = struct{}{}
	}
	return func(gene string) bool {
		if match == MatchFold {
			gene = strings.ToUpper(gene)
		}
		_, ok := set[gene]
		return ok
	}
}

// Build derives the three report views from a freshly loaded table, in sheet
// order: variants, extended, klinikai.
//
// variants holds every record with the schema columns in order and Franklin
// inserted after Clinvar_ID, sorted by Variant_Frequency descending. extended
// and klinikai are derived from variants.
func Build(src *variant.Table, opts Options) ([]*View, error) {
	ordered, err := variant.Reorder(src, variant.Schema())
	if err != nil {
		return nil, err
	}
	withFranklin, err := variant.InsertColumn(ordered, variant.ClinvarID, variant.Franklin, "")
	if err != nil {
		return nil, err
	}

	variants := Derive(Variants, withFranklin, nil, func(a, b variant.Record) int {
		return compareFloatDesc(a.Float(variant.VariantFrequency), b.Float(variant.VariantFrequency))
	})

	extended := Derive(Extended, variants.Table(), func(r variant.Record) bool {
		return r.Float(variant.VariantFrequency) >= FrequencyThreshold
	}, func(a, b variant.Record) int {
		return compareText(a.Get(variant.ClinvarSignificance), b.Get(variant.ClinvarSignificance))
	})

	inSet := GeneSet(opts.GeneMatch)
	clinical := Derive(Clinical, variants.Table(), func(r variant.Record) bool {
		return inSet(r.Get(variant.GeneID))
	}, func(a, b variant.Record) int {
		if c := compareText(a.Get(variant.GeneID), b.Get(variant.GeneID)); c != 0 {
			return c
		}
		if c := compareFloatAsc(a.Float(variant.VariantFrequency), b.Float(variant.VariantFrequency)); c != 0 {
			return c
		}
		return compareText(a.Get(variant.ClinvarSignificance), b.Get(variant.ClinvarSignificance))
	})

	return []*View{variants, extended, clinical}, nil
}

// Missing values (NaN, empty text) sort after every present value regardless
// of direction.

func compareFloatAsc(a, b float64) int {
	if c, done := compareMissing(math.IsNaN(a), math.IsNaN(b)); done {
		return c
	}
	return cmp.Compare(a, b)
}

func compareFloatDesc(a, b float64) int {
	if c, done := compareMissing(math.IsNaN(a), math.IsNaN(b)); done {
		return c
	}
	return cmp.Compare(b, a)
}

func compareText(a, b string) int {
	if c, done := compareMissing(a == "", b == ""); done {
		return c
	}
	return strings.Compare(a, b)
}

func compareMissing(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, true
	case aMissing:
		return 1, true
	case bMissing:
		return -1, true
	}
	return 0, false
}
