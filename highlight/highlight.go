// Package highlight builds the conditional coloring rules attached to the
// extended and clinical sheets.
//
// Rules are plain values that know nothing about the spreadsheet library that
// eventually stores them. Their ranges come from a view's finalized layout, so
// they must be built only once column reordering and insertion are done.
package highlight

import (
	"fmt"
	"strings"

	"github.com/aerissecure/franklin/variant"
	"github.com/aerissecure/franklin/view"
)

// Kind selects which cell a rule's predicate reads.
type Kind int

const (
	// Substring tests the colored cell's own text.
	Substring Kind = iota
	// RowRelative tests the cell in RefColumn on the same row as the colored cell.
	RowRelative
)

func (k Kind) String() string {
	switch k {
	case Substring:
		return "substring"
	case RowRelative:
		return "row-relative"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fill colors, RGB hex.
const (
	Green  = "92D050"
	Yellow = "FFFF00"
)

// BenignText is matched case-insensitively against Clinvar_Significance.
const BenignText = "benign"

// Range is a single-column block of cells. Column and rows are 1-based.
type Range struct {
	Column   int
	FirstRow int
	LastRow  int
}

// Contains reports whether row lies inside the range.
func (r Range) Contains(row int) bool {
	return row >= r.FirstRow && row <= r.LastRow
}

// Rule colors the cells of Range with Fill when its predicate holds.
type Rule struct {
	Sheet   string
	Range   Range
	Kind    Kind
	Pattern string
	// RefColumn is the column a RowRelative predicate reads. For Substring
	// rules it equals Range.Column.
	RefColumn int
	// Negate colors cells whose text does not contain Pattern.
	Negate bool
	Fill   string
}

// Matches reports whether the rule colors the cell at (row, Range.Column).
// value returns the text of the cell at the given 1-based column on row.
func (r Rule) Matches(row int, value func(col int) string) bool {
	if !r.Range.Contains(row) {
		return false
	}
	col := r.Range.Column
	if r.Kind == RowRelative {
		col = r.RefColumn
	}
	found := containsFold(value(col), r.Pattern)
	return found != r.Negate
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Build returns the two rules for a sheet with the given final layout and
// number of data rows:
//
//   - Clinvar_Significance, header included: green when the text contains "benign".
//   - Franklin, data rows only: yellow when the same row's Clinvar_Significance
//     does not contain "benign".
//
// With no data rows the Franklin range collapses to row 2.
func Build(sheet string, layout *variant.Layout, rows int) ([]Rule, error) {
	sig, ok := layout.Position(variant.ClinvarSignificance)
	if !ok {
		return nil, &variant.SchemaError{Field: variant.ClinvarSignificance}
	}
	franklin, ok := layout.Position(variant.Franklin)
	if !ok {
		return nil, &variant.SchemaError{Field: variant.Franklin, Anchor: true}
	}
	last := rows + 1

	benign := Rule{
		Sheet:     sheet,
		Range:     Range{Column: sig, FirstRow: 1, LastRow: last},
		Kind:      Substring,
		Pattern:   BenignText,
		RefColumn: sig,
		Fill:      Green,
	}
	notBenign := Rule{
		Sheet:     sheet,
		Range:     Range{Column: franklin, FirstRow: 2, LastRow: max(last, 2)},
		Kind:      RowRelative,
		Pattern:   BenignText,
		RefColumn: sig,
		Negate:    true,
		Fill:      Yellow,
	}
	return []Rule{benign, notBenign}, nil
}

// Highlighted reports whether a sheet carries coloring rules.
func Highlighted(sheet string) bool {
	return sheet == view.Extended || sheet == view.Clinical
}

// ForView builds the rules for v, or none when v is not a highlighted sheet.
func ForView(v *view.View) ([]Rule, error) {
	if !Highlighted(v.Name()) {
		return nil, nil
	}
	return Build(v.Name(), v.Layout(), v.Len())
}
