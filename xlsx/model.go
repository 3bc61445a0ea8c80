package xlsx

import (
	"fmt"

	"github.com/aerissecure/franklin/highlight"
)

// Intermediate representation of a written report, as read back from disk.

// CellStyle is the part of a cell's look the reports use.
type CellStyle struct {
	Bold            bool
	BackgroundColor string // "RRGGBB", set when a conditional rule colors the cell
}

func (s CellStyle) String() string {
	return fmt.Sprintf("Bold: %t, BackgroundColor: %s", s.Bold, s.BackgroundColor)
}

// RenderCell is a single non-empty cell.
type RenderCell struct {
	Ref   string // e.g. "A1"
	Value string // formatted value
	Style CellStyle
}

func (c RenderCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %s, Style: %s", c.Ref, c.Value, c.Style.String())
}

// RenderRow is one worksheet row.
type RenderRow struct {
	Cells []*RenderCell // length == column count of the sheet; nil for blank cells
}

// RenderSheet is one worksheet of a report.
type RenderSheet struct {
	Name       string
	ColWidths  []float64 // in characters, 0 when the column has no explicit width
	AutoFilter string    // filter range, "" when absent
	Rules      []highlight.Rule
	Rows       []RenderRow
}

func (s RenderSheet) String() string {
	return fmt.Sprintf("Name: %s, ColWidths: %v, AutoFilter: %s, Rules: %d, Rows: %d", s.Name, s.ColWidths, s.AutoFilter, len(s.Rules), len(s.Rows))
}

// Header returns the values of the first row.
func (s RenderSheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	out := make([]string, len(s.Rows[0].Cells))
	for i, c := range s.Rows[0].Cells {
		if c != nil {
			out[i] = c.Value
		}
	}
	return out
}

// Value returns the text at a 1-based row and column, "" for blank cells.
func (s RenderSheet) Value(row, col int) string {
	if row < 1 || row > len(s.Rows) {
		return ""
	}
	cells := s.Rows[row-1].Cells
	if col < 1 || col > len(cells) || cells[col-1] == nil {
		return ""
	}
	return cells[col-1].Value
}

// Fill returns the color conditional rules give the cell at row and col, or
// "" when no rule applies. Later rules win.
func (s RenderSheet) Fill(row, col int) string {
	fill := ""
	value := func(c int) string { return s.Value(row, c) }
	for _, r := range s.Rules {
		if r.Range.Column == col && r.Matches(row, value) {
			fill = r.Fill
		}
	}
	return fill
}

// WorkbookModel is the top-level IR containing all sheets.
type WorkbookModel struct {
	Sheets []RenderSheet
}

// Sheet returns the named sheet.
func (m WorkbookModel) Sheet(name string) (RenderSheet, bool) {
	for _, s := range m.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return RenderSheet{}, false
}

// SheetNames lists the sheets in workbook order.
func (m WorkbookModel) SheetNames() []string {
	out := make([]string, len(m.Sheets))
	for i, s := range m.Sheets {
		out[i] = s.Name
	}
	return out
}
