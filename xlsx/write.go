package xlsx

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/franklin/highlight"
	"github.com/aerissecure/franklin/variant"
)

// WidthPadding is added to the longest value of a column.
const WidthPadding = 2

// Document is a report workbook under construction.
type Document struct {
	wb     *spreadsheet.Workbook
	header spreadsheet.CellStyle
	fills  map[string]spreadsheet.DifferentialStyle
}

// NewDocument starts an empty workbook.
func NewDocument() *Document {
	wb := spreadsheet.New()

	font := wb.StyleSheet.AddFont()
	font.SetBold(true)
	header := wb.StyleSheet.AddCellStyle()
	header.SetFont(font)
	header.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)

	return &Document{
		wb:     wb,
		header: header,
		fills:  make(map[string]spreadsheet.DifferentialStyle),
	}
}

// Sheet is a worksheet written from a table.
type Sheet struct {
	doc      *Document
	x        spreadsheet.Sheet
	cols     int
	rows     int // including the header
	widths   []int
	priority int32
}

// WriteTable adds a sheet called name holding t: one header row followed by
// one row per record. A column is stored as numbers only when every
// non-empty value in it is numeric; anything else is stored as text. Empty
// values are left blank.
func (d *Document) WriteTable(name string, t *variant.Table) *Sheet {
	x := d.wb.AddSheet()
	x.SetName(name)

	s := &Sheet{doc: d, x: x, cols: t.Layout().Len()}
	s.widths = make([]int, s.cols)
	numeric := numericColumns(t)
	_ = numeric

	header := x.AddRow()
	for i, col := range t.Columns() {
		c := header.Cell(reference.IndexToColumn(uint32(i)))
		c.SetString(col)
		c.SetStyle(d.header)
		s.measure(i, col)
	}
	for _, rec := range t.Records() {
		row := x.AddRow()
		for i, v := range rec.Values() {
			if v == "" {
				continue
			}
			c := row.Cell(reference.IndexToColumn(uint32(i)))
			if f, ok := number(v); ok {
				c.SetNumber(f)
			} else {
				c.SetString(v)
			}
			s.measure(i, v)
		}
	}
	s.rows = t.Len() + 1
	return s
}

func (s *Sheet) measure(col int, v string) {
	s.widths[col] = max(s.widths[col], utf8.RuneCountInString(v))
}

// numericColumns reports, per column, whether every non-empty value of t
// survives storage as a number. Columns without any value are not numeric.
func numericColumns(t *variant.Table) []bool {
	out := make([]bool, t.Layout().Len())
	seen := make([]bool, len(out))
	for i := range out {
		out[i] = true
	}
	for _, rec := range t.Records() {
		for i, v := range rec.Values() {
			if v == "" || !out[i] {
				continue
			}
			seen[i] = true
			if _, ok := number(v); !ok {
				out[i] = false
			}
		}
	}
	for i := range out {
		out[i] = out[i] && seen[i]
	}
	return out
}

// number reports whether v is a plain decimal number that reads back the
// same. Leading zeros, trailing fraction zeros and integers beyond float64
// precision are kept as text.
func number(v string) (float64, bool) {
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(v, "-"), "+")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return 0, false
	}
	if !strings.ContainsAny(v, "eE") {
		if strings.Contains(v, ".") && strings.HasSuffix(v, "0") {
			return 0, false
		}
		if !strings.Contains(v, ".") && math.Abs(f) > 1<<53 {
			return 0, false
		}
	}
	return f, true
}

// Name is the sheet name.
func (s *Sheet) Name() string { return s.x.Name() }

// UsedRange is the A1 range covering the header and every data row.
func (s *Sheet) UsedRange() string {
	last := reference.IndexToColumn(uint32(max(s.cols, 1) - 1))
	return fmt.Sprintf("A1:%s%d", last, s.rows)
}

// AddRule attaches a highlight rule as native conditional formatting.
func (s *Sheet) AddRule(r highlight.Rule) {
	cf := s.x.AddConditionalFormatting([]string{RangeRef(r.Range)})
	rule := cf.AddRule()
	if r.Kind == highlight.Substring && !r.Negate {
		rule.X().TypeAttr = sml.ST_CfTypeContainsText
		rule.X().OperatorAttr = sml.ST_ConditionalFormattingOperatorContainsText
		rule.X().TextAttr = unioffice.String(r.Pattern)
	} else {
		rule.X().TypeAttr = sml.ST_CfTypeExpression
	}
	rule.X().Formula = []string{Formula(r)}
	s.priority++
	rule.X().PriorityAttr = s.priority
	rule.SetStyle(s.doc.fill(r.Fill))
}

// RangeRef renders a highlight range in A1 notation, e.g. "E1:E12".
func RangeRef(r highlight.Range) string {
	col := reference.IndexToColumn(uint32(r.Column - 1))
	return fmt.Sprintf("%s%d:%s%d", col, r.FirstRow, col, r.LastRow)
}

// Formula is the expression equivalent of r, written relative to the first
// cell of its range.
func Formula(r highlight.Rule) string {
	ref := fmt.Sprintf("%s%d", reference.IndexToColumn(uint32(r.RefColumn-1)), r.Range.FirstRow)
	if r.Kind == highlight.RowRelative {
		ref = "$" + ref
	}
	search := fmt.Sprintf(`ISERROR(SEARCH("%s",%s))`, strings.ReplaceAll(r.Pattern, `"`, `""`), ref)
	if r.Negate {
		return search
	}
	return "NOT(" + search + ")"
}

// fill returns the differential style for an RGB color, adding it to the
// workbook on first use.
func (d *Document) fill(rgb string) spreadsheet.DifferentialStyle {
	if dxf, ok := d.fills[rgb]; ok {
		return dxf
	}
	dxf := d.wb.StyleSheet.AddDifferentialStyle()
	pf := sml.NewCT_PatternFill()
	pf.PatternTypeAttr = sml.ST_PatternTypeSolid
	pf.BgColor = sml.NewCT_Color()
	pf.BgColor.RgbAttr = unioffice.String("FF" + strings.ToUpper(rgb))
	dxf.X().Fill = sml.NewCT_Fill()
	dxf.X().Fill.PatternFill = pf
	d.fills[rgb] = dxf
	return dxf
}

// SetAutoFilter enables the filter control over the used range.
func (s *Sheet) SetAutoFilter() {
	s.x.SetAutoFilter(s.UsedRange())
}

// AutoFit sizes every column to its longest value plus WidthPadding. Columns
// listed in pinned (0-based index to width) get the given width instead.
func (s *Sheet) AutoFit(pinned map[int]float64) {
	for i, w := range s.widths {
		width := float64(w + WidthPadding)
		if p, ok := pinned[i]; ok {
			width = p
		}
		col := s.x.Column(uint32(i + 1))
		col.X().WidthAttr = unioffice.Float64(width)
		col.X().CustomWidthAttr = unioffice.Bool(true)
	}
}

// Width returns the width AutoFit computes for a 0-based column before pins.
func (s *Sheet) Width(col int) float64 {
	return float64(s.widths[col] + WidthPadding)
}

// Save writes the workbook to path. The document is first written to a
// temporary file in the same directory; check, when not nil, is run against
// that file, and the file is renamed to path only if everything succeeded.
func (d *Document) Save(path string, check func(tmp string) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			os.Remove(name)
		}
	}()

	if err := d.wb.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(name, 0644); err != nil {
		return err
	}
	if check != nil {
		if err := check(name); err != nil {
			return err
		}
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	ok = true
	return nil
}
