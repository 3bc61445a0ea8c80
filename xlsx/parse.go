package xlsx

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/franklin/highlight"
)

// OpenWorkbookModel reads the report at path.
func OpenWorkbookModel(path string) (WorkbookModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return WorkbookModel{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return WorkbookModel{}, err
	}
	return ParseWorkbookModel(f, info.Size())
}

// ParseWorkbookModel reads an XLSX from r/size and returns the intermediate representation.
func ParseWorkbookModel(r io.ReaderAt, size int64) (WorkbookModel, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return WorkbookModel{}, err
	}

	var model WorkbookModel

	for _, sheet := range wb.Sheets() {
		// ---- find max column ----
		maxCols := 0
		for _, row := range sheet.Rows() {
			for _, cell := range row.Cells() {
				colName, err := cell.Column()
				if err != nil {
					continue
				}
				maxCols = max(maxCols, int(reference.ColumnToIndex(colName))+1)
			}
		}

		rs := RenderSheet{
			Name:      sheet.Name(),
			ColWidths: columnWidths(sheet, maxCols),
		}
		if af := sheet.X().AutoFilter; af != nil && af.RefAttr != nil {
			rs.AutoFilter = *af.RefAttr
		}
		for _, cf := range sheet.X().ConditionalFormatting {
			rs.Rules = append(rs.Rules, decodeRules(wb.StyleSheet, rs.Name, cf)...)
		}

		// --- build rows ---
		for _, row := range sheet.Rows() {
			rowIdx := int(row.RowNumber()) - 1
			if rowIdx >= len(rs.Rows) {
				// grow slice to accommodate sparse rows
				newRows := make([]RenderRow, rowIdx-len(rs.Rows)+1)
				rs.Rows = append(rs.Rows, newRows...)
			}

			rr := &rs.Rows[rowIdx]
			rr.Cells = make([]*RenderCell, maxCols)
			for _, cell := range row.Cells() {
				colName, err := cell.Column()
				if err != nil {
					continue
				}
				colIdx := int(reference.ColumnToIndex(colName))
				var st CellStyle
				if cell.X().SAttr != nil {
					st.Bold = isBold(GetFontProps(wb.StyleSheet, *cell.X().SAttr))
				}
				rr.Cells[colIdx] = &RenderCell{
					Ref:   fmt.Sprintf("%s%d", colName, rowIdx+1),
					Value: cell.GetFormattedValue(),
					Style: st,
				}
			}
		}
		for i := range rs.Rows {
			if rs.Rows[i].Cells == nil {
				rs.Rows[i].Cells = make([]*RenderCell, maxCols)
			}
		}

		// --- resolve conditional fills ---
		for r, row := range rs.Rows {
			for c, cell := range row.Cells {
				if cell == nil {
					if fill := rs.Fill(r+1, c+1); fill != "" {
						row.Cells[c] = &RenderCell{
							Ref:   fmt.Sprintf("%s%d", reference.IndexToColumn(uint32(c)), r+1),
							Style: CellStyle{BackgroundColor: fill},
						}
					}
					continue
				}
				cell.Style.BackgroundColor = rs.Fill(r+1, c+1)
			}
		}

		model.Sheets = append(model.Sheets, rs)
	}

	return model, nil
}

func columnWidths(sheet spreadsheet.Sheet, n int) []float64 {
	widths := make([]float64, n)
	for _, cols := range sheet.X().Cols {
		for _, col := range cols.Col {
			if col.WidthAttr == nil {
				continue
			}
			for i := col.MinAttr; i <= col.MaxAttr && int(i) <= n; i++ {
				if i >= 1 {
					widths[i-1] = *col.WidthAttr
				}
			}
		}
	}
	return widths
}

var searchRE = regexp.MustCompile(`SEARCH\("((?:[^"]|"")*)",\s*(\$?)([A-Z]+)\$?(\d+)\)`)

// decodeRules converts the rules of one conditional formatting block back
// into highlight rules. Rule types the reports never write are skipped.
func decodeRules(ss spreadsheet.StyleSheet, sheet string, cf *sml.CT_ConditionalFormatting) []highlight.Rule {
	if cf.SqrefAttr == nil {
		return nil
	}
	var out []highlight.Rule
	for _, ref := range *cf.SqrefAttr {
		from, to, err := reference.ParseRangeReference(ref)
		if err != nil {
			continue
		}
		rng := highlight.Range{
			Column:   int(from.ColumnIdx) + 1,
			FirstRow: int(from.RowIdx),
			LastRow:  int(to.RowIdx),
		}
		for _, cr := range cf.CfRule {
			r := highlight.Rule{Sheet: sheet, Range: rng, RefColumn: rng.Column}
			if cr.DxfIdAttr != nil {
				r.Fill = fillColor(GetDifferentialFill(ss, *cr.DxfIdAttr))
			}
			var formula string
			if len(cr.Formula) > 0 {
				formula = strings.TrimSpace(cr.Formula[0])
			}
			switch cr.TypeAttr {
			case sml.ST_CfTypeContainsText:
				r.Kind = highlight.Substring
				if cr.TextAttr != nil {
					r.Pattern = *cr.TextAttr
				}
			case sml.ST_CfTypeExpression:
				m := searchRE.FindStringSubmatch(formula)
				if m == nil {
					continue
				}
				r.Pattern = strings.ReplaceAll(m[1], `""`, `"`)
				r.Kind = highlight.Substring
				if m[2] == "$" {
					r.Kind = highlight.RowRelative
				}
				r.RefColumn = int(reference.ColumnToIndex(m[3])) + 1
				r.Negate = !strings.HasPrefix(formula, "NOT(")
			default:
				continue
			}
			out = append(out, r)
		}
	}
	return out
}
