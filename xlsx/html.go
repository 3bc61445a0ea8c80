package xlsx

import (
	"fmt"
	"html"
	"strings"
)

// pixels per character of column width, Calibri 11
const charPx = 7.0

// defaultWidth is Excel's default column width in characters.
const defaultWidth = 8.43

// RenderWorkbookHTML converts the IR into an HTML string. Cells colored by a
// conditional rule are rendered with that rule's fill.
func RenderWorkbookHTML(m WorkbookModel) string {
	var builder strings.Builder

	// 1. Collect unique cell styles
	styleMap := make(map[CellStyle]string) // CellStyle -> class name
	styleList := make([]CellStyle, 0)      // To preserve order
	for _, sheet := range m.Sheets {
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if cell == nil || cell.Style == (CellStyle{}) {
					continue
				}
				if _, exists := styleMap[cell.Style]; !exists {
					styleMap[cell.Style] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
					styleList = append(styleList, cell.Style)
				}
			}
		}
	}

	// 2. Basic CSS
	builder.WriteString("<style>\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	builder.WriteString(".table td { padding: 4px 8px; border:1px solid #333; white-space:nowrap; overflow:hidden; font-family:'Calibri'; font-size:11.0pt; }\n")
	builder.WriteString(".sheet { margin-bottom: 2em; }\n")
	for i, style := range styleList {
		builder.WriteString(fmt.Sprintf(".cellstyle%d { %s }\n", i+1, styleToCSS(style)))
	}
	builder.WriteString("</style>\n")

	for _, sheet := range m.Sheets {
		totalPx := 0.0
		widths := make([]float64, len(sheet.ColWidths))
		for i, w := range sheet.ColWidths {
			if w == 0 {
				w = defaultWidth
			}
			widths[i] = w * charPx
			totalPx += widths[i]
		}
		builder.WriteString(fmt.Sprintf("<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(sheet.Name)))
		if sheet.AutoFilter != "" {
			builder.WriteString(fmt.Sprintf("<p class=\"filter\">filter: %s</p>\n", html.EscapeString(sheet.AutoFilter)))
		}
		builder.WriteString("<div style=\"width:100%;overflow-x:auto;\">\n")
		builder.WriteString(fmt.Sprintf("<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx))
		builder.WriteString("  <colgroup>\n")
		for _, w := range widths {
			builder.WriteString(fmt.Sprintf("    <col style=\"width:%.0fpx;\">\n", w))
		}
		builder.WriteString("  </colgroup>\n")

		for _, row := range sheet.Rows {
			builder.WriteString("  <tr>\n")
			for _, cell := range row.Cells {
				// Blank cell
				if cell == nil {
					builder.WriteString("    <td></td>\n")
					continue
				}
				class := ""
				if name, ok := styleMap[cell.Style]; ok {
					class = fmt.Sprintf(" class=\"%s\"", name)
				}
				builder.WriteString(fmt.Sprintf("    <td data-cell=\"%s\"%s>%s</td>\n",
					cell.Ref, class, html.EscapeString(cell.Value)))
			}
			builder.WriteString("  </tr>\n")
		}
		builder.WriteString("</table>\n</div>\n</div>\n")
	}
	return builder.String()
}

// styleToCSS converts a CellStyle to a CSS string.
func styleToCSS(s CellStyle) string {
	var b strings.Builder
	if s.Bold {
		b.WriteString("font-weight:bold;text-align:center;")
	}
	if s.BackgroundColor != "" {
		b.WriteString(fmt.Sprintf("background-color:#%s;", s.BackgroundColor))
	}
	return b.String()
}
