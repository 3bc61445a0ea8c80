// Package xlsx is the spreadsheet boundary of the report pipeline. It writes
// views as worksheets, translates highlight rules into native conditional
// formatting, and reads finished reports back into a small model used for
// previews and checks.
package xlsx

import (
	"strings"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// Helper to extract the underlying font XML struct from a style ID
func GetFontProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Font {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	xf := ss.X().CellXfs.Xf[styleID]
	if xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	fontIdx := int(*xf.FontIdAttr)
	if fontIdx < 0 || fontIdx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[fontIdx]
}

// GetDifferentialFill returns the fill of the differential style referenced
// by a conditional formatting rule.
func GetDifferentialFill(ss spreadsheet.StyleSheet, dxfID uint32) *sml.CT_Fill {
	if ss.X().Dxfs == nil || int(dxfID) >= len(ss.X().Dxfs.Dxf) {
		return nil
	}
	return ss.X().Dxfs.Dxf[dxfID].Fill
}

// fillColor returns the RGB color of a pattern fill, preferring the
// background color that conditional formats use.
func fillColor(fill *sml.CT_Fill) string {
	if fill == nil || fill.PatternFill == nil {
		return ""
	}
	pf := fill.PatternFill
	if pf.BgColor != nil && pf.BgColor.RgbAttr != nil {
		return normalizeColor(*pf.BgColor.RgbAttr)
	}
	if pf.FgColor != nil && pf.FgColor.RgbAttr != nil {
		return normalizeColor(*pf.FgColor.RgbAttr)
	}
	return ""
}

func isBold(font *sml.CT_Font) bool {
	if font == nil || len(font.B) == 0 {
		return false
	}
	return font.B[0].ValAttr == nil || *font.B[0].ValAttr
}

// normalizeColor converts an 8-digit ARGB hex (as used in XLSX) to a 6-digit RGB string.
// If the string is already 6 digits (or any other length), it is returned unchanged.
func normalizeColor(hex string) string {
	hex = strings.ToUpper(strings.TrimPrefix(hex, "#"))
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}
