// Package franklin turns tab-separated variant exports into spreadsheet
// reports with three sheets: every variant, the high-frequency variants and
// the variants of clinically relevant genes. The last two sheets color
// Clinvar_Significance and the Franklin review column by benignity.
package franklin

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aerissecure/franklin/highlight"
	"github.com/aerissecure/franklin/variant"
	"github.com/aerissecure/franklin/view"
	"github.com/aerissecure/franklin/xlsx"
)

// DocumentExt is the extension of produced reports.
const DocumentExt = ".xlsx"

// PinnedWidths fixes the width of some columns regardless of their content.
var PinnedWidths = map[string]float64{
	variant.Chromosome:      15,
	variant.ReferenceAllele: 20,
	variant.VariantAllele:   20,
}

// Options configure report generation.
type Options struct {
	// OutputDir receives the reports. Empty means next to each input.
	OutputDir string
	// Extension selects the files taken from a directory input.
	Extension string
	GeneMatch view.GeneMatch
	// Verify re-opens every report before it is moved into place.
	Verify bool
	Logger zerolog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Extension: ".txt",
		GeneMatch: view.MatchExact,
		Verify:    true,
		Logger:    zerolog.Nop(),
	}
}

// OutputPath is the report path for input: its name with the extension
// replaced by DocumentExt, in dir if given, otherwise beside the input.
func OutputPath(input, dir string) string {
	out := strings.TrimSuffix(input, filepath.Ext(input)) + DocumentExt
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}

// ProcessFile loads one export, derives its views and persists the report.
// It returns the path written.
func ProcessFile(path string, opts Options) (string, error) {
	log := opts.Logger.With().Str("file", path).Logger()
	log.Info().Msg("processing")

	tbl, err := variant.LoadFile(path)
	if err != nil {
		return "", err
	}
	views, err := view.Build(tbl, view.Options{GeneMatch: opts.GeneMatch})
	if err != nil {
		return "", err
	}
	ev := log.Debug()
	for _, v := range views {
		ev = ev.Int(v.Name(), v.Len())
	}
	ev.Msg("views derived")

	doc, err := Assemble(views)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	out := OutputPath(path, opts.OutputDir)
	var check func(string) error
	if opts.Verify {
		check = func(tmp string) error { return Verify(tmp, views) }
	}
	if err := doc.Save(out, check); err != nil {
		return "", fmt.Errorf("save %s: %w", out, err)
	}
	log.Info().Str("output", out).Msg("report written")
	return out, nil
}

// Assemble writes views as sheets in order, then attaches highlight rules,
// filters and column widths computed from each sheet's final layout.
func Assemble(views []*view.View) (*xlsx.Document, error) {
	doc := xlsx.NewDocument()
	sheets := make([]*xlsx.Sheet, len(views))
	for i, v := range views {
		sheets[i] = doc.WriteTable(v.Name(), v.Table())
	}

	for i, v := range views {
		rules, err := highlight.ForView(v)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", v.Name(), err)
		}
		for _, r := range rules {
			sheets[i].AddRule(r)
		}
	}

	for i, s := range sheets {
		s.SetAutoFilter()
		s.AutoFit(pinned(views[i].Layout()))
	}
	return doc, nil
}

func pinned(layout *variant.Layout) map[int]float64 {
	out := make(map[int]float64, len(PinnedWidths))
	for name, w := range PinnedWidths {
		if i, ok := layout.Index(name); ok {
			out[i] = w
		}
	}
	return out
}
