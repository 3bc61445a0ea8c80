package franklin

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/aerissecure/franklin/highlight"
	"github.com/aerissecure/franklin/variant"
	"github.com/aerissecure/franklin/view"
	"github.com/aerissecure/franklin/xlsx"
)

type sampleRow struct {
	gene, freq, sig string
}

var sampleRows = []sampleRow{
	{"TP53", "0.21", "Pathogenic"},
	{"BRCA1", "0.48", "Likely benign"},
	{"BRCA2", "0.52", "Benign"},
	{"ATM", "0.12", "Uncertain significance"},
	{"PALB2", "0.35", "Conflicting interpretations of pathogenicity"},
	{"MYH7", "0.99", "Likely benign"},
}

// writeExport writes a tab-separated export with the schema columns in
// reverse order, leaving out the named columns.
func writeExport(t *testing.T, path string, rows []sampleRow, without ...string) {
	t.Helper()
	cols := variant.Schema()
	slices.Reverse(cols)
	cols = slices.DeleteFunc(cols, func(c string) bool { return slices.Contains(without, c) })

	var b strings.Builder
	b.WriteString(strings.Join(cols, "\t") + "\n")
	for i, r := range rows {
		vals := make([]string, len(cols))
		for j, c := range cols {
			switch c {
			case variant.GeneID:
				vals[j] = r.gene
			case variant.VariantFrequency:
				vals[j] = r.freq
			case variant.ClinvarSignificance:
				vals[j] = r.sig
			case variant.Chromosome:
				vals[j] = "chr" + string(rune('1'+i))
			default:
				vals[j] = "."
			}
		}
		b.WriteString(strings.Join(vals, "\t") + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, dir, want string
	}{
		{"data/sample.txt", "", "data/sample.xlsx"},
		{"data/sample.tsv.txt", "", "data/sample.tsv.xlsx"},
		{"sample", "", "sample.xlsx"},
		{"data/sample.txt", "out", filepath.Join("out", "sample.xlsx")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.dir); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.in, tt.dir, got, tt.want)
		}
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "patient.txt")
	writeExport(t, in, sampleRows)

	out, err := ProcessFile(in, DefaultOptions())
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if out != filepath.Join(dir, "patient.xlsx") {
		t.Fatalf("output = %s", out)
	}

	m, err := xlsx.OpenWorkbookModel(out)
	if err != nil {
		t.Fatalf("OpenWorkbookModel: %v", err)
	}
	if got := m.SheetNames(); !slices.Equal(got, []string{view.Variants, view.Extended, view.Clinical}) {
		t.Fatalf("sheets = %v", got)
	}

	layout := variant.NewLayout(variant.ReportColumns())
	sigCol, _ := layout.Position(variant.ClinvarSignificance)
	geneCol, _ := layout.Position(variant.GeneID)
	wantRows := map[string]int{view.Variants: 6, view.Extended: 4, view.Clinical: 4}

	for _, s := range m.Sheets {
		if got := s.Header(); !slices.Equal(got, variant.ReportColumns()) {
			t.Errorf("%s header = %v", s.Name, got)
		}
		if got := len(s.Rows) - 1; got != wantRows[s.Name] {
			t.Errorf("%s has %d data rows, want %d", s.Name, got, wantRows[s.Name])
		}
		if s.AutoFilter != "A1:AA"+strconv.Itoa(wantRows[s.Name]+1) {
			t.Errorf("%s autofilter = %s", s.Name, s.AutoFilter)
		}
		if s.ColWidths[0] != 15 || s.ColWidths[2] != 20 || s.ColWidths[3] != 20 {
			t.Errorf("%s pinned widths = %v", s.Name, s.ColWidths[:4])
		}
		if franklin, _ := layout.Index(variant.Franklin); s.ColWidths[franklin] != float64(len(variant.Franklin)+xlsx.WidthPadding) {
			t.Errorf("%s Franklin width = %v", s.Name, s.ColWidths[franklin])
		}

		if !highlight.Highlighted(s.Name) {
			if len(s.Rules) != 0 {
				t.Errorf("%s has %d rules, want none", s.Name, len(s.Rules))
			}
			continue
		}
		if len(s.Rules) != 2 {
			t.Fatalf("%s has %d rules, want 2", s.Name, len(s.Rules))
		}
		franklinCol, _ := layout.Position(variant.Franklin)
		for row := 2; row <= len(s.Rows); row++ {
			sig := s.Value(row, sigCol)
			benign := strings.Contains(strings.ToLower(sig), "benign")
			if got := s.Fill(row, sigCol) == highlight.Green; got != benign {
				t.Errorf("%s row %d (%s) green = %v", s.Name, row, sig, got)
			}
			if got := s.Fill(row, franklinCol) == highlight.Yellow; got == benign {
				t.Errorf("%s row %d (%s) yellow = %v", s.Name, row, sig, got)
			}
		}
	}

	clinical, _ := m.Sheet(view.Clinical)
	var genes []string
	for row := 2; row <= len(clinical.Rows); row++ {
		genes = append(genes, clinical.Value(row, geneCol))
	}
	if want := []string{"ATM", "BRCA1", "BRCA2", "PALB2"}; !slices.Equal(genes, want) {
		t.Errorf("clinical genes = %v, want %v", genes, want)
	}
}

func TestProcessFileSchemaError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.txt")
	writeExport(t, in, sampleRows, variant.ClinvarID)

	_, err := ProcessFile(in, DefaultOptions())
	var se *variant.SchemaError
	if !errors.As(err, &se) || se.Field != variant.ClinvarID {
		t.Fatalf("err = %v, want SchemaError for %s", err, variant.ClinvarID)
	}
	if _, err := os.Stat(OutputPath(in, "")); !os.IsNotExist(err) {
		t.Errorf("report written despite schema error")
	}
}

func TestProcessFileOutputDir(t *testing.T) {
	in := filepath.Join(t.TempDir(), "patient.txt")
	writeExport(t, in, sampleRows)
	outDir := t.TempDir()

	opts := DefaultOptions()
	opts.OutputDir = outDir
	opts.GeneMatch = view.MatchFold
	out, err := ProcessFile(in, opts)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if filepath.Dir(out) != outDir {
		t.Errorf("output %s not in %s", out, outDir)
	}
}

func TestVerifyDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "patient.txt")
	writeExport(t, in, sampleRows)
	out, err := ProcessFile(in, DefaultOptions())
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}

	tbl, _ := variant.LoadFile(in)
	views, _ := view.Build(tbl, view.Options{})
	if err := Verify(out, views); err != nil {
		t.Errorf("Verify: %v", err)
	}

	var ve *VerifyError
	if err := Verify(out, views[:2]); !errors.As(err, &ve) {
		t.Errorf("Verify with missing view: err = %v, want VerifyError", err)
	}
}
