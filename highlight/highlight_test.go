package highlight

import (
	"testing"

	"github.com/aerissecure/franklin/variant"
	"github.com/aerissecure/franklin/view"
)

func reportLayout() *variant.Layout {
	return variant.NewLayout(variant.ReportColumns())
}

func TestBuild(t *testing.T) {
	rules, err := Build(view.Extended, reportLayout(), 10)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	benign, notBenign := rules[0], rules[1]
	// Clinvar_Significance is the 5th column, Franklin the 8th.
	if got := benign.Range; got != (Range{Column: 5, FirstRow: 1, LastRow: 11}) {
		t.Errorf("benign range = %+v", got)
	}
	if benign.Fill != Green || benign.Kind != Substring || benign.RefColumn != 5 || benign.Negate {
		t.Errorf("benign rule = %+v", benign)
	}

	if got := notBenign.Range; got != (Range{Column: 8, FirstRow: 2, LastRow: 11}) {
		t.Errorf("not-benign range = %+v", got)
	}
	if notBenign.Fill != Yellow || notBenign.Kind != RowRelative || !notBenign.Negate || notBenign.RefColumn != 5 {
		t.Errorf("not-benign rule = %+v", notBenign)
	}
}

func TestBuildUsesFinalLayout(t *testing.T) {
	layout := variant.NewLayout([]string{"x", variant.Franklin, "y", variant.ClinvarSignificance})
	rules, err := Build("s", layout, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rules[0].Range != (Range{4, 1, 4}) || rules[1].Range != (Range{2, 2, 4}) {
		t.Errorf("ranges = %+v, %+v", rules[0].Range, rules[1].Range)
	}
}

func TestBuildEmptySheet(t *testing.T) {
	rules, err := Build("s", reportLayout(), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rules[0].Range != (Range{5, 1, 1}) || rules[1].Range != (Range{8, 2, 2}) {
		t.Errorf("ranges = %+v, %+v", rules[0].Range, rules[1].Range)
	}
}

func TestBuildMissingColumn(t *testing.T) {
	if _, err := Build("s", variant.NewLayout(variant.Schema()), 1); err == nil {
		t.Fatal("expected error without Franklin column")
	}
}

func TestMatches(t *testing.T) {
	rules, _ := Build(view.Clinical, reportLayout(), 3)
	benign, notBenign := rules[0], rules[1]

	sheet := map[int]string{ // row -> Clinvar_Significance
		1: "Clinvar_Significance",
		2: "Likely benign",
		3: "Pathogenic",
		4: "BENIGN",
	}
	value := func(row int) func(int) string {
		return func(col int) string {
			if col == benign.Range.Column {
				return sheet[row]
			}
			return ""
		}
	}

	tests := []struct {
		row           int
		green, yellow bool
	}{
		{1, false, false},
		{2, true, false},
		{3, false, true},
		{4, true, false},
		{5, false, false}, // outside the used range
	}
	for _, tt := range tests {
		if got := benign.Matches(tt.row, value(tt.row)); got != tt.green {
			t.Errorf("row %d green = %v, want %v", tt.row, got, tt.green)
		}
		if got := notBenign.Matches(tt.row, value(tt.row)); got != tt.yellow {
			t.Errorf("row %d yellow = %v, want %v", tt.row, got, tt.yellow)
		}
	}
}

func TestForView(t *testing.T) {
	src := variant.NewTable(variant.Schema(), [][]string{make([]string, len(variant.Schema()))})
	views, err := view.Build(src, view.Options{})
	if err != nil {
		t.Fatalf("view.Build: %v", err)
	}
	for _, v := range views {
		rules, err := ForView(v)
		if err != nil {
			t.Fatalf("ForView(%s): %v", v.Name(), err)
		}
		want := 2
		if v.Name() == view.Variants {
			want = 0
		}
		if len(rules) != want {
			t.Errorf("%s: %d rules, want %d", v.Name(), len(rules), want)
		}
	}
}
