package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aerissecure/franklin"
	"github.com/aerissecure/franklin/variant"
)

func writeExport(t *testing.T, path string) {
	t.Helper()
	cols := variant.Schema()
	vals := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case variant.GeneID:
			vals[i] = "BRCA2"
		case variant.VariantFrequency:
			vals[i] = "0.5"
		case variant.ClinvarSignificance:
			vals[i] = "Likely benign"
		default:
			vals[i] = "x"
		}
	}
	data := strings.Join(cols, "\t") + "\n" + strings.Join(vals, "\t") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func execute(args ...string) error {
	log := zerolog.Nop()
	cmd := newRootCommand(&log)
	cmd.SetArgs(args)
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	return cmd.Execute()
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeExport(t, a)
	writeExport(t, b)
	out := t.TempDir()

	if err := execute("-i", a, b, "--output-dir", out, "--gene-match", "fold"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"a.xlsx", "b.xlsx"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRootCommandMissingInput(t *testing.T) {
	err := execute("-i", filepath.Join(t.TempDir(), "nope.txt"))
	var me *franklin.MissingInputError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want MissingInputError", err)
	}
}

func TestRootCommandBadFlag(t *testing.T) {
	in := filepath.Join(t.TempDir(), "a.txt")
	writeExport(t, in)
	if err := execute("-i", in, "--gene-match", "sometimes"); err == nil {
		t.Fatal("expected error for invalid gene-match")
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.txt")
	writeExport(t, in)
	if err := execute("-i", in); err != nil {
		t.Fatalf("execute: %v", err)
	}

	html := filepath.Join(dir, "a.html")
	if err := execute("preview", filepath.Join(dir, "a.xlsx"), "-o", html); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(html)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`data-name="klinikai"`, "background-color:#92D050;"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("preview missing %q", want)
		}
	}
}
