// Package variant holds the tabular model for variant-caller exports: the
// fixed column schema, immutable tables of records and the column operations
// used before views are derived.
package variant

import (
	"fmt"
	"slices"
)

// Field names referenced by name elsewhere in the pipeline.
const (
	Chromosome          = "Chromosome"
	ReferenceAllele     = "Reference_Allele"
	VariantAllele       = "Variant_Allele"
	ClinvarSignificance = "Clinvar_Significance"
	GeneID              = "Gene_ID"
	ClinvarID           = "Clinvar_ID"
	VariantFrequency    = "Variant_Frequency"

	// Franklin is the derived, initially empty column inserted after ClinvarID.
	Franklin = "Franklin"
)

var schema = []string{
	Chromosome,
	"Position",
	ReferenceAllele,
	VariantAllele,
	ClinvarSignificance,
	GeneID,
	ClinvarID,
	VariantFrequency,
	"Total_Depth",
	"Variant_Type",
	"Consequence",
	"dbSNP_ID",
	"Hgvsg_ID",
	"OMIM_Link",
	"GenotypeQuality",
	"Genotype",
	"Filters",
	"Ref_Allele_Depth",
	"Variant_Allele_Depth",
	"Strand_Bias",
	"All_Freq_All",
	"Non-Finnish_Eur_Allele_Freq",
	"EastAsian_Allele_Freq",
	"SouthAsian_Allele_Freq",
	"Latino_Allele_Freq",
	"African_Allele_Freq",
}

// Schema returns the recognized fields in report order. The returned slice is
// a copy.
func Schema() []string {
	return slices.Clone(schema)
}

// ReportColumns returns the column order of every written sheet: the Schema
// with Franklin placed immediately after Clinvar_ID.
func ReportColumns() []string {
	i := slices.Index(schema, ClinvarID) + 1
	return slices.Insert(slices.Clone(schema), i, Franklin)
}

// SchemaError reports a field that must be present in a table but is not.
type SchemaError struct {
	Field  string
	Anchor bool // the field was the anchor of a column insertion
	Source string
}

func (e *SchemaError) Error() string {
	what := "required field"
	if e.Anchor {
		what = "anchor field"
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s %q is missing", e.Source, what, e.Field)
	}
	return fmt.Sprintf("%s %q is missing", what, e.Field)
}
