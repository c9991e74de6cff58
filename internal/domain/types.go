// Package domain contains the core entities flowing through the variant
// prioritization pipeline: variant evaluations, genes, pedigrees, phenotype
// terms and the closed enumerations that tag filter and prioritizer results.
package domain

// FilterType identifies the filter that produced a FilterResult. The set is
// closed: every filter in the pipeline carries exactly one of these tags.
type FilterType string

const (
	QUALITY_FILTER            FilterType = "QUALITY"
	INTERVAL_FILTER           FilterType = "INTERVAL"
	FREQUENCY_FILTER          FilterType = "FREQUENCY"
	PATHOGENICITY_FILTER      FilterType = "PATHOGENICITY"
	KNOWN_VARIANT_FILTER      FilterType = "KNOWN_VARIANT"
	REGULATORY_FEATURE_FILTER FilterType = "REGULATORY_FEATURE"
	INHERITANCE_FILTER        FilterType = "INHERITANCE"
	PRIORITY_SCORE_FILTER     FilterType = "PRIORITY_SCORE"
)

// IsValid reports whether the filter type is one of the closed enumeration.
func (ft FilterType) IsValid() bool {
	switch ft {
	case QUALITY_FILTER, INTERVAL_FILTER, FREQUENCY_FILTER, PATHOGENICITY_FILTER,
		KNOWN_VARIANT_FILTER, REGULATORY_FEATURE_FILTER, INHERITANCE_FILTER, PRIORITY_SCORE_FILTER:
		return true
	default:
		return false
	}
}

func (ft FilterType) String() string {
	return string(ft)
}

// PriorityType identifies the prioritizer that produced a PriorityResult.
// Scores are not comparable across types.
type PriorityType string

const (
	OMIM_PRIORITY        PriorityType = "OMIM"
	PHENIX_PRIORITY      PriorityType = "PHENIX"
	PHENODIGM_PRIORITY   PriorityType = "PHENODIGM"
	HIPHIVE_PRIORITY     PriorityType = "HIPHIVE"
	EXOMEWALKER_PRIORITY PriorityType = "EXOMEWALKER"
	MOCK_PRIORITY        PriorityType = "MOCK"
)

// IsValid reports whether the priority type is one of the closed enumeration.
func (pt PriorityType) IsValid() bool {
	switch pt {
	case OMIM_PRIORITY, PHENIX_PRIORITY, PHENODIGM_PRIORITY, HIPHIVE_PRIORITY,
		EXOMEWALKER_PRIORITY, MOCK_PRIORITY:
		return true
	default:
		return false
	}
}

func (pt PriorityType) String() string {
	return string(pt)
}

// FilterResultStatus is the outcome of one filter applied to one entity.
type FilterResultStatus string

const (
	PASS FilterResultStatus = "PASS"
	FAIL FilterResultStatus = "FAIL"
)

// FilterStatus is the overall filtering state of a variant, derived from its
// filter-result record. Once any filter records FAIL the status is FAILED for
// the remainder of the run.
type FilterStatus string

const (
	UNFILTERED FilterStatus = "UNFILTERED"
	PASSED     FilterStatus = "PASSED"
	FAILED     FilterStatus = "FAILED"
)

// ModeOfInheritance is the genetic pattern by which a variant segregates
// through a pedigree. ANY is compatible with everything and is excluded from
// result aggregation.
type ModeOfInheritance string

const (
	AUTOSOMAL_DOMINANT  ModeOfInheritance = "AUTOSOMAL_DOMINANT"
	AUTOSOMAL_RECESSIVE ModeOfInheritance = "AUTOSOMAL_RECESSIVE"
	X_DOMINANT          ModeOfInheritance = "X_DOMINANT"
	X_RECESSIVE         ModeOfInheritance = "X_RECESSIVE"
	MITOCHONDRIAL       ModeOfInheritance = "MITOCHONDRIAL"
	ANY                 ModeOfInheritance = "ANY"
)

// IsValid reports whether the mode is one of the closed enumeration.
func (moi ModeOfInheritance) IsValid() bool {
	switch moi {
	case AUTOSOMAL_DOMINANT, AUTOSOMAL_RECESSIVE, X_DOMINANT, X_RECESSIVE, MITOCHONDRIAL, ANY:
		return true
	default:
		return false
	}
}

func (moi ModeOfInheritance) String() string {
	return string(moi)
}

// SubModeOfInheritance refines AUTOSOMAL_RECESSIVE and X_RECESSIVE into their
// homozygous and compound-heterozygous sub-modes, each with its own
// minor-allele-frequency ceiling.
type SubModeOfInheritance string

const (
	SUB_AUTOSOMAL_DOMINANT           SubModeOfInheritance = "AUTOSOMAL_DOMINANT"
	SUB_AUTOSOMAL_RECESSIVE_HOM_ALT  SubModeOfInheritance = "AUTOSOMAL_RECESSIVE_HOM_ALT"
	SUB_AUTOSOMAL_RECESSIVE_COMP_HET SubModeOfInheritance = "AUTOSOMAL_RECESSIVE_COMP_HET"
	SUB_X_DOMINANT                   SubModeOfInheritance = "X_DOMINANT"
	SUB_X_RECESSIVE_HOM_ALT          SubModeOfInheritance = "X_RECESSIVE_HOM_ALT"
	SUB_X_RECESSIVE_COMP_HET         SubModeOfInheritance = "X_RECESSIVE_COMP_HET"
	SUB_MITOCHONDRIAL                SubModeOfInheritance = "MITOCHONDRIAL"
)

// ToModeOfInheritance collapses a sub-mode to its parent mode.
func (sub SubModeOfInheritance) ToModeOfInheritance() ModeOfInheritance {
	switch sub {
	case SUB_AUTOSOMAL_DOMINANT:
		return AUTOSOMAL_DOMINANT
	case SUB_AUTOSOMAL_RECESSIVE_HOM_ALT, SUB_AUTOSOMAL_RECESSIVE_COMP_HET:
		return AUTOSOMAL_RECESSIVE
	case SUB_X_DOMINANT:
		return X_DOMINANT
	case SUB_X_RECESSIVE_HOM_ALT, SUB_X_RECESSIVE_COMP_HET:
		return X_RECESSIVE
	case SUB_MITOCHONDRIAL:
		return MITOCHONDRIAL
	default:
		return ANY
	}
}

func (sub SubModeOfInheritance) String() string {
	return string(sub)
}

// Organism identifies the species a phenotype model is annotated against.
type Organism string

const (
	HUMAN Organism = "HUMAN"
	MOUSE Organism = "MOUSE"
	FISH  Organism = "FISH"
)

func (o Organism) String() string {
	return string(o)
}

// Chromosome indices follow the VCF integer convention.
const (
	ChrX  = 23
	ChrY  = 24
	ChrMT = 25
)
