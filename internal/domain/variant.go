package domain

import (
	"fmt"
	"sort"
)

// GeneIDUnknown is the sentinel gene identifier for variants the annotator
// could not place in a gene. Such variants are dropped at gene grouping.
const GeneIDUnknown = ""

// FilterResult is the outcome of one filter applied to one entity. It is
// immutable once recorded.
type FilterResult struct {
	Type   FilterType         `json:"filterType"`
	Status FilterResultStatus `json:"status"`
}

// NewPassFilterResult creates a PASS result for the given filter type.
func NewPassFilterResult(filterType FilterType) FilterResult {
	return FilterResult{Type: filterType, Status: PASS}
}

// NewFailFilterResult creates a FAIL result for the given filter type.
func NewFailFilterResult(filterType FilterType) FilterResult {
	return FilterResult{Type: filterType, Status: FAIL}
}

// Passed reports whether the result is a PASS.
func (fr FilterResult) Passed() bool {
	return fr.Status == PASS
}

// filterResultsRecord is the mutable per-entity record of filter outcomes.
// Iteration order is the order in which results were first recorded, which
// the runner guarantees is step-declaration order. Re-recording a type is a
// no-op so that filters stay idempotent.
type filterResultsRecord struct {
	results map[FilterType]FilterResult
	order   []FilterType
}

func newFilterResultsRecord() filterResultsRecord {
	return filterResultsRecord{results: make(map[FilterType]FilterResult)}
}

func (r *filterResultsRecord) add(result FilterResult) {
	if _, seen := r.results[result.Type]; seen {
		return
	}
	r.results[result.Type] = result
	r.order = append(r.order, result.Type)
}

func (r *filterResultsRecord) get(filterType FilterType) (FilterResult, bool) {
	result, ok := r.results[filterType]
	return result, ok
}

func (r *filterResultsRecord) all() []FilterResult {
	results := make([]FilterResult, 0, len(r.order))
	for _, t := range r.order {
		results = append(results, r.results[t])
	}
	return results
}

func (r *filterResultsRecord) failedTypes() []FilterType {
	var failed []FilterType
	for _, t := range r.order {
		if !r.results[t].Passed() {
			failed = append(failed, t)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return failed
}

func (r *filterResultsRecord) anyFailed() bool {
	for _, result := range r.results {
		if !result.Passed() {
			return true
		}
	}
	return false
}

// VariantEvaluation is one annotated variant under evaluation. It is created
// by the external annotator and mutated only by filters (results) and data
// providers (frequency and pathogenicity attachments).
type VariantEvaluation struct {
	Chromosome  int
	Position    int
	Ref         string
	Alt         string
	AltAlleleID int

	Effect     VariantEffect
	Quality    float64
	GeneSymbol string
	GeneID     string

	// SampleGenotypes maps sample identifier to the observed genotype.
	SampleGenotypes map[string]SampleGenotype

	FrequencyData     *FrequencyData
	PathogenicityData *PathogenicityData

	filterResults   filterResultsRecord
	compatibleModes map[ModeOfInheritance]bool
}

// NewVariantEvaluation creates a variant evaluation for the given allele.
func NewVariantEvaluation(chromosome, position int, ref, alt string) *VariantEvaluation {
	return &VariantEvaluation{
		Chromosome:      chromosome,
		Position:        position,
		Ref:             ref,
		Alt:             alt,
		Effect:          SEQUENCE_VARIANT,
		SampleGenotypes: make(map[string]SampleGenotype),
		filterResults:   newFilterResultsRecord(),
		compatibleModes: make(map[ModeOfInheritance]bool),
	}
}

// AddFilterResult records the outcome of one filter on this variant. Results
// are immutable once recorded; later results for the same type are ignored.
func (ve *VariantEvaluation) AddFilterResult(result FilterResult) {
	ve.filterResults.add(result)
}

// FilterResults returns the recorded results in the order the filters ran.
func (ve *VariantEvaluation) FilterResults() []FilterResult {
	return ve.filterResults.all()
}

// PassedFilter reports whether the named filter recorded a PASS.
func (ve *VariantEvaluation) PassedFilter(filterType FilterType) bool {
	result, ok := ve.filterResults.get(filterType)
	return ok && result.Passed()
}

// FailedFilterTypes returns the types that recorded FAIL, sorted.
func (ve *VariantEvaluation) FailedFilterTypes() []FilterType {
	return ve.filterResults.failedTypes()
}

// FilterStatus derives the variant's overall status from its record: FAILED
// as soon as any filter failed, PASSED when at least one passed and none
// failed, UNFILTERED otherwise.
func (ve *VariantEvaluation) FilterStatus() FilterStatus {
	if ve.filterResults.anyFailed() {
		return FAILED
	}
	if len(ve.filterResults.results) > 0 {
		return PASSED
	}
	return UNFILTERED
}

// PassedFilters reports whether the variant currently holds PASSED status.
func (ve *VariantEvaluation) PassedFilters() bool {
	return ve.FilterStatus() == PASSED
}

// VariantScore is the per-variant contribution to the gene filter score: the
// most pathogenic predictor score, capped to [0, 1]. Variants without
// pathogenicity data score 0.
func (ve *VariantEvaluation) VariantScore() float64 {
	if ve.PathogenicityData == nil {
		return 0
	}
	return ve.PathogenicityData.MaxScore()
}

// MaxFrequency is the highest observed minor-allele frequency, 0 when the
// allele was never queried or is unrepresented.
func (ve *VariantEvaluation) MaxFrequency() float64 {
	if ve.FrequencyData == nil {
		return 0
	}
	return ve.FrequencyData.MaxFreq()
}

// SetCompatibleModes replaces the set of inheritance modes this variant
// participates in.
func (ve *VariantEvaluation) SetCompatibleModes(modes []ModeOfInheritance) {
	ve.compatibleModes = make(map[ModeOfInheritance]bool, len(modes))
	for _, moi := range modes {
		ve.compatibleModes[moi] = true
	}
}

// IsCompatibleWith reports whether the variant participates in a genotype
// combination compatible with the given mode.
func (ve *VariantEvaluation) IsCompatibleWith(moi ModeOfInheritance) bool {
	if moi == ANY {
		return true
	}
	return ve.compatibleModes[moi]
}

// IsAutosomal reports whether the variant lies on an autosome.
func (ve *VariantEvaluation) IsAutosomal() bool {
	return ve.Chromosome > 0 && ve.Chromosome < ChrX
}

// IsXChromosomal reports whether the variant lies on the X chromosome.
func (ve *VariantEvaluation) IsXChromosomal() bool {
	return ve.Chromosome == ChrX
}

// IsMitochondrial reports whether the variant lies on the mitochondrial
// chromosome.
func (ve *VariantEvaluation) IsMitochondrial() bool {
	return ve.Chromosome == ChrMT
}

func (ve *VariantEvaluation) String() string {
	return fmt.Sprintf("%d:%d %s>%s %s", ve.Chromosome, ve.Position, ve.Ref, ve.Alt, ve.Effect)
}
