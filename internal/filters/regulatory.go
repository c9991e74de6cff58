package filters

import (
	"github.com/exome-prioritizer/internal/domain"
)

// RegulatoryFeatureFilter fails intergenic and upstream-gene variants; every
// other effect class, including other non-coding ones, passes.
type RegulatoryFeatureFilter struct{}

// NewRegulatoryFeatureFilter creates a regulatory-feature filter.
func NewRegulatoryFeatureFilter() *RegulatoryFeatureFilter {
	return &RegulatoryFeatureFilter{}
}

// FilterType identifies this filter in result records.
func (f *RegulatoryFeatureFilter) FilterType() domain.FilterType {
	return domain.REGULATORY_FEATURE_FILTER
}

// RunFilter records and returns FAIL for intergenic and upstream variants
// outside annotated regulatory regions.
func (f *RegulatoryFeatureFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewPassFilterResult(domain.REGULATORY_FEATURE_FILTER)
	switch ve.Effect {
	case domain.INTERGENIC_VARIANT, domain.UPSTREAM_GENE_VARIANT:
		result = domain.NewFailFilterResult(domain.REGULATORY_FEATURE_FILTER)
	}
	ve.AddFilterResult(result)
	return result
}
