package filters

import (
	"github.com/exome-prioritizer/internal/domain"
)

// KnownVariantFilter passes variants absent from every configured population
// database. An unqueried variant passes: absence of a lookup is not evidence
// of knownness.
type KnownVariantFilter struct{}

// NewKnownVariantFilter creates a known-variant filter.
func NewKnownVariantFilter() *KnownVariantFilter {
	return &KnownVariantFilter{}
}

// FilterType identifies this filter in result records.
func (f *KnownVariantFilter) FilterType() domain.FilterType {
	return domain.KNOWN_VARIANT_FILTER
}

// RunFilter records and returns PASS iff no population database recorded the
// variant.
func (f *KnownVariantFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewPassFilterResult(domain.KNOWN_VARIANT_FILTER)
	if ve.FrequencyData != nil && ve.FrequencyData.IsRepresentedInDatabase() {
		result = domain.NewFailFilterResult(domain.KNOWN_VARIANT_FILTER)
	}
	ve.AddFilterResult(result)
	return result
}
