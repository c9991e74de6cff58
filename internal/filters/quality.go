// Package filters contains the variant-level and gene-level filters the
// analysis runner schedules. Every filter records its result on the entity it
// evaluated, pass or fail, so a complete per-variant diagnostic record is
// built up over the run.
package filters

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// QualityFilter passes variants whose call quality meets a minimum threshold.
type QualityFilter struct {
	MinQuality float64
}

// NewQualityFilter creates a quality filter. The threshold must not be
// negative.
func NewQualityFilter(minQuality float64) (*QualityFilter, error) {
	if minQuality < 0 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("quality threshold must not be negative: %f", minQuality))
	}
	return &QualityFilter{MinQuality: minQuality}, nil
}

// FilterType identifies this filter in result records.
func (f *QualityFilter) FilterType() domain.FilterType {
	return domain.QUALITY_FILTER
}

// RunFilter records and returns PASS iff the variant quality meets the
// threshold.
func (f *QualityFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewFailFilterResult(domain.QUALITY_FILTER)
	if ve.Quality >= f.MinQuality {
		result = domain.NewPassFilterResult(domain.QUALITY_FILTER)
	}
	ve.AddFilterResult(result)
	return result
}
