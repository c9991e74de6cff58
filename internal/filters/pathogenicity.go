package filters

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// PathogenicityFilter passes variants predicted to damage the protein.
// Loss-of-function effect classes always pass; missense-equivalent effects
// pass when any predictor score reaches the cutoff; benign effect classes
// fail when KeepOnlyPathogenic is set and pass otherwise.
type PathogenicityFilter struct {
	Cutoff             float64
	KeepOnlyPathogenic bool
}

// NewPathogenicityFilter creates a pathogenicity filter with a cutoff in
// [0, 1].
func NewPathogenicityFilter(cutoff float64, keepOnlyPathogenic bool) (*PathogenicityFilter, error) {
	if cutoff < 0 || cutoff > 1 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("pathogenicity cutoff must be in range [0, 1]: %f", cutoff))
	}
	return &PathogenicityFilter{Cutoff: cutoff, KeepOnlyPathogenic: keepOnlyPathogenic}, nil
}

// FilterType identifies this filter in result records.
func (f *PathogenicityFilter) FilterType() domain.FilterType {
	return domain.PATHOGENICITY_FILTER
}

// RunFilter records and returns the pathogenicity verdict for the variant.
func (f *PathogenicityFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewFailFilterResult(domain.PATHOGENICITY_FILTER)
	if f.passes(ve) {
		result = domain.NewPassFilterResult(domain.PATHOGENICITY_FILTER)
	}
	ve.AddFilterResult(result)
	return result
}

func (f *PathogenicityFilter) passes(ve *domain.VariantEvaluation) bool {
	if ve.Effect.IsNonMissenseDeleterious() {
		return true
	}
	if ve.Effect.IsBenign() {
		return !f.KeepOnlyPathogenic
	}
	if ve.Effect.IsMissenseEquivalent() {
		if ve.PathogenicityData == nil {
			// No predictor data: the variant defaults to a score of 0.
			return f.Cutoff == 0
		}
		return ve.PathogenicityData.MaxScore() >= f.Cutoff
	}
	return !f.KeepOnlyPathogenic
}
