package filters

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// FrequencyFilter passes rare variants. The threshold is a percentage in
// [0, 100]. In strict mode (FailIfRepresented) any variant recorded in a
// population database fails, as does a variant that was never queried, since
// strict mode requires knownness information.
type FrequencyFilter struct {
	MaxFreq           float64
	FailIfRepresented bool
}

// NewFrequencyFilter creates a frequency filter. Thresholds outside [0, 100]
// are rejected.
func NewFrequencyFilter(maxFreq float64, failIfRepresented bool) (*FrequencyFilter, error) {
	if maxFreq < 0 || maxFreq > 100 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("frequency threshold must be in range [0, 100]: %f", maxFreq))
	}
	return &FrequencyFilter{MaxFreq: maxFreq, FailIfRepresented: failIfRepresented}, nil
}

// FilterType identifies this filter in result records.
func (f *FrequencyFilter) FilterType() domain.FilterType {
	return domain.FREQUENCY_FILTER
}

// RunFilter records and returns the frequency verdict for the variant.
func (f *FrequencyFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewFailFilterResult(domain.FREQUENCY_FILTER)
	if f.passes(ve.FrequencyData) {
		result = domain.NewPassFilterResult(domain.FREQUENCY_FILTER)
	}
	ve.AddFilterResult(result)
	return result
}

func (f *FrequencyFilter) passes(data *domain.FrequencyData) bool {
	if data == nil {
		// Unqueried variant: passes unless knownness information is required.
		return !f.FailIfRepresented
	}
	if f.FailIfRepresented && data.IsRepresentedInDatabase() {
		return false
	}
	return data.MaxFreq() <= f.MaxFreq
}
