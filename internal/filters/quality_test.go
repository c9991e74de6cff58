package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
)

func TestQualityFilter_RejectsNegativeThreshold(t *testing.T) {
	_, err := NewQualityFilter(-0.1)
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeInvalidConfiguration))
}

func TestQualityFilter_RunFilter(t *testing.T) {
	filter, err := NewQualityFilter(30)
	require.NoError(t, err)
	assert.Equal(t, domain.QUALITY_FILTER, filter.FilterType())

	tests := []struct {
		name    string
		quality float64
		passes  bool
	}{
		{"above threshold", 100, true},
		{"at threshold", 30, true},
		{"below threshold", 29.9, false},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := domain.NewVariantEvaluation(1, 100, "A", "T")
			ve.Quality = tt.quality
			result := filter.RunFilter(ve)
			assert.Equal(t, tt.passes, result.Passed())
			assert.Len(t, ve.FilterResults(), 1, "result recorded either way")
		})
	}
}
