package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
)

func TestNewGeneticInterval_Validation(t *testing.T) {
	_, err := NewGeneticInterval(0, 100, 200)
	assert.Error(t, err)

	_, err = NewGeneticInterval(1, 200, 100)
	assert.Error(t, err)

	interval, err := NewGeneticInterval(1, 145508800, 145508800)
	require.NoError(t, err)
	assert.Equal(t, "chr1:145508800-145508800", interval.String())
}

func TestIntervalFilter_RequiresIntervals(t *testing.T) {
	_, err := NewIntervalFilter()
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeInvalidConfiguration))
}

func TestIntervalFilter_RunFilter(t *testing.T) {
	interval, err := NewGeneticInterval(1, 145508800, 145508900)
	require.NoError(t, err)
	filter, err := NewIntervalFilter(interval)
	require.NoError(t, err)
	assert.Equal(t, domain.INTERVAL_FILTER, filter.FilterType())

	tests := []struct {
		name       string
		chromosome int
		position   int
		passes     bool
	}{
		{"inside", 1, 145508850, true},
		{"start inclusive", 1, 145508800, true},
		{"end inclusive", 1, 145508900, true},
		{"before start", 1, 145508799, false},
		{"after end", 1, 145508901, false},
		{"wrong chromosome", 2, 145508850, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := domain.NewVariantEvaluation(tt.chromosome, tt.position, "A", "T")
			assert.Equal(t, tt.passes, filter.RunFilter(ve).Passed())
		})
	}
}

func TestIntervalFilter_AnyIntervalSuffices(t *testing.T) {
	first, err := NewGeneticInterval(1, 100, 200)
	require.NoError(t, err)
	second, err := NewGeneticInterval(2, 300, 400)
	require.NoError(t, err)
	filter, err := NewIntervalFilter(first, second)
	require.NoError(t, err)

	ve := domain.NewVariantEvaluation(2, 350, "A", "T")
	assert.True(t, filter.RunFilter(ve).Passed())
}
