package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
)

const freqThreshold = 0.1

func frequencyVariant(data *domain.FrequencyData) *domain.VariantEvaluation {
	ve := domain.NewVariantEvaluation(6, 1000000, "C", "T")
	ve.FrequencyData = data
	return ve
}

func TestFrequencyFilter_FilterType(t *testing.T) {
	filter, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)
	assert.Equal(t, domain.FREQUENCY_FILTER, filter.FilterType())
}

func TestFrequencyFilter_RejectsThresholdOutOfRange(t *testing.T) {
	_, err := NewFrequencyFilter(-1, false)
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeInvalidConfiguration))

	_, err = NewFrequencyFilter(101, false)
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeInvalidConfiguration))
}

func TestFrequencyFilter_PassesFrequencyUnderThreshold(t *testing.T) {
	filter, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)

	ve := frequencyVariant(domain.NewFrequencyData(domain.NewFrequency(freqThreshold-0.02, domain.ESP_ALL)))
	assert.True(t, filter.RunFilter(ve).Passed())
	assert.True(t, ve.PassedFilter(domain.FREQUENCY_FILTER))
}

func TestFrequencyFilter_FailsFrequencyOverThreshold(t *testing.T) {
	filter, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)

	ve := frequencyVariant(domain.NewFrequencyData(domain.NewFrequency(freqThreshold+1.0, domain.ESP_ALL)))
	assert.False(t, filter.RunFilter(ve).Passed())
	assert.Equal(t, domain.FAILED, ve.FilterStatus())
}

func TestFrequencyFilter_StrictModeFailsRepresentedVariant(t *testing.T) {
	filter, err := NewFrequencyFilter(freqThreshold, true)
	require.NoError(t, err)

	ve := frequencyVariant(domain.NewFrequencyData(domain.NewFrequency(freqThreshold-0.02, domain.ESP_ALL)))
	assert.False(t, filter.RunFilter(ve).Passed(),
		"a characterized variant fails strict mode even under the threshold")
}

func TestFrequencyFilter_NoFrequencyDataPassesBothModes(t *testing.T) {
	ve := frequencyVariant(domain.EmptyFrequencyData())

	nonStrict, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)
	assert.True(t, nonStrict.RunFilter(ve).Passed())

	strict, err := NewFrequencyFilter(freqThreshold, true)
	require.NoError(t, err)
	ve2 := frequencyVariant(domain.EmptyFrequencyData())
	assert.True(t, strict.RunFilter(ve2).Passed())
}

func TestFrequencyFilter_UnqueriedVariant(t *testing.T) {
	nonStrict, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)
	ve := frequencyVariant(nil)
	assert.True(t, nonStrict.RunFilter(ve).Passed(), "nil frequency data passes in non-strict mode")

	strict, err := NewFrequencyFilter(freqThreshold, true)
	require.NoError(t, err)
	ve2 := frequencyVariant(nil)
	assert.False(t, strict.RunFilter(ve2).Passed(),
		"strict mode requires knownness information and fails an unqueried variant")
}

func TestFrequencyFilter_ZeroThresholdBoundary(t *testing.T) {
	filter, err := NewFrequencyFilter(0, false)
	require.NoError(t, err)

	unrepresented := frequencyVariant(domain.EmptyFrequencyData())
	assert.True(t, filter.RunFilter(unrepresented).Passed())

	represented := frequencyVariant(domain.NewFrequencyData(domain.NewFrequency(0.001, domain.THOUSAND_GENOMES)))
	assert.False(t, filter.RunFilter(represented).Passed())
}

func TestFrequencyFilter_Determinism(t *testing.T) {
	filter, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)

	ve := frequencyVariant(domain.NewFrequencyData(domain.NewFrequency(0.05, domain.ESP_ALL)))
	first := filter.RunFilter(ve)
	second := filter.RunFilter(ve)
	assert.Equal(t, first, second)
	assert.Len(t, ve.FilterResults(), 1, "re-running a filter never duplicates records")
}

func TestFrequencyFilter_ConfigurationInequality(t *testing.T) {
	a, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)
	b, err := NewFrequencyFilter(freqThreshold, false)
	require.NoError(t, err)
	c, err := NewFrequencyFilter(freqThreshold+1, false)
	require.NoError(t, err)
	d, err := NewFrequencyFilter(freqThreshold, true)
	require.NoError(t, err)

	assert.Equal(t, *a, *b)
	assert.NotEqual(t, *a, *c)
	assert.NotEqual(t, *a, *d)
}
