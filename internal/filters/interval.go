package filters

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// GeneticInterval is an inclusive genomic interval on one chromosome.
type GeneticInterval struct {
	Chromosome int
	Start      int
	End        int
}

// NewGeneticInterval creates an interval, validating its bounds.
func NewGeneticInterval(chromosome, start, end int) (GeneticInterval, error) {
	if chromosome < 1 || chromosome > domain.ChrMT {
		return GeneticInterval{}, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("interval chromosome out of range: %d", chromosome))
	}
	if start < 1 || end < start {
		return GeneticInterval{}, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("invalid interval bounds %d-%d", start, end))
	}
	return GeneticInterval{Chromosome: chromosome, Start: start, End: end}, nil
}

// Contains reports whether the position lies inside the interval, both ends
// inclusive.
func (gi GeneticInterval) Contains(chromosome, position int) bool {
	return gi.Chromosome == chromosome && position >= gi.Start && position <= gi.End
}

func (gi GeneticInterval) String() string {
	return fmt.Sprintf("chr%d:%d-%d", gi.Chromosome, gi.Start, gi.End)
}

// IntervalFilter passes variants lying inside any of the configured
// intervals.
type IntervalFilter struct {
	Intervals []GeneticInterval
}

// NewIntervalFilter creates an interval filter over the given intervals.
func NewIntervalFilter(intervals ...GeneticInterval) (*IntervalFilter, error) {
	if len(intervals) == 0 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			"interval filter requires at least one interval")
	}
	copied := make([]GeneticInterval, len(intervals))
	copy(copied, intervals)
	return &IntervalFilter{Intervals: copied}, nil
}

// FilterType identifies this filter in result records.
func (f *IntervalFilter) FilterType() domain.FilterType {
	return domain.INTERVAL_FILTER
}

// RunFilter records and returns PASS iff the variant lies inside any
// configured interval.
func (f *IntervalFilter) RunFilter(ve *domain.VariantEvaluation) domain.FilterResult {
	result := domain.NewFailFilterResult(domain.INTERVAL_FILTER)
	for _, interval := range f.Intervals {
		if interval.Contains(ve.Chromosome, ve.Position) {
			result = domain.NewPassFilterResult(domain.INTERVAL_FILTER)
			break
		}
	}
	ve.AddFilterResult(result)
	return result
}
