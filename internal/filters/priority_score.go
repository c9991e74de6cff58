package filters

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// PriorityScoreFilter is a gene-level gate on the score attached by an
// earlier prioritizer of the matching type. The runner refuses to start an
// analysis in which no such prioritizer precedes this filter.
type PriorityScoreFilter struct {
	PriorityType domain.PriorityType
	MinScore     float64
}

// NewPriorityScoreFilter creates a priority-score filter for the given
// prioritizer type.
func NewPriorityScoreFilter(priorityType domain.PriorityType, minScore float64) (*PriorityScoreFilter, error) {
	if !priorityType.IsValid() {
		return nil, domain.WrapAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("priority score filter: %q", priorityType), domain.ErrInvalidPriorityType)
	}
	return &PriorityScoreFilter{PriorityType: priorityType, MinScore: minScore}, nil
}

// FilterType identifies this filter in result records.
func (f *PriorityScoreFilter) FilterType() domain.FilterType {
	return domain.PRIORITY_SCORE_FILTER
}

// RunGeneFilter records and returns PASS iff the gene carries a result of the
// configured priority type with a score meeting the cutoff.
func (f *PriorityScoreFilter) RunGeneFilter(gene *domain.Gene) domain.FilterResult {
	result := domain.NewFailFilterResult(domain.PRIORITY_SCORE_FILTER)
	if priorityResult, ok := gene.PriorityResult(f.PriorityType); ok && priorityResult.Score >= f.MinScore {
		result = domain.NewPassFilterResult(domain.PRIORITY_SCORE_FILTER)
	}
	gene.AddFilterResult(result)
	return result
}
