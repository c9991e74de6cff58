// Package prioritizers contains the gene-level scoring strategies. Every
// prioritizer attaches exactly one typed PriorityResult to every gene in its
// input, falling back to a default score for genes it does not know.
package prioritizers

import (
	"context"

	"github.com/exome-prioritizer/internal/domain"
)

// MockPrioritizer maps gene symbols to constant scores. It exists for
// deterministic tests and pipeline dry runs.
type MockPrioritizer struct {
	priorityType domain.PriorityType
	scores       map[string]float64
}

// NewMockPrioritizer creates a mock prioritizer reporting the given type.
func NewMockPrioritizer(priorityType domain.PriorityType, scores map[string]float64) *MockPrioritizer {
	copied := make(map[string]float64, len(scores))
	for symbol, score := range scores {
		copied[symbol] = score
	}
	return &MockPrioritizer{priorityType: priorityType, scores: copied}
}

// PriorityType identifies the results this prioritizer attaches.
func (p *MockPrioritizer) PriorityType() domain.PriorityType {
	return p.priorityType
}

// Prioritize attaches the configured score to every gene, 0 for unknown
// genes.
func (p *MockPrioritizer) Prioritize(_ context.Context, genes []*domain.Gene) error {
	for _, gene := range genes {
		gene.AddPriorityResult(domain.NewPriorityResult(p.priorityType, p.scores[gene.GeneSymbol]))
	}
	return nil
}
