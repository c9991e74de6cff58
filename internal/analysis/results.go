package analysis

import (
	"github.com/exome-prioritizer/internal/domain"
)

// AnalysisResults is the outcome of one run: the genes ranked by combined
// score plus run bookkeeping. Serialization to TSV/JSON/HTML is performed by
// out-of-scope renderers consuming this structure.
type AnalysisResults struct {
	RunID             string
	ModeOfInheritance domain.ModeOfInheritance

	// Genes sorted by combined score descending, ties broken by gene symbol.
	Genes []*domain.Gene

	TotalVariants  int
	PassedVariants int
}

// PassedGenes returns the ranked genes that passed filtering.
func (r *AnalysisResults) PassedGenes() []*domain.Gene {
	var passed []*domain.Gene
	for _, gene := range r.Genes {
		if gene.PassedFilters() {
			passed = append(passed, gene)
		}
	}
	return passed
}

// GeneBySymbol returns the ranked gene with the given symbol.
func (r *AnalysisResults) GeneBySymbol(symbol string) (*domain.Gene, bool) {
	for _, gene := range r.Genes {
		if gene.GeneSymbol == symbol {
			return gene, true
		}
	}
	return nil, false
}
