package prioritizers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/phenotype"
)

// NegLogPSubscore is the key under which Phenix results carry the negative
// log p-value alongside the main score.
const NegLogPSubscore = "negLogP"

// PhenixPrioritizer scores genes by Phenomizer-style semantic similarity of
// the query phenotypes to each gene's human disease annotations.
type PhenixPrioritizer struct {
	scorer   *phenotype.PhenixScorer
	modelDAO domain.ModelDAO
	logger   *logrus.Logger
}

// NewPhenixPrioritizer creates a Phenix prioritizer over human disease
// models.
func NewPhenixPrioritizer(scorer *phenotype.PhenixScorer, modelDAO domain.ModelDAO, logger *logrus.Logger) *PhenixPrioritizer {
	return &PhenixPrioritizer{scorer: scorer, modelDAO: modelDAO, logger: logger}
}

// PriorityType identifies the results this prioritizer attaches.
func (p *PhenixPrioritizer) PriorityType() domain.PriorityType {
	return domain.PHENIX_PRIORITY
}

// Prioritize attaches each gene's best disease-model score, carrying the
// negative log p-value as a subscore. Genes without disease annotations keep
// the default score of 0.
func (p *PhenixPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	models, err := p.modelDAO.ModelsForOrganism(ctx, domain.HUMAN)
	if err != nil {
		p.logger.WithError(err).Warn("Disease model lookup failed, scoring all genes as unknown")
	}

	bestByGene := make(map[string]phenotype.PhenixScore)
	for _, model := range models {
		scored := p.scorer.ScoreModel(model)
		if best, ok := bestByGene[model.GeneID]; !ok || scored.Score > best.Score {
			bestByGene[model.GeneID] = scored
		}
	}

	for _, gene := range genes {
		best := bestByGene[gene.GeneID]
		result := domain.PriorityResult{
			Type:      domain.PHENIX_PRIORITY,
			Score:     best.Score,
			Subscores: map[string]float64{NegLogPSubscore: best.NegLogP},
		}
		gene.AddPriorityResult(result)
	}
	return nil
}
