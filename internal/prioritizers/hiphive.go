package prioritizers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/phenotype"
)

// HiPhivePrioritizer scores genes by cross-species phenotype similarity: each
// organism's models are scored with a Phenodigm scorer sharing one
// theoretical model, and a gene keeps its best score across all organisms.
type HiPhivePrioritizer struct {
	priorityType domain.PriorityType
	scorers      map[domain.Organism]*phenotype.ModelScorer
	modelDAO     domain.ModelDAO
	logger       *logrus.Logger
}

// NewHiPhivePrioritizer creates a cross-species phenotype prioritizer. The
// scorers must share a theoretical model when more than one organism is
// supplied, so scores are on one scale.
func NewHiPhivePrioritizer(scorers map[domain.Organism]*phenotype.ModelScorer, modelDAO domain.ModelDAO, logger *logrus.Logger) *HiPhivePrioritizer {
	return &HiPhivePrioritizer{
		priorityType: domain.HIPHIVE_PRIORITY,
		scorers:      scorers,
		modelDAO:     modelDAO,
		logger:       logger,
	}
}

// NewPhenodigmPrioritizer creates a single-organism phenotype prioritizer
// reporting PHENODIGM results.
func NewPhenodigmPrioritizer(organism domain.Organism, scorer *phenotype.ModelScorer, modelDAO domain.ModelDAO, logger *logrus.Logger) *HiPhivePrioritizer {
	return &HiPhivePrioritizer{
		priorityType: domain.PHENODIGM_PRIORITY,
		scorers:      map[domain.Organism]*phenotype.ModelScorer{organism: scorer},
		modelDAO:     modelDAO,
		logger:       logger,
	}
}

// PriorityType identifies the results this prioritizer attaches.
func (p *HiPhivePrioritizer) PriorityType() domain.PriorityType {
	return p.priorityType
}

// Prioritize scores every model of every configured organism and attaches
// each gene's best score, 0 when no model annotates the gene. A failing
// model lookup skips that organism and is logged.
func (p *HiPhivePrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	bestByGene := make(map[string]float64)
	for organism, scorer := range p.scorers {
		models, err := p.modelDAO.ModelsForOrganism(ctx, organism)
		if err != nil {
			p.logger.WithError(err).WithField("organism", organism.String()).Warn("Model lookup failed, skipping organism")
			continue
		}
		for _, model := range models {
			scored := scorer.ScoreModel(model)
			if scored.Score > bestByGene[model.GeneID] {
				bestByGene[model.GeneID] = scored.Score
			}
		}
	}

	for _, gene := range genes {
		gene.AddPriorityResult(domain.NewPriorityResult(p.priorityType, bestByGene[gene.GeneID]))
	}
	return nil
}
