package prioritizers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
)

// omimKnownDiseaseScore is attached to genes with a disease association
// segregating under the requested mode; all other genes keep the neutral
// score so that absence of an OMIM entry never zeroes the combined score.
const (
	omimKnownDiseaseScore = 1.0
	omimNeutralScore      = 0.5
)

// OMIMPrioritizer scores genes by their known OMIM disease associations
// under the requested mode of inheritance.
type OMIMPrioritizer struct {
	dao    domain.DiseaseDAO
	moi    domain.ModeOfInheritance
	logger *logrus.Logger
}

// NewOMIMPrioritizer creates an OMIM prioritizer for the given mode.
func NewOMIMPrioritizer(dao domain.DiseaseDAO, moi domain.ModeOfInheritance, logger *logrus.Logger) *OMIMPrioritizer {
	return &OMIMPrioritizer{dao: dao, moi: moi, logger: logger}
}

// PriorityType identifies the results this prioritizer attaches.
func (p *OMIMPrioritizer) PriorityType() domain.PriorityType {
	return domain.OMIM_PRIORITY
}

// Prioritize attaches 1.0 to genes linked to a disease compatible with the
// requested mode, 0.5 otherwise. A failing disease lookup is treated as "no
// data" for that gene and logged.
func (p *OMIMPrioritizer) Prioritize(ctx context.Context, genes []*domain.Gene) error {
	for _, gene := range genes {
		score := omimNeutralScore
		diseases, err := p.dao.DiseasesForGene(ctx, gene.GeneID)
		if err != nil {
			p.logger.WithError(err).WithField("gene", gene.GeneSymbol).Warn("Disease lookup failed, scoring as unknown")
		}
		for _, disease := range diseases {
			if disease.CompatibleWith(p.moi) {
				score = omimKnownDiseaseScore
				break
			}
		}
		gene.AddPriorityResult(domain.NewPriorityResult(domain.OMIM_PRIORITY, score))
	}
	return nil
}
