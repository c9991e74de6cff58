package phenotype

import (
	"fmt"
	"math"

	"github.com/exome-prioritizer/internal/domain"
)

// PValueEstimator maps a raw semantic-similarity score to an empirical
// p-value, Phenomizer style. Implementations are precomputed score
// distributions supplied from outside the core.
type PValueEstimator interface {
	PValue(semSimScore float64, numQueryPhenotypes int) float64
}

// PhenixScore is the result of scoring one model with the Phenix variant.
type PhenixScore struct {
	// SemSimScore is the raw HPO semantic-similarity score.
	SemSimScore float64
	// NegLogP is the negative natural logarithm of the empirical p-value.
	NegLogP float64
	// Score is SemSimScore rescaled by the normalization factor.
	Score float64
}

// PhenixScorer computes Phenomizer-style semantic-similarity scores against
// human disease annotations. The normalization factor rescales scores across
// runs using different ontology versions; it is fixed at construction and
// never mutated during an analysis.
type PhenixScorer struct {
	matcher             *OrganismMatcher
	normalizationFactor float64
	pValueEstimator     PValueEstimator
}

// NewPhenixScorer creates a Phenix scorer. The normalization factor must be
// positive; the p-value estimator may be nil, in which case NegLogP is 0.
func NewPhenixScorer(matcher *OrganismMatcher, normalizationFactor float64, pValueEstimator PValueEstimator) (*PhenixScorer, error) {
	if normalizationFactor <= 0 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("phenix normalization factor must be positive: %f", normalizationFactor))
	}
	return &PhenixScorer{
		matcher:             matcher,
		normalizationFactor: normalizationFactor,
		pValueEstimator:     pValueEstimator,
	}, nil
}

// ScoreModel computes the semantic similarity of the query against one
// disease model: the mean of the per-query-term best match scores.
func (s *PhenixScorer) ScoreModel(model domain.Model) PhenixScore {
	raw := s.matcher.ScoreModelPhenotypes(model.PhenotypeIDs)
	semSim := 0.0
	if n := s.matcher.NumQueryPhenotypes(); n > 0 {
		semSim = raw.SumModelBestMatchScores / float64(n)
	}
	negLogP := 0.0
	if s.pValueEstimator != nil {
		if p := s.pValueEstimator.PValue(semSim, s.matcher.NumQueryPhenotypes()); p > 0 {
			negLogP = -math.Log(p)
		}
	}
	return PhenixScore{
		SemSimScore: semSim,
		NegLogP:     negLogP,
		Score:       semSim * s.normalizationFactor,
	}
}
