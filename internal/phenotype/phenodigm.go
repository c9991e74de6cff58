package phenotype

import (
	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
)

// ModelPhenotypeMatchScore is the scored comparison of one model against the
// query phenotypes.
type ModelPhenotypeMatchScore struct {
	Score       float64
	Model       domain.Model
	BestMatches []domain.PhenotypeMatch
}

// ModelScorer implements the Phenodigm algorithm for scoring the semantic
// similarity of a model against the best theoretical model for a set of
// phenotypes in a given organism.
type ModelScorer struct {
	theoreticalMaxMatchScore float64
	theoreticalBestAvgScore  float64

	matcher            *OrganismMatcher
	numQueryPhenotypes int
}

// NewModelScorer creates a scorer for single-organism comparisons, deriving
// the theoretical best model from the organism's own match table. For
// multi-organism comparisons use NewModelScorerWithTheoreticalModel.
func NewModelScorer(matcher *OrganismMatcher, logger *logrus.Logger) *ModelScorer {
	return NewModelScorerWithTheoreticalModel(matcher.BestTheoreticalModel(), matcher, logger)
}

// NewModelScorerWithTheoreticalModel creates a scorer comparing all models
// against an explicit theoretical model. Cross-species prioritization shares
// one theoretical model, derived from the strongest organism, so scores land
// on the same scale.
func NewModelScorerWithTheoreticalModel(theoretical TheoreticalModel, matcher *OrganismMatcher, logger *logrus.Logger) *ModelScorer {
	logger.WithFields(logrus.Fields{
		"organism":     matcher.Organism().String(),
		"bestMaxScore": theoretical.MaxMatchScore,
		"bestAvgScore": theoretical.BestAvgScore,
	}).Debug("Creating phenodigm model scorer")
	return &ModelScorer{
		theoreticalMaxMatchScore: theoretical.MaxMatchScore,
		theoreticalBestAvgScore:  theoretical.BestAvgScore,
		matcher:                  matcher,
		numQueryPhenotypes:       matcher.NumQueryPhenotypes(),
	}
}

// ScoreModel scores one model against the query phenotypes. The result lies
// in [0, 1] and is 0 exactly when no query term matches the model.
func (s *ModelScorer) ScoreModel(model domain.Model) ModelPhenotypeMatchScore {
	raw := s.matcher.ScoreModelPhenotypes(model.PhenotypeIDs)
	return ModelPhenotypeMatchScore{
		Score:       s.combinedScore(raw),
		Model:       model,
		BestMatches: raw.BestMatches,
	}
}

func (s *ModelScorer) combinedScore(raw ModelScore) float64 {
	if raw.SumModelBestMatchScores <= 0 {
		return 0
	}
	// The averaging denominator is semi-symmetrical: all query terms plus
	// only the model terms matching the query, so models annotated with very
	// many phenotypes do not swamp small queries.
	totalPhenotypesWithMatch := s.numQueryPhenotypes + len(raw.MatchingPhenotypes)
	modelBestAvgScore := raw.SumModelBestMatchScores / float64(totalPhenotypesWithMatch)
	combined := 50 * (raw.MaxModelMatchScore/s.theoreticalMaxMatchScore + modelBestAvgScore/s.theoreticalBestAvgScore)
	if combined > 100 {
		combined = 100
	}
	return combined / 100
}
