package phenotype

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func match(queryID, matchID string, score float64) domain.PhenotypeMatch {
	return domain.PhenotypeMatch{
		Query: domain.PhenotypeTerm{ID: queryID},
		Match: domain.PhenotypeTerm{ID: matchID},
		LCA:   domain.PhenotypeTerm{ID: "LCA:" + queryID + ":" + matchID},
		Score: score,
	}
}

func TestModelScorer_CombinedScore(t *testing.T) {
	queryTerms := []string{"HP:0000001", "HP:0000002"}
	matches := []domain.PhenotypeMatch{
		match("HP:0000001", "MP:0000001", 2.0),
		match("HP:0000002", "MP:0000002", 3.0),
		match("HP:0000001", "MP:0000002", 1.0),
	}
	matcher := NewOrganismMatcher(domain.MOUSE, queryTerms, matches)
	theoretical := TheoreticalModel{MaxMatchScore: 4.0, BestAvgScore: 3.5}
	scorer := NewModelScorerWithTheoreticalModel(theoretical, matcher, testLogger())

	model := domain.Model{
		ID:           "MGI:1",
		GeneID:       "2316",
		Organism:     domain.MOUSE,
		PhenotypeIDs: []string{"MP:0000001", "MP:0000002"},
	}

	scored := scorer.ScoreModel(model)
	// bestA=2.0, bestB=3.0; max=3.0; sum=5.0; total=2+2=4; avg=1.25;
	// combined = 50*(3/4 + 1.25/3.5) = 55.357...; /100.
	assert.InDelta(t, 0.5536, scored.Score, 1e-4)
	require.Len(t, scored.BestMatches, 2)
}

func TestModelScorer_ZeroWhenNoMatch(t *testing.T) {
	queryTerms := []string{"HP:0000001"}
	matches := []domain.PhenotypeMatch{match("HP:0000001", "MP:0000001", 2.0)}
	matcher := NewOrganismMatcher(domain.MOUSE, queryTerms, matches)
	scorer := NewModelScorer(matcher, testLogger())

	unmatched := domain.Model{ID: "MGI:2", PhenotypeIDs: []string{"MP:0009999"}}
	assert.Equal(t, 0.0, scorer.ScoreModel(unmatched).Score)
}

func TestModelScorer_ScoreStaysInUnitInterval(t *testing.T) {
	queryTerms := []string{"HP:0000001", "HP:0000002"}
	matches := []domain.PhenotypeMatch{
		match("HP:0000001", "MP:0000001", 8.0),
		match("HP:0000002", "MP:0000002", 9.0),
	}
	matcher := NewOrganismMatcher(domain.MOUSE, queryTerms, matches)
	// A weak theoretical model forces the combined score over 100 before the
	// clamp.
	theoretical := TheoreticalModel{MaxMatchScore: 1.0, BestAvgScore: 1.0}
	scorer := NewModelScorerWithTheoreticalModel(theoretical, matcher, testLogger())

	scored := scorer.ScoreModel(domain.Model{ID: "MGI:3", PhenotypeIDs: []string{"MP:0000001", "MP:0000002"}})
	assert.Equal(t, 1.0, scored.Score)
}

func TestModelScorer_SelfMatch(t *testing.T) {
	// Scoring a model holding the query's own best terms: the max ratio is 1,
	// the average ratio is halved by the semi-symmetrical denominator
	// (1 query term + 1 matching model term), so combined = 50*(1 + 0.5).
	queryTerms := []string{"HP:0000001"}
	matches := []domain.PhenotypeMatch{match("HP:0000001", "HP:0000001", 5.0)}
	matcher := NewOrganismMatcher(domain.HUMAN, queryTerms, matches)
	scorer := NewModelScorer(matcher, testLogger())

	scored := scorer.ScoreModel(domain.Model{ID: "OMIM:1", PhenotypeIDs: []string{"HP:0000001"}})
	assert.InDelta(t, 0.75, scored.Score, 1e-6)
}

func TestOrganismMatcher_BestTheoreticalModel(t *testing.T) {
	queryTerms := []string{"HP:0000001", "HP:0000002", "HP:0000003"}
	matches := []domain.PhenotypeMatch{
		match("HP:0000001", "MP:0000001", 2.0),
		match("HP:0000001", "MP:0000002", 4.0),
		match("HP:0000002", "MP:0000003", 3.0),
		// HP:0000003 has no match anywhere.
	}
	matcher := NewOrganismMatcher(domain.MOUSE, queryTerms, matches)

	theoretical := matcher.BestTheoreticalModel()
	assert.InDelta(t, 4.0, theoretical.MaxMatchScore, 1e-9)
	assert.InDelta(t, 3.5, theoretical.BestAvgScore, 1e-9, "average runs over matched query terms")
	assert.Equal(t, 3, matcher.NumQueryPhenotypes())
}
