// Package phenotype implements the Phenodigm family of semantic-similarity
// scores between a query phenotype set and candidate disease or organism
// models. Ontology loading is out of scope: the matcher consumes precomputed
// term-match tables.
package phenotype

import (
	"github.com/exome-prioritizer/internal/domain"
)

// TheoreticalModel is the hypothetical model achieving the maximum possible
// score against the query set in one organism. Its two statistics are the
// denominators normalizing real model scores, making scores comparable
// across organisms.
type TheoreticalModel struct {
	MaxMatchScore float64
	BestAvgScore  float64
}

// ModelScore is the raw per-model match summary the combined score is built
// from.
type ModelScore struct {
	MaxModelMatchScore      float64
	SumModelBestMatchScores float64
	MatchingPhenotypes      []string
	BestMatches             []domain.PhenotypeMatch
}

// OrganismMatcher holds, for one organism, the best precomputed phenotype
// matches between every query term and the organism's term universe.
type OrganismMatcher struct {
	organism   Organism
	queryTerms []string
	// matches by query term identifier, each keyed by matched term identifier.
	termMatches map[string]map[string]domain.PhenotypeMatch
}

// Organism aliases the domain type for readability in this package.
type Organism = domain.Organism

// NewOrganismMatcher creates a matcher over the given precomputed matches.
// Query terms with no match at all still count towards the query size.
func NewOrganismMatcher(organism Organism, queryTerms []string, matches []domain.PhenotypeMatch) *OrganismMatcher {
	termMatches := make(map[string]map[string]domain.PhenotypeMatch, len(queryTerms))
	for _, match := range matches {
		byMatched, ok := termMatches[match.Query.ID]
		if !ok {
			byMatched = make(map[string]domain.PhenotypeMatch)
			termMatches[match.Query.ID] = byMatched
		}
		// Keep only the best match per (query, matched) pair.
		if existing, seen := byMatched[match.Match.ID]; !seen || match.Score > existing.Score {
			byMatched[match.Match.ID] = match
		}
	}
	copied := make([]string, len(queryTerms))
	copy(copied, queryTerms)
	return &OrganismMatcher{organism: organism, queryTerms: copied, termMatches: termMatches}
}

// Organism returns the species this matcher covers.
func (m *OrganismMatcher) Organism() Organism {
	return m.organism
}

// NumQueryPhenotypes returns the size of the query set, matched or not.
func (m *OrganismMatcher) NumQueryPhenotypes() int {
	return len(m.queryTerms)
}

// BestTheoreticalModel derives the theoretical best model for this organism:
// per query term the best possible score over the whole term universe.
func (m *OrganismMatcher) BestTheoreticalModel() TheoreticalModel {
	var maxScore, sum float64
	matched := 0
	for _, queryID := range m.queryTerms {
		best := 0.0
		for _, match := range m.termMatches[queryID] {
			if match.Score > best {
				best = match.Score
			}
		}
		if best > 0 {
			sum += best
			matched++
		}
		if best > maxScore {
			maxScore = best
		}
	}
	if matched == 0 {
		return TheoreticalModel{}
	}
	return TheoreticalModel{MaxMatchScore: maxScore, BestAvgScore: sum / float64(matched)}
}

// ScoreModelPhenotypes computes the raw match summary of one model's
// phenotype set against the query: per query term the best similarity to any
// model term, plus the model terms matching any query term.
func (m *OrganismMatcher) ScoreModelPhenotypes(modelPhenotypeIDs []string) ModelScore {
	modelTerms := make(map[string]bool, len(modelPhenotypeIDs))
	for _, id := range modelPhenotypeIDs {
		modelTerms[id] = true
	}

	score := ModelScore{}
	matchingModelTerms := make(map[string]bool)
	for _, queryID := range m.queryTerms {
		var best *domain.PhenotypeMatch
		for matchedID, match := range m.termMatches[queryID] {
			if !modelTerms[matchedID] || match.Score <= 0 {
				continue
			}
			matchingModelTerms[matchedID] = true
			if best == nil || match.Score > best.Score {
				matchCopy := match
				best = &matchCopy
			}
		}
		if best == nil {
			continue
		}
		score.SumModelBestMatchScores += best.Score
		if best.Score > score.MaxModelMatchScore {
			score.MaxModelMatchScore = best.Score
		}
		score.BestMatches = append(score.BestMatches, *best)
	}
	// Preserve model declaration order for deterministic output.
	for _, id := range modelPhenotypeIDs {
		if matchingModelTerms[id] {
			score.MatchingPhenotypes = append(score.MatchingPhenotypes, id)
			delete(matchingModelTerms, id)
		}
	}
	return score
}
