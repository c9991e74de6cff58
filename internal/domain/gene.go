package domain

import (
	"fmt"
	"sort"
)

// UninitializedScore is the sentinel value carried by gene scores before
// CalculateScores has run for a mode of inheritance.
const UninitializedScore = -10.0

// PriorityResult is a typed relevance score attached to a gene by a
// prioritizer. The meaning of the score is defined by the priority type and
// is not comparable across types.
type PriorityResult struct {
	Type      PriorityType       `json:"priorityType"`
	Score     float64            `json:"score"`
	Subscores map[string]float64 `json:"subscores,omitempty"`
}

// NewPriorityResult creates a priority result with no subscores.
func NewPriorityResult(priorityType PriorityType, score float64) PriorityResult {
	return PriorityResult{Type: priorityType, Score: score}
}

// Gene aggregates all variant evaluations sharing a gene identifier, the
// priority results attached to the gene, and the aggregate scores used for
// ranking.
type Gene struct {
	GeneSymbol string
	GeneID     string

	variants []*VariantEvaluation

	priorityResults map[PriorityType]PriorityResult
	priorityOrder   []PriorityType

	filterResults filterResultsRecord

	compatibleModes map[ModeOfInheritance]bool

	priorityScore float64
	filterScore   float64
	combinedScore float64
}

// NewGene creates an empty gene aggregate.
func NewGene(geneSymbol, geneID string) *Gene {
	return &Gene{
		GeneSymbol:      geneSymbol,
		GeneID:          geneID,
		priorityResults: make(map[PriorityType]PriorityResult),
		filterResults:   newFilterResultsRecord(),
		compatibleModes: make(map[ModeOfInheritance]bool),
		priorityScore:   UninitializedScore,
		filterScore:     UninitializedScore,
		combinedScore:   UninitializedScore,
	}
}

// AddVariant appends a member variant. All members must share the gene
// identifier; mismatches are a programming error.
func (g *Gene) AddVariant(ve *VariantEvaluation) error {
	if ve.GeneID != g.GeneID {
		return fmt.Errorf("variant %s belongs to gene %q, not %q", ve, ve.GeneID, g.GeneID)
	}
	g.variants = append(g.variants, ve)
	return nil
}

// VariantEvaluations returns the member variants in insertion order.
func (g *Gene) VariantEvaluations() []*VariantEvaluation {
	return g.variants
}

// PassedVariantEvaluations returns the members with PASSED filter status, in
// insertion order.
func (g *Gene) PassedVariantEvaluations() []*VariantEvaluation {
	var passed []*VariantEvaluation
	for _, ve := range g.variants {
		if ve.PassedFilters() {
			passed = append(passed, ve)
		}
	}
	return passed
}

// VariantEvaluationsSortedByScore returns the members ordered by descending
// variant score.
func (g *Gene) VariantEvaluationsSortedByScore() []*VariantEvaluation {
	ordered := make([]*VariantEvaluation, len(g.variants))
	copy(ordered, g.variants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].VariantScore() > ordered[j].VariantScore()
	})
	return ordered
}

// NumberOfVariants returns the member count.
func (g *Gene) NumberOfVariants() int {
	return len(g.variants)
}

// AddPriorityResult attaches a prioritizer's result to this gene. A later
// result of the same type replaces the earlier one.
func (g *Gene) AddPriorityResult(result PriorityResult) {
	if _, seen := g.priorityResults[result.Type]; !seen {
		g.priorityOrder = append(g.priorityOrder, result.Type)
	}
	g.priorityResults[result.Type] = result
}

// PriorityResult returns the result attached for the given type.
func (g *Gene) PriorityResult(priorityType PriorityType) (PriorityResult, bool) {
	result, ok := g.priorityResults[priorityType]
	return result, ok
}

// PriorityResults returns the attached results in attachment order.
func (g *Gene) PriorityResults() []PriorityResult {
	results := make([]PriorityResult, 0, len(g.priorityOrder))
	for _, t := range g.priorityOrder {
		results = append(results, g.priorityResults[t])
	}
	return results
}

// PriorityScoreOf returns the score attached for the given type, 0 when the
// prioritizer never ran.
func (g *Gene) PriorityScoreOf(priorityType PriorityType) float64 {
	if result, ok := g.priorityResults[priorityType]; ok {
		return result.Score
	}
	return 0
}

// AddFilterResult records a gene-level filter outcome.
func (g *Gene) AddFilterResult(result FilterResult) {
	g.filterResults.add(result)
}

// FilterResults returns the gene-level record in the order filters ran.
func (g *Gene) FilterResults() []FilterResult {
	return g.filterResults.all()
}

// PassedFilter reports whether the named gene-level filter recorded a PASS.
func (g *Gene) PassedFilter(filterType FilterType) bool {
	result, ok := g.filterResults.get(filterType)
	return ok && result.Passed()
}

// PassedFilters reports whether at least one member variant passed and no
// gene-level filter recorded FAIL.
func (g *Gene) PassedFilters() bool {
	if g.filterResults.anyFailed() {
		return false
	}
	for _, ve := range g.variants {
		if ve.PassedFilters() {
			return true
		}
	}
	return false
}

// SetInheritanceModes replaces the set of modes the gene is compatible with.
func (g *Gene) SetInheritanceModes(modes []ModeOfInheritance) {
	g.compatibleModes = make(map[ModeOfInheritance]bool, len(modes))
	for _, moi := range modes {
		g.compatibleModes[moi] = true
	}
}

// InheritanceModes returns the compatible modes, sorted for determinism.
func (g *Gene) InheritanceModes() []ModeOfInheritance {
	modes := make([]ModeOfInheritance, 0, len(g.compatibleModes))
	for moi := range g.compatibleModes {
		modes = append(modes, moi)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// IsCompatibleWith reports whether the gene supports the given mode. Every
// gene is compatible with ANY.
func (g *Gene) IsCompatibleWith(moi ModeOfInheritance) bool {
	if moi == ANY {
		return true
	}
	return g.compatibleModes[moi]
}

// CalculateScores computes the gene's filter and priority scores for the
// given mode of inheritance. The filter score is built from the surviving
// variants' scores: under AUTOSOMAL_RECESSIVE the score of any variant
// homozygous-alternate in an affected individual counts twice and the mean of
// the two best entries is taken; under all other modes the single best score
// wins. The priority score is the product of all attached priority results.
func (g *Gene) CalculateScores(moi ModeOfInheritance, pedigree *Pedigree) {
	g.filterScore = g.calculateFilterScore(moi, pedigree)
	g.priorityScore = g.calculatePriorityScore()
}

func (g *Gene) calculateFilterScore(moi ModeOfInheritance, pedigree *Pedigree) float64 {
	var scores []float64
	for _, ve := range g.PassedVariantEvaluations() {
		score := ve.VariantScore()
		scores = append(scores, score)
		if moi == AUTOSOMAL_RECESSIVE && isHomozygousInAffected(ve, pedigree) {
			scores = append(scores, score)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if moi == AUTOSOMAL_RECESSIVE {
		if len(scores) < 2 {
			return 0
		}
		return (scores[0] + scores[1]) / 2
	}
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

func isHomozygousInAffected(ve *VariantEvaluation, pedigree *Pedigree) bool {
	if pedigree == nil {
		return false
	}
	for _, individual := range pedigree.Affected() {
		if gt, ok := ve.SampleGenotypes[individual.ID]; ok && gt.IsHomAlt() {
			return true
		}
	}
	return false
}

func (g *Gene) calculatePriorityScore() float64 {
	score := 1.0
	for _, result := range g.priorityResults {
		score *= result.Score
	}
	return score
}

// DownWeightIfManyVariants reduces the filter score of genes carrying an
// implausibly large number of variants. The down-weighting starts at 5% and
// grows by half again for every variant beyond the threshold, capped so the
// score never goes negative.
func (g *Gene) DownWeightIfManyVariants(threshold int) {
	remaining := len(g.variants)
	if remaining < threshold {
		return
	}
	factor := 0.05
	downweight := 0.0
	for remaining > threshold {
		downweight += factor
		factor *= 1.5
		remaining--
	}
	if downweight > 1 {
		downweight = 1
	}
	g.filterScore = g.filterScore * (1 - downweight)
}

// SetCombinedScore stores the final combined score for ranking.
func (g *Gene) SetCombinedScore(score float64) {
	g.combinedScore = score
}

// FilterScore returns the aggregate filter score. Only valid after
// CalculateScores has run.
func (g *Gene) FilterScore() float64 {
	return g.filterScore
}

// PriorityScore returns the aggregate priority score. Only valid after
// CalculateScores has run.
func (g *Gene) PriorityScore() float64 {
	return g.priorityScore
}

// CombinedScore returns the final ranking score.
func (g *Gene) CombinedScore() float64 {
	return g.combinedScore
}

func (g *Gene) String() string {
	return fmt.Sprintf("%s[%s] variants=%d combined=%.4f", g.GeneSymbol, g.GeneID, len(g.variants), g.combinedScore)
}

// SortGenes orders genes by combined score descending, ties broken by gene
// symbol ascending so output is deterministic.
func SortGenes(genes []*Gene) {
	sort.SliceStable(genes, func(i, j int) bool {
		if genes[i].combinedScore != genes[j].combinedScore {
			return genes[i].combinedScore > genes[j].combinedScore
		}
		return genes[i].GeneSymbol < genes[j].GeneSymbol
	})
}
