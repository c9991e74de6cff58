package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/filters"
)

// Strategy selects the runner's memory policy. Both strategies produce
// identical final rankings for surviving variants and genes; they differ in
// which diagnostic records failed variants accumulate.
type Strategy string

const (
	// SimpleStrategy holds all variants in memory; failed variants keep
	// being evaluated by subsequent filters so the per-variant record is
	// complete.
	SimpleStrategy Strategy = "SIMPLE"
	// PassedOnlyStrategy drops a variant at its first failing filter; only
	// that filter's result is recorded on it.
	PassedOnlyStrategy Strategy = "PASSED_ONLY"
)

const defaultDownweightThreshold = 5

// Runner schedules the steps of an analysis over a variant set. Within one
// run the pipeline is single-threaded and straight-line; variant-filter work
// may fan out over a worker pool since it is pure per variant.
type Runner struct {
	logger              *logrus.Logger
	strategy            Strategy
	downweightThreshold int
	variantWorkers      int
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithDownweightThreshold sets the variant count from which gene filter
// scores are down-weighted.
func WithDownweightThreshold(threshold int) RunnerOption {
	return func(r *Runner) { r.downweightThreshold = threshold }
}

// WithVariantWorkers enables fan-out of variant-filter work across the given
// number of workers. Gene-level steps never fan out: their result records
// mutate shared gene state.
func WithVariantWorkers(workers int) RunnerOption {
	return func(r *Runner) { r.variantWorkers = workers }
}

// NewSimpleRunner creates a runner holding all variants in memory.
func NewSimpleRunner(logger *logrus.Logger, opts ...RunnerOption) *Runner {
	return newRunner(logger, SimpleStrategy, opts...)
}

// NewPassedOnlyRunner creates a streaming runner keeping only passing
// variants.
func NewPassedOnlyRunner(logger *logrus.Logger, opts ...RunnerOption) *Runner {
	return newRunner(logger, PassedOnlyStrategy, opts...)
}

func newRunner(logger *logrus.Logger, strategy Strategy, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:              logger,
		strategy:            strategy,
		downweightThreshold: defaultDownweightThreshold,
		variantWorkers:      1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the analysis steps strictly in declaration order, with two
// scheduling amendments: variants are grouped into genes before the first
// gene-level step, and inheritance filters always move to the end because
// they depend on the gene's final variant set. Cancellation is honored
// between steps; a cancelled run yields no results.
func (r *Runner) Run(ctx context.Context, a *Analysis, variants []*domain.VariantEvaluation) (*AnalysisResults, error) {
	if err := validateSteps(a.Steps()); err != nil {
		return nil, err
	}
	steps := scheduleSteps(a.Steps())

	runID := uuid.NewString()
	r.logger.WithFields(logrus.Fields{
		"runId":    runID,
		"strategy": string(r.strategy),
		"moi":      a.ModeOfInheritance.String(),
		"variants": len(variants),
		"steps":    len(steps),
	}).Info("Starting analysis")

	if len(variants) == 0 {
		r.logger.WithField("runId", runID).
			Warn(domain.NewAnalysisError(domain.ErrCodeNoVariants, "analysis input is empty").Error())
		return &AnalysisResults{RunID: runID, ModeOfInheritance: a.ModeOfInheritance}, nil
	}

	current := make([]*domain.VariantEvaluation, len(variants))
	copy(current, variants)

	var genes []*domain.Gene
	grouped := false

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			r.logger.WithField("runId", runID).Warn("Analysis cancelled between steps")
			return nil, err
		}
		switch s := step.(type) {
		case domain.VariantFilter:
			current = r.runVariantFilter(s, current)
		case domain.GeneFilter:
			if !grouped {
				genes = groupVariantsByGene(current)
				grouped = true
			}
			for _, gene := range genes {
				s.RunGeneFilter(gene)
			}
		case domain.Prioritizer:
			if !grouped {
				genes = groupVariantsByGene(current)
				grouped = true
			}
			if err := s.Prioritize(ctx, genes); err != nil {
				return nil, fmt.Errorf("prioritizer %s: %w", s.PriorityType(), err)
			}
		}
	}
	if !grouped {
		genes = groupVariantsByGene(current)
	}

	r.scoreAndRank(a, genes)

	results := &AnalysisResults{
		RunID:             runID,
		ModeOfInheritance: a.ModeOfInheritance,
		Genes:             genes,
		TotalVariants:     len(variants),
		PassedVariants:    countPassed(current),
	}
	r.logger.WithFields(logrus.Fields{
		"runId":          runID,
		"genes":          len(genes),
		"passedVariants": results.PassedVariants,
	}).Info("Completed analysis")
	return results, nil
}

// validateSteps refuses analyses whose priority-score filters have no
// earlier prioritizer of the matching type.
func validateSteps(steps []Step) error {
	seen := make(map[domain.PriorityType]bool)
	for _, step := range steps {
		switch s := step.(type) {
		case domain.Prioritizer:
			seen[s.PriorityType()] = true
		case *filters.PriorityScoreFilter:
			if !seen[s.PriorityType] {
				return domain.NewAnalysisError(domain.ErrCodeStepDependencyUnsatisfied,
					fmt.Sprintf("priority score filter requires an earlier %s prioritizer", s.PriorityType))
			}
		}
	}
	return nil
}

// scheduleSteps preserves declaration order except that inheritance filters
// are moved to the end.
func scheduleSteps(steps []Step) []Step {
	ordered := make([]Step, 0, len(steps))
	var deferred []Step
	for _, step := range steps {
		if _, ok := step.(*filters.InheritanceFilter); ok {
			deferred = append(deferred, step)
			continue
		}
		ordered = append(ordered, step)
	}
	return append(ordered, deferred...)
}

func (r *Runner) runVariantFilter(filter domain.VariantFilter, variants []*domain.VariantEvaluation) []*domain.VariantEvaluation {
	if r.strategy == PassedOnlyStrategy {
		var surviving []*domain.VariantEvaluation
		for _, ve := range variants {
			if filter.RunFilter(ve).Passed() {
				surviving = append(surviving, ve)
			}
		}
		return surviving
	}

	if r.variantWorkers > 1 {
		r.fanOut(filter, variants)
		return variants
	}
	for _, ve := range variants {
		filter.RunFilter(ve)
	}
	return variants
}

// fanOut spreads pure per-variant filter work over a bounded worker pool.
func (r *Runner) fanOut(filter domain.VariantFilter, variants []*domain.VariantEvaluation) {
	work := make(chan *domain.VariantEvaluation)
	var wg sync.WaitGroup
	for i := 0; i < r.variantWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ve := range work {
				filter.RunFilter(ve)
			}
		}()
	}
	for _, ve := range variants {
		work <- ve
	}
	close(work)
	wg.Wait()
}

// groupVariantsByGene builds the gene aggregates. Variants belonging to no
// gene are dropped. Genes are ordered by symbol so iteration is
// deterministic.
func groupVariantsByGene(variants []*domain.VariantEvaluation) []*domain.Gene {
	byID := make(map[string]*domain.Gene)
	var genes []*domain.Gene
	for _, ve := range variants {
		if ve.GeneID == domain.GeneIDUnknown {
			continue
		}
		gene, ok := byID[ve.GeneID]
		if !ok {
			gene = domain.NewGene(ve.GeneSymbol, ve.GeneID)
			byID[ve.GeneID] = gene
			genes = append(genes, gene)
		}
		// Membership mismatch cannot occur: grouping is by the gene identifier.
		_ = gene.AddVariant(ve)
	}
	sort.SliceStable(genes, func(i, j int) bool { return genes[i].GeneSymbol < genes[j].GeneSymbol })
	return genes
}

// scoreAndRank performs final aggregation: per-gene filter and priority
// scores for the requested mode, many-variant down-weighting, the combined
// score and the deterministic sort.
func (r *Runner) scoreAndRank(a *Analysis, genes []*domain.Gene) {
	for _, gene := range genes {
		gene.CalculateScores(a.ModeOfInheritance, a.Pedigree)
		gene.DownWeightIfManyVariants(r.downweightThreshold)
		gene.SetCombinedScore((gene.PriorityScore() + gene.FilterScore()) / 2)
	}
	domain.SortGenes(genes)
}

func countPassed(variants []*domain.VariantEvaluation) int {
	count := 0
	for _, ve := range variants {
		if ve.PassedFilters() {
			count++
		}
	}
	return count
}
