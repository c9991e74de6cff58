package analysis

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/filters"
	"github.com/exome-prioritizer/internal/inheritance"
	"github.com/exome-prioritizer/internal/prioritizers"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

// testVariants builds the standard two-gene fixture: GNRHR2 with one variant
// on chromosome 2, RBM8A with two variants on chromosome 1.
func testVariants() []*domain.VariantEvaluation {
	gnrhr2 := domain.NewVariantEvaluation(2, 38298950, "C", "T")
	gnrhr2.GeneSymbol, gnrhr2.GeneID = "GNRHR2", "114814"
	gnrhr2.Quality = 1000
	gnrhr2.SampleGenotypes["proband"] = domain.Het()

	rbm8a1 := domain.NewVariantEvaluation(1, 145507800, "T", "C")
	rbm8a1.GeneSymbol, rbm8a1.GeneID = "RBM8A", "9939"
	rbm8a1.Quality = 120
	rbm8a1.SampleGenotypes["proband"] = domain.Het()

	rbm8a2 := domain.NewVariantEvaluation(1, 145508800, "A", "G")
	rbm8a2.GeneSymbol, rbm8a2.GeneID = "RBM8A", "9939"
	rbm8a2.Quality = 120
	rbm8a2.SampleGenotypes["proband"] = domain.Het()

	return []*domain.VariantEvaluation{gnrhr2, rbm8a1, rbm8a2}
}

func intervalFilter(t *testing.T) *filters.IntervalFilter {
	t.Helper()
	interval, err := filters.NewGeneticInterval(1, 145508800, 145508800)
	require.NoError(t, err)
	filter, err := filters.NewIntervalFilter(interval)
	require.NoError(t, err)
	return filter
}

func makeAnalysis(t *testing.T, moi domain.ModeOfInheritance, steps ...Step) *Analysis {
	t.Helper()
	a, err := NewAnalysis(moi, domain.SingleSamplePedigree("proband"))
	require.NoError(t, err)
	for _, step := range steps {
		require.NoError(t, a.AddStep(step))
	}
	return a
}

func TestRunner_NoFiltersNoPrioritizers(t *testing.T) {
	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(), makeAnalysis(t, domain.ANY), testVariants())
	require.NoError(t, err)

	assert.NotEmpty(t, results.RunID)
	require.Len(t, results.Genes, 2)
	for _, gene := range results.Genes {
		for _, ve := range gene.VariantEvaluations() {
			assert.Equal(t, domain.UNFILTERED, ve.FilterStatus())
		}
	}
}

// Two variant filters, all variants fail: every variant still carries both
// filter records.
func TestRunner_TwoVariantFilters_AllVariantsFail(t *testing.T) {
	quality, err := filters.NewQualityFilter(9999999)
	require.NoError(t, err)

	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(),
		makeAnalysis(t, domain.ANY, intervalFilter(t), quality), testVariants())
	require.NoError(t, err)

	require.Len(t, results.Genes, 2)
	assert.Equal(t, 0, results.PassedVariants)

	gnrhr2, ok := results.GeneBySymbol("GNRHR2")
	require.True(t, ok)
	assert.False(t, gnrhr2.PassedFilters())
	require.Equal(t, 1, gnrhr2.NumberOfVariants())
	gnrhr2Variant := gnrhr2.VariantEvaluations()[0]
	assert.Equal(t, []domain.FilterType{domain.INTERVAL_FILTER, domain.QUALITY_FILTER},
		gnrhr2Variant.FailedFilterTypes())

	rbm8a, ok := results.GeneBySymbol("RBM8A")
	require.True(t, ok)
	assert.False(t, rbm8a.PassedFilters())
	require.Equal(t, 2, rbm8a.NumberOfVariants())
	for _, ve := range rbm8a.VariantEvaluations() {
		assert.Len(t, ve.FilterResults(), 2, "failed variants keep collecting records")
	}

	inInterval := rbm8a.VariantEvaluations()[1]
	require.Equal(t, 145508800, inInterval.Position)
	assert.True(t, inInterval.PassedFilter(domain.INTERVAL_FILTER))
	assert.Equal(t, []domain.FilterType{domain.QUALITY_FILTER}, inInterval.FailedFilterTypes())
}

// A single interval filter passes exactly one RBM8A variant.
func TestRunner_IntervalFilterPassesOneVariant(t *testing.T) {
	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(),
		makeAnalysis(t, domain.ANY, intervalFilter(t)), testVariants())
	require.NoError(t, err)

	require.Len(t, results.Genes, 2)

	gnrhr2, ok := results.GeneBySymbol("GNRHR2")
	require.True(t, ok)
	assert.False(t, gnrhr2.PassedFilters())

	rbm8a, ok := results.GeneBySymbol("RBM8A")
	require.True(t, ok)
	assert.True(t, rbm8a.PassedFilters())
	passed := rbm8a.PassedVariantEvaluations()
	require.Len(t, passed, 1)
	assert.Equal(t, 1, passed[0].Chromosome)
	assert.Equal(t, 145508800, passed[0].Position)
}

// Priority-score gate: the prioritizer scores gate gene survival and feed the
// combined score.
func TestRunner_PriorityScoreGate(t *testing.T) {
	prioritizer := prioritizers.NewMockPrioritizer(domain.MOCK_PRIORITY, map[string]float64{"RBM8A": 0.9, "GNRHR2": 0.0})
	gate, err := filters.NewPriorityScoreFilter(domain.MOCK_PRIORITY, 0.8)
	require.NoError(t, err)

	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(),
		makeAnalysis(t, domain.ANY, prioritizer, gate), testVariants())
	require.NoError(t, err)

	rbm8a, ok := results.GeneBySymbol("RBM8A")
	require.True(t, ok)
	assert.True(t, rbm8a.PassedFilter(domain.PRIORITY_SCORE_FILTER))
	assert.InDelta(t, 0.9, rbm8a.PriorityScore(), 1e-9)
	assert.InDelta(t, (0.9+rbm8a.FilterScore())/2, rbm8a.CombinedScore(), 1e-9)

	gnrhr2, ok := results.GeneBySymbol("GNRHR2")
	require.True(t, ok)
	assert.False(t, gnrhr2.PassedFilter(domain.PRIORITY_SCORE_FILTER))
	assert.False(t, gnrhr2.PassedFilters())

	// The higher-scored gene ranks first.
	assert.Equal(t, "RBM8A", results.Genes[0].GeneSymbol)
}

func TestRunner_PriorityScoreFilterWithoutPrioritizer(t *testing.T) {
	gate, err := filters.NewPriorityScoreFilter(domain.MOCK_PRIORITY, 0.8)
	require.NoError(t, err)

	runner := NewSimpleRunner(testLogger())
	_, err = runner.Run(context.Background(), makeAnalysis(t, domain.ANY, gate), testVariants())
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeStepDependencyUnsatisfied))
}

func TestRunner_NoVariants(t *testing.T) {
	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(), makeAnalysis(t, domain.ANY), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, results.RunID)
	assert.Empty(t, results.Genes)
	assert.Equal(t, 0, results.TotalVariants)
}

func TestRunner_CancelledBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	quality, err := filters.NewQualityFilter(0)
	require.NoError(t, err)
	runner := NewSimpleRunner(testLogger())

	results, err := runner.Run(ctx, makeAnalysis(t, domain.ANY, quality), testVariants())
	require.Error(t, err)
	assert.Nil(t, results, "a cancelled analysis produces no results")
}

// The inheritance filter moves to the end of the schedule even when declared
// first: it must see the gene's final variant set.
func TestRunner_InheritanceFilterAlwaysRunsLast(t *testing.T) {
	pedigree := domain.SingleSamplePedigree("proband")
	analyzer := inheritance.NewAnalyzer(pedigree, nil, testLogger())
	inheritanceFilter, err := filters.NewInheritanceFilter(analyzer, testLogger(), domain.AUTOSOMAL_RECESSIVE)
	require.NoError(t, err)
	// Fails the 145507800 variant, leaving RBM8A a single heterozygote.
	quality, err := filters.NewQualityFilter(100)
	require.NoError(t, err)

	variants := testVariants()
	variants[1].Quality = 50

	a, err := NewAnalysis(domain.AUTOSOMAL_RECESSIVE, pedigree)
	require.NoError(t, err)
	require.NoError(t, a.AddStep(inheritanceFilter))
	require.NoError(t, a.AddStep(quality))

	runner := NewSimpleRunner(testLogger())
	results, err := runner.Run(context.Background(), a, variants)
	require.NoError(t, err)

	rbm8a, ok := results.GeneBySymbol("RBM8A")
	require.True(t, ok)
	assert.False(t, rbm8a.IsCompatibleWith(domain.AUTOSOMAL_RECESSIVE),
		"one surviving heterozygote cannot be recessive, so the filter must have run after quality")
	assert.False(t, rbm8a.PassedFilters())
}

func TestRunner_StrategiesAgreeOnSurvivors(t *testing.T) {
	run := func(runner *Runner) *AnalysisResults {
		results, err := runner.Run(context.Background(),
			makeAnalysis(t, domain.ANY, intervalFilter(t)), testVariants())
		require.NoError(t, err)
		return results
	}

	simple := run(NewSimpleRunner(testLogger()))
	streaming := run(NewPassedOnlyRunner(testLogger()))

	simplePassed := simple.PassedGenes()
	streamingPassed := streaming.PassedGenes()
	require.Equal(t, len(simplePassed), len(streamingPassed))
	for i := range simplePassed {
		assert.Equal(t, simplePassed[i].GeneSymbol, streamingPassed[i].GeneSymbol)
		assert.InDelta(t, simplePassed[i].CombinedScore(), streamingPassed[i].CombinedScore(), 1e-9)
	}
}

// Streaming mode records only the filter that failed a variant.
func TestRunner_PassedOnlyRecordsOnlyFailingFilter(t *testing.T) {
	quality, err := filters.NewQualityFilter(0)
	require.NoError(t, err)

	variants := testVariants()
	runner := NewPassedOnlyRunner(testLogger())
	_, err = runner.Run(context.Background(),
		makeAnalysis(t, domain.ANY, intervalFilter(t), quality), variants)
	require.NoError(t, err)

	dropped := variants[0]
	require.Equal(t, "GNRHR2", dropped.GeneSymbol)
	results := dropped.FilterResults()
	require.Len(t, results, 1, "subsequent filters never ran on the dropped variant")
	assert.Equal(t, domain.INTERVAL_FILTER, results[0].Type)
}

func TestRunner_DeterministicAcrossRuns(t *testing.T) {
	run := func() *AnalysisResults {
		prioritizer := prioritizers.NewMockPrioritizer(domain.MOCK_PRIORITY, map[string]float64{"RBM8A": 0.5, "GNRHR2": 0.5})
		runner := NewSimpleRunner(testLogger())
		results, err := runner.Run(context.Background(),
			makeAnalysis(t, domain.ANY, intervalFilter(t), prioritizer), testVariants())
		require.NoError(t, err)
		return results
	}

	first := run()
	second := run()
	require.Equal(t, len(first.Genes), len(second.Genes))
	for i := range first.Genes {
		assert.Equal(t, first.Genes[i].GeneSymbol, second.Genes[i].GeneSymbol)
		assert.InDelta(t, first.Genes[i].CombinedScore(), second.Genes[i].CombinedScore(), 1e-9)
	}
	// Equal scores tie-break on symbol ascending.
	assert.Equal(t, "GNRHR2", first.Genes[0].GeneSymbol)
	assert.Equal(t, "RBM8A", first.Genes[1].GeneSymbol)
}

func TestRunner_VariantWorkerFanOut(t *testing.T) {
	quality, err := filters.NewQualityFilter(500)
	require.NoError(t, err)

	runner := NewSimpleRunner(testLogger(), WithVariantWorkers(4))
	results, err := runner.Run(context.Background(),
		makeAnalysis(t, domain.ANY, quality), testVariants())
	require.NoError(t, err)

	gnrhr2, ok := results.GeneBySymbol("GNRHR2")
	require.True(t, ok)
	assert.True(t, gnrhr2.PassedFilters())

	rbm8a, ok := results.GeneBySymbol("RBM8A")
	require.True(t, ok)
	assert.False(t, rbm8a.PassedFilters())
}

func TestAnalysis_AddStepRejectsUnknownType(t *testing.T) {
	a, err := NewAnalysis(domain.ANY, nil)
	require.NoError(t, err)
	assert.Error(t, a.AddStep("not a step"))
}

func TestNewAnalysis_RejectsInvalidMode(t *testing.T) {
	_, err := NewAnalysis(domain.ModeOfInheritance("BOGUS"), nil)
	require.Error(t, err)
	assert.True(t, domain.IsAnalysisError(err, domain.ErrCodeInvalidConfiguration))
}
