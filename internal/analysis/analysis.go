// Package analysis defines an analysis as an ordered sequence of filter and
// prioritizer steps, and the runners that schedule those steps over the
// variant and gene graph.
package analysis

import (
	"fmt"

	"github.com/exome-prioritizer/internal/domain"
)

// Step is one scheduled unit of an analysis: a domain.VariantFilter, a
// domain.GeneFilter or a domain.Prioritizer. AddStep rejects anything else.
type Step any

// Analysis is the declaration of one prioritization run: the mode of
// inheritance under study, the family pedigree and the ordered steps.
type Analysis struct {
	ModeOfInheritance domain.ModeOfInheritance
	Pedigree          *domain.Pedigree

	steps []Step
}

// NewAnalysis creates an analysis for the given mode. The pedigree may be
// nil when no family structure is available; inheritance-dependent scoring
// then finds no affected individual, so no variant counts as homozygous in an
// affected sample.
func NewAnalysis(moi domain.ModeOfInheritance, pedigree *domain.Pedigree) (*Analysis, error) {
	if !moi.IsValid() {
		return nil, domain.WrapAnalysisError(domain.ErrCodeInvalidConfiguration,
			moi.String(), domain.ErrInvalidMode)
	}
	return &Analysis{ModeOfInheritance: moi, Pedigree: pedigree}, nil
}

// AddStep appends a step, preserving declaration order.
func (a *Analysis) AddStep(step Step) error {
	switch step.(type) {
	case domain.VariantFilter, domain.GeneFilter, domain.Prioritizer:
		a.steps = append(a.steps, step)
		return nil
	default:
		return domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			fmt.Sprintf("step %T is neither filter nor prioritizer", step))
	}
}

// Steps returns the declared steps in order.
func (a *Analysis) Steps() []Step {
	return a.steps
}
