package filters

import (
	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/inheritance"
)

// InheritanceFilter is a gene-level filter gating genes on mendelian
// compatibility with the target modes. It additionally marks each member
// variant by whether it participates in a compatible genotype combination.
// The runner always schedules it last: it depends on the gene's final
// variant set.
type InheritanceFilter struct {
	TargetModes []domain.ModeOfInheritance

	analyzer *inheritance.Analyzer
	logger   *logrus.Logger
}

// NewInheritanceFilter creates an inheritance filter for the given analyzer
// and target modes.
func NewInheritanceFilter(analyzer *inheritance.Analyzer, logger *logrus.Logger, targetModes ...domain.ModeOfInheritance) (*InheritanceFilter, error) {
	if len(targetModes) == 0 {
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			"inheritance filter requires at least one target mode")
	}
	for _, moi := range targetModes {
		if !moi.IsValid() {
			return nil, domain.WrapAnalysisError(domain.ErrCodeInvalidConfiguration,
				moi.String(), domain.ErrInvalidMode)
		}
	}
	return &InheritanceFilter{TargetModes: targetModes, analyzer: analyzer, logger: logger}, nil
}

// FilterType identifies this filter in result records.
func (f *InheritanceFilter) FilterType() domain.FilterType {
	return domain.INHERITANCE_FILTER
}

// RunGeneFilter computes the gene's compatible modes from its surviving
// variants, records PASS iff they intersect the target modes, and marks each
// surviving member variant by participation. A pedigree-incompatible
// genotype set is logged; the gene then records a PASS, carries no
// inheritance modes, and its variants are not marked.
func (f *InheritanceFilter) RunGeneFilter(gene *domain.Gene) domain.FilterResult {
	compatible, err := f.analyzer.CompatibleModes(gene.PassedVariantEvaluations())
	if err != nil {
		// Pedigree incompatibility is non-fatal: the analysis continues with
		// no inheritance filter effect on this gene.
		f.logger.WithError(err).WithField("gene", gene.GeneSymbol).Warn("Inheritance analysis skipped")
		gene.SetInheritanceModes(nil)
		result := domain.NewPassFilterResult(domain.INHERITANCE_FILTER)
		gene.AddFilterResult(result)
		return result
	}

	modes := make([]domain.ModeOfInheritance, 0, len(compatible))
	variantModes := make(map[*domain.VariantEvaluation][]domain.ModeOfInheritance)
	for moi, supporting := range compatible {
		modes = append(modes, moi)
		for _, ve := range supporting {
			variantModes[ve] = append(variantModes[ve], moi)
		}
	}
	gene.SetInheritanceModes(modes)

	for _, ve := range gene.PassedVariantEvaluations() {
		supported := variantModes[ve]
		ve.SetCompatibleModes(supported)
		if f.participates(supported) {
			ve.AddFilterResult(domain.NewPassFilterResult(domain.INHERITANCE_FILTER))
		} else {
			ve.AddFilterResult(domain.NewFailFilterResult(domain.INHERITANCE_FILTER))
		}
	}

	result := domain.NewFailFilterResult(domain.INHERITANCE_FILTER)
	for _, moi := range f.TargetModes {
		if gene.IsCompatibleWith(moi) {
			result = domain.NewPassFilterResult(domain.INHERITANCE_FILTER)
			break
		}
	}
	gene.AddFilterResult(result)
	return result
}

func (f *InheritanceFilter) participates(supported []domain.ModeOfInheritance) bool {
	for _, target := range f.TargetModes {
		if target == domain.ANY {
			return true
		}
		for _, moi := range supported {
			if moi == target {
				return true
			}
		}
	}
	return false
}
