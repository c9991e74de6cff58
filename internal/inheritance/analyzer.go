// Package inheritance implements the mendelian compatibility engine: given a
// pedigree and the variants observed in one gene, it computes the modes of
// inheritance the gene is compatible with and the variants supporting each
// mode.
package inheritance

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
)

// MaxFreqs maps each sub-mode of inheritance to the maximum minor-allele
// frequency (percent) a variant may carry and still support that sub-mode.
type MaxFreqs map[domain.SubModeOfInheritance]float64

// DefaultMaxFreqs returns the standard per-sub-mode frequency ceilings:
// dominant and homozygous-recessive causes must be very rare, compound-het
// partners may be more common, mitochondrial variants sit in between.
func DefaultMaxFreqs() MaxFreqs {
	return MaxFreqs{
		domain.SUB_AUTOSOMAL_DOMINANT:           0.1,
		domain.SUB_AUTOSOMAL_RECESSIVE_HOM_ALT:  0.1,
		domain.SUB_AUTOSOMAL_RECESSIVE_COMP_HET: 2.0,
		domain.SUB_X_DOMINANT:                   0.1,
		domain.SUB_X_RECESSIVE_HOM_ALT:          0.1,
		domain.SUB_X_RECESSIVE_COMP_HET:         2.0,
		domain.SUB_MITOCHONDRIAL:                0.2,
	}
}

// ForSubMode returns the ceiling for a sub-mode, unbounded when unset.
func (m MaxFreqs) ForSubMode(sub domain.SubModeOfInheritance) float64 {
	if ceiling, ok := m[sub]; ok {
		return ceiling
	}
	return 100
}

// Analyzer checks gene variant sets against a pedigree. The pedigree is
// immutable shared data; all predicates are pure over (pedigree, genotypes).
type Analyzer struct {
	pedigree *domain.Pedigree
	maxFreqs MaxFreqs
	logger   *logrus.Logger
}

// NewAnalyzer creates a compatibility analyzer for the given pedigree.
func NewAnalyzer(pedigree *domain.Pedigree, maxFreqs MaxFreqs, logger *logrus.Logger) *Analyzer {
	if maxFreqs == nil {
		maxFreqs = DefaultMaxFreqs()
	}
	return &Analyzer{pedigree: pedigree, maxFreqs: maxFreqs, logger: logger}
}

// CompatibleModes computes the modes of inheritance the variant set supports
// and the variants supporting each. ANY is omitted from the result. Genotypes
// naming samples outside the pedigree make the whole set incompatible: the
// error carries PEDIGREE_INCOMPATIBLE and the returned map is empty.
func (a *Analyzer) CompatibleModes(variants []*domain.VariantEvaluation) (map[domain.ModeOfInheritance][]*domain.VariantEvaluation, error) {
	subModes, err := a.CompatibleSubModes(variants)
	if err != nil {
		return map[domain.ModeOfInheritance][]*domain.VariantEvaluation{}, err
	}

	results := make(map[domain.ModeOfInheritance][]*domain.VariantEvaluation)
	for sub, supporting := range subModes {
		moi := sub.ToModeOfInheritance()
		results[moi] = mergeVariants(results[moi], supporting)
	}
	return results, nil
}

// CompatibleSubModes computes compatibility at sub-mode granularity, keeping
// the homozygous and compound-heterozygous recessive cases distinct.
func (a *Analyzer) CompatibleSubModes(variants []*domain.VariantEvaluation) (map[domain.SubModeOfInheritance][]*domain.VariantEvaluation, error) {
	if err := a.checkSamplesInPedigree(variants); err != nil {
		a.logger.WithError(err).Warn("Genotypes incompatible with pedigree, skipping inheritance analysis")
		return map[domain.SubModeOfInheritance][]*domain.VariantEvaluation{}, err
	}

	results := make(map[domain.SubModeOfInheritance][]*domain.VariantEvaluation)

	addIfAny := func(sub domain.SubModeOfInheritance, supporting []*domain.VariantEvaluation) {
		if len(supporting) > 0 {
			results[sub] = supporting
		}
	}

	addIfAny(domain.SUB_AUTOSOMAL_DOMINANT,
		a.filterCompatible(variants, domain.SUB_AUTOSOMAL_DOMINANT, isAutosomal, a.dominantCompatible))
	addIfAny(domain.SUB_AUTOSOMAL_RECESSIVE_HOM_ALT,
		a.filterCompatible(variants, domain.SUB_AUTOSOMAL_RECESSIVE_HOM_ALT, isAutosomal, a.recessiveHomAltCompatible))
	addIfAny(domain.SUB_AUTOSOMAL_RECESSIVE_COMP_HET,
		a.compHetCompatible(variants, domain.SUB_AUTOSOMAL_RECESSIVE_COMP_HET, isAutosomal))
	addIfAny(domain.SUB_X_DOMINANT,
		a.filterCompatible(variants, domain.SUB_X_DOMINANT, isXChromosomal, a.xDominantCompatible))
	addIfAny(domain.SUB_X_RECESSIVE_HOM_ALT,
		a.filterCompatible(variants, domain.SUB_X_RECESSIVE_HOM_ALT, isXChromosomal, a.xRecessiveHomAltCompatible))
	addIfAny(domain.SUB_X_RECESSIVE_COMP_HET,
		a.compHetCompatible(variants, domain.SUB_X_RECESSIVE_COMP_HET, isXChromosomal))
	addIfAny(domain.SUB_MITOCHONDRIAL,
		a.filterCompatible(variants, domain.SUB_MITOCHONDRIAL, isMitochondrial, a.mitochondrialCompatible))

	return results, nil
}

func (a *Analyzer) checkSamplesInPedigree(variants []*domain.VariantEvaluation) error {
	for _, ve := range variants {
		for sampleID := range ve.SampleGenotypes {
			if !a.pedigree.Contains(sampleID) {
				return domain.NewAnalysisError(domain.ErrCodePedigreeIncompatible,
					fmt.Sprintf("sample %q in variant %s is not a pedigree member", sampleID, ve))
			}
		}
	}
	return nil
}

// underCeiling applies the per-sub-mode minor-allele-frequency gate before
// the compatibility predicate sees the variant.
func (a *Analyzer) underCeiling(ve *domain.VariantEvaluation, sub domain.SubModeOfInheritance) bool {
	return ve.MaxFrequency() <= a.maxFreqs.ForSubMode(sub)
}

func (a *Analyzer) filterCompatible(variants []*domain.VariantEvaluation, sub domain.SubModeOfInheritance,
	onChromosome func(*domain.VariantEvaluation) bool, compatible func(*domain.VariantEvaluation) bool) []*domain.VariantEvaluation {
	var supporting []*domain.VariantEvaluation
	for _, ve := range variants {
		if onChromosome(ve) && a.underCeiling(ve, sub) && compatible(ve) {
			supporting = append(supporting, ve)
		}
	}
	return supporting
}

// dominantCompatible: every affected member carries the allele (het or
// hom-alt), every unaffected member does not.
func (a *Analyzer) dominantCompatible(ve *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		gt := genotypeOf(ve, affected.ID)
		if !gt.IsHet() && !gt.IsHomAlt() {
			return false
		}
	}
	for _, unaffected := range a.pedigree.Unaffected() {
		gt := genotypeOf(ve, unaffected.ID)
		if !gt.IsHomRef() && !gt.IsNoCall() {
			return false
		}
	}
	return true
}

// recessiveHomAltCompatible: all affected members homozygous-alternate, no
// unaffected member homozygous-alternate.
func (a *Analyzer) recessiveHomAltCompatible(ve *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		if !genotypeOf(ve, affected.ID).IsHomAlt() {
			return false
		}
	}
	for _, unaffected := range a.pedigree.Unaffected() {
		if genotypeOf(ve, unaffected.ID).IsHomAlt() {
			return false
		}
	}
	return true
}

// xDominantCompatible: on X, every affected member carries the allele
// (hemizygous males included), no unaffected member does.
func (a *Analyzer) xDominantCompatible(ve *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		if !genotypeOf(ve, affected.ID).HasAlt() {
			return false
		}
	}
	for _, unaffected := range a.pedigree.Unaffected() {
		if genotypeOf(ve, unaffected.ID).HasAlt() {
			return false
		}
	}
	return true
}

// xRecessiveHomAltCompatible: affected members homozygous- or
// hemizygous-alternate; unaffected members are not, and unaffected males may
// not carry the allele at all.
func (a *Analyzer) xRecessiveHomAltCompatible(ve *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		if !genotypeOf(ve, affected.ID).IsHomAlt() {
			return false
		}
	}
	for _, unaffected := range a.pedigree.Unaffected() {
		gt := genotypeOf(ve, unaffected.ID)
		if gt.IsHomAlt() {
			return false
		}
		if unaffected.Sex == domain.MALE && gt.HasAlt() {
			return false
		}
	}
	return true
}

// mitochondrialCompatible: every affected member carries at least one ALT
// call. Maternal-line descent is advisory and not enforced.
func (a *Analyzer) mitochondrialCompatible(ve *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		if !genotypeOf(ve, affected.ID).HasAlt() {
			return false
		}
	}
	return true
}

// compHetCompatible searches for a pair of distinct variants such that every
// affected member is heterozygous at both, every unaffected parent of an
// affected member is heterozygous at exactly one of the pair, and no
// unaffected member is homozygous-alternate at either. The supporting set is
// the union of all members of compatible pairs.
func (a *Analyzer) compHetCompatible(variants []*domain.VariantEvaluation, sub domain.SubModeOfInheritance,
	onChromosome func(*domain.VariantEvaluation) bool) []*domain.VariantEvaluation {
	var candidates []*domain.VariantEvaluation
	for _, ve := range variants {
		if onChromosome(ve) && a.underCeiling(ve, sub) {
			candidates = append(candidates, ve)
		}
	}
	if len(candidates) < 2 {
		return nil
	}

	supporting := make(map[*domain.VariantEvaluation]bool)
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if a.isCompatiblePair(candidates[i], candidates[j]) {
				supporting[candidates[i]] = true
				supporting[candidates[j]] = true
			}
		}
	}
	if len(supporting) == 0 {
		return nil
	}
	// Preserve input order for deterministic output.
	var ordered []*domain.VariantEvaluation
	for _, ve := range candidates {
		if supporting[ve] {
			ordered = append(ordered, ve)
		}
	}
	return ordered
}

func (a *Analyzer) isCompatiblePair(v1, v2 *domain.VariantEvaluation) bool {
	for _, affected := range a.pedigree.Affected() {
		if !genotypeOf(v1, affected.ID).IsHet() || !genotypeOf(v2, affected.ID).IsHet() {
			return false
		}
	}
	for _, unaffected := range a.pedigree.Unaffected() {
		if genotypeOf(v1, unaffected.ID).IsHomAlt() || genotypeOf(v2, unaffected.ID).IsHomAlt() {
			return false
		}
	}
	for _, parent := range a.pedigree.UnaffectedParentsOfAffected() {
		hetAtFirst := genotypeOf(v1, parent.ID).IsHet()
		hetAtSecond := genotypeOf(v2, parent.ID).IsHet()
		if hetAtFirst == hetAtSecond {
			return false
		}
	}
	return true
}

func genotypeOf(ve *domain.VariantEvaluation, sampleID string) domain.SampleGenotype {
	if gt, ok := ve.SampleGenotypes[sampleID]; ok {
		return gt
	}
	return domain.NoCall()
}

func isAutosomal(ve *domain.VariantEvaluation) bool     { return ve.IsAutosomal() }
func isXChromosomal(ve *domain.VariantEvaluation) bool  { return ve.IsXChromosomal() }
func isMitochondrial(ve *domain.VariantEvaluation) bool { return ve.IsMitochondrial() }

func mergeVariants(existing, extra []*domain.VariantEvaluation) []*domain.VariantEvaluation {
	seen := make(map[*domain.VariantEvaluation]bool, len(existing))
	for _, ve := range existing {
		seen[ve] = true
	}
	merged := existing
	for _, ve := range extra {
		if !seen[ve] {
			merged = append(merged, ve)
			seen[ve] = true
		}
	}
	return merged
}
