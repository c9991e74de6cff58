package domain

import "context"

// VariantFilter evaluates one variant and records the outcome on it.
// Filters are pure with respect to other variants, deterministic and
// idempotent; they record a result whether the variant passes or fails.
type VariantFilter interface {
	FilterType() FilterType
	RunFilter(ve *VariantEvaluation) FilterResult
}

// GeneFilter evaluates one gene and records the outcome on it. A gene filter
// may additionally mark member variants.
type GeneFilter interface {
	FilterType() FilterType
	RunGeneFilter(gene *Gene) FilterResult
}

// Prioritizer attaches one PriorityResult per gene to every gene in its
// input, using a default score when a gene is unknown to it.
type Prioritizer interface {
	PriorityType() PriorityType
	Prioritize(ctx context.Context, genes []*Gene) error
}

// FrequencyDAO looks up population frequencies for one allele. A missing
// record yields empty FrequencyData, never an error.
type FrequencyDAO interface {
	FrequencyData(ctx context.Context, chromosome, position int, ref, alt string) (*FrequencyData, error)
}

// PathogenicityDAO looks up in-silico predictor scores for one allele. A
// missing record yields empty PathogenicityData, never an error.
type PathogenicityDAO interface {
	PathogenicityData(ctx context.Context, chromosome, position int, ref, alt string, effect VariantEffect) (*PathogenicityData, error)
}

// DiseaseDAO lists the known disease associations for a gene.
type DiseaseDAO interface {
	DiseasesForGene(ctx context.Context, geneID string) ([]Disease, error)
}

// ModelDAO lists the phenotype-annotated models for a gene in one organism.
type ModelDAO interface {
	ModelsForOrganism(ctx context.Context, organism Organism) ([]Model, error)
}
