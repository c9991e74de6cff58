package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exome-prioritizer/internal/analysis"
	"github.com/exome-prioritizer/internal/config"
	"github.com/exome-prioritizer/internal/domain"
	"github.com/exome-prioritizer/internal/filters"
	"github.com/exome-prioritizer/internal/inheritance"
	"github.com/exome-prioritizer/internal/prioritizers"
)

// AnalysisRequest is the wire form of one analysis submission.
type AnalysisRequest struct {
	ModeOfInheritance string             `json:"modeOfInheritance"`
	Pedigree          []IndividualDTO    `json:"pedigree"`
	Variants          []VariantDTO       `json:"variants" binding:"required"`
	Steps             []StepDTO          `json:"steps"`
	Annotate          bool               `json:"annotate"`
}

// IndividualDTO is the wire form of a pedigree member.
type IndividualDTO struct {
	ID       string `json:"id"`
	FatherID string `json:"fatherId,omitempty"`
	MotherID string `json:"motherId,omitempty"`
	Sex      string `json:"sex"`
	Status   string `json:"status"`
}

// VariantDTO is the wire form of one annotated variant.
type VariantDTO struct {
	Chromosome  int                 `json:"chromosome"`
	Position    int                 `json:"position"`
	Ref         string              `json:"ref"`
	Alt         string              `json:"alt"`
	AltAlleleID int                 `json:"altAlleleId"`
	Effect      string              `json:"effect"`
	Quality     float64             `json:"quality"`
	GeneSymbol  string              `json:"geneSymbol"`
	GeneID      string              `json:"geneId"`
	Genotypes   map[string][]string `json:"genotypes"`
	// Inline annotations, used when no annotation provider runs.
	Frequencies     []FrequencyDTO     `json:"frequencies,omitempty"`
	Pathogenicities []PathogenicityDTO `json:"pathogenicities,omitempty"`
}

// FrequencyDTO is one population frequency observation on the wire.
type FrequencyDTO struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// PathogenicityDTO is one predictor score on the wire.
type PathogenicityDTO struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// StepDTO declares one pipeline step.
type StepDTO struct {
	Type string `json:"type" binding:"required"`

	MinQuality         float64            `json:"minQuality,omitempty"`
	Intervals          []string           `json:"intervals,omitempty"`
	MaxFreq            float64            `json:"maxFreq,omitempty"`
	FailIfKnown        bool               `json:"failIfKnown,omitempty"`
	Cutoff             float64            `json:"cutoff,omitempty"`
	KeepOnlyPathogenic bool               `json:"keepOnlyPathogenic,omitempty"`
	PriorityType       string             `json:"priorityType,omitempty"`
	MinScore           float64            `json:"minScore,omitempty"`
	GeneScores         map[string]float64 `json:"geneScores,omitempty"`
	Modes              []string           `json:"modes,omitempty"`
}

// AnalysisResponse is the ranked result set returned to the caller.
type AnalysisResponse struct {
	RunID             string    `json:"runId"`
	ModeOfInheritance string    `json:"modeOfInheritance"`
	TotalVariants     int       `json:"totalVariants"`
	PassedVariants    int       `json:"passedVariants"`
	Genes             []GeneDTO `json:"genes"`
}

// GeneDTO is one ranked gene on the wire.
type GeneDTO struct {
	GeneSymbol       string             `json:"geneSymbol"`
	GeneID           string             `json:"geneId"`
	CombinedScore    float64            `json:"combinedScore"`
	PriorityScore    float64            `json:"priorityScore"`
	FilterScore      float64            `json:"filterScore"`
	PassedFilters    bool               `json:"passedFilters"`
	InheritanceModes []string           `json:"inheritanceModes"`
	Variants         []VariantResultDTO `json:"variants"`
}

// VariantResultDTO is one evaluated variant on the wire, with its complete
// filter record.
type VariantResultDTO struct {
	Chromosome    int               `json:"chromosome"`
	Position      int               `json:"position"`
	Ref           string            `json:"ref"`
	Alt           string            `json:"alt"`
	Effect        string            `json:"effect"`
	FilterStatus  string            `json:"filterStatus"`
	FilterResults map[string]string `json:"filterResults"`
	VariantScore  float64           `json:"variantScore"`
	MaxFrequency  float64           `json:"maxFrequency"`
}

func (s *Server) handleRunAnalysis(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variants, a, err := s.buildAnalysis(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Annotate && s.dataService != nil {
		s.dataService.Annotate(c.Request.Context(), variants)
	}

	results, err := s.runner.Run(c.Request.Context(), a, variants)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsAnalysisError(err, domain.ErrCodeStepDependencyUnsatisfied) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toAnalysisResponse(results))
}

func (s *Server) buildAnalysis(req *AnalysisRequest) ([]*domain.VariantEvaluation, *analysis.Analysis, error) {
	moi := domain.ModeOfInheritance(req.ModeOfInheritance)
	if req.ModeOfInheritance == "" {
		moi = domain.ANY
	}

	pedigree, err := buildPedigree(req)
	if err != nil {
		return nil, nil, err
	}

	variants := make([]*domain.VariantEvaluation, 0, len(req.Variants))
	for _, dto := range req.Variants {
		variants = append(variants, toVariantEvaluation(dto))
	}

	a, err := analysis.NewAnalysis(moi, pedigree)
	if err != nil {
		return nil, nil, err
	}
	for _, stepDTO := range req.Steps {
		step, err := s.buildStep(stepDTO, pedigree)
		if err != nil {
			return nil, nil, err
		}
		if err := a.AddStep(step); err != nil {
			return nil, nil, err
		}
	}
	return variants, a, nil
}

func buildPedigree(req *AnalysisRequest) (*domain.Pedigree, error) {
	if len(req.Pedigree) == 0 {
		// Default to a single affected proband named after the first
		// genotyped sample, if any.
		for _, variant := range req.Variants {
			for sampleID := range variant.Genotypes {
				return domain.SingleSamplePedigree(sampleID), nil
			}
		}
		return nil, nil
	}
	individuals := make([]domain.Individual, 0, len(req.Pedigree))
	for _, dto := range req.Pedigree {
		individuals = append(individuals, domain.Individual{
			ID:       dto.ID,
			FatherID: dto.FatherID,
			MotherID: dto.MotherID,
			Sex:      domain.Sex(dto.Sex),
			Status:   domain.AffectedStatus(dto.Status),
		})
	}
	return domain.NewPedigree(individuals...)
}

func toVariantEvaluation(dto VariantDTO) *domain.VariantEvaluation {
	ve := domain.NewVariantEvaluation(dto.Chromosome, dto.Position, dto.Ref, dto.Alt)
	ve.AltAlleleID = dto.AltAlleleID
	ve.Quality = dto.Quality
	ve.GeneSymbol = dto.GeneSymbol
	ve.GeneID = dto.GeneID
	if dto.Effect != "" {
		ve.Effect = domain.VariantEffect(dto.Effect)
	}
	for sampleID, calls := range dto.Genotypes {
		alleleCalls := make([]domain.AlleleCall, 0, len(calls))
		for _, call := range calls {
			alleleCalls = append(alleleCalls, domain.AlleleCall(call))
		}
		ve.SampleGenotypes[sampleID] = domain.NewSampleGenotype(alleleCalls...)
	}
	if len(dto.Frequencies) > 0 {
		frequencies := make([]domain.Frequency, 0, len(dto.Frequencies))
		for _, f := range dto.Frequencies {
			frequencies = append(frequencies, domain.NewFrequency(f.Value, domain.FrequencySource(f.Source)))
		}
		ve.FrequencyData = domain.NewFrequencyData(frequencies...)
	}
	if len(dto.Pathogenicities) > 0 {
		scores := make([]domain.PathogenicityScore, 0, len(dto.Pathogenicities))
		for _, p := range dto.Pathogenicities {
			scores = append(scores, domain.PathogenicityScore{Value: p.Value, Source: domain.PathogenicitySource(p.Source)})
		}
		ve.PathogenicityData = domain.NewPathogenicityData(scores...)
	}
	return ve
}

func (s *Server) buildStep(dto StepDTO, pedigree *domain.Pedigree) (analysis.Step, error) {
	switch dto.Type {
	case "quality":
		return filters.NewQualityFilter(dto.MinQuality)
	case "interval":
		intervals := make([]filters.GeneticInterval, 0, len(dto.Intervals))
		for _, spec := range dto.Intervals {
			chromosome, start, end, err := config.ParseInterval(spec)
			if err != nil {
				return nil, err
			}
			interval, err := filters.NewGeneticInterval(chromosome, start, end)
			if err != nil {
				return nil, err
			}
			intervals = append(intervals, interval)
		}
		return filters.NewIntervalFilter(intervals...)
	case "frequency":
		return filters.NewFrequencyFilter(dto.MaxFreq, dto.FailIfKnown)
	case "knownVariant":
		return filters.NewKnownVariantFilter(), nil
	case "regulatoryFeature":
		return filters.NewRegulatoryFeatureFilter(), nil
	case "pathogenicity":
		return filters.NewPathogenicityFilter(dto.Cutoff, dto.KeepOnlyPathogenic)
	case "geneScores":
		priorityType := domain.PriorityType(dto.PriorityType)
		if dto.PriorityType == "" {
			priorityType = domain.MOCK_PRIORITY
		}
		return prioritizers.NewMockPrioritizer(priorityType, dto.GeneScores), nil
	case "priorityScore":
		return filters.NewPriorityScoreFilter(domain.PriorityType(dto.PriorityType), dto.MinScore)
	case "inheritance":
		if pedigree == nil {
			return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
				"inheritance step requires a pedigree or genotyped variants")
		}
		modes := make([]domain.ModeOfInheritance, 0, len(dto.Modes))
		for _, mode := range dto.Modes {
			modes = append(modes, domain.ModeOfInheritance(mode))
		}
		analyzer := inheritance.NewAnalyzer(pedigree, nil, s.logger)
		return filters.NewInheritanceFilter(analyzer, s.logger, modes...)
	default:
		return nil, domain.NewAnalysisError(domain.ErrCodeInvalidConfiguration,
			"unknown step type: "+dto.Type)
	}
}

func toAnalysisResponse(results *analysis.AnalysisResults) AnalysisResponse {
	response := AnalysisResponse{
		RunID:             results.RunID,
		ModeOfInheritance: results.ModeOfInheritance.String(),
		TotalVariants:     results.TotalVariants,
		PassedVariants:    results.PassedVariants,
		Genes:             make([]GeneDTO, 0, len(results.Genes)),
	}
	for _, gene := range results.Genes {
		geneDTO := GeneDTO{
			GeneSymbol:       gene.GeneSymbol,
			GeneID:           gene.GeneID,
			CombinedScore:    gene.CombinedScore(),
			PriorityScore:    gene.PriorityScore(),
			FilterScore:      gene.FilterScore(),
			PassedFilters:    gene.PassedFilters(),
			InheritanceModes: make([]string, 0, len(gene.InheritanceModes())),
			Variants:         make([]VariantResultDTO, 0, gene.NumberOfVariants()),
		}
		for _, moi := range gene.InheritanceModes() {
			geneDTO.InheritanceModes = append(geneDTO.InheritanceModes, moi.String())
		}
		for _, ve := range gene.VariantEvaluations() {
			variantDTO := VariantResultDTO{
				Chromosome:    ve.Chromosome,
				Position:      ve.Position,
				Ref:           ve.Ref,
				Alt:           ve.Alt,
				Effect:        ve.Effect.String(),
				FilterStatus:  string(ve.FilterStatus()),
				FilterResults: make(map[string]string),
				VariantScore:  ve.VariantScore(),
				MaxFrequency:  ve.MaxFrequency(),
			}
			for _, result := range ve.FilterResults() {
				variantDTO.FilterResults[result.Type.String()] = string(result.Status)
			}
			geneDTO.Variants = append(geneDTO.Variants, variantDTO)
		}
		response.Genes = append(response.Genes, geneDTO)
	}
	return response
}
