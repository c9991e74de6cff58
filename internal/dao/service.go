package dao

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
)

// VariantDataService attaches frequency and pathogenicity data to variant
// evaluations ahead of filtering. A failing provider is treated per variant
// as "no data": frequency stays nil (passes the non-strict frequency filter)
// and pathogenicity stays nil (defaults to score 0).
type VariantDataService struct {
	frequency     domain.FrequencyDAO
	pathogenicity domain.PathogenicityDAO
	logger        *logrus.Logger
}

// NewVariantDataService creates an annotation service over the given DAOs.
func NewVariantDataService(frequency domain.FrequencyDAO, pathogenicity domain.PathogenicityDAO, logger *logrus.Logger) *VariantDataService {
	return &VariantDataService{frequency: frequency, pathogenicity: pathogenicity, logger: logger}
}

// Annotate attaches provider data to every variant in place. Per-variant
// provider failures are logged and leave the corresponding attachment nil.
func (s *VariantDataService) Annotate(ctx context.Context, variants []*domain.VariantEvaluation) {
	for _, ve := range variants {
		frequencyData, err := s.frequency.FrequencyData(ctx, ve.Chromosome, ve.Position, ve.Ref, ve.Alt)
		if err != nil {
			s.logger.WithError(err).WithField("variant", ve.String()).Warn("Frequency provider unavailable")
		} else {
			ve.FrequencyData = frequencyData
		}

		pathogenicityData, err := s.pathogenicity.PathogenicityData(ctx, ve.Chromosome, ve.Position, ve.Ref, ve.Alt, ve.Effect)
		if err != nil {
			s.logger.WithError(err).WithField("variant", ve.String()).Warn("Pathogenicity provider unavailable")
		} else {
			ve.PathogenicityData = pathogenicityData
		}
	}
}
