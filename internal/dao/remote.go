package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/exome-prioritizer/internal/domain"
)

// RemoteClientConfig configures the remote annotation client.
type RemoteClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
	Burst     int
}

// RemoteAnnotationClient queries a remote annotation service for frequency
// and pathogenicity data. Calls run through a circuit breaker and a rate
// limiter; failures surface as DATA_PROVIDER_UNAVAILABLE so callers can fall
// back to the no-data policy instead of aborting an analysis.
type RemoteAnnotationClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewRemoteAnnotationClient creates a remote annotation client.
func NewRemoteAnnotationClient(config RemoteClientConfig, logger *logrus.Logger) *RemoteAnnotationClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10
	}
	if config.Burst == 0 {
		config.Burst = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "annotation-service",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return &RemoteAnnotationClient{
		baseURL: config.BaseURL,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(config.RateLimit, config.Burst),
		logger:  logger,
	}
}

type frequencyResponse struct {
	Frequencies []struct {
		Value  float64 `json:"value"`
		Source string  `json:"source"`
	} `json:"frequencies"`
}

type pathogenicityResponse struct {
	Scores []struct {
		Value  float64 `json:"value"`
		Source string  `json:"source"`
	} `json:"scores"`
}

// FrequencyData fetches population frequencies for the allele.
func (c *RemoteAnnotationClient) FrequencyData(ctx context.Context, chromosome, position int, ref, alt string) (*domain.FrequencyData, error) {
	var response frequencyResponse
	if err := c.get(ctx, "/frequency", chromosome, position, ref, alt, &response); err != nil {
		return nil, err
	}
	frequencies := make([]domain.Frequency, 0, len(response.Frequencies))
	for _, f := range response.Frequencies {
		frequencies = append(frequencies, domain.NewFrequency(f.Value, domain.FrequencySource(f.Source)))
	}
	return domain.NewFrequencyData(frequencies...), nil
}

// PathogenicityData fetches predictor scores for the allele.
func (c *RemoteAnnotationClient) PathogenicityData(ctx context.Context, chromosome, position int, ref, alt string, effect domain.VariantEffect) (*domain.PathogenicityData, error) {
	if !effect.IsMissenseEquivalent() {
		return domain.EmptyPathogenicityData(), nil
	}
	var response pathogenicityResponse
	if err := c.get(ctx, "/pathogenicity", chromosome, position, ref, alt, &response); err != nil {
		return nil, err
	}
	scores := make([]domain.PathogenicityScore, 0, len(response.Scores))
	for _, s := range response.Scores {
		scores = append(scores, domain.PathogenicityScore{Value: s.Value, Source: domain.PathogenicitySource(s.Source)})
	}
	return domain.NewPathogenicityData(scores...), nil
}

func (c *RemoteAnnotationClient) get(ctx context.Context, path string, chromosome, position int, ref, alt string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapAnalysisError(domain.ErrCodeDataProviderUnavailable, "rate limiter interrupted", err)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		query := url.Values{}
		query.Set("chr", fmt.Sprintf("%d", chromosome))
		query.Set("pos", fmt.Sprintf("%d", position))
		query.Set("ref", ref)
		query.Set("alt", alt)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("annotation service returned %d", resp.StatusCode)
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return domain.WrapAnalysisError(domain.ErrCodeDataProviderUnavailable, "annotation lookup failed", err)
	}
	return nil
}
