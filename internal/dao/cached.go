package dao

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/exome-prioritizer/internal/domain"
)

// CachedVariantDataDAO decorates frequency and pathogenicity DAOs with
// in-memory LRU caches keyed by allele coordinates. The cached data is
// read-only and safe to share across concurrent analyses.
type CachedVariantDataDAO struct {
	frequency     domain.FrequencyDAO
	pathogenicity domain.PathogenicityDAO

	frequencyCache     *lru.Cache[string, *domain.FrequencyData]
	pathogenicityCache *lru.Cache[string, *domain.PathogenicityData]
}

// NewCachedVariantDataDAO wraps the given DAOs with caches of the given
// size.
func NewCachedVariantDataDAO(frequency domain.FrequencyDAO, pathogenicity domain.PathogenicityDAO, cacheSize int) (*CachedVariantDataDAO, error) {
	frequencyCache, err := lru.New[string, *domain.FrequencyData](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create frequency cache: %w", err)
	}
	pathogenicityCache, err := lru.New[string, *domain.PathogenicityData](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pathogenicity cache: %w", err)
	}
	return &CachedVariantDataDAO{
		frequency:          frequency,
		pathogenicity:      pathogenicity,
		frequencyCache:     frequencyCache,
		pathogenicityCache: pathogenicityCache,
	}, nil
}

func alleleKey(chromosome, position int, ref, alt string) string {
	return fmt.Sprintf("%d:%d:%s:%s", chromosome, position, ref, alt)
}

// FrequencyData serves the lookup from cache, falling through to the wrapped
// DAO on a miss. Lookup errors are not cached.
func (c *CachedVariantDataDAO) FrequencyData(ctx context.Context, chromosome, position int, ref, alt string) (*domain.FrequencyData, error) {
	key := alleleKey(chromosome, position, ref, alt)
	if data, ok := c.frequencyCache.Get(key); ok {
		return data, nil
	}
	data, err := c.frequency.FrequencyData(ctx, chromosome, position, ref, alt)
	if err != nil {
		return nil, err
	}
	c.frequencyCache.Add(key, data)
	return data, nil
}

// PathogenicityData serves the lookup from cache, falling through to the
// wrapped DAO on a miss. The effect does not participate in the key: scores
// are per allele.
func (c *CachedVariantDataDAO) PathogenicityData(ctx context.Context, chromosome, position int, ref, alt string, effect domain.VariantEffect) (*domain.PathogenicityData, error) {
	if !effect.IsMissenseEquivalent() {
		return domain.EmptyPathogenicityData(), nil
	}
	key := alleleKey(chromosome, position, ref, alt)
	if data, ok := c.pathogenicityCache.Get(key); ok {
		return data, nil
	}
	data, err := c.pathogenicity.PathogenicityData(ctx, chromosome, position, ref, alt, effect)
	if err != nil {
		return nil, err
	}
	c.pathogenicityCache.Add(key, data)
	return data, nil
}
