package ml

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/athlete-guard/internal/features"
)

// Assessment is the model-derived part of a prediction. It depends only on
// the feature vector, so it can be cached by vector.
type Assessment struct {
	Label         string
	Likelihood    float64
	Confidence    float64
	Overridden    bool
	Probabilities []float64
}

// PredictionCache provides in-memory caching of assessments keyed by
// feature vector.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached assessment
func (pc *PredictionCache) Get(ctx context.Context, v features.Vector) *Assessment {
	result, found := pc.cache.Get(v.Key())

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if found {
		if a, ok := result.(*Assessment); ok {
			pc.hitCount++
			pc.updateMetrics()
			return a
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return nil
}

// Set stores an assessment. When the cache is full and nothing has expired
// the entry is dropped.
func (pc *PredictionCache) Set(ctx context.Context, v features.Vector, a *Assessment) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}

	pc.cache.Set(v.Key(), a, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.stats()
}

func (pc *PredictionCache) stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics must be called with mu held
func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.stats()
	CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}

// Maintain evicts expired entries, refreshes the hit ratio gauge and returns
// the remaining entry count.
func (pc *PredictionCache) Maintain() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.DeleteExpired()
	pc.updateMetrics()
	return pc.cache.ItemCount()
}
