package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/foodiebot/backend/internal/domain"
	"github.com/foodiebot/backend/internal/observability"
)

// snapshotCacheKey is where the point-in-time catalog read is cached
const snapshotCacheKey = "catalog:snapshot"

const defaultSnapshotTTL = 5 * time.Minute

// CatalogReader supplies the catalog snapshot a scoring call ranks against
type CatalogReader interface {
	Snapshot(ctx context.Context) ([]domain.Product, error)
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SnapshotTTL time.Duration
	AdminToken  string
}

// CatalogService serves catalog snapshots, product lookups, plain search and admin creation
type CatalogService struct {
	products    domain.ProductRepository
	cache       domain.CacheRepository
	snapshotTTL time.Duration
	adminToken  string
	logger      *zap.Logger
	metrics     *observability.Metrics

	// fillMu orders snapshot cache writes against invalidations. generation
	// is bumped on every catalog write; a fill started under an older
	// generation is dropped instead of cached.
	fillMu     sync.Mutex
	generation uint64
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	products domain.ProductRepository,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *CatalogService {
	ttl := config.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}

	return &CatalogService{
		products:    products,
		cache:       cache,
		snapshotTTL: ttl,
		adminToken:  config.AdminToken,
		logger:      logger.Named("catalog"),
		metrics:     metrics,
	}
}

// Snapshot returns the current catalog.
// Flow: check cache -> list from the record store -> cache -> return.
// Cache failures are logged and bypassed.
func (s *CatalogService) Snapshot(ctx context.Context) ([]domain.Product, error) {
	if products, err := s.getFromCache(ctx); err == nil {
		s.metrics.CatalogCache.WithLabelValues(observability.CacheHit).Inc()
		return products, nil
	} else if errors.Is(err, domain.ErrCacheMiss) {
		s.metrics.CatalogCache.WithLabelValues(observability.CacheMiss).Inc()
	} else {
		s.metrics.CatalogCache.WithLabelValues(observability.CacheError).Inc()
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}

	generation := s.currentGeneration()

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if err := s.fillCache(ctx, generation, products); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}

	return products, nil
}

// GetProduct returns a single product by its catalog id
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.products.GetByID(ctx, productID)
}

// CreateProduct stores a new product after checking the admin token.
// The cached snapshot is dropped so the next read sees the new product.
func (s *CatalogService) CreateProduct(ctx context.Context, token string, product *domain.Product) error {
	if !s.authorized(token) {
		return domain.ErrForbidden
	}
	if product == nil {
		return domain.ErrInvalidRequest
	}
	if err := product.Validate(); err != nil {
		return err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return err
	}

	s.invalidate(ctx)

	s.logger.Info("product created",
		zap.String("product_id", product.ProductID),
		zap.String("category", product.Category))
	return nil
}

// Search runs a plain catalog search against the snapshot
func (s *CatalogService) Search(ctx context.Context, filter SearchFilter) ([]domain.MatchResult, error) {
	products, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SearchRequests.Inc()
	return SearchCatalog(products, filter), nil
}

// authorized compares the token in constant time; an unset admin token locks admin out
func (s *CatalogService) authorized(token string) bool {
	if s.adminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

func (s *CatalogService) getFromCache(ctx context.Context) ([]domain.Product, error) {
	data, err := s.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// A corrupt entry is treated as a miss and overwritten
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}

func (s *CatalogService) currentGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

// fillCache stores products unless the catalog changed since generation was read
func (s *CatalogService) fillCache(ctx context.Context, generation uint64, products []domain.Product) error {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	if generation != s.generation {
		s.logger.Debug("dropping stale snapshot fill",
			zap.Uint64("read_generation", generation),
			zap.Uint64("current_generation", s.generation))
		return nil
	}
	return s.setInCache(ctx, products)
}

// invalidate drops the cached snapshot and fences off fills that read the old catalog
func (s *CatalogService) invalidate(ctx context.Context) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	s.generation++
	if err := s.cache.Delete(ctx, snapshotCacheKey); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) setInCache(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.cache.Set(ctx, snapshotCacheKey, data, s.snapshotTTL)
}
