package catalogfile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/foodiebot/backend/internal/domain"
)

// ImportResult counts what an import did
type ImportResult struct {
	Inserted int
	Skipped  int
}

// Importer inserts decoded products, leaving ids that already exist untouched
type Importer struct {
	products domain.ProductRepository
	logger   *zap.Logger
}

// NewImporter creates an importer writing to products
func NewImporter(products domain.ProductRepository, logger *zap.Logger) *Importer {
	return &Importer{products: products, logger: logger.Named("import")}
}

// Import is idempotent: running it twice with the same file inserts nothing the second time
func (im *Importer) Import(ctx context.Context, products []domain.Product) (ImportResult, error) {
	var result ImportResult
	for i := range products {
		p := &products[i]

		exists, err := im.products.Exists(ctx, p.ProductID)
		if err != nil {
			return result, fmt.Errorf("check %s: %w", p.ProductID, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		if err := im.products.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrProductExists) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("import %s: %w", p.ProductID, err)
		}
		result.Inserted++
	}

	im.logger.Info("catalog imported",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
