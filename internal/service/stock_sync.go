package service

import (
	"context"
	"fmt"

	"github.com/chekib1978/cafe-flow-print/internal/redisclient"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	"go.uber.org/zap"
)

// SyncStockToCache seeds the stock cache from the store's catalog so the
// checkout fast path has a live count for every active product. Run at
// startup in remote-backend mode.
func SyncStockToCache(ctx context.Context, store Store, cache *redisclient.Client) error {
	logger := util.GetLogger()
	logger.Info("Starting stock sync to cache")

	products, err := store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	for _, product := range products {
		if err := cache.SetStock(ctx, product.ID, product.Stock); err != nil {
			logger.Error("Failed to seed cached stock",
				zap.String("product_id", product.ID),
				zap.Error(err))
		}
	}

	logger.Info("Stock sync completed", zap.Int("count", len(products)))
	return nil
}
