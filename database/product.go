package database

import (
	"context"
	"fmt"
	"time"

	"github.com/orderstack/saga/internal/sagaerror"
)

const productCacheTTL = 10 * time.Minute

// ProductExistsByCode checks the referenced product against the validation
// participant's own catalog. The catalog is read-mostly, so hits are cached.
func (d Datasource) ProductExistsByCode(ctx context.Context, code string) (bool, error) {
	cacheKey := fmt.Sprintf("product:%s", code)
	if d.Cache != nil {
		var cached bool
		if err := d.Cache.Get(ctx, cacheKey, &cached); err == nil && cached {
			return true, nil
		}
	}

	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE code = $1)
	`, code).Scan(&exists)

	if err != nil {
		return false, sagaerror.New(sagaerror.ErrTransport, "Failed to check if product exists", err)
	}

	if exists && d.Cache != nil {
		_ = d.Cache.Set(ctx, cacheKey, true, productCacheTTL)
	}

	return exists, nil
}
