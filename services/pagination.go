package services

import (
	"context"
	"price-manager-service/providers"
)

// Bulk fetch limits. A catalog longer than DefaultPageCap pages is truncated silently.
const (
	DefaultPageSize = 100
	DefaultPageCap  = 50
)

// FetchAllProducts walks GET /products page by page in the given store scope.
// It stops on an empty page, on a short page, or once pageCap pages were read.
func FetchAllProducts(ctx context.Context, gw providers.CatalogGateway, storeCode string, pageSize, pageCap int) ([]providers.ProductItem, error) {
	var items []providers.ProductItem
	for page := 1; page <= pageCap; page++ {
		var res providers.ProductSearchResult
		if err := gw.Call(ctx, providers.ProductsRequest(storeCode, page, pageSize, ""), &res); err != nil {
			return nil, err
		}
		if len(res.Items) == 0 {
			break
		}
		items = append(items, res.Items...)
		if len(res.Items) < pageSize {
			break
		}
	}
	return items, nil
}
