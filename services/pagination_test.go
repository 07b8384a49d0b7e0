package services_test

import (
	"context"
	"net/http"
	"price-manager-service/providers"
	"price-manager-service/services"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogItems(n int) []providers.ProductItem {
	items := make([]providers.ProductItem, n)
	for i := range items {
		items[i] = providers.ProductItem{ID: i + 1, SKU: "SKU-" + strconv.Itoa(i+1)}
	}
	return items
}

func TestFetchAllProducts_StopsOnShortPage(t *testing.T) {
	gw := &fakeCatalog{products: map[string][]providers.ProductItem{"it": catalogItems(250)}}

	items, err := services.FetchAllProducts(context.Background(), gw, "it", 100, 50)
	require.NoError(t, err)
	assert.Len(t, items, 250)
	assert.Equal(t, 3, gw.count(http.MethodGet, "/products"))
	assert.Equal(t, "SKU-250", items[249].SKU)
	for _, r := range gw.requests {
		assert.Equal(t, "it", r.StoreCode)
	}
}

func TestFetchAllProducts_StopsOnEmptyPage(t *testing.T) {
	gw := &fakeCatalog{products: map[string][]providers.ProductItem{"all": catalogItems(200)}}

	items, err := services.FetchAllProducts(context.Background(), gw, "all", 100, 50)
	require.NoError(t, err)
	assert.Len(t, items, 200)
	assert.Equal(t, 3, gw.count(http.MethodGet, "/products"))
}

func TestFetchAllProducts_TruncatesAtPageCap(t *testing.T) {
	gw := &fakeCatalog{products: map[string][]providers.ProductItem{"all": catalogItems(6000)}}

	items, err := services.FetchAllProducts(context.Background(), gw, "all", services.DefaultPageSize, services.DefaultPageCap)
	require.NoError(t, err)
	assert.Len(t, items, 5000)
	assert.Equal(t, 50, gw.count(http.MethodGet, "/products"))
}

func TestFetchAllProducts_PropagatesError(t *testing.T) {
	gw := &fakeCatalog{errs: map[string]error{"GET /products": &providers.GatewayError{Kind: providers.KindGatewayTimeout, Err: context.DeadlineExceeded}}}

	_, err := services.FetchAllProducts(context.Background(), gw, "all", 100, 50)
	kind, ok := providers.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, providers.KindGatewayTimeout, kind)
}
