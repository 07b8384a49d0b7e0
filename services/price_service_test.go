package services_test

import (
	"context"
	"errors"
	"net/http"
	"price-manager-service/models"
	awspkg "price-manager-service/pkg/aws"
	"price-manager-service/providers"
	"price-manager-service/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testAuth = models.MagentoAuth{MagentoURL: "https://shop.example", AccessToken: "tok"}

func testViews() []models.StoreView {
	return []models.StoreView{
		{ID: 0, Code: "admin", Name: "Admin"},
		{ID: 1, Code: "default", Name: "Default Store View"},
		{ID: 2, Code: "de", Name: "Deutsch"},
	}
}

type priceFixture struct {
	gw        *fakeCatalog
	journal   *mockJournal
	publisher *mockPublisher
	metrics   *mockMetrics
	svc       services.PriceService
}

func newTestPriceService(t *testing.T) *priceFixture {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	f := &priceFixture{
		gw:        &fakeCatalog{views: testViews(), products: map[string][]providers.ProductItem{}},
		journal:   &mockJournal{},
		publisher: &mockPublisher{},
		metrics:   &mockMetrics{},
	}
	f.svc = services.NewPriceService(fakeFactory{gw: f.gw}, f.journal, f.publisher, f.metrics, logger)
	return f
}

func TestTestConnection_CountsStores(t *testing.T) {
	f := newTestPriceService(t)
	n, svcErr := f.svc.TestConnection(context.Background(), testAuth)
	require.Nil(t, svcErr)
	assert.Equal(t, 3, n)
}

func TestGatewayErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"auth", &providers.GatewayError{Kind: providers.KindAuthenticationFailed, Status: 401}, 401, "Invalid or expired Magento token"},
		{"not found", &providers.GatewayError{Kind: providers.KindNotFound, Status: 404}, 404, "Magento resource not found"},
		{"rejected", &providers.GatewayError{Kind: providers.KindRemoteRejected, Status: 500, Body: "Internal Error"}, 500, "Magento error: Internal Error"},
		{"timeout", &providers.GatewayError{Kind: providers.KindGatewayTimeout, Err: context.DeadlineExceeded}, 504, "Timed out connecting to Magento"},
		{"unreachable", &providers.GatewayError{Kind: providers.KindGatewayUnreachable, Err: errors.New("dial tcp: refused")}, 502, "Could not connect to Magento: dial tcp: refused"},
		{"unknown", errBoom, 502, "Unexpected Magento response: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestPriceService(t)
			f.gw.errs = map[string]error{"GET /store/storeViews": tt.err}

			_, svcErr := f.svc.StoreViews(context.Background(), testAuth)
			require.NotNil(t, svcErr)
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, tt.message, svcErr.Message)
			assert.Equal(t, 1, f.metrics.counts[awspkg.MetricMagentoGatewayErrors])
		})
	}
}

func TestMissingCredentialsIsBadRequest(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := services.NewPriceService(fakeFactory{err: providers.ErrMissingCredentials}, nil, nil, nil, logger)

	_, svcErr := svc.StoreViews(context.Background(), models.MagentoAuth{MagentoURL: "https://shop.example"})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestProducts_DefaultsAndGlobalScope(t *testing.T) {
	f := newTestPriceService(t)
	f.gw.products["all"] = []providers.ProductItem{{ID: 1, SKU: "A", Name: "Alpha", Price: dp("10")}}

	page, svcErr := f.svc.Products(context.Background(), testAuth, models.ProductQuery{})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, services.DefaultProductPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].SKU)
	assert.True(t, page.Items[0].Prices[0].BasePrice.Equal(d("10")))
	assert.Zero(t, f.gw.count(http.MethodGet, "/store/storeViews"))
}

func TestProducts_StoreScopeAndSearch(t *testing.T) {
	f := newTestPriceService(t)
	f.gw.products["de"] = []providers.ProductItem{{ID: 1, SKU: "A", Price: dp("11")}}

	page, svcErr := f.svc.Products(context.Background(), testAuth, models.ProductQuery{StoreID: 2, Page: 1, PageSize: 10, Search: " alp "})
	require.Nil(t, svcErr)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].Prices[0].StoreID)

	last := f.gw.requests[len(f.gw.requests)-1]
	assert.Equal(t, "de", last.StoreCode)
	assert.Equal(t, "%alp%", last.Query.Get("searchCriteria[filter_groups][0][filters][0][value]"))
}

func TestUpdatePrice_ResolvesStoreAndRecords(t *testing.T) {
	f := newTestPriceService(t)

	svcErr := f.svc.UpdatePrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", StoreID: 2, BasePrice: dp("9.5")})
	require.Nil(t, svcErr)

	writes := f.gw.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "de", writes[0].StoreCode)

	require.Len(t, f.journal.created, 1)
	assert.Equal(t, models.PriceChangeManual, f.journal.created[0].Source)
	assert.Equal(t, "de", f.journal.created[0].StoreCode)
	assert.True(t, f.journal.created[0].BasePrice.Valid)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.EventPriceUpdated, f.publisher.events[0].EventType)
	assert.False(t, f.publisher.events[0].Timestamp.IsZero())
	assert.Equal(t, 1, f.metrics.counts[awspkg.MetricPricesUpdated])
}

func TestUpdatePrice_UnknownStoreFallsBackToAll(t *testing.T) {
	f := newTestPriceService(t)

	require.Nil(t, f.svc.UpdatePrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", StoreID: 99, BasePrice: dp("1")}))
	assert.Equal(t, providers.AllStoresCode, f.gw.writes()[0].StoreCode)

	require.Nil(t, f.svc.UpdatePrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", StoreID: 0, BasePrice: dp("1")}))
	assert.Equal(t, providers.AllStoresCode, f.gw.writes()[1].StoreCode)
}

func TestUpdatePrice_SideEffectFailuresDoNotFailWrite(t *testing.T) {
	f := newTestPriceService(t)
	f.journal.err = errBoom
	f.publisher.err = errBoom

	svcErr := f.svc.UpdatePrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", BasePrice: dp("1")})
	assert.Nil(t, svcErr)
}

func TestUpdatePrice_RemoteFailureRecordsNothing(t *testing.T) {
	f := newTestPriceService(t)
	f.gw.errs = map[string]error{"PUT /products/A": &providers.GatewayError{Kind: providers.KindAuthenticationFailed, Status: 401}}

	svcErr := f.svc.UpdatePrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", BasePrice: dp("1")})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Empty(t, f.journal.created)
	assert.Empty(t, f.publisher.events)
}

func TestUpdateSpecialPrice(t *testing.T) {
	f := newTestPriceService(t)

	svcErr := f.svc.UpdateSpecialPrice(context.Background(), testAuth, models.PriceUpdate{SKU: "A", StoreID: 1})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)

	svcErr = f.svc.UpdateSpecialPrice(context.Background(), testAuth, models.PriceUpdate{
		SKU: "A", StoreID: 1, BasePrice: dp("10"), SpecialPrice: dp("7"), SpecialPriceFrom: strp("2025-01-01"),
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, f.gw.count(http.MethodPost, "/products/special-price"))
	require.Len(t, f.journal.created, 1)
	assert.Equal(t, models.PriceChangeSpecialPrice, f.journal.created[0].Source)
	assert.False(t, f.journal.created[0].BasePrice.Valid)
}

func TestDeleteSpecialPrice(t *testing.T) {
	f := newTestPriceService(t)

	svcErr := f.svc.DeleteSpecialPrice(context.Background(), testAuth, " ", 1)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)

	require.Nil(t, f.svc.DeleteSpecialPrice(context.Background(), testAuth, "A", 1))
	assert.Equal(t, 1, f.gw.count(http.MethodPost, "/products/special-price-delete"))
	assert.Equal(t, models.EventSpecialPriceDeleted, f.publisher.events[0].EventType)
}

func TestPriceChanges(t *testing.T) {
	f := newTestPriceService(t)

	page, svcErr := f.svc.PriceChanges(context.Background(), models.PriceChangeFilter{PageSize: 1000})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, services.MaxHistoryPageSize, page.PageSize)
	assert.Equal(t, services.MaxHistoryPageSize, f.journal.listed.PageSize)

	page, svcErr = f.svc.PriceChanges(context.Background(), models.PriceChangeFilter{})
	require.Nil(t, svcErr)
	assert.Equal(t, services.DefaultHistoryPageSize, page.PageSize)
}

func TestPriceChanges_NoJournal(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	svc := services.NewPriceService(fakeFactory{gw: &fakeCatalog{}}, nil, nil, nil, logger)

	_, svcErr := svc.PriceChanges(context.Background(), models.PriceChangeFilter{})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
}
