package services

import (
	"context"
	"net/http"
	"price-manager-service/events"
	"price-manager-service/models"
	awspkg "price-manager-service/pkg/aws"
	"price-manager-service/providers"
	"price-manager-service/repository"
	"strings"

	"go.uber.org/zap"
)

// Listing defaults for GET-style product queries.
const (
	DefaultProductPageSize = 20
	DefaultHistoryPageSize = 50
	MaxHistoryPageSize     = 200
)

// PriceService proxies catalog reads and single price writes to Magento.
type PriceService interface {
	TestConnection(ctx context.Context, auth models.MagentoAuth) (int, *ServiceError)
	StoreViews(ctx context.Context, auth models.MagentoAuth) ([]models.StoreView, *ServiceError)
	Products(ctx context.Context, auth models.MagentoAuth, q models.ProductQuery) (*models.ProductPage, *ServiceError)
	UpdatePrice(ctx context.Context, auth models.MagentoAuth, update models.PriceUpdate) *ServiceError
	UpdateSpecialPrice(ctx context.Context, auth models.MagentoAuth, update models.PriceUpdate) *ServiceError
	DeleteSpecialPrice(ctx context.Context, auth models.MagentoAuth, sku string, storeID int) *ServiceError
	PriceChanges(ctx context.Context, filter models.PriceChangeFilter) (*models.PriceChangePage, *ServiceError)
}

type priceServiceImpl struct {
	gateways providers.GatewayFactory
	journal  repository.PriceChangeRepository
	recorder *changeRecorder
	logger   *zap.Logger
}

// NewPriceService creates a PriceService. journal, publisher and metrics may be nil.
func NewPriceService(
	gateways providers.GatewayFactory,
	journal repository.PriceChangeRepository,
	publisher events.Publisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) PriceService {
	return &priceServiceImpl{
		gateways: gateways,
		journal:  journal,
		recorder: &changeRecorder{journal: journal, publisher: publisher, metrics: metrics, logger: logger},
		logger:   logger,
	}
}

func (s *priceServiceImpl) gateway(auth models.MagentoAuth) (providers.CatalogGateway, *ServiceError) {
	gw, err := s.gateways.NewGateway(auth)
	if err != nil {
		return nil, fromGatewayError(err)
	}
	return gw, nil
}

func (s *priceServiceImpl) remoteFailure(ctx context.Context, op string, err error) *ServiceError {
	s.recorder.count(ctx, awspkg.MetricMagentoGatewayErrors, 1)
	svcErr := fromGatewayError(err)
	s.logger.Warn("Magento call failed",
		zap.String("op", op),
		zap.Int("status", svcErr.StatusCode),
		zap.Error(err),
	)
	return svcErr
}

// TestConnection lists the store views and returns how many there are.
func (s *priceServiceImpl) TestConnection(ctx context.Context, auth models.MagentoAuth) (int, *ServiceError) {
	views, svcErr := s.StoreViews(ctx, auth)
	if svcErr != nil {
		return 0, svcErr
	}
	return len(views), nil
}

func (s *priceServiceImpl) StoreViews(ctx context.Context, auth models.MagentoAuth) ([]models.StoreView, *ServiceError) {
	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return nil, svcErr
	}
	views, err := providers.NewStoreResolver(gw).StoreViews(ctx)
	if err != nil {
		return nil, s.remoteFailure(ctx, "store_views", err)
	}
	return views, nil
}

// Products returns one page of the catalog. A positive store_id reads in that
// store's scope so store-level overrides are visible.
func (s *priceServiceImpl) Products(ctx context.Context, auth models.MagentoAuth, q models.ProductQuery) (*models.ProductPage, *ServiceError) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultProductPageSize
	}

	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return nil, svcErr
	}

	storeCode := providers.AllStoresCode
	if q.StoreID > 0 {
		code, err := providers.NewStoreResolver(gw).ResolveStoreCode(ctx, q.StoreID)
		if err != nil {
			return nil, s.remoteFailure(ctx, "resolve_store", err)
		}
		storeCode = code
	}

	var res providers.ProductSearchResult
	if err := gw.Call(ctx, providers.ProductsRequest(storeCode, q.Page, q.PageSize, strings.TrimSpace(q.Search)), &res); err != nil {
		return nil, s.remoteFailure(ctx, "products", err)
	}

	page := &models.ProductPage{
		Items:      make([]models.Product, 0, len(res.Items)),
		TotalCount: res.TotalCount,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	for _, item := range res.Items {
		page.Items = append(page.Items, providers.FromRemoteItem(item, q.StoreID, gw.BaseURL()))
	}
	return page, nil
}

// UpdatePrice writes the fields present in update to the store scope of
// update.StoreID. Unknown stores and store 0 fall back to the global scope.
func (s *priceServiceImpl) UpdatePrice(ctx context.Context, auth models.MagentoAuth, update models.PriceUpdate) *ServiceError {
	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return svcErr
	}

	storeCode, err := providers.NewStoreResolver(gw).ResolveStoreCode(ctx, update.StoreID)
	if err != nil {
		return s.remoteFailure(ctx, "resolve_store", err)
	}
	if err := gw.Call(ctx, providers.ProductUpdateRequest(storeCode, update), nil); err != nil {
		return s.remoteFailure(ctx, "update_price", err)
	}

	s.logger.Info("Price updated",
		zap.String("sku", update.SKU),
		zap.Int("store_id", update.StoreID),
		zap.String("store_code", storeCode),
	)
	s.recorder.record(ctx, priceChange(models.PriceChangeManual, storeCode, "", update))
	s.recorder.publish(ctx, models.PriceEvent{
		EventType:    models.EventPriceUpdated,
		SKU:          update.SKU,
		StoreID:      update.StoreID,
		BasePrice:    update.BasePrice,
		SpecialPrice: update.SpecialPrice,
	})
	s.recorder.count(ctx, awspkg.MetricPricesUpdated, 1)
	return nil
}

// UpdateSpecialPrice goes through the dedicated special-price endpoint,
// which addresses stores by id.
func (s *priceServiceImpl) UpdateSpecialPrice(ctx context.Context, auth models.MagentoAuth, update models.PriceUpdate) *ServiceError {
	if update.SpecialPrice == nil {
		return validationError("special_price is required")
	}
	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return svcErr
	}
	if err := gw.Call(ctx, providers.SpecialPriceRequest(update), nil); err != nil {
		return s.remoteFailure(ctx, "special_price", err)
	}

	s.logger.Info("Special price updated", zap.String("sku", update.SKU), zap.Int("store_id", update.StoreID))
	update.BasePrice = nil
	s.recorder.record(ctx, priceChange(models.PriceChangeSpecialPrice, "", "", update))
	s.recorder.publish(ctx, models.PriceEvent{
		EventType:    models.EventSpecialPriceUpdated,
		SKU:          update.SKU,
		StoreID:      update.StoreID,
		SpecialPrice: update.SpecialPrice,
	})
	s.recorder.count(ctx, awspkg.MetricPricesUpdated, 1)
	return nil
}

func (s *priceServiceImpl) DeleteSpecialPrice(ctx context.Context, auth models.MagentoAuth, sku string, storeID int) *ServiceError {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return validationError("sku is required")
	}
	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return svcErr
	}
	if err := gw.Call(ctx, providers.SpecialPriceDeleteRequest(sku, storeID), nil); err != nil {
		return s.remoteFailure(ctx, "special_price_delete", err)
	}

	s.logger.Info("Special price deleted", zap.String("sku", sku), zap.Int("store_id", storeID))
	s.recorder.record(ctx, models.PriceChange{Source: models.PriceChangeSpecialDelete, SKU: sku, StoreID: storeID})
	s.recorder.publish(ctx, models.PriceEvent{EventType: models.EventSpecialPriceDeleted, SKU: sku, StoreID: storeID})
	s.recorder.count(ctx, awspkg.MetricPricesUpdated, 1)
	return nil
}

// PriceChanges lists the journal, newest first.
func (s *priceServiceImpl) PriceChanges(ctx context.Context, filter models.PriceChangeFilter) (*models.PriceChangePage, *ServiceError) {
	if s.journal == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Price change journal is not configured"}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultHistoryPageSize
	}
	if filter.PageSize > MaxHistoryPageSize {
		filter.PageSize = MaxHistoryPageSize
	}

	changes, total, err := s.journal.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list price changes", zap.Error(err))
		return nil, internalError("Failed to list price changes")
	}
	return &models.PriceChangePage{Items: changes, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
