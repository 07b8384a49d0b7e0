package controllers_test

import (
	"context"
	"price-manager-service/models"
	"price-manager-service/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock PriceService ---

type mockPriceService struct {
	testFn          func(ctx context.Context, auth models.MagentoAuth) (int, *services.ServiceError)
	viewsFn         func(ctx context.Context, auth models.MagentoAuth) ([]models.StoreView, *services.ServiceError)
	productsFn      func(ctx context.Context, auth models.MagentoAuth, q models.ProductQuery) (*models.ProductPage, *services.ServiceError)
	updateFn        func(ctx context.Context, auth models.MagentoAuth, u models.PriceUpdate) *services.ServiceError
	specialFn       func(ctx context.Context, auth models.MagentoAuth, u models.PriceUpdate) *services.ServiceError
	deleteSpecialFn func(ctx context.Context, auth models.MagentoAuth, sku string, storeID int) *services.ServiceError
	changesFn       func(ctx context.Context, f models.PriceChangeFilter) (*models.PriceChangePage, *services.ServiceError)
}

func (m *mockPriceService) TestConnection(ctx context.Context, auth models.MagentoAuth) (int, *services.ServiceError) {
	return m.testFn(ctx, auth)
}
func (m *mockPriceService) StoreViews(ctx context.Context, auth models.MagentoAuth) ([]models.StoreView, *services.ServiceError) {
	return m.viewsFn(ctx, auth)
}
func (m *mockPriceService) Products(ctx context.Context, auth models.MagentoAuth, q models.ProductQuery) (*models.ProductPage, *services.ServiceError) {
	return m.productsFn(ctx, auth, q)
}
func (m *mockPriceService) UpdatePrice(ctx context.Context, auth models.MagentoAuth, u models.PriceUpdate) *services.ServiceError {
	return m.updateFn(ctx, auth, u)
}
func (m *mockPriceService) UpdateSpecialPrice(ctx context.Context, auth models.MagentoAuth, u models.PriceUpdate) *services.ServiceError {
	return m.specialFn(ctx, auth, u)
}
func (m *mockPriceService) DeleteSpecialPrice(ctx context.Context, auth models.MagentoAuth, sku string, storeID int) *services.ServiceError {
	return m.deleteSpecialFn(ctx, auth, sku, storeID)
}
func (m *mockPriceService) PriceChanges(ctx context.Context, f models.PriceChangeFilter) (*models.PriceChangePage, *services.ServiceError) {
	return m.changesFn(ctx, f)
}

// --- Mock SettingsService ---

type mockSettingsService struct {
	saveFn     func(ctx context.Context, cfg models.MagentoAuth) *services.ServiceError
	loadFn     func(ctx context.Context) (*models.SavedConfig, *services.ServiceError)
	ratesFn    func(ctx context.Context) ([]models.VatRate, *services.ServiceError)
	replaceFn  func(ctx context.Context, rates []models.VatRate) *services.ServiceError
	vatTableFn func(ctx context.Context) (services.VatTable, *services.ServiceError)
}

func (m *mockSettingsService) SaveConfig(ctx context.Context, cfg models.MagentoAuth) *services.ServiceError {
	return m.saveFn(ctx, cfg)
}
func (m *mockSettingsService) LoadConfig(ctx context.Context) (*models.SavedConfig, *services.ServiceError) {
	return m.loadFn(ctx)
}
func (m *mockSettingsService) VatRates(ctx context.Context) ([]models.VatRate, *services.ServiceError) {
	return m.ratesFn(ctx)
}
func (m *mockSettingsService) ReplaceVatRates(ctx context.Context, rates []models.VatRate) *services.ServiceError {
	return m.replaceFn(ctx, rates)
}
func (m *mockSettingsService) VatTable(ctx context.Context) (services.VatTable, *services.ServiceError) {
	return m.vatTableFn(ctx)
}

// --- Mock BulkService ---

type mockBulkService struct {
	exportFn   func(ctx context.Context, auth models.MagentoAuth) ([]byte, *services.ServiceError)
	templateFn func() ([]byte, *services.ServiceError)
	importFn   func(ctx context.Context, auth models.MagentoAuth, data []byte) (*models.BulkResult, *services.ServiceError)
	enqueueFn  func(ctx context.Context, auth models.MagentoAuth, data []byte) (string, *services.ServiceError)
	jobFn      func(ctx context.Context, id string) (*models.ImportJob, *services.ServiceError)
}

func (m *mockBulkService) Export(ctx context.Context, auth models.MagentoAuth) ([]byte, *services.ServiceError) {
	return m.exportFn(ctx, auth)
}
func (m *mockBulkService) Template() ([]byte, *services.ServiceError) {
	return m.templateFn()
}
func (m *mockBulkService) Import(ctx context.Context, auth models.MagentoAuth, data []byte) (*models.BulkResult, *services.ServiceError) {
	return m.importFn(ctx, auth, data)
}
func (m *mockBulkService) EnqueueImport(ctx context.Context, auth models.MagentoAuth, data []byte) (string, *services.ServiceError) {
	return m.enqueueFn(ctx, auth, data)
}
func (m *mockBulkService) ImportJob(ctx context.Context, id string) (*models.ImportJob, *services.ServiceError) {
	return m.jobFn(ctx, id)
}
func (m *mockBulkService) ProcessImportJob(context.Context, string) error {
	return nil
}
