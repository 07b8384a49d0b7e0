package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"price-manager-service/events"
	"price-manager-service/models"
	awspkg "price-manager-service/pkg/aws"
	"price-manager-service/providers"
	"price-manager-service/repository"
	"price-manager-service/spreadsheet"
	"price-manager-service/storage"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BulkService exports, imports and templates price spreadsheets.
type BulkService interface {
	Export(ctx context.Context, auth models.MagentoAuth) ([]byte, *ServiceError)
	Template() ([]byte, *ServiceError)
	Import(ctx context.Context, auth models.MagentoAuth, data []byte) (*models.BulkResult, *ServiceError)
	EnqueueImport(ctx context.Context, auth models.MagentoAuth, data []byte) (string, *ServiceError)
	ImportJob(ctx context.Context, id string) (*models.ImportJob, *ServiceError)
	ProcessImportJob(ctx context.Context, id string) error
}

// BulkDeps wires the optional collaborators of the bulk service.
// Files and Jobs are both required for async imports.
type BulkDeps struct {
	Gateways       providers.GatewayFactory
	Settings       SettingsService
	Journal        repository.PriceChangeRepository
	Publisher      events.Publisher
	Metrics        MetricsRecorder
	Files          storage.FileStore
	Jobs           repository.ImportJobRepository
	ArchiveExports bool
	PageSize       int
	PageCap        int
}

type bulkServiceImpl struct {
	gateways       providers.GatewayFactory
	settings       SettingsService
	recorder       *changeRecorder
	files          storage.FileStore
	jobs           repository.ImportJobRepository
	archiveExports bool
	pageSize       int
	pageCap        int
	logger         *zap.Logger
	now            func() time.Time
}

func NewBulkService(deps BulkDeps, logger *zap.Logger) BulkService {
	if deps.PageSize <= 0 {
		deps.PageSize = DefaultPageSize
	}
	if deps.PageCap <= 0 {
		deps.PageCap = DefaultPageCap
	}
	return &bulkServiceImpl{
		gateways:       deps.Gateways,
		settings:       deps.Settings,
		recorder:       &changeRecorder{journal: deps.Journal, publisher: deps.Publisher, metrics: deps.Metrics, logger: logger},
		files:          deps.Files,
		jobs:           deps.Jobs,
		archiveExports: deps.ArchiveExports,
		pageSize:       deps.PageSize,
		pageCap:        deps.PageCap,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *bulkServiceImpl) gateway(auth models.MagentoAuth) (providers.CatalogGateway, *ServiceError) {
	gw, err := s.gateways.NewGateway(auth)
	if err != nil {
		return nil, fromGatewayError(err)
	}
	return gw, nil
}

func (s *bulkServiceImpl) remoteFailure(ctx context.Context, op string, err error) *ServiceError {
	s.recorder.count(ctx, awspkg.MetricMagentoGatewayErrors, 1)
	svcErr := fromGatewayError(err)
	s.logger.Warn("Magento call failed", zap.String("op", op), zap.Int("status", svcErr.StatusCode), zap.Error(err))
	return svcErr
}

// Export reads every product of every store view (store 0 excluded) and
// writes one row per product and store with VAT-inclusive prices.
func (s *bulkServiceImpl) Export(ctx context.Context, auth models.MagentoAuth) ([]byte, *ServiceError) {
	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return nil, svcErr
	}
	vat, svcErr := s.settings.VatTable(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	views, err := providers.NewStoreResolver(gw).StoreViews(ctx)
	if err != nil {
		return nil, s.remoteFailure(ctx, "store_views", err)
	}

	var rows []exportRow
	for order, view := range views {
		if view.ID == 0 {
			continue
		}
		items, err := FetchAllProducts(ctx, gw, view.Code, s.pageSize, s.pageCap)
		if err != nil {
			return nil, s.remoteFailure(ctx, "export_products", err)
		}
		for _, item := range items {
			rows = append(rows, exportRow{
				product: providers.FromRemoteItem(item, view.ID, gw.BaseURL()),
				view:    view,
				order:   order,
				vat:     vat,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].product.SKU != rows[j].product.SKU {
			return rows[i].product.SKU < rows[j].product.SKU
		}
		return rows[i].order < rows[j].order
	})

	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.cells())
	}
	data, err := spreadsheet.Encode(SheetName, SheetHeaders, cells)
	if err != nil {
		s.logger.Error("Failed to encode export", zap.Error(err))
		return nil, internalError("Failed to build spreadsheet")
	}

	s.logger.Info("Prices exported", zap.Int("rows", len(rows)), zap.Int("stores", len(views)))
	s.archive(ctx, data)
	return data, nil
}

func (s *bulkServiceImpl) archive(ctx context.Context, data []byte) {
	if !s.archiveExports || s.files == nil {
		return
	}
	key := fmt.Sprintf("exports/%s.xlsx", s.now().UTC().Format("20060102T150405Z"))
	if err := s.files.Put(ctx, key, data); err != nil {
		s.logger.Warn("Failed to archive export", zap.String("key", key), zap.Error(err))
	}
}

func (s *bulkServiceImpl) Template() ([]byte, *ServiceError) {
	data, err := spreadsheet.Encode(SheetName, SheetHeaders, templateRows())
	if err != nil {
		s.logger.Error("Failed to encode template", zap.Error(err))
		return nil, internalError("Failed to build spreadsheet")
	}
	return data, nil
}

func (s *bulkServiceImpl) Import(ctx context.Context, auth models.MagentoAuth, data []byte) (*models.BulkResult, *ServiceError) {
	return s.importRows(ctx, auth, data, "")
}

// importRows fails as a whole only on preconditions: an unreadable file,
// missing key columns, or no store directory. Row failures land in the result.
func (s *bulkServiceImpl) importRows(ctx context.Context, auth models.MagentoAuth, data []byte, jobID string) (*models.BulkResult, *ServiceError) {
	table, err := spreadsheet.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, validationError("Could not read spreadsheet: " + err.Error())
	}
	rows, err := bulkRowsFromTable(table)
	if err != nil {
		return nil, validationError(err.Error())
	}

	gw, svcErr := s.gateway(auth)
	if svcErr != nil {
		return nil, svcErr
	}
	vat, svcErr := s.settings.VatTable(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	views, err := providers.NewStoreResolver(gw).StoreViews(ctx)
	if err != nil {
		return nil, s.remoteFailure(ctx, "store_views", err)
	}

	onWrite := func(ctx context.Context, _ models.BulkRow, storeCode string, update models.PriceUpdate) {
		s.recorder.record(ctx, priceChange(models.PriceChangeImport, storeCode, jobID, update))
	}
	result := ImportRows(ctx, rows, providers.StoreCodeIndex(views), vat, gw, onWrite)

	s.logger.Info("Prices imported",
		zap.String("job_id", jobID),
		zap.Int("rows", len(rows)),
		zap.Int("updated", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
	)
	s.recorder.count(ctx, awspkg.MetricImportRowsSucceeded, result.SuccessCount)
	s.recorder.count(ctx, awspkg.MetricImportRowsFailed, result.ErrorCount)
	s.recorder.count(ctx, awspkg.MetricPricesUpdated, result.SuccessCount)
	s.recorder.publish(ctx, models.PriceEvent{
		EventType:    models.EventPricesImported,
		JobID:        jobID,
		UpdatedCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
	})
	return &result, nil
}

func (s *bulkServiceImpl) asyncUnavailable() *ServiceError {
	return &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Async import is not configured"}
}

// EnqueueImport stages the file and queues a job for the import worker.
// The credentials travel with the job and are removed once it finishes.
func (s *bulkServiceImpl) EnqueueImport(ctx context.Context, auth models.MagentoAuth, data []byte) (string, *ServiceError) {
	if s.files == nil || s.jobs == nil {
		return "", s.asyncUnavailable()
	}
	if _, svcErr := s.gateway(auth); svcErr != nil {
		return "", svcErr
	}
	if _, err := spreadsheet.Decode(bytes.NewReader(data)); err != nil {
		return "", validationError("Could not read spreadsheet: " + err.Error())
	}

	now := s.now().UTC()
	job := &models.ImportJob{
		ID:        uuid.NewString(),
		Status:    models.ImportJobPending,
		Auth:      &auth,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.FileKey = fmt.Sprintf("imports/%s.xlsx", job.ID)

	if err := s.files.Put(ctx, job.FileKey, data); err != nil {
		s.logger.Error("Failed to stage import file", zap.String("job_id", job.ID), zap.Error(err))
		return "", internalError("Failed to store import file")
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		_ = s.files.Delete(ctx, job.FileKey)
		s.logger.Error("Failed to store import job", zap.String("job_id", job.ID), zap.Error(err))
		return "", internalError("Failed to create import job")
	}
	if err := s.jobs.Enqueue(ctx, job.ID); err != nil {
		_ = s.files.Delete(ctx, job.FileKey)
		s.logger.Error("Failed to enqueue import job", zap.String("job_id", job.ID), zap.Error(err))
		return "", internalError("Failed to queue import job")
	}

	s.recorder.count(ctx, awspkg.MetricImportJobsQueued, 1)
	s.logger.Info("Import job queued", zap.String("job_id", job.ID))
	return job.ID, nil
}

// ImportJob returns the job without its credentials.
func (s *bulkServiceImpl) ImportJob(ctx context.Context, id string) (*models.ImportJob, *ServiceError) {
	if s.jobs == nil {
		return nil, s.asyncUnavailable()
	}
	job, err := s.jobs.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Import job not found"}
	}
	if err != nil {
		s.logger.Error("Failed to read import job", zap.String("job_id", id), zap.Error(err))
		return nil, internalError("Failed to read import job")
	}
	job.Auth = nil
	return job, nil
}

// ProcessImportJob runs one queued job to completion. The returned error is
// only for infrastructure failures; import failures are stored on the job.
func (s *bulkServiceImpl) ProcessImportJob(ctx context.Context, id string) error {
	if s.files == nil || s.jobs == nil {
		return errors.New("async import is not configured")
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load job %s: %w", id, err)
	}

	job.Status = models.ImportJobProcessing
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("mark job %s processing: %w", id, err)
	}

	s.runJob(ctx, job)
	job.Auth = nil

	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("store job %s result: %w", id, err)
	}
	if err := s.files.Delete(ctx, job.FileKey); err != nil {
		s.logger.Warn("Failed to remove import file", zap.String("job_id", id), zap.Error(err))
	}
	return nil
}

func (s *bulkServiceImpl) runJob(ctx context.Context, job *models.ImportJob) {
	fail := func(msg string) {
		job.Status = models.ImportJobFailed
		job.Error = msg
		s.logger.Warn("Import job failed", zap.String("job_id", job.ID), zap.String("error", msg))
	}

	if job.Auth == nil {
		fail("job has no credentials")
		return
	}
	data, err := s.files.Get(ctx, job.FileKey)
	if err != nil {
		fail("could not read import file: " + err.Error())
		return
	}
	result, svcErr := s.importRows(ctx, *job.Auth, data, job.ID)
	if svcErr != nil {
		fail(svcErr.Message)
		return
	}
	job.Status = models.ImportJobDone
	job.Result = result
}
