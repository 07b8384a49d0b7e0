package services_test

import (
	"context"
	"errors"
	"net/http"
	"price-manager-service/models"
	"price-manager-service/providers"
	"price-manager-service/repository"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ---- fake Magento catalog ----

type fakeCatalog struct {
	views    []models.StoreView
	products map[string][]providers.ProductItem
	// errs fails calls by "METHOD endpoint".
	errs     map[string]error
	requests []providers.Request
}

func (f *fakeCatalog) BaseURL() string { return "https://shop.example" }

func (f *fakeCatalog) Call(_ context.Context, req providers.Request, out interface{}) error {
	f.requests = append(f.requests, req)
	if err, ok := f.errs[req.Method+" "+req.Endpoint]; ok {
		return err
	}

	switch {
	case req.Endpoint == "/store/storeViews":
		*(out.(*[]models.StoreView)) = f.views
	case req.Method == http.MethodGet && req.Endpoint == "/products":
		page, _ := strconv.Atoi(req.Query.Get("searchCriteria[currentPage]"))
		size, _ := strconv.Atoi(req.Query.Get("searchCriteria[pageSize]"))
		items := f.products[req.StoreCode]
		start, end := (page-1)*size, page*size
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}
		res := out.(*providers.ProductSearchResult)
		res.Items = items[start:end]
		res.TotalCount = len(items)
	}
	return nil
}

// writes returns the PUT /products/{sku} calls in order.
func (f *fakeCatalog) writes() []providers.Request {
	var out []providers.Request
	for _, r := range f.requests {
		if r.Method == http.MethodPut && strings.HasPrefix(r.Endpoint, "/products/") {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeCatalog) count(method, endpoint string) int {
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Endpoint == endpoint {
			n++
		}
	}
	return n
}

type fakeFactory struct {
	gw  providers.CatalogGateway
	err error
}

func (f fakeFactory) NewGateway(_ models.MagentoAuth) (providers.CatalogGateway, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gw, nil
}

// ---- mock repositories ----

type mockJournal struct {
	created []models.PriceChange
	err     error
	listed  models.PriceChangeFilter
}

func (m *mockJournal) Create(_ context.Context, c *models.PriceChange) error {
	m.created = append(m.created, *c)
	return m.err
}

func (m *mockJournal) List(_ context.Context, f models.PriceChangeFilter) ([]models.PriceChange, int64, error) {
	m.listed = f
	return m.created, int64(len(m.created)), m.err
}

type mockConfigRepo struct {
	cfg     *models.SavedConfig
	rates   []models.VatRate
	saveErr error
	loadErr error
}

func (m *mockConfigRepo) SaveConfig(_ context.Context, cfg *models.SavedConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cfg = cfg
	return nil
}

func (m *mockConfigRepo) LoadConfig(_ context.Context) (*models.SavedConfig, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cfg == nil {
		return nil, repository.ErrNotFound
	}
	return m.cfg, nil
}

func (m *mockConfigRepo) SaveVatRates(_ context.Context, rates []models.VatRate) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rates = rates
	return nil
}

func (m *mockConfigRepo) LoadVatRates(_ context.Context) ([]models.VatRate, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.rates == nil {
		return []models.VatRate{}, nil
	}
	return m.rates, nil
}

type memoryJobs struct {
	mu    sync.Mutex
	jobs  map[string]models.ImportJob
	queue []string
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{jobs: map[string]models.ImportJob{}}
}

func (m *memoryJobs) Save(_ context.Context, job *models.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *job
	if job.Auth != nil {
		auth := *job.Auth
		copied.Auth = &auth
	}
	m.jobs[job.ID] = copied
	return nil
}

func (m *memoryJobs) Get(_ context.Context, id string) (*models.ImportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &job, nil
}

func (m *memoryJobs) Enqueue(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, id)
	return nil
}

func (m *memoryJobs) Dequeue(ctx context.Context, wait time.Duration) (string, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		id := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return id, nil
	}
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return "", repository.ErrQueueEmpty
	}
}

// ---- mock publisher and metrics ----

type mockPublisher struct {
	events []models.PriceEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e models.PriceEvent) error {
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

type mockMetrics struct {
	counts map[string]int
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, n int, _ map[string]string) error {
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name] += n
	return nil
}

var errBoom = errors.New("boom")
