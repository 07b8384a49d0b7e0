package routes_test

import (
	"net/http"
	"net/http/httptest"
	"price-manager-service/controllers"
	"price-manager-service/routes"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Handlers reject the empty bodies below before touching their services.
func setupRouter(secret string) *gin.Engine {
	r := gin.New()
	routes.RegisterRoutes(r, routes.Controllers{
		Price:    controllers.NewPriceController(nil),
		Settings: controllers.NewSettingsController(nil),
		Bulk:     controllers.NewBulkController(nil),
	}, routes.Options{
		OperatorSecret: secret,
		RequestTimeout: 30 * time.Second,
		BulkTimeout:    5 * time.Minute,
	})
	return r
}

func call(r *gin.Engine, method, path string) int {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoot_IsPublic(t *testing.T) {
	r := setupRouter("s3cret")
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/"))
}

func TestOperatorAuth_GuardsAPI(t *testing.T) {
	r := setupRouter("s3cret")
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/test-connection"))
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/import-prices"))
}

func TestRoutes_MountedWithoutAuth(t *testing.T) {
	r := setupRouter("")
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/test-connection"},
		{http.MethodPost, "/api/store-views"},
		{http.MethodPost, "/api/products"},
		{http.MethodPost, "/api/update-price"},
		{http.MethodPost, "/api/update-special-price"},
		{http.MethodDelete, "/api/delete-special-price"},
		{http.MethodPost, "/api/save-config"},
		{http.MethodPost, "/api/vat-rates"},
		{http.MethodPost, "/api/export-prices"},
		{http.MethodPost, "/api/import-prices"},
	} {
		assert.Equal(t, http.StatusBadRequest, call(r, tc.method, tc.path), tc.path)
	}
}
