package routes

import (
	"net/http"
	"price-manager-service/controllers"
	"price-manager-service/middleware"
	"time"

	"github.com/gin-gonic/gin"
)

// Options configures the /api route tree.
type Options struct {
	// OperatorSecret enables bearer JWT auth on every route but GET /api/.
	OperatorSecret string
	RequestTimeout time.Duration
	// BulkTimeout applies to export, import and template downloads.
	BulkTimeout time.Duration
}

// Controllers groups the handlers mounted under /api.
type Controllers struct {
	Price    *controllers.PriceController
	Settings *controllers.SettingsController
	Bulk     *controllers.BulkController
}

// RegisterRoutes mounts the price manager API under /api.
func RegisterRoutes(r *gin.Engine, c Controllers, opts Options) {
	api := r.Group("/api")
	api.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Magento Price Manager API", "status": "running"})
	})

	protected := api.Group("")
	if opts.OperatorSecret != "" {
		protected.Use(middleware.OperatorAuth(opts.OperatorSecret))
	}

	// Timeouts are per group since a nested deadline can only shorten its parent.
	std := protected.Group("")
	std.Use(middleware.Timeout(opts.RequestTimeout))
	std.POST("/test-connection", c.Price.TestConnection)
	std.POST("/store-views", c.Price.StoreViews)
	std.POST("/products", c.Price.Products)
	std.POST("/update-price", c.Price.UpdatePrice)
	std.POST("/update-special-price", c.Price.UpdateSpecialPrice)
	std.DELETE("/delete-special-price", c.Price.DeleteSpecialPrice)
	std.GET("/price-changes", c.Price.PriceChanges)

	std.POST("/save-config", c.Settings.SaveConfig)
	std.GET("/load-config", c.Settings.LoadConfig)
	std.GET("/vat-rates", c.Settings.VatRates)
	std.POST("/vat-rates", c.Settings.ReplaceVatRates)
	std.PUT("/vat-rates", c.Settings.ReplaceVatRates)

	std.GET("/import-jobs/:id", c.Bulk.ImportJob)

	bulk := protected.Group("")
	bulk.Use(middleware.Timeout(opts.BulkTimeout))
	bulk.POST("/export-prices", c.Bulk.ExportPrices)
	bulk.POST("/import-prices", c.Bulk.ImportPrices)
	bulk.GET("/download-template", c.Bulk.DownloadTemplate)
}
