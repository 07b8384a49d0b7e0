package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"price-manager-service/models"
	"price-manager-service/services"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	exportFileName   = "magento_prices_export.xlsx"
	templateFileName = "magento_prices_template.xlsx"
)

type importQuery struct {
	models.MagentoAuth
	Async bool `form:"async"`
}

// BulkController serves spreadsheet export, template download and import.
type BulkController struct {
	bulkService services.BulkService
}

func NewBulkController(bulkService services.BulkService) *BulkController {
	return &BulkController{bulkService: bulkService}
}

// ExportPrices handles POST /export-prices.
func (bc *BulkController) ExportPrices(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	data, svcErr := bc.bulkService.Export(ctx.Request.Context(), req.MagentoAuth)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	sendSpreadsheet(ctx, exportFileName, data)
}

// DownloadTemplate handles GET /download-template.
func (bc *BulkController) DownloadTemplate(ctx *gin.Context) {
	data, svcErr := bc.bulkService.Template()
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	sendSpreadsheet(ctx, templateFileName, data)
}

// ImportPrices handles POST /import-prices with a multipart "file" and the
// auth block as query parameters. async=true queues the import.
func (bc *BulkController) ImportPrices(ctx *gin.Context) {
	var query importQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, err)
		return
	}

	data, err := readUpload(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query.Async {
		jobID, svcErr := bc.bulkService.EnqueueImport(ctx.Request.Context(), query.MagentoAuth, data)
		if svcErr != nil {
			respondError(ctx, svcErr)
			return
		}
		ctx.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "message": "Import queued"})
		return
	}

	result, svcErr := bc.bulkService.Import(ctx.Request.Context(), query.MagentoAuth, data)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Import completed: %d updated, %d errors", result.SuccessCount, result.ErrorCount),
		"updated_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
		"errors":        result.Errors,
	})
}

// ImportJob handles GET /import-jobs/:id.
func (bc *BulkController) ImportJob(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Job id is required"})
		return
	}

	job, svcErr := bc.bulkService.ImportJob(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, job)
}

func readUpload(ctx *gin.Context) ([]byte, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}
	if file.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds %dMB limit", MaxUploadSize/(1024*1024))
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".xlsx" {
		return nil, fmt.Errorf("only .xlsx files are allowed")
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
}
