package controllers

import (
	"net/http"
	"price-manager-service/models"
	"price-manager-service/services"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxUploadSize bounds the accepted import spreadsheet.
const MaxUploadSize = 20 * 1024 * 1024

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func init() {
	// Lets numeric tags such as gte=0 apply to decimal.Decimal fields.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	}
}

// authRequest is the auth block sent on its own.
type authRequest struct {
	models.MagentoAuth
}

// priceUpdateRequest carries the auth block and the update side by side.
type priceUpdateRequest struct {
	models.MagentoAuth
	models.PriceUpdate
}

type specialPriceDeleteQuery struct {
	SKU     string `form:"sku"`
	StoreID int    `form:"store_id" binding:"gte=0"`
}

type vatRatesRequest struct {
	VatRates []models.VatRate `json:"vat_rates" binding:"required,dive"`
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

func sendSpreadsheet(ctx *gin.Context, filename string, data []byte) {
	ctx.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
