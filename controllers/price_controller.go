package controllers

import (
	"net/http"
	"price-manager-service/models"
	"price-manager-service/services"

	"github.com/gin-gonic/gin"
)

// PriceController handles the catalog read and single price write endpoints.
type PriceController struct {
	priceService services.PriceService
}

func NewPriceController(priceService services.PriceService) *PriceController {
	return &PriceController{priceService: priceService}
}

// TestConnection handles POST /test-connection.
func (pc *PriceController) TestConnection(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	count, svcErr := pc.priceService.TestConnection(ctx.Request.Context(), req.MagentoAuth)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Connection successful", "stores_count": count})
}

// StoreViews handles POST /store-views.
func (pc *PriceController) StoreViews(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	views, svcErr := pc.priceService.StoreViews(ctx.Request.Context(), req.MagentoAuth)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, views)
}

// Products handles POST /products?store_id&page&page_size&search.
func (pc *PriceController) Products(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	var query models.ProductQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, err)
		return
	}

	page, svcErr := pc.priceService.Products(ctx.Request.Context(), req.MagentoAuth, query)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// UpdatePrice handles POST /update-price.
func (pc *PriceController) UpdatePrice(ctx *gin.Context) {
	var req priceUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if svcErr := pc.priceService.UpdatePrice(ctx.Request.Context(), req.MagentoAuth, req.PriceUpdate); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Price updated"})
}

// UpdateSpecialPrice handles POST /update-special-price.
func (pc *PriceController) UpdateSpecialPrice(ctx *gin.Context) {
	var req priceUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if svcErr := pc.priceService.UpdateSpecialPrice(ctx.Request.Context(), req.MagentoAuth, req.PriceUpdate); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Special price updated"})
}

// DeleteSpecialPrice handles DELETE /delete-special-price?sku&store_id with the auth block as body.
func (pc *PriceController) DeleteSpecialPrice(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	var query specialPriceDeleteQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, err)
		return
	}

	if svcErr := pc.priceService.DeleteSpecialPrice(ctx.Request.Context(), req.MagentoAuth, query.SKU, query.StoreID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Special price removed"})
}

// PriceChanges handles GET /price-changes.
func (pc *PriceController) PriceChanges(ctx *gin.Context) {
	var filter models.PriceChangeFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		badRequest(ctx, err)
		return
	}

	page, svcErr := pc.priceService.PriceChanges(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, page)
}
