package controllers

import (
	"net/http"
	"price-manager-service/models"
	"price-manager-service/services"

	"github.com/gin-gonic/gin"
)

// SettingsController persists the saved Magento connection and the VAT table.
type SettingsController struct {
	settingsService services.SettingsService
}

func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// SaveConfig handles POST /save-config.
func (sc *SettingsController) SaveConfig(ctx *gin.Context) {
	var req authRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if svcErr := sc.settingsService.SaveConfig(ctx.Request.Context(), req.MagentoAuth); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Configuration saved"})
}

// LoadConfig handles GET /load-config.
func (sc *SettingsController) LoadConfig(ctx *gin.Context) {
	cfg, svcErr := sc.settingsService.LoadConfig(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	if cfg == nil {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "No saved configuration"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "config": cfg})
}

// VatRates handles GET /vat-rates.
func (sc *SettingsController) VatRates(ctx *gin.Context) {
	rates, svcErr := sc.settingsService.VatRates(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	if rates == nil {
		rates = []models.VatRate{}
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "vat_rates": rates})
}

// ReplaceVatRates handles POST /vat-rates. The body replaces the whole table.
func (sc *SettingsController) ReplaceVatRates(ctx *gin.Context) {
	var req vatRatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if svcErr := sc.settingsService.ReplaceVatRates(ctx.Request.Context(), req.VatRates); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
