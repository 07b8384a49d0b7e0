package repository

import (
	"context"
	"errors"
	"price-manager-service/models"
)

var ErrNotFound = errors.New("record not found")

// Document ids shared by the config store backends.
const (
	configDocumentID   = "default"
	vatRatesDocumentID = "vat_rates"
)

// ConfigRepository persists the saved Magento connection and the VAT table.
// Writes replace the stored value; the last writer wins.
type ConfigRepository interface {
	SaveConfig(ctx context.Context, cfg *models.SavedConfig) error
	// LoadConfig returns ErrNotFound when nothing was saved yet.
	LoadConfig(ctx context.Context) (*models.SavedConfig, error)
	SaveVatRates(ctx context.Context, rates []models.VatRate) error
	// LoadVatRates returns an empty slice when no table was saved.
	LoadVatRates(ctx context.Context) ([]models.VatRate, error)
}
