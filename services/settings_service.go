package services

import (
	"context"
	"errors"
	"fmt"
	"price-manager-service/models"
	"price-manager-service/repository"
	"sort"
	"time"

	"go.uber.org/zap"
)

// SettingsService manages the saved Magento connection and the VAT table.
type SettingsService interface {
	SaveConfig(ctx context.Context, cfg models.MagentoAuth) *ServiceError
	// LoadConfig returns nil without error when nothing was saved yet.
	LoadConfig(ctx context.Context) (*models.SavedConfig, *ServiceError)
	VatRates(ctx context.Context) ([]models.VatRate, *ServiceError)
	ReplaceVatRates(ctx context.Context, rates []models.VatRate) *ServiceError
	// VatTable is the lookup used by export and import.
	VatTable(ctx context.Context) (VatTable, *ServiceError)
}

type settingsServiceImpl struct {
	repo   repository.ConfigRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.ConfigRepository, logger *zap.Logger) SettingsService {
	return &settingsServiceImpl{repo: repo, logger: logger}
}

func (s *settingsServiceImpl) SaveConfig(ctx context.Context, cfg models.MagentoAuth) *ServiceError {
	saved := &models.SavedConfig{MagentoAuth: cfg, UpdatedAt: time.Now().UTC().Format(time.RFC3339)}
	if err := s.repo.SaveConfig(ctx, saved); err != nil {
		s.logger.Error("Failed to save config", zap.Error(err))
		return internalError("Failed to save configuration")
	}
	s.logger.Info("Configuration saved", zap.String("magento_url", cfg.BaseURL()))
	return nil
}

func (s *settingsServiceImpl) LoadConfig(ctx context.Context) (*models.SavedConfig, *ServiceError) {
	cfg, err := s.repo.LoadConfig(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load config", zap.Error(err))
		return nil, internalError("Failed to load configuration")
	}
	return cfg, nil
}

func (s *settingsServiceImpl) VatRates(ctx context.Context) ([]models.VatRate, *ServiceError) {
	rates, err := s.repo.LoadVatRates(ctx)
	if err != nil {
		s.logger.Error("Failed to load VAT rates", zap.Error(err))
		return nil, internalError("Failed to load VAT rates")
	}
	return rates, nil
}

// ReplaceVatRates overwrites the whole table, sorted by store id.
func (s *settingsServiceImpl) ReplaceVatRates(ctx context.Context, rates []models.VatRate) *ServiceError {
	seen := make(map[int]bool, len(rates))
	for _, r := range rates {
		if r.VatRatePercent.IsNegative() {
			return validationError(fmt.Sprintf("vat_rate for store %d must not be negative", r.StoreID))
		}
		if seen[r.StoreID] {
			return validationError(fmt.Sprintf("duplicate store_id %d", r.StoreID))
		}
		seen[r.StoreID] = true
	}

	sorted := append([]models.VatRate(nil), rates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StoreID < sorted[j].StoreID })

	if err := s.repo.SaveVatRates(ctx, sorted); err != nil {
		s.logger.Error("Failed to save VAT rates", zap.Error(err))
		return internalError("Failed to save VAT rates")
	}
	s.logger.Info("VAT rates saved", zap.Int("count", len(sorted)))
	return nil
}

func (s *settingsServiceImpl) VatTable(ctx context.Context) (VatTable, *ServiceError) {
	rates, svcErr := s.VatRates(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	table := make(VatTable, len(rates))
	for _, r := range rates {
		table[r.StoreID] = r.VatRatePercent
	}
	return table, nil
}
