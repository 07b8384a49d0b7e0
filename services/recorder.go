package services

import (
	"context"
	"price-manager-service/events"
	"price-manager-service/models"
	"price-manager-service/repository"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MetricsRecorder is the part of the CloudWatch client the services use.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, n int, dimensions map[string]string) error
}

// changeRecorder fans a successful price write out to the journal, the event
// publisher and the metrics client. Failures there are logged and never fail
// the write, which already happened on Magento.
type changeRecorder struct {
	journal   repository.PriceChangeRepository
	publisher events.Publisher
	metrics   MetricsRecorder
	logger    *zap.Logger
}

func (r *changeRecorder) record(ctx context.Context, change models.PriceChange) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Create(ctx, &change); err != nil {
		r.logger.Warn("failed to journal price change",
			zap.String("sku", change.SKU),
			zap.String("source", change.Source),
			zap.Error(err),
		)
	}
}

func (r *changeRecorder) publish(ctx context.Context, event models.PriceEvent) {
	if r.publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish price event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}

func (r *changeRecorder) count(ctx context.Context, metric string, n int) {
	if r.metrics == nil || n == 0 {
		return
	}
	if err := r.metrics.RecordCount(ctx, metric, n, nil); err != nil {
		r.logger.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

// priceChange builds a journal entry from a written update.
func priceChange(source, storeCode, jobID string, update models.PriceUpdate) models.PriceChange {
	return models.PriceChange{
		Source:       source,
		SKU:          update.SKU,
		StoreID:      update.StoreID,
		StoreCode:    storeCode,
		BasePrice:    nullDecimal(update.BasePrice),
		SpecialPrice: nullDecimal(update.SpecialPrice),
		SpecialFrom:  update.SpecialPriceFrom,
		SpecialTo:    update.SpecialPriceTo,
		JobID:        jobID,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
