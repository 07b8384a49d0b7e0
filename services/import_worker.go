package services

import (
	"context"
	"errors"
	"price-manager-service/repository"
	"time"

	"go.uber.org/zap"
)

// ImportJobProcessor runs one queued import job.
type ImportJobProcessor interface {
	ProcessImportJob(ctx context.Context, id string) error
}

const (
	importQueueWait  = 5 * time.Second
	importRetryPause = 500 * time.Millisecond
)

// RunImportWorker consumes job ids until ctx is cancelled. Jobs run one at a time.
func RunImportWorker(ctx context.Context, jobs repository.ImportJobRepository, processor ImportJobProcessor, logger *zap.Logger) {
	logger.Info("import worker started", zap.String("queue", repository.ImportQueueKey))
	for {
		if ctx.Err() != nil {
			logger.Info("import worker stopping")
			return
		}

		id, err := jobs.Dequeue(ctx, importQueueWait)
		if errors.Is(err, repository.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("import worker stopping")
				return
			}
			logger.Error("import queue read failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(importRetryPause):
			}
			continue
		}

		logger.Info("processing import job", zap.String("job_id", id))
		if err := processor.ProcessImportJob(ctx, id); err != nil {
			logger.Error("import job processing failed", zap.String("job_id", id), zap.Error(err))
		}
	}
}
