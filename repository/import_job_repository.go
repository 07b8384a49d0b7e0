package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"price-manager-service/models"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ImportQueueKey     = "price_import:queue"
	importJobKeyPrefix = "price_import:job:"
	importJobTTL       = 24 * time.Hour
)

// ErrQueueEmpty is returned by Dequeue when nothing arrived within the wait.
var ErrQueueEmpty = errors.New("import queue empty")

// ImportJobRepository stores async import jobs and their work queue.
type ImportJobRepository interface {
	Save(ctx context.Context, job *models.ImportJob) error
	Get(ctx context.Context, id string) (*models.ImportJob, error)
	Enqueue(ctx context.Context, id string) error
	Dequeue(ctx context.Context, wait time.Duration) (string, error)
}

// RedisCommands is the slice of the redis client the job repository uses.
// *redis.Client satisfies it.
type RedisCommands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

type RedisImportJobRepository struct {
	client RedisCommands
}

func NewRedisImportJobRepository(client RedisCommands) *RedisImportJobRepository {
	return &RedisImportJobRepository{client: client}
}

func (r *RedisImportJobRepository) jobKey(id string) string {
	return importJobKeyPrefix + id
}

// Save overwrites the job record and refreshes its TTL.
func (r *RedisImportJobRepository) Save(ctx context.Context, job *models.ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.client.Set(ctx, r.jobKey(job.ID), data, importJobTTL).Err(); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}

func (r *RedisImportJobRepository) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	data, err := r.client.Get(ctx, r.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var job models.ImportJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", id, err)
	}
	return &job, nil
}

func (r *RedisImportJobRepository) Enqueue(ctx context.Context, id string) error {
	if err := r.client.RPush(ctx, ImportQueueKey, id).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (r *RedisImportJobRepository) Dequeue(ctx context.Context, wait time.Duration) (string, error) {
	res, err := r.client.BLPop(ctx, wait, ImportQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrQueueEmpty
	}
	if err != nil {
		return "", err
	}
	if len(res) < 2 {
		return "", ErrQueueEmpty
	}
	return res[1], nil
}
