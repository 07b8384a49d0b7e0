package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "mongo", cfg.ConfigStore)
	assert.Equal(t, "none", cfg.EventsBackend)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.BulkRequestTimeout)
	assert.False(t, cfg.JournalEnabled())
}

func TestLoadConfig_ParsesLists(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("EVENTS_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("BULK_REQUEST_TIMEOUT", "2m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, cfg.BulkRequestTimeout)
}

func TestLoadConfig_IncompleteStores(t *testing.T) {
	cases := map[string]map[string]string{
		"mongo without url":   {"CONFIG_STORE": "mongo"},
		"unknown store":       {"CONFIG_STORE": "etcd", "MONGO_URL": "x"},
		"sns without topic":   {"MONGO_URL": "x", "EVENTS_BACKEND": "sns"},
		"kafka without peers": {"MONGO_URL": "x", "EVENTS_BACKEND": "kafka"},
		"s3 without bucket":   {"MONGO_URL": "x", "STORAGE_BACKEND": "s3"},
		"journal without db":  {"MONGO_URL": "x", "POSTGRES_USER": "pm"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_DynamoStore(t *testing.T) {
	t.Setenv("CONFIG_STORE", "dynamodb")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "MagentoConfig", cfg.DynamoDBConfigTable)
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := f[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func (f fakeSecrets) GetSecretJSON(ctx context.Context, name string, out interface{}) error {
	raw, err := f.GetSecret(ctx, name)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{MongoURL: "mongodb://env"}
	cfg.Postgres.Port = "5432"

	applySecrets(context.Background(), cfg, fakeSecrets{
		secretOperatorSecret: "jwt-from-sm",
		secretDBCredentials:  `{"POSTGRES_USER":"pm","POSTGRES_PASSWORD":"pw","POSTGRES_DB":"prices","POSTGRES_HOST":"db"}`,
	})

	assert.Equal(t, "mongodb://env", cfg.MongoURL)
	assert.Equal(t, "jwt-from-sm", cfg.OperatorJWTSecret)
	assert.Equal(t, "pm", cfg.Postgres.User)
	assert.Equal(t, "prices", cfg.Postgres.DBName)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.True(t, cfg.JournalEnabled())
}
