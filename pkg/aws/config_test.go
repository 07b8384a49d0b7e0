package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), Settings{
		Region:          "eu-south-1",
		Endpoint:        "http://localstack:4566",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-south-1", cfg.Region)
	require.NotNil(t, cfg.BaseEndpoint)
	assert.Equal(t, "http://localstack:4566", *cfg.BaseEndpoint)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
	assert.Equal(t, "test-secret", creds.SecretAccessKey)
}
