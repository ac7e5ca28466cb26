package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrilog/backend/config"
)

func TestS3StorePresignGet(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	store, err := NewS3Store(context.Background(), &config.Config{
		S3Bucket:   "diary-exports",
		S3Region:   "eu-west-1",
		S3Endpoint: "http://minio.local:9000",
	})
	require.NoError(t, err)

	link, err := store.PresignGet(context.Background(), "exports/user/2024-01.json", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/diary-exports/exports/user/2024-01.json"), u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
