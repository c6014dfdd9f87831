package minio

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bernoulli/blobstore"
)

func TestKeys(t *testing.T) {
	for prefix, want := range map[string]string{
		"":         "a.bfs",
		"/":        "a.bfs",
		"filters":  "filters/a.bfs",
		"filters/": "filters/a.bfs",
		"/x/y/":    "x/y/a.bfs",
	} {
		s := NewStore(nil, "bucket", prefix)
		assert.Equal(t, want, s.key("a.bfs"), prefix)
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

// TestStoreIntegration requires a running MinIO instance.
// Skip if not available.
func TestStoreIntegration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	probe, probeCancel := context.WithTimeout(ctx, 2*time.Second)
	_, err = client.ListBuckets(probe)
	probeCancel()
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	const bucket = "test-bernoulli"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	_, err = store.Open(ctx, "missing.bfs")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.bfs", data))

	blob, err := store.Open(ctx, "test.bfs")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(buf[:n]))

	n, err = blob.ReadAt(ctx, make([]byte, 10), 12)
	assert.Equal(t, 5, n)
	assert.ErrorIs(t, err, io.EOF)

	all, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.bfs")

	require.NoError(t, store.Delete(ctx, "test.bfs"))
	require.NoError(t, store.Delete(ctx, "test.bfs"))
	_, err = store.Open(ctx, "test.bfs")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
