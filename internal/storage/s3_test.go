package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockS3Client(t *testing.T) {
	baseURL := "https://test-cdn.example.com"
	mock := NewMockS3Client(baseURL)
	ctx := context.Background()

	t.Run("Put", func(t *testing.T) {
		key := "snapshots/test.json"
		data := []byte(`[{"id":1}]`)

		url, err := mock.Put(ctx, key, data, "application/json")
		require.NoError(t, err)
		assert.Equal(t, baseURL+"/"+key, url)

		stored, err := mock.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, data, stored)
		assert.Equal(t, "application/json", mock.ContentType(key))

		puts, _ := mock.GetCallCounts()
		assert.Equal(t, 1, puts)
	})

	t.Run("Delete", func(t *testing.T) {
		key := "snapshots/delete-me.json"
		_, err := mock.Put(ctx, key, []byte("{}"), "application/json")
		require.NoError(t, err)
		assert.True(t, mock.HasObject(key))

		require.NoError(t, mock.Delete(ctx, key))
		assert.False(t, mock.HasObject(key))

		_, deletes := mock.GetCallCounts()
		assert.Equal(t, 1, deletes)

		// Deleting a missing object fails
		assert.Error(t, mock.Delete(ctx, "non-existent.json"))

		_, err = mock.Get(ctx, key)
		assert.Error(t, err)
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		key := "snapshots/error.json"
		errorMsg := "forced error for testing"

		mock.SetError(true, errorMsg)

		_, err := mock.Put(ctx, key, []byte("{}"), "application/json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), errorMsg)
		assert.False(t, mock.HasObject(key))

		err = mock.Delete(ctx, "any-key.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), errorMsg)

		mock.SetError(false, "")

		_, err = mock.Put(ctx, key, []byte("{}"), "application/json")
		assert.NoError(t, err)
	})

	t.Run("Reset", func(t *testing.T) {
		mock.Reset()
		for i := 0; i < 3; i++ {
			key := "snapshots/reset-" + string(rune('A'+i)) + ".json"
			_, err := mock.Put(ctx, key, []byte("{}"), "application/json")
			require.NoError(t, err)
		}
		assert.Equal(t, 3, mock.ObjectCount())
		assert.Len(t, mock.Keys(), 3)

		mock.Reset()
		assert.Equal(t, 0, mock.ObjectCount())

		puts, deletes := mock.GetCallCounts()
		assert.Equal(t, 0, puts)
		assert.Equal(t, 0, deletes)
	})
}

func TestGenerateSnapshotKey(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-0a1b2c3d4e5f")
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	key := GenerateSnapshotKey(at, id)
	assert.Equal(t, "snapshots/2024/03/09/140507-6f1c2d3e-4a5b-4c6d-8e7f-0a1b2c3d4e5f.json", key)

	// Non-UTC times are normalised
	warsaw := time.FixedZone("CET", 3600)
	assert.Equal(t, key, GenerateSnapshotKey(at.In(warsaw), id))
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name     string
		cdn      string
		expected string
	}{
		{"S3", "", "https://plans.s3.eu-west-1.amazonaws.com/snapshots/a.json"},
		{"CDN", "https://cdn.example.com", "https://cdn.example.com/snapshots/a.json"},
		{"CDNTrailingSlash", "https://cdn.example.com/", "https://cdn.example.com/snapshots/a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, objectURL(tt.cdn, "plans", "eu-west-1", "snapshots/a.json"))
		})
	}
}
