package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()

	s, err := NewLocalStorage(Config{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:4000/files",
	})
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.Save(ctx, "paintings/abc/test.jpg", strings.NewReader("image-data"), "image/jpeg")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "paintings/abc/test.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := s.Get(ctx, "paintings/abc/test.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "image-data", string(data))

	require.NoError(t, s.Delete(ctx, "paintings/abc/test.jpg"))

	exists, err = s.Exists(ctx, "paintings/abc/test.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	s := newTestStorage(t)
	assert.NoError(t, s.Delete(context.Background(), "no/such/key"))
}

func TestLocalStorage_URLs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	url, err := s.GetURL(ctx, "paintings/x.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/files/paintings/x.png", url)

	// Подписанных ссылок у локального хранилища нет - отдает обычную
	signed, err := s.GetSignedURL(ctx, "paintings/x.png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, url, signed)
}
