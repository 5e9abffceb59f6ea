package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashhome/dashhome/config"
)

func TestInterfaces(t *testing.T) {
	var _ Store = (*FileStore)(nil)
	var _ Store = (*RedisStore)(nil)
	var _ Store = (*MockStore)(nil)
}

func testStore(t *testing.T, store Store) {
	_, err := store.Get("dashboard.yaml")
	assert.True(t, IsMissing(err))
	ok, err := store.Exists("dashboard.yaml")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("dashboard.yaml", "version: 1\n"))
	value, err := store.Get("dashboard.yaml")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", value)
	ok, err = store.Exists("dashboard.yaml")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Set("dashboard.yaml", "version: 2\n"))
	value, _ = store.Get("dashboard.yaml")
	assert.Equal(t, "version: 2\n", value)
}

func TestMockStore(t *testing.T) {
	testStore(t, NewMockStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir() + "/data")
	require.NoError(t, err)
	testStore(t, store)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return mr, store
}

func TestRedisStore(t *testing.T) {
	mr, store := newRedis(t)
	testStore(t, store)
	value, err := mr.Get("dashhome:dashboard.yaml")
	require.NoError(t, err)
	assert.Equal(t, "version: 2\n", value)
}

func TestRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore("127.0.0.1:1", 0)
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	settings := &config.Settings{DataDir: t.TempDir()}
	settings.Storage.Driver = "file"
	store, err := NewStore(settings)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	mr := miniredis.RunT(t)
	settings.Storage.Driver = "redis"
	settings.Storage.RedisAddr = mr.Addr()
	store, err = NewStore(settings)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	store.(*RedisStore).Close()

	settings.Storage.Driver = "etcd"
	_, err = NewStore(settings)
	assert.Error(t, err)
}
