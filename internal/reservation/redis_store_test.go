package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisClient is a mock implementation of RedisClient
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Helper function to create a StringCmd with a result
func createStringCmd(result string, err error) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

// Helper function to create a StatusCmd
func createStatusCmd(err error) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

func TestRedisStoreGetMissingKeyReturnsEmptyTable(t *testing.T) {
	client := &MockRedisClient{}
	client.On("Get", mock.Anything, reservationsKey).Return(createStringCmd("", redis.Nil))

	store := NewRedisStore(client, discardLogger())
	table, err := store.Get(context.Background())

	require.NoError(t, err)
	assert.Empty(t, table.DNS)
	assert.Empty(t, table.IP)
	assert.Empty(t, table.OID)
	client.AssertExpectations(t)
}

func TestRedisStoreGetRoundTrip(t *testing.T) {
	doc, err := json.Marshal(Table{
		DNS: map[string]string{"api.example.com": "tenant-1"},
	})
	require.NoError(t, err)

	client := &MockRedisClient{}
	client.On("Get", mock.Anything, reservationsKey).Return(createStringCmd(string(doc), nil))

	store := NewRedisStore(client, discardLogger())
	table, err := store.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tenant-1", table.DNS["api.example.com"])
	assert.NotNil(t, table.IP)
	assert.NotNil(t, table.OID)
}

func TestRedisStoreGetErrorIsUnavailable(t *testing.T) {
	client := &MockRedisClient{}
	client.On("Get", mock.Anything, reservationsKey).Return(createStringCmd("", errors.New("connection refused")))

	store := NewRedisStore(client, discardLogger())
	_, err := store.Get(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRedisStoreGetCorruptDocumentIsUnavailable(t *testing.T) {
	client := &MockRedisClient{}
	client.On("Get", mock.Anything, reservationsKey).Return(createStringCmd("{not json", nil))

	store := NewRedisStore(client, discardLogger())
	_, err := store.Get(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRedisStorePut(t *testing.T) {
	table := NewTable()
	table.DNS["api.example.com"] = "tenant-1"
	doc, err := json.Marshal(table)
	require.NoError(t, err)

	client := &MockRedisClient{}
	client.On("Set", mock.Anything, reservationsKey, doc, time.Duration(0)).Return(createStatusCmd(nil))

	store := NewRedisStore(client, discardLogger())
	require.NoError(t, store.Put(context.Background(), table))
	client.AssertExpectations(t)
}

func TestRedisStorePutErrorIsUnavailable(t *testing.T) {
	client := &MockRedisClient{}
	client.On("Set", mock.Anything, reservationsKey, mock.Anything, mock.Anything).Return(createStatusCmd(errors.New("connection refused")))

	store := NewRedisStore(client, discardLogger())
	err := store.Put(context.Background(), NewTable())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
