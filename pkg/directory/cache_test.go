package directory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/models"
)

// countingDirectory counts calls through to the inner directory.
type countingDirectory struct {
	professionals []models.Professional
	listCalls     int
}

func (d *countingDirectory) ListByCategory(_ context.Context, category models.Category) ([]models.Professional, error) {
	d.listCalls++
	var out []models.Professional
	for _, p := range d.professionals {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *countingDirectory) Get(_ context.Context, id uuid.UUID) (*models.Professional, error) {
	for _, p := range d.professionals {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (d *countingDirectory) GetUser(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return &models.User{}, nil
}

func TestNewCachedDirectory_NilClientReturnsInner(t *testing.T) {
	inner := &countingDirectory{}
	dir := NewCachedDirectory(inner, nil, time.Second, zap.NewNop())

	assert.Same(t, Directory(inner), dir)
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedDirectory_ServesListingsFromCache(t *testing.T) {
	client := startRedis(t)

	inner := &countingDirectory{professionals: []models.Professional{
		{ID: uuid.New(), DisplayName: "Asha", Category: models.CategoryCounsellor},
	}}
	dir := NewCachedDirectory(inner, client, 30*time.Second, zap.NewNop())
	ctx := context.Background()

	first, err := dir.ListByCategory(ctx, models.CategoryCounsellor)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := dir.ListByCategory(ctx, models.CategoryCounsellor)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, inner.listCalls, "second read must come from cache")
}

func TestCachedDirectory_ExpiryFallsThrough(t *testing.T) {
	client := startRedis(t)

	inner := &countingDirectory{professionals: []models.Professional{
		{ID: uuid.New(), Category: models.CategoryLegal},
	}}
	dir := NewCachedDirectory(inner, client, 50*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	_, err := dir.ListByCategory(ctx, models.CategoryLegal)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = dir.ListByCategory(ctx, models.CategoryLegal)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls, "expired entry must fall through to the directory")
}

func TestCachedDirectory_GetBypassesCache(t *testing.T) {
	client := startRedis(t)

	professional := models.Professional{ID: uuid.New(), Category: models.CategoryCounsellor}
	inner := &countingDirectory{professionals: []models.Professional{professional}}
	dir := NewCachedDirectory(inner, client, time.Minute, zap.NewNop())

	got, err := dir.Get(context.Background(), professional.ID)
	require.NoError(t, err)
	assert.Equal(t, professional.ID, got.ID)
}
