//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/infrastructure/cache"
)

func TestLicenseCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := cache.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewLicenseCache(client, time.Minute)

	got, gen, err := c.Get(ctx, "c1", 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, gen)

	require.NoError(t, c.Set(ctx, "c1", 7, gen, &dto.LicenseResponse{ID: 7, LicenseNumber: "FIR-26-0002", Status: "ACTIVE"}))

	got, _, err = c.Get(ctx, "c1", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "FIR-26-0002", got.LicenseNumber)

	// Aislamiento por empresa.
	got, _, err = c.Get(ctx, "c2", 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	ttl, err := client.TTL(ctx, "hse:license:c1:7").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx, "c1", 7))
	got, gen, err = c.Get(ctx, "c1", 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)
}

func TestLicenseCache_SetConGeneracionViejaNoEscribe(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := cache.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewLicenseCache(client, time.Minute)

	// Lectura antes del commit, invalidación del escritor y Set rezagado con el estado viejo.
	_, gen, err := c.Get(ctx, "c1", 9)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "c1", 9))
	require.NoError(t, c.Set(ctx, "c1", 9, gen, &dto.LicenseResponse{ID: 9, Status: "ACTIVE"}))

	got, gen, err := c.Get(ctx, "c1", 9)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "c1", 9, gen, &dto.LicenseResponse{ID: 9, Status: "SUSPENDED"}))
	got, _, err = c.Get(ctx, "c1", 9)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SUSPENDED", got.Status)
}

func TestNewClient_URLVaciaDeshabilita(t *testing.T) {
	client, err := cache.NewClient(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)
}
