package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/pkg/config"
)

func TestPoolConfigFor_LimitesPorDefectoYConfigurados(t *testing.T) {
	base := config.DBConfig{Host: "127.0.0.1", Port: 5432, User: "hse", DBName: "hse", SSLMode: "disable"}

	pc, err := poolConfigFor(base)
	require.NoError(t, err)
	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
	assert.Equal(t, int32(defaultMinConns), pc.MinConns)
	assert.Nil(t, pc.ConnConfig.DialFunc)

	base.MaxConns, base.MinConns, base.ForceIPv4 = 8, 4, true
	pc, err = poolConfigFor(base)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestPoolConfigFor_MinMayorQueMaxSeIgnora(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://hse@127.0.0.1:5432/hse", MaxConns: 3, MinConns: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.Equal(t, int32(defaultMinConns), pc.MinConns)
}

func TestResolveIPv4_Literales(t *testing.T) {
	ip, err := resolveIPv4(context.Background(), "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = resolveIPv4(context.Background(), "::1")
	assert.ErrorIs(t, err, errNoIPv4)
}
