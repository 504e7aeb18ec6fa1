package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-reconciliation/pkg/config"
)

func TestPoolConfig_Tamanos(t *testing.T) {
	cfg, err := postgres.PoolConfig(config.DBConfig{DatabaseURL: "postgres://app:secret@db:5432/inventory?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, "db", cfg.ConnConfig.Host)
	assert.NotNil(t, cfg.AfterConnect)

	cfg, err = postgres.PoolConfig(config.DBConfig{
		Host: "localhost", Port: 5433, User: "app", DBName: "inventory", SSLMode: "disable",
		MaxConns: 4, MinConns: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, int32(4), cfg.MinConns, "MinConns nunca supera MaxConns")
	assert.Equal(t, uint16(5433), cfg.ConnConfig.Port)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := postgres.PoolConfig(config.DBConfig{DatabaseURL: "postgres://app@db:notaport/inventory"})
	assert.Error(t, err)
}
