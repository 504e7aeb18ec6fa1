package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "INV", cfg.Inventory.ReferencePrefix)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MemoryStore(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	t.Setenv("INVENTORY_NODE_ID", "7")
	t.Setenv("INVENTORY_REFERENCE_PREFIX", "CNT")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Inventory.UsesMemoryStore())
	assert.Equal(t, int64(7), cfg.Inventory.NodeID)
	assert.Equal(t, "CNT", cfg.Inventory.ReferencePrefix)
}

func TestLoad_InvalidStore(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "redis")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_NodeIDOutOfRange(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	t.Setenv("INVENTORY_NODE_ID", "4096")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inventory", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inventory?sslmode=disable", c.DSN())
}

func TestLoad_DBPool(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "postgres")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_MIN_CONNS", "3")
	t.Setenv("DB_FORCE_IPV4", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, int32(3), cfg.DB.MinConns)
	assert.True(t, cfg.DB.ForceIPv4)
}
