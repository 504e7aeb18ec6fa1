package inventory_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
)

func TestSnowflakeReferenceGenerator_FormatoYUnicidad(t *testing.T) {
	gen, err := inventory.NewSnowflakeReferenceGenerator(5, "CNT")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^CNT-20240315-[0-9A-Z]+$`)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		ref := gen.Next(testNow)
		require.Regexp(t, pattern, ref)
		_, dup := seen[ref]
		require.False(t, dup, "referencia repetida: %s", ref)
		seen[ref] = struct{}{}
	}
}

func TestSnowflakeReferenceGenerator_PrefijoPorDefectoYNodoInvalido(t *testing.T) {
	gen, err := inventory.NewSnowflakeReferenceGenerator(0, "")
	require.NoError(t, err)
	assert.Regexp(t, `^INV-`, gen.Next(testNow))

	_, err = inventory.NewSnowflakeReferenceGenerator(4096, "INV")
	assert.Error(t, err)
}
