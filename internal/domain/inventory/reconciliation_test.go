package inventory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/inventory"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func line(productID string, theoretical int64) *entity.InventoryLine {
	return &entity.InventoryLine{ID: "l-" + productID, ProductID: productID, TheoreticalQuantity: dec(theoretical)}
}

func count(l *entity.InventoryLine, qty int64) {
	l.ApplyCount(entity.LineCount{Quantity: dec(qty), CountedBy: "u1", CountedAt: time.Now()})
}

func TestValidateScope(t *testing.T) {
	cases := []struct {
		name  string
		scope entity.SessionScope
		err   error
	}{
		{"full sin ids", entity.SessionScope{Type: entity.SessionTypeFull}, nil},
		{"cyclic con categoría", entity.SessionScope{Type: entity.SessionTypeCyclic, CategoryIDs: []string{"c1"}}, nil},
		{"cyclic vacío", entity.SessionScope{Type: entity.SessionTypeCyclic}, domain.ErrEmptyScope},
		{"cyclic solo ids vacíos", entity.SessionScope{Type: entity.SessionTypeCyclic, CategoryIDs: []string{""}}, domain.ErrEmptyScope},
		{"spot vacío", entity.SessionScope{Type: entity.SessionTypeSpot, ProductIDs: []string{}}, domain.ErrEmptyScope},
		{"spot con producto", entity.SessionScope{Type: entity.SessionTypeSpot, ProductIDs: []string{"p1"}}, nil},
		{"tipo desconocido", entity.SessionScope{Type: "Weekly"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateScope(tc.scope)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNormalizeScope_QuitaDuplicadosYVacios(t *testing.T) {
	got := inventory.NormalizeScope(entity.SessionScope{
		Type:        entity.SessionTypeSpot,
		ProductIDs:  []string{"p2", "", "p1", "p2"},
		CategoryIDs: []string{"ignored"},
	})
	assert.Equal(t, []string{"p2", "p1"}, got.ProductIDs)
	assert.Empty(t, got.CategoryIDs)
}

func TestApplyCount_RecontarReemplaza(t *testing.T) {
	l := line("p1", 100)
	count(l, 95)
	count(l, 90)

	require.True(t, l.IsCounted())
	assert.True(t, l.CountedQuantity.Equal(dec(90)))
	assert.True(t, l.Variance.Equal(dec(-10)), "la varianza se recalcula con el último conteo")
}

func TestBuildDeltas_SoloLineasContadasConVarianza(t *testing.T) {
	l1, l2, l3 := line("p1", 100), line("p2", 50), line("p3", 0)
	count(l1, 95)
	count(l2, 50)

	deltas := inventory.BuildDeltas([]*entity.InventoryLine{l3, l2, l1})

	require.Len(t, deltas, 1)
	assert.Equal(t, "p1", deltas[0].ProductID)
	assert.True(t, deltas[0].Delta.Equal(dec(-5)))
}

func TestBuildDeltas_OrdenadoPorProducto(t *testing.T) {
	a, b, c := line("b", 1), line("a", 1), line("c", 1)
	count(a, 2)
	count(b, 3)
	count(c, 0)

	deltas := inventory.BuildDeltas([]*entity.InventoryLine{a, b, c})

	require.Len(t, deltas, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{deltas[0].ProductID, deltas[1].ProductID, deltas[2].ProductID})
}

func TestSummarize(t *testing.T) {
	l1, l2, l3, l4 := line("p1", 100), line("p2", 50), line("p3", 0), line("p4", 10)
	count(l1, 95)
	count(l2, 50)
	count(l4, 12)

	s := inventory.Summarize([]*entity.InventoryLine{l1, l2, l3, l4})

	assert.Equal(t, 4, s.TotalLines)
	assert.Equal(t, 3, s.CountedLines)
	assert.Equal(t, 1, s.PendingLines)
	assert.Equal(t, 1, s.PositiveVariances)
	assert.Equal(t, 1, s.NegativeVariances)
	assert.True(t, s.TotalVariance.Equal(dec(-3)), "got %s", s.TotalVariance)
}

func TestPendingLines_ConservaOrden(t *testing.T) {
	l1, l2, l3 := line("p1", 1), line("p2", 1), line("p3", 1)
	count(l2, 1)

	pending := inventory.PendingLines([]*entity.InventoryLine{l1, l2, l3})

	require.Len(t, pending, 2)
	assert.Equal(t, "p1", pending[0].ProductID)
	assert.Equal(t, "p3", pending[1].ProductID)
}

func TestParseQuantity(t *testing.T) {
	ok := map[string]string{
		`95`:                  "95",
		`0`:                   "0",
		`"12.5"`:              "12.5",
		` 7 `:                 "7",
		`"  3  "`:             "3",
		`"1.50000"`:           "1.5",
		`0.0001`:              "0.0001",
		`99999999999999.9999`: "99999999999999.9999",
	}
	for in, want := range ok {
		got, err := inventory.ParseQuantity(json.RawMessage(in))
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s => %s", in, got)
	}

	bad := []string{``, `null`, `-1`, `"-0.5"`, `"abc"`, `""`, `true`, `{}`,
		`0.00001`, `1e20`, `"123456789012345.5"`, `100000000000000`}
	for _, in := range bad {
		_, err := inventory.ParseQuantity(json.RawMessage(in))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, in)
	}
}

func TestCheckStoredQuantity(t *testing.T) {
	assert.NoError(t, inventory.CheckStoredQuantity(decimal.RequireFromString("-99999999999999.9999")))
	assert.ErrorIs(t, inventory.CheckStoredQuantity(decimal.RequireFromString("-100000000000000")), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.CheckStoredQuantity(decimal.RequireFromString("-0.00005")), domain.ErrInvalidQuantity)
}
