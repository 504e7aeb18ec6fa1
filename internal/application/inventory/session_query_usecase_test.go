package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
)

func TestSummary_CifrasAgregadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})
	f.count(t, s, "p1", 95) // -5
	f.count(t, s, "p2", 52) // +2

	_, sum, err := f.query.Summary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalLines)
	assert.Equal(t, 2, sum.CountedLines)
	assert.Equal(t, 1, sum.PendingLines)
	assert.Equal(t, 1, sum.PositiveVariances)
	assert.Equal(t, 1, sum.NegativeVariances)
	assert.True(t, sum.TotalVariance.Equal(dec(-3)))

	pending, err := f.query.PendingLines(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, productIDs(pending))

	_, err = f.query.PendingLines(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = f.query.Summary(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAll_FiltroYPaginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})
	b := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeCyclic, CategoryIDs: []string{"c1"}})
	f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeSpot, ProductIDs: []string{"p3"}})
	f.count(t, b, "p1", 1)
	_, err := f.uc.CancelSession(ctx, a.ID, "u-super")
	require.NoError(t, err)

	all, err := f.query.ListAll(ctx, nil, 20, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	inProgress := entity.SessionStatusInProgress
	open, err := f.query.ListAll(ctx, &inProgress, 20, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)
	for _, s := range open {
		assert.Equal(t, entity.SessionStatusInProgress, s.Status)
		assert.Empty(t, s.Lines, "el listado no trae líneas")
		if s.ID == b.ID {
			assert.Equal(t, 2, s.LineCount)
			assert.Equal(t, 1, s.CountedCount)
		}
	}

	page, err := f.query.ListAll(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	total, err := f.query.CountSessions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	total, err = f.query.CountSessions(ctx, &inProgress)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	bad := entity.SessionStatus("Open")
	_, err = f.query.ListAll(ctx, &bad, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListProductMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeSpot, ProductIDs: []string{"p1", "p2"}})
	f.count(t, first, "p1", 90)
	f.count(t, first, "p2", 55)
	_, err := f.uc.ValidateSession(ctx, first.ID, "u-super")
	require.NoError(t, err)

	second := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeSpot, ProductIDs: []string{"p1"}})
	assert.True(t, second.Lines[0].TheoreticalQuantity.Equal(dec(90)), "la nueva foto ve el ajuste anterior")
	f.count(t, second, "p1", 88)
	_, err = f.uc.ValidateSession(ctx, second.ID, "u-super")
	require.NoError(t, err)

	movs, err := f.query.ListProductMovements(ctx, "p1", 20, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, second.Reference, movs[0].Reference, "más recientes primero")
	assert.True(t, movs[0].QuantityAfter.Equal(dec(88)))
	assert.True(t, movs[1].QuantityAfter.Equal(dec(90)))

	n, err := f.query.CountMovements(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = f.query.CountMovements(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = f.query.ListProductMovements(ctx, "", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
