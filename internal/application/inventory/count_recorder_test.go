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

func TestCountRecorder_RecorreYTermina(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})

	rec := inventory.NewCountRecorder(f.uc, s)
	require.Equal(t, 3, rec.Len())
	assert.Equal(t, 0, rec.Position())
	assert.Equal(t, "p1", rec.Current().ProductID)

	_, done, err := rec.Record(ctx, dec(99), "u-counter", "")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "p2", rec.Current().ProductID)

	_, done, err = rec.Record(ctx, dec(50), "u-counter", "")
	require.NoError(t, err)
	assert.False(t, done)

	line, done, err := rec.Record(ctx, dec(11), "u-counter", "caja abierta")
	require.NoError(t, err)
	assert.True(t, done, "la última línea cierra el recorrido")
	assert.Equal(t, "caja abierta", line.CountNotes)
	assert.True(t, rec.Complete())
	assert.Equal(t, 2, rec.Position(), "el cursor no pasa de la última línea")

	assert.False(t, s.Lines[0].IsCounted(), "la sesión del llamador no se modifica")

	pending, err := f.query.PendingLines(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCountRecorder_RetomaEnPrimeraPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})
	f.count(t, s, "p1", 100)

	got, err := f.query.Get(ctx, s.ID)
	require.NoError(t, err)
	rec := inventory.NewCountRecorder(f.uc, got)

	assert.Equal(t, 1, rec.Position())
	counted, total := rec.Progress()
	assert.Equal(t, 1, counted)
	assert.Equal(t, 3, total)
	assert.False(t, rec.Complete())

	assert.True(t, rec.Previous())
	assert.False(t, rec.Previous())
	assert.True(t, rec.Next())
	assert.True(t, rec.Next())
	assert.False(t, rec.Next())
}

func TestCountRecorder_TodoContadoVuelveAlInicio(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeSpot, ProductIDs: []string{"p1", "p2"}})
	f.count(t, s, "p1", 1)
	f.count(t, s, "p2", 2)

	got, err := f.query.Get(context.Background(), s.ID)
	require.NoError(t, err)
	rec := inventory.NewCountRecorder(f.uc, got)
	assert.Equal(t, 0, rec.Position())
	assert.True(t, rec.Complete())
}

func TestCountRecorder_ErrorNoAvanza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})
	rec := inventory.NewCountRecorder(f.uc, s)

	_, _, err := rec.Record(ctx, dec(-3), "u-counter", "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, 0, rec.Position())

	_, err = f.uc.CancelSession(ctx, s.ID, "u-super")
	require.NoError(t, err)
	_, _, err = rec.Record(ctx, dec(3), "u-counter", "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCountRecorder_SesionVacia(t *testing.T) {
	rec := inventory.NewCountRecorder(nil, &entity.InventorySession{})
	assert.Nil(t, rec.Current())
	assert.False(t, rec.Complete())
	_, _, err := rec.Record(context.Background(), dec(1), "u", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountRecorder_MoveTo(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, inventory.CreateSessionInput{Type: entity.SessionTypeFull})
	rec := inventory.NewCountRecorder(f.uc, s)

	require.True(t, rec.MoveTo(2))
	assert.Equal(t, "p3", rec.Current().ProductID)
	require.True(t, rec.MoveTo(1))
	assert.Equal(t, "p2", rec.Current().ProductID)

	assert.False(t, rec.MoveTo(3))
	assert.False(t, rec.MoveTo(-1))
	assert.Equal(t, 1, rec.Position(), "una posición inválida no mueve el cursor")
}
