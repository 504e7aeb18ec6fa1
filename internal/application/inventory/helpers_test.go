package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
	"github.com/jhoicas/inventory-reconciliation/internal/infrastructure/memory"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// catálogo: p1, p2 y p4 (inactivo) en c1; p3 en c2.
func testCatalog() []entity.CatalogProduct {
	return []entity.CatalogProduct{
		{ID: "p3", SKU: "SKU-003", Name: "Tornillo", Location: "B-01", CategoryID: "c2", Active: true, Quantity: dec(10)},
		{ID: "p1", SKU: "SKU-001", Name: "Martillo", Location: "A-01", CategoryID: "c1", Active: true, Quantity: dec(100)},
		{ID: "p2", SKU: "SKU-002", Name: "Llave", Location: "A-02", CategoryID: "c1", Active: true, Quantity: dec(50)},
		{ID: "p4", SKU: "SKU-004", Name: "Descontinuado", Location: "A-03", CategoryID: "c1", Active: false, Quantity: dec(5)},
	}
}

type fixture struct {
	store *memory.Store
	uc    *inventory.ReconciliationUseCase
	query *inventory.SessionQueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(testCatalog()...)
	refs, err := inventory.NewSnowflakeReferenceGenerator(1, "INV")
	require.NoError(t, err)
	uc := inventory.NewReconciliationUseCase(store, store.Sessions(), store.Stock(), refs, zerolog.Nop()).
		WithClock(func() time.Time { return testNow })
	return &fixture{
		store: store,
		uc:    uc,
		query: inventory.NewSessionQueryUseCase(store.Sessions(), store.Movements()),
	}
}

func (f *fixture) create(t *testing.T, in inventory.CreateSessionInput) *entity.InventorySession {
	t.Helper()
	if in.CreatedBy == "" {
		in.CreatedBy = "u-creator"
	}
	s, err := f.uc.CreateSession(context.Background(), in)
	require.NoError(t, err)
	return s
}

func (f *fixture) count(t *testing.T, s *entity.InventorySession, productID string, qty int64) *entity.InventoryLine {
	t.Helper()
	for _, l := range s.Lines {
		if l.ProductID == productID {
			out, err := f.uc.RecordCount(context.Background(), inventory.RecordCountInput{
				LineID: l.ID, Quantity: dec(qty), UserID: "u-counter",
			})
			require.NoError(t, err)
			return out
		}
	}
	t.Fatalf("producto %s no está en la sesión", productID)
	return nil
}

func (f *fixture) quantity(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	q, ok := f.store.Quantity(productID)
	require.True(t, ok)
	return q
}

// barrierSessions retiene cada GetByID hasta que todos los participantes lo alcanzan,
// de modo que las validaciones concurrentes superen la verificación previa antes de competir.
type barrierSessions struct {
	repository.SessionRepository
	wg *sync.WaitGroup
}

func (b barrierSessions) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	s, err := b.SessionRepository.GetByID(ctx, id)
	b.wg.Done()
	b.wg.Wait()
	return s, err
}

type failingMovements struct {
	repository.InventoryMovementRepository
}

func (failingMovements) Create(context.Context, *entity.InventoryMovement) error {
	return errDiskFull
}

// faultyTx delega en el store pero falla al escribir movimientos.
type faultyTx struct {
	store *memory.Store
}

func (f faultyTx) Run(ctx context.Context, fn func(
	repository.SessionRepository,
	repository.StockRepository,
	repository.InventoryMovementRepository,
) error) error {
	return f.store.Run(ctx, func(s repository.SessionRepository, st repository.StockRepository, m repository.InventoryMovementRepository) error {
		return fn(s, st, failingMovements{m})
	})
}
