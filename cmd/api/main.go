package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/entity"
	"github.com/jhoicas/inventory-reconciliation/internal/domain/repository"
	"github.com/jhoicas/inventory-reconciliation/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-reconciliation/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-reconciliation/internal/interfaces/http"
	"github.com/jhoicas/inventory-reconciliation/pkg/config"
	"github.com/jhoicas/inventory-reconciliation/pkg/logger"
)

// stores agrupa el runner transaccional y los repositorios de lectura del backend elegido.
type stores struct {
	tx        inventory.TxRunner
	sessions  repository.SessionRepository
	stock     repository.StockRepository
	movements repository.InventoryMovementRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	references, err := inventory.NewSnowflakeReferenceGenerator(cfg.Inventory.NodeID, cfg.Inventory.ReferencePrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de referencias")
	}
	reconciliationUC := inventory.NewReconciliationUseCase(st.tx, st.sessions, st.stock, references, log.Zerolog())
	sessionsUC := inventory.NewSessionQueryUseCase(st.sessions, st.movements)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventory Reconciliation API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reconciliation: reconciliationUC,
		Sessions:       sessionsUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Inventory.UsesMemoryStore() {
		var products []entity.CatalogProduct
		if cfg.Inventory.SeedFile != "" {
			var err error
			products, err = memory.LoadProductsFile(cfg.Inventory.SeedFile)
			if err != nil {
				return nil, err
			}
		}
		log.Info().Int("products", len(products)).Msg("store en memoria")
		mem := memory.NewStore(products...)
		return &stores{
			tx:        mem,
			sessions:  mem.Sessions(),
			stock:     mem.Stock(),
			movements: mem.Movements(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		sessions:  postgres.NewSessionRepository(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewInventoryMovementRepository(pool),
		close:     pool.Close,
	}, nil
}
