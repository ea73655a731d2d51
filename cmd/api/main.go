package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/domain/repository"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/export"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/estoque-escolar/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/estoque-escolar/internal/interfaces/http"
	"github.com/jhoicas/estoque-escolar/pkg/config"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
	"github.com/jhoicas/estoque-escolar/pkg/metrics"
)

// stores repositorios del driver elegido.
type stores struct {
	products   repository.ProductRepository
	entries    repository.EntryRepository
	exits      repository.ExitRepository
	profiles   repository.ProfileRepository
	identities repository.IdentityRepository
	txRunner   inventory.TxRunner
	pool       *pgxpool.Pool // nil con STORE_DRIVER=memory
}

// runner notifier con bucle de recepción propio (LISTEN o SUBSCRIBE).
type runner interface {
	Run(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.StoreDriver).
		Str("notify", cfg.Store.NotifyDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.DB, cfg.Store.StoreDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	notifier, err := openNotifier(ctx, cfg, st.pool, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar notificaciones")
	}
	if r, ok := notifier.(runner); ok {
		go func() {
			if err := r.Run(ctx); err != nil {
				log.Error().Err(err).Msg("receptor de cambios finalizado")
			}
		}()
	}

	m := metrics.New()

	authUC := auth.NewAuthUseCase(st.identities, st.profiles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, notifier, log)
	productUC := usecase.NewProductUseCase(st.products, st.txRunner, notifier, log)
	userUC := usecase.NewUserUseCase(st.profiles, notifier, log)
	reconciliationUC := inventory.NewReconciliationUseCase(st.txRunner, notifier, log, m)
	reports := report.NewService(st.products, st.entries, st.exits, log, m,
		export.PDF{Institution: cfg.App.Name},
		export.XLSX{},
	)

	// En memoria no hay seed: el administrador inicial sale de ADMIN_EMAIL/ADMIN_PASSWORD.
	if cfg.Store.StoreDriver == config.DriverMemory && cfg.Admin.Email != "" {
		if _, err := authUC.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// Sin WriteTimeout: /api/changes mantiene la respuesta abierta.
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque Escolar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		UserUC:         userUC,
		Reconciliation: reconciliationUC,
		Reports:        reports,
		Changes:        notifier,
		Shutdown:       ctx,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, dbCfg config.DBConfig, driver string) (*stores, error) {
	if driver == config.DriverMemory {
		store := memory.NewStore()
		return &stores{
			products:   store.Products(),
			entries:    store.Entries(),
			exits:      store.Exits(),
			profiles:   store.Profiles(),
			identities: store.Identities(),
			txRunner:   store,
		}, nil
	}
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		products:   postgres.NewProductRepository(pool),
		entries:    postgres.NewEntryRepository(pool),
		exits:      postgres.NewExitRepository(pool),
		profiles:   postgres.NewProfileRepository(pool),
		identities: postgres.NewIdentityRepository(pool),
		txRunner:   postgres.NewTxRunner(pool),
		pool:       pool,
	}, nil
}

func openNotifier(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (notify.Notifier, error) {
	switch cfg.Store.NotifyDriver {
	case config.DriverPostgres:
		return postgres.NewListener(pool, log), nil
	case config.DriverRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return infraredis.NewNotifier(client, cfg.Redis.Prefix, log), nil
	default:
		return memory.NewHub(), nil
	}
}
