// seed prepara una base PostgreSQL nueva: aplica schema.sql, crea el administrador inicial
// y opcionalmente importa productos desde un CSV.
//
// Uso: go run ./cmd/seed [-products productos.csv] [-charset utf8|latin1] [-skip-schema]
//
// El CSV lleva cabecera name,unit,quantity,min_stock,category (separador , o ;).
// Planillas exportadas por Excel en Windows suelen venir en latin1 (Windows-1252).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-escolar/pkg/config"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

func main() {
	productsPath := flag.String("products", "", "CSV de productos a importar")
	charset := flag.String("charset", "utf8", "codificación del CSV: utf8 | latin1")
	skipSchema := flag.Bool("skip-schema", false, "no aplicar schema.sql")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if !*skipSchema {
		if err := postgres.ApplySchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar schema")
		}
		log.Info().Msg("schema aplicado")
	}

	if cfg.Admin.Email == "" {
		log.Fatal().Msg("ADMIN_EMAIL es obligatorio")
	}
	authUC := auth.NewAuthUseCase(
		postgres.NewIdentityRepository(pool),
		postgres.NewProfileRepository(pool),
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		nil, log,
	)
	admin, err := authUC.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	log.Info().Str("email", admin.Email).Msg("administrador listo")

	if *productsPath == "" {
		return
	}
	f, err := os.Open(*productsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readProducts(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewTxRunner(pool), nil, log)
	created := 0
	for _, r := range rows {
		if _, err := productUC.Create(ctx, *admin, r.request); err != nil {
			log.Warn().Err(err).Int("line", r.line).Str("name", r.request.Name).Msg("producto omitido")
			continue
		}
		created++
	}
	fmt.Printf("Importados %d de %d productos desde %s\n", created, len(rows), *productsPath)
}
