// import_csv carga un catálogo CSV en el almacén remoto sin levantar la API.
//
// Uso: go run ./cmd/import_csv ruta/produtos.csv [--dry-run]
// Con --dry-run solo analiza el archivo e imprime el informe.
// Reimportar el mismo archivo no duplica productos (upsert por código).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/datastore"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/localcache"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: import_csv <archivo.csv> [--dry-run]")
		os.Exit(2)
	}
	path := os.Args[1]
	dryRun := len(os.Args) > 2 && os.Args[2] == "--dry-run"

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if dryRun {
		_, report, err := csvimport.ParseProducts(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analizar CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Filas: %d  Productos: %d  Duplicados: %d\n", report.Rows, report.Products, report.Duplicates)
		printIssues("Omitida", report.Skipped)
		printIssues("Aviso", report.Warnings)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Ping(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "El almacén remoto no responde: %v\n", err)
		os.Exit(1)
	}

	cache, err := localcache.Open(cfg.Cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir caché local: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	repo := datastore.NewProductRepository(postgres.NewStore(pool), cache, log.Component("products"))
	uc := usecase.NewProductUseCase(repo)

	res, err := uc.ImportCSV(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Filas: %d  Guardados: %d  Duplicados: %d\n", res.Rows, res.Upserted, res.Duplicates)
	for _, i := range res.Skipped {
		fmt.Printf("  Omitida línea %d: %s\n", i.Line, i.Message)
	}
	for _, i := range res.Warnings {
		fmt.Printf("  Aviso línea %d (%s): %s\n", i.Line, i.Code, i.Message)
	}

	// Refresca la caché local con el catálogo resultante.
	if _, err := repo.List(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo refrescar la caché local")
	}
}

func printIssues(label string, issues []csvimport.RowIssue) {
	for _, i := range issues {
		if i.Code != "" {
			fmt.Printf("  %s línea %d (%s): %s\n", label, i.Line, i.Code, i.Message)
			continue
		}
		fmt.Printf("  %s línea %d: %s\n", label, i.Line, i.Message)
	}
}
