package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"salesdash/internal/api"
	"salesdash/internal/config"
	"salesdash/internal/engine"
	"salesdash/internal/models"
	"salesdash/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	store := engine.NewStore()
	load := buildLoader(cfg)

	// The API is live immediately; dashboard routes answer 503 until the
	// background load installs the first row set.
	h := api.NewHandler(store, load)
	h.RegisterRoutes(e)

	go func() {
		log.Println("BACKGROUND: loading sales data...")
		t0 := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		records, err := load(ctx)
		if err != nil {
			log.Printf("BACKGROUND: initial load failed: %v (POST /api/reload to retry)", err)
			return
		}

		snapshot := store.Replace(records)
		log.Printf("BACKGROUND: loaded %d rows in %v (snapshot %s)", len(records), time.Since(t0), snapshot)
	}()

	log.Printf("Server ready on %s (data loading in background...)", cfg.Listen)
	e.Logger.Fatal(e.Start(cfg.Listen))
}

// buildLoader assembles the source fallback chain from config: URLs first,
// then the local CSV, then the SQLite snapshot.
func buildLoader(cfg *config.Config) api.LoadFunc {
	var chain source.Chain
	for _, u := range cfg.Sources.URLs {
		chain = append(chain, source.HTTPSource{URL: u})
	}
	if cfg.Sources.CSVPath != "" {
		chain = append(chain, source.CSVFile{Path: cfg.Sources.CSVPath})
	}
	if cfg.Sources.SQLitePath != "" {
		chain = append(chain, source.SQLiteSnapshot{Path: cfg.Sources.SQLitePath, Table: cfg.Sources.SQLiteTable})
	}

	return func(ctx context.Context) ([]models.SalesRecord, error) {
		raw, err := chain.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return engine.NormalizeAll(raw), nil
	}
}
