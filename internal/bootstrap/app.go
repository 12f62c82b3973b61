package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/analyses"
	"placement-readiness/internal/history"
	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/config"
	"placement-readiness/internal/shared/server"
	"placement-readiness/internal/shared/server/middleware"
	"placement-readiness/internal/shared/storage/db"
	"placement-readiness/internal/shared/storage/object"
	localstore "placement-readiness/internal/shared/storage/object/local"
	memorystore "placement-readiness/internal/shared/storage/object/memory"
	pgstore "placement-readiness/internal/shared/storage/object/pg"
	s3store "placement-readiness/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Blobs           object.Store
	Engine          *readiness.Engine
	History         *history.Store
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.HistoryStore) == "" {
		cfg.HistoryStore = config.StoreLocal
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := history.NewStore(blobs, history.WithKey(cfg.HistoryKey))
	store.Subscribe(analyses.ObserveHistory)

	svc := &analyses.Service{Engine: engine, History: store}
	handler := analyses.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Blobs:           blobs,
		Engine:          engine,
		History:         store,
		AnalysesService: svc,
		AnalysisHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	log.Printf("bootstrap: history store=%s key=%s", cfg.HistoryStore, cfg.HistoryKey)
	return app, nil
}

// Close releases the shared database pool, if one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return db.CloseShared()
}

func buildEngine(cfg config.Config) (*readiness.Engine, error) {
	catalog := readiness.DefaultCatalog()
	if path := strings.TrimSpace(cfg.CatalogPath); path != "" {
		loaded, err := readiness.LoadCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		catalog = loaded
		log.Printf("bootstrap: loaded catalog from %s", path)
	}
	return readiness.NewEngine(catalog), nil
}

func buildBlobs(ctx context.Context, cfg config.Config) (*sql.DB, object.Store, error) {
	switch cfg.HistoryStore {
	case config.StoreMemory:
		return nil, memorystore.New(), nil
	case config.StorePostgres:
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if sqlDB == nil {
			return nil, memorystore.New(), nil
		}
		return sqlDB, pgstore.New(sqlDB), nil
	case config.StoreS3:
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, nil, err
		}
		return nil, store, nil
	default:
		return nil, localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Shared(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
