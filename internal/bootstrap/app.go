// Package bootstrap constructs the application dependency graph shared by
// cmd/api and cmd/worker.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/processing"
	"legaldocs-backend/internal/queue"
	"legaldocs-backend/internal/shared/config"
	"legaldocs-backend/internal/shared/server"
	"legaldocs-backend/internal/shared/storage/db"
	"legaldocs-backend/internal/shared/storage/object"
	localstore "legaldocs-backend/internal/shared/storage/object/local"
	s3store "legaldocs-backend/internal/shared/storage/object/s3"
	"legaldocs-backend/internal/summarizer"
	"legaldocs-backend/internal/translate"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
	Summarizer       summarizer.Client
	Orchestrator     *processing.Orchestrator
	TranslateService *translate.Service
	TranslateHandler *translate.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(cfg, server.RouterDeps{
		Documents: app.DocumentsHandler,
		Translate: app.TranslateHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildServices(app *App) error {
	var repo documents.Repo
	if app.DB != nil {
		repo = &documents.PGRepo{DB: app.DB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	sumClient, err := summarizer.NewHTTPClient(app.Config.SummarizerURL, app.Config.SummarizerTimeout)
	if err != nil {
		return err
	}

	orch := &processing.Orchestrator{
		Repo:       repo,
		Store:      app.Store,
		Summarizer: sumClient,
		Timeout:    app.Config.SummarizerTimeout,
	}

	var trigger documents.ProcessTrigger
	if app.Queue != nil {
		trigger = &queueTrigger{Queue: app.Queue, Fallback: orch}
	} else {
		trigger = &asyncTrigger{Orchestrator: orch}
	}

	docSvc := &documents.Service{
		Repo:           repo,
		Store:          app.Store,
		Trigger:        trigger,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}

	var trClient translate.Client
	if strings.TrimSpace(app.Config.TranslatorURL) != "" {
		trClient, err = translate.NewHTTPClient(app.Config.TranslatorURL, app.Config.TranslatorTimeout)
		if err != nil {
			return err
		}
	} else {
		trClient = identityTranslator{}
	}
	trSvc := &translate.Service{Client: trClient}

	app.DocumentsRepo = repo
	app.DocumentsService = docSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.Summarizer = sumClient
	app.Orchestrator = orch
	app.TranslateService = trSvc
	app.TranslateHandler = translate.NewHandler(trSvc)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// identityTranslator stands in when no TRANSLATOR_URL is configured so dev
// environments can exercise the endpoint without the collaborator.
type identityTranslator struct{}

func (identityTranslator) Translate(ctx context.Context, text, locale string) (string, error) {
	return text, nil
}
