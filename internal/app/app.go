package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/config"
	"github.com/varoOP/mangacat/internal/database"
	"github.com/varoOP/mangacat/internal/domain"
	"github.com/varoOP/mangacat/internal/export"
	"github.com/varoOP/mangacat/internal/http"
	"github.com/varoOP/mangacat/internal/jikan"
	"github.com/varoOP/mangacat/internal/logger"
	"github.com/varoOP/mangacat/internal/manga"
	"github.com/varoOP/mangacat/internal/notification"
	"github.com/varoOP/mangacat/internal/staging"
)

// App holds every initialized dependency
type App struct {
	log           zerolog.Logger
	config        *domain.Config
	db            *database.DB
	mangaService  manga.Service
	exportService export.Service
	version       string
}

// NewApp loads configuration, opens the database and wires the services
func NewApp(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return New(cfg, logger.NewFromConfig(cfg), version)
}

// New wires the application from an already loaded configuration
func New(cfg *domain.Config, log zerolog.Logger, version string) (*App, error) {
	db, err := database.NewDB(cfg.DBDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mangaRepo := database.NewMangaRepo(log, db)
	authorRepo := database.NewAuthorRepo(log, db)

	provider := jikan.NewService(log, cfg)
	notificationService := notification.NewService(log, cfg.DiscordWebhookURL)

	return &App{
		log:           log,
		config:        cfg,
		db:            db,
		mangaService:  manga.NewService(log, provider, staging.New(), mangaRepo, authorRepo, notificationService),
		exportService: export.NewService(log, mangaRepo, authorRepo, export.NewFileRepository(log)),
		version:       version,
	}, nil
}

// Serve runs the HTTP API until ctx is canceled
func (a *App) Serve(ctx context.Context) error {
	srv := http.NewServer(a.log, a.config, a.db, a.mangaService, a.version)
	if err := srv.Open(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Refresh runs a bulk metadata refresh without starting the server
func (a *App) Refresh(ctx context.Context) (domain.RefreshReport, error) {
	report, err := a.mangaService.RefreshAll(ctx)
	if err != nil {
		return report, fmt.Errorf("refresh failed: %w", err)
	}
	return report, nil
}

// Export writes a snapshot of the collection under rootDir
func (a *App) Export(ctx context.Context, format export.Format, rootDir string) (domain.ExportPath, int, error) {
	path, n, err := a.exportService.Export(ctx, format, domain.NewPaths(rootDir))
	if err != nil {
		return "", 0, fmt.Errorf("export failed: %w", err)
	}
	return path, n, nil
}

// Import restores a snapshot written by Export
func (a *App) Import(ctx context.Context, path string) (int, error) {
	n, err := a.exportService.Import(ctx, domain.ExportPath(path))
	if err != nil {
		return n, fmt.Errorf("import failed: %w", err)
	}
	return n, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.db.Close()
}
