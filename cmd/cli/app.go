package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inboxintel/internal/triage/domain"
	"inboxintel/internal/triage/repository"
	"inboxintel/internal/triage/usecase"
	"inboxintel/pkg/ai"
	"inboxintel/pkg/config"
	"inboxintel/pkg/database"
	"inboxintel/pkg/gmail"
	"inboxintel/pkg/imap"
)

// app holds the per-run handles: one config, one logger, one storage
// connection. Commands acquire it at start and close it on every exit
// path.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	repo   repository.EmailRepository
	logger *zap.Logger
}

func newApp() (*app, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&domain.ProcessedEmail{}, &domain.Task{}, &domain.TriageRun{}); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &app{
		cfg:    cfg,
		db:     db,
		repo:   repository.NewGormEmailRepository(db),
		logger: logger,
	}, nil
}

func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) buildPipeline(ctx context.Context) (*usecase.Pipeline, error) {
	source, err := a.buildSource(ctx)
	if err != nil {
		return nil, err
	}

	classifier, err := ai.NewClassifier(ai.Config{
		Provider:      ai.ProviderType(a.cfg.AIProvider),
		OpenAIAPIKey:  a.cfg.OpenAIAPIKey,
		OpenAIModel:   a.cfg.OpenAIModel,
		OllamaBaseURL: a.cfg.OllamaBaseURL,
		OllamaModel:   a.cfg.OllamaModel,
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewPipeline(source, classifier, a.repo, a.logger), nil
}

func (a *app) buildSource(ctx context.Context) (domain.EmailSource, error) {
	switch a.cfg.EmailProvider {
	case "imap":
		if a.cfg.IMAPAddr == "" || a.cfg.IMAPUsername == "" {
			return nil, fmt.Errorf("IMAP_ADDR and IMAP_USERNAME are required for the IMAP provider")
		}
		return imap.NewService(a.cfg.IMAPAddr, a.cfg.IMAPUsername, a.cfg.IMAPPassword, a.cfg.GmailMaxResults, a.logger), nil

	case "gmail", "":
		return gmail.NewService(ctx, gmail.Options{
			ClientID:     a.cfg.GoogleClientID,
			ClientSecret: a.cfg.GoogleClientSecret,
			TokenFile:    a.cfg.GoogleTokenFile,
			MaxResults:   a.cfg.GmailMaxResults,
		}, a.logger)

	default:
		return nil, fmt.Errorf("unknown email provider %q", a.cfg.EmailProvider)
	}
}
