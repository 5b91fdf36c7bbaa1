package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"repeater-test-service/internal/app"
	"repeater-test-service/internal/config"
	"repeater-test-service/internal/domain"
	fileinfra "repeater-test-service/internal/infra/file"
	"repeater-test-service/internal/infra/mail"
	"repeater-test-service/internal/infra/memory"
	pginfra "repeater-test-service/internal/infra/postgres"
	redisinfra "repeater-test-service/internal/infra/redis"
)

func buildCatalog(cfg config.Config) (*domain.Catalog, error) {
	if len(cfg.Catalog.Items) == 0 && len(cfg.Catalog.Locations) == 0 {
		return domain.DefaultCatalog(), nil
	}
	items := cfg.Catalog.Items
	if len(items) == 0 {
		items = domain.DefaultRepeaters
	}
	locations := cfg.Catalog.Locations
	if len(locations) == 0 {
		locations = domain.DefaultLocations
	}
	return domain.NewCatalog(items, locations)
}

func newRedisClient(cfg config.Config) *goredis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// buildService assembles the exam service from config: file-backed solution
// data, an optional redis cache and registry, and the mail relay. Without a
// mail endpoint the recording mailer stands in, so send commands become a
// dry run instead of an error.
func buildService(cfg config.Config, logger *slog.Logger) (*app.ExamService, error) {
	catalog, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Data.SolutionsPath == "" {
		return nil, &domain.ConfigurationError{Reason: "data.solutionsPath not configured"}
	}
	if cfg.Data.ScenariosPath == "" {
		return nil, &domain.ConfigurationError{Reason: "data.scenariosPath not configured"}
	}
	set, err := fileinfra.LoadSolutionSet(cfg.Data.SolutionsPath)
	if err != nil {
		return nil, err
	}
	scenarios, err := fileinfra.LoadScenarioSolutions(cfg.Data.ScenariosPath, catalog)
	if err != nil {
		return nil, err
	}

	var keys app.SolutionKeys = memory.NewSolutionKeys(set)
	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		keys = redisinfra.NewSolutionKeys(redisClient, memory.NewSolutionKeys(set), ttl)
	}

	var registry app.RegistryStore
	switch {
	case redisClient != nil:
		registry = redisinfra.NewRegistryStore(redisClient)
	case cfg.Data.RegistryPath != "":
		registry = fileinfra.NewRegistryStore(cfg.Data.RegistryPath)
	default:
		registry = memory.NewRegistryStore()
	}

	var audit app.AuditLog
	if cfg.Data.AuditPath != "" {
		audit = fileinfra.NewAuditLog(cfg.Data.AuditPath)
	} else {
		audit = memory.NewAuditLog()
	}

	var mailer app.Mailer
	if cfg.Mail.Endpoint != "" {
		mailer = mail.NewRelay(cfg.Mail.Endpoint, cfg.Mail.APIKey)
	} else {
		logger.Warn("no mail endpoint configured, deliveries are recorded only")
		mailer = memory.NewMailer()
	}

	return app.NewExamService(catalog, cfg.Policy(), scenarios, keys, registry, app.Options{
		Audit:  audit,
		Mailer: mailer,
		Links: app.Links{
			MapURLTemplate:  cfg.Links.MapURL,
			FormURLTemplate: cfg.Links.FormURL,
			FromAddress:     cfg.Links.From,
		},
		Logger: logger,
	}), nil
}

// loadRoster prefers the Postgres participants table and falls back to the
// JSON roster document.
func loadRoster(ctx context.Context, cfg config.Config) ([]domain.RosterEntry, error) {
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		return pginfra.NewRoster(pool).Participants(ctx)
	}
	if cfg.Data.RosterPath != "" {
		return fileinfra.NewRoster(cfg.Data.RosterPath).Participants(ctx)
	}
	return nil, &domain.ConfigurationError{Reason: "no roster source configured"}
}
