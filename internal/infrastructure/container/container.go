// Package container provides dependency injection for the application.
package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/application/services"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	domainservices "github.com/mealguard-dev/mealguard/internal/domain/services"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/cache"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/events"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/httpapi"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/metrics"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/persistence/memory"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/persistence/postgres"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/persistence/sqlite"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/retry"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/rulesource"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	cfg      *system.Config
	logger   *slog.Logger
	source   ports.RuleSetSource
	ruleRepo repositories.RuleRepository
	records  repositories.EvaluationRecordRepository
	metrics  *metrics.Metrics

	ruleSets *services.RuleSetService
	evaluate *services.EvaluateOrderUseCase
	history  *services.EvaluationHistoryService

	closers []func() error
}

// Options configure the container.
type Options struct {
	Config *system.Config
	Logger *slog.Logger
	// Offline skips the cache, event stream and external audit stores. The CLI
	// uses it for one-shot evaluations.
	Offline bool
}

// New wires every collaborator and loads the initial rule set.
func New(ctx context.Context, opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = system.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		cfg:      cfg,
		logger:   opts.Logger,
		ruleRepo: memory.NewRuleRepository(nil),
		metrics:  metrics.New(),
	}

	source, err := rulesource.New(ctx, cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("rule source: %w", err)
	}
	c.source = source

	parser, err := config.NewRuleSetParser()
	if err != nil {
		return nil, err
	}
	c.ruleSets = services.NewRuleSetService(source, parser, c.ruleRepo, c.metrics, c.logger)

	evalOpts := []services.EvaluateOption{services.WithMetrics(c.metrics)}

	if err := c.wireAudit(ctx, opts.Offline); err != nil {
		_ = c.Close()
		return nil, err
	}
	if c.records != nil {
		evalOpts = append(evalOpts, services.WithAuditTrail(c.records, cfg.Audit.Required))
	}

	if !opts.Offline {
		sideEffects, err := c.wireSideEffects(ctx)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		evalOpts = append(evalOpts, sideEffects...)
	}

	c.evaluate = services.NewEvaluateOrderUseCase(
		c.ruleRepo,
		domainservices.NewComplianceEvaluator(),
		c.logger,
		evalOpts...,
	)
	c.history = services.NewEvaluationHistoryService(c.records)

	if _, err := c.ruleSets.Reload(ctx, dto.ReloadRuleSetRequest{
		Metadata: dto.RequestMetadata{Principal: dto.SystemPrincipal()},
	}); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wireAudit(ctx context.Context, offline bool) error {
	driver := c.cfg.Audit.Driver
	if offline && driver != system.AuditNone {
		driver = system.AuditMemory
	}

	switch driver {
	case system.AuditNone:
		return nil
	case system.AuditMemory:
		c.records = memory.NewEvaluationRecordRepository()
	case system.AuditSQLite:
		repo, err := sqlite.Open(ctx, c.cfg.Audit.DSN)
		if err != nil {
			return err
		}
		c.records = repo
		c.closers = append(c.closers, repo.Close)
	case system.AuditPostgres:
		repo, err := retry.Do(ctx, retry.DefaultPolicy, c.logger, "open postgres audit store",
			func(ctx context.Context) (*postgres.EvaluationRecordRepository, error) {
				return postgres.Open(ctx, c.cfg.Audit.DSN)
			})
		if err != nil {
			return err
		}
		c.records = repo
		c.closers = append(c.closers, repo.Close)
	default:
		return fmt.Errorf("unknown audit driver %q", driver)
	}
	c.logger.Debug("audit trail configured", "driver", driver)
	return nil
}

func (c *Container) wireSideEffects(ctx context.Context) ([]services.EvaluateOption, error) {
	var opts []services.EvaluateOption

	if url := c.cfg.Cache.RedisURL; url != "" {
		rc, err := retry.Do(ctx, retry.DefaultPolicy, c.logger, "dial redis",
			func(ctx context.Context) (*cache.RedisCache, error) {
				return cache.Dial(ctx, url, cache.WithTTL(c.cfg.Cache.TTL))
			})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rc.Close)
		opts = append(opts, services.WithResultCache(rc))
	}

	var publisher ports.EventPublisher = events.NewLogPublisher(c.logger)
	if len(c.cfg.Events.Brokers) > 0 {
		kp, err := events.DialKafka(c.cfg.Events.Brokers, c.cfg.Events.Topic)
		if err != nil {
			return nil, err
		}
		publisher = kp
	}
	c.closers = append(c.closers, publisher.Close)
	opts = append(opts, services.WithEventPublisher(publisher))

	return opts, nil
}

// EvaluateOrder returns the evaluate order use case.
func (c *Container) EvaluateOrder() *services.EvaluateOrderUseCase {
	return c.evaluate
}

// RuleSets returns the rule set service.
func (c *Container) RuleSets() *services.RuleSetService {
	return c.ruleSets
}

// History returns the audit trail reader.
func (c *Container) History() *services.EvaluationHistoryService {
	return c.history
}

// RuleRepository returns the active snapshot holder.
func (c *Container) RuleRepository() repositories.RuleRepository {
	return c.ruleRepo
}

// Metrics returns the Prometheus instrumentation.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Config returns the service configuration.
func (c *Container) Config() *system.Config {
	return c.cfg
}

// Logger returns the logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// HTTPHandler builds the API router.
func (c *Container) HTTPHandler() http.Handler {
	var history httpapi.HistoryReader
	if c.records != nil {
		history = c.history
	}
	h := httpapi.NewHandler(c.evaluate, c.ruleSets, history, c.logger)

	rc := httpapi.RouterConfig{
		Metrics:        c.metrics.Handler(),
		Logger:         c.logger,
		Timeout:        c.cfg.Server.WriteTimeout,
		LocalPrincipal: dto.Principal{Subject: "local", Roles: []string{dto.RoleEvaluator}},
	}
	if c.cfg.Auth.Enabled {
		rc.Validator = httpapi.NewTokenService(c.cfg.Auth.HMACSecret, c.cfg.Auth.Issuer, c.cfg.Auth.Audience)
	}
	return httpapi.NewRouter(h, rc)
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
