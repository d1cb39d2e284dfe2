// Package app assembles the funnel bot from its parts: configuration,
// lead sink, funnel machine and the Telegram transport.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/miralteam/funnelbot/core/bootstrap"
	coreconfig "github.com/miralteam/funnelbot/core/config"
	coredatabase "github.com/miralteam/funnelbot/core/database"
	"github.com/miralteam/funnelbot/core/logger"
	tg "github.com/miralteam/funnelbot/core/telegram"
	"github.com/miralteam/funnelbot/core/telegram/middleware"
	"github.com/miralteam/funnelbot/core/telegram/router"
	"github.com/miralteam/funnelbot/internal/content"
	"github.com/miralteam/funnelbot/internal/funnel"
	"github.com/miralteam/funnelbot/internal/funnel/scheduler"
	"github.com/miralteam/funnelbot/internal/funnel/session"
	"github.com/miralteam/funnelbot/internal/lead"
	"log/slog"
)

// Run starts the bot and blocks until ctx is cancelled or the transport
// stops on its own.
func Run(ctx context.Context, cfg *Config) error {
	var dbCfg *coredatabase.Config
	if cfg.Leads.Backend == coreconfig.LeadsBackendPostgres {
		dbCfg = &cfg.Database
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: dbCfg,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Shutdown() }()
	if res.DB != nil {
		defer func() { _ = res.DB.Close() }()
	}

	sink, err := buildSink(ctx, cfg, res.DB)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	sessions := session.NewStore()
	sched := scheduler.New()
	gateway := NewTelegramGateway(cfg.Funnel.AssetsDir)
	machine := funnel.New(funnel.Config{
		FirstFollowupDelay: cfg.Funnel.FirstFollowupDelay,
		StepDelay:          cfg.Funnel.StepDelay,
	}, content.New(), sessions, sched, gateway, sink)

	reg := tg.NewRegistry()
	registerHandlers(reg, machine, sink)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		router.TextRoute(reg, router.TextOptions{}),
	)

	var middlewares []tg.Middleware
	if cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		middlewares = append(middlewares, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	logger.Info(ctx, "app", "start",
		slog.String("backend", cfg.Leads.Backend),
		slog.String("mode", cfg.Telegram.RunMode),
	)

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      &cfg.Config,
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			gateway.Bind(rt.Bot, rt.Dispatcher)
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			machine.Stop()
			logger.Info(ctx, "app", "stop")
			return nil
		},
	})
}

// buildSink selects the lead sink backend from configuration.
func buildSink(ctx context.Context, cfg *Config, db *sqlx.DB) (lead.Sink, error) {
	switch cfg.Leads.Backend {
	case coreconfig.LeadsBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("app: postgres leads backend selected but no database connected")
		}
		return lead.NewPostgresSink(db), nil
	case coreconfig.LeadsBackendSheets:
		return lead.NewSheetsSink(ctx, cfg.Leads.SpreadsheetID, cfg.Leads.CredentialsFile)
	case coreconfig.LeadsBackendSQLite:
		return lead.NewSQLiteSink(cfg.Leads.SQLitePath)
	default:
		return nil, fmt.Errorf("app: unknown leads backend %q", cfg.Leads.Backend)
	}
}
