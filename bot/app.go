// Package bot assembles the pager bot from the reusable core.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/m3rciful/pagerbot/bot/menu"
	"github.com/m3rciful/pagerbot/core/bootstrap"
	"github.com/m3rciful/pagerbot/core/journal"
	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/metrics"
	coretelegram "github.com/m3rciful/pagerbot/core/telegram"
	"github.com/m3rciful/pagerbot/core/telegram/events"
	"github.com/m3rciful/pagerbot/core/telegram/router"
)

// App holds everything the bot needs at runtime.
type App struct {
	cfg *Config
	db  *sqlx.DB

	promRegistry  *prometheus.Registry
	metrics       *metrics.Metrics
	metricsServer *metrics.Server

	commands   *coretelegram.Registry
	dispatcher *router.Dispatcher
	journal    *journal.Recorder
}

// Bootstrap initialises logging and the optional database, then builds the handler chain.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}
	res, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return newApp(cfg, res.DB), nil
}

func newApp(cfg *Config, db *sqlx.DB) *App {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	commands := coretelegram.NewRegistry()
	menu.RegisterCommands(commands)

	dispatcher := router.NewDispatcher(
		menu.NewTextCommandHandler(menu.TextOptions{
			Pages:       cfg.Pager.Pages,
			Registry:    commands,
			HomeLabel:   cfg.Pager.HomeLabel,
			ReplyLabels: cfg.Pager.ReplyLabels,
		}),
		menu.NewCallbackActionHandler(menu.CallbackOptions{
			Pages:   cfg.Pager.Pages,
			Metrics: m,
		}),
	).WithMetrics(m)

	app := &App{
		cfg:          cfg,
		db:           db,
		promRegistry: promRegistry,
		metrics:      m,
		commands:     commands,
		dispatcher:   dispatcher,
	}
	if cfg.Metrics.Listen != "" {
		app.metricsServer = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path, promRegistry)
	}
	if db != nil {
		app.journal = journal.NewRecorder(journal.NewSQLStore(db), cfg.Pager.JournalBuffer, m)
	}
	return app
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := &a.cfg.Config
	return coretelegram.RunOptions{
		Config:        core,
		Registry:      a.commands,
		Metrics:       a.metrics,
		SenderOptions: coretelegram.SenderOptionsFrom(core),
		Middlewares:   coretelegram.DefaultMiddlewares(core, a.metrics),
		BuildRoutes: func(rt coretelegram.Runtime) []coretelegram.Route {
			return router.Routes(router.RouteOptions{
				Dispatcher:   a.dispatcher,
				Outbox:       rt.Outbox,
				OnDispatched: a.recordDispatch,
			})
		},
		OnStart: a.start,
		OnStop:  a.stop,
	}, nil
}

func (a *App) start(ctx context.Context, _ coretelegram.Runtime) error {
	if a.metricsServer != nil {
		a.metricsServer.Start(ctx)
	}
	logger.Info(ctx, logger.CompApp, "app.wired",
		slog.Any("handlers", a.dispatcher.Handlers()),
		slog.Int("pages", a.cfg.Pager.Pages),
		slog.Bool("journal", a.journal != nil),
		slog.Bool("metrics", a.metricsServer != nil),
	)
	return nil
}

func (a *App) stop(ctx context.Context, _ coretelegram.Runtime) error {
	var g errgroup.Group
	if a.metricsServer != nil {
		g.Go(func() error {
			if err := a.metricsServer.Shutdown(ctx); err != nil {
				return fmt.Errorf("metrics shutdown: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if a.journal != nil {
			a.journal.Close()
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				return fmt.Errorf("db close: %w", err)
			}
		}
		return nil
	})
	return g.Wait()
}

// recordDispatch appends a routed event to the journal when it is enabled.
func (a *App) recordDispatch(ctx context.Context, ev events.Inbound, res router.Result) {
	if a.journal == nil {
		return
	}
	a.journal.Submit(ctx, journalEntry(ev, res, a.cfg.Pager.Pages))
}

func journalEntry(ev events.Inbound, res router.Result, pages int) journal.Entry {
	entry := journal.Entry{
		UpdateID:      ev.UpdateID,
		ChatID:        ev.ChatID,
		EventKind:     ev.Kind.String(),
		Handler:       res.Handler,
		OutboundCount: len(res.Actions),
	}
	if ev.IsCallback() {
		entry.Payload = ev.Payload
		entry.Action, entry.TargetPage = menu.Outcome(ev.Payload, pages)
	}
	return entry
}
