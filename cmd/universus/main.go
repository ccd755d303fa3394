package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/universus/universus/internal/api"
	"github.com/universus/universus/internal/config"
	"github.com/universus/universus/internal/ratelimit"
	"github.com/universus/universus/internal/service"
	"github.com/universus/universus/internal/store"
	"github.com/universus/universus/internal/updater"
	"github.com/universus/universus/internal/version"
)

const usage = `Usage: universus [flags] <command> [command flags]

Commands:
  worlds                      List datacenters and their worlds
  init        -world W        Seed tracking from the busiest recent items
  track       -world W -item N   Track an item
  untrack     -world W -item N   Stop tracking an item
  list        [-world W]      List tracked items
  update      -world W        Refresh all tracked items on a world
  top         -world W        Show top sellers by sale velocity
  report      -world W -item N   Show snapshot history and trends
  sync-items                  Refresh the item-name table
  serve                       Run the JSON HTTP server
  version                     Print version information

Flags:
`

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply if absent)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "version" {
		fmt.Println("universus", version.String())
		return
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Context cancelled on shutdown signals; cancellation is checked
	// between batch items, in-flight requests finish on their own.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.run(ctx, args[0], args[1:]); err != nil {
		logger.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

// app is the composition root: one store, one rate limiter, one API client
// per process, shared by every command path.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	client  *api.Client
	service *service.Service
	updater *updater.Updater
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	st, err := store.Open(cfg.Database.Path,
		store.WithBusyTimeout(cfg.Database.BusyTimeout),
		store.WithLogger(logger),
		store.WithMkdirAll(),
	)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(cfg.API.RateLimit, cfg.API.BurstSize)

	client := api.NewClient(cfg.API.BaseURL, limiter,
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithLogger(logger),
	)

	svc := service.New(st, client, logger, cfg.Database.CacheMaxAge)

	upd := updater.New(updater.Config{
		BatchSize:      cfg.Updater.BatchSize,
		WorkerCount:    cfg.Updater.WorkerCount,
		HistoryEntries: cfg.API.HistoryEntries,
	}, client, st, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		client:  client,
		service: svc,
		updater: upd,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "worlds":
		return a.runWorlds(ctx)
	case "init":
		return a.runInit(ctx, args)
	case "track":
		return a.runTrack(ctx, args)
	case "untrack":
		return a.runUntrack(ctx, args)
	case "list":
		return a.runList(ctx, args)
	case "update":
		return a.runUpdate(ctx, args)
	case "top":
		return a.runTop(ctx, args)
	case "report":
		return a.runReport(ctx, args)
	case "sync-items":
		return a.runSyncItems(ctx)
	case "serve":
		return a.runServe(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
