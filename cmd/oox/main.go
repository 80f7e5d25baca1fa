// Command oox is the terminal console for the OOX furniture workshop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/oox/furniture-console/internal/analytics"
	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/app"
	"github.com/oox/furniture-console/internal/auth"
	"github.com/oox/furniture-console/internal/confirm"
	"github.com/oox/furniture-console/internal/credential"
	"github.com/oox/furniture-console/internal/events"
	"github.com/oox/furniture-console/internal/logging"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/realtime"
	"github.com/oox/furniture-console/internal/warehouse"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "oox:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	apiURL := flag.String("api-url", "", "backend base URL (overrides the config file)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	logFile := flag.String("log-file", "", "log file path")
	logout := flag.Bool("logout", false, "forget the stored session and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return nil
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if cfg.Log.File == "" {
		cfg.Log.File = model.DefaultLogPath()
	}

	logger, closer, err := logging.Open(logging.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Version: version,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	client := api.NewClient(cfg.API.BaseURL, model.Interval(cfg.API.TimeoutSec), api.WithLogger(logger))
	creds := credential.Keyring{FileDir: filepath.Dir(*configPath)}
	session := auth.NewSession(client, creds, logger)

	if *logout {
		return session.Logout()
	}

	ctx, cancel := context.WithTimeout(context.Background(), model.Interval(cfg.API.TimeoutSec))
	if _, err := session.Restore(ctx); err != nil && !errors.Is(err, auth.ErrNoSession) {
		logger.Warn("restoring session", "error", err)
	}
	cancel()

	bus := events.NewBus()
	broker := confirm.NewBroker(bus,
		confirm.WithFallback(confirm.TerminalPrompt),
		confirm.WithLogger(logger))
	defer broker.Close()

	store := warehouse.NewStore(warehouse.State{})
	gate := realtime.NewGate(cfg.Notifications.Desktop, func(ctx context.Context) (bool, error) {
		return broker.Confirm(ctx, confirm.Options{
			Title:       "Desktop notifications",
			Message:     "Show urgent alerts as desktop notifications?",
			ConfirmText: "Allow",
			CancelText:  "Block",
		})
	}, realtime.WithGateLogger(logger))

	db, err := analytics.Open()
	if err != nil {
		return fmt.Errorf("opening analytics database: %w", err)
	}
	defer db.Close()

	logger.Info("starting", slog.String("api", client.BaseURL()), slog.Duration("updates", model.Interval(cfg.Polling.UpdatesIntervalSec)))
	start := time.Now()

	m := app.New(app.Deps{
		Config:        cfg,
		ConfigPath:    *configPath,
		Client:        client,
		Session:       session,
		Store:         store,
		Actions:       warehouse.NewActions(client, store, broker, logger),
		Notifications: warehouse.NewNotifications(client, store),
		Confirm:       broker,
		Gate:          gate,
		Bus:           bus,
		Analytics:     db,
		Logger:        logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}

	logger.Info("stopped", slog.Duration("uptime", time.Since(start)))
	return nil
}
