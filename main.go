package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/sankhya-tui/app"
	"github.com/deevus/sankhya-tui/config"
	"github.com/deevus/sankhya-tui/internal"
	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/deevus/sankhya-tui/sankhya/client"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// teardownTimeout bounds the finalize-connections beacon on exit.
const teardownTimeout = 2 * time.Second

func main() {
	cliApp := &cli.App{
		Name:    "sankhya-tui",
		Usage:   "Terminal dashboard for the Sankhya production-order automation",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "server profile name from config",
				EnvVars: []string{"SANKHYA_TUI_SERVER"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Value:   config.DefaultPath(),
				EnvVars: []string{"SANKHYA_TUI_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to the log file (overrides config)",
				EnvVars: []string{"SANKHYA_TUI_LOG_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn, error (overrides config)",
				EnvVars: []string{"SANKHYA_TUI_LOG_LEVEL"},
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadFrom(c.String("config"))
	if err != nil {
		return err
	}

	serverName := c.String("server")
	if serverName == "" {
		names := cfg.ServerNames()
		if len(names) != 1 {
			return fmt.Errorf("multiple servers configured, use --server (available: %v)", names)
		}
		serverName = names[0]
	}
	serverCfg, ok := cfg.Servers[serverName]
	if !ok {
		return fmt.Errorf("server %q not found in config", serverName)
	}

	logFile := cfg.LogFile
	if v := c.String("log-file"); v != "" {
		logFile = v
	}
	levelName := cfg.LogLevel
	if v := c.String("log-level"); v != "" {
		levelName = v
	}
	level, err := internal.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger, logCloser, err := internal.NewLogger(logFile, level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	sessionID := uuid.NewString()
	logger = logger.With(slog.String("server", serverName), slog.String("session", sessionID))
	logger.Info("starting", "version", Version, "base_url", serverCfg.BaseURL)

	connect := func(ctx context.Context) (*internal.Services, error) {
		httpClient, err := client.NewHTTPClient(client.HTTPConfig{
			BaseURL:            serverCfg.BaseURL,
			APIPath:            serverCfg.APIPath,
			SessionID:          sessionID,
			InsecureSkipVerify: serverCfg.InsecureSkipVerify,
			RequestTimeout:     serverCfg.RequestTimeout.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("creating http client: %w", err)
		}
		streamer, err := client.NewWebSocketStreamer(client.StreamConfig{
			BaseURL:            serverCfg.BaseURL,
			EventsPath:         serverCfg.EventsPath,
			SessionID:          sessionID,
			InsecureSkipVerify: serverCfg.InsecureSkipVerify,
			Logger:             logger.With(slog.String("component", "events")),
		})
		if err != nil {
			return nil, fmt.Errorf("creating event streamer: %w", err)
		}
		logger.Debug("services ready", "api", httpClient.BaseURL(), "events", streamer.URL())

		svc := internal.NewServices(
			sankhya.NewAutomationService(httpClient),
			sankhya.NewEventService(streamer),
		)
		svc.SessionID = sessionID
		svc.BaseURL = httpClient.BaseURL()
		return svc, nil
	}

	root := app.New(app.Params{
		ServerName:    serverName,
		StaleTTL:      cfg.UI.StaleTTL.Duration,
		Connect:       connect,
		Logger:        logger,
		ExportDir:     cfg.Export.Dir,
		ExportFormat:  cfg.Export.Format,
		DefaultBranch: serverCfg.DefaultBranch,
		SplashDelay:   cfg.UI.SplashDelay.Duration,
		ToastTimeout:  cfg.UI.ToastTimeout.Duration,
	})

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return err
	}
	root.SetPostEvent(vxApp.PostEvent)

	runErr := vxApp.Run(root)

	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	root.Teardown(ctx)
	logger.Info("stopped")

	return runErr
}
