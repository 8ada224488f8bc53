package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/account"
	"github.com/comigor/prepbuddy/internal/history"
	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/notify"
	"github.com/comigor/prepbuddy/internal/quiz"
	"github.com/comigor/prepbuddy/internal/relay"
	"github.com/comigor/prepbuddy/internal/server"
	"github.com/comigor/prepbuddy/internal/store"
	"github.com/comigor/prepbuddy/internal/telemetry"
	"github.com/comigor/prepbuddy/internal/tracker"
)

func newServeCmd() *cobra.Command {
	var opts struct {
		Host string
		Port string
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and assistant relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := bootstrap(os.Stdout)
			if err != nil {
				return err
			}
			defer closeLog()
			if opts.Host != "" {
				cfg.Server.Host = opts.Host
			}
			if opts.Port != "" {
				cfg.Server.Port = opts.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, version)
			if err != nil {
				return err
			}
			defer shutdownTelemetry()

			db, err := store.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if !cfg.Providers.Primary.Enabled() && !cfg.Providers.Secondary.Enabled() {
				logger.L.Warn("no AI provider configured, the assistant will answer from canned responses")
			}

			notifier := notify.New(cfg.Mail)
			srv := server.New(cfg.Server, server.Deps{
				Relay:      relay.NewFromConfig(cfg.Providers, cfg.Relay, relay.WithHistory(history.New(db))),
				Notifier:   notifier,
				Tracker:    tracker.New(db, notifier),
				Accounts:   account.New(db),
				Quizzes:    quiz.NewRepo(db),
				Interviews: interview.NewRepo(db),
			})
			return runServer(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&opts.Host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides server.port)")
	return cmd
}

func runServer(ctx context.Context, srv *server.Server) error {
	if err := srv.Run(ctx); err != nil {
		logger.L.Error("server stopped", "error", err)
		return err
	}
	logger.L.Info("server stopped")
	return nil
}
