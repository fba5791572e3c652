package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appfoundry/apikit/internal/logger"
	"github.com/appfoundry/apikit/internal/stubserver"
	"github.com/appfoundry/apikit/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "stubd",
		Short: "Local stub API server",
		Long:  `A stand-in backend for local development: fixed dev login, echo endpoint, and routes that fail on purpose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := stubserver.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return err
	}

	log := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	server, err := stubserver.NewServer(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("failed to create server: %v", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Error(fmt.Sprintf("server error: %v", err))
		return err
	}

	log.Info("server shutdown complete")
	return nil
}
