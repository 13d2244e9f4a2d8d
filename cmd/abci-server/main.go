// Command abci-server runs a standalone ABCI connection engine serving the
// counter sample application.
//
// Usage:
//
//	abci-server serve                          # defaults: 0.0.0.0:26658
//	ABCI_PORT=26660 abci-server serve --serial
//	go build -o abci-server ./cmd/abci-server && ./abci-server serve
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeeves-cluster-organization/abci-core/abci"
	"github.com/jeeves-cluster-organization/abci-core/abci/config"
	"github.com/jeeves-cluster-organization/abci-core/abci/healthserver"
	"github.com/jeeves-cluster-organization/abci-core/abci/observability"
	"github.com/jeeves-cluster-organization/abci-core/abci/sample/counter"
)

// stdLogger implements abci.Logger using the standard library logger.
type stdLogger struct{}

func (l *stdLogger) Debug(msg string, keysAndValues ...any) {
	log.Printf("[DEBUG] %s %v", msg, keysAndValues)
}
func (l *stdLogger) Info(msg string, keysAndValues ...any) {
	log.Printf("[INFO] %s %v", msg, keysAndValues)
}
func (l *stdLogger) Warn(msg string, keysAndValues ...any) {
	log.Printf("[WARN] %s %v", msg, keysAndValues)
}
func (l *stdLogger) Error(msg string, keysAndValues ...any) {
	log.Printf("[ERROR] %s %v", msg, keysAndValues)
}

func main() {
	var configPath string
	var serial bool

	root := &cobra.Command{
		Use:   "abci-server",
		Short: "Standalone ABCI connection engine running the counter sample application",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (optional; env vars always take precedence)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the ABCI server and block until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, serial)
		},
	}
	serve.Flags().BoolVar(&serial, "serial", false, "require deliver_tx values to be strictly sequential")

	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		log.Fatalf("abci-server: %v", err)
	}
}

func runServe(configPath string, serial bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := &stdLogger{}
	logger.Info("abci_server_starting", "host", cfg.Host, "port", cfg.Port)

	if cfg.TracingEndpoint != "" {
		shutdown, err := observability.InitTracer(cfg.ServiceName, cfg.TracingEndpoint)
		if err != nil {
			logger.Warn("tracing_init_failed", "error", err.Error())
		} else {
			defer shutdown(context.Background())
		}
	}

	app := counter.New(logger, serial)
	server := abci.NewServer(abci.SingleApplication{App: app}, logger, abci.ServerOptions{
		CloseTimeout:   cfg.CloseTimeout,
		SelfStopOnIdle: cfg.SelfStopOnIdle,
	})

	if err := server.Start(cfg.Host, cfg.Port); err != nil {
		return err
	}

	var health *healthserver.Server
	if cfg.AdminAddr != "" {
		health = healthserver.New()
		if err := health.Start(cfg.AdminAddr); err != nil {
			logger.Warn("health_server_start_failed", "error", err.Error())
		} else {
			health.SetServing(true)
			logger.Info("health_server_started", "addr", cfg.AdminAddr)
			defer health.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown_signal_received", "signal", sig.String())

	if health != nil {
		health.SetServing(false)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CloseTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Warn("server_stop_incomplete", "error", err.Error())
		return err
	}
	logger.Info("abci_server_stopped")
	return nil
}
