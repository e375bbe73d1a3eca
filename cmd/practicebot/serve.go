package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/observability"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/server"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gate over HTTP and WebSocket",
		Long: `Expose the gate to annotation tooling and the web chat client:
POST /api/gate/decide, GET /api/templates, GET /api/personas,
GET /api/chat/ws, plus /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAppWithMetrics(flags)
			if err != nil {
				return err
			}

			tracer, err := observability.NewTracerProvider(observability.TracingConfig{
				Enabled:        a.cfg.Obs.TracingEnabled,
				Exporter:       a.cfg.Obs.TracingExporter,
				OTLPEndpoint:   a.cfg.Obs.OTLPEndpoint,
				ZipkinEndpoint: a.cfg.Obs.ZipkinEndpoint,
				SampleRate:     a.cfg.Obs.SampleRate,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracer.Shutdown(shutdownCtx)
			}()

			client, err := a.newLLMClient()
			if err != nil {
				return err
			}

			serverConfig := server.DefaultConfig()
			serverConfig.Host = a.cfg.Server.Host
			serverConfig.Port = a.cfg.Server.Port
			serverConfig.AllowedOrigins = a.cfg.Server.AllowedOrigins
			if host != "" {
				serverConfig.Host = host
			}
			if port > 0 {
				serverConfig.Port = port
			}

			srv, err := server.New(serverConfig, server.Deps{
				Gate:    a.gate,
				LLM:     client,
				Persona: a.cfg.Persona,
				Metrics: a.metrics,
				Tracer:  tracer,
				Logger:  a.logger,
				Seed:    a.cfg.Seed,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				fmt.Printf("\n%s %v, shutting down\n", gray("signal"), sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}

// buildAppWithMetrics builds the app with a metrics observer attached to
// the gate. The observer has to exist before gate construction, so serve
// always runs with metrics on.
func buildAppWithMetrics(flags *rootFlags) (*app, error) {
	metrics, err := observability.NewMetrics(observability.MetricsConfig{Enabled: true})
	if err != nil {
		return nil, err
	}

	a, err := buildApp(flags, gate.WithObserver(metrics))
	if err != nil {
		return nil, err
	}
	a.metrics = metrics
	return a, nil
}
