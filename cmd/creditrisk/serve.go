package main

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"credit-risk-lab/internal/api"
	"credit-risk-lab/internal/observability"
	"credit-risk-lab/internal/scoring"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve risk predictions over HTTP",
		Long: `Starts the scoring API:
  POST /features/  score a request and store it
  GET  /features/  list stored requests
  GET  /health     liveness
  GET  /status     counters
  GET  /metrics    Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cfg.Model.Path == "" {
				return errors.New("model path is required (--model or model.path)")
			}

			model, err := scoring.LoadModel(cfg.Model.Path)
			if err != nil {
				return err
			}

			stores, cleanup, err := createStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics("", registry)

			svc := scoring.NewModelService(model, stores.scoring,
				scoring.WithLogger(logger.Logger),
				scoring.WithMetrics(metrics),
			)

			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := api.NewServer(svc, metrics, logger.Logger)

			logger.Info("scoring api starting",
				"addr", cfg.Server.Addr,
				"backend", cfg.Storage.Backend,
				"model", cfg.Model.Path,
			)
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().String("model", "", "model artifact JSON (default: config model.path)")
	cmd.Flags().String("addr", "", "listen address (default: config server.addr)")

	return cmd
}
