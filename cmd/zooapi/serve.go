package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"zooapi/internal/adapters/animals"
	"zooapi/internal/config"
	"zooapi/internal/core"
	"zooapi/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger, err := core.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := core.OpenPersistentStore(ctx, cfg.StorageConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()
	logger.Info("store opened", "driver", cfg.Storage.Driver, "animals", len(store.ListAnimals()))

	router := newRouter(cfg, store, logger, cmd)
	srv := server.New(router, server.Options{Addr: cfg.Addr(), Logger: logger})
	return srv.Run(ctx)
}

func newRouter(cfg config.Config, store core.PersistentStore, logger core.Logger, cmd *cobra.Command) *gin.Engine {
	opts := []core.Option{core.WithLogger(logger)}
	routerOpts := animals.RouterOptions{Logger: logger, ReadOnly: cfg.ReadOnly}
	switch cfg.Metrics {
	case config.MetricsPrometheus:
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(reg)))
		routerOpts.Gatherer = reg
	case config.MetricsExpvar:
		opts = append(opts, core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("")))
		routerOpts.Expvar = true
	}
	if cfg.Trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}
	routerOpts.Service = core.NewService(store, opts...)

	gin.SetMode(gin.ReleaseMode)
	return animals.NewRouter(routerOpts)
}
