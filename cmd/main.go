package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	glog "github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"pokedex/pkg/aggregator"
	"pokedex/pkg/config"
	"pokedex/pkg/metrics"
	"pokedex/pkg/server"
	"pokedex/pkg/upstream"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("pokedex failed", "err", err)
		os.Exit(1)
	}
}

// app is everything a command needs, built from config.
type app struct {
	cfg     *config.Config
	log     *log.Logger
	metrics *metrics.Collector
	agg     *aggregator.Aggregator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pokedex",
		Level:           cfg.Level(),
	})

	m := metrics.New()
	client, err := upstream.New(upstream.Options{
		BaseURL: cfg.UpstreamBaseURL,
		Timeout: cfg.UpstreamTimeout,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}

	agg := aggregator.New(client, aggregator.Config{
		Retry: upstream.Policy{
			Attempts:   cfg.RetryAttempts,
			Backoff:    cfg.RetryBackoff,
			MaxBackoff: cfg.RetryMaxBackoff,
			OnRetry: func(attempt int, err error) {
				logger.Debug("retrying upstream call", "attempt", attempt, "err", err)
			},
		},
		MaxChainSteps: cfg.MaxChainSteps,
		FanoutLimit:   cfg.FanoutLimit,
	}, m)

	return &app{cfg: cfg, log: logger, metrics: m, agg: agg}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pokedex",
		Short:         "Aggregation API in front of PokeAPI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}

	root.AddCommand(newListCmd(), newDetailCmd(), newTypeCmd())
	return root
}

func serve(parent context.Context, a *app) error {
	ctx, done := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer done()

	srv := server.NewServer(ctx, a.agg, server.Options{
		Logger:       a.log,
		Metrics:      a.metrics,
		DefaultLimit: a.cfg.DefaultPageLimit,
	})
	srv.Echo.Logger.SetLevel(echoLevel(a.cfg.Level()))

	finishedShutDown := make(chan struct{})
	go func() {
		defer close(finishedShutDown)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("shutdown failed", "err", err)
		}
	}()

	if err := srv.Start(a.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("server stopped", "err", err)
		done()
		<-finishedShutDown
		return err
	}
	<-finishedShutDown
	return nil
}

func echoLevel(l log.Level) glog.Lvl {
	switch {
	case l <= log.DebugLevel:
		return glog.DEBUG
	case l == log.InfoLevel:
		return glog.INFO
	case l == log.WarnLevel:
		return glog.WARN
	default:
		return glog.ERROR
	}
}
