package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"coursecal/internal/config"
	applog "coursecal/internal/log"
	"coursecal/internal/pipeline"
	"coursecal/internal/web"
)

// flagConfig holds CLI flag values; non-empty values override the config
// file.
type flagConfig struct {
	configPath string
	input      string
	output     string
	listen     string
	watch      bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		// Logger is not up yet; fall back to stderr.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if flags.input != "" {
		conf.Input = flags.input
	}
	if flags.output != "" {
		conf.Output = flags.output
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	logger, err := applog.New(conf.LogLevel)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("coursecal starting",
		zap.String("input", conf.Input),
		zap.String("output", conf.Output),
		zap.String("listen", conf.Listen),
		zap.Bool("watch", flags.watch),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	pipe := pipeline.New(conf, logger)

	switch {
	case conf.Listen != "":
		runServer(ctx, conf, pipe, logger)
	case flags.watch:
		runWatch(ctx, conf, pipe, logger)
	default:
		if err := runOnce(ctx, conf, pipe, logger); err != nil {
			logger.Error("conversion failed", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("coursecal exiting")
}

// runOnce executes a single conversion and writes the calendar document.
func runOnce(ctx context.Context, conf *config.Config, pipe *pipeline.Pipeline, logger *zap.Logger) error {
	res, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		logger.Warn("parse warning", zap.Int("row", w.Row), zap.String("message", w.Message))
	}

	if err := os.WriteFile(conf.Output, res.ICS, 0o644); err != nil {
		return err
	}

	logger.Info("calendar written",
		zap.String("path", conf.Output),
		zap.Int("events", len(res.Events)),
	)
	return nil
}

// runWatch re-runs the conversion on the configured cron schedule until
// the context is canceled. An initial conversion runs immediately.
func runWatch(ctx context.Context, conf *config.Config, pipe *pipeline.Pipeline, logger *zap.Logger) {
	if err := runOnce(ctx, conf, pipe, logger); err != nil {
		logger.Error("initial conversion failed", zap.Error(err))
	}

	c := cron.New()
	_, err := c.AddFunc(conf.RefreshCron, func() {
		if err := runOnce(ctx, conf, pipe, logger); err != nil {
			logger.Error("scheduled conversion failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("invalid refresh cron expression",
			zap.String("refresh", conf.RefreshCron), zap.Error(err))
		return
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
}

// runServer exposes the subscription endpoints until the context is
// canceled.
func runServer(ctx context.Context, conf *config.Config, pipe *pipeline.Pipeline, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    conf.Listen,
		Handler: web.NewServer(conf, pipe, logger).Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("subscription server listening", zap.String("listen", conf.Listen))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", zap.Error(err))
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "coursecal.yaml", "Path to config file")
	flag.StringVar(&cfg.input, "in", "", "Schedule export path or URL (overrides config)")
	flag.StringVar(&cfg.output, "out", "", "Output .ics path (overrides config)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for the subscription server")
	flag.BoolVar(&cfg.watch, "watch", false, "Re-run the conversion on the configured cron schedule")

	flag.Parse()

	return cfg
}
