package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"BandWatch/internal/collector"
	"BandWatch/internal/config"
	"BandWatch/internal/notifier"
	"BandWatch/internal/pipeline"
	"BandWatch/internal/recorder"
)

// app holds the wired components shared by both commands.
type app struct {
	Config   *config.Config
	Logger   *zap.Logger
	Pipeline *pipeline.Pipeline
	Options  pipeline.Options
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.File = inputFile
	}
	if flags.Changed("output") {
		cfg.Output.File = outputFile
	}
	if flags.Changed("round-trip") {
		cfg.Output.RoundTrip = roundTrip
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.RequestsPerSecond)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RequestsPerSecond)
	}
	logger.Info("data source", zap.String("name", fetcher.Name()))

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}

	a := &app{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline.New(collector.NewCollector(fetcher, logger), rec, logger),
		Options:  pipeline.OptionsFromConfig(cfg),
		Recorder: rec,
	}
	if cfg.TelegramEnabled() {
		a.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}
	return a, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zc.Build()
}

func (a *app) notify(ctx context.Context, text string) {
	if a.Notifier == nil {
		return
	}
	if err := a.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		a.Logger.Error("send notification", zap.Error(err))
	}
}

// Close releases the recorder and flushes the logger.
func (a *app) Close() {
	if err := a.Recorder.Close(); err != nil {
		a.Logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
