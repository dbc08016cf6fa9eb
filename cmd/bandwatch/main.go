package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"BandWatch/internal/notifier"
	"BandWatch/internal/scheduler"
)

var (
	cfgPath    string
	inputFile  string
	outputFile string
	roundTrip  bool
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bandwatch",
		Short:         "Support/resistance bands for a list of stocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runOnce,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "path to the YAML config file")
	root.PersistentFlags().StringVar(&inputFile, "input", "", "input workbook (overrides input.file)")
	root.PersistentFlags().StringVar(&outputFile, "output", "", "output workbook (overrides output.file)")
	root.PersistentFlags().BoolVar(&roundTrip, "round-trip", false, "write and re-read intermediate workbooks")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the band update once",
		RunE:  runOnce,
	})
	root.AddCommand(&cobra.Command{
		Use:   "schedule",
		Short: "Run the band update on the configured cron schedule",
		RunE:  runSchedule,
	})
	return root
}

func runOnce(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := a.Pipeline.Run(ctx, a.Options)
	if err != nil {
		a.Logger.Error("band update failed", zap.Error(err))
		a.notify(ctx, notifier.FormatFailure(err))
		return err
	}
	a.notify(ctx, notifier.FormatRunReport(res))
	return nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender scheduler.Sender
	if a.Notifier != nil {
		sender = a.Notifier
	}
	sched := scheduler.NewScheduler(ctx, a.Pipeline, a.Options, sender, a.Logger)
	if err := sched.Register(a.Config.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.Notifier != nil {
		go a.Notifier.StartPolling(ctx, sched.HandleCommand)
		a.Logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		a.Logger.Info("RUN_ON_START enabled, running now")
		go sched.RunNow()
	}

	a.Logger.Info("BandWatch is running, press Ctrl+C to stop", zap.String("cron", a.Config.Schedule.Cron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.Logger.Info("shutdown signal received, stopping")
	cancel()
	return nil
}
