package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"BandWatch/internal/notifier"
	"BandWatch/internal/pipeline"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler triggers pipeline runs on a cron schedule and on command.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Options  pipeline.Options
	Notifier Sender
	Logger   *zap.Logger
	Ctx      context.Context

	mu      sync.Mutex
	running bool
	last    *pipeline.Result
	lastErr error
}

// NewScheduler creates a new Scheduler. A nil notifier disables messages.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, opts pipeline.Options, n Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Options:  opts,
		Notifier: n,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// Register adds the run task under a six-field cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes a run immediately. It returns false if a run was already in
// progress.
func (s *Scheduler) RunNow() bool {
	return s.execute()
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Last returns the most recent result and error.
func (s *Scheduler) Last() (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}

func (s *Scheduler) runTask() {
	s.execute()
}

func (s *Scheduler) execute() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.Logger.Warn("run already in progress, trigger skipped")
		return false
	}
	s.running = true
	s.mu.Unlock()

	s.Logger.Info("running band update")
	res, err := s.Pipeline.Run(s.Ctx, s.Options)

	s.mu.Lock()
	s.running = false
	s.lastErr = err
	if err == nil {
		s.last = res
	}
	s.mu.Unlock()

	if err != nil {
		s.Logger.Error("band update failed", zap.Error(err))
		s.trySend(notifier.FormatFailure(err))
		return true
	}
	s.trySend(notifier.FormatRunReport(res))
	return true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		if s.Running() {
			return "⏳ A run is already in progress."
		}
		go s.execute()
		return "▶️ Run started."
	case "/status":
		res, err := s.Last()
		switch {
		case s.Running():
			return "⏳ A run is in progress."
		case err != nil:
			return notifier.FormatFailure(err)
		case res == nil:
			return "No run has completed yet."
		default:
			return notifier.FormatRunReport(res)
		}
	default:
		return "Available commands:\n• /run\n• /status"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
