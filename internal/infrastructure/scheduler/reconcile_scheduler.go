package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appcivic "github.com/civicconnect/backend/internal/application/civic"
)

// Reconciler runs a full reconciliation pass over every representative
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*appcivic.ReconcileReport, error)
}

// ReconcileSchedulerConfig holds configuration for the background
// reconciliation loop
type ReconcileSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is the time between reconciliation passes
	Interval time.Duration
	// RunTimeout is the maximum time a single pass can run
	RunTimeout time.Duration
}

// DefaultReconcileSchedulerConfig returns default scheduler configuration
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		Enabled:    true,
		Interval:   15 * time.Minute,
		RunTimeout: 5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *ReconcileSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.RunTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ReconcileScheduler periodically reconciles outstanding forms against the
// response source. One pass runs at a time; a manual trigger between ticks
// shares the same loop so passes never overlap.
type ReconcileScheduler struct {
	config     ReconcileSchedulerConfig
	reconciler Reconciler
	logger     *zap.Logger

	trigger   chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// last pass outcome for monitoring
	reportMu   sync.RWMutex
	lastReport *appcivic.ReconcileReport
	lastError  error
	lastRunAt  time.Time
}

// NewReconcileScheduler creates a new reconciliation scheduler
func NewReconcileScheduler(config ReconcileSchedulerConfig, reconciler Reconciler, logger *zap.Logger) (*ReconcileScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ReconcileScheduler{
		config:     config,
		reconciler: reconciler,
		logger:     logger,
		trigger:    make(chan struct{}, 1),
	}, nil
}

// Start starts the scheduler loop
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Reconciliation scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconciliation scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow requests an immediate pass. A trigger while one is already
// queued is coalesced.
func (s *ReconcileScheduler) TriggerNow() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

// PassOutcome captures the result of the most recent reconciliation pass.
// RanAt is zero until the first pass completes.
type PassOutcome struct {
	Report *appcivic.ReconcileReport
	RanAt  time.Time
	Err    error
}

// LastOutcome returns the result of the most recent pass
func (s *ReconcileScheduler) LastOutcome() PassOutcome {
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	return PassOutcome{Report: s.lastReport, RanAt: s.lastRunAt, Err: s.lastError}
}

// loop drives the periodic and manually triggered passes
func (s *ReconcileScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// initial pass so a restart converges without waiting a full interval
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.trigger:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single reconciliation pass with the configured timeout
func (s *ReconcileScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	started := time.Now()
	report, err := s.reconciler.ReconcileAll(runCtx)

	s.reportMu.Lock()
	s.lastReport = report
	s.lastError = err
	s.lastRunAt = started
	s.reportMu.Unlock()

	if err != nil {
		s.logger.Error("Reconciliation pass failed",
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Reconciliation pass finished",
		zap.Int("representatives_checked", report.RepresentativesChecked),
		zap.Int("forms_checked", report.FormsChecked),
		zap.Int("updated", report.UpdatedCount),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", time.Since(started)),
	)
}
