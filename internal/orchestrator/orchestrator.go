package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/logging"
)

// Config tunes a run.
type Config struct {
	// OverallBudget is the wall-clock budget for the whole run; progress
	// events report minutes remaining against it.
	OverallBudget time.Duration `json:"overall_budget"`

	// TickInterval is the progress emission cadence.
	TickInterval time.Duration `json:"tick_interval"`

	// StrictQuality aborts the run on any quality-threshold miss instead
	// of recording a warning.
	StrictQuality bool `json:"strict_quality"`
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		OverallBudget: 30 * time.Minute,
		TickInterval:  2 * time.Second,
	}
}

// Orchestrator sequences phases. One Orchestrator may serve many runs, but
// never the same run concurrently; every Run call owns its own state.
type Orchestrator struct {
	cfg      Config
	logger   *logging.Logger
	reporter *Reporter
	metrics  *Metrics
}

// New returns an Orchestrator. The reporter and metrics may be nil.
func New(cfg Config, logger *logging.Logger, reporter *Reporter, metrics *Metrics) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.OverallBudget <= 0 {
		cfg.OverallBudget = DefaultConfig().OverallBudget
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	return &Orchestrator{cfg: cfg, logger: logger, reporter: reporter, metrics: metrics}
}

// workOutcome carries a work function's return across the deadline race.
type workOutcome struct {
	output  any
	quality float64
	err     error
}

// tracker is the snapshot the progress ticker reads. Guarded by mu; the
// run loop writes, the ticker goroutine reads.
type tracker struct {
	mu          sync.Mutex
	phaseIndex  int
	phaseName   string
	phaseStart  time.Time
	phaseBudget time.Duration
	completed   int
}

func (t *tracker) enter(index int, phase Phase, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phaseIndex = index
	t.phaseName = phase.Name
	t.phaseStart = now
	t.phaseBudget = phase.TimeBudget
}

func (t *tracker) complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed++
}

// snapshot builds a progress event from the tracker at time now.
func (t *tracker) snapshot(totalPhases int, startedAt, now time.Time, overallBudget time.Duration) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	phasePercent := 0.0
	if t.phaseBudget > 0 && !t.phaseStart.IsZero() {
		phasePercent = now.Sub(t.phaseStart).Seconds() / t.phaseBudget.Seconds() * 100
		if phasePercent > 100 {
			phasePercent = 100
		}
	}

	share := 100 / float64(totalPhases)
	overall := float64(t.completed)*share + phasePercent/100*share
	if overall > 100 {
		overall = 100
	}

	elapsed := now.Sub(startedAt)
	remaining := overallBudget - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return Event{
		PhaseIndex:     t.phaseIndex,
		PhaseName:      t.phaseName,
		PhasePercent:   phasePercent,
		OverallPercent: overall,
		Elapsed:        elapsed,
		Remaining:      remaining,
	}
}

// Run executes the phases strictly in order. Each phase races its work
// function against the phase deadline; a deadline win is fatal. Context
// cancellation is cooperative and observed only between phases.
func (o *Orchestrator) Run(ctx context.Context, phases []Phase, work []WorkFunc) ProcessResult {
	if len(phases) != len(work) {
		return ProcessResult{
			Success: false,
			Status:  StatusFailed,
			Issues: []Issue{{
				Severity: SeverityError,
				Message:  fmt.Sprintf("declared %d phases but %d work functions", len(phases), len(work)),
			}},
		}
	}
	for _, p := range phases {
		if err := p.Validate(); err != nil {
			return ProcessResult{
				Success: false,
				Status:  StatusFailed,
				Issues:  []Issue{{Severity: SeverityError, Phase: p.Name, Message: err.Error()}},
			}
		}
	}

	state := newProcessState(len(phases))
	state.StartedAt = time.Now()
	state.Status = StatusRunning

	var issues []Issue
	trk := &tracker{}

	tickerDone := make(chan struct{})
	var tickerWG sync.WaitGroup
	if o.reporter != nil {
		tickerWG.Add(1)
		go func() {
			defer tickerWG.Done()
			ticker := time.NewTicker(o.cfg.TickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-tickerDone:
					return
				case now := <-ticker.C:
					o.reporter.Publish(trk.snapshot(len(phases), state.StartedAt, now, o.cfg.OverallBudget))
				}
			}
		}()
	}
	stopTicker := func() {
		close(tickerDone)
		tickerWG.Wait()
	}

	for i, phase := range phases {
		// Cooperative cancellation, observed only between phases.
		select {
		case <-ctx.Done():
			state.Status = StatusCancelled
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Phase:    phase.Name,
				Message:  fmt.Sprintf("run cancelled before phase %s: %v", phase.Name, ctx.Err()),
			})
			stopTicker()
			return o.finish(ctx, state, len(phases), issues)
		default:
		}

		phaseStart := time.Now()
		trk.enter(i, phase, phaseStart)
		o.logger.Info(ctx, "phase started",
			zap.Int("phase_index", i),
			zap.String("phase", phase.Name),
			zap.Duration("budget", phase.TimeBudget),
		)

		phaseCtx, cancel := context.WithTimeout(ctx, phase.TimeBudget)
		outcomeCh := make(chan workOutcome, 1)
		prior := append([]PhaseResult(nil), state.Results...)
		fn := work[i]
		go func() {
			output, quality, err := fn(phaseCtx, prior)
			outcomeCh <- workOutcome{output: output, quality: quality, err: err}
		}()

		deadline := time.NewTimer(phase.TimeBudget)

		var outcome workOutcome
		var timedOut bool
		select {
		case outcome = <-outcomeCh:
		case <-deadline.C:
			timedOut = true
		}
		deadline.Stop()
		cancel()

		elapsed := time.Since(phaseStart)

		if timedOut {
			state.Status = StatusFailed
			issues = append(issues, Issue{
				Severity: SeverityError,
				Phase:    phase.Name,
				Message:  fmt.Sprintf("phase %s exceeded its %s time budget", phase.Name, phase.TimeBudget),
			})
			o.logger.Error(ctx, "phase timed out",
				zap.String("phase", phase.Name),
				zap.Duration("budget", phase.TimeBudget),
			)
			o.metrics.observePhase(phase.Name, elapsed, 0, "timeout")
			stopTicker()
			return o.finish(ctx, state, len(phases), issues)
		}

		if outcome.err != nil {
			state.Status = StatusFailed
			issues = append(issues, Issue{
				Severity: SeverityError,
				Phase:    phase.Name,
				Message:  fmt.Sprintf("phase %s failed: %v", phase.Name, outcome.err),
			})
			o.logger.Error(ctx, "phase failed",
				zap.String("phase", phase.Name),
				zap.Error(outcome.err),
			)
			o.metrics.observePhase(phase.Name, elapsed, outcome.quality, "error")
			stopTicker()
			return o.finish(ctx, state, len(phases), issues)
		}

		if outcome.quality < phase.QualityThreshold {
			issue := Issue{
				Severity: SeverityWarning,
				Phase:    phase.Name,
				Message: fmt.Sprintf("phase %s quality %.1f below threshold %.1f",
					phase.Name, outcome.quality, phase.QualityThreshold),
			}
			o.logger.Warn(ctx, "phase below quality threshold",
				zap.String("phase", phase.Name),
				zap.Float64("quality", outcome.quality),
				zap.Float64("threshold", phase.QualityThreshold),
			)
			if o.cfg.StrictQuality {
				issue.Severity = SeverityError
				issues = append(issues, issue)
				state.Status = StatusFailed
				o.metrics.observePhase(phase.Name, elapsed, outcome.quality, "quality_abort")
				stopTicker()
				return o.finish(ctx, state, len(phases), issues)
			}
			issues = append(issues, issue)
		}

		state.Results = append(state.Results, PhaseResult{
			Index:    i,
			Name:     phase.Name,
			Output:   outcome.output,
			Quality:  outcome.quality,
			Duration: elapsed,
		})
		state.CurrentPhase = i + 1
		trk.complete()
		o.metrics.observePhase(phase.Name, elapsed, outcome.quality, "completed")

		o.logger.Info(ctx, "phase completed",
			zap.String("phase", phase.Name),
			zap.Float64("quality", outcome.quality),
			zap.Duration("elapsed", elapsed),
		)
	}

	state.Status = StatusCompleted
	stopTicker()
	if o.reporter != nil {
		o.reporter.Publish(trk.snapshot(len(phases), state.StartedAt, time.Now(), o.cfg.OverallBudget))
	}
	return o.finish(ctx, state, len(phases), issues)
}

// finish assembles the terminal ProcessResult from the run state.
func (o *Orchestrator) finish(ctx context.Context, state *ProcessState, totalPhases int, issues []Issue) ProcessResult {
	elapsed := time.Since(state.StartedAt)
	final := finalQuality(state.Results, totalPhases)

	result := ProcessResult{
		Success:             state.Status == StatusCompleted,
		Status:              state.Status,
		TotalElapsed:        elapsed,
		FinalQuality:        final,
		ProductionReadiness: readiness(final, len(state.Results), totalPhases),
		Results:             state.Results,
		Issues:              issues,
		Recommendations:     recommend(issues, state.Status),
	}

	o.metrics.observeRun(string(state.Status), elapsed)
	o.logger.Info(ctx, "run finished",
		zap.String("status", string(state.Status)),
		zap.Bool("success", result.Success),
		zap.Float64("final_quality", result.FinalQuality),
		zap.Int("readiness", result.ProductionReadiness),
		zap.Int("completed_phases", len(state.Results)),
		zap.Duration("elapsed", elapsed),
	)
	return result
}

// recommend derives follow-up suggestions from the issues of a run.
func recommend(issues []Issue, status Status) []string {
	var recs []string
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityWarning:
			if issue.Phase != "" {
				recs = append(recs, fmt.Sprintf("review the %s phase output before shipping", issue.Phase))
			}
		case SeverityError:
			if issue.Phase != "" {
				recs = append(recs, fmt.Sprintf("re-run with a larger time budget for the %s phase", issue.Phase))
			}
		}
	}
	if status == StatusCancelled {
		recs = append(recs, "restart the run to complete the remaining phases")
	}
	return recs
}
