// Package orchestrator runs a declared sequence of generation phases under
// a wall-clock budget, enforcing per-phase deadlines and quality gates and
// aggregating results into a production-readiness score.
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Phase declares one generation step. Declared statically; immutable.
type Phase struct {
	// Name identifies the phase in results, issues, and progress events.
	Name string `json:"name"`

	// TimeBudget bounds the phase's work function; exceeding it is fatal.
	TimeBudget time.Duration `json:"time_budget"`

	// QualityThreshold is the minimum acceptable quality score (0-100).
	// Falling short records a warning issue unless StrictQuality is set.
	QualityThreshold float64 `json:"quality_threshold"`

	// Checkpoints label the notable milestones inside the phase.
	Checkpoints []string `json:"checkpoints,omitempty"`
}

// Validate checks the phase declaration.
func (p Phase) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("phase name cannot be empty")
	}
	if p.TimeBudget <= 0 {
		return fmt.Errorf("phase %s: time budget must be positive", p.Name)
	}
	if p.QualityThreshold < 0 || p.QualityThreshold > 100 {
		return fmt.Errorf("phase %s: quality threshold must be 0-100, got %f", p.Name, p.QualityThreshold)
	}
	return nil
}

// WorkFunc performs one phase's work. It receives the immutable results of
// every prior phase and returns the phase output with its quality score
// (0-100). The context carries the phase deadline; work should honor it.
type WorkFunc func(ctx context.Context, prior []PhaseResult) (output any, quality float64, err error)

// PhaseResult is the immutable outcome of one completed phase.
type PhaseResult struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Output   any           `json:"output,omitempty"`
	Quality  float64       `json:"quality"`
	Duration time.Duration `json:"duration"`
}

// Status tracks the run lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// ProcessState is the mutable state of one run. It is created per Run call
// and owned exclusively by it; a single Orchestrator must not serve
// concurrent Run calls.
type ProcessState struct {
	StartedAt    time.Time     `json:"started_at"`
	CurrentPhase int           `json:"current_phase"`
	Results      []PhaseResult `json:"results"`
	Status       Status        `json:"status"`
}

func newProcessState(phaseCount int) *ProcessState {
	return &ProcessState{
		CurrentPhase: 0,
		Results:      make([]PhaseResult, 0, phaseCount),
		Status:       StatusIdle,
	}
}

// Severity grades an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue records a problem encountered during a run.
type Issue struct {
	Severity Severity `json:"severity"`
	Phase    string   `json:"phase"`
	Message  string   `json:"message"`
}

// ProcessResult is the terminal, immutable outcome of a run.
type ProcessResult struct {
	Success             bool          `json:"success"`
	Status              Status        `json:"status"`
	TotalElapsed        time.Duration `json:"total_elapsed"`
	FinalQuality        float64       `json:"final_quality"`
	ProductionReadiness int           `json:"production_readiness"`
	Results             []PhaseResult `json:"results"`
	Issues              []Issue       `json:"issues,omitempty"`
	Recommendations     []string      `json:"recommendations,omitempty"`
}

// finalQuality is the mean quality across completed phases. Defined only
// when every declared phase has a result; partial runs report 0.
func finalQuality(results []PhaseResult, totalPhases int) float64 {
	if totalPhases == 0 || len(results) < totalPhases {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Quality
	}
	return sum / float64(len(results))
}

// readiness blends final quality with phase completion: 70% quality,
// 30% completion ratio, rounded to the nearest integer.
func readiness(final float64, completed, total int) int {
	if total == 0 {
		return 0
	}
	completion := float64(completed) / float64(total) * 100
	return int(math.Round(0.7*final + 0.3*completion))
}
