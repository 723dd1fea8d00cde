package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/customize"
	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/logging"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/scoring"
)

// Options tunes one generation request.
type Options struct {
	// TimeBudget is the overall wall-clock budget; phase budgets scale
	// to fit it. Zero keeps the standard 30 minutes.
	TimeBudget time.Duration `json:"time_budget"`

	// Customize selects which template dimensions to adapt. The zero
	// value adapts everything.
	Customize *customize.Options `json:"customize,omitempty"`

	// StrictQuality aborts on any quality gate miss.
	StrictQuality bool `json:"strict_quality"`
}

// Request asks for one draft generation run.
type Request struct {
	ID      string       `json:"id"`
	Brief   design.Brief `json:"brief"`
	Options Options      `json:"options"`
}

// Service runs draft generation requests. Safe for concurrent use; every
// request gets its own orchestrator state.
type Service struct {
	logger     *logging.Logger
	catalog    []catalog.Candidate
	builder    *design.Builder
	customizer *customize.Customizer
	orchCfg    orchestrator.Config
	metrics    *orchestrator.Metrics
	natsConn   *nats.Conn
}

// NewService assembles a generation service. natsConn and metrics may be
// nil; catalog must be non-empty.
func NewService(
	logger *logging.Logger,
	cat []catalog.Candidate,
	customizer *customize.Customizer,
	orchCfg orchestrator.Config,
	metrics *orchestrator.Metrics,
	natsConn *nats.Conn,
) (*Service, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(cat) == 0 {
		return nil, fmt.Errorf("catalog cannot be empty")
	}
	if customizer == nil {
		customizer = customize.New(logger)
	}
	return &Service{
		logger:     logger,
		catalog:    cat,
		builder:    design.NewBuilder(logger),
		customizer: customizer,
		orchCfg:    orchCfg,
		metrics:    metrics,
		natsConn:   natsConn,
	}, nil
}

// Generate runs the full pipeline for one request. The returned
// ProcessResult is terminal; an error means the request never started.
func (s *Service) Generate(ctx context.Context, req Request) (orchestrator.ProcessResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	} else if err := logging.ValidateRunID(req.ID); err != nil {
		return orchestrator.ProcessResult{}, fmt.Errorf("invalid request id: %w", err)
	}
	if req.Brief.Text == "" {
		return orchestrator.ProcessResult{}, fmt.Errorf("brief text cannot be empty")
	}

	ctx = logging.WithRunID(ctx, req.ID)

	cfg := s.orchCfg
	if req.Options.TimeBudget > 0 {
		cfg.OverallBudget = req.Options.TimeBudget
	}
	cfg.StrictQuality = cfg.StrictQuality || req.Options.StrictQuality

	reporter := orchestrator.NewReporter(s.logger, 64)
	defer reporter.Close()
	reporter.Subscribe(orchestrator.NewLogObserver(s.logger))
	if s.natsConn != nil {
		reporter.Subscribe(orchestrator.NewNATSPublisher(s.natsConn, req.ID, s.logger))
	}

	phases := StandardPhases(cfg.OverallBudget)
	work := s.workFuncs(req)

	o := orchestrator.New(cfg, s.logger, reporter, s.metrics)
	result := o.Run(ctx, phases, work)

	s.publishCompletion(ctx, req.ID, result)
	return result, nil
}

// workFuncs builds the five phase work functions for one request. Each
// reads its typed inputs from the prior phase results.
func (s *Service) workFuncs(req Request) []orchestrator.WorkFunc {
	opts := customize.AllOptions()
	if req.Options.Customize != nil {
		opts = *req.Options.Customize
	}

	profile := func(ctx context.Context, _ []orchestrator.PhaseResult) (any, float64, error) {
		dctx, err := s.builder.Build(ctx, req.Brief)
		if err != nil {
			return nil, 0, err
		}
		return dctx, profileQuality(dctx), nil
	}

	selection := func(ctx context.Context, prior []orchestrator.PhaseResult) (any, float64, error) {
		dctx, err := profileFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		ranking := scoring.Rank(s.catalog, dctx)
		sel := Selection{Ranking: ranking}
		if len(ranking) == 0 {
			sel.Winner = catalog.Default()
			sel.Fallback = true
			s.logger.Warn(ctx, "empty ranking, using fallback candidate",
				zap.String("candidate_id", sel.Winner.ID))
		} else {
			sel.Winner = ranking[0].Candidate
		}
		return sel, selectionQuality(sel), nil
	}

	customization := func(ctx context.Context, prior []orchestrator.PhaseResult) (any, float64, error) {
		dctx, err := profileFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		sel, err := selectionFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		palette := design.PaletteFor(dctx.Tone)
		adapted := s.customizer.Customize(ctx, sel.Winner, dctx, palette, opts)
		return adapted, customizationQuality(adapted), nil
	}

	assembly := func(ctx context.Context, prior []orchestrator.PhaseResult) (any, float64, error) {
		dctx, err := profileFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		adapted, err := adaptedFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		draft := Draft{
			RunID:       req.ID,
			Profile:     dctx,
			Template:    adapted,
			Palette:     adapted.Colors,
			Sections:    buildSections(adapted.Components),
			GeneratedAt: time.Now().UTC(),
		}
		return draft, assemblyQuality(draft), nil
	}

	review := func(ctx context.Context, prior []orchestrator.PhaseResult) (any, float64, error) {
		draft, err := draftFrom(prior)
		if err != nil {
			return nil, 0, err
		}
		rev, quality := reviewDraft(draft)
		if !rev.Approved {
			s.logger.Warn(ctx, "review found issues",
				zap.Int("findings", len(rev.Findings)))
		}
		return rev, quality, nil
	}

	return []orchestrator.WorkFunc{profile, selection, customization, assembly, review}
}

// publishCompletion announces the terminal result on NATS, best-effort.
func (s *Service) publishCompletion(ctx context.Context, runID string, result orchestrator.ProcessResult) {
	if s.natsConn == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Error(ctx, "failed to marshal completion event", zap.Error(err))
		return
	}
	if err := s.natsConn.Publish(orchestrator.CompletedSubject(runID), data); err != nil {
		s.logger.Warn(ctx, "failed to publish completion event",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
}

// Typed accessors over the orchestrator's untyped phase outputs. The
// pipeline owns both sides, so a failed assertion is a programming error
// surfaced as a phase failure rather than a panic.

func profileFrom(prior []orchestrator.PhaseResult) (design.Context, error) {
	for _, r := range prior {
		if dctx, ok := r.Output.(design.Context); ok {
			return dctx, nil
		}
	}
	return design.Context{}, fmt.Errorf("no profile in prior phase results")
}

func selectionFrom(prior []orchestrator.PhaseResult) (Selection, error) {
	for _, r := range prior {
		if sel, ok := r.Output.(Selection); ok {
			return sel, nil
		}
	}
	return Selection{}, fmt.Errorf("no selection in prior phase results")
}

func adaptedFrom(prior []orchestrator.PhaseResult) (customize.Adapted, error) {
	for _, r := range prior {
		if adapted, ok := r.Output.(customize.Adapted); ok {
			return adapted, nil
		}
	}
	return customize.Adapted{}, fmt.Errorf("no adapted template in prior phase results")
}

func draftFrom(prior []orchestrator.PhaseResult) (Draft, error) {
	for _, r := range prior {
		if draft, ok := r.Output.(Draft); ok {
			return draft, nil
		}
	}
	return Draft{}, fmt.Errorf("no draft in prior phase results")
}
