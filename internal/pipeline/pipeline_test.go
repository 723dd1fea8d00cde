package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/customize"
	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/scoring"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(nil, catalog.Builtin(), nil, orchestrator.Config{
		OverallBudget: time.Minute,
		TickInterval:  50 * time.Millisecond,
	}, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestStandardPhases_Defaults(t *testing.T) {
	phases := StandardPhases(0)
	require.Len(t, phases, 5)

	total := time.Duration(0)
	for _, p := range phases {
		assert.NoError(t, p.Validate())
		total += p.TimeBudget
	}
	assert.Equal(t, defaultTotalBudget, total)
	assert.Equal(t, PhaseProfile, phases[0].Name)
	assert.Equal(t, PhaseReview, phases[4].Name)
}

func TestStandardPhases_ScaleToBudget(t *testing.T) {
	phases := StandardPhases(15 * time.Minute)

	total := time.Duration(0)
	for _, p := range phases {
		total += p.TimeBudget
	}
	assert.Equal(t, 15*time.Minute, total)
	// Thresholds never scale.
	assert.Equal(t, 80.0, phases[4].QualityThreshold)
}

func TestService_Generate_EndToEnd(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Generate(context.Background(), Request{
		Brief: design.Brief{
			Text: "A minimal portfolio gallery for an artist to showcase work",
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success, "issues: %+v", result.Issues)
	assert.Equal(t, orchestrator.StatusCompleted, result.Status)
	require.Len(t, result.Results, 5)
	assert.Greater(t, result.FinalQuality, 70.0)
	assert.Greater(t, result.ProductionReadiness, 70)

	// The assembled draft carries the winning template end to end.
	draft, err := draftFrom(result.Results)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.Template.SourceID)
	assert.Equal(t, catalog.CategoryPortfolio, draft.Profile.Category)
	assert.NotEmpty(t, draft.Sections)

	rev, err := reviewFrom(result.Results)
	require.NoError(t, err)
	assert.True(t, rev.Approved)
}

func TestService_Generate_EmptyBrief(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Generate(context.Background(), Request{})
	require.Error(t, err)
}

func TestService_Generate_InvalidRequestID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Generate(context.Background(), Request{
		ID:    "not a valid id!",
		Brief: design.Brief{Text: "a blog"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request id")
}

func TestService_Generate_AssignsRunID(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Generate(context.Background(), Request{
		Brief: design.Brief{Text: "A calm blog with articles"},
	})
	require.NoError(t, err)

	draft, err := draftFrom(result.Results)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.RunID)
}

func TestNewService_RequiresCatalog(t *testing.T) {
	_, err := NewService(nil, nil, nil, orchestrator.Config{}, nil, nil)
	require.Error(t, err)
}

func TestProfileQuality(t *testing.T) {
	assert.Equal(t, 60.0, profileQuality(design.Context{Confidence: 0}))
	assert.Equal(t, 100.0, profileQuality(design.Context{Confidence: 10}))
}

func TestSelectionQuality(t *testing.T) {
	assert.Equal(t, fallbackSelectionQuality, selectionQuality(Selection{Fallback: true}))
	assert.Equal(t, fallbackSelectionQuality, selectionQuality(Selection{}))

	sel := Selection{Ranking: []scoring.ScoredCandidate{{Score: 125}}}
	assert.InDelta(t, 100.0, selectionQuality(sel), 0.0001)

	sel.Ranking[0].Score = 62.5
	assert.InDelta(t, 50.0, selectionQuality(sel), 0.0001)
}

func TestCustomizationQuality(t *testing.T) {
	adapted := customize.Adapted{Candidate: catalog.Candidate{BaseQuality: 10}}
	assert.Equal(t, 100.0, customizationQuality(adapted))

	adapted.Warnings = []string{"enrichment failed"}
	assert.Equal(t, 90.0, customizationQuality(adapted))
}

func TestAssemblyQuality(t *testing.T) {
	full := Draft{
		Profile:  design.Context{Category: catalog.CategoryBlog},
		Template: customize.Adapted{Candidate: catalog.Candidate{ID: "x"}, SourceID: "y"},
		Palette:  design.PaletteFor(design.ToneCalm),
		Sections: []Section{{Component: "hero", Title: "Hero"}},
	}
	assert.Equal(t, 100.0, assemblyQuality(full))

	empty := Draft{}
	assert.Equal(t, 0.0, assemblyQuality(empty))
}

func TestReviewDraft(t *testing.T) {
	good := Draft{
		Profile: design.Context{Complexity: catalog.ComplexitySimple},
		Template: customize.Adapted{
			Candidate: catalog.Candidate{Complexity: catalog.ComplexitySimple, BaseQuality: 8},
			SourceID:  "tpl-src",
		},
		Sections: []Section{{Component: "hero", Title: "Hero"}},
	}
	rev, q := reviewDraft(good)
	assert.True(t, rev.Approved)
	assert.Equal(t, 100.0, q)

	bad := good
	bad.Template.SourceID = ""
	bad.Sections = nil
	rev, q = reviewDraft(bad)
	assert.False(t, rev.Approved)
	assert.Len(t, rev.Findings, 2)
	assert.Equal(t, 80.0, q)
}

func TestBuildSections(t *testing.T) {
	got := buildSections([]string{"kpi-cards", "hero"})
	require.Len(t, got, 2)
	assert.Equal(t, "Kpi Cards", got[0].Title)
	assert.Equal(t, "Hero", got[1].Title)
}

// reviewFrom mirrors the other typed accessors for tests.
func reviewFrom(results []orchestrator.PhaseResult) (Review, error) {
	for _, r := range results {
		if rev, ok := r.Output.(Review); ok {
			return rev, nil
		}
	}
	return Review{}, assert.AnError
}
