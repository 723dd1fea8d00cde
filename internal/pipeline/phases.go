// Package pipeline wires the draft generation phases: profile derivation,
// template selection, customization, document assembly, and review, run
// under the orchestrator's budget and quality gates.
package pipeline

import (
	"strings"
	"time"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/customize"
	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/scoring"
)

// Phase names, also used in progress events and issues.
const (
	PhaseProfile       = "profile"
	PhaseSelection     = "selection"
	PhaseCustomization = "customization"
	PhaseAssembly      = "assembly"
	PhaseReview        = "review"
)

// defaultTotalBudget is the summed budget of the standard phases.
const defaultTotalBudget = 30 * time.Minute

// StandardPhases declares the five generation phases, scaled so their
// budgets sum to overall. Non-positive overall keeps the defaults.
func StandardPhases(overall time.Duration) []orchestrator.Phase {
	phases := []orchestrator.Phase{
		{Name: PhaseProfile, TimeBudget: 5 * time.Minute, QualityThreshold: 70,
			Checkpoints: []string{"brief-parsed", "profile-derived"}},
		{Name: PhaseSelection, TimeBudget: 5 * time.Minute, QualityThreshold: 75,
			Checkpoints: []string{"catalog-ranked", "winner-picked"}},
		{Name: PhaseCustomization, TimeBudget: 6 * time.Minute, QualityThreshold: 75,
			Checkpoints: []string{"palette-applied", "components-adapted"}},
		{Name: PhaseAssembly, TimeBudget: 8 * time.Minute, QualityThreshold: 70,
			Checkpoints: []string{"sections-built", "document-assembled"}},
		{Name: PhaseReview, TimeBudget: 6 * time.Minute, QualityThreshold: 80,
			Checkpoints: []string{"findings-collected", "verdict-reached"}},
	}
	if overall <= 0 {
		return phases
	}
	scale := float64(overall) / float64(defaultTotalBudget)
	for i := range phases {
		phases[i].TimeBudget = time.Duration(float64(phases[i].TimeBudget) * scale)
	}
	return phases
}

// Selection is the selection phase output.
type Selection struct {
	Ranking  []scoring.ScoredCandidate `json:"ranking"`
	Winner   catalog.Candidate         `json:"winner"`
	Fallback bool                      `json:"fallback"`
}

// Section is one assembled page region of the draft.
type Section struct {
	Component string `json:"component"`
	Title     string `json:"title"`
}

// Draft is the assembled document, the pipeline's primary artifact.
type Draft struct {
	RunID       string             `json:"run_id"`
	Profile     design.Context     `json:"profile"`
	Template    customize.Adapted  `json:"template"`
	Palette     catalog.ColorSlots `json:"palette"`
	Sections    []Section          `json:"sections"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Review is the review phase output.
type Review struct {
	Approved bool     `json:"approved"`
	Findings []string `json:"findings,omitempty"`
}

// profileQuality grades the derived profile by classification confidence.
func profileQuality(dctx design.Context) float64 {
	return 60 + 4*dctx.Confidence
}

// maxRankScore is the largest score a candidate can reach without the
// high-diversity bonus; selection quality normalizes against it.
const maxRankScore = 125.0

// fallbackSelectionQuality grades a run that had to use the default
// candidate; low enough to trip the selection gate.
const fallbackSelectionQuality = 50.0

func selectionQuality(sel Selection) float64 {
	if sel.Fallback || len(sel.Ranking) == 0 {
		return fallbackSelectionQuality
	}
	q := sel.Ranking[0].Score / maxRankScore * 100
	if q > 100 {
		q = 100
	}
	return q
}

// customizationQuality grades the adapted candidate: its boosted quality
// carries the score, each warning costs 10 points.
func customizationQuality(adapted customize.Adapted) float64 {
	q := 60 + 4*adapted.BaseQuality - 10*float64(len(adapted.Warnings))
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// assemblyQuality grades document completeness: 25 points per required
// part (profile, template, palette, sections).
func assemblyQuality(d Draft) float64 {
	q := 0.0
	if d.Profile.Category != "" {
		q += 25
	}
	if d.Template.ID != "" && d.Template.SourceID != "" {
		q += 25
	}
	if d.Palette != (catalog.ColorSlots{}) {
		q += 25
	}
	if len(d.Sections) > 0 {
		q += 25
	}
	return q
}

// reviewDraft audits the assembled draft and grades it: each finding
// costs 10 points off 100.
func reviewDraft(d Draft) (Review, float64) {
	var findings []string

	if d.Template.SourceID == "" {
		findings = append(findings, "template lost its source traceability")
	}
	if d.Template.Complexity != d.Profile.Complexity {
		findings = append(findings, "template complexity does not match the requested profile")
	}
	if len(d.Sections) == 0 {
		findings = append(findings, "draft has no sections")
	}
	if d.Template.BaseQuality < 5 {
		findings = append(findings, "template quality is below the publishable floor")
	}
	for _, w := range d.Template.Warnings {
		findings = append(findings, w)
	}

	q := 100 - 10*float64(len(findings))
	if q < 0 {
		q = 0
	}
	return Review{Approved: len(findings) == 0, Findings: findings}, q
}

// buildSections derives page sections from the template's component tags.
func buildSections(components []string) []Section {
	sections := make([]Section, 0, len(components))
	for _, comp := range components {
		sections = append(sections, Section{
			Component: comp,
			Title:     sectionTitle(comp),
		})
	}
	return sections
}

func sectionTitle(component string) string {
	words := strings.Split(component, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
