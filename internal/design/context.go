// Package design derives an immutable requirement profile (Context) from
// a free-form brief, and provides the palette collaborator consumed by
// template customization.
package design

import (
	"fmt"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
)

// Tone is the emotional register a draft should carry.
type Tone string

const (
	ToneProfessional Tone = "professional"
	TonePlayful      Tone = "playful"
	ToneMinimal      Tone = "minimal"
	ToneBold         Tone = "bold"
	ToneCalm         Tone = "calm"
	ToneEnergetic    Tone = "energetic"
)

// Valid reports whether the tone is a known value.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, TonePlayful, ToneMinimal, ToneBold, ToneCalm, ToneEnergetic:
		return true
	}
	return false
}

// Audience is the primary group a draft addresses.
type Audience string

const (
	AudienceConsumers     Audience = "consumers"
	AudienceProfessionals Audience = "professionals"
	AudienceCreators      Audience = "creators"
	AudienceEnterprises   Audience = "enterprises"
	AudienceStudents      Audience = "students"
)

// Valid reports whether the audience is a known value.
func (a Audience) Valid() bool {
	switch a {
	case AudienceConsumers, AudienceProfessionals, AudienceCreators,
		AudienceEnterprises, AudienceStudents:
		return true
	}
	return false
}

// Goal is the primary outcome a draft optimizes for.
type Goal string

const (
	GoalConvert  Goal = "convert"
	GoalInform   Goal = "inform"
	GoalEngage   Goal = "engage"
	GoalSell     Goal = "sell"
	GoalShowcase Goal = "showcase"
)

// Valid reports whether the goal is a known value.
func (g Goal) Valid() bool {
	switch g {
	case GoalConvert, GoalInform, GoalEngage, GoalSell, GoalShowcase:
		return true
	}
	return false
}

// Context is the derived requirement profile. Built once per request;
// immutable afterwards.
type Context struct {
	Category   catalog.Category   `json:"category"`
	Complexity catalog.Complexity `json:"complexity"`
	Tone       Tone               `json:"tone"`
	Audience   Audience           `json:"audience"`
	Goal       Goal               `json:"goal"`
	Confidence float64            `json:"confidence"` // 0-10
}

// Validate checks the context for structural errors.
func (c Context) Validate() error {
	if !c.Category.Valid() {
		return fmt.Errorf("unknown category %q", c.Category)
	}
	if !c.Complexity.Valid() {
		return fmt.Errorf("unknown complexity %q", c.Complexity)
	}
	if !c.Tone.Valid() {
		return fmt.Errorf("unknown tone %q", c.Tone)
	}
	if !c.Audience.Valid() {
		return fmt.Errorf("unknown audience %q", c.Audience)
	}
	if !c.Goal.Valid() {
		return fmt.Errorf("unknown goal %q", c.Goal)
	}
	if c.Confidence < 0 || c.Confidence > 10 {
		return fmt.Errorf("confidence must be 0-10, got %f", c.Confidence)
	}
	return nil
}

// Brief is the raw requirement input a caller supplies.
type Brief struct {
	Text         string `json:"text"`
	Industry     string `json:"industry,omitempty"`
	Audience     string `json:"audience,omitempty"`
	QualityLevel string `json:"quality_level,omitempty"` // draft|standard|premium
}
