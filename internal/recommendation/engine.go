// Package recommendation suggests whether a group should proceed with a
// nonprofit association, explore further, or consider another structure.
// It runs before full intake and shares nothing with risk scoring.
package recommendation

import (
	"fmt"
	"strings"
)

// Points for each rule. The scale is independent of risk scoring.
const (
	pointsSupportedJurisdiction   = 30
	pointsUnsupportedJurisdiction = -20
	pointsMission                 = 25
	pointsNoMission               = -15
	pointsNoPriorForm             = 20
	pointsFormalPriorForm         = -10
	pointsCommunityImpact         = 15
	pointsNeedsLegalStructure     = 10

	proceedThreshold = 60
	exploreThreshold = 30
	maxConfidence    = 100
)

// DefaultJurisdiction is the jurisdiction the service supports best.
const DefaultJurisdiction = "US"

// Engine scores exploration answers. It is safe for concurrent use.
type Engine struct {
	supported map[string]struct{}
}

type Option func(*Engine)

// WithSupportedJurisdictions replaces the supported jurisdiction list.
// Blank entries are ignored; an empty list keeps the default.
func WithSupportedJurisdictions(codes ...string) Option {
	return func(e *Engine) {
		supported := make(map[string]struct{}, len(codes))
		for _, c := range codes {
			if n := normalizeJurisdiction(c); n != "" {
				supported[n] = struct{}{}
			}
		}
		if len(supported) > 0 {
			e.supported = supported
		}
	}
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{supported: map[string]struct{}{normalizeJurisdiction(DefaultJurisdiction): {}}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend applies the additive rules in a fixed order and maps the score
// onto one of three outcomes.
func (e *Engine) Recommend(answers ExplorationAnswers) Result {
	score := 0
	reasoning := []string{}
	considerations := []string{}

	jurisdiction := strings.TrimSpace(answers.Jurisdiction)
	if e.isSupported(jurisdiction) {
		score += pointsSupportedJurisdiction
		reasoning = append(reasoning, fmt.Sprintf("%s is a jurisdiction where association formation is fully supported", jurisdiction))
	} else {
		score += pointsUnsupportedJurisdiction
		reasoning = append(reasoning, "Formation support in your jurisdiction is limited")
		considerations = append(considerations, "Consult local counsel about how nonprofit associations are recognized where you operate")
	}

	if answers.HasMission() {
		score += pointsMission
		reasoning = append(reasoning, "You have described a mission the association can be organized around")
	} else {
		score += pointsNoMission
		reasoning = append(reasoning, "No mission has been described yet")
	}

	switch {
	case answers.CurrentForm.IsNone():
		score += pointsNoPriorForm
		reasoning = append(reasoning, "There is no existing structure to convert or dissolve")
	case answers.CurrentForm.IsFormal():
		score += pointsFormalPriorForm
		reasoning = append(reasoning, "Your group already operates under a formal structure")
		considerations = append(considerations, "Check whether the existing structure must be wound down or can continue alongside the association")
	}

	if mentionsCommunity(answers.ImpactTags) {
		score += pointsCommunityImpact
		reasoning = append(reasoning, "Your impact goals center on community benefit")
	}

	if answers.NeedsLegalStructure {
		score += pointsNeedsLegalStructure
		reasoning = append(reasoning, "You need a legal structure to sign agreements or hold funds")
	}

	outcome := outcomeFor(score)
	result := Result{
		Recommendation: outcome,
		Score:          score,
		Confidence:     confidence(score),
		Reasoning:      reasoning,
		Considerations: considerations,
		NextSteps:      NextSteps(outcome),
	}
	if outcome == OutcomeProceed {
		result.Structure = TargetStructure
	}
	return result
}

func (e *Engine) isSupported(jurisdiction string) bool {
	_, ok := e.supported[normalizeJurisdiction(jurisdiction)]
	return ok
}

func outcomeFor(score int) Outcome {
	switch {
	case score >= proceedThreshold:
		return OutcomeProceed
	case score >= exploreThreshold:
		return OutcomeExplore
	default:
		return OutcomeAlternative
	}
}

func confidence(score int) int {
	if score < 0 {
		score = -score
	}
	return min(score, maxConfidence)
}

func mentionsCommunity(tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), "community") {
			return true
		}
	}
	return false
}

func normalizeJurisdiction(j string) string {
	return strings.ToUpper(strings.TrimSpace(j))
}
