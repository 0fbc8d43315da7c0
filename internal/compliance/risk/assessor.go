// Package risk aggregates a flag set into a single tier and score.
package risk

import (
	"fmt"
	"slices"
	"strings"

	"charterline/internal/compliance/models"
)

// Severity weights. The score is the plain sum over the flag set.
const (
	WeightHigh   = 10
	WeightMedium = 5
	WeightLow    = 2
)

// Tier upper bounds, inclusive on the lower tier.
const (
	maxLowScore    = 5
	maxMediumScore = 15
	maxHighScore   = 30
)

const (
	RecommendationNoAction     = "No action needed: nothing in the intake calls for professional review"
	RecommendationProfessional = "Professional assistance strongly recommended"
	RecommendationPhased       = "Consider a phased approach, addressing the highest-severity items first"
	RecommendationReviewItems  = "Review each flagged item with the relevant professional before filing"
)

// Weight returns the score contribution of a severity.
func Weight(s models.Severity) int {
	switch s {
	case models.SeverityHigh:
		return WeightHigh
	case models.SeverityMedium:
		return WeightMedium
	case models.SeverityLow:
		return WeightLow
	default:
		return 0
	}
}

// TierFor maps a score onto a tier.
func TierFor(score int) models.RiskTier {
	switch {
	case score <= maxLowScore:
		return models.RiskLow
	case score <= maxMediumScore:
		return models.RiskMedium
	case score <= maxHighScore:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// Assess scores every flag it is given; callers that want only open items
// pass models.ActiveFlags. An empty set is the low/0 base case.
func Assess(flags []models.ComplianceFlag) models.RiskAssessment {
	if len(flags) == 0 {
		return models.RiskAssessment{
			Tier:                models.RiskLow,
			Score:               0,
			ContributingFactors: []string{},
			Recommendations:     []string{RecommendationNoAction},
		}
	}

	score := 0
	for _, f := range flags {
		score += Weight(f.Severity)
	}
	tier := TierFor(score)

	return models.RiskAssessment{
		Tier:                tier,
		Score:               score,
		ContributingFactors: contributingFactors(flags),
		Recommendations:     recommendations(tier, flags),
	}
}

// contributingFactors labels each flag with its severity, most severe first.
// The stable sort keeps detection order within a severity.
func contributingFactors(flags []models.ComplianceFlag) []string {
	ranked := slices.Clone(flags)
	slices.SortStableFunc(ranked, func(a, b models.ComplianceFlag) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})

	factors := make([]string, len(ranked))
	for i, f := range ranked {
		factors[i] = fmt.Sprintf("%s (%s)", f.Title, f.Severity)
	}
	return factors
}

func recommendations(tier models.RiskTier, flags []models.ComplianceFlag) []string {
	var recs []string
	switch tier {
	case models.RiskHigh, models.RiskCritical:
		recs = append(recs, RecommendationProfessional, RecommendationPhased)
	case models.RiskMedium:
		recs = append(recs, RecommendationReviewItems)
	}
	for _, f := range flags {
		recs = append(recs, f.FirstStep())
	}
	return dedupeSteps(recs)
}

// dedupeSteps drops blank and repeated steps, keeping the first occurrence.
// Flags that share a remediation step list it once.
func dedupeSteps(steps []string) []string {
	seen := make(map[string]bool, len(steps))
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" || seen[step] {
			continue
		}
		seen[step] = true
		out = append(out, step)
	}
	return out
}
