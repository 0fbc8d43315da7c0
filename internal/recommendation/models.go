package recommendation

import "strings"

// Outcome is the structural recommendation.
type Outcome string

const (
	OutcomeProceed     Outcome = "proceed"
	OutcomeExplore     Outcome = "explore"
	OutcomeAlternative Outcome = "alternative"
)

// TargetStructure is the legal form the formation service produces.
const TargetStructure = "nonprofit_association"

// CurrentForm is how the group is organized today.
type CurrentForm string

const (
	CurrentFormNone      CurrentForm = "none"
	CurrentFormInformal  CurrentForm = "informal"
	CurrentFormTeam      CurrentForm = "team"
	CurrentFormCommunity CurrentForm = "community"
)

// IsNone treats an unanswered form as "no prior form".
func (c CurrentForm) IsNone() bool {
	v := CurrentForm(strings.ToLower(strings.TrimSpace(string(c))))
	return v == "" || v == CurrentFormNone
}

// IsFormal reports a pre-existing formal structure.
func (c CurrentForm) IsFormal() bool {
	switch CurrentForm(strings.ToLower(strings.TrimSpace(string(c)))) {
	case CurrentFormTeam, CurrentFormCommunity:
		return true
	}
	return false
}

// ExplorationAnswers is the short pre-intake questionnaire.
type ExplorationAnswers struct {
	Jurisdiction        string      `json:"jurisdiction" yaml:"jurisdiction"`
	MissionTags         []string    `json:"missionTags" yaml:"missionTags"`
	Mission             string      `json:"mission" yaml:"mission"`
	CurrentForm         CurrentForm `json:"currentForm" yaml:"currentForm"`
	ImpactTags          []string    `json:"impactTags" yaml:"impactTags"`
	NeedsLegalStructure bool        `json:"needsLegalStructure" yaml:"needsLegalStructure"`
}

// HasMission reports whether any mission tag or mission text was given.
func (a ExplorationAnswers) HasMission() bool {
	if strings.TrimSpace(a.Mission) != "" {
		return true
	}
	for _, tag := range a.MissionTags {
		if strings.TrimSpace(tag) != "" {
			return true
		}
	}
	return false
}

// Result is transient and never persisted.
type Result struct {
	Recommendation Outcome  `json:"recommendation"`
	Structure      string   `json:"structure,omitempty"`
	Score          int      `json:"score"`
	Confidence     int      `json:"confidence"`
	Reasoning      []string `json:"reasoning"`
	Considerations []string `json:"considerations"`
	NextSteps      []string `json:"nextSteps"`
}
