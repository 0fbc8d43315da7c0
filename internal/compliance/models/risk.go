package models

// RiskTier is the aggregate risk level of a flag set.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// RiskAssessment summarizes a flag set. It is always derived, never stored.
type RiskAssessment struct {
	Tier                RiskTier `json:"tier"`
	Score               int      `json:"score"`
	ContributingFactors []string `json:"contributingFactors"`
	Recommendations     []string `json:"recommendations"`
}
