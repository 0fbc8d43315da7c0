package audit

import "time"

// Action names a lifecycle mutation.
type Action string

const (
	ActionIntakeSubmitted        Action = "intake_submitted"
	ActionVerificationMarked     Action = "verification_marked"
	ActionVerificationDowngraded Action = "verification_downgraded"
	ActionFlagResolved           Action = "flag_resolved"
	ActionFlagDismissed          Action = "flag_dismissed"
	ActionReferralUpdated        Action = "referral_updated"
)

// Event is emitted from lifecycle logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EntityID  string    `json:"entityId"`
	Action    Action    `json:"action"`
	// Actor is who performed the action: a verifier, resolver or "system".
	Actor string `json:"actor,omitempty"`
	// Subject is the flag ID or referral category the action targets.
	Subject   string `json:"subject,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
