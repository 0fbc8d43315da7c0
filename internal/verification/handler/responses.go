package handler

import "charterline/internal/verification/models"

type VerificationResponse struct {
	EntityID           string                     `json:"entityId"`
	State              models.State               `json:"state"`
	VerificationNeeded bool                       `json:"verificationNeeded"`
	Status             *models.VerificationStatus `json:"status"`
}

// FlagStatusResponse reports Recorded=false when the status could not be
// stored; the flag then stays active.
type FlagStatusResponse struct {
	Recorded   bool                   `json:"recorded"`
	Resolution *models.FlagResolution `json:"resolution,omitempty"`
}

type ReferralsResponse struct {
	EntityID  string                   `json:"entityId"`
	Referrals []*models.ReferralStatus `json:"referrals"`
}

type ReferralResponse struct {
	Recorded bool                   `json:"recorded"`
	Referral *models.ReferralStatus `json:"referral,omitempty"`
}
