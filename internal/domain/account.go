package domain

import "time"

// AdAccountStatus is the lifecycle status of an advertiser account.
type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusPaused   AdAccountStatus = "PAUSED"
	AdAccountStatusDisabled AdAccountStatus = "DISABLED"
)

// AdAccount is an onboarded advertiser account. ProfileID is the Amazon Ads
// profile the reporting API scopes requests to.
type AdAccount struct {
	ID          string          `json:"id"`
	ProfileID   string          `json:"profile_id"`
	Marketplace string          `json:"marketplace"`
	Name        string          `json:"name"`
	Status      AdAccountStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
