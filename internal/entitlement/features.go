// AngelaMos | 2026
// features.go

// Package entitlement resolves the plan features a user is entitled to.
// Plan data is owned by the external payments service; this package only
// reads it per request and never persists it.
package entitlement

import (
	"time"
)

// Features is the plan-feature set attached to a paid subscription.
// A nil *Features means "no resolvable plan" and must always be treated as
// the most restrictive tier, never as unlimited.
type Features struct {
	ID                          string    `json:"_id"`
	StripeProductID             string    `json:"stripeProductId"`
	Description                 string    `json:"description"`
	MaxPages                    int       `json:"maxPages"`
	Animations                  bool      `json:"animations"`
	SpecialSupport              bool      `json:"specialSupport"`
	ComponentActivationSchedule bool      `json:"componentActivationSchedule"`
	Analytics                   bool      `json:"analytics"`
	CustomJS                    bool      `json:"customJs"`
	IsActive                    bool      `json:"isActive"`
	CreatedAt                   time.Time `json:"createdAt"`
	UpdatedAt                   time.Time `json:"updatedAt"`
}

// Subscription is the slice of the payments service's subscription record
// this API needs: enough to join against the plan-features list.
type Subscription struct {
	SubscriptionID  string `json:"subscriptionId"`
	StripeProductID string `json:"stripeProductId"`
	IsActive        bool   `json:"isActive"`
	PlanName        string `json:"planName"`
}
