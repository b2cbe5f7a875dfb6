// AngelaMos | 2026
// resolver.go

package entitlement

import (
	"context"
	"log/slog"
)

// PaymentsAPI is the slice of the payments client the resolver depends on.
type PaymentsAPI interface {
	PlansFeatures(ctx context.Context) ([]Features, error)
	ActiveSubscription(ctx context.Context, userID string) (*Subscription, error)
}

// Resolver joins a user's active subscription against the plan catalog.
//
// Resolution is fail-closed: any transport or lookup failure yields nil,
// and callers must treat nil as the free tier. A payments outage must never
// let a user exceed quota or reach gated features.
type Resolver struct {
	payments PaymentsAPI
	logger   *slog.Logger
}

func NewResolver(payments PaymentsAPI, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		payments: payments,
		logger:   logger,
	}
}

// Resolve returns the plan features for userID, or nil when the user has no
// resolvable entitlement.
func (r *Resolver) Resolve(ctx context.Context, userID string) *Features {
	if userID == "" {
		return nil
	}

	sub, err := r.payments.ActiveSubscription(ctx, userID)
	if err != nil {
		r.logger.Warn("entitlement: subscription lookup failed",
			"user_id", userID,
			"error", err,
		)
		return nil
	}

	if sub == nil || !sub.IsActive || sub.StripeProductID == "" {
		return nil
	}

	plans, err := r.payments.PlansFeatures(ctx)
	if err != nil {
		r.logger.Warn("entitlement: plan catalog fetch failed",
			"user_id", userID,
			"error", err,
		)
		return nil
	}

	for i := range plans {
		if plans[i].StripeProductID == sub.StripeProductID {
			return &plans[i]
		}
	}

	r.logger.Warn("entitlement: subscription references unknown plan",
		"user_id", userID,
		"stripe_product_id", sub.StripeProductID,
	)
	return nil
}
