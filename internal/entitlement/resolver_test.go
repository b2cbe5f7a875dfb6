// AngelaMos | 2026
// resolver_test.go

package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	plans    []Features
	plansErr error
	sub      *Subscription
	subErr   error
}

func (f *fakePayments) PlansFeatures(_ context.Context) ([]Features, error) {
	return f.plans, f.plansErr
}

func (f *fakePayments) ActiveSubscription(
	_ context.Context,
	_ string,
) (*Subscription, error) {
	return f.sub, f.subErr
}

func TestResolverFailsClosed(t *testing.T) {
	ctx := context.Background()

	catalog := []Features{
		{Description: "starter", StripeProductID: "prod_starter", MaxPages: 3},
		{Description: "pro", StripeProductID: "prod_pro", MaxPages: 25},
	}

	tests := []struct {
		name     string
		payments *fakePayments
	}{
		{
			name: "subscription lookup fails",
			payments: &fakePayments{
				plans:  catalog,
				subErr: errors.New("payments unreachable"),
			},
		},
		{
			name: "no subscription on record",
			payments: &fakePayments{
				plans: catalog,
				sub:   nil,
			},
		},
		{
			name: "subscription inactive",
			payments: &fakePayments{
				plans: catalog,
				sub:   &Subscription{StripeProductID: "prod_pro"},
			},
		},
		{
			name: "subscription without product id",
			payments: &fakePayments{
				plans: catalog,
				sub:   &Subscription{IsActive: true},
			},
		},
		{
			name: "plan catalog fetch fails",
			payments: &fakePayments{
				plansErr: errors.New("payments unreachable"),
				sub: &Subscription{
					StripeProductID: "prod_pro",
					IsActive:        true,
				},
			},
		},
		{
			name: "subscription references unknown plan",
			payments: &fakePayments{
				plans: catalog,
				sub: &Subscription{
					StripeProductID: "prod_retired",
					IsActive:        true,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.payments, nil)
			assert.Nil(t, r.Resolve(ctx, "u1"))
		})
	}
}

func TestResolverResolvesActivePlan(t *testing.T) {
	payments := &fakePayments{
		plans: []Features{
			{Description: "starter", StripeProductID: "prod_starter", MaxPages: 3},
			{Description: "pro", StripeProductID: "prod_pro", MaxPages: 25},
		},
		sub: &Subscription{StripeProductID: "prod_pro", IsActive: true},
	}

	r := NewResolver(payments, nil)

	feats := r.Resolve(context.Background(), "u1")
	require.NotNil(t, feats)
	assert.Equal(t, "pro", feats.Description)
	assert.Equal(t, 25, feats.MaxPages)
}

func TestResolverEmptyUserID(t *testing.T) {
	payments := &fakePayments{
		sub: &Subscription{StripeProductID: "prod_pro", IsActive: true},
	}

	r := NewResolver(payments, nil)
	assert.Nil(t, r.Resolve(context.Background(), ""))
}
