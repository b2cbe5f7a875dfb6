// AngelaMos | 2026
// gate.go

package page

import (
	"github.com/biolink-labs/biolink-api/internal/entitlement"
)

// Plan gating runs before create/update persistence, never retroactively:
// a downgraded plan silently strips gated content on the next save, while
// already-stored documents keep their fields until rewritten.
//
// A nil *entitlement.Features always means the most restrictive tier.

// StripAnimations clears the animation descriptor on every component in all
// three lists unless the plan licenses animations.
func StripAnimations(p *Page, feats *entitlement.Features) {
	if feats != nil && feats.Animations {
		return
	}

	for _, list := range p.ComponentLists() {
		for i := range list {
			list[i].Animation = nil
		}
	}
}

// StripLaunchDates clears each component's launch date unless the plan
// licenses scheduled component activation.
func StripLaunchDates(p *Page, feats *entitlement.Features) {
	if feats != nil && feats.ComponentActivationSchedule {
		return
	}

	for _, list := range p.ComponentLists() {
		for i := range list {
			list[i].LaunchDate = ""
		}
	}
}

// StripCustomScripts clears both page-level script fields unless the plan
// licenses custom JS.
func StripCustomScripts(p *Page, feats *entitlement.Features) {
	if feats != nil && feats.CustomJS {
		return
	}

	p.CustomScripts = nil
}

// ApplyPlanGate runs all three strips.
func ApplyPlanGate(p *Page, feats *entitlement.Features) {
	StripAnimations(p, feats)
	StripLaunchDates(p, feats)
	StripCustomScripts(p, feats)
}

// CanCreateAnother reports whether a user owning count pages may create one
// more. Without a resolvable plan exactly one free page is allowed; with a
// plan the limit is MaxPages.
func CanCreateAnother(count int64, feats *entitlement.Features) bool {
	if feats == nil {
		return count == 0
	}

	return count < int64(feats.MaxPages)
}

// HasAnalytics reports whether the plan includes visitor analytics. It
// gates the renderer read's view-counter increment.
func HasAnalytics(feats *entitlement.Features) bool {
	return feats != nil && feats.Analytics
}
