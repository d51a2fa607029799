package ratelimit

import (
	"context"
	"time"
)

// Quotas are the per-user allowances. Both scale with trust level.
type Quotas struct {
	MomentBase          int
	MomentPerTrustLevel int
	MomentVerifiedBonus int
	MomentWindow        time.Duration

	ApplyBase          int
	ApplyPerTrustLevel int
	ApplyWindow        time.Duration
}

// Policy answers can_create_moment and can_apply.
type Policy struct {
	limiter *Limiter
	quotas  Quotas
}

func NewPolicy(limiter *Limiter, quotas Quotas) *Policy {
	return &Policy{limiter: limiter, quotas: quotas}
}

func (p *Policy) MomentLimit(trustLevel int, verified bool) int {
	if trustLevel < 0 {
		trustLevel = 0
	}
	limit := p.quotas.MomentBase + p.quotas.MomentPerTrustLevel*trustLevel
	if verified {
		limit += p.quotas.MomentVerifiedBonus
	}
	return limit
}

func (p *Policy) ApplyLimit(trustLevel int) int {
	if trustLevel < 0 {
		trustLevel = 0
	}
	return p.quotas.ApplyBase + p.quotas.ApplyPerTrustLevel*trustLevel
}

// CanCreateMoment consumes one moment slot for the user.
func (p *Policy) CanCreateMoment(ctx context.Context, userID string, trustLevel int, verified bool) (bool, error) {
	return p.limiter.Allow(ctx, "moment:"+userID, p.MomentLimit(trustLevel, verified), p.quotas.MomentWindow)
}

// CanApply consumes one application slot for the user.
func (p *Policy) CanApply(ctx context.Context, userID string, trustLevel int) (bool, error) {
	return p.limiter.Allow(ctx, "apply:"+userID, p.ApplyLimit(trustLevel), p.quotas.ApplyWindow)
}
