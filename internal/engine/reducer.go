package engine

import (
	"math"

	"github.com/hammamikhairi/moat/internal/domain"
)

// Apply performs the unlock transition for r on p. When r is already
// unlocked nothing changes and fresh is false. Both counters saturate at
// domain.MaxScore and never decrease.
func Apply(p *domain.Progress, r domain.Recipe) (securityDelta, chaosDelta float64, fresh bool) {
	if p.Has(r.ID) {
		return 0, 0, false
	}

	security := math.Min(domain.MaxScore, p.SecurityScore+domain.SecurityPerUnlock)
	chaos := math.Min(domain.MaxScore, p.ChaosMeter+r.ChaosFactor/domain.ChaosDivisor)

	// Counters never decrease, even one that starts above the ceiling.
	security = math.Max(security, p.SecurityScore)
	chaos = math.Max(chaos, p.ChaosMeter)

	securityDelta = security - p.SecurityScore
	chaosDelta = chaos - p.ChaosMeter

	p.SecurityScore = security
	p.ChaosMeter = chaos
	p.Unlocked = append(p.Unlocked, r.ID)
	return securityDelta, chaosDelta, true
}
