package combat

import "math"

// Health is the health pool shared by every damageable entity.
type Health struct {
	Max     float64
	Current float64
	Dead    bool
}

// NewHealth creates a full health pool. A non-positive max is raised to 1.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the pool has not been depleted.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead
}

// ApplyDamage subtracts amount and clamps the result to [0, Max]. It reports
// whether the pool accepted the damage and whether this call depleted it.
// Once dead, further calls change nothing. A negative amount heals, still
// clamped to Max. NaN is rejected.
func (h *Health) ApplyDamage(amount float64) (applied, died bool) {
	if h == nil || h.Dead || math.IsNaN(amount) {
		return false, false
	}
	h.Current = clamp(h.Current-amount, 0, h.Max)
	if h.Current <= 0 {
		h.Dead = true
		return true, true
	}
	return true, false
}

// Ratio returns Current/Max in [0, 1], used for health bars.
func (h *Health) Ratio() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// Band classifies the current ratio for health bar colouring.
type Band int

const (
	BandHealthy Band = iota
	BandWounded
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandHealthy:
		return "healthy"
	case BandWounded:
		return "wounded"
	default:
		return "critical"
	}
}

// Band returns healthy above 50%, wounded above 20%, critical otherwise.
func (h *Health) Band() Band {
	r := h.Ratio()
	switch {
	case r > 0.5:
		return BandHealthy
	case r > 0.2:
		return BandWounded
	default:
		return BandCritical
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
