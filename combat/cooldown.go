package combat

import "math"

// NeverFired is the last-fire time of something that has not fired yet; any
// cooldown has elapsed relative to it.
var NeverFired = math.Inf(-1)

// CanFire reports whether strictly more than cooldown seconds have passed
// since lastFire. A missed opportunity is not queued.
func CanFire(lastFire, now, cooldown float64) bool {
	return now-lastFire > cooldown
}

// RecordFire returns the new last-fire time.
func RecordFire(now float64) float64 {
	return now
}

// Cooldown bundles a duration with its last-fire time.
type Cooldown struct {
	Duration float64
	Last     float64
}

// NewCooldown returns a cooldown that is ready immediately.
func NewCooldown(duration float64) Cooldown {
	return Cooldown{Duration: duration, Last: NeverFired}
}

func (c *Cooldown) Ready(now float64) bool {
	return CanFire(c.Last, now, c.Duration)
}

// TryFire records a fire at now if the cooldown allows it.
func (c *Cooldown) TryFire(now float64) bool {
	if !c.Ready(now) {
		return false
	}
	c.Last = RecordFire(now)
	return true
}

// Since returns the seconds elapsed since the last fire.
func (c *Cooldown) Since(now float64) float64 {
	return now - c.Last
}
