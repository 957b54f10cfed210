package arena

import (
	"github.com/milk9111/skirmish/ecs/system"
)

// Stats tallies the damage events of the current session.
type Stats struct {
	DamageDealt float64 // to agents
	DamageTaken float64 // by the player
	Hits        int
	Kills       int
}

// Stats returns the tallies since the session was last built.
func (a *Arena) Stats() Stats {
	return a.stats
}

// collect drains the world event queue into the session stats.
func (a *Arena) collect() {
	for _, evt := range a.World.Events().Drain() {
		d, ok := evt.Data.(system.DamageEvent)
		if !ok {
			continue
		}
		switch evt.Type {
		case system.EventDamaged:
			a.stats.Hits++
			if d.Player {
				a.stats.DamageTaken += d.Amount
			} else {
				a.stats.DamageDealt += d.Amount
			}
		case system.EventDied:
			if !d.Player {
				a.stats.Kills++
			}
		}
	}
}
