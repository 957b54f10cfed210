package system

import (
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/session"
)

// Env carries the collaborators the simulation root hands to its systems.
type Env struct {
	Tracker *session.Tracker
	Effects EffectSpawner
	Physics *PhysicsSystem
	// Bounds is the walkable area. The player is kept inside it.
	Bounds cp.BB
	Rand   *rand.Rand
}

func (env *Env) float() float64 {
	if env == nil || env.Rand == nil {
		return rand.Float64()
	}
	return env.Rand.Float64()
}

func (env *Env) spawnEffect(kind string, pos cp.Vector, angle float64) {
	if env == nil || env.Effects == nil {
		return
	}
	env.Effects.SpawnAt(kind, pos, angle)
}
