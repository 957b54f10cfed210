package component

import (
	"fmt"
	"strings"
)

// BehaviorState is the coarse behavior an agent is in.
type BehaviorState int

const (
	StateNone BehaviorState = iota
	StateIdle
	StateWander
	StateChase
	StateAttack
)

func (s BehaviorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWander:
		return "wander"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "none"
	}
}

// ParseBehaviorState accepts the names produced by String.
func ParseBehaviorState(s string) (BehaviorState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return StateIdle, nil
	case "wander":
		return StateWander, nil
	case "chase":
		return StateChase, nil
	case "attack":
		return StateAttack, nil
	case "", "none":
		return StateNone, nil
	}
	return StateNone, fmt.Errorf("unknown behavior state %q", s)
}

type AttackKind string

const (
	AttackMelee  AttackKind = "melee"
	AttackRanged AttackKind = "ranged"
)

// Agent is the tuning of a hostile agent. It is shared by every agent built
// from the same prefab and may be replaced when the prefab is reloaded.
type Agent struct {
	Prefab string

	SightRange   float64
	FOV          float64 // full cone, degrees
	WanderRadius float64
	AttackRange  float64
	ChaseSpeed   float64
	WanderSpeed  float64
	TurnSpeed    float64

	AttackKind     AttackKind
	AttackCooldown float64
	AttackDuration float64
	AttackHitDelay float64
	AttackDamage   float64
	Projectile     ProjectileParams

	DeathGrace float64
}

// Brain is the runtime state of an agent's behavior controller.
type Brain struct {
	State   BehaviorState
	Pending BehaviorState

	LastAttack    float64
	AttackStarted float64
	AttackDone    bool

	// Target is zero when the agent has nothing to hunt.
	Target uint64
}

var AgentComponent = NewComponent[Agent]()
var BrainComponent = NewComponent[Brain]()
