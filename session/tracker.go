// Package session counts the hostile agents of a play session and decides
// when it is won or lost.
package session

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/logger"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// Listener is called once, when the session ends.
type Listener func(Outcome)

// Tracker is owned by the simulation root and handed to whatever reports
// deaths. The session ends exactly once; reports arriving afterwards are
// ignored.
type Tracker struct {
	registered map[ecs.Entity]bool // value: dead
	total      int
	dead       int
	outcome    Outcome
	listeners  []Listener
}

func NewTracker() *Tracker {
	return &Tracker{registered: make(map[ecs.Entity]bool)}
}

// Register adds a live agent to the count. Registering the same entity twice
// has no effect.
func (t *Tracker) Register(e ecs.Entity) {
	if t == nil || t.Ended() {
		return
	}
	if _, ok := t.registered[e]; ok {
		return
	}
	t.registered[e] = false
	t.total++
}

// OnEntityDeath records the death of a registered agent. The last one to die
// wins the session.
func (t *Tracker) OnEntityDeath(e ecs.Entity) {
	if t == nil || t.Ended() {
		return
	}
	dead, ok := t.registered[e]
	if !ok || dead {
		return
	}
	t.registered[e] = true
	t.dead++
	logger.For("session").WithFields(logrus.Fields{
		"entity": e.String(),
		"dead":   t.dead,
		"total":  t.total,
	}).Info("agent died")
	if t.dead >= t.total {
		t.end(OutcomeVictory)
	}
}

// OnPlayerDeath ends the session in defeat.
func (t *Tracker) OnPlayerDeath() {
	if t == nil || t.Ended() {
		return
	}
	t.end(OutcomeDefeat)
}

func (t *Tracker) end(o Outcome) {
	t.outcome = o
	logger.For("session").WithField("outcome", o.String()).Info("session ended")
	for _, l := range t.listeners {
		l(o)
	}
}

// OnEnd registers a listener for the session outcome.
func (t *Tracker) OnEnd(l Listener) {
	if t == nil || l == nil {
		return
	}
	t.listeners = append(t.listeners, l)
}

func (t *Tracker) Outcome() Outcome {
	if t == nil {
		return OutcomeNone
	}
	return t.outcome
}

func (t *Tracker) Ended() bool {
	return t.Outcome() != OutcomeNone
}

// Remaining is the number of registered agents still alive.
func (t *Tracker) Remaining() int {
	if t == nil {
		return 0
	}
	return t.total - t.dead
}

func (t *Tracker) Total() int {
	if t == nil {
		return 0
	}
	return t.total
}

// Summary is the one-line status shown by the viewer.
func (t *Tracker) Summary() string {
	if t == nil {
		return ""
	}
	switch t.outcome {
	case OutcomeVictory:
		return fmt.Sprintf("VICTORY - %d/%d agents down", t.dead, t.total)
	case OutcomeDefeat:
		return fmt.Sprintf("DEFEAT - %d/%d agents remaining", t.Remaining(), t.total)
	}
	return fmt.Sprintf("agents: %d / %d", t.Remaining(), t.total)
}
