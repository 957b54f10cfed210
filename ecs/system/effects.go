package system

import (
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/logger"
)

const (
	EffectHit    = "hit"
	EffectDeath  = "death"
	EffectMuzzle = "muzzle"
)

// EffectSpawner places a one-shot visual effect. Angle orients it, in
// radians.
type EffectSpawner interface {
	SpawnAt(kind string, pos cp.Vector, angle float64)
}

type Effect struct {
	Kind  string
	Pos   cp.Vector
	Angle float64
}

// EffectLog records spawned effects, keeping only the most recent Limit.
type EffectLog struct {
	Limit int
	items []Effect
	total map[string]int
}

func NewEffectLog(limit int) *EffectLog {
	return &EffectLog{Limit: limit, total: make(map[string]int)}
}

func (l *EffectLog) SpawnAt(kind string, pos cp.Vector, angle float64) {
	if l == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "effects",
		"kind":      kind,
		"x":         pos.X,
		"y":         pos.Y,
	}).Debug("spawn effect")

	if l.total == nil {
		l.total = make(map[string]int)
	}
	l.total[kind]++
	l.items = append(l.items, Effect{Kind: kind, Pos: pos, Angle: angle})
	if l.Limit > 0 && len(l.items) > l.Limit {
		l.items = append(l.items[:0], l.items[len(l.items)-l.Limit:]...)
	}
}

// Recent returns the retained effects, oldest first.
func (l *EffectLog) Recent() []Effect {
	if l == nil {
		return nil
	}
	out := make([]Effect, len(l.items))
	copy(out, l.items)
	return out
}

// Count returns how many effects of kind were ever spawned.
func (l *EffectLog) Count(kind string) int {
	if l == nil {
		return 0
	}
	return l.total[kind]
}

func (l *EffectLog) Reset() {
	if l == nil {
		return
	}
	l.items = nil
	l.total = make(map[string]int)
}
