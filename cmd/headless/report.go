package main

import (
	"fmt"
	"strings"

	"github.com/milk9111/skirmish/arena"
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/session"
)

type runResult struct {
	run       int
	seed      int64
	outcome   session.Outcome
	seconds   float64
	remaining int
	total     int
	health    float64
	band      combat.Band
	shots     int
	hits      int
}

func resultOf(a *arena.Arena) runResult {
	r := runResult{
		seed:      a.Spec().Seed,
		outcome:   a.Tracker.Outcome(),
		seconds:   a.World.Now(),
		remaining: a.Tracker.Remaining(),
		total:     a.Tracker.Total(),
		shots:     a.Effects.Count(system.EffectMuzzle),
		hits:      a.Effects.Count(system.EffectHit),
	}
	if h, ok := ecs.Get(a.World, a.Player(), component.HealthComponent.Kind()); ok {
		r.health = h.Current
		r.band = h.Band()
	}
	return r
}

func (r runResult) String() string {
	outcome := r.outcome.String()
	if r.outcome == session.OutcomeNone {
		outcome = "timeout"
	}
	return fmt.Sprintf("run %d seed=%d %-8s t=%6.1fs agents=%d/%d hp=%.0f (%s) shots=%d hits=%d",
		r.run, r.seed, outcome, r.seconds, r.remaining, r.total, r.health, r.band, r.shots, r.hits)
}

// aggregate summarises a batch of runs.
func aggregate(results []runResult) string {
	if len(results) == 0 {
		return "no runs\n"
	}
	var wins, losses, timeouts, shots, hits int
	var seconds float64
	for _, r := range results {
		switch r.outcome {
		case session.OutcomeVictory:
			wins++
		case session.OutcomeDefeat:
			losses++
		default:
			timeouts++
		}
		shots += r.shots
		hits += r.hits
		seconds += r.seconds
	}

	var b strings.Builder
	fmt.Fprintf(&b, "victories=%d defeats=%d timeouts=%d\n", wins, losses, timeouts)
	fmt.Fprintf(&b, "mean duration=%.1fs\n", seconds/float64(len(results)))
	accuracy := 0.0
	if shots > 0 {
		accuracy = float64(hits) / float64(shots)
	}
	fmt.Fprintf(&b, "accuracy=%.2f (%d/%d)\n", accuracy, hits, shots)
	return b.String()
}
