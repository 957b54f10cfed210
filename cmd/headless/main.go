// Command headless plays arenas without a window: the player is driven by
// the autopilot and each run prints how it ended. With -watch it keeps one
// session running in real time and applies prefab edits as they are saved.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/arena"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/prefabs"
)

func main() {
	arenaFile := flag.String("arena", "arena.yaml", "arena prefab to play")
	runs := flag.Int("runs", 5, "number of runs")
	seconds := flag.Float64("seconds", 120, "simulated time limit per run")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	seedBase := flag.Int64("seed-base", 0, "seed of the first run; 0 keeps the arena's seed")
	watch := flag.Bool("watch", false, "run one session in real time and hot reload prefabs")
	dir := flag.String("prefabs", prefabs.Dir, "directory checked for prefab overrides")
	flag.Parse()

	logger.Init()
	prefabs.Dir = *dir

	if *runs <= 0 || *seconds <= 0 || *tps <= 0 {
		fmt.Fprintln(os.Stderr, "error: -runs, -seconds and -tps must be > 0")
		os.Exit(2)
	}
	dt := 1 / float64(*tps)

	if *watch {
		if err := runWatched(*arenaFile, dt, *dir); err != nil {
			logger.Log.WithError(err).Fatal("watch failed")
		}
		return
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("arena=%s runs=%d limit=%.0fs tps=%d\n\n", *arenaFile, *runs, *seconds, *tps)

	results := make([]runResult, 0, *runs)
	for i := 0; i < *runs; i++ {
		var opts []arena.Option
		if *seedBase != 0 {
			opts = append(opts, arena.WithSeed(*seedBase+int64(i)))
		}
		a, err := arena.Load(*arenaFile, opts...)
		if err != nil {
			logger.Log.WithError(err).Fatal("load arena")
		}
		r := play(a, dt, *seconds)
		r.run = i + 1
		results = append(results, r)
		fmt.Println(r)
	}
	fmt.Println()
	fmt.Print(aggregate(results))
}

// play runs a until the session ends or the time limit passes.
func play(a *arena.Arena, dt, limit float64) runResult {
	a.SetInput(arena.NewAutopilot(a))
	for a.World.Now() < limit {
		if !a.Step(dt) {
			break
		}
	}
	return resultOf(a)
}

func runWatched(arenaFile string, dt float64, dir string) error {
	a, err := arena.Load(arenaFile)
	if err != nil {
		return err
	}
	a.SetInput(arena.NewAutopilot(a))

	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		return err
	}
	defer w.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()
	status := time.NewTicker(2 * time.Second)
	defer status.Stop()

	log := logger.For("headless")
	for {
		select {
		case <-stop:
			log.Info(a.Summary())
			return nil
		case c, ok := <-w.Events:
			if !ok {
				return nil
			}
			if err := a.Reload(c); err != nil {
				log.WithError(err).Warn("reload rejected")
			}
		case err, ok := <-w.Errors:
			if ok {
				log.WithError(err).Warn("watcher")
			}
		case <-status.C:
			log.WithFields(logrus.Fields{
				"hits":   a.Effects.Count(system.EffectHit),
				"deaths": a.Effects.Count(system.EffectDeath),
			}).Info(a.Summary())
		case <-ticker.C:
			if a.Step(dt) {
				continue
			}
			log.Info(a.Summary())
			if err := a.Restart(); err != nil {
				return err
			}
		}
	}
}
