package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/skirmish/arena"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/prefabs"
)

func main() {
	arenaFile := flag.String("arena", "arena.yaml", "arena prefab to play")
	debug := flag.Bool("debug", false, "start with the physics overlay on")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	dir := flag.String("prefabs", prefabs.Dir, "prefab directory to read from and watch")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	flag.Parse()

	logger.Init()
	if *tps <= 0 {
		log.Fatal("tps must be positive")
	}
	prefabs.Dir = *dir

	a, err := arena.Load(*arenaFile)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(*dir)
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("skirmish")
	ebiten.SetTPS(*tps)

	if err := ebiten.RunGame(NewGame(a, *tps, *debug, watcher)); err != nil {
		log.Fatal(err)
	}
}
