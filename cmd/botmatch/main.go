// Command botmatch runs bot-only matches headless and prints per-run and
// aggregate reports. Useful for balancing archetypes and weapons without
// opening a window.
package main

import (
	"flag"
	"fmt"
	"log"

	"rift-arena/internal/game"
)

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var mode string
	var bots int
	var configPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 3, "number of matches to simulate")
	flag.IntVar(&ticks, "ticks", 18000, "tick cap per match (18000 = 5 min at 60Hz)")
	flag.Int64Var(&seedBase, "seed", 42, "RNG seed for run 1; later runs increment")
	flag.StringVar(&mode, "mode", "", "game mode override: ffa or tdm")
	flag.IntVar(&bots, "bots", 0, "bot count override")
	flag.StringVar(&configPath, "config", "", "YAML config overriding the built-in defaults")
	flag.BoolVar(&verbose, "v", false, "dump the full simulation log per run")
	flag.Parse()

	if runs <= 0 || ticks <= 0 {
		log.Fatal("-runs and -ticks must be positive")
	}
	if mode == "waves" {
		log.Fatal("-mode waves needs a player; use cmd/game")
	}

	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = game.LoadConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if mode != "" {
		cfg.Mode.Name = mode
	}
	if bots > 0 {
		cfg.Bots.Count = bots
	}
	if cfg.Bots.Count < 2 {
		cfg.Bots.Count = 2
	}

	fmt.Printf("=== botmatch: %d runs, %d ticks, mode %s, %d bots ===\n\n",
		runs, ticks, cfg.Mode.Name, cfg.Bots.Count)

	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)
		w := game.NewWorld(cfg, game.BuildArena(), seed)
		w.SpawnBots()
		reporter := game.NewReporter(w)

		ran := w.Run(ticks)
		fmt.Printf("--- run %d (seed %d): %d ticks ---\n", i+1, seed, ran)
		fmt.Println(reporter.Report())
		if verbose {
			fmt.Println(w.Log().Dump())
		}
	}
}
