package main

import (
	"flag"
	"log"

	"rift-arena/internal/audio"
	"rift-arena/internal/game"
)

func main() {
	var configPath string
	var mute bool
	flag.StringVar(&configPath, "config", "", "YAML config overriding the built-in defaults")
	flag.BoolVar(&mute, "mute", false, "disable audio")
	flag.Parse()

	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = game.LoadConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	var sink game.AudioSink
	if !mute {
		mgr := audio.NewManager()
		if err := mgr.Init(); err != nil {
			log.Printf("audio unavailable: %v", err)
		} else {
			defer mgr.Shutdown()
			sink = mgr
		}
	}

	g := game.NewGame(cfg, sink)
	if configPath != "" {
		watcher, err := game.WatchConfig(configPath)
		if err != nil {
			log.Printf("config watch unavailable: %v", err)
		} else {
			defer watcher.Close()
			g.SetConfigUpdates(watcher.Updates, watcher.Errors)
		}
	}

	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
}
