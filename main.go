package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"conquest/config"
	"conquest/engine"
	"conquest/game"
	"conquest/telemetry"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML tuning file")
		eventsPath = flag.String("events", "events.db", "SQLite event log")
		ticks      = flag.Int("ticks", 600, "maximum simulation ticks")
		seed       = flag.Uint64("seed", 0, "map and combat seed (0 = random)")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading config")
		}
		cfg = loaded
	}

	state := game.NewSimulationState()
	state.AddPlayer(game.NewPlayer(1, "Commander", game.HumanPlayer, ""))
	state.AddPlayer(game.NewPlayer(2, "Crimson Dominion", game.AIPlayer, game.StrategyAggressive))
	state.AddPlayer(game.NewPlayer(3, "Verdant Compact", game.AIPlayer, game.StrategyExpansionist))
	state.AddPlayer(game.NewPlayer(4, "Umbral Court", game.AIPlayer, game.StrategyAdvanced))

	genCfg := game.DefaultGenConfig()
	genCfg.Seed = *seed
	if err := game.GenerateMap(state, genCfg); err != nil {
		log.Fatal().Err(err).Msg("generating map")
	}

	eng := engine.New(state, cfg, *seed)

	recorder, err := telemetry.Open(*eventsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening event log")
	}
	defer recorder.Close()
	eng.Subscribe(recorder.Record)

	eng.Run(100*time.Millisecond, *ticks)

	counts, err := recorder.CountByKind()
	if err != nil {
		log.Error().Err(err).Msg("reading event log")
		return
	}
	for kind, n := range counts {
		log.Info().Str("kind", kind).Int("count", n).Msg("events recorded")
	}
}
