// Package engine owns the authoritative simulation state and drives the
// tick loop: AI decisions, fleet advancement, combat resolution and supply
// logistics all execute sequentially within one logical tick, so exactly
// one writer exists at any time.
package engine

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"conquest/ai"
	"conquest/combat"
	"conquest/config"
	"conquest/fleet"
	"conquest/game"
	"conquest/pathfind"
	"conquest/supply"
)

var (
	// ErrNotOwned rejects a command whose source the player does not own.
	ErrNotOwned = errors.New("engine: source not owned")
	// ErrOwnTarget rejects an attack on the player's own territory; moving
	// armies between owned territories is Transfer's job.
	ErrOwnTarget = errors.New("engine: target already owned")
)

// Engine wires the components around one SimulationState.
type Engine struct {
	State *game.SimulationState

	cfg       config.Config
	paths     *pathfind.Engine
	resolver  *combat.Resolver
	tracker   *fleet.Tracker
	supply    *supply.Manager
	agents    []*ai.Engine
	listeners []game.Listener

	lastValidate time.Time
	lastProcess  time.Time
	now          time.Time // time of the tick in progress
	gameEnded    bool
}

// New assembles an engine over state. AI engines are created for every
// non-human, non-eliminated player.
func New(state *game.SimulationState, cfg config.Config, seed uint64) *Engine {
	e := &Engine{
		State: state,
		cfg:   cfg,
		paths: pathfind.New(),
	}
	e.resolver = combat.NewResolver(cfg.Combat, seed)
	e.tracker = fleet.NewTracker(cfg.Fleet, e.resolver, e.publish)
	e.supply = supply.NewManager(cfg.Supply, e.paths, e.publish)

	for _, p := range state.Players {
		if p.Kind != game.AIPlayer {
			continue
		}
		agentSeed := seed
		if agentSeed != 0 {
			agentSeed += uint64(p.ID)
		}
		e.agents = append(e.agents, ai.NewEngine(p, cfg.AI, e.resolver, e.paths, e, agentSeed))
	}
	return e
}

// Subscribe registers a listener for produced events. Events are purely
// informational; no subscriber is required for correctness.
func (e *Engine) Subscribe(l game.Listener) {
	e.listeners = append(e.listeners, l)
}

// GameEnded reports whether the human player's thronestar has fallen.
func (e *Engine) GameEnded() bool { return e.gameEnded }

// Pathfinder exposes the routing engine for external collaborators.
func (e *Engine) Pathfinder() *pathfind.Engine { return e.paths }

// Supply exposes the route manager for external collaborators.
func (e *Engine) Supply() *supply.Manager { return e.supply }

// Tick advances the simulation by one logical step at time now.
func (e *Engine) Tick(now time.Time) {
	if e.gameEnded {
		return
	}
	e.now = now
	e.State.ProductionTick()
	for _, agent := range e.agents {
		agent.Tick(e.State, now)
	}
	e.tracker.Tick(e.State, now)

	if now.Sub(e.lastValidate) >= e.cfg.Supply.ValidateInterval {
		e.supply.Validate(e.State)
		e.lastValidate = now
	}
	if now.Sub(e.lastProcess) >= e.cfg.Supply.ProcessInterval {
		e.supply.Process(e.State, now)
		e.lastProcess = now
	}
}

// Run drives Tick on a fixed interval until the game ends or maxTicks have
// elapsed.
func (e *Engine) Run(tickEvery time.Duration, maxTicks int) {
	log.Info().Int("players", len(e.State.Players)).
		Int("territories", len(e.State.Territories)).Msg("simulation started")
	for i := 0; i < maxTicks && !e.gameEnded; i++ {
		e.Tick(time.Now())
		time.Sleep(tickEvery)
	}
	log.Info().Bool("gameEnded", e.gameEnded).Msg("simulation stopped")
}

// currentTime is the tick time for commands issued mid-tick, or wall time
// for commands arriving between ticks.
func (e *Engine) currentTime() time.Time {
	if e.now.IsZero() {
		return time.Now()
	}
	return e.now
}

func (e *Engine) publish(ev game.Event) {
	if c, ok := ev.(game.CombatEvent); ok && c.GameEnded {
		e.gameEnded = true
	}
	for _, l := range e.listeners {
		l(ev)
	}
}
