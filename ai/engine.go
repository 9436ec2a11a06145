package ai

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/time/rate"

	"conquest/combat"
	"conquest/config"
	"conquest/game"
	"conquest/pathfind"
)

// Commander consumes the commands an engine issues. The simulation engine
// implements it; tests substitute a recorder.
type Commander interface {
	Attack(playerID, sourceID, targetID, armies int) error
	LaunchLongRangeAttack(playerID, sourceID, targetID, armies int) error
}

// postureUpdater is implemented by strategies that maintain an internal
// stance, refreshed once per think cycle.
type postureUpdater interface {
	UpdatePosture(s *game.SimulationState, playerID int, now time.Time)
}

// Engine is the decision engine of one AI player.
type Engine struct {
	playerID  int
	cfg       config.AI
	strategy  Strategy
	evaluator *Evaluator
	paths     *pathfind.Engine
	commander Commander
	rng       *rand.Rand
	longRange *rate.Limiter
	nextThink time.Time
}

// NewEngine builds the engine for player. The strategy variant is fixed
// here, at construction, from the player's tag.
func NewEngine(player *game.Player, cfg config.AI, resolver *combat.Resolver, paths *pathfind.Engine, commander Commander, seed uint64) *Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) + uint64(player.ID)
	}
	return &Engine{
		playerID:  player.ID,
		cfg:       cfg,
		strategy:  NewStrategy(player.Strategy),
		evaluator: NewEvaluator(resolver),
		paths:     paths,
		commander: commander,
		rng:       rand.New(rand.NewSource(seed)),
		longRange: rate.NewLimiter(rate.Limit(cfg.LongRangePerMinute/60.0), 1),
	}
}

// PlayerID identifies the engine's player.
func (e *Engine) PlayerID() int { return e.playerID }

// Tick runs a think cycle when one is due. Think times are jittered so many
// engines do not burst on the same tick.
func (e *Engine) Tick(s *game.SimulationState, now time.Time) {
	if now.Before(e.nextThink) {
		return
	}
	jitter := time.Duration(e.rng.Int63n(int64(e.cfg.ThinkJitter) + 1))
	e.nextThink = now.Add(e.cfg.ThinkInterval + jitter)

	player, ok := s.Player(e.playerID)
	if !ok || player.Eliminated {
		return
	}
	if pu, ok := e.strategy.(postureUpdater); ok {
		pu.UpdatePosture(s, e.playerID, now)
	}
	e.runCycle(s, now)
}

// runCycle evaluates owned territories above the action threshold, capped
// per cycle as a function of empire size to bound per-tick cost.
func (e *Engine) runCycle(s *game.SimulationState, now time.Time) {
	owned := s.OwnedTerritories(e.playerID)
	actionCap := 1 + len(owned)/e.cfg.ActionCapDivisor
	actions := 0

	for _, id := range owned {
		if actions >= actionCap {
			break
		}
		source := s.Territories[id]
		if source.ArmySize <= e.cfg.MinArmyToAct {
			continue
		}
		committed := source.ArmySize - 1
		targetID, ok := e.strategy.PickTarget(e.evaluator, s, source, committed)
		if !ok {
			continue
		}
		// Rejected commands simply retry next cycle.
		if err := e.commander.Attack(e.playerID, source.ID, targetID, committed); err != nil {
			log.Debug().Err(err).Int("player", e.playerID).Msg("attack rejected")
			continue
		}
		actions++
	}

	e.maybeLongRange(s, now)
}

// maybeLongRange occasionally bypasses adjacency to strike a distant
// high-value territory. The limiter bounds how often any one engine does
// this; a token is only spent when a strike is actually issued, so
// fruitless cycles do not delay a later genuine opportunity.
func (e *Engine) maybeLongRange(s *game.SimulationState, now time.Time) {
	var source *game.Territory
	for _, id := range s.OwnedTerritories(e.playerID) {
		t := s.Territories[id]
		if t.ArmySize > e.cfg.LongRangeSurplus && (source == nil || t.ArmySize > source.ArmySize) {
			source = t
		}
	}
	if source == nil {
		return
	}
	committed := source.ArmySize - 1

	target := e.pickLongRangeTarget(s, committed)
	if target == nil {
		return
	}

	path, err := e.paths.FindAttackPath(s, source.ID, target.ID, e.playerID)
	if err != nil {
		return // no route to the opportunity; discard silently
	}
	if !e.longRange.AllowN(now, 1) {
		return
	}
	if path == nil {
		// Adjacent after all; a plain attack covers it.
		_ = e.commander.Attack(e.playerID, source.ID, target.ID, committed)
		return
	}
	if err := e.commander.LaunchLongRangeAttack(e.playerID, source.ID, target.ID, committed); err != nil {
		log.Debug().Err(err).Int("player", e.playerID).Msg("long-range attack rejected")
	}
}

// pickLongRangeTarget scores non-owned territories by strategic value, with
// thronestars already weighted heavily, and requires the estimated power
// ratio to clear the configured bar.
func (e *Engine) pickLongRangeTarget(s *game.SimulationState, committed int) *game.Territory {
	var best *game.Territory
	bestScore := 0.0
	for _, t := range s.Territories {
		if t.OwnerID == e.playerID {
			continue
		}
		ratio := e.evaluator.PowerRatio(s, e.playerID, committed, t, combat.LongRangeAttack)
		if ratio < e.cfg.LongRangeRatio {
			continue
		}
		if score := e.evaluator.StrategicValue(s, t); score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}
