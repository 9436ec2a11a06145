// Package combat resolves attacks between territories and mutates ownership.
// The resolver performs pure data mutation; it schedules no presentation
// effects.
package combat

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"conquest/config"
	"conquest/game"
)

// ErrInsufficientForce rejects an attack with a non-positive commitment or a
// source that cannot spare a single army. No mutation is performed.
var ErrInsufficientForce = errors.New("combat: insufficient force")

// Context selects the base coefficient applied to the attacker's power.
type Context int

const (
	// DirectAttack is a deliberate adjacent or routed attack.
	DirectAttack Context = iota
	// LongRangeAttack covers long-range strikes and fleet interceptions,
	// which fight at reduced effectiveness.
	LongRangeAttack
)

// Result reports a resolved battle.
type Result struct {
	AttackerWon       bool
	AttackerCasualty  int
	DefenderCasualty  int
	SurvivingAttacker int // attacker armies on the target after a win
	ThroneCapture     bool
	EliminatedID      int // game.Unowned when nobody fell
	GameEnded         bool
}

// RollFn produces a multiplier in [lo, hi]. Injected so tests can pin rolls.
type RollFn func(lo, hi float64) float64

// Resolver computes battle outcomes.
type Resolver struct {
	cfg  config.Combat
	roll RollFn
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithRoll replaces the random multiplier source.
func WithRoll(roll RollFn) Option {
	return func(r *Resolver) {
		if roll != nil {
			r.roll = roll
		}
	}
}

// NewResolver returns a resolver using the given tuning and a seeded
// uniform roll source.
func NewResolver(cfg config.Combat, seed uint64, options ...Option) *Resolver {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	r := &Resolver{
		cfg: cfg,
		roll: func(lo, hi float64) float64 {
			return lo + rng.Float64()*(hi-lo)
		},
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// AttackPower computes the attacker side of the power formula. Exposed so
// AI win-chance estimates sample the same distribution independently.
func (r *Resolver) AttackPower(committed int, bonus float64, ctx Context, terrain game.Terrain) float64 {
	coeff := r.cfg.DirectCoefficient
	if ctx == LongRangeAttack {
		coeff = r.cfg.LongRangeCoefficient
	}
	return float64(committed) * coeff *
		r.roll(r.cfg.AttackRollMin, r.cfg.AttackRollMax) *
		(1 + bonus) * terrain.AttackModifier()
}

// DefensePower computes the defender side of the power formula.
func (r *Resolver) DefensePower(army int, bonus float64, terrain game.Terrain) float64 {
	return float64(army) *
		r.roll(r.cfg.DefenseRollMin, r.cfg.DefenseRollMax) *
		(1 + bonus + r.cfg.HomeAdvantage) * terrain.DefenseModifier()
}

// Attack resolves committedArmies from source against target on behalf of
// attackerID. The attacker is explicit rather than read off the source
// territory: an in-flight fleet fights for its owner even when the hop it
// stages from has changed hands. The source always retains at least one
// army; commitments beyond that are clamped. On an attacker win the target
// changes owner and holds the surviving attackers (at least one). On a
// defender win the committed force is lost and the defender keeps at least
// one army.
func (r *Resolver) Attack(s *game.SimulationState, attackerID, sourceID, targetID, committedArmies int, ctx Context) (Result, error) {
	result := Result{EliminatedID: game.Unowned}

	source, ok := s.Territory(sourceID)
	if !ok {
		return result, ErrInsufficientForce
	}
	target, ok := s.Territory(targetID)
	if !ok {
		return result, ErrInsufficientForce
	}
	if committedArmies <= 0 || source.ArmySize <= 1 {
		return result, ErrInsufficientForce
	}
	if committedArmies > source.ArmySize-1 {
		committedArmies = source.ArmySize - 1
	}

	attacker, _ := s.Player(attackerID)
	defender, _ := s.Player(target.OwnerID)
	var attackBonus, defenseBonus float64
	if attacker != nil {
		attackBonus = attacker.CombatBonus()
	}
	if defender != nil {
		defenseBonus = defender.CombatBonus()
	}

	attackPower := r.AttackPower(committedArmies, attackBonus, ctx, target.Terrain)
	defensePower := r.DefensePower(target.ArmySize, defenseBonus, target.Terrain)

	source.ArmySize -= committedArmies
	defenderArmy := target.ArmySize

	if attackPower > defensePower {
		casualtyRate := 1 - attackPower/(attackPower+defensePower)
		attackerLoss := int(math.Round(r.cfg.AttackerLossFactor * casualtyRate * float64(committedArmies)))
		survivors := committedArmies - attackerLoss
		if survivors < 1 {
			survivors = 1
			attackerLoss = committedArmies - 1
		}

		result.AttackerWon = true
		result.AttackerCasualty = attackerLoss
		result.DefenderCasualty = defenderArmy
		result.SurvivingAttacker = survivors

		target.ArmySize = survivors
		r.capture(s, attackerID, target, &result)
	} else {
		casualtyRate := 1 - defensePower/(attackPower+defensePower)
		defenderLoss := int(casualtyRate * float64(defenderArmy))
		if defenderArmy-defenderLoss < 1 {
			defenderLoss = defenderArmy - 1
		}
		if defenderLoss < 0 {
			defenderLoss = 0
		}

		result.AttackerWon = false
		result.AttackerCasualty = committedArmies
		result.DefenderCasualty = defenderLoss
		target.ArmySize = defenderArmy - defenderLoss
	}

	log.Debug().
		Int("source", sourceID).
		Int("target", targetID).
		Int("committed", committedArmies).
		Bool("attackerWon", result.AttackerWon).
		Msg("battle resolved")

	return result, nil
}

// capture transfers target to the attacker and, when target is a
// thronestar, cascades the defeated player's whole empire to the capturer.
func (r *Resolver) capture(s *game.SimulationState, attackerID int, target *game.Territory, result *Result) {
	defeatedID := target.OwnerID
	attackerThrone := s.Thronestar(attackerID)
	_ = s.SetOwner(target.ID, attackerID)

	if !target.Thronestar || defeatedID == game.Unowned {
		return
	}
	defeated, ok := s.Player(defeatedID)
	if !ok {
		return
	}

	result.ThroneCapture = true
	result.EliminatedID = defeatedID

	// The whole empire falls with its capital.
	for _, id := range s.OwnedTerritories(defeatedID) {
		_ = s.SetOwner(id, attackerID)
	}
	defeated.Eliminated = true

	// Exactly one thronestar flag persists for the capturing empire: the
	// capturer keeps its own capital and the fallen one loses the flag.
	if attackerThrone != -1 {
		target.Thronestar = false
	}

	if defeated.Kind == game.HumanPlayer {
		result.GameEnded = true
	}

	log.Info().
		Int("attacker", attackerID).
		Int("eliminated", defeatedID).
		Bool("gameEnded", result.GameEnded).
		Msg("thronestar captured")
}
