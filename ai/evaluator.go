// Package ai drives the autonomous players: each engine evaluates its owned
// territories on a jittered think interval and issues attack, transfer and
// long-range commands. A concurrent port should compute decision batches
// read-only and apply them serially against the single authoritative state.
package ai

import (
	"conquest/combat"
	"conquest/game"
)

// winChanceSamples trades estimate quality against evaluation cost.
const winChanceSamples = 8

// Evaluator estimates battle outcomes and target values for strategies.
type Evaluator struct {
	resolver *combat.Resolver
}

// NewEvaluator wraps a resolver whose multiplier distribution the estimates
// sample.
func NewEvaluator(resolver *combat.Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// WinChance estimates the probability that committed armies take target.
// It samples the resolver's multiplier distribution independently of any
// actual battle, so the AI may misjudge outcomes.
func (ev *Evaluator) WinChance(s *game.SimulationState, attackerID, committed int, target *game.Territory, ctx combat.Context) float64 {
	var attackBonus, defenseBonus float64
	if p, ok := s.Player(attackerID); ok {
		attackBonus = p.CombatBonus()
	}
	if p, ok := s.Player(target.OwnerID); ok {
		defenseBonus = p.CombatBonus()
	}

	wins := 0
	for i := 0; i < winChanceSamples; i++ {
		attack := ev.resolver.AttackPower(committed, attackBonus, ctx, target.Terrain)
		defense := ev.resolver.DefensePower(target.ArmySize, defenseBonus, target.Terrain)
		if attack > defense {
			wins++
		}
	}
	return float64(wins) / winChanceSamples
}

// PowerRatio samples one attack-to-defense power ratio for a prospective
// battle. A ratio above 1 means the sampled attack would win.
func (ev *Evaluator) PowerRatio(s *game.SimulationState, attackerID, committed int, target *game.Territory, ctx combat.Context) float64 {
	var attackBonus, defenseBonus float64
	if p, ok := s.Player(attackerID); ok {
		attackBonus = p.CombatBonus()
	}
	if p, ok := s.Player(target.OwnerID); ok {
		defenseBonus = p.CombatBonus()
	}
	attack := ev.resolver.AttackPower(committed, attackBonus, ctx, target.Terrain)
	defense := ev.resolver.DefensePower(target.ArmySize, defenseBonus, target.Terrain)
	if defense == 0 {
		return attack + 1 // empty territory, any force takes it
	}
	return attack / defense
}

// StrategicValue scores a territory for expansion: high-degree nodes and
// nodes bridging distinct terrain regions are worth more, and thronestars
// dominate everything else.
func (ev *Evaluator) StrategicValue(s *game.SimulationState, t *game.Territory) float64 {
	value := float64(len(t.NeighborIDs))
	terrains := map[game.Terrain]struct{}{t.Terrain: {}}
	for _, id := range t.NeighborIDs {
		if nbr, ok := s.Territory(id); ok {
			terrains[nbr.Terrain] = struct{}{}
		}
	}
	if len(terrains) >= 3 {
		value += 2 // bridges multiple regions
	}
	if t.Thronestar {
		value += 10
	}
	return value
}
