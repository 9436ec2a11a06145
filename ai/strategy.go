package ai

import (
	"conquest/combat"
	"conquest/game"
)

// Strategy picks an attack target for one source territory. Variants differ
// only in their target filter and risk threshold. A strategy is chosen once
// at engine construction.
type Strategy interface {
	Name() game.StrategyTag
	// PickTarget returns the neighbor to attack from source with
	// committed armies, or ok=false to hold.
	PickTarget(ev *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (targetID int, ok bool)
}

// NewStrategy maps a player's strategy tag to its implementation.
func NewStrategy(tag game.StrategyTag) Strategy {
	switch tag {
	case game.StrategyAggressive:
		return aggressive{}
	case game.StrategyDefensive:
		return defensive{}
	case game.StrategyExpansionist:
		return expansionist{}
	case game.StrategyAdvanced:
		return newAdvanced()
	default:
		return opportunistic{}
	}
}

// enemyNeighbors lists source's non-owned neighbors.
func enemyNeighbors(s *game.SimulationState, source *game.Territory) []*game.Territory {
	var out []*game.Territory
	for _, id := range source.NeighborIDs {
		if t, ok := s.Territory(id); ok && t.OwnerID != source.OwnerID {
			out = append(out, t)
		}
	}
	return out
}

// aggressive attacks the strongest eligible non-owned neighbor as long as
// the committed force reaches 80% of the target's army.
type aggressive struct{}

func (aggressive) Name() game.StrategyTag { return game.StrategyAggressive }

func (aggressive) PickTarget(_ *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (int, bool) {
	best, bestArmy := -1, -1
	for _, t := range enemyNeighbors(s, source) {
		if float64(committed) < 0.8*float64(t.ArmySize) {
			continue
		}
		if t.ArmySize > bestArmy {
			best, bestArmy = t.ID, t.ArmySize
		}
	}
	return best, best != -1
}

// defensive only attacks a neighbor whose army is at most two thirds of the
// attacker's.
type defensive struct{}

func (defensive) Name() game.StrategyTag { return game.StrategyDefensive }

func (defensive) PickTarget(_ *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (int, bool) {
	best, bestArmy := -1, -1
	for _, t := range enemyNeighbors(s, source) {
		if float64(t.ArmySize) > float64(source.ArmySize)*2.0/3.0 {
			continue
		}
		if t.ArmySize > bestArmy {
			best, bestArmy = t.ID, t.ArmySize
		}
	}
	return best, best != -1
}

// expansionist grabs neutral neighbors scored by winChance×strategicValue,
// requiring at least a 25% win chance; with no neutral option it behaves
// opportunistically.
type expansionist struct{}

func (expansionist) Name() game.StrategyTag { return game.StrategyExpansionist }

func (expansionist) PickTarget(ev *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (int, bool) {
	best, bestScore := -1, 0.0
	for _, t := range enemyNeighbors(s, source) {
		if t.OwnerID != game.Unowned {
			continue
		}
		chance := ev.WinChance(s, source.OwnerID, committed, t, combat.DirectAttack)
		if chance < 0.25 {
			continue
		}
		if score := chance * ev.StrategicValue(s, t); score > bestScore {
			best, bestScore = t.ID, score
		}
	}
	if best != -1 {
		return best, true
	}
	return opportunistic{}.PickTarget(ev, s, source, committed)
}

// opportunistic scores every non-owned neighbor by winChance×strategicValue
// with tighter gates against owned enemies than against neutrals.
type opportunistic struct{}

func (opportunistic) Name() game.StrategyTag { return game.StrategyOpportunistic }

func (opportunistic) PickTarget(ev *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (int, bool) {
	best, bestScore := -1, 0.0
	for _, t := range enemyNeighbors(s, source) {
		chance := ev.WinChance(s, source.OwnerID, committed, t, combat.DirectAttack)
		required := 0.4
		if t.OwnerID != game.Unowned {
			required = 0.6
		}
		if chance < required {
			continue
		}
		if score := chance * ev.StrategicValue(s, t); score > bestScore {
			best, bestScore = t.ID, score
		}
	}
	return best, best != -1
}
