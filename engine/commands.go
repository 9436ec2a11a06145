package engine

import (
	"conquest/combat"
	"conquest/game"
)

// Attack resolves or dispatches an attack from sourceID against targetID.
// An adjacent target is fought immediately; a routed target launches an
// attack fleet along the bridge path.
func (e *Engine) Attack(playerID, sourceID, targetID, armies int) error {
	source, err := e.ownedSource(playerID, sourceID)
	if err != nil {
		return err
	}
	if armies <= 0 || source.ArmySize <= 1 {
		return combat.ErrInsufficientForce
	}
	if err := e.hostileTarget(playerID, targetID); err != nil {
		return err
	}

	path, err := e.paths.FindAttackPath(e.State, sourceID, targetID, playerID)
	if err != nil {
		return err
	}
	if path == nil {
		return e.directAttack(playerID, sourceID, targetID, armies, combat.DirectAttack)
	}
	e.dispatch(playerID, path, armies, true)
	return nil
}

// Transfer sends all spare armies from sourceID to another owned territory
// as a reinforcement fleet.
func (e *Engine) Transfer(playerID, sourceID, targetID int) error {
	source, err := e.ownedSource(playerID, sourceID)
	if err != nil {
		return err
	}
	if source.ArmySize <= 1 {
		return combat.ErrInsufficientForce
	}
	path, err := e.paths.FindShortestPath(e.State, sourceID, targetID, playerID)
	if err != nil {
		return err
	}
	e.dispatch(playerID, path, source.ArmySize-1, false)
	return nil
}

// LaunchLongRangeAttack dispatches an attack fleet toward a non-adjacent
// target across the player's territory.
func (e *Engine) LaunchLongRangeAttack(playerID, sourceID, targetID, armies int) error {
	source, err := e.ownedSource(playerID, sourceID)
	if err != nil {
		return err
	}
	if armies <= 0 || source.ArmySize <= 1 {
		return combat.ErrInsufficientForce
	}
	if err := e.hostileTarget(playerID, targetID); err != nil {
		return err
	}
	path, err := e.paths.FindAttackPath(e.State, sourceID, targetID, playerID)
	if err != nil {
		return err
	}
	if path == nil {
		return e.directAttack(playerID, sourceID, targetID, armies, combat.LongRangeAttack)
	}
	e.dispatch(playerID, path, armies, true)
	return nil
}

// CreateSupplyRoute links two owned territories with a persistent route.
func (e *Engine) CreateSupplyRoute(playerID, sourceID, targetID int) (string, error) {
	return e.supply.CreateRoute(e.State, playerID, sourceID, targetID)
}

// CancelSupplyRoute removes a route.
func (e *Engine) CancelSupplyRoute(routeID string) {
	e.supply.Cancel(routeID)
}

// hostileTarget rejects attacks on territory the player already holds.
func (e *Engine) hostileTarget(playerID, targetID int) error {
	target, ok := e.State.Territory(targetID)
	if !ok {
		return ErrNotOwned
	}
	if target.OwnerID == playerID {
		return ErrOwnTarget
	}
	return nil
}

func (e *Engine) ownedSource(playerID, sourceID int) (*game.Territory, error) {
	source, ok := e.State.Territory(sourceID)
	if !ok || source.OwnerID != playerID {
		return nil, ErrNotOwned
	}
	return source, nil
}

// dispatch deducts armies from the path head and launches a fleet. The
// source always keeps one army.
func (e *Engine) dispatch(playerID int, path []int, armies int, isAttack bool) {
	source := e.State.Territories[path[0]]
	if armies > source.ArmySize-1 {
		armies = source.ArmySize - 1
	}
	source.ArmySize -= armies
	e.tracker.Launch(playerID, path, armies, isAttack, e.currentTime())
}

// directAttack fights an adjacent battle immediately and publishes the
// outcome.
func (e *Engine) directAttack(playerID, sourceID, targetID, armies int, ctx combat.Context) error {
	target, ok := e.State.Territory(targetID)
	if !ok {
		return ErrNotOwned
	}
	defenderID := target.OwnerID

	result, err := e.resolver.Attack(e.State, playerID, sourceID, targetID, armies, ctx)
	if err != nil {
		return err
	}
	now := e.currentTime()
	e.publish(game.CombatEvent{
		Time:              now,
		AttackerID:        playerID,
		DefenderID:        defenderID,
		SourceID:          sourceID,
		TargetID:          targetID,
		AttackerWon:       result.AttackerWon,
		AttackerCasualty:  result.AttackerCasualty,
		DefenderCasualty:  result.DefenderCasualty,
		ThroneCapture:     result.ThroneCapture,
		EliminatedID:      result.EliminatedID,
		GameEnded:         result.GameEnded,
		CommittedArmies:   armies,
		SurvivingAttacker: result.SurvivingAttacker,
	})
	if result.ThroneCapture {
		e.publish(game.EliminationEvent{Time: now, PlayerID: result.EliminatedID, ConquerorID: playerID})
	}
	return nil
}
