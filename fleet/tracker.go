// Package fleet advances in-transit fleets along their paths and hands
// arrivals and interceptions to the combat resolver.
package fleet

import (
	"time"

	"github.com/rs/zerolog/log"

	"conquest/combat"
	"conquest/config"
	"conquest/game"
)

// Tracker owns every fleet currently in transit.
type Tracker struct {
	cfg      config.Fleet
	resolver *combat.Resolver
	fleets   []*game.Fleet
	listener game.Listener
}

// NewTracker returns a tracker resolving combat through resolver. listener
// may be nil.
func NewTracker(cfg config.Fleet, resolver *combat.Resolver, listener game.Listener) *Tracker {
	return &Tracker{cfg: cfg, resolver: resolver, listener: listener}
}

// Launch creates a fleet at the head of path. The caller is responsible for
// deducting the dispatched armies from the source territory.
func (tr *Tracker) Launch(ownerID int, path []int, size int, isAttack bool, now time.Time) *game.Fleet {
	f := game.NewFleet(ownerID, path, size, isAttack, now)
	tr.fleets = append(tr.fleets, f)
	log.Debug().Str("fleet", f.ID).Int("owner", ownerID).Int("size", size).
		Bool("attack", isAttack).Ints("path", path).Msg("fleet launched")
	return f
}

// InTransit returns the number of active fleets.
func (tr *Tracker) InTransit() int { return len(tr.fleets) }

// Tick advances every active fleet by at most one hop. A fleet advances
// when the elapsed time since its last hop exceeds the hop's pixel distance
// times the per-pixel duration. Advancing more than one hop per tick is
// deliberately not done, even after a large time delta; it paces fleets at
// tick resolution.
func (tr *Tracker) Tick(s *game.SimulationState, now time.Time) {
	remaining := tr.fleets[:0]
	for _, f := range tr.fleets {
		if !tr.advance(s, f, now) {
			remaining = append(remaining, f)
		}
	}
	tr.fleets = remaining
}

// advance moves one fleet and reports whether it finished (arrived,
// intercepted, or discarded).
func (tr *Tracker) advance(s *game.SimulationState, f *game.Fleet, now time.Time) bool {
	if len(f.Path) < 2 || f.HopIndex >= len(f.Path)-1 {
		log.Warn().Str("fleet", f.ID).Msg("discarding fleet with unusable path")
		return true
	}
	cur, okCur := s.Territory(f.Path[f.HopIndex])
	next, okNext := s.Territory(f.Path[f.HopIndex+1])
	if !okCur || !okNext {
		log.Warn().Str("fleet", f.ID).Msg("discarding fleet referencing missing territory")
		return true
	}

	hopDuration := time.Duration(cur.DistanceTo(next)) * tr.cfg.HopDurationPerPixel
	if now.Sub(f.LastHopAt) <= hopDuration {
		return false
	}

	// A contested intermediate hop redirects the fleet into an immediate
	// attack on that territory; it never proceeds past it.
	if !f.AtFinalHop() && next.OwnerID != f.OwnerID {
		tr.intercept(s, f, next, now)
		return true
	}

	f.HopIndex++
	f.LastHopAt = now
	if f.HopIndex < len(f.Path)-1 {
		return false
	}
	tr.arrive(s, f, now)
	return true
}

func (tr *Tracker) intercept(s *game.SimulationState, f *game.Fleet, at *game.Territory, now time.Time) {
	log.Info().Str("fleet", f.ID).Int("territory", at.ID).Msg("fleet intercepted")
	tr.emit(game.FleetInterceptedEvent{
		Time:        now,
		FleetID:     f.ID,
		OwnerID:     f.OwnerID,
		TerritoryID: at.ID,
		Size:        f.Size,
	})
	tr.resolveAttack(s, f, f.Path[f.HopIndex], at.ID, combat.LongRangeAttack, now)
}

func (tr *Tracker) arrive(s *game.SimulationState, f *game.Fleet, now time.Time) {
	dest, ok := s.Territory(f.Destination())
	if !ok {
		return
	}
	tr.emit(game.FleetArrivedEvent{
		Time:        now,
		FleetID:     f.ID,
		OwnerID:     f.OwnerID,
		TerritoryID: dest.ID,
		Size:        f.Size,
		WasAttack:   f.IsAttack,
	})
	if f.IsAttack && dest.OwnerID != f.OwnerID {
		tr.resolveAttack(s, f, f.Path[f.HopIndex-1], dest.ID, combat.DirectAttack, now)
		return
	}
	// Friendly reinforcement bypasses the resolver entirely.
	dest.ArmySize += f.Size
}

// resolveAttack fights an in-flight fleet against a territory. The fleet's
// armies are already off the map, so they are staged on the launch-side
// territory for the resolver's dispatch accounting. Staging is arithmetic
// only: the fleet fights as its own owner even when that territory changed
// hands mid-transit, and the resolver's deduction leaves a flipped hop's
// garrison untouched.
func (tr *Tracker) resolveAttack(s *game.SimulationState, f *game.Fleet, fromID, targetID int, ctx combat.Context, now time.Time) {
	from, ok := s.Territory(fromID)
	if !ok {
		return
	}
	defenderID := game.Unowned
	if target, ok := s.Territory(targetID); ok {
		defenderID = target.OwnerID
	}
	from.ArmySize += f.Size
	result, err := tr.resolver.Attack(s, f.OwnerID, fromID, targetID, f.Size, ctx)
	if err != nil {
		// Fleet too small to fight; the staged armies stay where they are.
		log.Warn().Err(err).Str("fleet", f.ID).Msg("fleet attack rejected")
		return
	}
	tr.emit(game.CombatEvent{
		Time:              now,
		AttackerID:        f.OwnerID,
		DefenderID:        defenderID,
		SourceID:          fromID,
		TargetID:          targetID,
		AttackerWon:       result.AttackerWon,
		AttackerCasualty:  result.AttackerCasualty,
		DefenderCasualty:  result.DefenderCasualty,
		ThroneCapture:     result.ThroneCapture,
		EliminatedID:      result.EliminatedID,
		GameEnded:         result.GameEnded,
		CommittedArmies:   f.Size,
		SurvivingAttacker: result.SurvivingAttacker,
	})
	if result.GameEnded {
		tr.emit(game.EliminationEvent{Time: now, PlayerID: result.EliminatedID, ConquerorID: f.OwnerID})
	}
}

func (tr *Tracker) emit(e game.Event) {
	if tr.listener != nil {
		tr.listener(e)
	}
}
