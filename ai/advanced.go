package ai

import (
	"time"

	"github.com/rs/zerolog/log"

	"conquest/game"
)

// Posture is the advanced strategy's current stance.
type Posture int

const (
	EarlyExpansion Posture = iota
	Consolidating
	Aggressive
	Defensive
)

func (p Posture) String() string {
	switch p {
	case EarlyExpansion:
		return "early_expansion"
	case Consolidating:
		return "consolidating"
	case Aggressive:
		return "aggressive"
	default:
		return "defensive"
	}
}

// minDwell gates posture changes so the strategy cannot thrash between
// stances on noisy readings.
const minDwell = 15 * time.Second

// advanced layers posture transitions over the base strategies: the posture
// is driven by the fraction of the map owned and the fraction of owned
// territories under threat, and each posture delegates target picking to
// the matching base variant.
type advanced struct {
	posture   Posture
	changedAt time.Time
}

func newAdvanced() *advanced {
	return &advanced{posture: EarlyExpansion}
}

func (a *advanced) Name() game.StrategyTag { return game.StrategyAdvanced }

func (a *advanced) PickTarget(ev *Evaluator, s *game.SimulationState, source *game.Territory, committed int) (int, bool) {
	return a.delegate().PickTarget(ev, s, source, committed)
}

func (a *advanced) delegate() Strategy {
	switch a.posture {
	case EarlyExpansion:
		return expansionist{}
	case Consolidating:
		return opportunistic{}
	case Aggressive:
		return aggressive{}
	default:
		return defensive{}
	}
}

// UpdatePosture re-reads the board and possibly transitions, respecting the
// minimum dwell time.
func (a *advanced) UpdatePosture(s *game.SimulationState, playerID int, now time.Time) {
	if a.changedAt.IsZero() {
		a.changedAt = now
	}
	if now.Sub(a.changedAt) < minDwell {
		return
	}

	mapShare, threatFrac := boardReading(s, playerID)
	next := a.posture
	switch {
	case threatFrac > 0.3:
		next = Defensive
	case mapShare > 0.4 && threatFrac < 0.15:
		next = Aggressive
	case mapShare > 0.25:
		next = Consolidating
	default:
		next = EarlyExpansion
	}
	if next != a.posture {
		log.Info().Int("player", playerID).
			Str("from", a.posture.String()).Str("to", next.String()).
			Float64("mapShare", mapShare).Float64("threat", threatFrac).
			Msg("posture change")
		a.posture = next
		a.changedAt = now
	}
}

// boardReading returns the owned fraction of the map and the fraction of
// owned territories bordered by a stronger enemy force.
func boardReading(s *game.SimulationState, playerID int) (mapShare, threatFrac float64) {
	owned := s.OwnedTerritories(playerID)
	if len(s.Territories) == 0 || len(owned) == 0 {
		return 0, 0
	}
	threatened := 0
	for _, id := range owned {
		t := s.Territories[id]
		for _, nid := range t.NeighborIDs {
			nbr, ok := s.Territory(nid)
			if !ok || nbr.OwnerID == playerID || nbr.OwnerID == game.Unowned {
				continue
			}
			if nbr.ArmySize > t.ArmySize {
				threatened++
				break
			}
		}
	}
	return float64(len(owned)) / float64(len(s.Territories)),
		float64(threatened) / float64(len(owned))
}
