package game

import (
	"fmt"
	"sort"
)

// SimulationState is the single authoritative game state. It is owned by the
// tick loop and passed explicitly into every component call; exactly one
// writer exists at any time, so no locking is needed.
type SimulationState struct {
	Territories map[int]*Territory
	Players     map[int]*Player
}

// NewSimulationState returns an empty state.
func NewSimulationState() *SimulationState {
	return &SimulationState{
		Territories: make(map[int]*Territory),
		Players:     make(map[int]*Player),
	}
}

// AddTerritory registers a territory.
func (s *SimulationState) AddTerritory(t *Territory) {
	if t.OwnerID == 0 {
		t.OwnerID = Unowned
	}
	s.Territories[t.ID] = t
}

// AddPlayer registers a player.
func (s *SimulationState) AddPlayer(p *Player) {
	s.Players[p.ID] = p
}

// AddBorder links two territories bidirectionally.
func (s *SimulationState) AddBorder(id1, id2 int) {
	t1, ok1 := s.Territories[id1]
	t2, ok2 := s.Territories[id2]
	if !ok1 || !ok2 || id1 == id2 {
		return
	}
	if !t1.IsAdjacent(id2) {
		t1.NeighborIDs = append(t1.NeighborIDs, id2)
	}
	if !t2.IsAdjacent(id1) {
		t2.NeighborIDs = append(t2.NeighborIDs, id1)
	}
}

// Territory looks up a territory by id.
func (s *SimulationState) Territory(id int) (*Territory, bool) {
	t, ok := s.Territories[id]
	return t, ok
}

// Player looks up a player by id.
func (s *SimulationState) Player(id int) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// SetOwner reassigns a territory to newOwner, keeping the territory's
// OwnerID and the players' owned sets consistent. Pass Unowned to make the
// territory neutral.
func (s *SimulationState) SetOwner(territoryID, newOwnerID int) error {
	t, ok := s.Territories[territoryID]
	if !ok {
		return fmt.Errorf("set owner: unknown territory %d", territoryID)
	}
	if old, ok := s.Players[t.OwnerID]; ok {
		delete(old.Owned, territoryID)
	}
	t.OwnerID = newOwnerID
	if newOwnerID != Unowned {
		p, ok := s.Players[newOwnerID]
		if !ok {
			return fmt.Errorf("set owner: unknown player %d", newOwnerID)
		}
		p.Owned[territoryID] = struct{}{}
	}
	return nil
}

// OwnedTerritories returns the ids a player owns, sorted for deterministic
// iteration.
func (s *SimulationState) OwnedTerritories(playerID int) []int {
	p, ok := s.Players[playerID]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(p.Owned))
	for id := range p.Owned {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Thronestar returns the id of the player's thronestar, or -1 if the player
// holds none.
func (s *SimulationState) Thronestar(playerID int) int {
	for _, id := range s.OwnedTerritories(playerID) {
		if s.Territories[id].Thronestar {
			return id
		}
	}
	return -1
}

// ProductionTick grows armies on owned territories. Fractional growth
// accumulates in the territory's bank until a whole army is produced.
func (s *SimulationState) ProductionTick() {
	for _, t := range s.Territories {
		if t.OwnerID == Unowned {
			continue
		}
		t.growthBank += t.Growth
		for t.growthBank >= 1 {
			t.ArmySize++
			t.growthBank--
		}
	}
}
