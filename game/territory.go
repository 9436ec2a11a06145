package game

import "math"

// Terrain classifies a territory and scales combat in it.
type Terrain int

const (
	TerrainPlains Terrain = iota
	TerrainNebula
	TerrainAsteroids
	TerrainRift
)

func (t Terrain) String() string {
	switch t {
	case TerrainPlains:
		return "plains"
	case TerrainNebula:
		return "nebula"
	case TerrainAsteroids:
		return "asteroids"
	case TerrainRift:
		return "rift"
	default:
		return "unknown"
	}
}

// AttackModifier scales the power of armies attacking into this terrain.
func (t Terrain) AttackModifier() float64 {
	switch t {
	case TerrainNebula:
		return 0.9
	case TerrainRift:
		return 0.8
	default:
		return 1.0
	}
}

// DefenseModifier scales the power of armies defending this terrain.
func (t Terrain) DefenseModifier() float64 {
	switch t {
	case TerrainAsteroids:
		return 1.2
	case TerrainNebula:
		return 1.1
	default:
		return 1.0
	}
}

// Unowned marks a territory with no owner.
const Unowned = -1

// Territory is a node of the conquest graph: a position, an army pool, and
// an optional owner. Ownership is mutated only through SimulationState so
// the owner-set invariant holds.
type Territory struct {
	ID          int
	Name        string
	X, Y        float64
	ArmySize    int
	OwnerID     int // Unowned (-1) if neutral
	NeighborIDs []int
	Terrain     Terrain
	Thronestar  bool
	Growth      float64 // armies produced per production tick

	growthBank float64 // fractional production carried between ticks
}

// IsAdjacent reports whether other is directly linked to this territory.
func (t *Territory) IsAdjacent(otherID int) bool {
	for _, id := range t.NeighborIDs {
		if id == otherID {
			return true
		}
	}
	return false
}

// DistanceTo returns the euclidean distance between two territory positions.
func (t *Territory) DistanceTo(other *Territory) float64 {
	dx := t.X - other.X
	dy := t.Y - other.Y
	return math.Hypot(dx, dy)
}
