package game

import (
	"time"

	"github.com/google/uuid"
)

// Fleet is an in-transit army commitment following a multi-hop path.
// Path is a contiguous chain of adjacent territory ids; HopIndex points at
// the territory the fleet currently occupies and stays < len(Path)-1 while
// the fleet is in transit.
type Fleet struct {
	ID         string
	OwnerID    int
	Path       []int
	HopIndex   int
	Size       int
	IsAttack   bool
	LaunchedAt time.Time
	LastHopAt  time.Time
}

// NewFleet creates a fleet at the first node of path.
func NewFleet(ownerID int, path []int, size int, isAttack bool, now time.Time) *Fleet {
	return &Fleet{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Path:       path,
		Size:       size,
		IsAttack:   isAttack,
		LaunchedAt: now,
		LastHopAt:  now,
	}
}

// AtFinalHop reports whether the next advance lands the fleet on its
// destination.
func (f *Fleet) AtFinalHop() bool {
	return f.HopIndex >= len(f.Path)-2
}

// Destination returns the last territory id of the path.
func (f *Fleet) Destination() int {
	return f.Path[len(f.Path)-1]
}

// SupplyRoute is a persistent logistics link between two territories owned
// by the same player. Routes are periodically revalidated; a route whose
// path breaks is rerouted once or deleted.
type SupplyRoute struct {
	ID           string
	PlayerID     int
	FromID       int
	ToID         int
	Path         []int
	Active       bool
	LastTransfer time.Time
	Cooldown     time.Duration
}

// NewSupplyRoute creates an active route over the given path.
func NewSupplyRoute(playerID, from, to int, path []int, cooldown time.Duration) *SupplyRoute {
	return &SupplyRoute{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		FromID:   from,
		ToID:     to,
		Path:     path,
		Active:   true,
		Cooldown: cooldown,
	}
}
