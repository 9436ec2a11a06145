package game

import "time"

// Event is an informational notification produced for collaborators
// (telemetry, UI, narration). Nothing in the core depends on any event
// being observed.
type Event interface {
	Kind() string
	When() time.Time
}

// Listener receives events as they are produced.
type Listener func(Event)

// CombatEvent reports a resolved battle.
type CombatEvent struct {
	Time              time.Time
	AttackerID        int
	DefenderID        int // Unowned for neutral defenders
	SourceID          int
	TargetID          int
	AttackerWon       bool
	AttackerCasualty  int
	DefenderCasualty  int
	ThroneCapture     bool
	EliminatedID      int // Unowned when nobody was eliminated
	GameEnded         bool
	CommittedArmies   int
	SurvivingAttacker int
}

func (CombatEvent) Kind() string      { return "combat" }
func (e CombatEvent) When() time.Time { return e.Time }

// FleetArrivedEvent reports a fleet reaching its destination.
type FleetArrivedEvent struct {
	Time        time.Time
	FleetID     string
	OwnerID     int
	TerritoryID int
	Size        int
	WasAttack   bool
}

func (FleetArrivedEvent) Kind() string      { return "fleet_arrived" }
func (e FleetArrivedEvent) When() time.Time { return e.Time }

// FleetInterceptedEvent reports a fleet forced into combat at a contested
// intermediate hop.
type FleetInterceptedEvent struct {
	Time        time.Time
	FleetID     string
	OwnerID     int
	TerritoryID int
	Size        int
}

func (FleetInterceptedEvent) Kind() string      { return "fleet_intercepted" }
func (e FleetInterceptedEvent) When() time.Time { return e.Time }

// SupplyDeliveredEvent reports a convoy crediting its destination.
type SupplyDeliveredEvent struct {
	Time        time.Time
	RouteID     string
	TerritoryID int
	Amount      int
}

func (SupplyDeliveredEvent) Kind() string      { return "supply_delivered" }
func (e SupplyDeliveredEvent) When() time.Time { return e.Time }

// EliminationEvent reports an empire's collapse after its thronestar fell.
type EliminationEvent struct {
	Time        time.Time
	PlayerID    int
	ConquerorID int
}

func (EliminationEvent) Kind() string      { return "elimination" }
func (e EliminationEvent) When() time.Time { return e.Time }
