package game

// PlayerKind distinguishes the one human player from AI empires.
type PlayerKind int

const (
	HumanPlayer PlayerKind = iota
	AIPlayer
)

// StrategyTag selects an AI player's fixed decision style. Chosen once at
// creation; there is no runtime upgrade path.
type StrategyTag string

const (
	StrategyAggressive    StrategyTag = "aggressive"
	StrategyDefensive     StrategyTag = "defensive"
	StrategyExpansionist  StrategyTag = "expansionist"
	StrategyOpportunistic StrategyTag = "opportunistic"
	StrategyAdvanced      StrategyTag = "advanced"
)

// Player is one competing empire.
type Player struct {
	ID         int
	Name       string
	Kind       PlayerKind
	Strategy   StrategyTag
	Owned      map[int]struct{} // territory ids
	TechBonus  float64          // additive combat bonus from research
	Discovery  float64          // additive combat bonus from discoveries
	Eliminated bool
}

// NewPlayer returns a player with an empty empire.
func NewPlayer(id int, name string, kind PlayerKind, strategy StrategyTag) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Strategy: strategy,
		Owned:    map[int]struct{}{},
	}
}

// CombatBonus is the additive power bonus applied to this player's armies.
func (p *Player) CombatBonus() float64 {
	return p.TechBonus + p.Discovery
}

// Owns reports whether the player owns the given territory id.
func (p *Player) Owns(territoryID int) bool {
	_, ok := p.Owned[territoryID]
	return ok
}
