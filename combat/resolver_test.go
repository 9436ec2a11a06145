package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"conquest/config"
	"conquest/game"
)

// pinned returns a resolver whose every multiplier roll is 1.0.
func pinned(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(config.Default().Combat, 1, WithRoll(func(lo, hi float64) float64 {
		return 1.0
	}))
}

// ringState builds a 5-node ring owned by player 1 except node 3 (player 2,
// army 10). Node 2 starts with 14 armies.
func ringState(t *testing.T) *game.SimulationState {
	t.Helper()
	s := game.NewSimulationState()
	s.AddPlayer(game.NewPlayer(1, "a", game.AIPlayer, game.StrategyAggressive))
	s.AddPlayer(game.NewPlayer(2, "b", game.AIPlayer, game.StrategyDefensive))
	for id := 0; id < 5; id++ {
		s.AddTerritory(&game.Territory{ID: id, ArmySize: 5, OwnerID: game.Unowned})
	}
	for id := 0; id < 5; id++ {
		s.AddBorder(id, (id+1)%5)
	}
	for _, id := range []int{0, 1, 2, 4} {
		require.NoError(t, s.SetOwner(id, 1))
	}
	require.NoError(t, s.SetOwner(3, 2))
	s.Territories[2].ArmySize = 14
	s.Territories[3].ArmySize = 10
	return s
}

func TestAttackRingScenario(t *testing.T) {
	// With multipliers pinned to 1.0: attack power = 12, defense power =
	// 10 × 1.1 = 11, so the attacker wins. Casualty rate 11/23 gives the
	// attacker round(0.7 × 11/23 × 12) = 4 losses and 8 survivors.
	s := ringState(t)

	result, err := pinned(t).Attack(s, 1, 2, 3, 12, DirectAttack)

	require.NoError(t, err)
	require.True(t, result.AttackerWon)
	require.Equal(t, 1, s.Territories[3].OwnerID, "target should change owner")
	require.Equal(t, 8, s.Territories[3].ArmySize, "survivors should garrison the target")
	require.Equal(t, 14-12, s.Territories[2].ArmySize, "source should retain its uncommitted armies")
	require.Equal(t, 4, result.AttackerCasualty)
	require.Equal(t, 10, result.DefenderCasualty)
	require.True(t, s.Players[1].Owns(3))
	require.False(t, s.Players[2].Owns(3))
}

func TestAttackConservation(t *testing.T) {
	t.Run("attacker win conserves armies plus casualties", func(t *testing.T) {
		s := ringState(t)
		preDefender := s.Territories[3].ArmySize
		committed := 12

		result, err := pinned(t).Attack(s, 1, 2, 3, committed, DirectAttack)

		require.NoError(t, err)
		total := s.Territories[3].ArmySize + result.AttackerCasualty + result.DefenderCasualty
		require.Equal(t, committed+preDefender, total)
	})

	t.Run("defender win conserves armies plus casualties", func(t *testing.T) {
		s := ringState(t)
		s.Territories[2].ArmySize = 6
		preDefender := s.Territories[3].ArmySize
		committed := 5

		result, err := pinned(t).Attack(s, 1, 2, 3, committed, DirectAttack)

		require.NoError(t, err)
		require.False(t, result.AttackerWon)
		total := s.Territories[3].ArmySize + result.AttackerCasualty + result.DefenderCasualty
		require.Equal(t, committed+preDefender, total)
		require.Equal(t, 2, s.Territories[3].OwnerID, "no ownership change on a defender win")
	})
}

func TestAttackMonotonicity(t *testing.T) {
	t.Run("loser strictly shrinks and winner keeps at least one army", func(t *testing.T) {
		s := ringState(t)
		preDefender := s.Territories[3].ArmySize

		result, err := pinned(t).Attack(s, 1, 2, 3, 12, DirectAttack)

		require.NoError(t, err)
		require.Less(t, 0, result.DefenderCasualty, "loser must take casualties")
		require.GreaterOrEqual(t, s.Territories[3].ArmySize, 1, "winner garrison floor")
		require.Less(t, result.SurvivingAttacker, 12+preDefender)
	})

	t.Run("surviving defender keeps at least one army", func(t *testing.T) {
		s := ringState(t)
		s.Territories[2].ArmySize = 3
		s.Territories[3].ArmySize = 2

		result, err := pinned(t).Attack(s, 1, 2, 3, 2, DirectAttack)

		require.NoError(t, err)
		require.False(t, result.AttackerWon)
		require.GreaterOrEqual(t, s.Territories[3].ArmySize, 1)
		require.LessOrEqual(t, s.Territories[3].ArmySize, 2,
			"defender army never grows from a battle")
	})
}

func TestAttackRejections(t *testing.T) {
	t.Run("non-positive commitment", func(t *testing.T) {
		s := ringState(t)

		_, err := pinned(t).Attack(s, 1, 2, 3, 0, DirectAttack)

		require.ErrorIs(t, err, ErrInsufficientForce)
		require.Equal(t, 14, s.Territories[2].ArmySize, "no mutation on rejection")
		require.Equal(t, 10, s.Territories[3].ArmySize, "no mutation on rejection")
	})

	t.Run("source that cannot spare a single army", func(t *testing.T) {
		s := ringState(t)
		s.Territories[2].ArmySize = 1

		_, err := pinned(t).Attack(s, 1, 2, 3, 5, DirectAttack)

		require.ErrorIs(t, err, ErrInsufficientForce)
		require.Equal(t, 10, s.Territories[3].ArmySize)
	})

	t.Run("overcommitment is clamped to retain one army", func(t *testing.T) {
		s := ringState(t)

		_, err := pinned(t).Attack(s, 1, 2, 3, 100, DirectAttack)

		require.NoError(t, err)
		require.Equal(t, 1, s.Territories[2].ArmySize)
	})
}

func TestNeutralCapture(t *testing.T) {
	// An empty neutral territory falls without casualties.
	s := ringState(t)
	s.Territories[1].ArmySize = 0
	require.NoError(t, s.SetOwner(1, game.Unowned))

	result, err := pinned(t).Attack(s, 1, 2, 1, 5, DirectAttack)

	require.NoError(t, err)
	require.True(t, result.AttackerWon)
	require.Equal(t, 1, s.Territories[1].OwnerID)
	require.Equal(t, 5, s.Territories[1].ArmySize)
	require.Zero(t, result.AttackerCasualty)
}

func TestThronestarCascade(t *testing.T) {
	t.Run("captures the whole empire and eliminates the player", func(t *testing.T) {
		s := ringState(t)
		s.Territories[3].Thronestar = true
		s.Territories[0].Thronestar = true // attacker capital
		require.NoError(t, s.SetOwner(4, 2))

		result, err := pinned(t).Attack(s, 1, 2, 3, 12, DirectAttack)

		require.NoError(t, err)
		require.True(t, result.ThroneCapture)
		require.Equal(t, 2, result.EliminatedID)
		require.True(t, s.Players[2].Eliminated)
		require.Empty(t, s.Players[2].Owned, "defeated empire must be emptied")
		require.Equal(t, 1, s.Territories[4].OwnerID, "entire empire transfers to the attacker")
		require.False(t, result.GameEnded, "AI elimination does not end the game")
		require.False(t, s.Territories[3].Thronestar, "captured capital loses its flag")
		require.True(t, s.Territories[0].Thronestar, "capturer keeps exactly one thronestar")
	})

	t.Run("human elimination signals game end", func(t *testing.T) {
		s := ringState(t)
		s.Players[2].Kind = game.HumanPlayer
		s.Territories[3].Thronestar = true

		result, err := pinned(t).Attack(s, 1, 2, 3, 12, DirectAttack)

		require.NoError(t, err)
		require.True(t, result.GameEnded)
	})
}
