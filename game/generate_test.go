package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func generated(t *testing.T, seed uint64) *SimulationState {
	t.Helper()
	s := NewSimulationState()
	s.AddPlayer(NewPlayer(1, "a", HumanPlayer, StrategyTag("")))
	s.AddPlayer(NewPlayer(2, "b", AIPlayer, StrategyAggressive))
	s.AddPlayer(NewPlayer(3, "c", AIPlayer, StrategyAdvanced))

	cfg := DefaultGenConfig()
	cfg.Seed = seed
	require.NoError(t, GenerateMap(s, cfg))
	return s
}

func TestGenerateMap(t *testing.T) {
	t.Run("produces a single connected component", func(t *testing.T) {
		s := generated(t, 42)

		require.Len(t, s.Territories, DefaultGenConfig().Territories)
		require.Len(t, components(s), 1, "every territory must be reachable")
	})

	t.Run("seats each player on an owned thronestar home", func(t *testing.T) {
		s := generated(t, 42)

		for pid := 1; pid <= 3; pid++ {
			owned := s.OwnedTerritories(pid)
			require.Len(t, owned, 1)
			home := s.Territories[owned[0]]
			require.True(t, home.Thronestar)
			require.Equal(t, DefaultGenConfig().HomeArmies, home.ArmySize)
		}
	})

	t.Run("garrisons the rest as neutrals with positive growth", func(t *testing.T) {
		s := generated(t, 42)

		neutrals := 0
		for _, territory := range s.Territories {
			require.Greater(t, territory.Growth, 0.0)
			if territory.OwnerID == Unowned {
				neutrals++
				require.Equal(t, DefaultGenConfig().NeutralArmies, territory.ArmySize)
			}
		}
		require.Equal(t, DefaultGenConfig().Territories-3, neutrals)
	})

	t.Run("the same seed reproduces the same map", func(t *testing.T) {
		a := generated(t, 7)
		b := generated(t, 7)

		for id, ta := range a.Territories {
			tb := b.Territories[id]
			require.Equal(t, ta.X, tb.X)
			require.Equal(t, ta.Terrain, tb.Terrain)
			require.Equal(t, ta.NeighborIDs, tb.NeighborIDs)
			require.Equal(t, ta.OwnerID, tb.OwnerID)
		}
	})

	t.Run("rejects maps too small to seat the players", func(t *testing.T) {
		s := NewSimulationState()
		s.AddPlayer(NewPlayer(1, "a", AIPlayer, StrategyDefensive))
		s.AddPlayer(NewPlayer(2, "b", AIPlayer, StrategyDefensive))
		cfg := DefaultGenConfig()
		cfg.Territories = 2

		require.Error(t, GenerateMap(s, cfg))
	})
}
