package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"conquest/combat"
	"conquest/config"
	"conquest/game"
)

// pinnedEvaluator samples a resolver whose every multiplier roll is 1.0, so
// win chances collapse to 0 or 1 and tests stay deterministic.
func pinnedEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	resolver := combat.NewResolver(config.Default().Combat, 1, combat.WithRoll(func(lo, hi float64) float64 {
		return 1.0
	}))
	return NewEvaluator(resolver)
}

// hubState builds a star around territory 0 (player 1, army 10):
// neighbor 1 is a strong enemy (12), neighbor 2 a beatable enemy (8),
// neighbor 3 a weak neutral (4) with an extra neighbor 4 raising its value.
func hubState(t *testing.T) *game.SimulationState {
	t.Helper()
	s := game.NewSimulationState()
	s.AddPlayer(game.NewPlayer(1, "a", game.AIPlayer, game.StrategyOpportunistic))
	s.AddPlayer(game.NewPlayer(2, "b", game.AIPlayer, game.StrategyOpportunistic))
	armies := []int{10, 12, 8, 4, 1}
	for id := 0; id < 5; id++ {
		s.AddTerritory(&game.Territory{ID: id, ArmySize: armies[id], OwnerID: game.Unowned})
	}
	s.AddBorder(0, 1)
	s.AddBorder(0, 2)
	s.AddBorder(0, 3)
	s.AddBorder(3, 4)
	require.NoError(t, s.SetOwner(0, 1))
	require.NoError(t, s.SetOwner(1, 2))
	require.NoError(t, s.SetOwner(2, 2))
	return s
}

func TestNewStrategy(t *testing.T) {
	tags := []game.StrategyTag{
		game.StrategyAggressive,
		game.StrategyDefensive,
		game.StrategyExpansionist,
		game.StrategyOpportunistic,
		game.StrategyAdvanced,
	}
	for _, tag := range tags {
		require.Equal(t, tag, NewStrategy(tag).Name())
	}
	require.Equal(t, game.StrategyOpportunistic, NewStrategy("unknown").Name(),
		"unknown tags fall back to opportunistic")
}

func TestAggressive(t *testing.T) {
	t.Run("picks the strongest neighbor it can plausibly beat", func(t *testing.T) {
		s := hubState(t)
		// Committed 9 reaches 80% of army 8 but not of army 12.
		target, ok := aggressive{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 2, target)
	})

	t.Run("holds when no neighbor is within reach", func(t *testing.T) {
		s := hubState(t)
		_, ok := aggressive{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 2)

		require.False(t, ok)
	})
}

func TestDefensive(t *testing.T) {
	t.Run("only attacks neighbors at most two thirds its own size", func(t *testing.T) {
		s := hubState(t)
		target, ok := defensive{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 3, target, "both enemy territories exceed the threshold")
	})

	t.Run("holds against uniformly stronger neighbors", func(t *testing.T) {
		s := hubState(t)
		s.Territories[3].ArmySize = 9

		_, ok := defensive{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.False(t, ok)
	})
}

func TestExpansionist(t *testing.T) {
	t.Run("prefers winnable neutral territory", func(t *testing.T) {
		s := hubState(t)
		target, ok := expansionist{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 3, target)
	})

	t.Run("falls back to opportunistic with no neutral option", func(t *testing.T) {
		s := hubState(t)
		require.NoError(t, s.SetOwner(3, 2))

		target, ok := expansionist{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 3, target, "territory 3 has the highest degree among winnable targets")
	})
}

func TestOpportunistic(t *testing.T) {
	t.Run("scores winnable targets by strategic value", func(t *testing.T) {
		s := hubState(t)
		target, ok := opportunistic{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 3, target, "two-neighbor neutral outranks the one-neighbor enemy")
	})

	t.Run("holds when every neighbor would beat it", func(t *testing.T) {
		s := hubState(t)
		s.Territories[2].ArmySize = 20
		s.Territories[3].ArmySize = 20

		_, ok := opportunistic{}.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.False(t, ok)
	})
}

func TestEvaluatorStrategicValue(t *testing.T) {
	s := hubState(t)
	ev := pinnedEvaluator(t)

	require.Equal(t, 3.0, ev.StrategicValue(s, s.Territories[0]))
	require.Equal(t, 2.0, ev.StrategicValue(s, s.Territories[3]))

	s.Territories[1].Thronestar = true
	require.Equal(t, 11.0, ev.StrategicValue(s, s.Territories[1]),
		"thronestars dominate the score")
}

func TestAdvancedPosture(t *testing.T) {
	t.Run("starts in early expansion and honors the dwell time", func(t *testing.T) {
		s := hubState(t)
		a := newAdvanced()
		t0 := time.Now()

		// Player 1's only territory borders the stronger army 12, so the
		// board reads fully threatened. The first update only arms the
		// dwell clock.
		a.UpdatePosture(s, 1, t0)
		require.Equal(t, EarlyExpansion, a.posture)

		a.UpdatePosture(s, 1, t0.Add(16*time.Second))
		require.Equal(t, Defensive, a.posture)
	})

	t.Run("turns aggressive once dominant and unthreatened", func(t *testing.T) {
		s := hubState(t)
		a := &advanced{posture: Consolidating, changedAt: time.Now().Add(-time.Minute)}
		for id := 0; id < 4; id++ {
			require.NoError(t, s.SetOwner(id, 1))
		}

		a.UpdatePosture(s, 1, time.Now())

		require.Equal(t, Aggressive, a.posture)
	})

	t.Run("a fresh transition blocks further changes until the dwell passes", func(t *testing.T) {
		s := hubState(t)
		t0 := time.Now()
		a := &advanced{posture: Defensive, changedAt: t0}
		for id := 0; id < 4; id++ {
			require.NoError(t, s.SetOwner(id, 1))
		}

		a.UpdatePosture(s, 1, t0.Add(5*time.Second))
		require.Equal(t, Defensive, a.posture)

		a.UpdatePosture(s, 1, t0.Add(16*time.Second))
		require.Equal(t, Aggressive, a.posture)
	})

	t.Run("each posture delegates to its base strategy", func(t *testing.T) {
		s := hubState(t)
		a := &advanced{posture: Aggressive}

		target, ok := a.PickTarget(pinnedEvaluator(t), s, s.Territories[0], 9)

		require.True(t, ok)
		require.Equal(t, 2, target, "aggressive posture picks the strongest beatable enemy")
	})
}
