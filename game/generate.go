package game

import (
	"fmt"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/exp/rand"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Territories   int     // number of nodes
	Width, Height float64 // placement area in pixels
	LinksPerNode  int     // nearest-neighbor links per node
	Seed          uint64  // 0 = randomized
	NeutralArmies int     // garrison of unowned territories
	HomeArmies    int     // starting armies on each player's thronestar
}

// DefaultGenConfig returns a mid-sized map suitable for a full game.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Territories:   60,
		Width:         1600,
		Height:        900,
		LinksPerNode:  3,
		NeutralArmies: 8,
		HomeArmies:    30,
	}
}

// GenerateMap builds a connected territory graph, assigns terrain from
// simplex noise, and seeds each player with one thronestar home world.
// Players must already be registered on the state.
func GenerateMap(s *SimulationState, cfg GenConfig) error {
	if cfg.Territories < len(s.Players)+1 {
		return fmt.Errorf("generate map: %d territories cannot seat %d players",
			cfg.Territories, len(s.Players))
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewSource(seed))
	terrainNoise := opensimplex.NewNormalized(int64(seed))
	growthNoise := opensimplex.NewNormalized(int64(seed) + 1)

	for id := 0; id < cfg.Territories; id++ {
		x := rng.Float64() * cfg.Width
		y := rng.Float64() * cfg.Height
		s.AddTerritory(&Territory{
			ID:       id,
			Name:     fmt.Sprintf("Sector-%03d", id),
			X:        x,
			Y:        y,
			ArmySize: cfg.NeutralArmies,
			OwnerID:  Unowned,
			Terrain:  terrainAt(terrainNoise, x, y, cfg),
			Growth:   0.2 + 0.6*growthNoise.Eval2(x/cfg.Width, y/cfg.Height),
		})
	}

	linkNearest(s, cfg.LinksPerNode)
	connectComponents(s)

	// Seat players on mutually distant home worlds.
	playerIDs := make([]int, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Ints(playerIDs)
	homes := pickHomes(s, playerIDs, rng)
	for i, pid := range playerIDs {
		home := s.Territories[homes[i]]
		home.Thronestar = true
		home.ArmySize = cfg.HomeArmies
		if err := s.SetOwner(home.ID, pid); err != nil {
			return err
		}
	}
	return nil
}

func terrainAt(noise opensimplex.Noise, x, y float64, cfg GenConfig) Terrain {
	v := noise.Eval2(3*x/cfg.Width, 3*y/cfg.Height)
	switch {
	case v < 0.25:
		return TerrainRift
	case v < 0.45:
		return TerrainNebula
	case v < 0.65:
		return TerrainAsteroids
	default:
		return TerrainPlains
	}
}

// linkNearest connects each territory to its k nearest peers; AddBorder
// keeps the adjacency symmetric.
func linkNearest(s *SimulationState, k int) {
	ids := make([]int, 0, len(s.Territories))
	for id := range s.Territories {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		t := s.Territories[id]
		peers := make([]int, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				peers = append(peers, other)
			}
		}
		sort.Slice(peers, func(i, j int) bool {
			return t.DistanceTo(s.Territories[peers[i]]) < t.DistanceTo(s.Territories[peers[j]])
		})
		for i := 0; i < k && i < len(peers); i++ {
			s.AddBorder(id, peers[i])
		}
	}
}

// connectComponents bridges disconnected clusters by linking each component's
// nearest pair of border nodes until the graph is a single component.
func connectComponents(s *SimulationState) {
	for {
		comps := components(s)
		if len(comps) <= 1 {
			return
		}
		// Bridge the first component to its nearest neighbor component.
		best := struct {
			a, b int
			dist float64
		}{a: -1, b: -1, dist: math.Inf(1)}
		for _, a := range comps[0] {
			for _, comp := range comps[1:] {
				for _, b := range comp {
					d := s.Territories[a].DistanceTo(s.Territories[b])
					if d < best.dist {
						best.a, best.b, best.dist = a, b, d
					}
				}
			}
		}
		s.AddBorder(best.a, best.b)
	}
}

func components(s *SimulationState) [][]int {
	seen := make(map[int]bool, len(s.Territories))
	ids := make([]int, 0, len(s.Territories))
	for id := range s.Territories {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var comps [][]int
	for _, start := range ids {
		if seen[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for _, nbr := range s.Territories[cur].NeighborIDs {
				if !seen[nbr] {
					seen[nbr] = true
					queue = append(queue, nbr)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// pickHomes spreads starting positions apart with a greedy farthest-point
// sweep.
func pickHomes(s *SimulationState, playerIDs []int, rng *rand.Rand) []int {
	ids := make([]int, 0, len(s.Territories))
	for id := range s.Territories {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	homes := []int{ids[rng.Intn(len(ids))]}
	for len(homes) < len(playerIDs) {
		bestID, bestDist := -1, -1.0
		for _, cand := range ids {
			taken := false
			for _, h := range homes {
				if h == cand {
					taken = true
					break
				}
			}
			if taken {
				continue
			}
			nearest := math.Inf(1)
			for _, h := range homes {
				if d := s.Territories[cand].DistanceTo(s.Territories[h]); d < nearest {
					nearest = d
				}
			}
			if nearest > bestDist {
				bestID, bestDist = cand, nearest
			}
		}
		homes = append(homes, bestID)
	}
	return homes
}
