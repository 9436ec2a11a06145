// Package pathfind provides owner-restricted shortest-path and attack-bridge
// search over the territory graph.
package pathfind

import (
	"container/heap"
	"errors"

	"conquest/game"
)

var (
	// ErrInvalidEndpoints signals that an endpoint is unknown or not owned
	// by the requesting player.
	ErrInvalidEndpoints = errors.New("pathfind: invalid endpoints")
	// ErrNoPath signals exhausted search, including hitting the iteration
	// ceiling on a malformed graph.
	ErrNoPath = errors.New("pathfind: no path")
)

// maxIterations bounds every search. It is a ceiling against malformed
// graphs, not a cancellation mechanism; hitting it is reported as
// ErrNoPath. A var so tests can lower it.
var maxIterations = 100000

// Engine answers routing queries against a SimulationState.
type Engine struct{}

// New returns a pathfinding engine.
func New() *Engine { return &Engine{} }

// FindShortestPath runs Dijkstra with uniform edge weight 1 over the
// subgraph of territories owned by ownerID. Both endpoints must be owned.
// Tie-breaks between equal-length paths are traversal-order dependent;
// callers must not rely on a specific tied path.
func (e *Engine) FindShortestPath(s *game.SimulationState, start, end, ownerID int) ([]int, error) {
	from, ok := s.Territory(start)
	to, ok2 := s.Territory(end)
	if !ok || !ok2 || from.OwnerID != ownerID || to.OwnerID != ownerID {
		return nil, ErrInvalidEndpoints
	}
	if start == end {
		return []int{start}, nil
	}

	dist := map[int]int{start: 0}
	prev := map[int]int{}
	pq := &nodeQueue{{id: start, dist: 0}}
	heap.Init(pq)

	iterations := 0
	for pq.Len() > 0 {
		iterations++
		if iterations > maxIterations {
			return nil, ErrNoPath
		}
		cur := heap.Pop(pq).(node)
		if cur.id == end {
			return rebuild(prev, start, end), nil
		}
		if cur.dist > dist[cur.id] {
			continue
		}
		for _, nbr := range s.Territories[cur.id].NeighborIDs {
			t, ok := s.Territory(nbr)
			if !ok || t.OwnerID != ownerID {
				continue
			}
			alt := cur.dist + 1
			if d, seen := dist[nbr]; !seen || alt < d {
				dist[nbr] = alt
				prev[nbr] = cur.id
				heap.Push(pq, node{id: nbr, dist: alt})
			}
		}
	}
	return nil, ErrNoPath
}

// FindAttackPath routes an attack from start (owned) to target (any owner).
// A directly adjacent target needs no path at all and yields (nil, nil).
// Otherwise the engine looks for an owned bridge territory adjacent to the
// target and appends the target to the shortest path to that bridge.
func (e *Engine) FindAttackPath(s *game.SimulationState, start, target, ownerID int) ([]int, error) {
	from, ok := s.Territory(start)
	if !ok || from.OwnerID != ownerID {
		return nil, ErrInvalidEndpoints
	}
	tgt, ok := s.Territory(target)
	if !ok {
		return nil, ErrInvalidEndpoints
	}

	if from.IsAdjacent(target) {
		return nil, nil // direct attack, no path object needed
	}

	bridge := -1
	for _, id := range s.OwnedTerritories(ownerID) {
		if id != start && s.Territories[id].IsAdjacent(tgt.ID) {
			bridge = id
			break
		}
	}
	if bridge == -1 {
		return nil, ErrNoPath
	}

	path, err := e.FindShortestPath(s, start, bridge, ownerID)
	if err != nil {
		return nil, err
	}
	return append(path, target), nil
}

// ReachableSet returns every territory reachable from start while staying
// inside ownerID's territory, start included when owned.
func (e *Engine) ReachableSet(s *game.SimulationState, ownerID, start int) map[int]struct{} {
	reachable := map[int]struct{}{}
	from, ok := s.Territory(start)
	if !ok || from.OwnerID != ownerID {
		return reachable
	}

	queue := []int{start}
	reachable[start] = struct{}{}
	iterations := 0
	for len(queue) > 0 && iterations < maxIterations {
		iterations++
		cur := queue[0]
		queue = queue[1:]
		for _, nbr := range s.Territories[cur].NeighborIDs {
			t, ok := s.Territory(nbr)
			if !ok || t.OwnerID != ownerID {
				continue
			}
			if _, seen := reachable[nbr]; !seen {
				reachable[nbr] = struct{}{}
				queue = append(queue, nbr)
			}
		}
	}
	return reachable
}

func rebuild(prev map[int]int, start, end int) []int {
	path := []int{end}
	for cur := end; cur != start; {
		cur = prev[cur]
		path = append([]int{cur}, path...)
	}
	return path
}

type node struct {
	id   int
	dist int
}

type nodeQueue []node

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)        { *q = append(*q, x.(node)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
