// Package supply maintains persistent logistics links between owned
// territories and periodically rebalances army levels across them.
package supply

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"conquest/config"
	"conquest/game"
	"conquest/pathfind"
)

var (
	// ErrRouteExists rejects a duplicate route between two endpoints in
	// either direction.
	ErrRouteExists = errors.New("supply: route already exists")
	// ErrNotOwned rejects endpoints not owned by the requesting player.
	ErrNotOwned = errors.New("supply: endpoint not owned")
	// ErrNoPath rejects endpoints with no owner-contiguous path.
	ErrNoPath = errors.New("supply: no path")
)

// convoy is an in-flight transfer: armies already deducted at the source,
// credited to the destination once due. Convoys are not interceptable in
// transit; only route invalidation can void them.
type convoy struct {
	routeID string
	destID  int
	amount  int
	due     time.Time
}

// Manager owns all supply routes of all players.
type Manager struct {
	cfg      config.Supply
	paths    *pathfind.Engine
	routes   map[string]*game.SupplyRoute
	convoys  []convoy
	listener game.Listener
}

// NewManager returns a route manager using paths for routing. listener may
// be nil.
func NewManager(cfg config.Supply, paths *pathfind.Engine, listener game.Listener) *Manager {
	return &Manager{
		cfg:      cfg,
		paths:    paths,
		routes:   make(map[string]*game.SupplyRoute),
		listener: listener,
	}
}

// CreateRoute links two distinct territories owned by playerID. At most one
// route may exist between a pair of endpoints, in either direction.
func (m *Manager) CreateRoute(s *game.SimulationState, playerID, fromID, toID int) (string, error) {
	from, okFrom := s.Territory(fromID)
	to, okTo := s.Territory(toID)
	if !okFrom || !okTo || fromID == toID ||
		from.OwnerID != playerID || to.OwnerID != playerID {
		return "", ErrNotOwned
	}
	for _, r := range m.routes {
		if (r.FromID == fromID && r.ToID == toID) || (r.FromID == toID && r.ToID == fromID) {
			return "", ErrRouteExists
		}
	}
	path, err := m.paths.FindShortestPath(s, fromID, toID, playerID)
	if err != nil {
		return "", ErrNoPath
	}

	route := game.NewSupplyRoute(playerID, fromID, toID, path, m.cfg.Cooldown)
	m.routes[route.ID] = route
	log.Info().Str("route", route.ID).Int("from", fromID).Int("to", toID).
		Int("hops", len(path)-1).Msg("supply route created")
	return route.ID, nil
}

// Cancel removes a route and voids its in-flight convoys.
func (m *Manager) Cancel(routeID string) {
	if _, ok := m.routes[routeID]; !ok {
		return
	}
	m.drop(routeID, "cancelled")
}

// Route returns a route by id.
func (m *Manager) Route(routeID string) (*game.SupplyRoute, bool) {
	r, ok := m.routes[routeID]
	return r, ok
}

// ActiveRoutes returns the number of active routes.
func (m *Manager) ActiveRoutes() int { return len(m.routes) }

// Validate drops routes whose endpoints changed owner and makes one reroute
// attempt for routes no longer fully owner-contiguous. A route that
// cannot be rerouted is deleted; a broken route is never left ambiguous.
func (m *Manager) Validate(s *game.SimulationState) {
	for id, r := range m.routes {
		from, okFrom := s.Territory(r.FromID)
		to, okTo := s.Territory(r.ToID)
		if !okFrom || !okTo || from.OwnerID != r.PlayerID || to.OwnerID != r.PlayerID {
			m.drop(id, "endpoint lost")
			continue
		}
		if m.pathIntact(s, r) {
			continue
		}
		path, err := m.paths.FindShortestPath(s, r.FromID, r.ToID, r.PlayerID)
		if err != nil {
			m.drop(id, "no reroute")
			continue
		}
		r.Path = path
		log.Info().Str("route", id).Int("hops", len(path)-1).Msg("supply route rerouted")
	}
}

func (m *Manager) pathIntact(s *game.SimulationState, r *game.SupplyRoute) bool {
	for _, id := range r.Path {
		t, ok := s.Territory(id)
		if !ok || t.OwnerID != r.PlayerID {
			return false
		}
	}
	return true
}

// Process runs transfers on routes past their cooldown. The transfer amount
// leaves the source immediately and reaches the destination only after a
// delay proportional to the route's hop count.
func (m *Manager) Process(s *game.SimulationState, now time.Time) {
	for _, r := range m.routes {
		if !r.Active || now.Sub(r.LastTransfer) < r.Cooldown {
			continue
		}
		from, okFrom := s.Territory(r.FromID)
		to, okTo := s.Territory(r.ToID)
		if !okFrom || !okTo {
			continue
		}
		if from.ArmySize-to.ArmySize < m.cfg.DiffThreshold || from.ArmySize <= m.cfg.SourceFloor {
			continue
		}

		amount := int(math.Floor(float64(from.ArmySize) * m.cfg.TransferRatio))
		if amount <= 0 {
			continue
		}
		from.ArmySize -= amount
		hops := len(r.Path) - 1
		m.convoys = append(m.convoys, convoy{
			routeID: r.ID,
			destID:  r.ToID,
			amount:  amount,
			due:     now.Add(time.Duration(hops) * m.cfg.PerHopDelay),
		})
		r.LastTransfer = now
		log.Debug().Str("route", r.ID).Int("amount", amount).Int("hops", hops).
			Msg("convoy dispatched")
	}

	m.deliver(s, now)
}

// deliver credits due convoys. Armies deducted at the source always reach
// the destination unless the route was invalidated mid-transit.
func (m *Manager) deliver(s *game.SimulationState, now time.Time) {
	pending := m.convoys[:0]
	for _, c := range m.convoys {
		if _, ok := m.routes[c.routeID]; !ok {
			continue // route died in transit; the convoy is lost
		}
		if now.Before(c.due) {
			pending = append(pending, c)
			continue
		}
		dest, ok := s.Territory(c.destID)
		if !ok {
			continue
		}
		dest.ArmySize += c.amount
		if m.listener != nil {
			m.listener(game.SupplyDeliveredEvent{
				Time:        now,
				RouteID:     c.routeID,
				TerritoryID: c.destID,
				Amount:      c.amount,
			})
		}
	}
	m.convoys = pending
}

func (m *Manager) drop(routeID, reason string) {
	delete(m.routes, routeID)
	log.Info().Str("route", routeID).Str("reason", reason).Msg("supply route dropped")
}
