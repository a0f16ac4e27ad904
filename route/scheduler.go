package route

import (
	"context"
	"log"
	"sort"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/geom"
)

// A queuedSocket is one socket waiting to be routed, tagged with the zone it
// belongs to.
type queuedSocket struct {
	zone int
	net  string
	pos  geom.Point
}

// coordKey groups sockets that share a position on the board.
type coordKey struct {
	zone int
	x, y float64
}

// socketKey identifies one queued socket.
type socketKey struct {
	net  string
	x, y float64
}

func (s queuedSocket) key() socketKey {
	return socketKey{net: s.net, x: s.pos.X, y: s.pos.Y}
}

// Route routes every socket of the tracks layer's nets to its bus rail and
// returns the consolidated result.
//
// Sockets are grouped by the zone that contains them and routed zone by
// zone in zone order; within a zone, sockets nearest the bus side go first,
// top to bottom. When a socket cannot be routed, the scheduler un-routes the
// routed socket with the highest queue index sharing the same x in the zone,
// flips the vertical ordering for that column, and retries; a second failure
// of the same socket position is final.
//
// The loop checks ctx at every iteration. On cancellation the partial
// result built so far is returned together with the context error.
func (r *Router) Route(ctx context.Context) (*RoutingResult, error) {
	queue := r.buildQueue()
	log.Printf("routing %d sockets with buses on %s side", len(queue), r.side)

	// Per-zone bookkeeping: the vertical ordering direction per column
	// position and the sockets routed so far.
	directions := map[coordKey]int{}
	flipped := map[coordKey]bool{}
	routed := map[socketKey]bool{}
	routedPerZone := map[int]int{}

	i := 0
	for i < len(queue) {
		select {
		case <-ctx.Done():
			r.consolidate()
			return r.result, ctx.Err()
		default:
		}

		s := queue[i]

		if _, ok := r.buses[s.net]; !ok {
			log.Printf("no bus rail for net %s, skipping socket %v", s.net, s.pos)
			i++
			continue
		}

		path, ok := r.routeSocketToBus(s.pos, s.net)
		if ok {
			r.paths[s.net] = append(r.paths[s.net], path)
			r.vias = append(r.vias, viaCell{net: s.net, cell: path[len(path)-1]})
			routed[s.key()] = true
			routedPerZone[s.zone]++
			r.result.Connected++

			key := coordKey{zone: s.zone, x: s.pos.X, y: s.pos.Y}
			if _, seen := directions[key]; !seen {
				directions[key] = 1
			}
			i++
			continue
		}

		j, canBacktrack := r.backtrackTarget(queue, routed, s)
		key := coordKey{zone: s.zone, x: s.pos.X, y: s.pos.Y}
		if routedPerZone[s.zone] == 0 || !canBacktrack || flipped[key] {
			log.Printf("socket %v of net %s is unroutable", s.pos, s.net)
			r.result.Failed++
			i++
			continue
		}

		// Un-route the most recent socket in this column and retry the
		// whole column tail in the opposite vertical order.
		victim := queue[j]
		if r.removeSocketPath(victim.net, r.baseGrid.IndexOf(victim.pos)) {
			delete(routed, victim.key())
			routedPerZone[victim.zone]--
			r.result.Connected--
		}

		if directions[key] == 0 {
			directions[key] = -1
		} else {
			directions[key] = -directions[key]
		}
		flipped[key] = true

		reorderColumnTail(queue, j, s.zone, s.pos.X, directions[key])

		r.result.Backtracks++
		log.Printf("backtracking in zone %d at x=%g, retrying from socket %d", s.zone, s.pos.X, j)
		i = j
	}

	r.consolidate()
	return r.result, nil
}

// buildQueue gathers the sockets of the tracks layer's nets, assigns each to
// the first zone containing it, sorts every zone group, and flattens the
// groups by zone index.
func (r *Router) buildQueue() []queuedSocket {
	positions := r.board.SocketsForNets(r.tracksLayer.Nets)

	byZone := map[int][]queuedSocket{}
	for _, net := range r.tracksLayer.Nets {
		for _, pos := range positions[net] {
			zone := r.board.ZoneContaining(pos)
			if zone < 0 {
				log.Printf("warning: socket %v of net %s is outside every zone, dropping", pos, net)
				continue
			}
			byZone[zone] = append(byZone[zone], queuedSocket{zone: zone, net: net, pos: pos})
		}
	}

	var zones []int
	for zone := range byZone {
		zones = append(zones, zone)
	}
	sort.Ints(zones)

	var queue []queuedSocket
	for _, zone := range zones {
		group := byZone[zone]
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].pos.X != group[b].pos.X {
				if r.side == board.SideRight {
					return group[a].pos.X > group[b].pos.X
				}
				return group[a].pos.X < group[b].pos.X
			}
			return group[a].pos.Y > group[b].pos.Y
		})
		queue = append(queue, group...)
	}
	return queue
}

// backtrackTarget finds the highest queue index of an already routed socket
// that shares the failing socket's zone and x.
func (r *Router) backtrackTarget(queue []queuedSocket, routed map[socketKey]bool, failing queuedSocket) (int, bool) {
	target := -1
	for idx, s := range queue {
		if s.zone != failing.zone || s.pos.X != failing.pos.X {
			continue
		}
		if routed[s.key()] {
			target = idx
		}
	}
	return target, target >= 0
}

// reorderColumnTail re-sorts the unrouted sockets from index start onward
// that share the zone and x, writing them back into their own slots.
// Direction +1 orders top-to-bottom, -1 bottom-to-top.
func reorderColumnTail(queue []queuedSocket, start, zone int, x float64, direction int) {
	var indices []int
	var tail []queuedSocket
	for idx := start; idx < len(queue); idx++ {
		if queue[idx].zone == zone && queue[idx].pos.X == x {
			indices = append(indices, idx)
			tail = append(tail, queue[idx])
		}
	}

	sort.SliceStable(tail, func(a, b int) bool {
		if direction == 1 {
			return tail[a].pos.Y > tail[b].pos.Y
		}
		return tail[a].pos.Y < tail[b].pos.Y
	})

	for k, idx := range indices {
		queue[idx] = tail[k]
	}
}
