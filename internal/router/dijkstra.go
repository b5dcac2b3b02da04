package router

import (
	"container/heap"

	"go-chainmap/internal/connectiondb"
	"go-chainmap/internal/graph"
	"go-chainmap/internal/refdata"
)

// routeNode is one entry in the Dijkstra priority queue: the system id, its
// accumulated cost, and a monotonically increasing sequence number used to
// break cost ties in FIFO (insertion) order. Grounded on the teacher's
// RouteNode/PriorityQueue shape in route_service.go, generalized from three
// hardcoded route-type strings to the Restrictions-driven cost function
// below.
type routeNode struct {
	systemID int
	cost     int
	seq      int
	index    int // heap.Interface bookkeeping
}

type priorityQueue []*routeNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].seq < pq[j].seq // stable tiebreak on insertion order
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*routeNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// Router executes restricted Dijkstra over a graph built from a reference DB
// and connection DB, per spec.md 4.3.
type Router struct {
	refDB   *refdata.DB
	builder *graph.Builder
}

// New constructs a Router over the given reference DB and graph builder.
func New(refDB *refdata.DB, builder *graph.Builder) *Router {
	return &Router{refDB: refDB, builder: builder}
}

// Route returns the least-cost system sequence from source to destination
// under restrictions, and the human-readable short form. Never errors for
// well-formed input: on no path it returns (nil, "path not found").
func (router *Router) Route(source, destination int, restrictions Restrictions) ([]int, string) {
	if source == destination {
		return []int{source}, shortFormSingle(router.refDB, source)
	}

	g := router.builder.Graph()
	if !g.Has(source) || !g.Has(destination) {
		return nil, "path not found"
	}

	avoid := effectiveAvoidance(restrictions.Avoidance, source, destination)

	dist := map[int]int{source: 0}
	prev := map[int]int{}
	prevEdge := map[int]graph.Edge{}
	visited := make(map[int]bool, len(avoid))
	for id := range avoid {
		visited[id] = true
	}
	if visited[source] || visited[destination] {
		// Zarzakh (or any caller-supplied avoidance entry matching an
		// endpoint) is never actually blocked at the endpoints themselves —
		// effectiveAvoidance already stripped source/destination, so this
		// only guards against a degenerate avoidance set.
		delete(visited, source)
		delete(visited, destination)
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &routeNode{systemID: source, cost: 0, seq: seq})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*routeNode)
		if visited[current.systemID] {
			continue
		}
		visited[current.systemID] = true

		if current.systemID == destination {
			path := reconstructPath(prev, source, destination)
			return path, renderShortForm(router.refDB, path, prevEdge)
		}

		node := g.Node(current.systemID)
		if node == nil {
			continue
		}

		for neighbor, edge := range node.Edges {
			if visited[neighbor] {
				continue
			}
			if edge.Kind == connectiondb.Wormhole && !wormholeAllowed(edge, restrictions) {
				continue
			}

			cost := current.cost + edgeCost(router.refDB, edge, neighbor, restrictions)
			if existing, ok := dist[neighbor]; ok && existing <= cost {
				continue
			}
			dist[neighbor] = cost
			prev[neighbor] = current.systemID
			prevEdge[neighbor] = edge
			seq++
			heap.Push(pq, &routeNode{systemID: neighbor, cost: cost, seq: seq})
		}
	}

	return nil, "path not found"
}

// effectiveAvoidance adds Zarzakh to the avoidance set unless it's an
// endpoint, and always strips source/destination even if the caller
// included them (spec.md 4.3's hard transit exclusion).
func effectiveAvoidance(callerAvoidance map[int]bool, source, destination int) map[int]bool {
	out := make(map[int]bool, len(callerAvoidance)+1)
	for id := range callerAvoidance {
		out[id] = true
	}
	if source != refdata.ZarzakhID && destination != refdata.ZarzakhID {
		out[refdata.ZarzakhID] = true
	}
	delete(out, source)
	delete(out, destination)
	return out
}

func wormholeAllowed(edge graph.Edge, r Restrictions) bool {
	wh := edge.Wormhole
	if !r.sizeAllowed(wh.Size) {
		return false
	}
	if r.IgnoreEOL && wh.Life == connectiondb.Critical {
		return false
	}
	if r.IgnoreMassCrit && wh.Mass == connectiondb.MassCritical {
		return false
	}
	if wh.Age > r.AgeThresholdHours {
		return false
	}
	return true
}

// edgeCost is the cost of entering neighbor via edge. Per spec.md's Open
// Question resolution, the cost is keyed to the *destination* system's
// class for gates, and to the constant WH slot for wormholes — this
// asymmetry is intentional and preserved.
func edgeCost(refDB *refdata.DB, edge graph.Edge, neighbor int, r Restrictions) int {
	if edge.Kind == connectiondb.Wormhole {
		return r.securityPrio(refdata.WH)
	}
	sys := refDB.System(neighbor)
	if sys == nil {
		return r.securityPrio(refdata.HS)
	}
	return r.securityPrio(sys.Class)
}

func reconstructPath(prev map[int]int, source, destination int) []int {
	path := []int{destination}
	for cur := destination; cur != source; {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
