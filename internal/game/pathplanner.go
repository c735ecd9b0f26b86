package game

import "container/heap"

// PathRequest is an asynchronous shortest-path query between two regions.
// Callers poll Done each tick; a nil Path on completion means no route
// exists. A request whose goal has since been terminated is simply never
// consumed; the planner does not track callers.
type PathRequest struct {
	From, To *Region
	done     bool
	path     []*Region
}

// Done reports whether the search has run.
func (pr *PathRequest) Done() bool { return pr.done }

// Path returns the region sequence start→goal, or nil when unreachable.
// Only meaningful once Done returns true.
func (pr *PathRequest) Path() []*Region { return pr.path }

// PathPlanner services path queries over the region graph a few at a time,
// so a burst of replanning bots cannot blow a frame budget. Searches run
// inside the tick (no goroutines touch simulation state); asynchrony is
// purely "result arrives on a later tick".
type PathPlanner struct {
	mesh    *NavMesh
	queue   []*PathRequest
	Budget  int // searches executed per Update call
	served  int
	dropped int
}

// NewPathPlanner creates a planner over the mesh with the given per-tick
// search budget (minimum 1).
func NewPathPlanner(mesh *NavMesh, budget int) *PathPlanner {
	if budget < 1 {
		budget = 1
	}
	return &PathPlanner{mesh: mesh, Budget: budget}
}

// Request enqueues a query. Degenerate queries resolve immediately.
func (pp *PathPlanner) Request(from, to *Region) *PathRequest {
	pr := &PathRequest{From: from, To: to}
	if from == nil || to == nil {
		pr.done = true
		pp.dropped++
		return pr
	}
	if from == to {
		pr.done = true
		pr.path = []*Region{from}
		return pr
	}
	pp.queue = append(pp.queue, pr)
	return pr
}

// Pending returns the number of queued, unserved requests.
func (pp *PathPlanner) Pending() int { return len(pp.queue) }

// Update drains up to Budget queued searches.
func (pp *PathPlanner) Update() {
	n := pp.Budget
	if n > len(pp.queue) {
		n = len(pp.queue)
	}
	for i := 0; i < n; i++ {
		pr := pp.queue[i]
		pr.path = pp.search(pr.From, pr.To)
		pr.done = true
		pp.served++
	}
	pp.queue = pp.queue[n:]
}

// --- A* over the region graph ---

type planNode struct {
	region *Region
	g, h   float64
	parent *planNode
	index  int // heap index
}

type planOpenList []*planNode

func (ol planOpenList) Len() int           { return len(ol) }
func (ol planOpenList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol planOpenList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *planOpenList) Push(x interface{}) {
	n := x.(*planNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *planOpenList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// search runs A* from one region to another using the centroid-distance
// heuristic (admissible: edge weights are centroid distances).
func (pp *PathPlanner) search(from, to *Region) []*Region {
	h := func(r *Region) float64 { return r.Centroid.DistTo(to.Centroid) }

	start := &planNode{region: from, g: 0, h: h(from)}
	ol := &planOpenList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*planNode{from.Index: start}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*planNode)
		if cur.region == to {
			return buildRegionPath(cur)
		}
		if closed[cur.region.Index] {
			continue
		}
		closed[cur.region.Index] = true

		for _, nbIdx := range cur.region.neighbors {
			if nbIdx < 0 || closed[nbIdx] {
				continue
			}
			nb := pp.mesh.Regions[nbIdx]
			g := cur.g + cur.region.Centroid.DistTo(nb.Centroid)
			if prev, ok := best[nbIdx]; ok && prev.g <= g+1e-12 {
				continue
			}
			node := &planNode{region: nb, g: g, h: h(nb), parent: cur}
			best[nbIdx] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func buildRegionPath(end *planNode) []*Region {
	var rev []*Region
	for n := end; n != nil; n = n.parent {
		rev = append(rev, n.region)
	}
	out := make([]*Region, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
