package game

const (
	waypointReachDist = 0.7 // metres: a path waypoint counts as reached
	atPositionDist    = 0.9 // metres: "at position" predicate for seek goals
)

// --- FindPathGoal ---

// FindPathGoal issues an asynchronous path query and, on success, writes
// the waypoint list into the owner. A terminated goal never consumes its
// result, so a stale response for a dead goal is simply dropped.
type FindPathGoal struct {
	goalBase
	owner  *Enemy
	target Vec3
	req    *PathRequest
}

func NewFindPathGoal(owner *Enemy, target Vec3) *FindPathGoal {
	return &FindPathGoal{owner: owner, target: target}
}

func (g *FindPathGoal) Name() string { return "find_path" }

func (g *FindPathGoal) Activate() {
	g.status = GoalActive
	w := g.owner.world
	from := g.owner.region
	if from == nil {
		from = w.mesh.RegionAt(g.owner.Pos)
	}
	to := w.mesh.RegionAtXZ(g.target)
	g.req = w.planner.Request(from, to)
}

func (g *FindPathGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	if !g.req.Done() {
		return GoalActive
	}
	path := g.req.Path()
	if path == nil {
		// No route: a FAILED transition, never a fatal error.
		g.status = GoalFailed
		return g.status
	}
	g.owner.path = waypointsFor(path, g.owner.Pos, g.target)
	g.status = GoalCompleted
	return g.status
}

func (g *FindPathGoal) Terminate() {
	g.status = GoalInactive
}

// waypointsFor flattens a region sequence into world-space waypoints:
// intermediate region centroids, then the exact destination.
func waypointsFor(path []*Region, from, to Vec3) []Vec3 {
	var wps []Vec3
	for i, r := range path {
		if i == 0 && r.Contains(from.X, from.Z) {
			continue // already inside the first region
		}
		wps = append(wps, r.Centroid)
	}
	return append(wps, to)
}

// --- FollowPathGoal ---

// FollowPathGoal walks the owner's current waypoint list via seek steering.
type FollowPathGoal struct {
	goalBase
	owner *Enemy
	idx   int
}

func NewFollowPathGoal(owner *Enemy) *FollowPathGoal {
	return &FollowPathGoal{owner: owner}
}

func (g *FollowPathGoal) Name() string { return "follow_path" }

func (g *FollowPathGoal) Activate() {
	g.status = GoalActive
	g.idx = 0
}

func (g *FollowPathGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	path := g.owner.path
	if len(path) == 0 {
		g.status = GoalFailed
		return g.status
	}
	for g.idx < len(path) && g.owner.Pos.DistToXZ(path[g.idx]) <= waypointReachDist {
		g.idx++
	}
	if g.idx >= len(path) {
		g.status = GoalCompleted
		return g.status
	}
	g.owner.steering.Seek(path[g.idx])
	return GoalActive
}

func (g *FollowPathGoal) Terminate() {
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// --- SeekToPositionGoal ---

// SeekToPositionGoal steers straight at a fixed position and completes on
// arrival. Steering is released on Terminate regardless of whether the
// goal completed or was interrupted.
type SeekToPositionGoal struct {
	goalBase
	owner  *Enemy
	target Vec3
}

func NewSeekToPositionGoal(owner *Enemy, target Vec3) *SeekToPositionGoal {
	return &SeekToPositionGoal{owner: owner, target: target}
}

func (g *SeekToPositionGoal) Name() string { return "seek_to_position" }

func (g *SeekToPositionGoal) Activate() {
	g.status = GoalActive
	g.owner.steering.Seek(g.target)
}

func (g *SeekToPositionGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	if g.owner.Pos.DistToXZ(g.target) <= atPositionDist {
		g.status = GoalCompleted
	}
	return g.status
}

func (g *SeekToPositionGoal) Terminate() {
	g.owner.steering.Clear()
	g.status = GoalInactive
}

// --- ExploreGoal ---

// ExploreGoal wanders to a random navmesh region. Reactivation clears any
// prior subgoals first, so replanning is idempotent.
type ExploreGoal struct {
	CompositeGoal
	owner *Enemy
}

func NewExploreGoal(owner *Enemy) *ExploreGoal {
	return &ExploreGoal{owner: owner}
}

func (g *ExploreGoal) Name() string { return "explore" }

func (g *ExploreGoal) Activate() {
	g.RemoveAllSubgoals()
	g.status = GoalActive
	dest := g.owner.world.mesh.RandomRegion(g.owner.world.rng)
	if dest == nil {
		g.status = GoalFailed
		return
	}
	g.PushBack(NewFindPathGoal(g.owner, dest.Centroid))
	g.PushBack(NewFollowPathGoal(g.owner))
}

func (g *ExploreGoal) Execute() GoalStatus {
	if g.status != GoalActive {
		return g.status
	}
	st := g.executeSubgoals()
	switch st {
	case GoalFailed:
		// Replan: pick a fresh destination rather than giving up.
		g.Activate()
		return GoalActive
	case GoalCompleted:
		g.status = GoalCompleted
	}
	return g.status
}

func (g *ExploreGoal) Terminate() {
	g.RemoveAllSubgoals()
	g.owner.steering.Clear()
	g.status = GoalInactive
}
