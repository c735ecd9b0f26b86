package game

import (
	"math"
	"math/rand"
)

const (
	// Vertical tolerance when matching a point to a region's ground plane.
	// Entities are slightly above/below the plane mid-jump or mid-snap.
	regionYTolerance = 3.0

	// Recursion guard for movement clamping across portals.
	maxClampDepth = 8

	// Vertex match tolerance when stitching shared edges into portals.
	portalWeldEps = 1e-6

	// How far a clamped position is pulled inside a wall edge so the next
	// containment test does not land exactly on the boundary.
	wallInset = 1e-4
)

// Plane is the ground plane of a region: N·p = D, with N.Y > 0.
type Plane struct {
	N Vec3
	D float64
}

// HorizontalPlane returns a flat plane at the given height.
func HorizontalPlane(y float64) Plane {
	return Plane{N: Vec3{0, 1, 0}, D: y}
}

// PlaneFromPoints builds the plane through three non-collinear points,
// oriented so the normal points up.
func PlaneFromPoints(a, b, c Vec3) Plane {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := Vec3{
		ab.Y*ac.Z - ab.Z*ac.Y,
		ab.Z*ac.X - ab.X*ac.Z,
		ab.X*ac.Y - ab.Y*ac.X,
	}.Norm()
	if n.Y < 0 {
		n = n.Scale(-1)
	}
	return Plane{N: n, D: n.Dot(a)}
}

// YAt returns the plane height at the given horizontal position.
func (pl Plane) YAt(x, z float64) float64 {
	if math.Abs(pl.N.Y) < 1e-12 {
		return 0
	}
	return (pl.D - pl.N.X*x - pl.N.Z*z) / pl.N.Y
}

// Region is one convex polygon cell of the navigation mesh. Verts is the
// CCW outline in the XZ plane; the ground height across the cell comes
// from Plane. neighbors[i] holds the region index reachable through edge
// (Verts[i], Verts[i+1]), or -1 when that edge is an outer wall.
type Region struct {
	Index     int
	Verts     [][2]float64
	Plane     Plane
	Centroid  Vec3
	neighbors []int
	area      float64
}

// Contains reports whether the horizontal point lies inside the polygon.
// Boundary points count as inside.
func (r *Region) Contains(x, z float64) bool {
	n := len(r.Verts)
	for i := 0; i < n; i++ {
		a := r.Verts[i]
		b := r.Verts[(i+1)%n]
		// CCW winding: interior is to the left of every edge.
		cross := (b[0]-a[0])*(z-a[1]) - (b[1]-a[1])*(x-a[0])
		if cross < -1e-9 {
			return false
		}
	}
	return true
}

// ProjectToPlane snaps the point's height onto the region ground plane.
func (r *Region) ProjectToPlane(p Vec3) Vec3 {
	return Vec3{p.X, r.Plane.YAt(p.X, p.Z), p.Z}
}

// Neighbor returns the region index through edge i, or -1 for a wall.
func (r *Region) Neighbor(i int) int {
	return r.neighbors[i]
}

func (r *Region) computeDerived() {
	n := len(r.Verts)
	var cx, cz, area float64
	for i := 0; i < n; i++ {
		a := r.Verts[i]
		b := r.Verts[(i+1)%n]
		w := a[0]*b[1] - b[0]*a[1]
		area += w
		cx += (a[0] + b[0]) * w
		cz += (a[1] + b[1]) * w
	}
	area /= 2
	if math.Abs(area) > 1e-12 {
		cx /= 6 * area
		cz /= 6 * area
	}
	r.area = math.Abs(area)
	r.Centroid = Vec3{cx, r.Plane.YAt(cx, cz), cz}
}

// NavMesh is the set of regions plus the region graph derived from shared
// edges and the precomputed all-pairs cost table.
type NavMesh struct {
	Regions []*Region
	cost    *CostTable
}

// NewNavMesh takes ownership of the regions, welds shared edges into
// portals, and precomputes centroid distances between all region pairs.
func NewNavMesh(regions []*Region) *NavMesh {
	nm := &NavMesh{Regions: regions}
	for i, r := range regions {
		r.Index = i
		r.neighbors = make([]int, len(r.Verts))
		for e := range r.neighbors {
			r.neighbors[e] = -1
		}
		r.computeDerived()
	}
	nm.weldPortals()
	nm.cost = buildCostTable(nm)
	return nm
}

// weldPortals marks edges shared by two regions (same endpoints, opposite
// winding) as portals between them.
func (nm *NavMesh) weldPortals() {
	samePt := func(a, b [2]float64) bool {
		return math.Abs(a[0]-b[0]) < portalWeldEps && math.Abs(a[1]-b[1]) < portalWeldEps
	}
	for i, ra := range nm.Regions {
		na := len(ra.Verts)
		for ea := 0; ea < na; ea++ {
			if ra.neighbors[ea] >= 0 {
				continue
			}
			a1 := ra.Verts[ea]
			a2 := ra.Verts[(ea+1)%na]
			for j, rb := range nm.Regions {
				if i == j {
					continue
				}
				nb := len(rb.Verts)
				for eb := 0; eb < nb; eb++ {
					b1 := rb.Verts[eb]
					b2 := rb.Verts[(eb+1)%nb]
					if samePt(a1, b2) && samePt(a2, b1) {
						ra.neighbors[ea] = j
						rb.neighbors[eb] = i
					}
				}
			}
		}
	}
}

// RegionAt returns the region containing the point, or nil when the point
// is off-mesh. Points slightly above or below a region's ground plane
// still match; with vertically stacked regions the closest plane wins.
func (nm *NavMesh) RegionAt(p Vec3) *Region {
	var best *Region
	bestDY := math.MaxFloat64
	for _, r := range nm.Regions {
		if !r.Contains(p.X, p.Z) {
			continue
		}
		dy := math.Abs(p.Y - r.Plane.YAt(p.X, p.Z))
		if dy < bestDY {
			best = r
			bestDY = dy
		}
	}
	if best == nil || bestDY > regionYTolerance {
		return nil
	}
	return best
}

// RegionAtXZ matches purely on the horizontal outline, ignoring height.
// Used while airborne, when the mover can be well above any ground plane.
// With stacked regions the highest plane at or below the point wins.
func (nm *NavMesh) RegionAtXZ(p Vec3) *Region {
	var best *Region
	bestY := math.Inf(-1)
	for _, r := range nm.Regions {
		if !r.Contains(p.X, p.Z) {
			continue
		}
		y := r.Plane.YAt(p.X, p.Z)
		if y <= p.Y+regionYTolerance && y > bestY {
			best = r
			bestY = y
		}
	}
	if best != nil {
		return best
	}
	// Everything is above the point (fell below the mesh); take the lowest.
	bestY = math.Inf(1)
	for _, r := range nm.Regions {
		if !r.Contains(p.X, p.Z) {
			continue
		}
		if y := r.Plane.YAt(p.X, p.Z); y < bestY {
			best = r
			bestY = y
		}
	}
	return best
}

// RandomRegion returns an area-weighted random region.
func (nm *NavMesh) RandomRegion(rng *rand.Rand) *Region {
	var total float64
	for _, r := range nm.Regions {
		total += r.area
	}
	if total <= 0 || len(nm.Regions) == 0 {
		return nil
	}
	pick := rng.Float64() * total
	for _, r := range nm.Regions {
		pick -= r.area
		if pick <= 0 {
			return r
		}
	}
	return nm.Regions[len(nm.Regions)-1]
}

// Cost returns the precomputed shortest-path distance between two regions.
func (nm *NavMesh) Cost(from, to int) float64 {
	return nm.cost.Get(from, to)
}

// ClampMovement resolves a movement from one position to another against
// the mesh. It returns the region the entity ends up in and the clamped
// position. Crossing a portal recurses into the neighbour; hitting an
// outer wall slides the remaining movement along the wall instead of
// stopping dead. If the mover has somehow left the mesh entirely the
// original position and region are returned unchanged.
func (nm *NavMesh) ClampMovement(cur *Region, from, to Vec3) (*Region, Vec3) {
	if cur == nil || !cur.Contains(from.X, from.Z) {
		if r := nm.RegionAt(from); r != nil {
			cur = r
		}
	}
	if cur == nil {
		return nil, from
	}
	return nm.clampStep(cur, from, to, 0)
}

func (nm *NavMesh) clampStep(cur *Region, from, to Vec3, depth int) (*Region, Vec3) {
	if depth > maxClampDepth {
		return cur, from
	}
	if cur.Contains(to.X, to.Z) {
		return cur, to
	}

	edge, t, ok := cur.exitEdge(from, to)
	if !ok {
		// from is already outside this region (numeric drift); hold position.
		return cur, from
	}
	hit := from.Add(to.Sub(from).Scale(t))

	if nb := cur.neighbors[edge]; nb >= 0 {
		// Portal: continue the same movement in the neighbouring region,
		// nudged past the shared edge so we do not re-hit it.
		dir := to.Sub(from)
		step := hit.Add(dir.Scale(1e-6))
		return nm.clampStep(nm.Regions[nb], step, to, depth+1)
	}

	// Outer wall: project the remaining movement onto the wall segment.
	a := cur.Verts[edge]
	b := cur.Verts[(edge+1)%len(cur.Verts)]
	edgeDir := Vec3{b[0] - a[0], 0, b[1] - a[1]}.NormXZ()
	inward := Vec3{-(b[1] - a[1]), 0, b[0] - a[0]}.NormXZ() // left of edge = interior
	remaining := to.Sub(hit)
	slide := edgeDir.Scale(remaining.Dot(edgeDir))
	base := hit.Add(inward.Scale(wallInset))
	slideTo := base.Add(slide)

	candidates := []Vec3{
		slideTo,
		{to.X, to.Y, from.Z}, // axis clamps for corner cases: keep X progress
		{from.X, to.Y, to.Z}, // keep Z progress
	}
	want := to.Sub(from).NormXZ()
	bestPos := base
	bestRegion := cur
	bestProgress := -math.MaxFloat64
	for _, cand := range candidates {
		r, pos := nm.clampStep(cur, base, cand, depth+1)
		progress := pos.Sub(from).Dot(want)
		if progress > bestProgress {
			bestProgress = progress
			bestPos = pos
			bestRegion = r
		}
	}
	return bestRegion, bestPos
}

// exitEdge finds the first polygon edge crossed by the segment from→to,
// returning the edge index and the segment parameter t of the crossing.
func (r *Region) exitEdge(from, to Vec3) (int, float64, bool) {
	dx := to.X - from.X
	dz := to.Z - from.Z
	bestT := math.MaxFloat64
	bestEdge := -1
	n := len(r.Verts)
	for i := 0; i < n; i++ {
		a := r.Verts[i]
		b := r.Verts[(i+1)%n]
		ex := b[0] - a[0]
		ez := b[1] - a[1]
		denom := dx*ez - dz*ex
		if math.Abs(denom) < 1e-12 {
			continue // parallel
		}
		// Solve from + t·d = a + u·e.
		t := ((a[0]-from.X)*ez - (a[1]-from.Z)*ex) / denom
		u := ((a[0]-from.X)*dz - (a[1]-from.Z)*dx) / denom
		if t < -1e-9 || u < -1e-9 || u > 1+1e-9 {
			continue
		}
		// Only count crossings heading out of the region (movement against
		// the inward edge normal (-ez, ex)).
		if dx*(-ez)+dz*ex >= 0 {
			continue
		}
		if t < bestT {
			bestT = t
			bestEdge = i
		}
	}
	if bestEdge < 0 || bestT > 1+1e-9 {
		return -1, 0, false
	}
	return bestEdge, clamp01(bestT), true
}

// CostTable holds all-pairs shortest centroid distances between regions.
type CostTable struct {
	n int
	d []float64
}

// Get returns the shortest-path distance from one region index to another.
// Unreachable pairs return +Inf.
func (ct *CostTable) Get(from, to int) float64 {
	if from < 0 || to < 0 || from >= ct.n || to >= ct.n {
		return math.Inf(1)
	}
	return ct.d[from*ct.n+to]
}

func buildCostTable(nm *NavMesh) *CostTable {
	n := len(nm.Regions)
	ct := &CostTable{n: n, d: make([]float64, n*n)}
	for i := range ct.d {
		ct.d[i] = math.Inf(1)
	}
	for i, r := range nm.Regions {
		ct.d[i*n+i] = 0
		for _, nb := range r.neighbors {
			if nb < 0 {
				continue
			}
			w := r.Centroid.DistTo(nm.Regions[nb].Centroid)
			if w < ct.d[i*n+nb] {
				ct.d[i*n+nb] = w
			}
		}
	}
	// Floyd–Warshall; region counts are small (tens, not thousands).
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := ct.d[i*n+k]
			if math.IsInf(ik, 1) {
				continue
			}
			for j := 0; j < n; j++ {
				if ik+ct.d[k*n+j] < ct.d[i*n+j] {
					ct.d[i*n+j] = ik + ct.d[k*n+j]
				}
			}
		}
	}
	return ct
}
