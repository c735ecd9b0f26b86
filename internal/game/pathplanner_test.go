package game

import "testing"

func TestPathPlanner_SameRegionResolvesImmediately(t *testing.T) {
	mesh := BuildArena().Mesh
	pp := NewPathPlanner(mesh, 4)

	req := pp.Request(mesh.Regions[2], mesh.Regions[2])
	if !req.Done() {
		t.Fatal("degenerate request should resolve without an Update")
	}
	if len(req.Path()) != 1 || req.Path()[0].Index != 2 {
		t.Fatalf("expected single-region path, got %v", req.Path())
	}
	if pp.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", pp.Pending())
	}
}

func TestPathPlanner_NilEndpoints(t *testing.T) {
	mesh := BuildArena().Mesh
	pp := NewPathPlanner(mesh, 4)

	req := pp.Request(nil, mesh.Regions[0])
	if !req.Done() || req.Path() != nil {
		t.Fatal("nil-endpoint request should resolve done with no path")
	}
}

func TestPathPlanner_BudgetLimitsWorkPerTick(t *testing.T) {
	mesh := BuildArena().Mesh
	pp := NewPathPlanner(mesh, 2)

	reqs := make([]*PathRequest, 5)
	for i := range reqs {
		reqs[i] = pp.Request(mesh.Regions[0], mesh.Regions[4])
	}
	if pp.Pending() != 5 {
		t.Fatalf("pending = %d, want 5", pp.Pending())
	}

	pp.Update()
	if !reqs[0].Done() || !reqs[1].Done() {
		t.Fatal("the first two requests should be served on the first update")
	}
	if reqs[2].Done() {
		t.Fatal("the third request should wait for the next update")
	}
	if pp.Pending() != 3 {
		t.Fatalf("pending = %d after one update, want 3", pp.Pending())
	}

	pp.Update()
	pp.Update()
	if pp.Pending() != 0 {
		t.Fatalf("pending = %d after draining, want 0", pp.Pending())
	}
}

func TestPathPlanner_RouteEndpoints(t *testing.T) {
	mesh := BuildArena().Mesh
	pp := NewPathPlanner(mesh, 8)

	req := pp.Request(mesh.Regions[0], mesh.Regions[4])
	pp.Update()
	if !req.Done() {
		t.Fatal("request not served")
	}
	path := req.Path()
	if path == nil {
		t.Fatal("expected a route from west room to east room")
	}
	if path[0].Index != 0 || path[len(path)-1].Index != 4 {
		t.Fatalf("path endpoints %d→%d, want 0→4", path[0].Index, path[len(path)-1].Index)
	}
	// The only route runs through both corridors and the hall.
	if len(path) != 5 {
		t.Fatalf("path length = %d, want 5 (west→corridor→hall→corridor→east)", len(path))
	}
}

func TestPathPlanner_Unreachable(t *testing.T) {
	// Two squares with no shared edge.
	mesh := NewNavMesh([]*Region{
		flatRegion(0, [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}),
		flatRegion(0, [][2]float64{{20, 0}, {30, 0}, {30, 10}, {20, 10}}),
	})
	pp := NewPathPlanner(mesh, 4)

	req := pp.Request(mesh.Regions[0], mesh.Regions[1])
	pp.Update()
	if !req.Done() {
		t.Fatal("request not served")
	}
	if req.Path() != nil {
		t.Fatal("disconnected regions should yield a nil path")
	}
}
