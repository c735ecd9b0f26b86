package game

// Arena bundles everything static about a map: the navmesh, the solid
// geometry shots collide with, spawn points, and pickup placement.
type Arena struct {
	Mesh        *NavMesh
	Obstacles   []Obstacle
	SpawnPoints []Vec3
	Items       []*Item
}

func flatRegion(y float64, verts [][2]float64) *Region {
	return &Region{Verts: verts, Plane: HorizontalPlane(y)}
}

func wall(x0, z0, x1, z1, y0, y1 float64) Obstacle {
	return Obstacle{Min: Vec3{x0, y0, z0}, Max: Vec3{x1, y1, z1}}
}

// BuildArena constructs the default map: five flat rooms joined by
// corridors, plus a ramp off the central hall up to a raised platform.
// Doorways appear as extra collinear vertices on room outlines so each
// portal is a full shared edge on both sides.
func BuildArena() *Arena {
	// Ramp climbs from the hall floor at z=-8 to the platform at z=-14.
	ramp := &Region{
		Verts: [][2]float64{{0, -14}, {6, -14}, {6, -8}, {0, -8}},
		Plane: PlaneFromPoints(Vec3{0, 0, -8}, Vec3{6, 0, -8}, Vec3{0, 2, -14}),
	}

	mesh := NewNavMesh([]*Region{
		// 0: west room
		flatRegion(0, [][2]float64{{-22, -6}, {-12, -6}, {-12, -2}, {-12, 2}, {-12, 6}, {-22, 6}}),
		// 1: west corridor
		flatRegion(0, [][2]float64{{-12, -2}, {-4, -2}, {-4, 2}, {-12, 2}}),
		// 2: central hall
		flatRegion(0, [][2]float64{{-4, -8}, {0, -8}, {6, -8}, {8, -8},
			{8, -2}, {8, 2}, {8, 8}, {4, 8}, {0, 8}, {-4, 8}, {-4, 2}, {-4, -2}}),
		// 3: east corridor
		flatRegion(0, [][2]float64{{8, -2}, {14, -2}, {14, 2}, {8, 2}}),
		// 4: east room
		flatRegion(0, [][2]float64{{14, -6}, {24, -6}, {24, 6}, {14, 6}, {14, 2}, {14, -2}}),
		// 5: north corridor
		flatRegion(0, [][2]float64{{0, 8}, {4, 8}, {4, 14}, {0, 14}}),
		// 6: north room
		flatRegion(0, [][2]float64{{-4, 14}, {0, 14}, {4, 14}, {10, 14}, {10, 24}, {-4, 24}}),
		// 7: ramp
		ramp,
		// 8: platform
		flatRegion(2, [][2]float64{{0, -20}, {6, -20}, {6, -14}, {0, -14}}),
	})

	// Solid fill between rooms so sight lines respect the floor plan.
	obstacles := []Obstacle{
		wall(-12, -9, -4, -2, 0, 3),  // west corridor, south side
		wall(-12, 2, -4, 9, 0, 3),    // west corridor, north side
		wall(8, -9, 14, -2, 0, 3),    // east corridor, south side
		wall(8, 2, 14, 9, 0, 3),      // east corridor, north side
		wall(-5, 8, 0, 14, 0, 3),     // north corridor, west side
		wall(4, 8, 10, 14, 0, 3),     // north corridor, east side
		wall(-5, -20, 0, -8, 0, 4),   // ramp flank, west
		wall(6, -20, 9, -8, 0, 4),    // ramp flank, east
	}

	spawns := []Vec3{
		{-18, 0, 0},  // west room
		{20, 0, 0},   // east room
		{3, 0, 20},   // north room
		{3, 2, -17},  // platform
		{-2, 0, -6},  // hall, SW
		{6, 0, 6},    // hall, NE
	}

	items := []*Item{
		NewItem(ItemHealth, Vec3{-17, 0, 3}, 50, 600),
		NewItem(ItemHealth, Vec3{8, 0, 22}, 50, 600),
		NewItem(ItemAmmo, Vec3{19, 0, -3}, 60, 450),
		NewItem(ItemAmmo, Vec3{3, 2, -16}, 60, 450),
	}

	return &Arena{Mesh: mesh, Obstacles: obstacles, SpawnPoints: spawns, Items: items}
}

// BuildFlatArena returns a single square room with no obstacles, used by
// tests that need predictable geometry.
func BuildFlatArena(half float64) *Arena {
	mesh := NewNavMesh([]*Region{
		flatRegion(0, [][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}}),
	})
	return &Arena{
		Mesh:        mesh,
		SpawnPoints: []Vec3{{-half / 2, 0, 0}, {half / 2, 0, 0}},
	}
}
