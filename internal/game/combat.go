package game

import (
	"math"
	"math/rand"
)

const (
	// Hits in the top band of the body count as headshots.
	headshotFraction   = 0.85
	headshotMultiplier = 2.5

	tracerLifetime = 8 // ticks a tracer line persists for the render layer
)

// Obstacle is an axis-aligned solid block: walls, crates, pillars.
type Obstacle struct {
	Min, Max Vec3
}

// Tracer is a cosmetic record of one resolved shot, consumed by rendering.
type Tracer struct {
	From, To Vec3
	HitBody  bool
	Expire   int // tick after which the tracer is dropped
}

// HitReport describes one pellet's outcome.
type HitReport struct {
	Target   Entity // nil on a miss or wall hit
	Point    Vec3
	Headshot bool
	Damage   float64
}

// CombatManager resolves hit-scan fire against the obstacle set and the
// registered combatant colliders. It never mutates target health directly:
// damage commits only through a HIT telegram to the target.
type CombatManager struct {
	obstacles []Obstacle
	bus       *Bus
	rng       *rand.Rand

	// Collider handle → entity. Simulation code never walks any render
	// hierarchy to recover the logical entity behind a surface.
	nextCollider int
	colliders    map[int]Entity
	order        []int // stable iteration order for determinism

	tracers []Tracer
}

// NewCombatManager creates a manager over the given static obstacle set.
func NewCombatManager(obstacles []Obstacle, bus *Bus, rng *rand.Rand) *CombatManager {
	return &CombatManager{
		obstacles: obstacles,
		bus:       bus,
		rng:       rng,
		colliders: make(map[int]Entity),
	}
}

// RegisterCollider assigns a collider handle to an entity and returns it.
func (cm *CombatManager) RegisterCollider(e Entity) int {
	id := cm.nextCollider
	cm.nextCollider++
	cm.colliders[id] = e
	cm.order = append(cm.order, id)
	return id
}

// Obstacles exposes the static geometry (render layer, LOS checks).
func (cm *CombatManager) Obstacles() []Obstacle { return cm.obstacles }

// Tracers returns live tracer lines.
func (cm *CombatManager) Tracers() []Tracer { return cm.tracers }

// Update expires old tracers.
func (cm *CombatManager) Update(tick int) {
	live := cm.tracers[:0]
	for _, tr := range cm.tracers {
		if tr.Expire > tick {
			live = append(live, tr)
		}
	}
	cm.tracers = live
}

// FireHitscan resolves every pellet of one successful trigger pull. The
// aim direction should be the shooter's raw aim; recoil and spread
// perturbation are applied here per pellet. Damage is delivered via HIT
// telegrams to each struck entity.
func (cm *CombatManager) FireHitscan(shooter Entity, origin, aim Vec3, w *Weapon, tick int) []HitReport {
	reports := make([]HitReport, 0, w.Spec.Pellets)
	for p := 0; p < w.Spec.Pellets; p++ {
		dir := perturbAim(aim, w.Recoil(), w.Spread(), cm.rng)
		rep := cm.resolveRay(shooter, origin, dir, w.Spec)
		cm.tracers = append(cm.tracers, Tracer{
			From:    origin,
			To:      rep.Point,
			HitBody: rep.Target != nil,
			Expire:  tick + tracerLifetime,
		})
		if rep.Target != nil {
			cm.bus.Dispatch(rep.Target, Telegram{
				Kind:     TelegramHit,
				Sender:   shooter,
				Damage:   rep.Damage,
				Headshot: rep.Headshot,
				Dir:      dir,
			})
		}
		reports = append(reports, rep)
	}
	return reports
}

// resolveRay finds the nearest intersection along the ray: walls and
// bodies compete, first hit wins. The shooter never intersects itself.
func (cm *CombatManager) resolveRay(shooter Entity, origin, dir Vec3, spec *WeaponSpec) HitReport {
	maxT := spec.Range
	bestT := maxT
	var bestEnt Entity

	for _, ob := range cm.obstacles {
		if t, ok := rayAABB(origin, dir, bestT, ob.Min, ob.Max); ok {
			bestT = t
			bestEnt = nil
		}
	}
	for _, id := range cm.order {
		e := cm.colliders[id]
		if e == shooter || e.Life().Status != StatusAlive {
			continue
		}
		k := e.Kin()
		min := Vec3{k.Pos.X - k.Radius, k.Pos.Y, k.Pos.Z - k.Radius}
		max := Vec3{k.Pos.X + k.Radius, k.Pos.Y + k.Height, k.Pos.Z + k.Radius}
		if t, ok := rayAABB(origin, dir, bestT, min, max); ok {
			bestT = t
			bestEnt = e
		}
	}

	point := origin.Add(dir.Scale(bestT))
	rep := HitReport{Point: point}
	if bestEnt == nil {
		return rep
	}

	rep.Target = bestEnt
	k := bestEnt.Kin()
	rep.Headshot = point.Y-k.Pos.Y >= headshotFraction*k.Height
	rep.Damage = spec.Damage * falloff(spec, bestT)
	if rep.Headshot {
		rep.Damage *= headshotMultiplier
	}
	return rep
}

// HasLineOfSight reports whether the segment a→b clears all obstacles.
func (cm *CombatManager) HasLineOfSight(a, b Vec3) bool {
	d := b.Sub(a)
	dist := d.Len()
	if dist < 1e-9 {
		return true
	}
	dir := d.Scale(1 / dist)
	for _, ob := range cm.obstacles {
		if _, ok := rayAABB(a, dir, dist, ob.Min, ob.Max); ok {
			return false
		}
	}
	return true
}

// falloff scales damage by distance: full up to FalloffStart, linear down
// to FalloffMin at FalloffEnd.
func falloff(spec *WeaponSpec, dist float64) float64 {
	if spec.FalloffEnd <= spec.FalloffStart || dist <= spec.FalloffStart {
		return 1
	}
	if dist >= spec.FalloffEnd {
		return spec.FalloffMin
	}
	t := (dist - spec.FalloffStart) / (spec.FalloffEnd - spec.FalloffStart)
	return 1 - t*(1-spec.FalloffMin)
}

// perturbAim applies the recoil pitch-up offset plus a random spread cone
// to the aim direction. Angles are small; linearised perturbation suffices.
func perturbAim(aim Vec3, recoil, spread float64, rng *rand.Rand) Vec3 {
	dir := aim.Norm()
	up := Vec3{0, 1, 0}
	right := Vec3{
		dir.Y*up.Z - dir.Z*up.Y,
		dir.Z*up.X - dir.X*up.Z,
		dir.X*up.Y - dir.Y*up.X,
	}.Norm()
	if right.Len() < 1e-9 {
		right = Vec3{1, 0, 0}
	}
	climb := Vec3{
		right.Y*dir.Z - right.Z*dir.Y,
		right.Z*dir.X - right.X*dir.Z,
		right.X*dir.Y - right.Y*dir.X,
	}.Norm()

	dy := recoil
	if rng != nil && spread > 0 {
		dy += (rng.Float64()*2 - 1) * spread
		dir = dir.Add(right.Scale((rng.Float64()*2 - 1) * spread))
	}
	return dir.Add(climb.Scale(dy)).Norm()
}

// rayAABB returns the nearest t in (0, maxT) where the ray enters the box.
func rayAABB(origin, dir Vec3, maxT float64, min, max Vec3) (float64, bool) {
	tMin := 0.0
	tMax := maxT

	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = origin.X, dir.X, min.X, max.X
		case 1:
			o, d, lo, hi = origin.Y, dir.Y, min.Y, max.Y
		default:
			o, d, lo, hi = origin.Z, dir.Z, min.Z, max.Z
		}
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMin <= 1e-9 || tMin >= maxT {
		return 0, false
	}
	return tMin, true
}
