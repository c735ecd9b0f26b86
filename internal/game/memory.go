package game

import "math"

const (
	memorySpanTicks = 240  // remembered positions expire after ~4s
	visionRange     = 45.0 // metres
	visionFOV       = 3.4  // radians, centred on facing
)

// MemoryRecord is what a bot knows about one opponent.
type MemoryRecord struct {
	LastSeenPos  Vec3
	LastSeenTick int
	Visible      bool
}

// TargetMemory is a bot's sensing state: per-opponent sighting records that
// decay rather than vanish the instant line of sight breaks.
type TargetMemory struct {
	records map[EntityID]*MemoryRecord
}

func NewTargetMemory() *TargetMemory {
	return &TargetMemory{records: make(map[EntityID]*MemoryRecord)}
}

// Sense refreshes visibility of every hostile combatant: distance, field of
// view, and an obstacle line-of-sight ray from eye to eye.
func (tm *TargetMemory) Sense(owner *Enemy) {
	w := owner.world
	for _, ent := range w.Combatants() {
		if ent.ID() == owner.id || !w.mode.Hostile(owner, ent) {
			continue
		}
		rec := tm.records[ent.ID()]
		if ent.Life().Status != StatusAlive {
			if rec != nil {
				rec.Visible = false
			}
			continue
		}
		k := ent.Kin()
		visible := false
		if owner.Pos.DistToXZ(k.Pos) <= visionRange {
			bearing := HeadingTo(owner.Pos.X, owner.Pos.Z, k.Pos.X, k.Pos.Z)
			if math.Abs(angleDiff(bearing, owner.Yaw)) <= visionFOV/2 {
				visible = w.combat.HasLineOfSight(owner.EyePos(), k.EyePos())
			}
		}
		if visible {
			if rec == nil {
				rec = &MemoryRecord{}
				tm.records[ent.ID()] = rec
			}
			rec.LastSeenPos = k.Pos
			rec.LastSeenTick = w.tick
			rec.Visible = true
		} else if rec != nil {
			rec.Visible = false
			if w.tick-rec.LastSeenTick > memorySpanTicks {
				delete(tm.records, ent.ID())
			}
		}
	}
}

// Record returns the memory for one opponent, or nil when nothing (fresh)
// is known.
func (tm *TargetMemory) Record(id EntityID) *MemoryRecord {
	return tm.records[id]
}

// BestTarget returns the most promising known opponent: the nearest
// currently visible one, else the most recently seen memory.
func (tm *TargetMemory) BestTarget(owner *Enemy) (EntityID, *MemoryRecord) {
	var bestID EntityID
	var best *MemoryRecord
	bestDist := math.MaxFloat64
	for id, rec := range tm.records {
		if !rec.Visible {
			continue
		}
		if d := owner.Pos.DistToXZ(rec.LastSeenPos); d < bestDist {
			bestID, best, bestDist = id, rec, d
		}
	}
	if best != nil {
		return bestID, best
	}
	bestTick := -1
	for id, rec := range tm.records {
		if rec.LastSeenTick > bestTick {
			bestID, best, bestTick = id, rec, rec.LastSeenTick
		}
	}
	return bestID, best
}

// NoteDamageFrom records an attacker's position even without line of
// sight. Getting shot is sensing too.
func (tm *TargetMemory) NoteDamageFrom(attacker Entity, tick int) {
	if attacker == nil || attacker.Life().Status != StatusAlive {
		return
	}
	rec := tm.records[attacker.ID()]
	if rec == nil {
		rec = &MemoryRecord{}
		tm.records[attacker.ID()] = rec
	}
	rec.LastSeenPos = attacker.Kin().Pos
	rec.LastSeenTick = tick
}

// Forget drops one opponent's record (used on DEAD broadcasts).
func (tm *TargetMemory) Forget(id EntityID) {
	delete(tm.records, id)
}

// Reset clears all records (respawn).
func (tm *TargetMemory) Reset() {
	tm.records = make(map[EntityID]*MemoryRecord)
}
