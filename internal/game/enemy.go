package game

import (
	"math"
)

const (
	botTurnRate    = 0.15 // radians per tick
	botAimTol      = 0.1  // radians: fire only when facing this close
	botDyingTicks  = 45
	botChestHeight = 1.2 // aim point above a target's feet
)

// Enemy is one autonomous bot: a kinematic body, vitals, a weapon, target
// memory, and a Think goal tree that decides what to do with them.
type Enemy struct {
	Kinematic
	Vitals

	id    EntityID
	label string
	team  int

	world    *World
	arche    *BotArchetype
	weapon   *Weapon
	brain    *ThinkGoal
	steering Steering
	memory   *TargetMemory

	region     *Region
	path       []Vec3
	thinkPhase int
	dyingTimer int
	spawn      Vec3

	ignoredItems map[ItemKind]int // item kind → ignore until tick

	// Per-match stats, consumed by the reporter and scoreboard.
	Kills      int
	Deaths     int
	ShotsFired int
	ShotsHit   int
}

// NewEnemy creates a bot at the given spawn point. The caller registers it
// with the combat manager and the world entity list.
func NewEnemy(w *World, id EntityID, label string, team int, arche *BotArchetype, spawn Vec3) *Enemy {
	e := &Enemy{
		Kinematic: Kinematic{
			Pos:    spawn,
			Radius: 0.4,
			Height: 1.8,
		},
		Vitals: Vitals{
			Health:    arche.MaxHealth,
			MaxHealth: arche.MaxHealth,
			Status:    StatusAlive,
		},
		id:           id,
		label:        label,
		team:         team,
		world:        w,
		arche:        arche,
		weapon:       NewWeapon(w.cfg.WeaponSpec(arche.Weapon)),
		memory:       NewTargetMemory(),
		spawn:        spawn,
		thinkPhase:   int(id), // stagger think ticks across the population
		ignoredItems: make(map[ItemKind]int),
	}
	e.region = w.mesh.RegionAt(spawn)
	if e.region != nil {
		e.Pos = e.region.ProjectToPlane(e.Pos)
	}
	e.brain = NewThinkGoal(e)
	return e
}

func (e *Enemy) ID() EntityID           { return e.id }
func (e *Enemy) Label() string          { return e.label }
func (e *Enemy) Team() int              { return e.team }
func (e *Enemy) Kin() *Kinematic        { return &e.Kinematic }
func (e *Enemy) Life() *Vitals          { return &e.Vitals }
func (e *Enemy) CurrentRegion() *Region { return e.region }

// Brain exposes the goal tree for the HUD/inspector.
func (e *Enemy) Brain() *ThinkGoal { return e.brain }

// Weapon exposes the held weapon.
func (e *Enemy) Weapon() *Weapon { return e.weapon }

// Update runs one tick of the bot: sense → think → steer → integrate →
// shoot. Order mirrors the player pipeline so both share the navmesh
// clamp semantics.
func (e *Enemy) Update() {
	switch e.Status {
	case StatusDying:
		e.dyingTimer--
		if e.dyingTimer <= 0 {
			e.Status = StatusDead
			// DEAD is transient: the respawn happens this same tick.
			e.world.respawnEnemy(e)
		}
		return
	case StatusDead:
		// Should have been respawned the tick it died; recover anyway.
		e.world.respawnEnemy(e)
		return
	}

	e.memory.Sense(e)

	if e.brain.Status() == GoalInactive {
		e.brain.Activate()
	}
	e.brain.Execute()

	e.integrate()

	dt := e.world.cfg.Sim.Dt()
	e.weapon.Update(e.world.tick, dt)
	e.fireDiscipline()
}

// integrate applies steering output to the body and clamps the result to
// the navmesh, snapping to the local ground plane. Bots never leave the
// ground; their vertical motion comes entirely from plane changes.
func (e *Enemy) integrate() {
	dt := e.world.cfg.Sim.Dt()
	desired := e.steering.Desired(e.Pos, e.arche.MoveSpeed)
	e.Vel = desired

	from := e.Pos
	to := from.Add(e.Vel.Scale(dt))
	region, pos := e.world.mesh.ClampMovement(e.region, from, to)
	if region != nil {
		e.region = region
		pos = region.ProjectToPlane(pos)
	} else {
		// Off-mesh: hold the last known good position/region.
		pos = from
	}
	e.Pos = pos

	e.face(dt)
}

// face turns toward the engaged target when one is visible, else toward
// the movement direction, limited by the turn rate.
func (e *Enemy) face(dt float64) {
	var want float64
	haveWant := false
	if _, rec := e.memory.BestTarget(e); rec != nil && rec.Visible {
		want = HeadingTo(e.Pos.X, e.Pos.Z, rec.LastSeenPos.X, rec.LastSeenPos.Z)
		haveWant = true
	} else if e.Vel.LenXZ() > 0.05 {
		want = math.Atan2(e.Vel.Z, e.Vel.X)
		haveWant = true
	}
	if !haveWant {
		return
	}
	d := angleDiff(want, e.Yaw)
	turn := clamp(d, -botTurnRate, botTurnRate)
	e.Yaw += turn
}

// fireDiscipline pulls the trigger when a visible target is in range and
// the bot is actually facing it.
func (e *Enemy) fireDiscipline() {
	id, rec := e.memory.BestTarget(e)
	if rec == nil || !rec.Visible {
		return
	}
	target := e.world.EntityByID(id)
	if target == nil || target.Life().Status != StatusAlive {
		return
	}
	dist := e.Pos.DistToXZ(rec.LastSeenPos)
	if dist > e.weapon.Spec.Range*0.95 {
		return
	}
	bearing := HeadingTo(e.Pos.X, e.Pos.Z, rec.LastSeenPos.X, rec.LastSeenPos.Z)
	if math.Abs(angleDiff(bearing, e.Yaw)) > botAimTol {
		return
	}
	if !e.weapon.Fire(e.world.tick, false) {
		return
	}
	aimAt := rec.LastSeenPos.Add(Vec3{0, botChestHeight, 0})
	origin := e.EyePos()
	dir := aimAt.Sub(origin).Norm()
	reports := e.world.combat.FireHitscan(e, origin, dir, e.weapon, e.world.tick)
	e.ShotsFired += len(reports)
	for _, rep := range reports {
		if rep.Target != nil {
			e.ShotsHit++
		}
	}
	e.world.audio.Play("fire", e.Pos)
}

// HandleTelegram implements the entity messaging contract. Damage only
// enters through here.
func (e *Enemy) HandleTelegram(t Telegram) bool {
	switch t.Kind {
	case TelegramHit:
		if e.Status != StatusAlive {
			return true // already down; absorb silently
		}
		e.Health -= t.Damage
		e.memory.NoteDamageFrom(t.Sender, e.world.tick)
		e.world.audio.Play("hit", e.Pos)
		if e.Health <= 0 {
			e.Health = 0
			e.startDying(t.Sender)
		}
		return true
	case TelegramDead:
		if t.Sender != nil {
			e.memory.Forget(t.Sender.ID())
		}
		return true
	case TelegramItemTaken:
		if t.Item == nil {
			return false
		}
		switch t.Item.Kind {
		case ItemHealth:
			e.Health = math.Min(e.MaxHealth, e.Health+t.Item.Amount)
		case ItemAmmo:
			e.weapon.AddReserve(int(t.Item.Amount))
		}
		return true
	case TelegramRespawned:
		return true
	default:
		return false
	}
}

func (e *Enemy) startDying(killer Entity) {
	e.Status = StatusDying
	e.dyingTimer = botDyingTicks
	e.steering.Clear()
	e.brain.Terminate()
	e.world.onDeath(e, killer)
}

// respawn restores the bot at its spawn point with fresh state.
func (e *Enemy) respawn(at Vec3) {
	e.Pos = at
	e.Vel = Vec3{}
	e.Health = e.MaxHealth
	e.Status = StatusAlive
	e.region = e.world.mesh.RegionAt(at)
	if e.region != nil {
		e.Pos = e.region.ProjectToPlane(e.Pos)
	}
	e.weapon.ResetFor(e.world.tick)
	e.memory.Reset()
	e.path = nil
	e.steering.Clear()
	e.ignoredItems = make(map[ItemKind]int)
}

// ignoreItem puts an item kind on the bot's ignore list so evaluators stop
// chasing a pickup class that keeps falling through.
func (e *Enemy) ignoreItem(kind ItemKind) {
	e.ignoredItems[kind] = e.world.tick + itemIgnoreTicks
}

func (e *Enemy) itemIgnored(kind ItemKind) bool {
	return e.world.tick < e.ignoredItems[kind]
}

func (e *Enemy) logGoal(name string) {
	e.world.simlog.Add(e.world.tick, e.label, teamName(e.team), "goal", "change", name, 0)
}
