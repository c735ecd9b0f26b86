package game

import "math"

// maxSnapDown is how far the ground may drop in one tick before the
// player stops snapping and starts falling (walking off a ledge).
const maxSnapDown = 0.45

// Player is the local combatant: a kinematic controller over the navmesh
// plus the combat pipeline hookup. The per-tick pipeline order (input,
// slide, sprint, acceleration, jump, gravity, integration, ground
// resolution, status) is fixed because each step depends on the previous one.
type Player struct {
	Kinematic
	Vitals

	id    EntityID
	team  int
	world *World
	input *InputState

	weapon *Weapon
	region *Region
	spawn  Vec3

	// Ground/jump state.
	grounded    bool
	airborne    bool // left the ground by jumping or falling
	coyoteTimer int
	bufferTimer int
	prevJump    bool
	jumping     bool
	jumpCutDone bool

	// Slide state.
	sliding       bool
	slideTimer    int
	slideCooldown int
	slideVel      Vec3
	prevCrouch    bool

	// Sprint/stamina.
	sprinting bool
	stamina   float64

	// Cosmetic accumulators consumed by the render layer.
	headBob    float64
	LandImpact float64

	dyingTimer int

	Kills      int
	Deaths     int
	ShotsFired int
	ShotsHit   int
}

// NewPlayer creates the player at a spawn point, bound to an input state
// owned by the front end.
func NewPlayer(w *World, id EntityID, team int, input *InputState, spawn Vec3) *Player {
	cfg := &w.cfg.Player
	p := &Player{
		Kinematic: Kinematic{
			Pos:    spawn,
			Radius: cfg.Radius,
			Height: cfg.Height,
		},
		Vitals: Vitals{
			Health:    cfg.MaxHealth,
			MaxHealth: cfg.MaxHealth,
			Status:    StatusAlive,
		},
		id:      id,
		team:    team,
		world:   w,
		input:   input,
		weapon:  NewWeapon(w.cfg.WeaponSpec("rifle")),
		spawn:   spawn,
		stamina: cfg.StaminaMax,
	}
	p.region = w.mesh.RegionAt(spawn)
	if p.region != nil {
		p.Pos = p.region.ProjectToPlane(p.Pos)
		p.grounded = true
	}
	return p
}

func (p *Player) ID() EntityID           { return p.id }
func (p *Player) Label() string          { return "P" }
func (p *Player) Team() int              { return p.team }
func (p *Player) Kin() *Kinematic        { return &p.Kinematic }
func (p *Player) Life() *Vitals          { return &p.Vitals }
func (p *Player) CurrentRegion() *Region { return p.region }
func (p *Player) Weapon() *Weapon        { return p.weapon }

// Grounded reports ground contact (render layer, tests).
func (p *Player) Grounded() bool { return p.grounded }

// Sliding reports an active slide.
func (p *Player) Sliding() bool { return p.sliding }

// Sprinting reports an active sprint.
func (p *Player) Sprinting() bool { return p.sprinting }

// Stamina returns the current sprint stamina.
func (p *Player) Stamina() float64 { return p.stamina }

// HeadBob returns the accumulated head-bob phase for the camera.
func (p *Player) HeadBob() float64 { return p.headBob }

// Update advances the controller one fixed tick.
func (p *Player) Update() {
	switch p.Status {
	case StatusDying:
		p.dyingTimer--
		if p.dyingTimer <= 0 {
			p.Status = StatusDead
			// DEAD is transient: reset within the same tick.
			p.respawn()
		}
		return
	case StatusDead:
		p.respawn()
		return
	}

	cfg := &p.world.cfg.Player
	dt := p.world.cfg.Sim.Dt()
	in := p.input
	p.Yaw = in.Yaw

	wishDir := p.wishDirection(in)
	p.updateSlide(in, cfg, wishDir)
	p.updateSprint(in, cfg, dt)
	p.updateHorizontal(cfg, dt, wishDir)

	// Head bob advances with horizontal speed; the render layer turns the
	// phase into a camera offset.
	p.headBob += p.Vel.LenXZ() * cfg.HeadBobRate * dt

	p.updateJump(in, cfg)

	// Gravity applies every tick; ground snapping zeroes it afterwards.
	p.Vel.Y -= cfg.Gravity * dt

	tentative := p.Pos.Add(p.Vel.Scale(dt))
	p.resolveGround(cfg, tentative)

	p.weapon.Update(p.world.tick, dt)
	if in.Reload {
		p.weapon.StartReload(p.world.tick)
	}
	if in.Fire {
		p.tryFire()
	}

	p.prevJump = in.Jump
	p.prevCrouch = in.Crouch
}

// wishDirection turns the movement keys into a world-space direction,
// projected onto the ground plane when standing on a slope so input can
// not climb steeper than the surface allows.
func (p *Player) wishDirection(in *InputState) Vec3 {
	forward, strafe := in.MoveAxes()
	if forward == 0 && strafe == 0 {
		return Vec3{}
	}
	f := yawDir(in.Yaw)
	r := Vec3{-f.Z, 0, f.X}
	dir := f.Scale(forward).Add(r.Scale(strafe)).NormXZ()

	if p.grounded && p.region != nil {
		n := p.region.Plane.N
		if n.Y < 0.999 { // sloped surface
			dir = dir.Sub(n.Scale(dir.Dot(n)))
			l := dir.LenXZ()
			if l > 1e-9 {
				dir = Vec3{dir.X / l, 0, dir.Z / l}
			}
		}
	}
	return dir
}

// updateSlide handles slide initiation and exit. While sliding, normal
// acceleration is bypassed entirely.
func (p *Player) updateSlide(in *InputState, cfg *PlayerConfig, wish Vec3) {
	if p.slideCooldown > 0 {
		p.slideCooldown--
	}

	crouchEdge := in.Crouch && !p.prevCrouch
	if !p.sliding && crouchEdge && p.sprinting && p.grounded && p.slideCooldown == 0 {
		dir := p.Vel.NormXZ()
		if dir.LenXZ() > 0 {
			p.sliding = true
			p.slideTimer = cfg.SlideTicks
			p.slideVel = dir.Scale(p.Vel.LenXZ() * cfg.SlideBoost)
			p.world.audio.Play("slide", p.Pos)
		}
	}

	if p.sliding {
		p.slideTimer--
		if p.slideTimer <= 0 || p.slideVel.LenXZ() < cfg.WalkSpeed/2 {
			p.sliding = false
			p.slideCooldown = cfg.SlideCooldownTicks
		}
	}
}

// updateSprint drains or regenerates stamina and decides the sprint flag.
// Sprinting is allowed mid-air (the permissive policy); the slide check
// above is the only grounded-gated consumer.
func (p *Player) updateSprint(in *InputState, cfg *PlayerConfig, dt float64) {
	wantSprint := in.Sprint && in.HasMove() && !p.sliding && p.stamina > 0
	p.sprinting = wantSprint
	if p.sprinting {
		p.stamina = clamp(p.stamina-cfg.StaminaDrain*dt, 0, cfg.StaminaMax)
		if p.stamina <= 0 {
			p.sprinting = false // auto-cancel on empty
		}
	} else {
		p.stamina = clamp(p.stamina+cfg.StaminaRegen*dt, 0, cfg.StaminaMax)
	}
}

// updateHorizontal integrates horizontal velocity: slide decay, idle
// exponential stop, or capped-rate approach toward the target speed with
// asymmetric ground/air acceleration.
func (p *Player) updateHorizontal(cfg *PlayerConfig, dt float64, wish Vec3) {
	if p.sliding {
		decay := math.Exp(-cfg.SlideFriction * dt)
		p.slideVel = p.slideVel.Scale(decay)
		p.Vel.X = p.slideVel.X
		p.Vel.Z = p.slideVel.Z
		return
	}

	if wish.LenXZ() < 1e-9 {
		decay := math.Exp(-cfg.StopDecay * dt)
		p.Vel.X *= decay
		p.Vel.Z *= decay
		return
	}

	speed := cfg.WalkSpeed
	if p.sprinting {
		speed = cfg.SprintSpeed
	}
	accel := cfg.GroundAccel
	if !p.grounded {
		accel = cfg.AirAccel
	}
	target := wish.Scale(speed)
	p.Vel.X = approach(p.Vel.X, target.X, accel*dt)
	p.Vel.Z = approach(p.Vel.Z, target.Z, accel*dt)
}

// updateJump maintains the coyote and buffer windows and executes jumps.
// The buffer arms on the rising edge of the press only; releasing early
// while ascending cuts the jump exactly once.
func (p *Player) updateJump(in *InputState, cfg *PlayerConfig) {
	if p.grounded {
		p.coyoteTimer = cfg.CoyoteTicks
	} else if p.coyoteTimer > 0 {
		p.coyoteTimer--
	}
	if p.bufferTimer > 0 {
		p.bufferTimer--
	}
	if in.Jump && !p.prevJump {
		p.bufferTimer = cfg.JumpBufferTicks
	}

	if (p.grounded || p.coyoteTimer > 0) && p.bufferTimer > 0 && !p.jumping {
		p.executeJump(cfg)
	}

	// Variable jump height: an early release halves the ascent, once.
	if p.jumping && !in.Jump && p.Vel.Y > 0 && !p.jumpCutDone {
		p.Vel.Y *= cfg.JumpCutMultiplier
		p.jumpCutDone = true
	}
}

func (p *Player) executeJump(cfg *PlayerConfig) {
	p.Vel.Y = cfg.JumpImpulse
	p.coyoteTimer = 0
	p.bufferTimer = 0
	p.jumping = true
	p.jumpCutDone = false
	p.grounded = false
	p.airborne = true
	if p.sliding {
		// Jumping is a slide exit like any other; the cooldown still applies.
		p.sliding = false
		p.slideCooldown = cfg.SlideCooldownTicks
	}
	p.world.audio.Play("jump", p.Pos)
}

// resolveGround clamps the tentative position against the navmesh and
// settles ground contact. Grounded movement snaps exactly onto the local
// ground plane; airborne movement runs the full clamp and checks for
// landing once vertical velocity is non-positive. With no usable mesh the
// controller falls back to a flat plane at height zero rather than
// failing the tick.
func (p *Player) resolveGround(cfg *PlayerConfig, tentative Vec3) {
	mesh := p.world.mesh

	if p.region == nil && mesh != nil {
		p.region = mesh.RegionAtXZ(p.Pos)
	}
	if mesh == nil || p.region == nil {
		p.flatGroundFallback(tentative)
		return
	}

	if p.airborne || p.Vel.Y > 0 {
		region, pos := mesh.ClampMovement(p.region, p.Pos, tentative)
		if region != nil {
			p.region = region
		} else {
			pos = Vec3{p.Pos.X, tentative.Y, p.Pos.Z}
		}
		pos.Y = tentative.Y
		if p.Vel.Y <= 0 {
			groundY := 0.0
			if p.region != nil {
				groundY = p.region.Plane.YAt(pos.X, pos.Z)
			}
			if pos.Y <= groundY {
				pos.Y = groundY
				p.LandImpact = -p.Vel.Y
				p.Vel.Y = 0
				p.grounded = true
				p.airborne = false
				p.jumping = false
				p.world.audio.Play("land", p.Pos)
				p.bufferedJumpOnLanding(cfg)
			}
		}
		p.Pos = pos
		if p.grounded {
			return
		}
		p.grounded = false
		return
	}

	// Grounded: clamp horizontally, then snap exactly to the plane unless
	// the ground fell away beneath us.
	flat := Vec3{tentative.X, p.Pos.Y, tentative.Z}
	region, pos := mesh.ClampMovement(p.region, p.Pos, flat)
	if region == nil {
		return // off-mesh: hold the last good position
	}
	p.region = region
	groundY := region.Plane.YAt(pos.X, pos.Z)
	if p.Pos.Y-groundY > maxSnapDown {
		// Walked off a ledge: begin falling instead of teleporting down.
		p.grounded = false
		p.airborne = true
		p.Pos = Vec3{pos.X, p.Pos.Y, pos.Z}
		return
	}
	p.Pos = Vec3{pos.X, groundY, pos.Z}
	p.Vel.Y = 0
	p.grounded = true
}

// bufferedJumpOnLanding re-fires the jump check the tick we land, so a
// press buffered shortly before touchdown executes immediately. It fires
// exactly once, since executing consumes the buffer.
func (p *Player) bufferedJumpOnLanding(cfg *PlayerConfig) {
	if p.bufferTimer > 0 && !p.jumping {
		p.executeJump(cfg)
	}
}

func (p *Player) flatGroundFallback(tentative Vec3) {
	pos := tentative
	if pos.Y <= 0 && p.Vel.Y <= 0 {
		pos.Y = 0
		if !p.grounded {
			p.LandImpact = -p.Vel.Y
		}
		p.Vel.Y = 0
		p.grounded = true
		p.airborne = false
		p.jumping = false
	}
	p.Pos = pos
}

// AimDir returns the current aim direction from yaw and pitch.
func (p *Player) AimDir() Vec3 {
	cy := math.Cos(p.input.Pitch)
	return Vec3{
		cy * math.Cos(p.input.Yaw),
		math.Sin(p.input.Pitch),
		cy * math.Sin(p.input.Yaw),
	}
}

// tryFire attempts a shot with full gating (sprint included) and resolves
// it through the combat manager.
func (p *Player) tryFire() {
	if !p.weapon.Fire(p.world.tick, p.sprinting) {
		return
	}
	origin := p.EyePos()
	reports := p.world.combat.FireHitscan(p, origin, p.AimDir(), p.weapon, p.world.tick)
	p.ShotsFired += len(reports)
	hit := false
	for _, rep := range reports {
		if rep.Target != nil {
			p.ShotsHit++
			hit = true
		}
	}
	p.world.audio.Play("fire", p.Pos)
	if hit {
		p.world.hud.HitLanded()
	}
}

// HandleTelegram implements the entity messaging contract.
func (p *Player) HandleTelegram(t Telegram) bool {
	switch t.Kind {
	case TelegramHit:
		if p.Status != StatusAlive {
			return true
		}
		p.Health -= t.Damage
		p.world.hud.HealthChanged(p.Health, p.MaxHealth)
		p.world.audio.Play("pain", p.Pos)
		if p.Health <= 0 {
			p.Health = 0
			p.startDying(t.Sender)
		}
		return true
	case TelegramDead:
		return true
	case TelegramItemTaken:
		if t.Item == nil {
			return false
		}
		switch t.Item.Kind {
		case ItemHealth:
			p.Health = math.Min(p.MaxHealth, p.Health+t.Item.Amount)
			p.world.hud.HealthChanged(p.Health, p.MaxHealth)
		case ItemAmmo:
			p.weapon.AddReserve(int(t.Item.Amount))
			p.world.hud.AmmoChanged(p.weapon.Mag, p.weapon.Reserve)
		}
		return true
	case TelegramRespawned:
		return true
	default:
		return false
	}
}

// startDying begins the death sequence: input is ignored, the weapon is
// cancelled, and after the dying duration the controller resets.
func (p *Player) startDying(killer Entity) {
	p.Status = StatusDying
	p.dyingTimer = p.world.cfg.Player.DyingTicks
	p.sliding = false
	p.sprinting = false
	p.Vel = Vec3{}
	p.world.onDeath(p, killer)
}

// respawn restores the player to spawn with every movement and ability
// timer back at its initial value.
func (p *Player) respawn() {
	cfg := &p.world.cfg.Player
	p.Pos = p.spawn
	p.Vel = Vec3{}
	p.Health = p.MaxHealth
	p.Status = StatusAlive
	p.region = p.world.mesh.RegionAt(p.spawn)
	if p.region != nil {
		p.Pos = p.region.ProjectToPlane(p.Pos)
	}
	p.grounded = true
	p.airborne = false
	p.coyoteTimer = 0
	p.bufferTimer = 0
	p.jumping = false
	p.jumpCutDone = false
	p.sliding = false
	p.slideTimer = 0
	p.slideCooldown = 0
	p.stamina = cfg.StaminaMax
	p.sprinting = false
	p.headBob = 0
	p.LandImpact = 0
	p.weapon.ResetFor(p.world.tick)
	p.world.hud.HealthChanged(p.Health, p.MaxHealth)
	p.world.hud.AmmoChanged(p.weapon.Mag, p.weapon.Reserve)
}
