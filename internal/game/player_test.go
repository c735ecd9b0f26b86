package game

import (
	"math"
	"testing"
)

func playerSim(opts ...TestSimOption) (*TestSim, *Player) {
	base := []TestSimOption{WithFlatArena(40), WithSeed(1), WithPlayer(0)}
	ts := NewTestSim(append(base, opts...)...)
	return ts, ts.Player
}

// ledgeSim builds a high plateau joined to a low floor so walking east
// drops the player off a 2m ledge.
func ledgeSim() (*TestSim, *Player) {
	mesh := NewNavMesh([]*Region{
		flatRegion(2, [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}),
		flatRegion(0, [][2]float64{{10, 0}, {30, 0}, {30, 10}, {10, 10}}),
	})
	arena := &Arena{Mesh: mesh, SpawnPoints: []Vec3{{5, 2, 5}}}
	ts := NewTestSim(WithArena(arena), WithSeed(1), WithPlayer(0))
	return ts, ts.Player
}

func TestPlayer_WalkReachesWalkSpeed(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Yaw = 0 // +X
	ts.Step(60)

	if speed := p.Vel.LenXZ(); math.Abs(speed-4.5) > 0.1 {
		t.Fatalf("walk speed after 1s = %.2f, want ~4.5", speed)
	}
	if p.Pos.X <= 0 {
		t.Fatalf("player did not advance: X = %.2f", p.Pos.X)
	}
	if !p.Grounded() {
		t.Fatal("walking player should stay grounded")
	}
}

func TestPlayer_StopsWithoutInput(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Step(60)
	ts.Input.Forward = false
	ts.Step(60)

	if speed := p.Vel.LenXZ(); speed > 0.05 {
		t.Fatalf("residual speed after 1s of no input = %.3f", speed)
	}
}

func TestPlayer_JumpAndLand(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Jump = true
	ts.Step(1)
	ts.Input.Jump = false

	if p.Grounded() {
		t.Fatal("player should leave the ground on the jump tick")
	}
	if p.Vel.Y <= 0 {
		t.Fatalf("vertical velocity after jump = %.2f, want positive", p.Vel.Y)
	}

	if !ts.StepUntil(120, func() bool { return p.Grounded() }) {
		t.Fatal("player never landed")
	}
	if math.Abs(p.Pos.Y) > 1e-6 {
		t.Fatalf("landed at y = %.4f, want 0", p.Pos.Y)
	}
	if p.LandImpact <= 0 {
		t.Fatal("landing should record an impact for the camera")
	}
}

func TestPlayer_HeldJumpDoesNotBunnyHop(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Jump = true // held the whole time: only the rising edge arms
	ts.Step(1)
	ts.StepUntil(120, func() bool { return p.Grounded() })
	ts.Step(10)
	if !p.Grounded() {
		t.Fatal("a held jump key should not re-jump on landing")
	}
}

func TestPlayer_JumpBufferExecutesOnLanding(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Jump = true
	ts.Step(1)
	ts.Input.Jump = false

	// Fall until just above the floor, then press again. The first jump was
	// cut short, so only a press very near the ground lands inside the
	// 6-tick buffer window.
	if !ts.StepUntil(120, func() bool { return p.Vel.Y < 0 && p.Pos.Y < 0.12 }) {
		t.Fatal("player never came back down")
	}
	ts.Input.Jump = true
	ts.Step(1)
	ts.Input.Jump = false

	if !ts.StepUntil(10, func() bool { return p.Vel.Y > 1 }) {
		t.Fatal("buffered jump did not execute on landing")
	}
}

func TestPlayer_VariableJumpHeight(t *testing.T) {
	apex := func(cutAfter int) float64 {
		ts, p := playerSim()
		ts.Input.Jump = true
		if cutAfter > 0 {
			ts.Step(cutAfter)
			ts.Input.Jump = false
		}
		top := 0.0
		for i := 0; i < 120; i++ {
			ts.Step(1)
			if p.Pos.Y > top {
				top = p.Pos.Y
			}
			if i > 2 && p.Grounded() {
				break
			}
		}
		return top
	}

	full := apex(0) // held the whole flight
	cut := apex(3)  // released 3 ticks in
	if cut >= full*0.8 {
		t.Fatalf("early release apex %.2f should be well below full apex %.2f", cut, full)
	}
}

func TestPlayer_LedgeDropAndCoyoteJump(t *testing.T) {
	ts, p := ledgeSim()
	ts.Input.Forward = true
	ts.Input.Yaw = 0 // walk east toward the drop at x=10

	if !ts.StepUntil(600, func() bool { return !p.Grounded() }) {
		t.Fatal("player never walked off the ledge")
	}
	if p.Pos.Y < 1.5 {
		t.Fatalf("player snapped down the 2m ledge instead of falling: y = %.2f", p.Pos.Y)
	}

	// Jump pressed right after leaving the edge: coyote time honours it.
	ts.Input.Jump = true
	ts.Step(1)
	if p.Vel.Y <= 0 {
		t.Fatalf("coyote jump rejected: Vel.Y = %.2f", p.Vel.Y)
	}

	ts.Input.Jump = false
	if !ts.StepUntil(200, func() bool { return p.Grounded() }) {
		t.Fatal("player never landed on the lower floor")
	}
	if math.Abs(p.Pos.Y) > 1e-6 {
		t.Fatalf("landed at y = %.4f, want 0 on the lower floor", p.Pos.Y)
	}
}

func TestPlayer_SprintDrainsAndRegens(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Sprint = true
	ts.Step(60)

	if !p.Sprinting() {
		t.Fatal("player should be sprinting")
	}
	if speed := p.Vel.LenXZ(); math.Abs(speed-7.0) > 0.1 {
		t.Fatalf("sprint speed = %.2f, want ~7.0", speed)
	}
	afterDrain := p.Stamina()
	if afterDrain >= 100 {
		t.Fatal("sprinting should drain stamina")
	}

	ts.Input.Sprint = false
	ts.Step(60)
	if p.Stamina() <= afterDrain {
		t.Fatal("stamina should regenerate when not sprinting")
	}
}

func TestPlayer_SprintAutoCancelsOnEmptyStamina(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Sprint = true

	// 100 stamina at 28/s drains out in under 4 seconds.
	ts.Step(260)
	if p.Sprinting() {
		t.Fatal("sprint should auto-cancel at zero stamina")
	}
	if speed := p.Vel.LenXZ(); speed > 5.0 {
		t.Fatalf("speed %.2f still at sprint level after stamina ran out", speed)
	}
}

func TestPlayer_SlideBoostAndCooldown(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Sprint = true
	ts.Step(60) // reach sprint speed

	ts.Input.Crouch = true
	ts.Step(1)
	if !p.Sliding() {
		t.Fatal("crouch at sprint speed should start a slide")
	}
	if speed := p.Vel.LenXZ(); speed < 7.0 {
		t.Fatalf("slide start speed = %.2f, want boosted above sprint", speed)
	}

	// The slide ends within its 30-tick duration and enters cooldown;
	// an immediate second crouch does nothing.
	ts.Step(35)
	if p.Sliding() {
		t.Fatal("slide should have ended")
	}
	ts.Input.Crouch = false
	ts.Step(1)
	ts.Input.Crouch = true
	ts.Step(1)
	if p.Sliding() {
		t.Fatal("slide during cooldown should be rejected")
	}
}

func TestPlayer_JumpCancelsSlideIntoCooldown(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Sprint = true
	ts.Step(60)
	ts.Input.Crouch = true
	ts.Step(1)
	if !p.Sliding() {
		t.Fatal("crouch at sprint speed should start a slide")
	}

	ts.Input.Jump = true
	ts.Step(1)
	ts.Input.Jump = false
	if p.Sliding() {
		t.Fatal("jumping should cancel the slide")
	}

	// The cancelled slide still charges the cooldown: a crouch right after
	// landing is rejected like any other in-cooldown slide attempt.
	ts.Input.Crouch = false
	if !ts.StepUntil(120, func() bool { return p.Grounded() }) {
		t.Fatal("player never landed")
	}
	ts.Input.Crouch = true
	ts.Step(1)
	if p.Sliding() {
		t.Fatal("slide during the post-jump cooldown should be rejected")
	}
}

func TestPlayer_SlideRequiresSprint(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Step(60) // walking, not sprinting
	ts.Input.Crouch = true
	ts.Step(1)
	if p.Sliding() {
		t.Fatal("slide without sprint should be rejected")
	}
}

func TestPlayer_DeathAndRespawnResetsEverything(t *testing.T) {
	ts, p := playerSim()
	ts.Input.Forward = true
	ts.Input.Sprint = true
	ts.Step(120) // move away from spawn, burn stamina

	spawn := p.spawn
	ts.World.Bus().Dispatch(p, Telegram{Kind: TelegramHit, Damage: 1000})
	if p.Status != StatusDying {
		t.Fatalf("status after lethal hit = %v, want dying", p.Status)
	}
	if p.Deaths != 1 {
		t.Fatalf("deaths = %d, want 1", p.Deaths)
	}

	// Input is ignored while dying; after dying_ticks the reset runs.
	ts.Input.Forward = false
	ts.Input.Sprint = false
	ts.Step(80)
	if p.Status != StatusAlive {
		t.Fatalf("status after dying duration = %v, want alive", p.Status)
	}
	if p.Health != p.MaxHealth {
		t.Fatalf("respawn health = %.0f, want full", p.Health)
	}
	if p.Pos.DistToXZ(spawn) > 0.01 {
		t.Fatalf("respawn position %.2f m from spawn", p.Pos.DistToXZ(spawn))
	}
	if p.Stamina() != 100 {
		t.Fatalf("respawn stamina = %.0f, want 100", p.Stamina())
	}
	if p.Weapon().Mag != p.Weapon().Spec.MagSize {
		t.Fatal("respawn should refill the magazine")
	}
	if p.Sliding() || p.Sprinting() || !p.Grounded() {
		t.Fatal("respawn should reset movement state")
	}
}

func TestPlayer_LethalHitWhileDyingIsAbsorbed(t *testing.T) {
	ts, p := playerSim()
	ts.World.Bus().Dispatch(p, Telegram{Kind: TelegramHit, Damage: 1000})
	deaths := p.Deaths
	ts.World.Bus().Dispatch(p, Telegram{Kind: TelegramHit, Damage: 1000})
	if p.Deaths != deaths {
		t.Fatal("a corpse should not die twice")
	}
}
