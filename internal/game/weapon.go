package game

import "math"

// Weapon is the mutable firing state for one held weapon instance. All
// state transitions decline silently when their preconditions fail (fire
// while reloading, reload with a full magazine, ...): these are normal
// gameplay, not errors.
type Weapon struct {
	Spec    *WeaponSpec
	Mag     int
	Reserve int

	lastShotTick int
	reloading    bool
	reloadStart  int
	spread       float64 // accumulated spread above the baseline, radians
	recoil       float64 // current recoil aim offset, radians
}

// NewWeapon creates a weapon with a full magazine and starting reserve.
func NewWeapon(spec *WeaponSpec) *Weapon {
	return &Weapon{
		Spec:         spec,
		Mag:          spec.MagSize,
		Reserve:      spec.ReserveStart,
		lastShotTick: -spec.FireIntervalTicks,
	}
}

// Update advances reload completion and decays spread/recoil. Call once
// per tick before any fire attempt.
func (w *Weapon) Update(tick int, dt float64) {
	if w.reloading && tick-w.reloadStart >= w.Spec.ReloadTicks {
		transfer := w.Spec.MagSize - w.Mag
		if transfer > w.Reserve {
			transfer = w.Reserve
		}
		w.Mag += transfer
		w.Reserve -= transfer
		w.reloading = false
	}

	decay := w.Spec.SpreadDecay
	if tick-w.lastShotTick > w.Spec.FireIntervalTicks*2 {
		decay *= w.Spec.SpreadIdleDecayMul
	}
	w.spread = math.Max(0, w.spread-decay*dt)
	w.recoil -= w.recoil * clamp01(w.Spec.RecoilDecay*dt)
}

// CanFire reports whether a fire attempt would succeed this tick.
// Sprinting suppresses fire entirely.
func (w *Weapon) CanFire(tick int, sprinting bool) bool {
	if sprinting || w.reloading || w.Mag <= 0 {
		return false
	}
	return tick-w.lastShotTick >= w.Spec.FireIntervalTicks
}

// Fire consumes one round and accumulates spread/recoil. Returns false
// (with no state change beyond an auto-reload trigger on an empty mag)
// when the attempt is rejected.
func (w *Weapon) Fire(tick int, sprinting bool) bool {
	if w.Mag <= 0 && !w.reloading {
		// Dry fire auto-starts a reload when reserve ammo exists.
		w.StartReload(tick)
		return false
	}
	if !w.CanFire(tick, sprinting) {
		return false
	}
	w.Mag--
	w.lastShotTick = tick
	w.spread = math.Min(w.spread+w.Spec.SpreadPerShot, w.Spec.SpreadMax)
	w.recoil += w.Spec.RecoilKick
	return true
}

// StartReload begins a reload if one is permitted: not already reloading,
// magazine not full, reserve ammo available.
func (w *Weapon) StartReload(tick int) bool {
	if w.reloading || w.Mag >= w.Spec.MagSize || w.Reserve <= 0 {
		return false
	}
	w.reloading = true
	w.reloadStart = tick
	return true
}

// Reloading reports whether a reload is in progress.
func (w *Weapon) Reloading() bool { return w.reloading }

// Spread returns the current total spread cone half-angle in radians.
func (w *Weapon) Spread() float64 {
	return w.Spec.SpreadBase + w.spread
}

// Recoil returns the current recoil aim offset in radians. The render
// layer applies the same value to the camera.
func (w *Weapon) Recoil() float64 { return w.recoil }

// AmmoFrac returns total remaining ammo as a fraction of a full loadout.
func (w *Weapon) AmmoFrac() float64 {
	full := w.Spec.MagSize + w.Spec.ReserveStart
	if full <= 0 {
		return 0
	}
	return clamp01(float64(w.Mag+w.Reserve) / float64(full))
}

// AddReserve grants reserve ammo from a pickup.
func (w *Weapon) AddReserve(rounds int) {
	if rounds > 0 {
		w.Reserve += rounds
	}
}

// ResetFor refills the weapon for a respawn.
func (w *Weapon) ResetFor(tick int) {
	w.Mag = w.Spec.MagSize
	w.Reserve = w.Spec.ReserveStart
	w.reloading = false
	w.spread = 0
	w.recoil = 0
	w.lastShotTick = tick - w.Spec.FireIntervalTicks
}
