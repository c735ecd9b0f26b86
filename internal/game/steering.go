package game

// SteerMode selects the active steering behaviour for a bot.
type SteerMode uint8

const (
	SteerNone   SteerMode = iota
	SteerSeek             // head straight for Target
	SteerStrafe           // move along StrafeDir while facing the aim target
)

// Steering is a bot's movement intent, written by goals and read by the
// enemy controller's kinematic integration. Goals that enable a behaviour
// must Clear it in Terminate.
type Steering struct {
	Mode      SteerMode
	Target    Vec3
	StrafeDir Vec3
	SpeedMul  float64 // 0 means full archetype speed
}

// Seek activates seek steering toward a fixed position.
func (s *Steering) Seek(target Vec3) {
	s.Mode = SteerSeek
	s.Target = target
}

// Strafe activates lateral movement along dir.
func (s *Steering) Strafe(dir Vec3) {
	s.Mode = SteerStrafe
	s.StrafeDir = dir.NormXZ()
}

// Clear deactivates all steering output.
func (s *Steering) Clear() {
	*s = Steering{}
}

// Active reports whether any behaviour is enabled.
func (s *Steering) Active() bool { return s.Mode != SteerNone }

// Desired returns the horizontal velocity the behaviour asks for.
func (s *Steering) Desired(pos Vec3, speed float64) Vec3 {
	if s.SpeedMul > 0 {
		speed *= s.SpeedMul
	}
	switch s.Mode {
	case SteerSeek:
		to := s.Target.Sub(pos)
		to.Y = 0
		dist := to.LenXZ()
		if dist < 1e-6 {
			return Vec3{}
		}
		// Arrive: ease in over the last metre so bots do not orbit the
		// target point.
		if dist < 1.0 {
			speed *= dist
		}
		return to.NormXZ().Scale(speed)
	case SteerStrafe:
		return s.StrafeDir.Scale(speed)
	default:
		return Vec3{}
	}
}
