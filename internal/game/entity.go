package game

// EntityID uniquely identifies a combatant for the life of the session.
type EntityID int

// Status is the life-cycle state of a combatant. Death is a transition,
// not destruction: DEAD resets back to ALIVE at a spawn point within the
// same tick it is entered.
type Status uint8

const (
	StatusAlive Status = iota
	StatusDying
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusDying:
		return "dying"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Kinematic is the shared transform + motion state embedded by every
// combatant (composition over a MovingEntity hierarchy).
type Kinematic struct {
	Pos    Vec3
	Vel    Vec3
	Yaw    float64 // facing, radians in the XZ plane
	Radius float64
	Height float64
}

// EyePos is the aim/vision origin, near the top of the body.
func (k *Kinematic) EyePos() Vec3 {
	return Vec3{k.Pos.X, k.Pos.Y + k.Height*0.9, k.Pos.Z}
}

// Vitals is the shared health/status block embedded by every combatant.
type Vitals struct {
	Health    float64
	MaxHealth float64
	Status    Status
}

// HealthFrac returns health as a fraction of max, clamped to [0,1].
func (v *Vitals) HealthFrac() float64 {
	if v.MaxHealth <= 0 {
		return 0
	}
	return clamp01(v.Health / v.MaxHealth)
}

// Entity is the capability set the simulation requires from a combatant:
// identity, transform, vitals, and telegram handling. There is no deeper
// hierarchy; Player and Enemy embed the shared structs and implement this.
type Entity interface {
	ID() EntityID
	Label() string // short log label, e.g. "P" or "B2"
	Team() int
	Kin() *Kinematic
	Life() *Vitals
	CurrentRegion() *Region
	HandleTelegram(t Telegram) bool
}
