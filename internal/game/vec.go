package game

import "math"

// Vec3 is a point or direction in world space. Y is up; movement and
// navmesh containment operate on the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3  { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3  { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LenXZ is the horizontal magnitude, ignoring the vertical component.
func (v Vec3) LenXZ() float64 {
	return math.Hypot(v.X, v.Z)
}

func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// NormXZ normalises only the horizontal components, zeroing Y.
func (v Vec3) NormXZ() Vec3 {
	l := v.LenXZ()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v.X / l, 0, v.Z / l}
}

func (v Vec3) DistTo(o Vec3) float64 {
	return v.Sub(o).Len()
}

func (v Vec3) DistToXZ(o Vec3) float64 {
	return math.Hypot(v.X-o.X, v.Z-o.Z)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// approach moves cur toward target by at most step, without overshooting.
func approach(cur, target, step float64) float64 {
	if cur < target {
		return math.Min(cur+step, target)
	}
	return math.Max(cur-step, target)
}

// HeadingTo returns the yaw (radians) from (ax,az) toward (bx,bz).
func HeadingTo(ax, az, bx, bz float64) float64 {
	return math.Atan2(bz-az, bx-ax)
}

// yawDir converts a yaw angle into a horizontal unit direction.
func yawDir(yaw float64) Vec3 {
	return Vec3{math.Cos(yaw), 0, math.Sin(yaw)}
}

// angleDiff returns the signed smallest difference a-b wrapped to (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
