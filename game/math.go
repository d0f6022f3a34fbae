package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// ClampFloat clamps v into [low, high].
func ClampFloat(v, low, high float32) float32 {
	if v < low {
		return low
	} else if v > high {
		return high
	}
	return v
}

// Sign returns -1 for negative values and 1 for everything else, so a zero displacement
// is treated as positive.
func Sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// SignOrZero returns -1 if v < 0, 0 if v == 0, or 1 if v > 0.
func SignOrZero(v float32) float32 {
	if v < 0 {
		return -1
	} else if v == 0 {
		return 0
	}
	return 1
}

// Vec3ApproxEq reports whether every component of a is within threshold of the same component
// of b.
func Vec3ApproxEq(a, b mgl32.Vec3, threshold float32) bool {
	return math32.Abs(a[0]-b[0]) <= threshold && math32.Abs(a[1]-b[1]) <= threshold && math32.Abs(a[2]-b[2]) <= threshold
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// Vec3Hz drops the Y component of a vector.
func Vec3Hz(vec3 mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{vec3.X(), vec3.Z()}
}

// SafeNormalize returns the unit vector of v, or a zero vector and false if v is too short
// to have a direction.
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// SetLength returns v scaled to the given length. A zero vector stays zero, and a negative
// length flips the direction.
func SetLength(v mgl32.Vec3, length float32) mgl32.Vec3 {
	n, ok := SafeNormalize(v)
	if !ok {
		return mgl32.Vec3{}
	}
	return n.Mul(length)
}

// ClampLength shortens v to max if it is longer.
func ClampLength(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if l := v.Len(); l > max && l > Epsilon {
		return v.Mul(max / l)
	}
	return v
}

// WrapAngle wraps a radian angle into [0, 2π).
func WrapAngle(a float32) float32 {
	a = math32.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// TurnTowards rotates the heading current towards target by at most step radians and returns
// the new heading in [0, 2π). The shorter way around is taken. When both ways are equally long
// the heading turns counter-clockwise from the lower half of the circle and clockwise from the
// upper half.
func TurnTowards(current, target, step float32) float32 {
	current, target = WrapAngle(current), WrapAngle(target)
	delta := target - current
	if delta > math32.Pi {
		delta -= TwoPi
	} else if delta < -math32.Pi {
		delta += TwoPi
	}

	if math32.Abs(math32.Abs(delta)-math32.Pi) <= 1e-5 {
		if current < math32.Pi {
			delta = math32.Pi
		} else {
			delta = -math32.Pi
		}
	}

	if math32.Abs(delta) <= step {
		return target
	}
	return WrapAngle(current + SignOrZero(delta)*step)
}

// YawFromDirection returns the rotation about Y that turns +Z into the horizontal part of dir.
func YawFromDirection(dir mgl32.Vec3) float32 {
	return WrapAngle(math32.Atan2(dir.X(), dir.Z()))
}

// YawRotation returns a quaternion rotating yaw radians about the Y axis.
func YawRotation(yaw float32) mgl32.Quat {
	return mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
}

// ToLocal transforms a world-space point into the frame described by position and rotation.
func ToLocal(position mgl32.Vec3, rotation mgl32.Quat, point mgl32.Vec3) mgl32.Vec3 {
	return rotation.Conjugate().Rotate(point.Sub(position))
}

// ToWorld transforms a point in the frame described by position and rotation into world space.
func ToWorld(position mgl32.Vec3, rotation mgl32.Quat, point mgl32.Vec3) mgl32.Vec3 {
	return rotation.Rotate(point).Add(position)
}

// MaxComponent returns the largest component of v.
func MaxComponent(v mgl32.Vec3) float32 {
	return math32.Max(v.X(), math32.Max(v.Y(), v.Z()))
}
