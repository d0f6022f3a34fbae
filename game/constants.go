package game

import "github.com/chewxy/math32"

const (
	// Epsilon is the length under which a vector is treated as having no direction.
	Epsilon = float32(1e-6)
	// ContactSlop is the vertical tolerance that lets shapes rest on each other without jitter.
	ContactSlop = float32(0.01)
	// TwoPi is a full turn in radians.
	TwoPi = 2 * math32.Pi

	DefaultGravity = float32(-9.8)
)
