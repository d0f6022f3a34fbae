// Package input holds the per-tick input snapshot handed to every controller.
package input

import "github.com/go-gl/mathgl/mgl32"

// Snapshot is the raw input state for a single tick. Controllers treat it as read-only; any
// latching (such as a held jump key) is tracked by the controller itself.
type Snapshot struct {
	Forward, Backward bool
	Left, Right       bool
	// Run is the run modifier (shift).
	Run bool
	// Jump is true while the jump key is held.
	Jump bool

	// MouseDelta is the mouse movement since the last tick, already scaled by sensitivity.
	MouseDelta mgl32.Vec2
	// Primary and Secondary are the mouse button states.
	Primary, Secondary bool

	// AimOrigin and AimDirection describe the ray through the centre of the screen.
	AimOrigin    mgl32.Vec3
	AimDirection mgl32.Vec3
}

// Moving returns true if any movement key is held.
func (s Snapshot) Moving() bool {
	return s.Forward || s.Backward || s.Left || s.Right
}

// Axis returns the local movement intent: +Z forward, +X left.
func (s Snapshot) Axis() mgl32.Vec3 {
	var v mgl32.Vec3
	if s.Forward {
		v[2]++
	}
	if s.Backward {
		v[2]--
	}
	if s.Left {
		v[0]++
	}
	if s.Right {
		v[0]--
	}
	return v
}
