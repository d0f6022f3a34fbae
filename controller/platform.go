package controller

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/settings"
)

// PlatformController carries characters standing on a platform and keeps the platform clear
// of other level geometry.
type PlatformController struct {
	env  Env
	e    *entity.Entity
	conf settings.Platform
	// direction is the unit direction the platform is nudged along when it runs into scenery.
	// A zero direction never nudges.
	direction mgl32.Vec3

	blocked func()
}

// NewPlatform creates the controller of a static platform.
func NewPlatform(env Env, e *entity.Entity, conf settings.Platform, direction mgl32.Vec3) *PlatformController {
	c := newPlatform(env, e, conf, direction)
	e.SetController(c)
	return c
}

func newPlatform(env Env, e *entity.Entity, conf settings.Platform, direction mgl32.Vec3) *PlatformController {
	direction, _ = game.SafeNormalize(direction)
	return &PlatformController{env: env, e: e, conf: conf, direction: direction}
}

// Update resolves the contacts gathered this tick.
func (c *PlatformController) Update(float32, input.Snapshot) {
	c.resolveCollisions()
}

func (c *PlatformController) resolveCollisions() {
	for _, col := range c.e.Collisions() {
		other, ok := c.env.Entity(col.Other)
		if !ok {
			continue
		}

		switch {
		case math32.Abs(col.Normal.Y()) <= game.Epsilon:
			if !other.Kind().Scenery() {
				continue
			}
			if c.blocked != nil {
				c.blocked()
			}
			if c.direction != (mgl32.Vec3{}) {
				c.e.Node().TranslateOnAxis(c.direction, c.conf.Nudge)
			}
		case col.Normal.Y() < 0 && other.Kind() == entity.KindCharacter:
			// The normal points away from the character, so it is standing on top.
			if other.Node().Parent() != c.e.Node() {
				c.env.Attach(c.e, other)
				c.env.Debugger().Notify(dbg.ModeController, true, "character %d boarded platform %d", other.ID(), c.e.ID())
			}
		}
	}
}

// MovingPlatformController oscillates a platform along an axis: its offset from where it
// started is amplitude * sin(time * frequency).
type MovingPlatformController struct {
	*PlatformController

	axis      mgl32.Vec3
	amplitude float32
	frequency float32

	time float32
	// offset is the displacement applied so far.
	offset float32
}

// NewMovingPlatform creates the controller of a moving platform. Running into scenery restarts
// the oscillation from wherever the platform ended up.
func NewMovingPlatform(env Env, e *entity.Entity, conf settings.Platform, axis mgl32.Vec3, amplitude, frequency float32) *MovingPlatformController {
	axis, _ = game.SafeNormalize(axis)
	c := &MovingPlatformController{
		PlatformController: newPlatform(env, e, conf, axis),
		axis:               axis,
		amplitude:          amplitude,
		frequency:          frequency,
	}
	c.blocked = func() {
		c.time, c.offset = 0, 0
	}
	e.SetController(c)
	return c
}

// Offset returns how far the platform has moved along its axis since it last (re)started.
func (c *MovingPlatformController) Offset() float32 {
	return c.offset
}

// Update resolves the contacts gathered this tick and moves the platform by the change of its
// oscillation.
func (c *MovingPlatformController) Update(dt float32, _ input.Snapshot) {
	c.time += dt
	c.resolveCollisions()

	offset := c.amplitude * math32.Sin(c.time*c.frequency)
	n := c.e.Node()
	n.SetLocalPosition(n.LocalPosition().Add(c.axis.Mul(offset - c.offset)))
	c.offset = offset
}
