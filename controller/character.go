package controller

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/settings"
)

// CharacterController moves the player character from raw input.
//
// Velocity is kept in the character's own frame: +Z is forward and +X is left. The Y axis is
// shared with the parent frame since the character only ever yaws.
type CharacterController struct {
	env  Env
	e    *entity.Entity
	conf settings.Character
	fsm  *fsm.Machine[*CharacterController]

	velocity mgl32.Vec3
	// heading is the yaw of the mesh relative to the character, in [0, 2π).
	heading float32

	// falling is reset at the end of every update and cleared by any contact supporting the
	// character. supported keeps the result of the last update for callers.
	falling   bool
	supported bool
	// jumpLatched is set when a jump or fall starts and cleared on landing, so holding the
	// jump key does not jump again mid-air.
	jumpLatched bool
	jumpHeld    bool
}

// NewCharacter creates the controller of e and sets it as the entity's controller. The
// character starts idle and falling.
func NewCharacter(env Env, e *entity.Entity, conf settings.Character) *CharacterController {
	c := &CharacterController{env: env, e: e, conf: conf, falling: true}
	c.fsm = fsm.New(c)
	c.fsm.Register(
		&characterIdle{characterState{StateIdle}},
		&characterWalk{characterState{StateWalk}},
		&characterRun{characterState{StateRun}},
		&characterJump{characterState{StateJump}},
		&characterFall{characterState{StateFall}},
	)
	c.fsm.OnTransition(func(from, to string) {
		env.Debugger().Notify(dbg.ModeFSA, true, "character %d: %s -> %s", e.ID(), from, to)
	})
	c.fsm.MustSetState(StateIdle)
	e.SetController(c)
	return c
}

// Entity returns the controlled entity.
func (c *CharacterController) Entity() *entity.Entity {
	return c.e
}

// StateName returns the name of the current state.
func (c *CharacterController) StateName() string {
	return c.fsm.CurrentName()
}

// Velocity returns the velocity in the character's frame.
func (c *CharacterController) Velocity() mgl32.Vec3 {
	return c.velocity
}

// Falling returns true if the last update found nothing supporting the character.
func (c *CharacterController) Falling() bool {
	return !c.supported
}

// Heading returns the yaw of the mesh relative to the character.
func (c *CharacterController) Heading() float32 {
	return c.heading
}

// Update resolves the contacts gathered this tick, runs the state machine and moves the
// character.
func (c *CharacterController) Update(dt float32, in input.Snapshot) {
	c.resolveCollisions()
	c.supported = !c.falling
	if c.falling && c.e.Node().Parent() != nil {
		c.env.Detach(c.e)
	}

	c.fsm.Update(dt, in)
	c.updateVelocity(dt, in)

	if yaw := in.MouseDelta.X(); yaw != 0 {
		n := c.e.Node()
		n.SetLocalRotation(n.LocalRotation().Mul(game.YawRotation(-yaw)))
	}
	c.move(dt)
	c.falling = true
	c.jumpHeld = in.Jump
}

func (c *CharacterController) resolveCollisions() {
	for _, col := range c.e.Collisions() {
		other, ok := c.env.Entity(col.Other)
		if !ok || other.Kind() == entity.KindProjectile || other.Owner() == c.e.ID() {
			continue
		}
		c.velocity = pushOut(c.e, col, c.velocity)
		if col.Normal.Y() > 0 {
			c.falling = false
		}
	}
}

// profile returns the acceleration profile of the current state.
func (c *CharacterController) profile(in input.Snapshot) settings.Profile {
	if c.fsm.CurrentName() == StateFall {
		p := c.conf.Fall
		if in.Run {
			p.MaxVelocity = c.conf.Run.MaxVelocity
		} else {
			p.MaxVelocity = c.conf.Walk.MaxVelocity
		}
		return p
	}
	if in.Run {
		return c.conf.Run
	}
	return c.conf.Walk
}

// updateVelocity integrates the acceleration of the current state into the velocity.
func (c *CharacterController) updateVelocity(dt float32, in input.Snapshot) {
	state := c.fsm.CurrentName()
	if state == StateIdle {
		c.velocity = mgl32.Vec3{}
		return
	}

	p := c.profile(in)
	acc, maxVel, decel := p.Acceleration.Vec3(), p.MaxVelocity.Vec3(), c.conf.Deceleration.Vec3()
	if state != StateFall {
		c.velocity[1] = 0
	}
	if state == StateJump {
		c.velocity[1] += c.conf.JumpImpulse
	}
	c.velocity[1] += acc.Y() * dt

	// Horizontal axes stop dead once their keys are released.
	axis := in.Axis()
	for _, i := range [2]int{0, 2} {
		if axis[i] == 0 {
			c.velocity[i] = 0
			continue
		}
		c.velocity[i] += axis[i] * acc[i] * dt
		if c.velocity[i] > maxVel[i] {
			c.velocity[i] += decel[i]
		} else if c.velocity[i] < -maxVel[i] {
			c.velocity[i] -= decel[i]
		}
	}
	// Upwards velocity is never capped.
	c.velocity[1] = math32.Max(c.velocity[1], -maxVel.Y())
}

// move applies the velocity and turns the mesh towards the direction of movement.
func (c *CharacterController) move(dt float32) {
	step := c.velocity.Mul(dt)
	c.e.Node().TranslateOnAxis(c.velocity, dt)
	if step.X() == 0 && step.Z() == 0 {
		return
	}

	target := game.YawFromDirection(step)
	diff := math32.Abs(game.WrapAngle(target - c.heading))
	if diff > math32.Pi {
		diff = game.TwoPi - diff
	}
	c.heading = game.TurnTowards(c.heading, target, math32.Min(diff, c.conf.TurnRate)*dt)
	c.e.SetVisualRotation(c.e.Rotation().Mul(game.YawRotation(c.heading)))
}

// tryJump reports a fresh press of the jump key and latches it.
func (c *CharacterController) tryJump(in input.Snapshot) bool {
	if in.Jump && !c.jumpHeld && !c.jumpLatched {
		c.jumpLatched = true
		return true
	}
	return false
}

// airborne returns true when the character should be falling.
func (c *CharacterController) airborne() bool {
	return c.falling || c.jumpLatched
}
