package controller

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/oerror"
	"github.com/oomph-ac/sandbox/settings"
)

// driftSnap is the distance from the rest pose under which the drone snaps back onto it.
const driftSnap = 1e-3

// DroneController drives the weapon drone mounted on the character. The drone lives in its
// mount's frame: rest is its resting local position and every displacement is relative to it.
type DroneController struct {
	env  Env
	e    *entity.Entity
	conf settings.Drone
	shot settings.Projectile
	fsm  *fsm.Machine[*DroneController]

	rest     mgl32.Vec3
	velocity mgl32.Vec3

	magazine int
	cooldown float32
	reload   float32

	// bobTime drives the bobbing sine. bob is the offset it applied last tick.
	bobTime float32
	bob     float32
	spin    mgl32.Vec2
}

// NewDrone creates the controller of e. The drone must already be attached to its mount, and
// its current local position becomes its rest pose.
func NewDrone(env Env, e *entity.Entity, conf settings.Drone, shot settings.Projectile) (*DroneController, error) {
	if e.Node().Parent() == nil {
		return nil, oerror.New(game.ErrorMissingDependency, "drone controller", "mount to attach to")
	}
	c := &DroneController{
		env:      env,
		e:        e,
		conf:     conf,
		shot:     shot,
		rest:     e.Node().LocalPosition(),
		magazine: conf.Magazine,
	}
	c.fsm = fsm.New(c)
	c.fsm.Register(
		&droneIdle{droneState{StateIdle}},
		&droneFire{droneState{StateFire}},
		&droneEmpty{droneState{StateEmpty}},
	)
	c.fsm.OnTransition(func(from, to string) {
		env.Debugger().Notify(dbg.ModeFSA, true, "drone %d: %s -> %s", e.ID(), from, to)
	})
	c.fsm.MustSetState(StateIdle)
	e.SetController(c)
	return c, nil
}

// StateName returns the name of the current state.
func (c *DroneController) StateName() string {
	return c.fsm.CurrentName()
}

// Magazine returns the number of shots left before reloading.
func (c *DroneController) Magazine() int {
	return c.magazine
}

// Rest returns the local position the drone drifts back to.
func (c *DroneController) Rest() mgl32.Vec3 {
	return c.rest
}

// Update resolves the contacts gathered this tick, runs the state machine, then bobs, shoots
// and drifts the drone depending on its state.
func (c *DroneController) Update(dt float32, in input.Snapshot) {
	c.resolveCollisions()
	c.fsm.Update(dt, in)
	c.cooldown = math32.Max(0, c.cooldown-dt)

	switch c.fsm.CurrentName() {
	case StateIdle:
		c.applyBob(dt, c.conf.IdleAmplitude, c.conf.IdleFrequency)
		c.spin = c.spin.Add(mgl32.Vec2{c.conf.IdleSpin * dt, c.conf.IdleSpin * dt})
	case StateFire:
		c.spin = c.spin.Add(mgl32.Vec2{c.conf.FireSpin * dt, c.conf.FireSpin * dt})
		if c.cooldown == 0 && c.magazine > 0 {
			c.fire(in)
		}
	case StateEmpty:
		c.applyBob(dt, c.conf.EmptyAmplitude, c.conf.EmptyFrequency)
		if c.reload += dt; c.reload >= c.conf.ReloadTime {
			c.reload = 0
			c.magazine = c.conf.Magazine
		}
	}

	c.drift(dt)
	c.e.SetVisualRotation(c.e.Rotation().Mul(game.YawRotation(c.spin.Y())).Mul(mgl32.QuatRotate(c.spin.X(), mgl32.Vec3{1, 0, 0})))
}

// resolveCollisions pushes the drone out of everything but its mount and projectiles.
func (c *DroneController) resolveCollisions() {
	for _, col := range c.e.Collisions() {
		other, ok := c.env.Entity(col.Other)
		if !ok || other.Kind() == entity.KindProjectile || other.ID() == c.e.Owner() {
			continue
		}
		c.velocity = pushOut(c.e, col, c.velocity)
	}
}

// fire shoots at the point the screen centre ray reaches after AimDistance. Without an aim
// ray the drone shoots straight ahead.
func (c *DroneController) fire(in input.Snapshot) {
	pos := c.e.Position()
	dir, ok := game.SafeNormalize(in.AimDirection)
	if ok {
		dir, ok = game.SafeNormalize(in.AimOrigin.Add(dir.Mul(c.conf.AimDistance)).Sub(pos))
	}
	if !ok {
		dir = c.e.Rotation().Rotate(mgl32.Vec3{0, 0, 1})
	}

	if _, ok := Fire(c.env, c.shot, c.e, pos, dir); ok {
		c.magazine--
		c.cooldown = c.conf.FireInterval
	}
}

// applyBob moves the drone along the bobbing sine, applying only the change since last tick.
func (c *DroneController) applyBob(dt, amplitude, frequency float32) {
	c.bobTime += dt
	offset := amplitude * math32.Sin(c.bobTime*frequency)
	n := c.e.Node()
	n.SetLocalPosition(n.LocalPosition().Add(mgl32.Vec3{0, offset - c.bob, 0}))
	c.bob = offset
}

// drift accelerates the drone back towards its rest pose on X and Z.
func (c *DroneController) drift(dt float32) {
	n := c.e.Node()
	pos := n.LocalPosition()
	for _, i := range [2]int{0, 2} {
		diff := c.rest[i] - pos[i]
		if math32.Abs(diff) <= driftSnap {
			pos[i], c.velocity[i] = c.rest[i], 0
			continue
		}
		c.velocity[i] = game.ClampFloat(c.velocity[i]+game.Sign(diff)*c.conf.DriftAcceleration*dt, -c.conf.MaxDrift, c.conf.MaxDrift)
		pos[i] += c.velocity[i] * dt
	}
	pos[1] += c.velocity[1] * dt
	n.SetLocalPosition(pos)
}
