package controller

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/oerror"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/zeebo/xxh3"
)

// EnemyController steers an enemy with boid forces and shoots at its target once it is close.
type EnemyController struct {
	env    Env
	e      *entity.Entity
	conf   settings.Enemy
	shot   settings.Projectile
	fsm    *fsm.Machine[*EnemyController]
	rand   *rand.Rand
	target entity.ID

	// origin is where the enemy wanders around.
	origin    mgl32.Vec3
	velocity  mgl32.Vec3
	direction mgl32.Vec3

	wanderAngle float32
	// charge is the time between two shots and chargeTimer the time since the last one.
	charge      float32
	chargeTimer float32
}

// NewEnemy creates the controller of e, an enemy chasing target. The enemy needs a cylinder
// hitbox and starts wandering around its current position.
func NewEnemy(env Env, e *entity.Entity, conf settings.Enemy, shot settings.Projectile, target entity.ID) (*EnemyController, error) {
	if _, ok := e.Shape().(hitbox.Cylinder); !ok {
		return nil, oerror.New(game.ErrorMissingDependency, "enemy controller", "cylinder hitbox")
	}

	c := &EnemyController{
		env:    env,
		e:      e,
		conf:   conf,
		shot:   shot,
		rand:   rand.New(rand.NewSource(int64(xxh3.HashString(e.Name()) ^ e.ID()))),
		target: target,
		origin: e.Position(),
	}
	c.direction, _ = game.SafeNormalize(mgl32.Vec3{c.randRange(-1, 1), 0, c.randRange(-1, 1)})
	c.charge = conf.ChargeTime + c.rand.Float32()*conf.ChargeJitter
	c.chargeTimer = c.charge

	c.fsm = fsm.New(c)
	c.fsm.Register(
		&enemyWander{enemyState{StateWander}},
		&enemyAggro{enemyState: enemyState{StateAggro}},
		&enemyShoot{enemyState{StateShoot}},
	)
	c.fsm.OnTransition(func(from, to string) {
		env.Debugger().Notify(dbg.ModeFSA, true, "enemy %d: %s -> %s", e.ID(), from, to)
	})
	c.fsm.MustSetState(StateWander)
	e.SetController(c)
	return c, nil
}

// StateName returns the name of the current state.
func (c *EnemyController) StateName() string {
	return c.fsm.CurrentName()
}

func (c *EnemyController) Velocity() mgl32.Vec3 {
	return c.velocity
}

// Direction returns the unit direction the enemy is heading in.
func (c *EnemyController) Direction() mgl32.Vec3 {
	return c.direction
}

// SetDirection turns the enemy to face dir. Directions too short to normalise are ignored.
func (c *EnemyController) SetDirection(dir mgl32.Vec3) {
	if n, ok := game.SafeNormalize(dir); ok {
		c.direction = n
	}
}

// Target returns the entity the enemy chases.
func (c *EnemyController) Target() entity.ID {
	return c.target
}

// Update resolves the contacts gathered this tick, runs the state machine, then steers and
// moves the enemy.
func (c *EnemyController) Update(dt float32, in input.Snapshot) {
	c.resolveCollisions()
	c.fsm.Update(dt, in)

	pos := c.e.Position()
	var local []*entity.Entity
	for _, other := range c.env.FindNear(game.Vec3Hz(pos), mgl32.Vec2{c.conf.Neighbourhood, c.conf.Neighbourhood}) {
		if other != c.e && !other.Expired() {
			local = append(local, other)
		}
	}
	c.steer(dt, local)

	n := c.e.Node()
	n.SetLocalPosition(n.LocalPosition().Add(c.velocity.Mul(dt)))
	c.e.SetVisualRotation(game.YawRotation(game.YawFromDirection(c.direction)))
}

// ReceiveHit damages the enemy if it can be hit, destroying it once it has no health left.
func (c *EnemyController) ReceiveHit(from entity.ID, damage int) {
	if !c.e.CanBeHit() || c.e.Expired() {
		return
	}
	health := c.e.Damage(damage)
	c.env.Debugger().Notify(dbg.ModeController, true, "enemy %d hit by %d, %d health left", c.e.ID(), from, health)
	if health == 0 {
		c.env.Destroy(c.e)
	}
}

// resolveCollisions pushes the enemy out of everything but projectiles, which deal their
// damage through ReceiveHit.
func (c *EnemyController) resolveCollisions() {
	for _, col := range c.e.Collisions() {
		other, ok := c.env.Entity(col.Other)
		if !ok || other.Kind() == entity.KindProjectile {
			continue
		}
		c.velocity = pushOut(c.e, col, c.velocity)
	}
}

// targetEntity returns the target if it is still in the world.
func (c *EnemyController) targetEntity() (*entity.Entity, bool) {
	t, ok := c.env.Entity(c.target)
	if !ok || t.Expired() {
		return nil, false
	}
	return t, true
}

// sight returns the distance to the target and whether the target is within far range, inside
// the view cone and not hidden behind anything.
func (c *EnemyController) sight() (float32, bool) {
	t, ok := c.targetEntity()
	if !ok {
		return math32.MaxFloat32, false
	}
	pos := c.e.Position()
	toTarget := t.Position().Sub(pos)
	dist := toTarget.Len()
	if dist > c.conf.FarRange {
		return dist, false
	}

	dir, ok := game.SafeNormalize(toTarget)
	if !ok {
		return dist, true
	}
	if math32.Acos(game.ClampFloat(dir.Dot(c.direction), -1, 1)) > c.conf.FieldOfView {
		return dist, false
	}

	hit, ok := c.env.Raycast(pos, dir, dist, func(e *entity.Entity) bool {
		return e.Kind() == c.e.Kind() || e.Kind() == entity.KindProjectile
	})
	return dist, ok && hit.Entity.ID() == c.target
}

func (c *EnemyController) randRange(min, max float32) float32 {
	return min + c.rand.Float32()*(max-min)
}
