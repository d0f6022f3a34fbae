package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/settings"
)

// ProjectileController flies a projectile in a straight line until it hits something or its
// lifetime runs out.
type ProjectileController struct {
	env  Env
	e    *entity.Entity
	conf settings.Projectile
	dir  mgl32.Vec3

	// ownerKind is kept so the projectile still passes through the shooter's kind after the
	// shooter itself is gone.
	ownerKind entity.Kind
	ignore    [2]entity.ID
	time      float32
}

// NewProjectile creates a projectile shot by owner from origin along dir. The caller adds it to
// the world.
func NewProjectile(env Env, conf settings.Projectile, owner *entity.Entity, origin, dir mgl32.Vec3) (*ProjectileController, error) {
	e, err := entity.New(entity.Config{
		Kind:     entity.KindProjectile,
		Name:     owner.Name() + "/projectile",
		Shape:    hitbox.Cylinder{Radius: conf.Radius, Height: conf.Length},
		Position: origin,
		Owner:    owner.ID(),
	})
	if err != nil {
		return nil, err
	}
	dir, _ = game.SafeNormalize(dir)

	c := &ProjectileController{
		env:       env,
		e:         e,
		conf:      conf,
		dir:       dir,
		ownerKind: owner.Kind(),
		ignore:    [2]entity.ID{owner.ID(), owner.Owner()},
	}
	e.SetController(c)
	return c, nil
}

// Fire creates a projectile and spawns it into env. Failures are reported to the debugger.
func Fire(env Env, conf settings.Projectile, owner *entity.Entity, origin, dir mgl32.Vec3) (*entity.Entity, bool) {
	c, err := NewProjectile(env, conf, owner, origin, dir)
	if err != nil {
		env.Debugger().Notify(dbg.ModeController, true, "%s %d failed to fire: %v", owner.Kind(), owner.ID(), err)
		return nil, false
	}
	env.Spawn(c.e)
	return c.e, true
}

// Entity returns the projectile entity.
func (c *ProjectileController) Entity() *entity.Entity {
	return c.e
}

// Direction returns the unit direction the projectile flies in.
func (c *ProjectileController) Direction() mgl32.Vec3 {
	return c.dir
}

// Update destroys the projectile on its first valid hit or once its lifetime is over, and moves
// it along its direction otherwise.
func (c *ProjectileController) Update(dt float32, _ input.Snapshot) {
	if c.e.Expired() {
		return
	}
	c.time += dt
	if c.hit() || c.time >= c.conf.Lifetime {
		c.env.Destroy(c.e)
		return
	}

	n := c.e.Node()
	n.SetLocalPosition(n.LocalPosition().Add(c.dir.Mul(c.conf.Speed * dt)))
}

// ignores returns true for entities the projectile passes through: its shooter, other
// projectiles and anything of the shooter's kind.
func (c *ProjectileController) ignores(e *entity.Entity) bool {
	id := e.ID()
	return id == c.ignore[0] || (c.ignore[1] != 0 && id == c.ignore[1]) ||
		e.Kind() == entity.KindProjectile || e.Kind() == c.ownerKind
}

// hit handles the first valid contact, smallest overlap first. It returns false if there was
// none.
func (c *ProjectileController) hit() bool {
	for _, col := range c.e.Collisions() {
		other, ok := c.env.Entity(col.Other)
		if !ok || c.ignores(other) {
			continue
		}

		switch {
		case other.Kind() == entity.KindEnemy:
			if ec, ok := other.Controller().(*EnemyController); ok {
				ec.ReceiveHit(c.e.Owner(), c.conf.Damage)
			}
		case other.Kind().Scenery():
			c.leaveDecal(other, col)
		}
		return true
	}
	return false
}

// leaveDecal casts a ray from just outside the contact back into other and marks the point it
// hits. The decal is kept relative to other so it follows it around.
func (c *ProjectileController) leaveDecal(other *entity.Entity, col hitbox.Collision) {
	rot := c.e.Rotation()
	normal := rot.Rotate(col.Normal)
	back := col.Overlap + c.conf.Length + c.conf.Radius
	origin := c.e.Position().Add(normal.Mul(back))

	hit, ok := c.env.RaycastEntity(other, origin, normal.Mul(-1), 2*back+game.ContactSlop)
	if !ok {
		c.env.Debugger().Notify(dbg.ModeController, true, "projectile %d found no surface on %s %d", c.e.ID(), other.Kind(), other.ID())
		return
	}

	pos, otherRot := other.Position(), other.Rotation()
	c.env.AddEphemeral(entity.Decal{
		Parent:   other.ID(),
		Position: game.ToLocal(pos, otherRot, hit.Point),
		Normal:   otherRot.Conjugate().Rotate(hit.Normal),
		Size:     c.conf.DecalSize,
	})
}
