package controller

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
)

// steer sums the boid forces acting on the enemy and folds them into its velocity. It also
// runs the charge timer while the enemy is shooting.
func (c *EnemyController) steer(dt float32, local []*entity.Entity) {
	state := c.fsm.CurrentName()
	target, hasTarget := c.targetEntity()
	if state == StateShoot && hasTarget {
		c.chargeTimer += dt
		if c.chargeTimer >= c.charge {
			c.fire(target.Position().Add(mgl32.Vec3{0, 1, 0}))
			c.chargeTimer = 0
		}
	} else {
		c.chargeTimer = c.charge
	}

	var (
		steering           mgl32.Vec3
		maxSpeed, maxSteer float32
		acc                float32
	)
	if (state == StateAggro || state == StateShoot) && hasTarget {
		steering = c.seek(target.Position().Add(mgl32.Vec3{0, 1, 0}))
		maxSpeed, maxSteer, acc = c.conf.AggroSpeed, c.conf.AggroSteering, c.conf.AggroAcceleration
	} else {
		steering = c.seek(c.origin).Add(c.wander())
		maxSpeed, maxSteer, acc = c.conf.WanderSpeed, c.conf.WanderSteering, c.conf.WanderAcceleration
	}
	steering = steering.Add(c.separation(local))

	flock := make([]*entity.Entity, 0, len(local))
	for _, e := range local {
		if e.Kind() == entity.KindEnemy {
			flock = append(flock, e)
		}
	}
	steering = steering.Add(c.alignment(flock)).Add(c.cohesion(flock)).Add(c.separation(flock))

	steering = game.ClampLength(steering.Mul(acc*dt), maxSteer)
	c.velocity = game.ClampLength(c.velocity.Add(steering), maxSpeed)
	if dir, ok := game.SafeNormalize(c.velocity); ok {
		c.direction = dir
	}
}

// fire shoots a projectile from the enemy towards at.
func (c *EnemyController) fire(at mgl32.Vec3) {
	pos := c.e.Position()
	dir, ok := game.SafeNormalize(at.Sub(pos))
	if !ok {
		return
	}
	Fire(c.env, c.shot, c.e, pos, dir)
}

// seek pulls the enemy towards dest, harder the further away it is. Within three units of
// dest there is no pull at all.
func (c *EnemyController) seek(dest mgl32.Vec3) mgl32.Vec3 {
	diff := dest.Sub(c.e.Position())
	dir, ok := game.SafeNormalize(diff)
	if !ok {
		return mgl32.Vec3{}
	}
	return dir.Mul(10 * math32.Max(0, diff.Len()-3))
}

// wander nudges the heading by a random walk around a point ahead of the enemy.
func (c *EnemyController) wander() mgl32.Vec3 {
	c.wanderAngle += 0.1 * c.randRange(-game.TwoPi, game.TwoPi)
	ahead := mgl32.Vec3{math32.Cos(c.wanderAngle), 0, math32.Sin(c.wanderAngle)}.Add(c.direction.Mul(0.5))
	return game.SetLength(ahead, 3)
}

// separation pushes the enemy away from every neighbour, harder the closer they are. A
// neighbour stacked directly above or below, resting contact included, only adds a small
// vertical correction.
func (c *EnemyController) separation(local []*entity.Entity) mgl32.Vec3 {
	var force mgl32.Vec3
	pos, dims := c.e.Position(), c.e.Dimensions()
	r1, h1 := horizontalRadius(c.e.Shape()), dims.Y()
	for _, e := range local {
		if e.Kind() == entity.KindProjectile || e.Shape() == nil {
			continue
		}
		other := e.Position()
		r2, h2 := horizontalRadius(e.Shape()), e.Dimensions().Y()

		below := pos.Y()+h1/2 <= other.Y()-h2/2+game.ContactSlop
		above := pos.Y()-h1/2 >= other.Y()+h2/2-game.ContactSlop
		if below || above {
			if diff := other.Y() - h2/2 - pos.Y() + h1/2; math32.Abs(diff) < 0.5 {
				force[1] = 10 * diff
			}
			continue
		}

		dir, ok := game.SafeNormalize(pos.Sub(other))
		if !ok {
			continue
		}
		dist := math32.Max(pos.Sub(other).Len()-1.5*(r1+r2), 0.001)
		force = force.Add(dir.Mul(20 / dist * (r1 + r2)))
	}
	return force
}

// alignment turns the enemy towards the average heading of its flock.
func (c *EnemyController) alignment(flock []*entity.Entity) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, e := range flock {
		if ec, ok := e.Controller().(*EnemyController); ok {
			sum = sum.Add(ec.direction)
		}
	}
	return game.SetLength(sum, 10)
}

// cohesion pulls the enemy towards the centre of its flock.
func (c *EnemyController) cohesion(flock []*entity.Entity) mgl32.Vec3 {
	if len(flock) == 0 {
		return mgl32.Vec3{}
	}
	var centre mgl32.Vec3
	for _, e := range flock {
		centre = centre.Add(e.Position())
	}
	centre = centre.Mul(1 / float32(len(flock)))
	return game.SetLength(centre.Sub(c.e.Position()), 10)
}

// horizontalRadius returns the radius a shape takes up on the XZ plane. Boxes use their larger
// horizontal side.
func horizontalRadius(s hitbox.Shape) float32 {
	switch s := s.(type) {
	case hitbox.Cylinder:
		return s.Radius
	case hitbox.Box:
		return math32.Max(s.Width, s.Depth)
	}
	return 0
}
