// Package controller holds the per-kind update logic of every simulated entity. Controllers
// only ever change their own entity; effects on other entities go through Env or through
// explicit calls such as EnemyController.ReceiveHit.
package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/hitbox"
)

// Env is the part of the world a controller may use during a tick.
type Env interface {
	// Now returns the simulated time in seconds.
	Now() float32
	Entity(id entity.ID) (*entity.Entity, bool)
	FindNear(center, halfExtents mgl32.Vec2) []*entity.Entity
	Raycast(origin, dir mgl32.Vec3, maxDist float32, skip func(*entity.Entity) bool) (entity.RayHit, bool)
	RaycastEntity(e *entity.Entity, origin, dir mgl32.Vec3, maxDist float32) (entity.RayHit, bool)

	// Spawn adds an entity once the current tick ends.
	Spawn(e *entity.Entity)
	// Destroy schedules an entity for removal at the end of the current tick.
	Destroy(e *entity.Entity)
	AddEphemeral(d entity.Decal)

	Attach(parent, child *entity.Entity)
	Detach(child *entity.Entity)

	Debugger() *dbg.Debugger
}

// pushOut moves e out of a contact and strips the part of velocity pointing into it. The
// velocity is expressed in the same frame as the contact normal.
func pushOut(e *entity.Entity, c hitbox.Collision, velocity mgl32.Vec3) mgl32.Vec3 {
	e.Node().TranslateOnAxis(c.Normal, c.Overlap)
	return velocity.Sub(c.Normal.Mul(velocity.Dot(c.Normal)))
}

// playClip asks the entity's animator for the clip of a state. A clip that fails to play is
// skipped, the simulation carries on without it.
func playClip(env Env, e *entity.Entity, clip, from string, blend float32) {
	if err := e.PlayAnimation(clip, from, blend); err != nil {
		env.Debugger().Notify(dbg.ModeController, true, "%s %d skipped clip %q: %v", e.Kind(), e.ID(), clip, err)
	}
}
