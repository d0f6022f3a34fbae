package world

import (
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
)

// Tick advances the world by dt seconds.
//
// Collisions are gathered for every entity before any controller runs, so no controller sees
// a contact that another controller already resolved this tick. Entities removed or created
// by controllers only leave or join the grid once every controller has run.
func (w *World) Tick(dt float32, in input.Snapshot) {
	w.Lock()
	defer w.Unlock()

	w.tick++
	w.now += dt
	w.ticking = true

	for _, d := range w.ephemerals.Expire(w.now) {
		if w.sink != nil {
			w.sink.Detach(d)
		}
	}

	min, max := w.grid.Bounds()
	live := w.grid.FindNear(min.Add(max).Mul(0.5), max.Sub(min).Mul(0.5))
	for _, e := range live {
		w.gather(e)
	}
	for _, e := range live {
		w.resolve(e, dt, in)
	}
	w.ticking = false

	for _, e := range w.deleted {
		w.remove(e)
	}
	w.deleted = w.deleted[:0]
	for _, e := range w.spawned {
		if !e.Expired() {
			w.insert(e)
		}
	}
	w.spawned = w.spawned[:0]

	if w.recorder != nil {
		w.recorder.Record(w.frame())
	}
}

// gather runs the narrow phase of e against every entity sharing a grid cell with it.
func (w *World) gather(e *entity.Entity) {
	if e.Shape() == nil || e.Expired() {
		return
	}
	body := e.Body()
	for _, other := range w.grid.FindNear(game.Vec3Hz(body.Position), game.Vec3Hz(e.Dimensions().Mul(0.5))) {
		if other == e || other.Shape() == nil || other.Expired() {
			continue
		}
		if c, ok := hitbox.Collide(body, other.Body()); ok {
			e.AddCollision(c)
			w.dbg.Notify(dbg.ModeCollisions, true, "%s %d hit %s %d: normal=%v overlap=%.4f", e.Kind(), e.ID(), other.Kind(), other.ID(), c.Normal, c.Overlap)
		}
	}
}

// resolve runs the controller of e over its gathered collisions and re-indexes it.
func (w *World) resolve(e *entity.Entity, dt float32, in input.Snapshot) {
	defer e.ClearCollisions()
	if e.Expired() {
		return
	}

	e.SortCollisions()
	if c := e.Controller(); c != nil {
		c.Update(dt, in)
	}
	if r, ok := w.entities.Get(e.ID()); ok && w.grid.Update(r.client) {
		from, to := w.grid.Cells(r.client)
		w.dbg.Notify(dbg.ModeGrid, true, "%s %d moved to cells %v..%v", e.Kind(), e.ID(), from, to)
	}
}
