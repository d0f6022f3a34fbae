package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
)

// Raycast returns the nearest entity hit by the ray from origin along dir, up to maxDist away.
// Entities for which skip returns true are ignored.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32, skip func(*entity.Entity) bool) (entity.RayHit, bool) {
	dir, ok := game.SafeNormalize(dir)
	if !ok || maxDist <= 0 {
		return entity.RayHit{}, false
	}

	bb := game.SegmentBox(origin, origin.Add(dir.Mul(maxDist)))
	center := game.Vec3Hz(bb.Min().Add(bb.Max()).Mul(0.5))
	half := game.Vec3Hz(bb.Max().Sub(bb.Min()).Mul(0.5))

	var (
		best  entity.RayHit
		found bool
	)
	for _, e := range w.grid.FindNear(center, half) {
		if e.Expired() || e.Shape() == nil || (skip != nil && skip(e)) {
			continue
		}
		if hit, ok := w.RaycastEntity(e, origin, dir, maxDist); ok && (!found || hit.Distance < best.Distance) {
			best, found = hit, true
		}
	}
	return best, found
}

// RaycastEntity intersects the ray from origin along dir with a single entity's hitbox.
func (w *World) RaycastEntity(e *entity.Entity, origin, dir mgl32.Vec3, maxDist float32) (entity.RayHit, bool) {
	dir, ok := game.SafeNormalize(dir)
	if !ok {
		return entity.RayHit{}, false
	}
	pos, rot := e.Position(), e.Rotation()
	start := game.ToLocal(pos, rot, origin)
	end := game.ToLocal(pos, rot, origin.Add(dir.Mul(maxDist)))

	var res game.RayResult
	switch s := e.Shape().(type) {
	case hitbox.Cylinder:
		res, ok = game.RayCylinderIntercept(s.Radius, s.Height, start, end)
	case hitbox.Box:
		res, ok = game.RayBoxIntercept(s.HalfExtents(), start, end)
	default:
		return entity.RayHit{}, false
	}
	if !ok {
		return entity.RayHit{}, false
	}
	return entity.RayHit{
		Entity:   e,
		Point:    game.ToWorld(pos, rot, res.Point),
		Normal:   rot.Rotate(res.Normal),
		Distance: res.Distance,
	}, true
}
