package hitbox

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/game"
)

// Body is a shape placed in the world for a single narrow-phase test.
type Body struct {
	// Owner is the handle of the entity that owns the shape.
	Owner    uint64
	Shape    Shape
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func (b Body) toLocal(p mgl32.Vec3) mgl32.Vec3 {
	return game.ToLocal(b.Position, b.Rotation, p)
}

func (b Body) toWorld(p mgl32.Vec3) mgl32.Vec3 {
	return game.ToWorld(b.Position, b.Rotation, p)
}

func (b Body) dirToLocal(v mgl32.Vec3) mgl32.Vec3 {
	return b.Rotation.Conjugate().Rotate(v)
}

func (b Body) dirToWorld(v mgl32.Vec3) mgl32.Vec3 {
	return b.Rotation.Rotate(v)
}

// Collision is a contact between two bodies, expressed in the local frame of the body it was
// computed for.
type Collision struct {
	// Other is the owner of the other body.
	Other uint64
	// ContactPoint is the approximate point of contact.
	ContactPoint mgl32.Vec3
	// Normal points away from the other body.
	Normal mgl32.Vec3
	// Overlap is the distance the body has to move along Normal to stop penetrating. It is never
	// negative.
	Overlap float32
}

// Collide runs the narrow-phase test of a against b and returns the contact as seen from a.
func Collide(a, b Body) (Collision, bool) {
	if a.Shape == nil || b.Shape == nil || a.Owner == b.Owner {
		return Collision{}, false
	}

	switch sa := a.Shape.(type) {
	case Cylinder:
		switch sb := b.Shape.(type) {
		case Cylinder:
			return cylinderCylinder(a, sa, b, sb)
		case Box:
			return cylinderBox(a, sa, b, sb)
		}
	case Box:
		switch sb := b.Shape.(type) {
		case Cylinder:
			return boxCylinder(a, sa, b, sb)
		case Box:
			return boxBox(a, sa, b, sb)
		}
	}
	return Collision{}, false
}

// cylinderCylinder works in a's frame. The vertical overlap is the smaller push needed to
// separate the two height intervals, and the horizontal one is the depth of the two discs along
// the line between the axes.
func cylinderCylinder(a Body, ca Cylinder, b Body, cb Cylinder) (Collision, bool) {
	p := a.toLocal(b.Position)
	up := p.Y() + cb.Height/2 + ca.Height/2
	down := ca.Height/2 - (p.Y() - cb.Height/2)
	if math32.Min(up, down) < -game.ContactSlop {
		return Collision{}, false
	}

	xz := mgl32.Vec2{p.X(), p.Z()}
	dist := xz.Len()
	if dist > ca.Radius+cb.Radius {
		return Collision{}, false
	}
	var dir mgl32.Vec2
	if dist > game.Epsilon {
		dir = xz.Mul(1 / dist)
	}

	overlapY, normalY := down, float32(-1)
	if up < down || (up == down && p.Y() < 0) {
		overlapY, normalY = up, 1
	}
	overlapXZ := ca.Radius + cb.Radius - dist

	// The height on b's axis closest to a's centre.
	y := math32.Max(p.Y()-cb.Height/2, math32.Min(0, p.Y()+cb.Height/2))
	hit := dir.Mul(ca.Radius)
	c := Collision{Other: b.Owner, ContactPoint: mgl32.Vec3{hit.X(), y, hit.Y()}}
	if overlapY < overlapXZ || dist <= game.Epsilon {
		c.Normal = mgl32.Vec3{0, normalY, 0}
		c.Overlap = overlapY
	} else {
		c.Normal = mgl32.Vec3{-dir.X(), 0, -dir.Y()}
		c.Overlap = overlapXZ
	}
	c.Overlap = math32.Max(0, c.Overlap)
	return c, true
}

// cylinderBox works in b's frame: the cylinder's centre is clamped into the box to find the
// closest point, which is then tested against the cylinder. The result is rotated back into a's
// frame.
func cylinderBox(a Body, ca Cylinder, b Body, cb Box) (Collision, bool) {
	p := b.toLocal(a.Position)
	closest := game.ClampToHalfExtents(p, cb.HalfExtents())
	d := closest.Sub(p)

	hzSqr := game.Vec3HzDistSqr(d)
	if math32.Abs(d.Y()) > ca.Height/2+game.ContactSlop || hzSqr >= ca.Radius*ca.Radius {
		return Collision{}, false
	}

	hz := math32.Sqrt(hzSqr)
	overlapY := ca.Height/2 - math32.Abs(d.Y())
	overlapXZ := ca.Radius - hz

	var normal mgl32.Vec3
	var overlap float32
	if overlapY < overlapXZ || hz <= game.Epsilon {
		normal = mgl32.Vec3{0, -game.Sign(d.Y()), 0}
		overlap = overlapY
	} else {
		normal = mgl32.Vec3{-d.X() / hz, 0, -d.Z() / hz}
		overlap = overlapXZ
	}

	return Collision{
		Other:        b.Owner,
		ContactPoint: a.toLocal(b.toWorld(closest)),
		Normal:       a.dirToLocal(b.dirToWorld(normal)),
		Overlap:      math32.Max(0, overlap),
	}, true
}

// boxCylinder solves the pair from the cylinder's side and reflects the contact into a's frame.
func boxCylinder(a Body, ca Box, b Body, cb Cylinder) (Collision, bool) {
	c, ok := cylinderBox(b, cb, a, ca)
	if !ok {
		return Collision{}, false
	}
	return Collision{
		Other:        b.Owner,
		ContactPoint: a.toLocal(b.toWorld(c.ContactPoint)),
		Normal:       a.dirToLocal(b.dirToWorld(c.Normal.Mul(-1))),
		Overlap:      c.Overlap,
	}, true
}

// footprint projects the bottom face corners of body into the frame of other and returns the
// X/Z range they cover.
func footprint(body Body, half mgl32.Vec3, other Body) (min, max mgl32.Vec2) {
	min = mgl32.Vec2{math32.MaxFloat32, math32.MaxFloat32}
	max = mgl32.Vec2{-math32.MaxFloat32, -math32.MaxFloat32}
	for _, corner := range [4]mgl32.Vec3{
		{-half.X(), -half.Y(), -half.Z()},
		{half.X(), -half.Y(), -half.Z()},
		{-half.X(), -half.Y(), half.Z()},
		{half.X(), -half.Y(), half.Z()},
	} {
		p := other.toLocal(body.toWorld(corner))
		min[0], min[1] = math32.Min(min[0], p.X()), math32.Min(min[1], p.Z())
		max[0], max[1] = math32.Max(max[0], p.X()), math32.Max(max[1], p.Z())
	}
	return min, max
}

func footprintOverlaps(min, max mgl32.Vec2, half mgl32.Vec3) bool {
	return min.X() < half.X() && min.Y() < half.Z() && max.X() > -half.X() && max.Y() > -half.Z()
}

// boxBox checks the vertical interval in world space, then the horizontal footprints of both
// boxes in each other's frame, and picks the axis of least overlap among both boxes' axes. The
// contact point is only an approximation: the normal scaled by a's largest half extent.
func boxBox(a Body, ca Box, b Body, cb Box) (Collision, bool) {
	ha, hb := ca.HalfExtents(), cb.HalfExtents()
	aBottom, aTop := a.Position.Y()-ha.Y(), a.Position.Y()+ha.Y()
	bBottom, bTop := b.Position.Y()-hb.Y(), b.Position.Y()+hb.Y()
	if bBottom > aTop || bTop < aBottom {
		return Collision{}, false
	}

	minB, maxB := footprint(b, hb, a)
	if !footprintOverlaps(minB, maxB, ha) {
		return Collision{}, false
	}
	minA, maxA := footprint(a, ha, b)
	if !footprintOverlaps(minA, maxA, hb) {
		return Collision{}, false
	}

	overlap, normal := bTop-aBottom, mgl32.Vec3{0, 1, 0}
	if o := aTop - bBottom; o < overlap {
		overlap, normal = o, mgl32.Vec3{0, -1, 0}
	}
	for _, axis := range [8]struct {
		overlap float32
		normal  mgl32.Vec3
	}{
		// b's axes, with a's footprint in b's frame.
		{maxA.X() + hb.X(), b.dirToWorld(mgl32.Vec3{-1, 0, 0})},
		{hb.X() - minA.X(), b.dirToWorld(mgl32.Vec3{1, 0, 0})},
		{maxA.Y() + hb.Z(), b.dirToWorld(mgl32.Vec3{0, 0, -1})},
		{hb.Z() - minA.Y(), b.dirToWorld(mgl32.Vec3{0, 0, 1})},
		// a's own axes, with b's footprint in a's frame.
		{ha.X() - minB.X(), a.dirToWorld(mgl32.Vec3{-1, 0, 0})},
		{maxB.X() + ha.X(), a.dirToWorld(mgl32.Vec3{1, 0, 0})},
		{ha.Z() - minB.Y(), a.dirToWorld(mgl32.Vec3{0, 0, -1})},
		{maxB.Y() + ha.Z(), a.dirToWorld(mgl32.Vec3{0, 0, 1})},
	} {
		if axis.overlap < overlap {
			overlap, normal = axis.overlap, axis.normal
		}
	}
	if overlap <= 0 {
		return Collision{}, false
	}

	n := a.dirToLocal(normal)
	return Collision{
		Other:        b.Owner,
		ContactPoint: n.Mul(game.MaxComponent(ha)),
		Normal:       n,
		Overlap:      overlap,
	}, true
}
