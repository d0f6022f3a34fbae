package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxFromDimensions returns the axis-aligned box of the given width, height and depth centred on pos.
func BoxFromDimensions(pos, dimensions mgl32.Vec3) cube.BBox {
	h := dimensions.Mul(0.5)
	return cube.Box(
		pos.X()-h.X(), pos.Y()-h.Y(), pos.Z()-h.Z(),
		pos.X()+h.X(), pos.Y()+h.Y(), pos.Z()+h.Z(),
	)
}

// SegmentBox returns the axis-aligned box spanned by a segment.
func SegmentBox(start, end mgl32.Vec3) cube.BBox {
	return cube.Box(
		math32.Min(start.X(), end.X()), math32.Min(start.Y(), end.Y()), math32.Min(start.Z(), end.Z()),
		math32.Max(start.X(), end.X()), math32.Max(start.Y(), end.Y()), math32.Max(start.Z(), end.Z()),
	)
}

// ClampToHalfExtents returns the point inside a box centred on the origin closest to p.
func ClampToHalfExtents(p, half mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		ClampFloat(p.X(), -half.X(), half.X()),
		ClampFloat(p.Y(), -half.Y(), half.Y()),
		ClampFloat(p.Z(), -half.Z(), half.Z()),
	}
}

// BoxFaceNormal returns the outward normal of the face of a box centred on the origin that
// the point p lies closest to.
func BoxFaceNormal(half, p mgl32.Vec3) mgl32.Vec3 {
	best, axis := float32(-1), 0
	for i := 0; i < 3; i++ {
		if half[i] <= Epsilon {
			continue
		}
		if d := math32.Abs(p[i]) / half[i]; d > best {
			best, axis = d, i
		}
	}

	var n mgl32.Vec3
	n[axis] = Sign(p[axis])
	return n
}
