package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// RayResult is a ray hit expressed in the frame the ray was given in.
type RayResult struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// RayBoxIntercept intersects the segment start->end with a box centred on the origin.
func RayBoxIntercept(half, start, end mgl32.Vec3) (RayResult, bool) {
	bb := cube.Box(-half.X(), -half.Y(), -half.Z(), half.X(), half.Y(), half.Z())
	res, ok := trace.BBoxIntercept(bb, start, end)
	if !ok {
		return RayResult{}, false
	}

	p := res.Position()
	return RayResult{
		Point:    p,
		Normal:   BoxFaceNormal(half, p),
		Distance: p.Sub(start).Len(),
	}, true
}

// RayCylinderIntercept intersects the segment start->end with an upright cylinder centred on
// the origin. Segments starting inside the cylinder do not hit it.
func RayCylinderIntercept(radius, height float32, start, end mgl32.Vec3) (RayResult, bool) {
	d := end.Sub(start)
	halfHeight := height / 2
	best, hit := float32(2), false
	var normal mgl32.Vec3

	// Curved side.
	a := d.X()*d.X() + d.Z()*d.Z()
	if a > Epsilon {
		b := 2 * (start.X()*d.X() + start.Z()*d.Z())
		c := start.X()*start.X() + start.Z()*start.Z() - radius*radius
		if disc := b*b - 4*a*c; disc >= 0 {
			t := (-b - math32.Sqrt(disc)) / (2 * a)
			if t >= 0 && t <= 1 {
				if y := start.Y() + d.Y()*t; math32.Abs(y) <= halfHeight {
					p := start.Add(d.Mul(t))
					best, hit = t, true
					normal = mgl32.Vec3{p.X() / radius, 0, p.Z() / radius}
				}
			}
		}
	}

	// Caps.
	if math32.Abs(d.Y()) > Epsilon {
		for _, capY := range [2]float32{halfHeight, -halfHeight} {
			if Sign(start.Y()-capY) != Sign(capY) {
				// The segment starts on the inner side of this cap.
				continue
			}
			t := (capY - start.Y()) / d.Y()
			if t < 0 || t > 1 || t >= best {
				continue
			}
			p := start.Add(d.Mul(t))
			if p.X()*p.X()+p.Z()*p.Z() <= radius*radius {
				best, hit = t, true
				normal = mgl32.Vec3{0, Sign(capY), 0}
			}
		}
	}

	if !hit {
		return RayResult{}, false
	}
	p := start.Add(d.Mul(best))
	return RayResult{Point: p, Normal: normal, Distance: p.Sub(start).Len()}, true
}
