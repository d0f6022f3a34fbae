package hitbox

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/oerror"
)

// Shape is the geometry of a hitbox. It is implemented by Cylinder and Box only.
type Shape interface {
	// Dimensions returns the width, height and depth spanned by the shape.
	Dimensions() mgl32.Vec3
	// Validate returns an error if the shape has non-positive dimensions.
	Validate() error

	shape()
}

// Cylinder is an upright cylinder centred on its owner's position.
type Cylinder struct {
	Radius float32
	Height float32
}

func (c Cylinder) Dimensions() mgl32.Vec3 {
	return mgl32.Vec3{c.Radius * 2, c.Height, c.Radius * 2}
}

func (c Cylinder) Validate() error {
	if c.Radius <= 0 || c.Height <= 0 {
		return oerror.New(game.ErrorInvalidShape, "cylinder", c)
	}
	return nil
}

func (Cylinder) shape() {}

// Box is an oriented box centred on its owner's position.
type Box struct {
	Width  float32
	Height float32
	Depth  float32
}

func (b Box) Dimensions() mgl32.Vec3 {
	return mgl32.Vec3{b.Width, b.Height, b.Depth}
}

// HalfExtents returns half of the box's dimensions.
func (b Box) HalfExtents() mgl32.Vec3 {
	return b.Dimensions().Mul(0.5)
}

func (b Box) Validate() error {
	if b.Width <= 0 || b.Height <= 0 || b.Depth <= 0 {
		return oerror.New(game.ErrorInvalidShape, "box", b)
	}
	return nil
}

func (Box) shape() {}
