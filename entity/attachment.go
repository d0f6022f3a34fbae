package entity

import "github.com/go-gl/mathgl/mgl32"

// RayHit is the nearest entity hit by a ray, in world space.
type RayHit struct {
	Entity   *Entity
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// Decal is a short-lived mark left on an entity, such as a bullet hole. Position and Normal are
// relative to the parent's transform so the decal follows a moving parent.
type Decal struct {
	Parent   ID
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Size     float32
	// Created is the world time the decal was added at.
	Created float32
}
