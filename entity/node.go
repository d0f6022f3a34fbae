package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/slices"
)

// Node is a minimal transform hierarchy: a local position and rotation relative to an optional
// parent. Nodes without a parent are in world space.
type Node struct {
	position mgl32.Vec3
	rotation mgl32.Quat

	parent   *Node
	children []*Node
}

// NewNode creates a root node at the given world transform.
func NewNode(position mgl32.Vec3, rotation mgl32.Quat) *Node {
	return &Node{position: position, rotation: rotation}
}

// Parent returns the node this node is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the nodes attached to this node.
func (n *Node) Children() []*Node {
	return n.children
}

// LocalPosition returns the position relative to the parent.
func (n *Node) LocalPosition() mgl32.Vec3 {
	return n.position
}

// SetLocalPosition sets the position relative to the parent.
func (n *Node) SetLocalPosition(pos mgl32.Vec3) {
	n.position = pos
}

// LocalRotation returns the rotation relative to the parent.
func (n *Node) LocalRotation() mgl32.Quat {
	return n.rotation
}

// SetLocalRotation sets the rotation relative to the parent.
func (n *Node) SetLocalRotation(rot mgl32.Quat) {
	n.rotation = rot.Normalize()
}

// WorldPosition returns the accumulated world-space position.
func (n *Node) WorldPosition() mgl32.Vec3 {
	if n.parent == nil {
		return n.position
	}
	return n.parent.WorldRotation().Rotate(n.position).Add(n.parent.WorldPosition())
}

// WorldRotation returns the accumulated world-space rotation.
func (n *Node) WorldRotation() mgl32.Quat {
	if n.parent == nil {
		return n.rotation
	}
	return n.parent.WorldRotation().Mul(n.rotation)
}

// TranslateOnAxis moves the node distance units along axis, where axis is expressed in the
// node's own rotated frame.
func (n *Node) TranslateOnAxis(axis mgl32.Vec3, distance float32) {
	n.position = n.position.Add(n.rotation.Rotate(axis).Mul(distance))
}

// Attach reparents child onto n, keeping the child's world transform. Attaching an ancestor of
// n is ignored.
func (n *Node) Attach(child *Node) {
	if child == nil || child == n || child.parent == n || child.isAncestorOf(n) {
		return
	}
	pos, rot := child.WorldPosition(), child.WorldRotation()
	if child.parent != nil {
		child.parent.Detach(child)
	}

	inv := n.WorldRotation().Conjugate()
	child.position = inv.Rotate(pos.Sub(n.WorldPosition()))
	child.rotation = inv.Mul(rot).Normalize()
	child.parent = n
	n.children = append(n.children, child)
}

// Detach removes child from n and places it in world space, keeping its world transform.
func (n *Node) Detach(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	pos, rot := child.WorldPosition(), child.WorldRotation()
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = nil
	child.position = pos
	child.rotation = rot
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
