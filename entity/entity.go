package entity

import (
	"cmp"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/oerror"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
)

// ID is the handle entities are looked up by. Zero is never assigned.
type ID = uint64

// Controller advances an entity once per tick.
type Controller interface {
	Update(dt float32, in input.Snapshot)
}

// Animator selects the animation clip an entity's mesh plays, cross-blending from the clip
// named from over blend seconds. An empty from means no blend.
type Animator interface {
	Play(clip, from string, blend float32) error
}

// Visual receives the rotation an entity's mesh should be drawn with. The mesh may face a
// different way than the entity's transform, e.g. a character turning towards where it walks.
type Visual interface {
	SetVisualRotation(rot mgl32.Quat)
}

// Config is used to construct an Entity.
type Config struct {
	Kind Kind
	Name string
	// Shape is the hitbox of the entity. Entities without a shape never collide.
	Shape    hitbox.Shape
	Position mgl32.Vec3
	// Rotation defaults to the identity rotation.
	Rotation mgl32.Quat

	CanBeHit bool
	Health   int
	// Owner is the entity that created this one, e.g. the shooter of a projectile.
	Owner ID

	Animator Animator
	Visual   Visual
}

var currentID = atomic.NewUint64(0)

// Entity is a simulated object in the world.
type Entity struct {
	id    ID
	kind  Kind
	name  string
	owner ID

	node  *Node
	shape hitbox.Shape

	// collisions are the contacts gathered for the current tick.
	collisions []hitbox.Collision

	expired  bool
	canBeHit bool
	health   int

	controller Controller
	animator   Animator
	visual     Visual
	visualRot  mgl32.Quat
}

// New validates the config and creates a new entity with a unique ID.
func New(cfg Config) (*Entity, error) {
	if !cfg.Kind.Valid() {
		return nil, oerror.New(game.ErrorUnknownKind, cfg.Kind)
	}
	if cfg.Shape != nil {
		if err := cfg.Shape.Validate(); err != nil {
			return nil, oerror.New("entity %q: %v", cfg.Name, err)
		}
	}

	rot := cfg.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	return &Entity{
		id:        currentID.Inc(),
		kind:      cfg.Kind,
		name:      cfg.Name,
		owner:     cfg.Owner,
		node:      NewNode(cfg.Position, rot.Normalize()),
		shape:     cfg.Shape,
		canBeHit:  cfg.CanBeHit,
		health:    cfg.Health,
		animator:  cfg.Animator,
		visual:    cfg.Visual,
		visualRot: rot.Normalize(),
	}, nil
}

func (e *Entity) ID() ID {
	return e.id
}

func (e *Entity) Kind() Kind {
	return e.kind
}

func (e *Entity) Name() string {
	return e.name
}

// Owner returns the entity that created this one, or zero.
func (e *Entity) Owner() ID {
	return e.owner
}

// Node returns the transform of the entity.
func (e *Entity) Node() *Node {
	return e.node
}

// Position returns the world position of the entity.
func (e *Entity) Position() mgl32.Vec3 {
	return e.node.WorldPosition()
}

// Rotation returns the world rotation of the entity.
func (e *Entity) Rotation() mgl32.Quat {
	return e.node.WorldRotation()
}

// Shape returns the hitbox shape of the entity, or nil.
func (e *Entity) Shape() hitbox.Shape {
	return e.shape
}

// Dimensions returns the width, height and depth of the entity's hitbox.
func (e *Entity) Dimensions() mgl32.Vec3 {
	if e.shape == nil {
		return mgl32.Vec3{}
	}
	return e.shape.Dimensions()
}

// Body places the entity's hitbox at its current world transform.
func (e *Entity) Body() hitbox.Body {
	return hitbox.Body{
		Owner:    e.id,
		Shape:    e.shape,
		Position: e.Position(),
		Rotation: e.Rotation(),
	}
}

// Collisions returns the contacts gathered for the current tick.
func (e *Entity) Collisions() []hitbox.Collision {
	return e.collisions
}

// AddCollision records a contact for the current tick.
func (e *Entity) AddCollision(c hitbox.Collision) {
	e.collisions = append(e.collisions, c)
}

// SortCollisions orders the gathered contacts by ascending overlap. Equal overlaps keep the
// order they were gathered in.
func (e *Entity) SortCollisions() {
	slices.SortStableFunc(e.collisions, func(a, b hitbox.Collision) int {
		return cmp.Compare(a.Overlap, b.Overlap)
	})
}

// ClearCollisions drops the contacts of the current tick.
func (e *Entity) ClearCollisions() {
	e.collisions = e.collisions[:0]
}

// Expired returns true once the entity has been scheduled for removal.
func (e *Entity) Expired() bool {
	return e.expired
}

// Expire marks the entity for removal. It returns false if the entity had already expired.
func (e *Entity) Expire() bool {
	if e.expired {
		return false
	}
	e.expired = true
	return true
}

func (e *Entity) CanBeHit() bool {
	return e.canBeHit
}

func (e *Entity) SetCanBeHit(v bool) {
	e.canBeHit = v
}

func (e *Entity) Health() int {
	return e.health
}

// Damage lowers the health of the entity and returns what is left.
func (e *Entity) Damage(amount int) int {
	e.health = max(0, e.health-amount)
	return e.health
}

func (e *Entity) Controller() Controller {
	return e.controller
}

func (e *Entity) SetController(c Controller) {
	e.controller = c
}

// PlayAnimation forwards a clip change to the entity's animator. Entities without an animator
// accept every clip.
func (e *Entity) PlayAnimation(clip, from string, blend float32) error {
	if e.animator == nil {
		return nil
	}
	return e.animator.Play(clip, from, blend)
}

// VisualRotation returns the last rotation set for the entity's mesh.
func (e *Entity) VisualRotation() mgl32.Quat {
	return e.visualRot
}

// SetVisualRotation updates the rotation of the entity's mesh.
func (e *Entity) SetVisualRotation(rot mgl32.Quat) {
	e.visualRot = rot
	if e.visual != nil {
		e.visual.SetVisualRotation(rot)
	}
}
