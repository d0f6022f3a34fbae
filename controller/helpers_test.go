package controller

import (
	"fmt"
	"io"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/oomph-ac/sandbox/world"
	"github.com/sirupsen/logrus"
)

var _ Env = (*world.World)(nil)

const tickRate = float32(1) / 60

func newTestWorld(t *testing.T) (*world.World, settings.Settings) {
	conf := settings.DefaultSettings()
	conf.World.MinX, conf.World.MinZ = -200, -200
	conf.World.MaxX, conf.World.MaxZ = 200, 200
	conf.World.CellsX, conf.World.CellsZ = 40, 40
	return newWorldWith(t, conf), conf
}

func newWorldWith(t *testing.T, conf settings.Settings) *world.World {
	log := logrus.New()
	log.SetOutput(io.Discard)
	w, err := world.New(conf, log)
	if err != nil {
		t.Fatalf("unexpected error creating world: %v", err)
	}
	return w
}

func newTestEntity(t *testing.T, cfg entity.Config) *entity.Entity {
	e, err := entity.New(cfg)
	if err != nil {
		t.Fatalf("unexpected error creating %s: %v", cfg.Kind, err)
	}
	return e
}

func addEntities(t *testing.T, w *world.World, entities ...*entity.Entity) {
	for _, e := range entities {
		if err := w.Add(e); err != nil {
			t.Fatalf("unexpected error adding %s: %v", e.Kind(), err)
		}
	}
}

// newGround creates a 40x1x40 platform whose top face is at y=0.
func newGround(t *testing.T, w *world.World, conf settings.Settings) *entity.Entity {
	ground := newTestEntity(t, entity.Config{
		Kind:     entity.KindPlatform,
		Name:     "ground",
		Shape:    hitbox.Box{Width: 40, Height: 1, Depth: 40},
		Position: mgl32.Vec3{0, -0.5, 0},
	})
	NewPlatform(w, ground, conf.Platform, mgl32.Vec3{})
	return ground
}

// newCharacterEntity creates a character standing with its feet at pos.
func newCharacterEntity(t *testing.T, pos mgl32.Vec3, animator entity.Animator) *entity.Entity {
	return newTestEntity(t, entity.Config{
		Kind:     entity.KindCharacter,
		Name:     "character",
		Shape:    hitbox.Cylinder{Radius: 0.5, Height: 2},
		Position: pos.Add(mgl32.Vec3{0, 1, 0}),
		Animator: animator,
	})
}

// countingEnv counts the entities destroyed through it.
type countingEnv struct {
	*world.World
	destroyed map[entity.ID]int
}

func newCountingEnv(w *world.World) *countingEnv {
	return &countingEnv{World: w, destroyed: make(map[entity.ID]int)}
}

func (c *countingEnv) Destroy(e *entity.Entity) {
	c.destroyed[e.ID()]++
	c.World.Destroy(e)
}

// recordingAnimator records every clip change. Clips listed in missing fail to play.
type recordingAnimator struct {
	plays   []string
	missing map[string]bool
}

func (a *recordingAnimator) Play(clip, from string, blend float32) error {
	if a.missing[clip] {
		return fmt.Errorf("clip %q is not loaded", clip)
	}
	a.plays = append(a.plays, fmt.Sprintf("%s<-%s@%.1f", clip, from, blend))
	return nil
}

// recordingSink records the decals attached to and detached from the scene.
type recordingSink struct {
	attached, detached []entity.Decal
}

func (s *recordingSink) Attach(d entity.Decal) {
	s.attached = append(s.attached, d)
}

func (s *recordingSink) Detach(d entity.Decal) {
	s.detached = append(s.detached, d)
}

func approxEqual(a, b, threshold float32) bool {
	return math32.Abs(a-b) <= threshold
}
