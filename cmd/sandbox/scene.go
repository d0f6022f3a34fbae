package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/controller"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/oomph-ac/sandbox/world"
	"github.com/sirupsen/logrus"
)

const packSize = 5

// scene is the demo level and the handles the input script needs.
type scene struct {
	character *controller.CharacterController
	drone     *controller.DroneController
	enemies   []*controller.EnemyController
}

// logAnimator stands in for a mesh: it logs every clip it is asked to play.
type logAnimator struct {
	log  *logrus.Entry
	name string
}

func (a logAnimator) Play(clip, from string, blend float32) error {
	a.log.Debugf("%s plays %q (from %q, blend %.2fs)", a.name, clip, from, blend)
	return nil
}

// logSink stands in for the scene graph decals are drawn by.
type logSink struct {
	log *logrus.Entry
}

func (s logSink) Attach(d entity.Decal) {
	s.log.Debugf("decal on %d at %v", d.Parent, d.Position)
}

func (s logSink) Detach(d entity.Decal) {
	s.log.Debugf("decal on %d at %v faded", d.Parent, d.Position)
}

func newScene(w *world.World, conf settings.Settings, log *logrus.Logger) (*scene, error) {
	l := log.WithField("src", "scene")
	w.SetEphemeralSink(logSink{log: l})

	var add []*entity.Entity
	newEntity := func(cfg entity.Config) (*entity.Entity, error) {
		e, err := entity.New(cfg)
		if err != nil {
			return nil, err
		}
		add = append(add, e)
		return e, nil
	}

	ground, err := newEntity(entity.Config{
		Kind:     entity.KindPlatform,
		Name:     "ground",
		Shape:    hitbox.Box{Width: 80, Height: 1, Depth: 80},
		Position: mgl32.Vec3{0, -0.5, 0},
	})
	if err != nil {
		return nil, err
	}
	controller.NewPlatform(w, ground, conf.Platform, mgl32.Vec3{})

	for i, pos := range []mgl32.Vec3{{-6, 1, 8}, {6, 1, 12}, {0, 1, 24}} {
		if _, err := newEntity(entity.Config{
			Kind:     entity.KindObstacle,
			Name:     fmt.Sprintf("wall-%d", i),
			Shape:    hitbox.Box{Width: 3, Height: 2, Depth: 0.5},
			Position: pos,
			Rotation: mgl32.QuatRotate(float32(i)*0.4, mgl32.Vec3{0, 1, 0}),
		}); err != nil {
			return nil, err
		}
	}

	lift, err := newEntity(entity.Config{
		Kind:     entity.KindMovingPlatform,
		Name:     "lift",
		Shape:    hitbox.Box{Width: 4, Height: 0.5, Depth: 4},
		Position: mgl32.Vec3{12, 0.25, 0},
	})
	if err != nil {
		return nil, err
	}
	controller.NewMovingPlatform(w, lift, conf.Platform, mgl32.Vec3{1, 0, 0}, 4, 0.5)

	char, err := newEntity(entity.Config{
		Kind:     entity.KindCharacter,
		Name:     "character",
		Shape:    hitbox.Cylinder{Radius: 0.5, Height: 2},
		Position: mgl32.Vec3{0, 1, 0},
		Animator: logAnimator{log: l, name: "character"},
	})
	if err != nil {
		return nil, err
	}
	s := &scene{character: controller.NewCharacter(w, char, conf.Character)}

	drone, err := newEntity(entity.Config{
		Kind:     entity.KindDrone,
		Name:     "drone",
		Shape:    hitbox.Box{Width: 0.3, Height: 0.3, Depth: 0.3},
		Position: mgl32.Vec3{0.6, 2.2, 0},
		Owner:    char.ID(),
		Animator: logAnimator{log: l, name: "drone"},
	})
	if err != nil {
		return nil, err
	}
	char.Node().Attach(drone.Node())
	if s.drone, err = controller.NewDrone(w, drone, conf.Drone, conf.Projectile); err != nil {
		return nil, err
	}

	for i := 0; i < packSize; i++ {
		e, err := newEntity(entity.Config{
			Kind:     entity.KindEnemy,
			Name:     fmt.Sprintf("enemy-%d", i),
			Shape:    hitbox.Cylinder{Radius: conf.Enemy.Radius, Height: conf.Enemy.Height},
			Position: mgl32.Vec3{float32(i)*1.5 - 3, conf.Enemy.Height / 2, 18},
			CanBeHit: true,
			Health:   conf.Enemy.Health,
		})
		if err != nil {
			return nil, err
		}
		c, err := controller.NewEnemy(w, e, conf.Enemy, conf.Projectile, char.ID())
		if err != nil {
			return nil, err
		}
		s.enemies = append(s.enemies, c)
	}

	for _, e := range add {
		if err := w.Add(e); err != nil {
			return nil, err
		}
	}
	l.Infof("scene ready with %d entities", w.Len())
	return s, nil
}

// input returns the scripted input at simulated time now.
func (s *scene) input(now float32) input.Snapshot {
	var in input.Snapshot
	switch {
	case now < 3:
		in.Forward = true
	case now < 6:
		in.Forward, in.Run = true, true
	case now < 6.2:
		in.Jump = true
	case now < 8:
		in.MouseDelta = mgl32.Vec2{0.01, 0}
		in.Left = true
	case now < 14:
		in.Primary = true
	case now < 18:
		in.Backward = true
	}

	e := s.character.Entity()
	in.AimOrigin = e.Position().Add(mgl32.Vec3{0, 1, 0})
	in.AimDirection = e.Rotation().Rotate(mgl32.Vec3{0, 0, 1})
	return in
}
