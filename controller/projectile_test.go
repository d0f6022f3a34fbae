package controller

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
)

func newShooter(t *testing.T, kind entity.Kind) *entity.Entity {
	return newTestEntity(t, entity.Config{Kind: kind, Name: "shooter", Position: mgl32.Vec3{0, 100, 0}})
}

func TestProjectileLifetime(t *testing.T) {
	w, conf := newTestWorld(t)
	env := newCountingEnv(w)
	p, err := NewProjectile(env, conf.Projectile, newShooter(t, entity.KindDrone), mgl32.Vec3{-150, 1, 0}, mgl32.Vec3{1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error creating projectile: %v", err)
	}
	addEntities(t, w, p.Entity())
	id := p.Entity().ID()

	for i := 1; i <= 25; i++ {
		w.Tick(0.5, input.Snapshot{})
		switch {
		case i < 20 && env.destroyed[id] != 0:
			t.Fatalf("expected projectile to live for %vs, destroyed at %vs", conf.Projectile.Lifetime, w.Now())
		case i >= 20 && env.destroyed[id] != 1:
			t.Fatalf("expected projectile to be destroyed exactly once by %vs, got %d", w.Now(), env.destroyed[id])
		}
	}
	if _, ok := w.Entity(id); ok {
		t.Fatalf("expected projectile to leave the world")
	}

	expected := float32(-150) + conf.Projectile.Speed*0.5*19
	if x := p.Entity().Position().X(); !approxEqual(x, expected, 1e-2) {
		t.Fatalf("expected projectile to stop at x=%v, got %v", expected, x)
	}
}

func TestProjectileLeavesDecal(t *testing.T) {
	w, conf := newTestWorld(t)
	sink := &recordingSink{}
	w.SetEphemeralSink(sink)

	wall := newTestEntity(t, entity.Config{
		Kind:     entity.KindObstacle,
		Shape:    hitbox.Box{Width: 1, Height: 4, Depth: 10},
		Position: mgl32.Vec3{3, 1, 0},
	})
	p, err := NewProjectile(w, conf.Projectile, newShooter(t, entity.KindDrone), mgl32.Vec3{2.47, 1, 0}, mgl32.Vec3{1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error creating projectile: %v", err)
	}
	addEntities(t, w, wall, p.Entity())

	w.Tick(tickRate, input.Snapshot{})
	if !p.Entity().Expired() {
		t.Fatalf("expected projectile to be destroyed on impact")
	}
	if len(sink.attached) != 1 || w.Ephemerals().Len() != 1 {
		t.Fatalf("expected a single decal, got %d attached and %d queued", len(sink.attached), w.Ephemerals().Len())
	}

	d := sink.attached[0]
	if d.Parent != wall.ID() {
		t.Fatalf("expected decal on the wall, got parent %d", d.Parent)
	}
	if !game.Vec3ApproxEq(d.Position, mgl32.Vec3{-0.5, 0, 0}, 1e-3) {
		t.Fatalf("expected decal on the wall's -X face, got %v", d.Position)
	}
	if !game.Vec3ApproxEq(d.Normal, mgl32.Vec3{-1, 0, 0}, 1e-3) {
		t.Fatalf("expected decal to face -X, got %v", d.Normal)
	}
	if d.Size != conf.Projectile.DecalSize || d.Created != w.Now() {
		t.Fatalf("expected decal of size %v created at %v, got %+v", conf.Projectile.DecalSize, w.Now(), d)
	}

	w.Remove(wall)
	w.Tick(tickRate, input.Snapshot{})
	if len(sink.detached) != 1 || w.Ephemerals().Len() != 0 {
		t.Fatalf("expected decal to go with its parent, got %d detached and %d queued", len(sink.detached), w.Ephemerals().Len())
	}
}

func TestProjectileDamagesEnemy(t *testing.T) {
	w, conf := newTestWorld(t)
	enemy, _ := newTestEnemy(t, w, conf, mgl32.Vec3{0, 1, 0}, 0)
	shooter := newShooter(t, entity.KindDrone)
	p, err := NewProjectile(w, conf.Projectile, shooter, mgl32.Vec3{0, 1, -0.42}, mgl32.Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error creating projectile: %v", err)
	}
	addEntities(t, w, enemy, p.Entity())

	w.Tick(tickRate, input.Snapshot{})
	if !p.Entity().Expired() {
		t.Fatalf("expected projectile to be destroyed on impact")
	}
	if enemy.Health() != conf.Enemy.Health-conf.Projectile.Damage {
		t.Fatalf("expected enemy to lose %d health, got %d left", conf.Projectile.Damage, enemy.Health())
	}
	if w.Ephemerals().Len() != 0 {
		t.Fatalf("expected no decal on an enemy")
	}
}

func TestProjectilePassesThroughShooterKind(t *testing.T) {
	w, conf := newTestWorld(t)
	enemy, _ := newTestEnemy(t, w, conf, mgl32.Vec3{0, 1, 0}, 0)
	p, err := NewProjectile(w, conf.Projectile, newShooter(t, entity.KindEnemy), mgl32.Vec3{0, 1, -0.42}, mgl32.Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error creating projectile: %v", err)
	}
	addEntities(t, w, enemy, p.Entity())

	w.Tick(tickRate, input.Snapshot{})
	if p.Entity().Expired() {
		t.Fatalf("expected an enemy projectile to pass through other enemies")
	}
	if enemy.Health() != conf.Enemy.Health {
		t.Fatalf("expected enemy to keep its health, got %d", enemy.Health())
	}
}

func TestProjectileSpawnsAfterTick(t *testing.T) {
	w, conf := newTestWorld(t)
	shooter := newShooter(t, entity.KindDrone)
	addEntities(t, w, shooter)

	spawner := &spawnOnce{fire: func() {
		Fire(w, conf.Projectile, shooter, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	}}
	shooter.SetController(spawner)

	w.Tick(tickRate, input.Snapshot{})
	if w.Len() != 2 {
		t.Fatalf("expected the projectile to join the world at the end of the tick, got %d entities", w.Len())
	}
	if spawner.seen != 1 {
		t.Fatalf("expected the shooter to be updated once, got %d", spawner.seen)
	}
}

// spawnOnce fires on its first update.
type spawnOnce struct {
	fire func()
	seen int
}

func (s *spawnOnce) Update(float32, input.Snapshot) {
	s.seen++
	if s.seen == 1 {
		s.fire()
	}
}
