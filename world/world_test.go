package world

import (
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/hitbox"
	"github.com/oomph-ac/sandbox/input"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/sirupsen/logrus"
)

const tickRate = float32(1) / 60

func testSettings() settings.Settings {
	conf := settings.DefaultSettings()
	conf.World.MinX, conf.World.MinZ = -50, -50
	conf.World.MaxX, conf.World.MaxZ = 50, 50
	conf.World.CellsX, conf.World.CellsZ = 20, 20
	return conf
}

func newTestWorld(t *testing.T, conf settings.Settings) *World {
	log := logrus.New()
	log.SetOutput(io.Discard)
	w, err := New(conf, log)
	if err != nil {
		t.Fatalf("unexpected error creating world: %v", err)
	}
	return w
}

func newBox(t *testing.T, kind entity.Kind, pos mgl32.Vec3, size float32) *entity.Entity {
	e, err := entity.New(entity.Config{
		Kind:     kind,
		Shape:    hitbox.Box{Width: size, Height: size, Depth: size},
		Position: pos,
	})
	if err != nil {
		t.Fatalf("unexpected error creating entity: %v", err)
	}
	return e
}

func mustAdd(t *testing.T, w *World, entities ...*entity.Entity) {
	for _, e := range entities {
		if err := w.Add(e); err != nil {
			t.Fatalf("unexpected error adding entity: %v", err)
		}
	}
}

// scripted is a controller running an arbitrary function every tick.
type scripted struct {
	state  string
	update func(dt float32)
}

func (s *scripted) Update(dt float32, _ input.Snapshot) {
	if s.update != nil {
		s.update(dt)
	}
}

func (s *scripted) StateName() string {
	return s.state
}

type recordingSink struct {
	attached, detached []entity.Decal
}

func (s *recordingSink) Attach(d entity.Decal) {
	s.attached = append(s.attached, d)
}

func (s *recordingSink) Detach(d entity.Decal) {
	s.detached = append(s.detached, d)
}

type recordingRecorder struct {
	frames []Frame
}

func (r *recordingRecorder) Record(f Frame) {
	r.frames = append(r.frames, f)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	conf := testSettings()
	conf.World.CellsX = 0
	if _, err := New(conf, logrus.New()); err == nil {
		t.Fatalf("expected a world without cells to be rejected")
	}
}

func TestAddDuplicate(t *testing.T) {
	w := newTestWorld(t, testSettings())
	e := newBox(t, entity.KindObstacle, mgl32.Vec3{}, 1)
	mustAdd(t, w, e)
	if err := w.Add(e); err == nil {
		t.Fatalf("expected adding the same entity twice to fail")
	}
	if w.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", w.Len())
	}
}

func TestCollisionsGatheredBeforeResolve(t *testing.T) {
	w := newTestWorld(t, testSettings())
	a := newBox(t, entity.KindObstacle, mgl32.Vec3{}, 1)
	b := newBox(t, entity.KindObstacle, mgl32.Vec3{0.9, 0, 0}, 1)

	seen := map[entity.ID]int{}
	for _, e := range []*entity.Entity{a, b} {
		e := e
		e.SetController(&scripted{update: func(float32) {
			seen[e.ID()] = len(e.Collisions())
			if e == a {
				e.Node().SetLocalPosition(e.Position().Add(mgl32.Vec3{0, 10, 0}))
			}
		}})
	}
	mustAdd(t, w, a, b)

	w.Tick(tickRate, input.Snapshot{})
	if seen[a.ID()] != 1 || seen[b.ID()] != 1 {
		t.Fatalf("expected both entities to see the contact, got %v", seen)
	}
	if len(a.Collisions()) != 0 || len(b.Collisions()) != 0 {
		t.Fatalf("expected collisions to be cleared once the tick ends")
	}

	w.Tick(tickRate, input.Snapshot{})
	if seen[a.ID()] != 0 || seen[b.ID()] != 0 {
		t.Fatalf("expected no contacts once a moved away, got %v", seen)
	}
}

func TestDestroyIsDeferred(t *testing.T) {
	w := newTestWorld(t, testSettings())
	victim := newBox(t, entity.KindObstacle, mgl32.Vec3{10, 0, 10}, 1)
	killer := newBox(t, entity.KindObstacle, mgl32.Vec3{-10, 0, -10}, 1)

	var stillThere bool
	killer.SetController(&scripted{update: func(float32) {
		w.Destroy(victim)
		w.Destroy(victim)
		_, stillThere = w.Entity(victim.ID())
	}})
	mustAdd(t, w, victim, killer)

	w.Tick(tickRate, input.Snapshot{})
	if !stillThere {
		t.Fatalf("expected a destroyed entity to stay reachable until the tick ends")
	}
	if _, ok := w.Entity(victim.ID()); ok || w.Len() != 1 {
		t.Fatalf("expected the destroyed entity to be removed once the tick ends, %d left", w.Len())
	}
	if n := len(w.FindNear(mgl32.Vec2{10, 10}, mgl32.Vec2{1, 1})); n != 0 {
		t.Fatalf("expected the destroyed entity to leave the grid, found %d", n)
	}
}

func TestExpiredEntitiesAreSkipped(t *testing.T) {
	w := newTestWorld(t, testSettings())
	e := newBox(t, entity.KindObstacle, mgl32.Vec3{}, 1)
	updates := 0
	e.SetController(&scripted{update: func(float32) { updates++ }})
	mustAdd(t, w, e)

	w.Remove(e)
	w.Tick(tickRate, input.Snapshot{})
	if updates != 0 {
		t.Fatalf("expected an expired entity to not be updated, got %d updates", updates)
	}
	if w.Len() != 0 {
		t.Fatalf("expected the removed entity to be gone")
	}
}

func TestSpawnJoinsAfterTick(t *testing.T) {
	w := newTestWorld(t, testSettings())
	spawner := newBox(t, entity.KindObstacle, mgl32.Vec3{}, 1)

	var spawned, doomed *entity.Entity
	visible := -1
	spawner.SetController(&scripted{update: func(float32) {
		if spawned != nil {
			return
		}
		spawned = newBox(t, entity.KindProjectile, mgl32.Vec3{5, 0, 5}, 0.1)
		doomed = newBox(t, entity.KindProjectile, mgl32.Vec3{6, 0, 6}, 0.1)
		w.Spawn(spawned)
		w.Spawn(doomed)
		w.Destroy(doomed)
		visible = 0
		for _, e := range w.FindNear(mgl32.Vec2{5, 5}, mgl32.Vec2{2, 2}) {
			if e == spawned || e == doomed {
				visible++
			}
		}
	}})
	mustAdd(t, w, spawner)

	w.Tick(tickRate, input.Snapshot{})
	if visible != 0 {
		t.Fatalf("expected a spawned entity to be invisible during the tick, found %d", visible)
	}
	if _, ok := w.Entity(spawned.ID()); !ok {
		t.Fatalf("expected the spawned entity to join the world once the tick ends")
	}
	if _, ok := w.Entity(doomed.ID()); ok {
		t.Fatalf("expected an entity destroyed in the tick it spawned to never join")
	}
	if w.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", w.Len())
	}
}

func TestRemoveDetachesHierarchy(t *testing.T) {
	w := newTestWorld(t, testSettings())
	parent := newBox(t, entity.KindMovingPlatform, mgl32.Vec3{1, 0, 0}, 1)
	child := newBox(t, entity.KindCharacter, mgl32.Vec3{1, 2, 0}, 1)
	mustAdd(t, w, parent, child)
	w.Attach(parent, child)
	if child.Node().LocalPosition() != (mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("expected child to keep its world position when attached, got local %v", child.Node().LocalPosition())
	}

	w.Remove(parent)
	w.Tick(tickRate, input.Snapshot{})
	if child.Node().Parent() != nil {
		t.Fatalf("expected child to be detached from a removed parent")
	}
	if child.Position() != (mgl32.Vec3{1, 2, 0}) {
		t.Fatalf("expected child to keep its world position, got %v", child.Position())
	}
	if _, ok := w.Entity(child.ID()); !ok {
		t.Fatalf("expected child to stay in the world")
	}
}

func TestStatsAndSnapshot(t *testing.T) {
	w := newTestWorld(t, testSettings())
	rec := &recordingRecorder{}
	w.SetRecorder(rec)

	parent := newBox(t, entity.KindPlatform, mgl32.Vec3{}, 1)
	child := newBox(t, entity.KindDrone, mgl32.Vec3{0, 3, 0}, 0.2)
	child.SetController(&scripted{state: "idle"})
	mustAdd(t, w, parent, child)
	w.Attach(parent, child)
	w.AddEphemeral(entity.Decal{Parent: parent.ID()})

	w.Tick(0.5, input.Snapshot{})
	w.Tick(0.5, input.Snapshot{})

	stats := w.Stats()
	if stats.Tick != 2 || stats.Time != 1 || stats.Entities != 2 || stats.Ephemerals != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(rec.frames) != 2 || rec.frames[1].Tick != 2 {
		t.Fatalf("expected a frame per tick, got %d", len(rec.frames))
	}

	f := w.Snapshot()
	if len(f.Entities) != 2 {
		t.Fatalf("expected 2 entities in the snapshot, got %d", len(f.Entities))
	}
	ef := f.Entities[1]
	if ef.ID != child.ID() || ef.Parent != parent.ID() || ef.State != "idle" || ef.Kind != "drone" {
		t.Fatalf("unexpected entity frame %+v", ef)
	}
	if ef.Position != [3]float32{0, 3, 0} {
		t.Fatalf("expected world position in the frame, got %v", ef.Position)
	}
}
