package world

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/dbg"
	"github.com/oomph-ac/sandbox/entity"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/grid"
	"github.com/oomph-ac/sandbox/oerror"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// record is the world's bookkeeping for an entity.
type record struct {
	e      *entity.Entity
	client *grid.Client[*entity.Entity]
}

// World owns every simulated entity and advances them one tick at a time.
//
// The methods controllers use during a tick (FindNear, Raycast, Spawn, Destroy, AddEphemeral,
// Attach, Detach, Entity, Now) do not lock, as the tick already holds the lock. Other
// goroutines must only use the locking methods: Add, Remove, Tick, Stats and Snapshot.
type World struct {
	conf settings.Settings
	log  *logrus.Logger
	dbg  *dbg.Debugger

	grid     *grid.Grid[*entity.Entity]
	entities *orderedmap.OrderedMap[entity.ID, *record]

	// spawned are entities created during the current tick. They join the grid once the tick ends.
	spawned []*entity.Entity
	// deleted is the deferred-delete list, flushed at the end of every tick.
	deleted    []*entity.Entity
	ephemerals *EphemeralQueue

	sink     EphemeralSink
	recorder FrameSink

	tick    uint64
	now     float32
	ticking bool

	deadlock.RWMutex
}

// New creates an empty world laid out by conf.
func New(conf settings.Settings, log *logrus.Logger) (*World, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New[*entity.Entity](
		mgl32.Vec2{conf.World.MinX, conf.World.MinZ},
		mgl32.Vec2{conf.World.MaxX, conf.World.MaxZ},
		grid.Cell{conf.World.CellsX, conf.World.CellsZ},
	)
	if err != nil {
		return nil, err
	}

	d := dbg.New(log)
	for _, name := range conf.Debug.Modes {
		if m, ok := dbg.ParseMode(name); ok {
			d.Enable(m)
		} else {
			log.Warnf("unknown debug mode %q", name)
		}
	}

	return &World{
		conf:       conf,
		log:        log,
		dbg:        d,
		grid:       g,
		entities:   orderedmap.NewOrderedMap[entity.ID, *record](),
		ephemerals: NewEphemeralQueue(conf.World.EphemeralLifespan),
	}, nil
}

// Settings returns the settings the world was created with.
func (w *World) Settings() settings.Settings {
	return w.conf
}

// Debugger returns the debugger of the world.
func (w *World) Debugger() *dbg.Debugger {
	return w.dbg
}

// SetEphemeralSink sets the scene collaborator decals are attached to and detached from.
func (w *World) SetEphemeralSink(s EphemeralSink) {
	w.Lock()
	defer w.Unlock()
	w.sink = s
}

// SetRecorder sets the sink every finished tick is reported to.
func (w *World) SetRecorder(r FrameSink) {
	w.Lock()
	defer w.Unlock()
	w.recorder = r
}

// Add places an entity in the world.
func (w *World) Add(e *entity.Entity) error {
	w.Lock()
	defer w.Unlock()

	if _, ok := w.entities.Get(e.ID()); ok {
		return oerror.New(game.ErrorDuplicateEntity, e.ID())
	}
	w.insert(e)
	return nil
}

// Remove schedules an entity for removal at the end of the next tick.
func (w *World) Remove(e *entity.Entity) {
	w.Lock()
	defer w.Unlock()
	w.Destroy(e)
}

// Len returns the number of entities in the world, including those waiting to be removed.
func (w *World) Len() int {
	return w.entities.Len()
}

// Now returns the simulated time in seconds.
func (w *World) Now() float32 {
	return w.now
}

// Entity looks up an entity by its handle.
func (w *World) Entity(id entity.ID) (*entity.Entity, bool) {
	r, ok := w.entities.Get(id)
	if !ok {
		return nil, false
	}
	return r.e, true
}

// Entities returns every entity in the order they were added.
func (w *World) Entities() []*entity.Entity {
	list := make([]*entity.Entity, 0, w.entities.Len())
	for el := w.entities.Front(); el != nil; el = el.Next() {
		list = append(list, el.Value.e)
	}
	return list
}

// FindNear returns the entities whose grid footprint shares a cell with the given rectangle.
func (w *World) FindNear(center, halfExtents mgl32.Vec2) []*entity.Entity {
	return w.grid.FindNear(center, halfExtents)
}

// Spawn adds an entity created during a tick. It becomes visible to grid queries once the
// tick ends.
func (w *World) Spawn(e *entity.Entity) {
	if !w.ticking {
		if _, ok := w.entities.Get(e.ID()); !ok {
			w.insert(e)
		}
		return
	}
	w.spawned = append(w.spawned, e)
}

// Destroy puts an entity on the deferred-delete list. Destroying an entity twice is a no-op.
func (w *World) Destroy(e *entity.Entity) {
	if !e.Expire() {
		return
	}
	w.deleted = append(w.deleted, e)
	w.dbg.Notify(dbg.ModeWorld, true, "%s %d scheduled for removal at tick %d", e.Kind(), e.ID(), w.tick)
}

// Attach reparents child onto parent, keeping the child's world transform.
func (w *World) Attach(parent, child *entity.Entity) {
	parent.Node().Attach(child.Node())
}

// Detach moves child back into world space, keeping its world transform.
func (w *World) Detach(child *entity.Entity) {
	if p := child.Node().Parent(); p != nil {
		p.Detach(child.Node())
	}
}

// AddEphemeral stamps a decal with the current time and queues it for expiry.
func (w *World) AddEphemeral(d entity.Decal) {
	d.Created = w.now
	w.ephemerals.Push(d)
	if w.sink != nil {
		w.sink.Attach(d)
	}
}

// Ephemerals returns the queue of live decals.
func (w *World) Ephemerals() *EphemeralQueue {
	return w.ephemerals
}

func (w *World) insert(e *entity.Entity) {
	w.entities.Set(e.ID(), &record{e: e, client: w.grid.Insert(e)})
}

// remove drops an expired entity from the grid, the transform hierarchy and the arena.
func (w *World) remove(e *entity.Entity) {
	r, ok := w.entities.Get(e.ID())
	if !ok {
		// Spawned and destroyed within the same tick.
		return
	}
	w.grid.Remove(r.client)

	n := e.Node()
	for _, child := range slices.Clone(n.Children()) {
		n.Detach(child)
	}
	if p := n.Parent(); p != nil {
		p.Detach(n)
	}
	for _, d := range w.ephemerals.RemoveParent(e.ID()) {
		if w.sink != nil {
			w.sink.Detach(d)
		}
	}
	w.entities.Delete(e.ID())
}

// Stats is a summary of the world's state.
type Stats struct {
	Tick       uint64
	Time       float32
	Entities   int
	Ephemerals int
}

// Stats returns a summary of the world's state.
func (w *World) Stats() Stats {
	w.RLock()
	defer w.RUnlock()
	return Stats{Tick: w.tick, Time: w.now, Entities: w.entities.Len(), Ephemerals: w.ephemerals.Len()}
}
