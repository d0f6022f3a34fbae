package world

import "github.com/oomph-ac/sandbox/entity"

// FrameSink receives a snapshot of the world after every tick.
type FrameSink interface {
	Record(f Frame)
}

// StateReporter is implemented by controllers driven by a state machine.
type StateReporter interface {
	StateName() string
}

// EntityFrame is the state of a single entity at the end of a tick.
type EntityFrame struct {
	ID       uint64     `msgpack:"id"`
	Kind     string     `msgpack:"kind"`
	Name     string     `msgpack:"name,omitempty"`
	Parent   uint64     `msgpack:"parent,omitempty"`
	Position [3]float32 `msgpack:"pos"`
	Rotation [4]float32 `msgpack:"rot"`
	State    string     `msgpack:"state,omitempty"`
	Health   int        `msgpack:"health,omitempty"`
	Expired  bool       `msgpack:"expired,omitempty"`
}

// Frame is a copy of the world's state at the end of a tick. It shares no memory with the
// world and may be handed to other goroutines.
type Frame struct {
	Tick       uint64        `msgpack:"tick"`
	Time       float32       `msgpack:"time"`
	Entities   []EntityFrame `msgpack:"entities"`
	Ephemerals int           `msgpack:"ephemerals"`
}

// Snapshot returns a frame of the world's current state.
func (w *World) Snapshot() Frame {
	w.RLock()
	defer w.RUnlock()
	return w.frame()
}

func (w *World) frame() Frame {
	f := Frame{Tick: w.tick, Time: w.now, Ephemerals: w.ephemerals.Len()}
	parents := make(map[*entity.Node]uint64, w.entities.Len())
	for el := w.entities.Front(); el != nil; el = el.Next() {
		parents[el.Value.e.Node()] = el.Key
	}

	f.Entities = make([]EntityFrame, 0, w.entities.Len())
	for el := w.entities.Front(); el != nil; el = el.Next() {
		e := el.Value.e
		pos, rot := e.Position(), e.Rotation()
		ef := EntityFrame{
			ID:       e.ID(),
			Kind:     e.Kind().String(),
			Name:     e.Name(),
			Position: [3]float32{pos.X(), pos.Y(), pos.Z()},
			Rotation: [4]float32{rot.W, rot.V.X(), rot.V.Y(), rot.V.Z()},
			Health:   e.Health(),
			Expired:  e.Expired(),
		}
		if p := e.Node().Parent(); p != nil {
			ef.Parent = parents[p]
		}
		if r, ok := e.Controller().(StateReporter); ok {
			ef.State = r.StateName()
		}
		f.Entities = append(f.Entities, ef)
	}
	return f
}
