package controller

import (
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/input"
)

const (
	StateFire  = "fire"
	StateEmpty = "empty"
)

type droneState struct {
	name string
}

func (s droneState) Name() string {
	return s.name
}

func (s droneState) Enter(m *fsm.Machine[*DroneController], prev fsm.State[*DroneController]) {
	c, from := m.Owner(), ""
	if prev != nil {
		from = prev.Name()
	}
	playClip(c.env, c.e, s.name, from, 0)
}

func (droneState) Exit(*fsm.Machine[*DroneController]) {}

type droneIdle struct {
	droneState
}

func (*droneIdle) Update(m *fsm.Machine[*DroneController], _ float32, in input.Snapshot) {
	if in.Primary {
		m.MustSetState(StateFire)
	}
}

type droneFire struct {
	droneState
}

func (*droneFire) Update(m *fsm.Machine[*DroneController], _ float32, in input.Snapshot) {
	switch {
	case m.Owner().magazine == 0:
		m.MustSetState(StateEmpty)
	case !in.Primary:
		m.MustSetState(StateIdle)
	}
}

// droneEmpty waits for the magazine to be reloaded.
type droneEmpty struct {
	droneState
}

func (s *droneEmpty) Enter(m *fsm.Machine[*DroneController], prev fsm.State[*DroneController]) {
	m.Owner().reload = 0
	s.droneState.Enter(m, prev)
}

func (*droneEmpty) Update(m *fsm.Machine[*DroneController], _ float32, _ input.Snapshot) {
	if m.Owner().magazine != 0 {
		m.MustSetState(StateIdle)
	}
}
