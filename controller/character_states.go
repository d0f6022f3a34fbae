package controller

import (
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/input"
)

const (
	StateIdle = "idle"
	StateWalk = "walk"
	StateRun  = "run"
	StateJump = "jump"
	StateFall = "fall"
)

// characterState plays the clip named after the state when it is entered.
type characterState struct {
	name string
}

func (s characterState) Name() string {
	return s.name
}

func (s characterState) Enter(m *fsm.Machine[*CharacterController], prev fsm.State[*CharacterController]) {
	c, from := m.Owner(), ""
	if prev != nil {
		from = prev.Name()
	}
	playClip(c.env, c.e, s.name, from, c.conf.AnimationBlend)
}

func (characterState) Exit(*fsm.Machine[*CharacterController]) {}

type characterIdle struct {
	characterState
}

func (*characterIdle) Update(m *fsm.Machine[*CharacterController], _ float32, in input.Snapshot) {
	c := m.Owner()
	switch {
	case in.Moving() && in.Run:
		m.MustSetState(StateRun)
	case in.Moving():
		m.MustSetState(StateWalk)
	case c.tryJump(in):
		m.MustSetState(StateJump)
	case c.airborne():
		m.MustSetState(StateFall)
	}
}

type characterWalk struct {
	characterState
}

func (*characterWalk) Update(m *fsm.Machine[*CharacterController], _ float32, in input.Snapshot) {
	c := m.Owner()
	switch {
	case c.tryJump(in):
		m.MustSetState(StateJump)
	case c.airborne():
		m.MustSetState(StateFall)
	case !in.Moving():
		m.MustSetState(StateIdle)
	case in.Run:
		m.MustSetState(StateRun)
	}
}

type characterRun struct {
	characterState
}

func (*characterRun) Update(m *fsm.Machine[*CharacterController], _ float32, in input.Snapshot) {
	c := m.Owner()
	switch {
	case c.tryJump(in):
		m.MustSetState(StateJump)
	case c.airborne():
		m.MustSetState(StateFall)
	case !in.Moving():
		m.MustSetState(StateIdle)
	case !in.Run:
		m.MustSetState(StateWalk)
	}
}

// characterJump only lasts for the tick the jump impulse is applied in.
type characterJump struct {
	characterState
}

func (*characterJump) Update(m *fsm.Machine[*CharacterController], _ float32, _ input.Snapshot) {
	m.MustSetState(StateFall)
}

type characterFall struct {
	characterState
}

func (s *characterFall) Enter(m *fsm.Machine[*CharacterController], prev fsm.State[*CharacterController]) {
	m.Owner().jumpLatched = true
	s.characterState.Enter(m, prev)
}

func (*characterFall) Update(m *fsm.Machine[*CharacterController], _ float32, in input.Snapshot) {
	c := m.Owner()
	if c.falling {
		return
	}

	c.jumpLatched = false
	switch {
	case in.Moving() && in.Run:
		m.MustSetState(StateRun)
	case in.Moving():
		m.MustSetState(StateWalk)
	default:
		m.MustSetState(StateIdle)
	}
}
