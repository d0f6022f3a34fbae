package controller

import (
	"github.com/oomph-ac/sandbox/fsm"
	"github.com/oomph-ac/sandbox/input"
)

const (
	StateWander = "wander"
	StateAggro  = "aggro"
	StateShoot  = "shoot"
)

type enemyState struct {
	name string
}

func (s enemyState) Name() string {
	return s.name
}

func (s enemyState) Enter(m *fsm.Machine[*EnemyController], prev fsm.State[*EnemyController]) {
	c, from := m.Owner(), ""
	if prev != nil {
		from = prev.Name()
	}
	playClip(c.env, c.e, s.name, from, 0)
}

func (enemyState) Exit(*fsm.Machine[*EnemyController]) {}

// enemyWander turns aggressive once the target is seen within close range.
type enemyWander struct {
	enemyState
}

func (*enemyWander) Update(m *fsm.Machine[*EnemyController], _ float32, _ input.Snapshot) {
	c := m.Owner()
	if dist, visible := c.sight(); visible && dist <= c.conf.CloseRange {
		m.MustSetState(StateAggro)
	}
}

// enemyAggro chases the target, giving up after it has been out of sight for too long.
type enemyAggro struct {
	enemyState
	// lost is how long the target has been out of sight.
	lost float32
}

func (s *enemyAggro) Enter(m *fsm.Machine[*EnemyController], prev fsm.State[*EnemyController]) {
	s.lost = 0
	s.enemyState.Enter(m, prev)
}

func (s *enemyAggro) Update(m *fsm.Machine[*EnemyController], dt float32, _ input.Snapshot) {
	c := m.Owner()
	if s.lost >= c.conf.MaxAggroTime {
		m.MustSetState(StateWander)
		return
	}

	dist, visible := c.sight()
	if !visible {
		s.lost += dt
		return
	}
	s.lost = 0
	if dist <= c.conf.FarRange/2 {
		m.MustSetState(StateShoot)
	}
}

// AggroTime returns how long the target has been out of sight.
func (s *enemyAggro) AggroTime() float32 {
	return s.lost
}

// enemyShoot fires at the target until it gets too far away.
type enemyShoot struct {
	enemyState
}

func (*enemyShoot) Update(m *fsm.Machine[*EnemyController], _ float32, _ input.Snapshot) {
	c := m.Owner()
	t, ok := c.targetEntity()
	if !ok || t.Position().Sub(c.e.Position()).Len() > c.conf.FarRange/2 {
		m.MustSetState(StateAggro)
	}
}
