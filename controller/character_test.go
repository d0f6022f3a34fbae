package controller

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/input"
	"golang.org/x/exp/slices"
)

func TestCharacterRestingOnPlatform(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{})
	if c.Falling() {
		t.Fatalf("expected character resting on a platform to not be falling")
	}
	if c.Velocity().Y() != 0 {
		t.Fatalf("expected no vertical velocity, got %v", c.Velocity().Y())
	}
	if c.StateName() != StateIdle {
		t.Fatalf("expected character to stay idle, got %s", c.StateName())
	}
	if char.Node().Parent() != ground.Node() {
		t.Fatalf("expected character to board the platform it stands on")
	}
	if !approxEqual(char.Position().Y(), 1, 1e-4) {
		t.Fatalf("expected character to stay at y=1, got %v", char.Position().Y())
	}
}

func TestCharacterWalkAccelerates(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	for i := 0; i < 60; i++ {
		w.Tick(tickRate, input.Snapshot{Forward: true})
	}
	if c.StateName() != StateWalk {
		t.Fatalf("expected character to walk, got %s", c.StateName())
	}
	speed := c.Velocity().Z()
	if speed <= 0 || speed >= conf.Character.Walk.MaxVelocity.Z {
		t.Fatalf("expected walking speed between 0 and %v after a second, got %v", conf.Character.Walk.MaxVelocity.Z, speed)
	}
	if !approxEqual(speed, conf.Character.Walk.Acceleration.Z, 1e-3) {
		t.Fatalf("expected walking speed %v after a second, got %v", conf.Character.Walk.Acceleration.Z, speed)
	}
	if char.Position().Z() <= 0 {
		t.Fatalf("expected character to move forward, got %v", char.Position())
	}
	if c.Falling() {
		t.Fatalf("expected character to stay on the ground while walking")
	}

	w.Tick(tickRate, input.Snapshot{})
	if c.StateName() != StateIdle || c.Velocity() != (mgl32.Vec3{}) {
		t.Fatalf("expected character to stop once keys are released, got %s with velocity %v", c.StateName(), c.Velocity())
	}
}

func TestCharacterRunToggle(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{Forward: true, Run: true})
	if c.StateName() != StateRun {
		t.Fatalf("expected character to run, got %s", c.StateName())
	}
	w.Tick(tickRate, input.Snapshot{Forward: true})
	if c.StateName() != StateWalk {
		t.Fatalf("expected character to walk once run is released, got %s", c.StateName())
	}
	w.Tick(tickRate, input.Snapshot{Forward: true, Run: true})
	if c.StateName() != StateRun {
		t.Fatalf("expected character to run again, got %s", c.StateName())
	}
}

func TestCharacterJumpAndLand(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{})
	w.Tick(tickRate, input.Snapshot{Jump: true})
	if c.StateName() != StateJump {
		t.Fatalf("expected character to jump, got %s", c.StateName())
	}
	if c.Velocity().Y() != conf.Character.JumpImpulse {
		t.Fatalf("expected jump impulse %v, got %v", conf.Character.JumpImpulse, c.Velocity().Y())
	}

	w.Tick(tickRate, input.Snapshot{Jump: true})
	if c.StateName() != StateFall {
		t.Fatalf("expected jump to turn into a fall immediately, got %s", c.StateName())
	}
	if char.Node().Parent() != nil {
		t.Fatalf("expected airborne character to leave the platform")
	}
	if !c.Falling() {
		t.Fatalf("expected airborne character to be falling")
	}

	peak := float32(0)
	for i := 0; i < 180; i++ {
		w.Tick(tickRate, input.Snapshot{})
		peak = max(peak, char.Position().Y())
	}
	if peak <= 1.5 {
		t.Fatalf("expected jump to reach a height above 1.5, got %v", peak)
	}
	if c.StateName() != StateIdle || c.Falling() {
		t.Fatalf("expected character to land and idle, got %s (falling=%v)", c.StateName(), c.Falling())
	}
	if !approxEqual(char.Position().Y(), 1, 0.02) {
		t.Fatalf("expected character to land on the platform at y=1, got %v", char.Position().Y())
	}
	if char.Node().Parent() != ground.Node() {
		t.Fatalf("expected landed character to board the platform again")
	}
}

func TestCharacterHeldJumpDoesNotRepeat(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{})
	jumps := 0
	for i := 0; i < 240; i++ {
		w.Tick(tickRate, input.Snapshot{Jump: true})
		if c.StateName() == StateJump {
			jumps++
		}
	}
	if jumps != 1 {
		t.Fatalf("expected a held jump key to jump once, got %d jumps", jumps)
	}
}

func TestCharacterFallsWithoutSupport(t *testing.T) {
	w, conf := newTestWorld(t)
	char := newCharacterEntity(t, mgl32.Vec3{0, 10, 0}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, char)

	w.Tick(tickRate, input.Snapshot{})
	if c.StateName() != StateFall {
		t.Fatalf("expected unsupported character to fall, got %s", c.StateName())
	}
	for i := 0; i < 600; i++ {
		w.Tick(tickRate, input.Snapshot{})
	}
	if vy := c.Velocity().Y(); vy != -conf.Character.Walk.MaxVelocity.Y {
		t.Fatalf("expected falling speed to be capped at %v, got %v", -conf.Character.Walk.MaxVelocity.Y, vy)
	}
}

func TestCharacterMouseYaw(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{MouseDelta: mgl32.Vec2{0.5, 0}})
	forward := char.Rotation().Rotate(mgl32.Vec3{0, 0, 1})
	expected := mgl32.QuatRotate(-0.5, mgl32.Vec3{0, 1, 0}).Rotate(mgl32.Vec3{0, 0, 1})
	if !game.Vec3ApproxEq(forward, expected, 1e-4) {
		t.Fatalf("expected forward axis %v after turning, got %v", expected, forward)
	}
}

func TestCharacterHeadingTurnsTowardsMovement(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	char := newCharacterEntity(t, mgl32.Vec3{}, nil)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{})
	w.Tick(tickRate, input.Snapshot{Left: true})
	first := c.Heading()
	if first <= 0 || first >= mgl32.DegToRad(90) {
		t.Fatalf("expected heading to start turning towards the left, got %v", first)
	}
	for i := 0; i < 600; i++ {
		w.Tick(tickRate, input.Snapshot{Left: true})
	}
	if !approxEqual(c.Heading(), mgl32.DegToRad(90), 1e-3) {
		t.Fatalf("expected heading to settle at 90 degrees, got %v", mgl32.RadToDeg(c.Heading()))
	}
}

func TestCharacterPlaysStateClips(t *testing.T) {
	w, conf := newTestWorld(t)
	ground := newGround(t, w, conf)
	anim := &recordingAnimator{missing: map[string]bool{StateRun: true}}
	char := newCharacterEntity(t, mgl32.Vec3{}, anim)
	c := NewCharacter(w, char, conf.Character)
	addEntities(t, w, ground, char)

	w.Tick(tickRate, input.Snapshot{Forward: true})
	w.Tick(tickRate, input.Snapshot{Forward: true, Run: true})
	if c.StateName() != StateRun {
		t.Fatalf("expected a missing clip to not block the transition, got %s", c.StateName())
	}

	expected := []string{"idle<-@0.5", "walk<-idle@0.5"}
	if !slices.Equal(anim.plays, expected) {
		t.Fatalf("expected clips %v, got %v", expected, anim.plays)
	}
}
