package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/sandbox/game"
	"github.com/pelletier/go-toml"
)

// Settings contains every tuning constant of the simulation.
type Settings struct {
	World      World
	Character  Character
	Enemy      Enemy
	Drone      Drone
	Projectile Projectile
	Platform   Platform
	Debug      Debug
}

// Vec3 is a TOML friendly vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3 converts v to an mgl32 vector.
func (v Vec3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// World is the layout of the simulated region.
type World struct {
	// MinX, MinZ, MaxX and MaxZ bound the region covered by the spatial grid.
	MinX, MinZ float32
	MaxX, MaxZ float32
	// CellsX and CellsZ are the number of grid cells on each axis.
	CellsX, CellsZ int
	// EphemeralLifespan is how long decals stay attached, in seconds.
	EphemeralLifespan float32
	// TickRate is the number of ticks simulated per second by the runner.
	TickRate int
}

// Profile is an acceleration and the velocity it is capped at.
type Profile struct {
	Acceleration Vec3
	MaxVelocity  Vec3
}

// Character tunes the player character.
type Character struct {
	Walk Profile
	Run  Profile
	// Fall applies while airborne. Its Y acceleration is gravity.
	Fall Profile
	// JumpImpulse is the upwards velocity given on the tick a jump starts.
	JumpImpulse float32
	// Deceleration is added per tick to every axis moving faster than its profile allows.
	Deceleration Vec3
	// TurnRate caps how fast the visual heading turns, in radians per second.
	TurnRate float32
	// AnimationBlend is the cross-fade duration between state clips, in seconds.
	AnimationBlend float32
}

// Enemy tunes the enemy steering and combat.
type Enemy struct {
	CloseRange float32
	FarRange   float32
	// FieldOfView is the half angle of the view cone, in radians.
	FieldOfView float32
	// MaxAggroTime is how long an enemy stays aggressive without seeing its target.
	MaxAggroTime float32

	WanderAcceleration float32
	AggroAcceleration  float32
	WanderSteering     float32
	AggroSteering      float32
	WanderSpeed        float32
	AggroSpeed         float32

	// ChargeTime is the minimum time between shots. ChargeJitter is added on top at random.
	ChargeTime   float32
	ChargeJitter float32
	// Neighbourhood is the half extent of the square searched for flock mates.
	Neighbourhood float32
	Health        int
	Radius        float32
	Height        float32
}

// Drone tunes the weapon drone mounted on the character.
type Drone struct {
	Magazine     int
	FireInterval float32
	ReloadTime   float32
	// AimDistance is how far along the screen centre ray the drone aims.
	AimDistance float32

	IdleAmplitude  float32
	IdleFrequency  float32
	EmptyAmplitude float32
	EmptyFrequency float32
	IdleSpin       float32
	FireSpin       float32

	// DriftAcceleration pulls the drone back to its rest pose; MaxDrift caps that velocity.
	DriftAcceleration float32
	MaxDrift          float32
}

// Projectile tunes fired projectiles.
type Projectile struct {
	Speed     float32
	Lifetime  float32
	Radius    float32
	Length    float32
	DecalSize float32
	Damage    int
}

// Platform tunes platform collision handling.
type Platform struct {
	// Nudge is how far a platform is pushed along its direction when it runs into scenery.
	Nudge float32
}

// Debug lists the debug modes enabled at startup.
type Debug struct {
	Modes []string
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.World.MinX, s.World.MinZ = -1000, -1000
	s.World.MaxX, s.World.MaxZ = 1000, 1000
	s.World.CellsX, s.World.CellsZ = 101, 101
	s.World.EphemeralLifespan = 10
	s.World.TickRate = 60

	s.Character.Walk = Profile{Acceleration: Vec3{0.5, 0, 0.5}, MaxVelocity: Vec3{1.8, 5, 2}}
	s.Character.Run = Profile{Acceleration: Vec3{0.8, 0, 0.8}, MaxVelocity: Vec3{3, 5, 4}}
	s.Character.Fall = Profile{Acceleration: Vec3{0.06, game.DefaultGravity, 0.06}, MaxVelocity: Vec3{3, 5, 4}}
	s.Character.JumpImpulse = 6
	s.Character.Deceleration = Vec3{-0.07, 0, -0.07}
	s.Character.TurnRate = math32.Pi
	s.Character.AnimationBlend = 0.5

	s.Enemy.CloseRange = 5
	s.Enemy.FarRange = 18
	s.Enemy.FieldOfView = math32.Pi / 3
	s.Enemy.MaxAggroTime = 25
	s.Enemy.WanderAcceleration = 0.5
	s.Enemy.AggroAcceleration = 0.9
	s.Enemy.WanderSteering = 3
	s.Enemy.AggroSteering = 4
	s.Enemy.WanderSpeed = 2.2
	s.Enemy.AggroSpeed = 3
	s.Enemy.ChargeTime = 1
	s.Enemy.ChargeJitter = 0.2
	s.Enemy.Neighbourhood = 2.5
	s.Enemy.Health = 3
	s.Enemy.Radius = 0.4
	s.Enemy.Height = 0.8

	s.Drone.Magazine = 30
	s.Drone.FireInterval = 0.1
	s.Drone.ReloadTime = 2
	s.Drone.AimDistance = 100
	s.Drone.IdleAmplitude = 0.1
	s.Drone.IdleFrequency = 1
	s.Drone.EmptyAmplitude = 0.05
	s.Drone.EmptyFrequency = 0.8
	s.Drone.IdleSpin = 0.8
	s.Drone.FireSpin = 1.2
	s.Drone.DriftAcceleration = 0.1
	s.Drone.MaxDrift = 0.5

	s.Projectile.Speed = 15
	s.Projectile.Lifetime = 10
	s.Projectile.Radius = 0.05
	s.Projectile.Length = 0.1
	s.Projectile.DecalSize = 0.25
	s.Projectile.Damage = 1

	s.Platform.Nudge = 0.2
	return s
}

// Validate returns an error for settings the simulation cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.World.CellsX < 1 || s.World.CellsZ < 1:
		return fmt.Errorf("world must have at least one cell per axis, got %dx%d", s.World.CellsX, s.World.CellsZ)
	case s.World.MaxX <= s.World.MinX || s.World.MaxZ <= s.World.MinZ:
		return fmt.Errorf("world bounds (%v, %v)..(%v, %v) are empty", s.World.MinX, s.World.MinZ, s.World.MaxX, s.World.MaxZ)
	case s.World.EphemeralLifespan <= 0:
		return fmt.Errorf("ephemeral lifespan must be positive, got %v", s.World.EphemeralLifespan)
	case s.World.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", s.World.TickRate)
	case s.Projectile.Lifetime <= 0 || s.Projectile.Speed <= 0:
		return fmt.Errorf("projectiles need a positive lifetime and speed, got %v and %v", s.Projectile.Lifetime, s.Projectile.Speed)
	case s.Projectile.Radius <= 0 || s.Projectile.Length <= 0:
		return fmt.Errorf("projectile hitbox must be positive, got radius %v and length %v", s.Projectile.Radius, s.Projectile.Length)
	case s.Enemy.CloseRange <= 0 || s.Enemy.FarRange < s.Enemy.CloseRange:
		return fmt.Errorf("enemy ranges must satisfy 0 < close <= far, got %v and %v", s.Enemy.CloseRange, s.Enemy.FarRange)
	case s.Enemy.Radius <= 0 || s.Enemy.Height <= 0:
		return fmt.Errorf("enemy hitbox must be positive, got radius %v and height %v", s.Enemy.Radius, s.Enemy.Height)
	case s.Drone.Magazine < 1:
		return fmt.Errorf("drone magazine must hold at least one shot, got %d", s.Drone.Magazine)
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist
// or holds settings that fail validation.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}
