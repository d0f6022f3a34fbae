package entity

// Kind discriminates the simulated object types.
type Kind uint8

const (
	KindObstacle Kind = iota
	KindPlatform
	KindMovingPlatform
	KindCharacter
	KindEnemy
	KindDrone
	KindProjectile
	kindCount
)

var kindNames = [...]string{
	KindObstacle:       "obstacle",
	KindPlatform:       "platform",
	KindMovingPlatform: "moving_platform",
	KindCharacter:      "character",
	KindEnemy:          "enemy",
	KindDrone:          "drone",
	KindProjectile:     "projectile",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid returns true if k is one of the known kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Scenery returns true for the static or scripted level geometry that carries decals.
func (k Kind) Scenery() bool {
	return k == KindObstacle || k == KindPlatform || k == KindMovingPlatform
}
