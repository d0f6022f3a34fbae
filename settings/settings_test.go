package settings

import (
	"path/filepath"
	"testing"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("expected default settings to be valid, got %v", err)
	}
}

func TestValidateRejectsBrokenWorld(t *testing.T) {
	s := DefaultSettings()
	s.World.CellsX = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("expected zero cells to be rejected")
	}

	s = DefaultSettings()
	s.World.MaxZ = s.World.MinZ
	if err := s.Validate(); err == nil {
		t.Fatalf("expected empty bounds to be rejected")
	}

	s = DefaultSettings()
	s.Projectile.Lifetime = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("expected zero projectile lifetime to be rejected")
	}
}

func TestSaveDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("unexpected error saving defaults: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected saving over an existing file to fail")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading defaults: %v", err)
	}
	if s.Enemy.FarRange != 18 || s.World.CellsX != 101 {
		t.Fatalf("expected loaded settings to match the defaults, got far range %v and %d cells", s.Enemy.FarRange, s.World.CellsX)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected loading a missing file to fail")
	}
}
