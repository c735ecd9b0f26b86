package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Sim.TickRate != 60 {
		t.Fatalf("tick rate = %d, want 60", cfg.Sim.TickRate)
	}
	if got := cfg.Sim.Dt(); got != 1.0/60.0 {
		t.Fatalf("dt = %v, want 1/60", got)
	}
	if len(cfg.Weapons) < 3 {
		t.Fatalf("weapon count = %d, want at least rifle/shotgun/pistol", len(cfg.Weapons))
	}
	if len(cfg.Bots.Archetypes) < 3 {
		t.Fatalf("archetype count = %d, want at least 3", len(cfg.Bots.Archetypes))
	}
}

func TestConfig_WeaponSpecFallback(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WeaponSpec("rifle").Name != "rifle" {
		t.Fatal("named lookup failed")
	}
	if got := cfg.WeaponSpec("no-such-gun"); got.Name != cfg.Weapons[0].Name {
		t.Fatalf("unknown weapon resolved to %q, want first defined", got.Name)
	}
}

func TestConfig_ArchetypeFallback(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Archetype("cautious").Name != "cautious" {
		t.Fatal("named lookup failed")
	}
	if got := cfg.Archetype("nobody"); got.Name != cfg.Bots.Archetypes[0].Name {
		t.Fatalf("unknown archetype resolved to %q, want first defined", got.Name)
	}
}

func TestLoadConfig_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	doc := "player:\n  walk_speed: 9.9\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Player.WalkSpeed != 9.9 {
		t.Fatalf("walk speed = %v, want the override 9.9", cfg.Player.WalkSpeed)
	}
	// Untouched keys keep their defaults.
	if cfg.Player.SprintSpeed != 7.0 {
		t.Fatalf("sprint speed = %v, want the default 7.0", cfg.Player.SprintSpeed)
	}
	if len(cfg.Weapons) == 0 {
		t.Fatal("weapons should come from the defaults")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sim:\n  tick_rate: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("negative tick rate should fail validation")
	}
}

func TestWorld_ApplyConfigRebindsSpecs(t *testing.T) {
	ts := NewTestSim(WithFlatArena(30), WithBotAt("aggressive", 1, Vec3{0, 0, 0}))
	bot := ts.Bots[0]

	cfg := DefaultConfig()
	cfg.WeaponSpec("rifle").Damage = 999
	cfg.Sim.PathBudget = 9
	ts.World.ApplyConfig(cfg)

	if bot.Weapon().Spec.Damage != 999 {
		t.Fatal("live weapon should pick up the reloaded spec")
	}
	if ts.World.planner.Budget != 9 {
		t.Fatal("planner budget should follow the reloaded config")
	}
}
