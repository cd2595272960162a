package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.World.ParticleRadius <= 0 {
		t.Error("particle radius should be positive")
	}
	if cfg.World.MaxParticles <= 0 {
		t.Error("max particles should be positive")
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := GetPreset("dam-break")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.World.MaxParticles != cfg.World.MaxParticles {
		t.Errorf("max particles = %d, want %d", loaded.World.MaxParticles, cfg.World.MaxParticles)
	}
	if len(loaded.Scenes) != len(cfg.Scenes) {
		t.Errorf("scenes = %d, want %d", len(loaded.Scenes), len(cfg.Scenes))
	}
	if loaded.Scenes[0].Kind != "fluid_block" {
		t.Errorf("scene kind = %q", loaded.Scenes[0].Kind)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "world:\n  max_particles: 512\nrun:\n  duration: 3\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.World.MaxParticles != 512 {
		t.Errorf("max particles = %d, want 512", cfg.World.MaxParticles)
	}
	if cfg.Run.Duration != 3 {
		t.Errorf("duration = %f, want 3", cfg.Run.Duration)
	}
	// untouched fields keep their defaults
	if cfg.Run.Dt != DefaultDt {
		t.Errorf("dt = %f, want default", cfg.Run.Dt)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestBuildPresets(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			sys, err := cfg.Build()
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			defer sys.Destroy()
			if sys.NumParticles() == 0 {
				t.Error("preset built an empty scene")
			}
		})
	}
}

func TestBuildUnknownSceneKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenes = []SceneConfig{{Kind: "volcano"}}
	if _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown scene kind")
	}
}
