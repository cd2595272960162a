// Package config describes scenarios as yaml: a world box, the scene
// pieces dropped into it, and the run schedule.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pbdsim/internal/particles"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultRadius     = 0.25
	DefaultIterations = 4
)

type Config struct {
	World  WorldConfig   `yaml:"world"`
	Scenes []SceneConfig `yaml:"scenes"`
	Run    RunConfig     `yaml:"run"`
}

type WorldConfig struct {
	ParticleRadius   float32    `yaml:"particle_radius"`
	GridSize         [3]int     `yaml:"grid_size"`
	MaxParticles     int        `yaml:"max_particles"`
	MinBounds        [3]float32 `yaml:"min_bounds"`
	MaxBounds        [3]float32 `yaml:"max_bounds"`
	SolverIterations int        `yaml:"solver_iterations"`
	Gravity          [3]float32 `yaml:"gravity"`
	Seed             int64      `yaml:"seed"`
}

// SceneConfig is one piece of the initial scene. Kind selects the
// builder; only the fields that builder reads matter.
type SceneConfig struct {
	Kind string `yaml:"kind"`

	// box corners for fluid_block, particle_grid, and cloth
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`

	Mass    float32 `yaml:"mass"`
	Density float32 `yaml:"density"`
	Jitter  bool    `yaml:"jitter"`

	// rope
	Start    [3]float32 `yaml:"start"`
	Step     [3]float32 `yaml:"step"`
	Rest     float32    `yaml:"rest"`
	Links    int        `yaml:"links"`
	PinStart bool       `yaml:"pin_start"`

	// cloth
	Spacing   [3]float32 `yaml:"spacing"`
	HoldEdges bool       `yaml:"hold_edges"`

	// sphere_shell
	Center [3]float32 `yaml:"center"`
	Radius float32    `yaml:"radius"`
	Gap    float32    `yaml:"gap"`

	Color [4]float32 `yaml:"color"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Validate bool    `yaml:"validate"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			ParticleRadius:   DefaultRadius,
			GridSize:         [3]int{64, 64, 64},
			MaxParticles:     1 << 16,
			MinBounds:        [3]float32{-16, 0, -16},
			MaxBounds:        [3]float32{16, 32, 16},
			SolverIterations: DefaultIterations,
			Gravity:          [3]float32{0, -9.8, 0},
			Seed:             1,
		},
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
			Validate: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func vec(a [3]float32) particles.Vec3 {
	return particles.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func (w WorldConfig) particleConfig() particles.Config {
	return particles.Config{
		ParticleRadius:   w.ParticleRadius,
		GridSize:         w.GridSize,
		MaxParticles:     w.MaxParticles,
		MinBounds:        vec(w.MinBounds),
		MaxBounds:        vec(w.MaxBounds),
		SolverIterations: w.SolverIterations,
		Gravity:          vec(w.Gravity),
		Seed:             w.Seed,
	}
}

// Build constructs the system and applies every scene piece in order.
// On any scene error the partially built system is destroyed.
func (c *Config) Build() (*particles.System, error) {
	sys, err := particles.New(c.World.particleConfig())
	if err != nil {
		return nil, err
	}
	for i, sc := range c.Scenes {
		if err := applyScene(sys, sc); err != nil {
			sys.Destroy()
			return nil, fmt.Errorf("scene %d (%s): %w", i, sc.Kind, err)
		}
	}
	return sys, nil
}

func applyScene(sys *particles.System, sc SceneConfig) error {
	switch sc.Kind {
	case "fluid_block":
		color := particles.Color{R: sc.Color[0], G: sc.Color[1], B: sc.Color[2], A: sc.Color[3]}
		return sys.AddFluidBlock(vec(sc.Min), vec(sc.Max), sc.Mass, sc.Density, color)
	case "particle_grid":
		return sys.AddParticleGrid(vec(sc.Min), vec(sc.Max), sc.Mass, sc.Jitter)
	case "rope":
		return sys.AddRope(vec(sc.Start), vec(sc.Step), sc.Rest, sc.Links, sc.Mass, sc.PinStart)
	case "cloth":
		return sys.AddClothSheet(vec(sc.Min), vec(sc.Max), vec(sc.Spacing), sc.Mass, sc.HoldEdges)
	case "sphere_shell":
		return sys.AddStaticSphereShell(vec(sc.Center), sc.Radius, sc.Gap)
	default:
		return fmt.Errorf("unknown scene kind %q", sc.Kind)
	}
}
