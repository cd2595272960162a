package config

import "sort"

// Presets are ready-made scenarios for the CLI and the GUI menu. Each
// starts from DefaultConfig's world unless it says otherwise.
var Presets = map[string]*Config{
	"dam-break": {
		World: defaultWorld(),
		Scenes: []SceneConfig{
			{
				Kind: "fluid_block",
				Min:  [3]float32{-15, 0.5, -15}, Max: [3]float32{-5, 12, -5},
				Mass: 1, Density: 1,
				Color: [4]float32{0.2, 0.5, 1, 1},
			},
		},
		Run: RunConfig{Dt: DefaultDt, Duration: 10, Validate: true},
	},
	"cloth-drape": {
		World: defaultWorld(),
		Scenes: []SceneConfig{
			{
				Kind:   "sphere_shell",
				Center: [3]float32{0, 5, 0}, Radius: 3, Gap: 0.5,
			},
			{
				Kind: "cloth",
				Min:  [3]float32{-4, 10, -4}, Max: [3]float32{4, 10, 4},
				Spacing: [3]float32{0.55, 0, 0.55},
				Mass:    1,
			},
		},
		Run: RunConfig{Dt: DefaultDt, Duration: 8, Validate: true},
	},
	"rope-swing": {
		World: defaultWorld(),
		Scenes: []SceneConfig{
			{
				Kind:  "rope",
				Start: [3]float32{0, 24, 0}, Step: [3]float32{0.55, 0, 0},
				Rest: 0.5, Links: 25, Mass: 1, PinStart: true,
			},
		},
		Run: RunConfig{Dt: DefaultDt, Duration: 12, Validate: true},
	},
	"ball-pit": {
		World: defaultWorld(),
		Scenes: []SceneConfig{
			{
				Kind: "particle_grid",
				Min:  [3]float32{-8, 0.5, -8}, Max: [3]float32{8, 6, 8},
				Mass: 1, Jitter: true,
			},
		},
		Run: RunConfig{Dt: DefaultDt, Duration: 6, Validate: true},
	},
	"shell-splash": {
		World: defaultWorld(),
		Scenes: []SceneConfig{
			{
				Kind:   "sphere_shell",
				Center: [3]float32{0, 4, 0}, Radius: 4, Gap: 0.5,
			},
			{
				Kind: "fluid_block",
				Min:  [3]float32{-3, 14, -3}, Max: [3]float32{3, 20, 3},
				Mass: 1, Density: 1,
				Color: [4]float32{0.2, 0.7, 0.9, 1},
			},
		},
		Run: RunConfig{Dt: DefaultDt, Duration: 10, Validate: true},
	},
}

func defaultWorld() WorldConfig {
	return DefaultConfig().World
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
