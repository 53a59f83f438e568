package config

import "sort"

// Presets are named overrides of DefaultConfig. None of them change the
// star or solid count.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Stars.Spread = 18
		c.Stars.Size = 0.02
	},
	"calm": func(c *Config) {
		c.Animation.StarSpinX /= 3
		c.Animation.StarSpinY /= 3
		c.Animation.SolidSpinX /= 3
		c.Animation.SolidSpinY /= 3
		c.Animation.BobAmplitude /= 2
		c.Scene.FogDensity = 0.02
	},
	"minimal": func(c *Config) {
		c.Stars.Opacity = 0.5
		c.Solids.Opacity = 0.3
		c.Viewport.MaxPixelRatio = 1
	},
}

// GetPreset returns a fresh config for name, or nil when it does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
