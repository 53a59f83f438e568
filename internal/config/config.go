package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmos/internal/anim"
	"github.com/san-kum/cosmos/internal/procgen"
	"github.com/san-kum/cosmos/internal/scene"
)

const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultTPS           = 60
	DefaultStarCount     = 3000
	DefaultStarSpread    = 30.0
	DefaultSolidCount    = 8
	DefaultMaxPixelRatio = 2.0
	DefaultMaxDeltaMS    = 100
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

type Config struct {
	Seed      int64           `yaml:"seed" toml:"seed"`
	Window    WindowConfig    `yaml:"window" toml:"window"`
	Scene     SceneConfig     `yaml:"scene" toml:"scene"`
	Stars     StarConfig      `yaml:"stars" toml:"stars"`
	Solids    SolidConfig     `yaml:"solids" toml:"solids"`
	Lights    LightsConfig    `yaml:"lights" toml:"lights"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	Viewport  ViewportConfig  `yaml:"viewport" toml:"viewport"`
}

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	TPS    int    `yaml:"tps" toml:"tps"`
}

type SceneConfig struct {
	Background string     `yaml:"background" toml:"background"`
	FogColor   string     `yaml:"fog_color" toml:"fog_color"`
	FogDensity float64    `yaml:"fog_density" toml:"fog_density"`
	FOV        float64    `yaml:"fov" toml:"fov"`
	Near       float64    `yaml:"near" toml:"near"`
	Far        float64    `yaml:"far" toml:"far"`
	Camera     [3]float64 `yaml:"camera" toml:"camera"`
}

type StarConfig struct {
	Count   int     `yaml:"count" toml:"count"`
	Spread  float64 `yaml:"spread" toml:"spread"`
	Color   string  `yaml:"color" toml:"color"`
	Size    float64 `yaml:"size" toml:"size"`
	Opacity float64 `yaml:"opacity" toml:"opacity"`
}

type SolidConfig struct {
	Count             int     `yaml:"count" toml:"count"`
	Radius            float64 `yaml:"radius" toml:"radius"`
	Color             string  `yaml:"color" toml:"color"`
	Emissive          string  `yaml:"emissive" toml:"emissive"`
	EmissiveIntensity float64 `yaml:"emissive_intensity" toml:"emissive_intensity"`
	Metalness         float64 `yaml:"metalness" toml:"metalness"`
	Roughness         float64 `yaml:"roughness" toml:"roughness"`
	Opacity           float64 `yaml:"opacity" toml:"opacity"`
	XYRange           float64 `yaml:"xy_range" toml:"xy_range"`
	ZMin              float64 `yaml:"z_min" toml:"z_min"`
	ZMax              float64 `yaml:"z_max" toml:"z_max"`
	ScaleMin          float64 `yaml:"scale_min" toml:"scale_min"`
	ScaleMax          float64 `yaml:"scale_max" toml:"scale_max"`
}

type LightsConfig struct {
	Ambient AmbientConfig      `yaml:"ambient" toml:"ambient"`
	Points  []PointLightConfig `yaml:"points" toml:"points"`
}

type AmbientConfig struct {
	Color     string  `yaml:"color" toml:"color"`
	Intensity float64 `yaml:"intensity" toml:"intensity"`
}

type PointLightConfig struct {
	Color     string     `yaml:"color" toml:"color"`
	Intensity float64    `yaml:"intensity" toml:"intensity"`
	Distance  float64    `yaml:"distance" toml:"distance"`
	Decay     float64    `yaml:"decay" toml:"decay"`
	Position  [3]float64 `yaml:"position" toml:"position"`
}

type AnimationConfig struct {
	StarSpinX    float64 `yaml:"star_spin_x" toml:"star_spin_x"`
	StarSpinY    float64 `yaml:"star_spin_y" toml:"star_spin_y"`
	SolidSpinX   float64 `yaml:"solid_spin_x" toml:"solid_spin_x"`
	SolidSpinY   float64 `yaml:"solid_spin_y" toml:"solid_spin_y"`
	BobAmplitude float64 `yaml:"bob_amplitude" toml:"bob_amplitude"`
	PhaseClock   string  `yaml:"phase_clock" toml:"phase_clock"`
	MaxDeltaMS   int     `yaml:"max_delta_ms" toml:"max_delta_ms"`
}

type ViewportConfig struct {
	MaxPixelRatio float64 `yaml:"max_pixel_ratio" toml:"max_pixel_ratio"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "cosmos",
			Width:  DefaultWidth,
			Height: DefaultHeight,
			TPS:    DefaultTPS,
		},
		Scene: SceneConfig{
			Background: "#050505",
			FogColor:   "#050505",
			FogDensity: 0.002,
			FOV:        75,
			Near:       0.1,
			Far:        1000,
			Camera:     [3]float64{0, 0, 5},
		},
		Stars: StarConfig{
			Count:   DefaultStarCount,
			Spread:  DefaultStarSpread,
			Color:   "#ffffff",
			Size:    0.015,
			Opacity: 0.8,
		},
		Solids: SolidConfig{
			Count:             DefaultSolidCount,
			Radius:            1,
			Color:             "#220033",
			Emissive:          "#4b0082",
			EmissiveIntensity: 0.2,
			Metalness:         0.9,
			Roughness:         0.1,
			Opacity:           0.5,
			XYRange:           15,
			ZMin:              -7,
			ZMax:              3,
			ScaleMin:          0.2,
			ScaleMax:          1.0,
		},
		Lights: LightsConfig{
			Ambient: AmbientConfig{Color: "#404040", Intensity: 2},
			Points: []PointLightConfig{
				{Color: "#a855f7", Intensity: 2, Distance: 20, Decay: 2, Position: [3]float64{5, 5, 5}},
				{Color: "#3b82f6", Intensity: 2, Distance: 20, Decay: 2, Position: [3]float64{-5, -5, 5}},
			},
		},
		Animation: AnimationConfig{
			StarSpinX:    0.0001,
			StarSpinY:    0.0003,
			SolidSpinX:   0.002,
			SolidSpinY:   0.003,
			BobAmplitude: 0.005,
			PhaseClock:   string(anim.FrameClock),
			MaxDeltaMS:   DefaultMaxDeltaMS,
		},
		Viewport: ViewportConfig{MaxPixelRatio: DefaultMaxPixelRatio},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Lights.Points = append([]PointLightConfig(nil), c.Lights.Points...)
	return &out
}

// Load reads a YAML or TOML file over the defaults. The format follows the
// file extension; anything but .toml is read as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks every field the surface depends on.
func (c *Config) Validate() error {
	positive := []struct {
		field string
		v     float64
	}{
		{"window.width", float64(c.Window.Width)},
		{"window.height", float64(c.Window.Height)},
		{"window.tps", float64(c.Window.TPS)},
		{"scene.fov", c.Scene.FOV},
		{"scene.near", c.Scene.Near},
		{"stars.count", float64(c.Stars.Count)},
		{"stars.spread", c.Stars.Spread},
		{"stars.size", c.Stars.Size},
		{"solids.count", float64(c.Solids.Count)},
		{"solids.radius", c.Solids.Radius},
		{"solids.scale_min", c.Solids.ScaleMin},
		{"viewport.max_pixel_ratio", c.Viewport.MaxPixelRatio},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return &ValidationError{Field: p.field, Reason: "must be positive"}
		}
	}
	if c.Stars.Count != DefaultStarCount {
		return &ValidationError{Field: "stars.count", Reason: fmt.Sprintf("must be %d", DefaultStarCount)}
	}
	if c.Solids.Count != DefaultSolidCount {
		return &ValidationError{Field: "solids.count", Reason: fmt.Sprintf("must be %d", DefaultSolidCount)}
	}
	if c.Scene.Far <= c.Scene.Near {
		return &ValidationError{Field: "scene.far", Reason: "must exceed scene.near"}
	}
	if c.Scene.FOV >= 180 {
		return &ValidationError{Field: "scene.fov", Reason: "must be below 180 degrees"}
	}
	if c.Scene.FogDensity < 0 {
		return &ValidationError{Field: "scene.fog_density", Reason: "must not be negative"}
	}
	if c.Solids.ScaleMax < c.Solids.ScaleMin {
		return &ValidationError{Field: "solids.scale_max", Reason: "must not be below scale_min"}
	}
	if c.Solids.ZMax < c.Solids.ZMin {
		return &ValidationError{Field: "solids.z_max", Reason: "must not be below z_min"}
	}
	for _, o := range []struct {
		field string
		v     float64
	}{
		{"stars.opacity", c.Stars.Opacity},
		{"solids.opacity", c.Solids.Opacity},
		{"solids.metalness", c.Solids.Metalness},
		{"solids.roughness", c.Solids.Roughness},
	} {
		if o.v < 0 || o.v > 1 {
			return &ValidationError{Field: o.field, Reason: "must be within [0, 1]"}
		}
	}

	colors := map[string]string{
		"scene.background":     c.Scene.Background,
		"scene.fog_color":      c.Scene.FogColor,
		"stars.color":          c.Stars.Color,
		"solids.color":         c.Solids.Color,
		"solids.emissive":      c.Solids.Emissive,
		"lights.ambient.color": c.Lights.Ambient.Color,
	}
	for i, p := range c.Lights.Points {
		colors[fmt.Sprintf("lights.points[%d].color", i)] = p.Color
	}
	for field, v := range colors {
		if _, err := scene.ParseHex(v); err != nil {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("is not a colour: %q", v)}
		}
	}
	if _, err := anim.ParsePhaseClock(c.Animation.PhaseClock); err != nil {
		return &ValidationError{Field: "animation.phase_clock", Reason: "must be frame or wall"}
	}
	return nil
}

func mustColor(s string) scene.Color {
	c, err := scene.ParseHex(s)
	if err != nil {
		return scene.Color{}
	}
	return c
}

func vec(v [3]float64) scene.Vec3 { return scene.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// SceneSettings returns the scene construction parameters.
func (c *Config) SceneSettings() scene.Settings {
	return scene.Settings{
		Background: mustColor(c.Scene.Background),
		Fog:        scene.FogExp2{Color: mustColor(c.Scene.FogColor), Density: c.Scene.FogDensity},
		FOV:        c.Scene.FOV,
		Near:       c.Scene.Near,
		Far:        c.Scene.Far,
		CameraPos:  vec(c.Scene.Camera),
	}
}

func (c *Config) StarStyle() procgen.StarStyle {
	return procgen.StarStyle{
		Color:   mustColor(c.Stars.Color),
		Size:    c.Stars.Size,
		Opacity: c.Stars.Opacity,
	}
}

func (c *Config) SolidStyle() procgen.SolidStyle {
	return procgen.SolidStyle{
		Radius:            float32(c.Solids.Radius),
		Color:             mustColor(c.Solids.Color),
		Emissive:          mustColor(c.Solids.Emissive),
		EmissiveIntensity: c.Solids.EmissiveIntensity,
		Metalness:         c.Solids.Metalness,
		Roughness:         c.Solids.Roughness,
		Opacity:           c.Solids.Opacity,
	}
}

func (c *Config) Placement() procgen.Placement {
	h := c.Solids.XYRange / 2
	return procgen.Placement{
		Box: procgen.Bounds{
			Min: scene.Vec3{X: -h, Y: -h, Z: c.Solids.ZMin},
			Max: scene.Vec3{X: h, Y: h, Z: c.Solids.ZMax},
		},
		MaxAngle: math.Pi,
		MinScale: c.Solids.ScaleMin,
		MaxScale: c.Solids.ScaleMax,
	}
}

// SceneLights builds the ambient light followed by the point lights.
func (c *Config) SceneLights() []scene.Light {
	ls := []scene.Light{&scene.AmbientLight{
		Name:      "ambient",
		Color:     mustColor(c.Lights.Ambient.Color),
		Intensity: c.Lights.Ambient.Intensity,
	}}
	for i, p := range c.Lights.Points {
		ls = append(ls, &scene.PointLight{
			Name:      fmt.Sprintf("point-%d", i),
			Color:     mustColor(p.Color),
			Intensity: p.Intensity,
			Distance:  p.Distance,
			Decay:     p.Decay,
			Position:  vec(p.Position),
		})
	}
	return ls
}

func (c *Config) AnimConfig() anim.Config {
	clock, err := anim.ParsePhaseClock(c.Animation.PhaseClock)
	if err != nil {
		clock = anim.FrameClock
	}
	return anim.Config{
		StarSpinX:    c.Animation.StarSpinX,
		StarSpinY:    c.Animation.StarSpinY,
		SolidSpinX:   c.Animation.SolidSpinX,
		SolidSpinY:   c.Animation.SolidSpinY,
		BobAmplitude: c.Animation.BobAmplitude,
		PhaseClock:   clock,
		MaxDelta:     time.Duration(c.Animation.MaxDeltaMS) * time.Millisecond,
	}
}
