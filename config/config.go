// Package config loads the YAML configuration that drives the flock scene. Every field has a default, so a
// missing file or a partial document is valid.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Parameter panel limits. Counts and spreads outside these ranges are clamped by the panel and
// rejected by Validate.
const (
	MinCount  = 10
	MaxCount  = 500
	MinSpread = 0
	MaxSpread = 1000
)

var (
	errNoAssets      = errors.New("scene.assets must name at least one model")
	errPaletteLength = errors.New("theme.palette must hold exactly 4 colors")
	errEmptyColor    = errors.New("color must not be empty")
)

// Config represents the full application configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Render    RenderConfig    `yaml:"render"`
	Scene     SceneConfig     `yaml:"scene"`
	Particles ParticlesConfig `yaml:"particles"`
	Camera    CameraConfig    `yaml:"camera"`
	Theme     ThemeConfig     `yaml:"theme"`
	Panel     PanelConfig     `yaml:"panel"`
	LogLevel  string          `yaml:"log_level"`
}

// WindowConfig contains host window configuration.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RenderConfig contains renderer and loop configuration.
type RenderConfig struct {
	VSync         bool `yaml:"vsync"`
	Antialias     bool `yaml:"antialias"` // 4x MSAA
	ForceSoftware bool `yaml:"force_software"`
	TickRate      int  `yaml:"tick_rate"` // ticks per second for the headless loop
	Profiling     bool `yaml:"profiling"`
}

// SceneConfig contains the flock assets and initial regeneration parameters.
type SceneConfig struct {
	Assets         map[string]string `yaml:"assets"` // model name -> .gltf/.glb path
	SpriteTexture  string            `yaml:"sprite_texture"`
	RampTexture    string            `yaml:"ramp_texture"`
	Count          int               `yaml:"count"`
	Spread         [3]int            `yaml:"spread"`
	Seed           uint64            `yaml:"seed"` // 0 means random
	Sections       int               `yaml:"sections"`
	ObjectDistance float32           `yaml:"object_distance"`
}

// ParticlesConfig contains the static particle field configuration.
type ParticlesConfig struct {
	Count  int     `yaml:"count"`
	Spread float32 `yaml:"spread"`
}

// CameraConfig contains camera and parallax rig configuration.
type CameraConfig struct {
	FovDegrees   float32 `yaml:"fov_degrees"`
	Distance     float32 `yaml:"distance"`
	ParallaxGain float32 `yaml:"parallax_gain"`
	Smoothing    float32 `yaml:"smoothing"`
	MaxDelta     float32 `yaml:"max_delta"`
}

// ThemeConfig contains the colors and per-tick motion of the two themes. Colors are hex strings.
type ThemeConfig struct {
	Palette        []string    `yaml:"palette"`
	Light          ThemeColors `yaml:"light"`
	Dark           ThemeColors `yaml:"dark"`
	DriftStep      float32     `yaml:"drift_step"`
	RotationJitter float32     `yaml:"rotation_jitter"`
}

// ThemeColors holds the colors of one theme. An empty Model color restores each instance's palette color.
type ThemeColors struct {
	Model      string `yaml:"model"`
	Particle   string `yaml:"particle"`
	Label      string `yaml:"label"`
	Background string `yaml:"background"`
}

// PanelConfig contains the parameter panel configuration.
type PanelConfig struct {
	ParamsFile string `yaml:"params_file"` // optional YAML file watched for committed parameters
}

// Default creates the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "oxy-flock",
			Width:  1280,
			Height: 720,
		},
		Render: RenderConfig{
			VSync:     true,
			Antialias: true,
			TickRate:  60,
		},
		Scene: SceneConfig{
			Assets: map[string]string{
				"usagi": "assets/usagi.glb",
				"star":  "assets/star.glb",
				"heart": "assets/heart.glb",
			},
			SpriteTexture:  "assets/textures/alphaMap.png",
			RampTexture:    "assets/textures/fiveTone.jpg",
			Count:          100,
			Spread:         [3]int{500, 30, 30},
			Sections:       3,
			ObjectDistance: 4,
		},
		Particles: ParticlesConfig{
			Count:  200,
			Spread: 10,
		},
		Camera: CameraConfig{
			FovDegrees:   35,
			Distance:     6,
			ParallaxGain: 0.5,
			Smoothing:    5,
			MaxDelta:     0.1,
		},
		Theme: ThemeConfig{
			Palette: []string{"#ffb5c2", "#ffd59e", "#b5e8ff", "#c9b5ff"},
			Light: ThemeColors{
				Particle:   "#ffeded",
				Label:      "#1e1e1e",
				Background: "#fdf0f5",
			},
			Dark: ThemeColors{
				Model:      "#6b5bd2",
				Particle:   "#ffd27f",
				Label:      "#f5f5f5",
				Background: "#0b0b1a",
			},
			DriftStep:      0.02,
			RotationJitter: 0.01,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration from a YAML file over the defaults. A missing file yields the defaults.
//
// Parameters:
//   - path: the YAML file path
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	// yaml merges into a non-nil map, so a file listing its own assets would inherit the defaults.
	defaultAssets := cfg.Scene.Assets
	cfg.Scene.Assets = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	if cfg.Scene.Assets == nil {
		cfg.Scene.Assets = defaultAssets
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks ranges and color strings.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Render.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("render.tick_rate must be positive, got %d", c.Render.TickRate))
	}
	if len(c.Scene.Assets) == 0 {
		errs = append(errs, errNoAssets)
	}
	if c.Scene.Count < MinCount || c.Scene.Count > MaxCount {
		errs = append(errs, fmt.Errorf("scene.count must be in [%d, %d], got %d", MinCount, MaxCount, c.Scene.Count))
	}
	for i, s := range c.Scene.Spread {
		if s < MinSpread || s > MaxSpread {
			errs = append(errs, fmt.Errorf("scene.spread[%d] must be in [%d, %d], got %d", i, MinSpread, MaxSpread, s))
		}
	}
	if c.Scene.Sections < 1 {
		errs = append(errs, fmt.Errorf("scene.sections must be at least 1, got %d", c.Scene.Sections))
	}
	if c.Particles.Count < 0 {
		errs = append(errs, fmt.Errorf("particles.count must not be negative, got %d", c.Particles.Count))
	}
	if c.Camera.Smoothing <= 0 {
		errs = append(errs, fmt.Errorf("camera.smoothing must be positive, got %g", c.Camera.Smoothing))
	}
	if c.Camera.MaxDelta <= 0 {
		errs = append(errs, fmt.Errorf("camera.max_delta must be positive, got %g", c.Camera.MaxDelta))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees must be in (0, 180), got %g", c.Camera.FovDegrees))
	}
	if len(c.Theme.Palette) != 4 {
		errs = append(errs, errPaletteLength)
	}
	for _, hex := range c.colorStrings() {
		if _, err := colorful.Hex(hex); err != nil {
			errs = append(errs, fmt.Errorf("invalid color %q: %w", hex, err))
		}
	}
	for _, tc := range []struct {
		name   string
		colors ThemeColors
	}{{"light", c.Theme.Light}, {"dark", c.Theme.Dark}} {
		if tc.colors.Particle == "" {
			errs = append(errs, fmt.Errorf("theme.%s.particle: %w", tc.name, errEmptyColor))
		}
		if tc.colors.Label == "" {
			errs = append(errs, fmt.Errorf("theme.%s.label: %w", tc.name, errEmptyColor))
		}
		if tc.colors.Background == "" {
			errs = append(errs, fmt.Errorf("theme.%s.background: %w", tc.name, errEmptyColor))
		}
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// AssetNames returns the configured model names in sorted order.
func (c *Config) AssetNames() []string {
	names := make([]string, 0, len(c.Scene.Assets))
	for name := range c.Scene.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// colorStrings lists every non-empty color in the theme section. An empty model color defers to the palette.
func (c *Config) colorStrings() []string {
	out := append([]string(nil), c.Theme.Palette...)
	for _, tc := range []ThemeColors{c.Theme.Light, c.Theme.Dark} {
		for _, s := range []string{tc.Model, tc.Particle, tc.Label, tc.Background} {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
