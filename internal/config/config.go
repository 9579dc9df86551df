package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings: the base directory holds the input folders, the
	// bundled assets, and the output file
	BaseDir   string `yaml:"base_dir"`
	HooksDir  string `yaml:"hooks_dir"`
	DemoDir   string `yaml:"demo_dir"`
	AudioDir  string `yaml:"audio_dir"`
	AssetsDir string `yaml:"assets_dir"`
	Output    string `yaml:"output"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Encoding settings
	Encode EncodeConfig `yaml:"encode"`

	// Text overlay settings
	Overlay OverlayConfig `yaml:"overlay"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

type EncodeConfig struct {
	VideoCodec   string `yaml:"video_codec"`
	AudioCodec   string `yaml:"audio_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type OverlayConfig struct {
	FontFile      string  `yaml:"font_file"`
	FontSize      int     `yaml:"font_size"`
	MarginPercent int     `yaml:"margin_percent"`
	Duration      float64 `yaml:"duration"`
	VolumeDB      float64 `yaml:"volume_db"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		BaseDir:   ".",
		HooksDir:  "hooks",
		DemoDir:   "demo",
		AudioDir:  "audio",
		AssetsDir: "assets",
		Output:    "combined_video_with_audio.mp4",
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
		Encode: EncodeConfig{
			VideoCodec:   "libx264",
			AudioCodec:   "aac",
			Preset:       "fast",
			CRF:          23,
			AudioBitrate: "192k",
		},
		Overlay: OverlayConfig{
			FontFile:      "TikTokDisplay-Medium.ttf",
			FontSize:      75,
			MarginPercent: 5,
			Duration:      5,
			VolumeDB:      -15,
		},
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

func findConfigFile() string {
	candidates := []string{
		"./reelstitch.yaml",
		"./reelstitch.yml",
		filepath.Join(os.Getenv("HOME"), ".reelstitch", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// resolve joins a configured path with the base directory unless absolute
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// HooksPath returns the hook video search directory
func (c *Config) HooksPath() string { return c.resolve(c.HooksDir) }

// DemoPath returns the demo video search directory
func (c *Config) DemoPath() string { return c.resolve(c.DemoDir) }

// AudioPath returns the overlay audio search directory
func (c *Config) AudioPath() string { return c.resolve(c.AudioDir) }

// FontPath returns the bundled font location under the assets directory
func (c *Config) FontPath() string {
	if filepath.IsAbs(c.Overlay.FontFile) {
		return c.Overlay.FontFile
	}
	return filepath.Join(c.resolve(c.AssetsDir), c.Overlay.FontFile)
}

// OutputPath returns the composite output location
func (c *Config) OutputPath() string { return c.resolve(c.Output) }

// TextFilePath returns the fixed-name temporary overlay text file location
func (c *Config) TextFilePath() string { return c.resolve("overlay_text.txt") }

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
