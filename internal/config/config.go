package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Gemini contains settings for the hosted video analysis API.
type Gemini struct {
	APIKey                string   `toml:"api_key"`
	Model                 string   `toml:"model"`
	BaseURL               string   `toml:"base_url"`
	AllowedHosts          []string `toml:"allowed_hosts"`
	PollIntervalSeconds   int      `toml:"poll_interval_seconds"`
	RequestTimeoutMinutes int      `toml:"request_timeout_minutes"`
}

// FFmpeg contains the encoder binaries used for trimming.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

type Output struct {
	TrimDir string `toml:"trim_dir"`
}

type Config struct {
	Gemini Gemini `toml:"gemini"`
	FFmpeg FFmpeg `toml:"ffmpeg"`
	Output Output `toml:"output"`
}

func Default() Config {
	return Config{
		Gemini: Gemini{
			Model:                 "gemini-2.5-pro",
			PollIntervalSeconds:   2,
			RequestTimeoutMinutes: 30,
		},
		FFmpeg: FFmpeg{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Output: Output{
			TrimDir: ".",
		},
	}
}

func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/vidscope/config.toml")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing default file yields defaults; a missing explicit file is
// an error. Environment overrides are applied on top.
func Load(path string, getenv func(string) string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if strings.TrimSpace(path) != "" && !exists {
		return nil, "", false, fmt.Errorf("config file %s does not exist", resolvedPath)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if getenv != nil {
		cfg.applyEnv(getenv)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	set(&c.Gemini.Model, "GEMINI_MODEL")
	set(&c.Gemini.BaseURL, "GEMINI_BASE_URL")
	set(&c.FFmpeg.FFmpegPath, "FFMPEG_PATH")
	set(&c.FFmpeg.FFprobePath, "FFPROBE_PATH")
	if v := strings.TrimSpace(getenv("GEMINI_ALLOWED_HOSTS")); v != "" {
		c.Gemini.AllowedHosts = strings.Split(v, ",")
	}
}

func (c *Config) normalize() {
	d := Default()
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	c.Gemini.BaseURL = strings.TrimSpace(c.Gemini.BaseURL)
	if c.Gemini.PollIntervalSeconds == 0 {
		c.Gemini.PollIntervalSeconds = d.Gemini.PollIntervalSeconds
	}
	if c.Gemini.RequestTimeoutMinutes == 0 {
		c.Gemini.RequestTimeoutMinutes = d.Gemini.RequestTimeoutMinutes
	}
	if strings.TrimSpace(c.FFmpeg.FFmpegPath) == "" {
		c.FFmpeg.FFmpegPath = d.FFmpeg.FFmpegPath
	}
	if strings.TrimSpace(c.FFmpeg.FFprobePath) == "" {
		c.FFmpeg.FFprobePath = d.FFmpeg.FFprobePath
	}
	if strings.TrimSpace(c.Output.TrimDir) == "" {
		c.Output.TrimDir = d.Output.TrimDir
	}
}

func (c *Config) Validate() error {
	if c.Gemini.PollIntervalSeconds < 0 {
		return errors.New("gemini.poll_interval_seconds must be > 0")
	}
	if c.Gemini.RequestTimeoutMinutes < 0 {
		return errors.New("gemini.request_timeout_minutes must be > 0")
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = def
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the commented sample configuration to path. An
// existing file is left alone.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
