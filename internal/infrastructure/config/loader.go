// Package config loads the application configuration from app.json,
// SCENEKIT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the configuration file read from the loader's filesystem
const FileName = "app.json"

// EnvPrefix prefixes environment overrides, e.g. SCENEKIT_DISPLAY_FRAMERATE
const EnvPrefix = "SCENEKIT"

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

// flag name -> config key
var flagKeys = map[string]string{
	"backend":      "backend",
	"fps":          "display.framerate",
	"scale":        "display.scale",
	"start":        "startScene",
	"log-level":    "log.level",
	"dev":          "log.development",
	"metrics-addr": "metrics.address",
	"record":       "record",
	"replay":       "replay",
}

// Loader loads the app configuration using the fs.FS interface
type Loader struct {
	fsys fs.FS
	v    *viper.Viper
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return NewFSLoader(os.DirFS(basePath))
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS) *Loader {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{fsys: fsys, v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display.width", 320)
	v.SetDefault("display.height", 240)
	v.SetDefault("display.scale", 2)
	v.SetDefault("display.framerate", 60)
	v.SetDefault("display.title", "scenekit")
	v.SetDefault("backend", BackendEbiten)
	v.SetDefault("startScene", "")
	v.SetDefault("cancelKeys", []string{"Escape"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("metrics.address", "")
	v.SetDefault("record", "")
	v.SetDefault("replay", "")
}

// RegisterFlags defines the command-line flags that override configuration
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("backend", BackendEbiten, "host backend: ebiten, terminal or headless")
	flags.Int("fps", 60, "frames per second")
	flags.Int("scale", 2, "window scale")
	flags.String("start", "", "starting scene key")
	flags.String("log-level", "info", "log level")
	flags.Bool("dev", false, "development logging")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")
	flags.String("record", "", "record input to this file")
	flags.String("replay", "", "replay input from this file")
}

// BindFlags makes flags registered with RegisterFlags override the file and
// the environment. Unknown flags are ignored.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads app.json and applies overrides. A missing file leaves the
// defaults in place.
func (l *Loader) Load() (*AppConfig, error) {
	data, err := fs.ReadFile(l.fsys, FileName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	default:
		if err := l.v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	}

	var cfg AppConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and names
func (c *AppConfig) Validate() error {
	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display size %dx%d: %w", d.Width, d.Height, ErrInvalidConfig)
	}
	if d.Scale <= 0 {
		return fmt.Errorf("display scale %d: %w", d.Scale, ErrInvalidConfig)
	}
	if d.Framerate <= 0 {
		return fmt.Errorf("framerate %d: %w", d.Framerate, ErrInvalidConfig)
	}
	if !slices.Contains([]string{BackendEbiten, BackendTerminal, BackendHeadless}, c.Backend) {
		return fmt.Errorf("backend %q: %w", c.Backend, ErrInvalidConfig)
	}
	if c.Backend == BackendHeadless && c.Replay == "" {
		return fmt.Errorf("headless backend needs a replay file: %w", ErrInvalidConfig)
	}
	if _, err := c.CancelKeyCodes(); err != nil {
		return err
	}
	return nil
}

// CancelKeyCodes resolves the configured cancel key names, e.g. "Escape"
// or "F10"
func (c *AppConfig) CancelKeyCodes() ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(c.CancelKeys))
	for _, name := range c.CancelKeys {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("cancel key %q: %w", name, ErrInvalidConfig)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
