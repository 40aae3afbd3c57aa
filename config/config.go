// Package config loads and saves the application YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/tempo"
)

// DefaultPath is the config file read when no -config flag is given
const DefaultPath = "fingerpath.yaml"

var ErrInvalid = errors.New("invalid config")

type Sound struct {
	Enabled bool    `yaml:"enabled"`
	Gain    float64 `yaml:"gain"` // 0..1, multiplies click gain
}

type Server struct {
	Addr          string        `yaml:"addr"`
	WriteDeadline time.Duration `yaml:"write_deadline"`
}

type Config struct {
	Engine engine.Settings `yaml:"engine"`
	Sound  Sound           `yaml:"sound"`
	Server Server          `yaml:"server"`

	FrameInterval time.Duration `yaml:"frame_interval"`
	DBPath        string        `yaml:"db_path"`      // empty disables persistence
	LessonsPath   string        `yaml:"lessons_path"` // empty uses lessons.yaml or the embedded catalog
	Lesson        string        `yaml:"lesson,omitempty"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		Engine: engine.DefaultSettings(),
		Sound:  Sound{Enabled: true, Gain: 1},
		Server: Server{
			Addr:          ":8080",
			WriteDeadline: 200 * time.Millisecond,
		},
		FrameInterval: 16 * time.Millisecond,
		DBPath:        "fingerpath.db",
	}
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval %v must be positive", c.FrameInterval))
	}
	if c.Sound.Gain < 0 || c.Sound.Gain > 1 {
		errs = append(errs, fmt.Errorf("sound.gain %v outside 0..1", c.Sound.Gain))
	}
	if c.Engine.NumFingers < 1 || c.Engine.NumFingers > tempo.MaxFingers {
		errs = append(errs, fmt.Errorf("engine.num_fingers %d outside 1..%d", c.Engine.NumFingers, tempo.MaxFingers))
	}
	if c.Engine.TempoBPM <= 0 {
		errs = append(errs, fmt.Errorf("engine.tempo_bpm %v must be positive", c.Engine.TempoBPM))
	}
	if c.Engine.Speed <= 0 {
		errs = append(errs, fmt.Errorf("engine.speed %v must be positive", c.Engine.Speed))
	}
	if c.Engine.NumMountains < 1 {
		errs = append(errs, fmt.Errorf("engine.num_mountains %d must be at least 1", c.Engine.NumMountains))
	}
	if c.Server.WriteDeadline <= 0 {
		errs = append(errs, fmt.Errorf("server.write_deadline %v must be positive", c.Server.WriteDeadline))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Load reads path over the defaults, so missing keys keep stock values
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault returns defaults when path does not exist
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
