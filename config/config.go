//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package config reads the editor's settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogFile        string `toml:"log_file"`
	MessageSeconds int    `toml:"message_seconds"`
	QuitTimes      int    `toml:"quit_times"`
	Welcome        bool   `toml:"welcome"`
	Highlight      bool   `toml:"highlight"`
	Debug          bool   `toml:"debug"`
}

func Default() *Config {
	return &Config{
		LogFile:        "~/.kilolog",
		MessageSeconds: 5,
		QuitTimes:      2,
		Welcome:        true,
		Highlight:      true,
	}
}

// DefaultPath returns the config file location under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "kilo", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MessageSeconds < 0 {
		return fmt.Errorf("%w: message_seconds must not be negative, got %d", ErrInvalidConfig, c.MessageSeconds)
	}
	if c.QuitTimes < 1 {
		return fmt.Errorf("%w: quit_times must be at least 1, got %d", ErrInvalidConfig, c.QuitTimes)
	}
	return nil
}

func (c *Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageSeconds) * time.Second
}

// LogPath returns the log file path with a leading ~ expanded.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "~" && !strings.HasPrefix(c.LogFile, "~/") {
		return c.LogFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", c.LogFile, err)
	}
	return filepath.Join(home, strings.TrimPrefix(c.LogFile, "~")), nil
}
