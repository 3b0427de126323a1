// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration, persisted as TOML under the
// user's config directory.
type Config struct {
	API     APIConfig      `toml:"api"`
	Courses []CourseConfig `toml:"courses"`
}

// APIConfig holds the connection settings for the remote LMS.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	UserID  int64  `toml:"userid"`
}

// CourseConfig selects one course to mirror and where its output lands.
type CourseConfig struct {
	ID        int64  `toml:"id"`
	ShortName string `toml:"shortname,omitempty"`
	Dir       string `toml:"dir,omitempty"`
}

// Load reads the config file from the default location.
func Load() (*Config, error) {
	return LoadFrom(File())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no config at %s (run 'mdlmirror init' first): %w", path, err)
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.API.BaseURL == "" || cfg.API.Token == "" {
		return nil, fmt.Errorf("config %s is missing api.base_url or api.token", path)
	}
	return &cfg, nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	return c.SaveTo(File())
}

// SaveTo writes the config as TOML to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Course returns the configured course with the given id, or nil.
func (c *Config) Course(id int64) *CourseConfig {
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			return &c.Courses[i]
		}
	}
	return nil
}

// CourseDir resolves where a course's rendered output and downloads land:
// the configured dir joined with the course shortname, under the user's home
// when the dir is relative.
func (c *Config) CourseDir(id int64) string {
	course := c.Course(id)
	base, err := os.UserHomeDir()
	if err != nil {
		base = "."
	}
	if course == nil {
		return filepath.Join(base, "courses", fmt.Sprintf("course-%d", id))
	}
	dir := course.Dir
	if dir == "" {
		dir = "courses"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	name := course.ShortName
	if name == "" {
		name = fmt.Sprintf("course-%d", id)
	}
	return filepath.Join(dir, name)
}
