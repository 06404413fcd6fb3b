package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the directory under $HOME holding the config file.
	ConfigDirName = ".coachmd"
	// ConfigFileName is the config file name inside ConfigDirName.
	ConfigFileName = "config.yaml"
)

// envRef matches ${NAME} references in config values.
var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ErrConfigExists is returned by Init when the config file is already there.
var ErrConfigExists = errors.New("config file already exists")

// Loader reads and writes the config file at a fixed path.
type Loader struct {
	dir  string
	path string
}

// NewLoader returns a loader for ~/.coachmd/config.yaml, or for the file
// named by COACHMD_CONFIG when set.
func NewLoader() (*Loader, error) {
	if path := os.Getenv("COACHMD_CONFIG"); path != "" {
		return NewLoaderWithPath(path), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(home, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath returns a loader for an explicit file.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{dir: filepath.Dir(path), path: path}
}

// ConfigPath is the file this loader reads and writes.
func (l *Loader) ConfigPath() string {
	return l.path
}

// Load reads the config with ${ENV} references expanded. A missing file
// yields the defaults.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read(expandEnvVars)
	if err != nil {
		return nil, err
	}
	return expandConfig(cfg), nil
}

// LoadRaw reads the config leaving ${ENV} references in place, for
// commands that write it back.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(nil)
}

// read decodes the file over DefaultConfig so unset keys keep their
// defaults. filter, when non-nil, rewrites the text before decoding.
func (l *Loader) read(filter func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	text := string(data)
	if filter != nil {
		text = filter(text)
	}
	if err := yaml.Unmarshal([]byte(text), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", l.path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the config directory if needed.
func (l *Loader) Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists reports whether the config file is present.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Init writes the defaults. It fails with ErrConfigExists rather than
// overwrite an existing file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("%w: %s", ErrConfigExists, l.path)
	}
	return l.Save(DefaultConfig())
}

// expandEnvVars substitutes ${NAME} with the variable's value. Unset
// variables become empty.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

// expandConfig expands ${VAR} references left in built-in defaults.
func expandConfig(cfg *Config) *Config {
	for name, p := range cfg.Providers {
		p.APIKey = expandEnvVars(p.APIKey)
		p.Endpoint = expandEnvVars(p.Endpoint)
		cfg.Providers[name] = p
	}
	cfg.Extract.APIKey = expandEnvVars(cfg.Extract.APIKey)
	return cfg
}

// ApplyEnv overrides configuration values from COACHMD_* environment
// variables and NO_COLOR.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("COACHMD_PROVIDER"); v != "" {
		cfg.DefaultProvider = v
	}
	if v := os.Getenv("COACHMD_WIDTH"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Render.Width = w
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Render.Color = false
	}
}

// GetEnvOrDefault returns the variable's value, or def when it is unset or
// empty.
func GetEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// GetEnvBool reports whether the variable is "true", "1" or "yes", in any
// case.
func GetEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
