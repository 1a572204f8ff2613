package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rajatverma/testherd/internal/util"
)

const (
	defaultConfigName = ".testherd"
	defaultConfigDir  = ".testherd"

	// DefaultWorkers is the pool size used when none is configured
	DefaultWorkers = 4
)

// Manager handles testherd configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Load loads the testherd configuration from file
// A missing config file is not an error; defaults apply
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.testherd/config.yaml then ~/.testherd.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix("TESTHERD")
	m.viper.AutomaticEnv()

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.applyDefaults()
		return m.config, nil
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// Save writes the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(home, defaultConfigDir)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		m.configPath = filepath.Join(configDir, "config.yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Validate checks the loaded configuration for inconsistencies
func (m *Manager) Validate() error {
	if m.config.Workers < 1 {
		return util.WrapErrorf(util.ErrInvalidConfig, "workers must be >= 1, got %d", m.config.Workers)
	}

	switch m.config.UpdateSnapshots {
	case "", "none", "new", "all":
	default:
		return util.WrapErrorf(util.ErrInvalidConfig,
			"updateSnapshots must be one of none, new, all; got %q", m.config.UpdateSnapshots)
	}

	seen := make(map[string]bool, len(m.config.Projects))
	for i, p := range m.config.Projects {
		if p.Name == "" {
			return util.WrapErrorf(util.ErrInvalidConfig, "projects[%d] has no name", i)
		}
		if seen[p.Name] {
			return util.WrapErrorf(util.ErrInvalidConfig, "duplicate project name %q", p.Name)
		}
		seen[p.Name] = true
		if p.RootDir == "" {
			return util.WrapErrorf(util.ErrInvalidConfig, "project %q has no rootDir", p.Name)
		}
	}

	return nil
}

// ProjectByName looks up a project configuration by name
func (c *Config) ProjectByName(name string) (*Project, bool) {
	for i := range c.Projects {
		if c.Projects[i].Name == name {
			return &c.Projects[i], true
		}
	}
	return nil, false
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Workers == 0 {
		m.config.Workers = DefaultWorkers
	}

	if m.config.UpdateSnapshots == "" {
		m.config.UpdateSnapshots = "none"
	}

	if m.config.OutputFormat == "" {
		m.config.OutputFormat = "table"
	}

	if m.config.Coverage.Enabled && m.config.Coverage.Provider == "" {
		m.config.Coverage.Provider = "profile"
	}

	// Project roots are resolved to absolute paths so coverage filtering can
	// compare entry paths against them directly.
	for i, p := range m.config.Projects {
		if p.RootDir != "" && !filepath.IsAbs(p.RootDir) {
			if abs, err := filepath.Abs(p.RootDir); err == nil {
				m.config.Projects[i].RootDir = abs
			}
		}
		if p.CoverageFile == "" {
			m.config.Projects[i].CoverageFile = "coverage.json"
		}
	}
}
