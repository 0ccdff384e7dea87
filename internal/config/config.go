// Package config provides configuration management for the document
// translator. Settings live in a JSON file under the user's config
// directory; environment variables fill in missing API credentials.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "doc-translator-config.json"
	// EnvOpenAIAPIKey is the environment variable for the LLM backend API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable for the LLM backend base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"

	// DefaultSourceLang is translated-from language detection mode
	DefaultSourceLang = "auto"
	// DefaultTargetLang is Persian
	DefaultTargetLang = "fa"
	// DefaultBackend is the free Google web endpoint
	DefaultBackend = "google"

	// DefaultMinFontSize is the smallest size the fitting engine may pick
	DefaultMinFontSize = 7.0
	// DefaultMaxFontSize is the largest size the fitting engine explores
	DefaultMaxFontSize = 14.0
	// DefaultLineGap is the baseline advance multiplier
	DefaultLineGap = 1.35

	// DefaultMaxCharsPerChunk bounds a single translation request chunk
	DefaultMaxCharsPerChunk = 450
	// DefaultMinBlockChars is the minimum cleaned length worth translating
	DefaultMinBlockChars = 2

	// DefaultAggMaxChars is the character budget of one aggregated request
	DefaultAggMaxChars = 3800
	// DefaultAggMaxItems is the paragraph budget of one aggregated request
	DefaultAggMaxItems = 32
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a Manager for the given config path. An empty path
// selects the default location in the user's home directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "doc-translator", DefaultConfigFileName)
	}

	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

func defaultConfig() *types.Config {
	return &types.Config{
		SourceLang:       DefaultSourceLang,
		TargetLang:       DefaultTargetLang,
		MinFontSize:      DefaultMinFontSize,
		MaxFontSize:      DefaultMaxFontSize,
		LineGap:          DefaultLineGap,
		MaxCharsPerChunk: DefaultMaxCharsPerChunk,
		MinBlockChars:    DefaultMinBlockChars,
		AggMaxChars:      DefaultAggMaxChars,
		AggMaxItems:      DefaultAggMaxItems,
		Backend:          DefaultBackend,
	}
}

// Load loads configuration from the config file. A missing file or
// invalid JSON falls back to defaults rather than failing.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			m.config = config
		}
	}

	m.applyDefaults()
	return nil
}

// applyDefaults fills zero-valued fields after loading a partial file.
func (m *Manager) applyDefaults() {
	c := m.config
	if c.SourceLang == "" {
		c.SourceLang = DefaultSourceLang
	}
	if c.TargetLang == "" {
		c.TargetLang = DefaultTargetLang
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.MinFontSize <= 0 {
		c.MinFontSize = DefaultMinFontSize
	}
	if c.MaxFontSize <= 0 {
		c.MaxFontSize = DefaultMaxFontSize
	}
	if c.MaxFontSize < c.MinFontSize {
		c.MaxFontSize = c.MinFontSize
	}
	if c.LineGap <= 0 {
		c.LineGap = DefaultLineGap
	}
	if c.MaxCharsPerChunk <= 0 {
		c.MaxCharsPerChunk = DefaultMaxCharsPerChunk
	}
	if c.MinBlockChars <= 0 {
		c.MinBlockChars = DefaultMinBlockChars
	}
	if c.AggMaxChars <= 0 {
		c.AggMaxChars = DefaultAggMaxChars
	}
	if c.AggMaxItems <= 0 {
		c.AggMaxItems = DefaultAggMaxItems
	}
}

// Save saves the current configuration to the config file.
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig replaces the entire configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
	m.applyDefaults()
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetAPIKey returns the LLM backend API key, falling back to the
// environment variable when the config file has none.
func (m *Manager) GetAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// GetBaseURL returns the LLM backend base URL, falling back to the
// environment variable.
func (m *Manager) GetBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" {
		return m.config.OpenAIBaseURL
	}
	return os.Getenv(EnvOpenAIBaseURL)
}
