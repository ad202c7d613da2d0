package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Type    string   `toml:"type"`
	BaseURL string   `toml:"base_url,omitempty"`
	Model   string   `toml:"model"`
	Models  []string `toml:"models"`
}

type ResearchConfig struct {
	ToolTimeout       string `toml:"tool_timeout"`
	UserAgent         string `toml:"user_agent"`
	WikipediaLanguage string `toml:"wikipedia_language"`
}

type SecurityConfig struct {
	Method     string `toml:"method"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Provider        ProviderConfig `toml:"provider"`
	Research        ResearchConfig `toml:"research"`
	Security        SecurityConfig `toml:"security"`
	ReportDirectory string         `toml:"report_directory"`
}

type Config struct {
	DataDirectory     string
	ProviderType      string
	BaseURL           string
	DefaultModel      string
	ModelChoices      []string
	ToolTimeout       time.Duration
	UserAgent         string
	WikipediaLanguage string
	ReportDirectory   string

	CredentialStore *CredentialStore
	KeyBindings     *KeyBindingsConfig

	// envAPIKey takes precedence over the credential store when set.
	envAPIKey string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) Model() string {
	return c.DefaultModel
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) ReportDir() string {
	return ExpandPath(c.ReportDirectory)
}

// APIKey returns the credential for the configured provider, or "" if none
// is available.
func (c *Config) APIKey() string {
	if c.envAPIKey != "" {
		return c.envAPIKey
	}
	if c.CredentialStore != nil {
		return c.CredentialStore.Get(c.ProviderType)
	}
	return ""
}

// RequiresAPIKey reports whether the configured provider needs a credential.
func (c *Config) RequiresAPIKey() bool {
	return c.ProviderType != ProviderOllama
}

// Validate checks the startup preconditions. A missing credential for a cloud
// provider returns ErrMissingAPIKey and the program must not proceed.
func (c *Config) Validate() error {
	if !IsKnownProvider(c.ProviderType) {
		return fmt.Errorf("unknown provider type: %q", c.ProviderType)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("no model configured")
	}
	if c.RequiresAPIKey() && c.APIKey() == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("RTUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if model := os.Getenv("RTUI_MODEL"); model != "" {
		c.DefaultModel = model
	}
	c.envAPIKey = envAPIKey(c.ProviderType)
}

func envAPIKey(providerType string) string {
	if key := os.Getenv("RTUI_API_KEY"); key != "" {
		return key
	}
	switch providerType {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func CheckDebug() bool {
	debug := os.Getenv("RTUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: tool arguments and model output end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (RTUI_DEBUG=%s) ===", os.Getenv("RTUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	defaults := DefaultUserConfig()
	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}
	if dataDir := os.Getenv("RTUI_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := cfg.applyUserConfig(userCfg, defaults); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	store := NewCredentialStore(SecurityMethod(userCfg.Security.Method), ExpandPath(userCfg.Security.SSHKeyPath))
	if store.method == "" {
		store.method = SecurityPlainText
	}
	if passphrase := os.Getenv("RTUI_SSH_PASSPHRASE"); passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	// An unreadable store is not fatal when the key comes from the environment.
	if err := store.Load(dataDir); err != nil {
		if cfg.envAPIKey == "" {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		if DebugLog != nil {
			DebugLog.Printf("[Config] Ignoring credential store error (env key set): %v", err)
		}
	}
	cfg.CredentialStore = store

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, err
	}
	cfg.KeyBindings = kb

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg, defaults *UserConfig) error {
	configured := firstNonEmpty(userCfg.Provider.Type, defaults.Provider.Type)
	c.ProviderType = firstNonEmpty(os.Getenv("RTUI_PROVIDER"), configured)
	if c.ProviderType == configured {
		c.BaseURL = userCfg.Provider.BaseURL
		c.ModelChoices = userCfg.Provider.Models
		c.DefaultModel = userCfg.Provider.Model
	}
	if len(c.ModelChoices) == 0 {
		c.ModelChoices = ModelChoicesFor(c.ProviderType)
	}
	if c.DefaultModel == "" && len(c.ModelChoices) > 0 {
		c.DefaultModel = c.ModelChoices[0]
	}

	timeout, err := ParseToolTimeout(firstNonEmpty(userCfg.Research.ToolTimeout, defaults.Research.ToolTimeout))
	if err != nil {
		return err
	}
	c.ToolTimeout = timeout
	c.UserAgent = firstNonEmpty(userCfg.Research.UserAgent, defaults.Research.UserAgent)
	c.WikipediaLanguage = firstNonEmpty(userCfg.Research.WikipediaLanguage, defaults.Research.WikipediaLanguage)
	c.ReportDirectory = firstNonEmpty(userCfg.ReportDirectory, defaults.ReportDirectory)
	return nil
}

// ParseToolTimeout parses the research.tool_timeout value. "0s" disables the
// per-call timeout.
func ParseToolTimeout(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid research.tool_timeout %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid research.tool_timeout %q: must not be negative", value)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
