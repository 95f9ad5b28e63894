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

	"github.com/spf13/viper"
)

// Environment variables recognised by the CLI.
const (
	LinearAPIKeyEnv = "LINEAR_API_KEY"
	APIEndpointEnv  = "LINEAR_API_ENDPOINT"
	LogFileEnv      = "LINEAR_LOG_FILE"
	LogLevelEnv     = "LINEAR_LOG_LEVEL"
	TimeoutEnv      = "LINEAR_TIMEOUT"
	PageSizeEnv     = "LINEAR_PAGE_SIZE"
	EditorEnv       = "EDITOR"
)

const (
	DefaultAPIURL   = "https://api.linear.app/graphql"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 100
	DefaultLogLevel = "warning"
)

const (
	configDirName    = "linear-cli"
	configFileName   = "config.json"
	defaultsFileName = ".linear-cli-defaults.json"

	keyAPIKey      = "apiKey"
	keyAPIEndpoint = "apiEndpoint"
	keyLogFile     = "logFile"
	keyLogLevel    = "logLevel"
	keyTimeout     = "timeout"
	keyPageSize    = "pageSize"
	keyEditor      = "editor"

	keyDefaultsTeam   = "team"
	keyDefaultsUser   = "assignee"
	keyDefaultsProj   = "project"
	keyDefaultsStatus = "state"
)

// ErrMissingAPIKey is returned when no Linear API credential is configured.
var ErrMissingAPIKey = errors.New("linear API key not found; run `linear init` or set " + LinearAPIKeyEnv)

// Config holds runtime settings.
type Config struct {
	LinearAPIKey string
	APIEndpoint  string
	Timeout      time.Duration
	LogFile      string
	LogLevel     string
	PageSize     int
	Editor       string

	// ConfigPath is the settings file the API key is read from and written to.
	ConfigPath string
	// DefaultsPath is the file holding last-used issue creation choices.
	DefaultsPath string
}

type loadSettings struct {
	configPath   string
	defaultsPath string
}

// Option configures Load. Useful for tests to override paths.
type Option func(*loadSettings)

// WithConfigPath overrides the settings file location.
func WithConfigPath(path string) Option {
	return func(s *loadSettings) {
		s.configPath = path
	}
}

// WithDefaultsPath overrides the defaults file location.
func WithDefaultsPath(path string) Option {
	return func(s *loadSettings) {
		s.defaultsPath = path
	}
}

// Load reads settings with the precedence defaults < config file < environment.
// A missing API key is not an error here; see RequireAPIKey.
func Load(opts ...Option) (Config, error) {
	settings := loadSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.configPath == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		settings.configPath = path
	}
	if settings.defaultsPath == "" {
		path, err := DefaultDefaultsPath()
		if err != nil {
			return Config{}, err
		}
		settings.defaultsPath = path
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(keyAPIEndpoint, DefaultAPIURL)
	v.SetDefault(keyTimeout, DefaultTimeout)
	v.SetDefault(keyPageSize, DefaultPageSize)
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetDefault(keyEditor, "vim")

	bindings := map[string]string{
		keyAPIKey:      LinearAPIKeyEnv,
		keyAPIEndpoint: APIEndpointEnv,
		keyLogFile:     LogFileEnv,
		keyLogLevel:    LogLevelEnv,
		keyTimeout:     TimeoutEnv,
		keyPageSize:    PageSizeEnv,
		keyEditor:      EditorEnv,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := mergeConfigFile(v, settings.configPath); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		LinearAPIKey: strings.TrimSpace(v.GetString(keyAPIKey)),
		APIEndpoint:  v.GetString(keyAPIEndpoint),
		Timeout:      v.GetDuration(keyTimeout),
		LogFile:      v.GetString(keyLogFile),
		LogLevel:     v.GetString(keyLogLevel),
		PageSize:     v.GetInt(keyPageSize),
		Editor:       v.GetString(keyEditor),
		ConfigPath:   settings.configPath,
		DefaultsPath: settings.defaultsPath,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}

// RequireAPIKey reports ErrMissingAPIKey when no credential is set.
func (c Config) RequireAPIKey() error {
	if c.LinearAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// SaveAPIKey stores apiKey in the settings file at path, keeping other keys.
func SaveAPIKey(path, apiKey string) error {
	v := viper.New()
	v.SetConfigType("json")
	if err := mergeConfigFile(v, path); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	v.Set(keyAPIKey, strings.TrimSpace(apiKey))
	return writeConfig(v, path)
}

// DefaultConfigPath returns ~/.config/linear-cli/config.json.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// DefaultDefaultsPath returns ~/.linear-cli-defaults.json.
func DefaultDefaultsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, defaultsFileName), nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeConfig(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
