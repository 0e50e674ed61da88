package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:7411"
	DefaultDBFileName = ".ideavault.db"

	DefaultLogLevel = "info"

	DefaultTitleMaxChars       = 200
	DefaultDescriptionMaxChars = 10000
	DefaultFeedMaxLimit        = 50

	DefaultAttachmentMaxUploadBytes int64 = 100 * 1024 * 1024

	configFileName  = ".ideavault.toml"
	configDirEnvKey = "IDEAVAULT_CONFIG_DIR"
)

// LimitsConfig bounds user-supplied content.
type LimitsConfig struct {
	TitleMaxChars       int `toml:"title_max_chars"`
	DescriptionMaxChars int `toml:"description_max_chars"`
	FeedMaxLimit        int `toml:"feed_max_limit"`
}

// AttachmentConfig defines runtime configuration for attachment handling.
type AttachmentConfig struct {
	Dir            string `toml:"dir"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// Config defines runtime configuration for ideavault.
type Config struct {
	Owner       string           `toml:"owner"`
	APIURL      string           `toml:"api_url"`
	DBPath      string           `toml:"db_path"`
	LogLevel    string           `toml:"log_level"`
	Limits      LimitsConfig     `toml:"limits"`
	Attachments AttachmentConfig `toml:"attachments"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL: DefaultAPIURL,
		Limits: LimitsConfig{
			TitleMaxChars:       DefaultTitleMaxChars,
			DescriptionMaxChars: DefaultDescriptionMaxChars,
			FeedMaxLimit:        DefaultFeedMaxLimit,
		},
		Attachments: AttachmentConfig{
			MaxUploadBytes: DefaultAttachmentMaxUploadBytes,
		},
	}
}

// Load reads the global config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.Attachments.Dir == "" {
		cfg.Attachments.Dir = cfg.DBPath + ".attachments"
	}

	if apiURL := os.Getenv("IDEAVAULT_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv("IDEAVAULT_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if owner := strings.TrimSpace(os.Getenv("IDEAVAULT_OWNER")); owner != "" {
		cfg.Owner = owner
	}

	cfg.normalizeLimits()

	return &cfg, nil
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

var allowedKeys = []string{
	"owner",
	"api_url",
	"db_path",
	"log_level",
	"limits.title_max_chars",
	"limits.description_max_chars",
	"limits.feed_max_limit",
	"attachments.dir",
	"attachments.max_upload_bytes",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "owner":
		return c.Owner, nil
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "limits.title_max_chars":
		return strconv.Itoa(c.Limits.TitleMaxChars), nil
	case "limits.description_max_chars":
		return strconv.Itoa(c.Limits.DescriptionMaxChars), nil
	case "limits.feed_max_limit":
		return strconv.Itoa(c.Limits.FeedMaxLimit), nil
	case "attachments.dir":
		return c.Attachments.Dir, nil
	case "attachments.max_upload_bytes":
		return strconv.FormatInt(c.Attachments.MaxUploadBytes, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "limits.title_max_chars", "limits.description_max_chars", "limits.feed_max_limit":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "attachments.max_upload_bytes":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeLimits() {
	if c.Limits.TitleMaxChars <= 0 {
		c.Limits.TitleMaxChars = DefaultTitleMaxChars
	}
	if c.Limits.DescriptionMaxChars <= 0 {
		c.Limits.DescriptionMaxChars = DefaultDescriptionMaxChars
	}
	if c.Limits.FeedMaxLimit <= 0 {
		c.Limits.FeedMaxLimit = DefaultFeedMaxLimit
	}
	if c.Attachments.MaxUploadBytes <= 0 {
		c.Attachments.MaxUploadBytes = DefaultAttachmentMaxUploadBytes
	}
}
