package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the persisted configuration record.
type Config struct {
	Service      string   `yaml:"service" mapstructure:"service" json:"service"`
	Model        string   `yaml:"model,omitempty" mapstructure:"model" json:"model,omitempty"`
	APIKey       string   `yaml:"api_key,omitempty" mapstructure:"api_key" json:"api_key,omitempty"`
	Timeout      int      `yaml:"timeout,omitempty" mapstructure:"timeout" json:"timeout"`
	BaseURL      string   `yaml:"base_url,omitempty" mapstructure:"base_url" json:"base_url,omitempty"`
	SystemPrompt string   `yaml:"system_prompt,omitempty" mapstructure:"system_prompt" json:"system_prompt,omitempty"`
	NotesDir     string   `yaml:"notes_dir" mapstructure:"notes_dir" json:"notes_dir"`
	Extensions   []string `yaml:"extensions" mapstructure:"extensions" json:"extensions"`
}

// Keys accepted by Set, in display order.
var Keys = []string{"service", "model", "api_key", "timeout", "base_url", "system_prompt", "notes_dir", "extensions"}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// DefaultConfig leaves model, timeout and base URL empty so the backend
// selector can apply the defaults that belong to the chosen service.
func DefaultConfig() *Config {
	return &Config{
		Service:    "local",
		NotesDir:   defaultNotesDir(),
		Extensions: []string{".md", ".txt"},
	}
}

func defaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "notes"
	}
	return filepath.Join(home, "Notes")
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "notewise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "notewise")
}

// DefaultPath is where Save writes when no explicit file was given.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads the configuration. An explicit path must exist; otherwise the
// search path is the working directory then the user config directory, and a
// missing file means defaults. NOTEWISE_* environment variables override and
// $VAR references are expanded. The returned string is the file actually
// used, or "".
func Load(path string) (*Config, string, error) {
	raw, used, err := read(path, true)
	if err != nil {
		return nil, "", err
	}
	cfg := raw.expanded()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

// LoadFile reads only what is written in the file at path: no environment
// overrides and no $VAR expansion. A missing file yields defaults. Use it
// for records that will be saved back.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	cfg, _, err := read(path, false)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string, env bool) (*Config, string, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	if env {
		v.SetEnvPrefix("NOTEWISE")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("service", cfg.Service)
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", 0)
	v.SetDefault("base_url", "")
	v.SetDefault("system_prompt", "")
	v.SetDefault("notes_dir", cfg.NotesDir)
	v.SetDefault("extensions", cfg.Extensions)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	return cfg, v.ConfigFileUsed(), nil
}

// expanded returns a copy with $VAR references and ~ resolved.
func (c *Config) expanded() *Config {
	out := *c
	out.Extensions = append([]string(nil), c.Extensions...)
	out.APIKey = expandEnv(c.APIKey)
	out.BaseURL = expandEnv(c.BaseURL)
	out.NotesDir = expandHome(expandEnv(c.NotesDir))
	return &out
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (c *Config) normalize() {
	c.Service = strings.ToLower(strings.TrimSpace(c.Service))
	if c.Service == "" {
		c.Service = "local"
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.Extensions = exts
}

// Validate checks the record against the embedded schema.
func (c *Config) Validate() error {
	return validateSchema(c)
}

// Set updates one key from its string form, as typed on the command line.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "service":
		c.Service = value
	case "model":
		c.Model = value
	case "api_key", "apikey":
		c.APIKey = value
	case "timeout":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: timeout must be a whole number of seconds: %w", err)
		}
		c.Timeout = n
	case "base_url", "baseurl":
		c.BaseURL = value
	case "system_prompt":
		c.SystemPrompt = value
	case "notes_dir":
		c.NotesDir = expandHome(value)
	case "extensions":
		c.Extensions = strings.Split(value, ",")
	default:
		return fmt.Errorf("config: unknown key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	c.normalize()
	return c.expanded().Validate()
}

// Get returns the string form of key; api_key is returned as stored.
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "service":
		return c.Service, nil
	case "model":
		return c.Model, nil
	case "api_key", "apikey":
		return c.APIKey, nil
	case "timeout":
		return strconv.Itoa(c.Timeout), nil
	case "base_url", "baseurl":
		return c.BaseURL, nil
	case "system_prompt":
		return c.SystemPrompt, nil
	case "notes_dir":
		return c.NotesDir, nil
	case "extensions":
		return strings.Join(c.Extensions, ","), nil
	}
	return "", fmt.Errorf("config: unknown key %q", key)
}

// Save writes the configuration as YAML, replacing path atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	// The file may hold an API key.
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
