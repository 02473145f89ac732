package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jask/uidclone/internal/block0"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Clone    CloneConfig    `mapstructure:"clone"`
	Tags     TagsConfig     `mapstructure:"tags"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the log file. The terminal belongs to the TUI.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// CloneConfig pre-fills the options section of the form.
type CloneConfig struct {
	Tail    string `mapstructure:"tail"`
	Key     string `mapstructure:"key"`
	UseKeyB bool   `mapstructure:"use_key_b"`
}

// TagsConfig points at the virtual tag field.
type TagsConfig struct {
	Path string `mapstructure:"path"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"db":        "database.path",
	"log-file":  "log.path",
	"log-level": "log.level",
	"tags":      "tags.path",
	"tail":      "clone.tail",
	"key":       "clone.key",
	"key-b":     "clone.use_key_b",
}

// Path returns the config file location: UIDCLONE_CONFIG when set,
// otherwise ~/.config/uidclone/config.toml.
func Path() string {
	if p := os.Getenv("UIDCLONE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "uidclone", "config.toml")
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// Load reads configuration from file, env and flags, in increasing order of
// precedence. Env var overrides use prefix UIDCLONE_. An empty path uses
// Path(). Only flags that were set on the command line override values.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	h := home()
	v.SetDefault("database.path", filepath.Join(h, ".local", "share", "uidclone", "history.db"))
	v.SetDefault("log.path", filepath.Join(h, ".local", "state", "uidclone", "uidclone.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("clone.tail", block0.DefaultTail)
	v.SetDefault("clone.key", block0.DefaultKey)
	v.SetDefault("clone.use_key_b", false)
	v.SetDefault("tags.path", filepath.Join(h, ".config", "uidclone", "tags.toml"))

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("UIDCLONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// A missing file is fine: defaults, env and flags still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("db", "", "path to the history database")
	fs.String("log-file", "", "path to the log file")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("tags", "", "path to the virtual tag field (tags.toml)")
	fs.String("tail", "", "default block 0 tail as hex")
	fs.String("key", "", "default write key as hex")
	fs.Bool("key-b", false, "write with key B instead of key A")
}

// Validate rejects values the form could never accept.
func (c Config) Validate() error {
	if !block0.HexDigits(c.Clone.Tail) {
		return fmt.Errorf("clone.tail: %w", block0.ErrNotHex)
	}
	if !block0.HexDigits(c.Clone.Key) {
		return fmt.Errorf("clone.key: %w", block0.ErrNotHex)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}
