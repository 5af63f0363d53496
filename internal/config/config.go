// Package config loads settings from a YAML file and LOGBOOK_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/media"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/storage"
)

// EnvPrefix is the prefix of environment overrides, e.g. LOGBOOK_STORAGE_BACKEND.
const EnvPrefix = "LOGBOOK"

type StorageCfg struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	EntriesKey string `mapstructure:"entries_key"`
	TagsKey    string `mapstructure:"tags_key"`
}

type ExportCfg struct {
	Dir            string `mapstructure:"dir"`
	Prefix         string `mapstructure:"prefix"`
	Thumbnails     bool   `mapstructure:"thumbnails"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width"`
}

type MediaCfg struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type LogCfg struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ServerCfg struct {
	Addr string `mapstructure:"addr"`
}

// Config holds application configuration.
type Config struct {
	Variant     string     `mapstructure:"variant"`
	Timezone    string     `mapstructure:"timezone"`
	Storage     StorageCfg `mapstructure:"storage"`
	StarterTags []string   `mapstructure:"starter_tags"`
	Export      ExportCfg  `mapstructure:"export"`
	Media       MediaCfg   `mapstructure:"media"`
	Log         LogCfg     `mapstructure:"log"`
	Server      ServerCfg  `mapstructure:"server"`
}

// setDefaults registers the variant-independent defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("variant", string(model.VariantBlog))
	v.SetDefault("timezone", "")
	v.SetDefault("storage.backend", storage.BackendAuto)
	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.entries_key", "")
	v.SetDefault("storage.tags_key", "")
	v.SetDefault("export.dir", "")
	v.SetDefault("export.prefix", "")
	v.SetDefault("export.thumbnails", false)
	v.SetDefault("export.thumbnail_width", media.DefaultThumbnailWidth)
	v.SetDefault("media.max_bytes", media.DefaultMaxBytes)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("server.addr", "127.0.0.1:8787")
}

// Load reads config from path. A missing file is created with the defaults;
// failing to create it is not an error. Empty values are backfilled with
// defaults that depend on the configured variant.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// starter_tags has no default so an unset list falls back per variant.
	_ = v.BindEnv("starter_tags")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		// Non-fatal: continue with defaults even if the file can't be written
		if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr == nil {
			_ = v.SafeWriteConfigAs(path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	_ = cfg.applyDefaults()
	return &cfg
}

// applyDefaults fills variant-dependent values that were left empty.
func (c *Config) applyDefaults() error {
	variant, err := model.ParseVariant(c.Variant)
	if err != nil {
		return err
	}
	c.Variant = string(variant)

	keys := storage.DefaultKeys(variant)
	if c.Storage.EntriesKey == "" {
		c.Storage.EntriesKey = keys.Entries
	}
	if c.Storage.TagsKey == "" {
		c.Storage.TagsKey = keys.Tags
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendAuto
	}
	if c.Storage.Dir == "" {
		if dir, err := storage.DefaultDataDir(); err == nil {
			c.Storage.Dir = dir
		}
	}
	if c.StarterTags == nil {
		c.StarterTags = storage.DefaultStarterTags(variant)
	}
	if c.Export.Prefix == "" {
		c.Export.Prefix = exporter.DefaultPrefix(variant)
	}
	if c.Export.Dir == "" {
		if dir, err := exporter.DefaultExportDir(); err == nil {
			c.Export.Dir = dir
		}
	}
	if c.Export.ThumbnailWidth <= 0 {
		c.Export.ThumbnailWidth = media.DefaultThumbnailWidth
	}
	if c.Media.MaxBytes <= 0 {
		c.Media.MaxBytes = media.DefaultMaxBytes
	}
	return nil
}

// SetVariant switches the variant. Keys, starter tags and the export prefix
// that still hold the old variant's defaults follow the new variant.
func (c *Config) SetVariant(name string) error {
	next, err := model.ParseVariant(name)
	if err != nil {
		return err
	}
	prev := c.ModelVariant()
	if next == prev {
		return nil
	}

	keys := storage.DefaultKeys(prev)
	if c.Storage.EntriesKey == keys.Entries {
		c.Storage.EntriesKey = ""
	}
	if c.Storage.TagsKey == keys.Tags {
		c.Storage.TagsKey = ""
	}
	if slices.Equal(c.StarterTags, storage.DefaultStarterTags(prev)) {
		c.StarterTags = nil
	}
	if c.Export.Prefix == exporter.DefaultPrefix(prev) {
		c.Export.Prefix = ""
	}
	c.Variant = string(next)
	return c.applyDefaults()
}

// ModelVariant returns the configured variant.
func (c *Config) ModelVariant() model.Variant {
	v, _ := model.ParseVariant(c.Variant)
	return v
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StorageOptions returns the options for opening the configured backend.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Keys:        storage.Keys{Entries: c.Storage.EntriesKey, Tags: c.Storage.TagsKey},
		StarterTags: c.StarterTags,
	}
}

// DefaultPath returns the default config path: ~/.config/logbook/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "logbook", "config.yaml"), nil
}
