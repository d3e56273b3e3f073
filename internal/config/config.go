// Package config loads asttree settings from TOML files, a .env file and the
// environment.
//
// Sources are layered from lowest to highest priority:
//
//  1. built-in defaults ([Default])
//  2. the global file, $XDG_CONFIG_HOME/asttree/config.toml
//  3. the project file, ./.asttree.toml
//  4. a .env file in the working directory (never overrides real variables)
//  5. ASTTREE_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/palette"
	"github.com/matzehuels/asttree/pkg/pipeline"
	"github.com/matzehuels/asttree/pkg/plot"
)

const (
	appName = "asttree"

	// ProjectFile is the per-directory config file name.
	ProjectFile = ".asttree.toml"

	// EnvFile is the dotenv file read from the working directory.
	EnvFile = ".env"

	envPrefix = "ASTTREE_"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// DefaultCacheSize is the entry limit of the in-memory backend.
const DefaultCacheSize = 512

// Config is the merged configuration.
type Config struct {
	// PaletteFile names a standalone palette file applied over [Config.Palette].
	PaletteFile string          `toml:"palette_file"`
	Palette     palette.Palette `toml:"palette"`
	Render      RenderConfig    `toml:"render"`
	Cache       CacheConfig     `toml:"cache"`
}

// RenderConfig holds figure defaults.
type RenderConfig struct {
	Orientation string   `toml:"orientation"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	Formats     []string `toml:"formats"`
	Scale       float64  `toml:"scale"`
}

// CacheConfig selects and configures a cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	Size          int    `toml:"size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Palette: palette.Default(),
		Render: RenderConfig{
			Orientation: string(plot.DefaultOrientation),
			Formats:     []string{pipeline.FormatSVG},
			Scale:       pipeline.DefaultScale,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     defaultCacheDir(),
			Size:    DefaultCacheSize,
		},
	}
}

// GlobalPath returns the path of the global config file.
func GlobalPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads configuration from the standard locations.
func Load() (Config, error) {
	return LoadFrom(GlobalPath(), ProjectFile, EnvFile)
}

// LoadFrom layers the given files over [Default]. Empty or missing paths
// are skipped.
func LoadFrom(globalPath, projectPath, envPath string) (Config, error) {
	cfg := Default()

	for _, path := range []string{globalPath, projectPath} {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", envPath)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.PaletteFile != "" {
		p, err := palette.LoadFile(cfg.PaletteFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Palette = cfg.Palette.Merge(p)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a single config file over [Default] without consulting
// the environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	var f Config
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	c.merge(f)
	return nil
}

// merge applies every non-zero field of o.
func (c *Config) merge(o Config) {
	if o.PaletteFile != "" {
		c.PaletteFile = o.PaletteFile
	}
	c.Palette = c.Palette.Merge(o.Palette)

	if o.Render.Orientation != "" {
		c.Render.Orientation = o.Render.Orientation
	}
	if o.Render.Width != 0 {
		c.Render.Width = o.Render.Width
	}
	if o.Render.Height != 0 {
		c.Render.Height = o.Render.Height
	}
	if len(o.Render.Formats) > 0 {
		c.Render.Formats = o.Render.Formats
	}
	if o.Render.Scale != 0 {
		c.Render.Scale = o.Render.Scale
	}

	if o.Cache.Backend != "" {
		c.Cache.Backend = o.Cache.Backend
	}
	if o.Cache.Dir != "" {
		c.Cache.Dir = o.Cache.Dir
	}
	if o.Cache.RedisAddr != "" {
		c.Cache.RedisAddr = o.Cache.RedisAddr
	}
	if o.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = o.Cache.RedisPassword
	}
	if o.Cache.RedisDB != 0 {
		c.Cache.RedisDB = o.Cache.RedisDB
	}
	if o.Cache.Prefix != "" {
		c.Cache.Prefix = o.Cache.Prefix
	}
	if o.Cache.Size != 0 {
		c.Cache.Size = o.Cache.Size
	}
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"PALETTE_FILE":   &c.PaletteFile,
		"ORIENTATION":    &c.Render.Orientation,
		"CACHE_BACKEND":  &c.Cache.Backend,
		"CACHE_DIR":      &c.Cache.Dir,
		"CACHE_PREFIX":   &c.Cache.Prefix,
		"REDIS_ADDR":     &c.Cache.RedisAddr,
		"REDIS_PASSWORD": &c.Cache.RedisPassword,
	}
	for name, dst := range str {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"WIDTH":      &c.Render.Width,
		"HEIGHT":     &c.Render.Height,
		"REDIS_DB":   &c.Cache.RedisDB,
		"CACHE_SIZE": &c.Cache.Size,
	}
	for name, dst := range ints {
		v, ok := lookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s%s: %q is not an integer", envPrefix, name, v)
		}
		*dst = n
	}

	if v, ok := lookupEnv("SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%sSCALE: %q is not a number", envPrefix, v)
		}
		c.Render.Scale = f
	}
	if v, ok := lookupEnv("FORMATS"); ok {
		c.Render.Formats = SplitList(v)
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := c.Palette.Validate(); err != nil {
		return err
	}
	if _, err := plot.ParseOrientation(c.Render.Orientation); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.orientation")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render: width and height must not be negative")
	}
	if c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must not be negative")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}

	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case BackendMemory:
		if c.Cache.Size <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.size must be positive for the memory backend")
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q (want file, memory, redis or none)", c.Cache.Backend)
	}
	return nil
}

// Options returns pipeline options seeded from the render section.
func (c Config) Options(source string) pipeline.Options {
	return pipeline.Options{
		Source:      source,
		Orientation: c.Render.Orientation,
		Width:       c.Render.Width,
		Height:      c.Render.Height,
		Formats:     append([]string(nil), c.Render.Formats...),
		Scale:       c.Render.Scale,
		Palette:     c.Palette,
	}
}
