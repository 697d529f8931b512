// Package config loads footprint settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/footprint/config.toml (falling
// back to ~/.config/footprint/config.toml). A missing file is not an error:
// [Load] returns [Default], which reproduces the stock two-level template.
//
//	[building]
//	width_mm = 10000
//	depth_mm = 5000
//
//	[[levels]]
//	name = "Level 1"
//	elevation_mm = 0
//
//	[families.door]
//	family = "M_Single-Flush"
//	type = "0762 x 2134mm"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/footprint/pkg/catalog"
	"github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/footprint"
	"github.com/matzehuels/footprint/pkg/host"
	"github.com/matzehuels/footprint/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "footprint"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the decoded config file.
type Config struct {
	Building Building               `toml:"building"`
	Levels   []pipeline.LevelOption `toml:"levels"`
	Families Families               `toml:"families"`
	Catalog  string                 `toml:"catalog"` // optional path to a catalog TOML file
	Cache    Cache                  `toml:"cache"`
	Store    Store                  `toml:"store"`
	Server   Server                 `toml:"server"`
}

// Building holds the footprint dimensions in millimeters.
type Building struct {
	WidthMM         float64 `toml:"width_mm"`
	DepthMM         float64 `toml:"depth_mm"`
	WallThicknessMM float64 `toml:"wall_thickness_mm"` // zero takes the wall type's thickness
	RoofRise        float64 `toml:"roof_rise"`
	BaseLevel       string  `toml:"base_level"`
	TopLevel        string  `toml:"top_level"`
	DoorWall        int     `toml:"door_wall"`
}

// Family names a family type.
type Family struct {
	Family string `toml:"family"`
	Type   string `toml:"type"`
}

// Families selects the types a building is realized with.
type Families struct {
	Wall   Family `toml:"wall"`
	Door   Family `toml:"door"`
	Window Family `toml:"window"`
	Roof   Family `toml:"roof"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"`
}

// Store configures where the API server keeps build records.
type Store struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `toml:"addr"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Building: Building{
			WidthMM:   pipeline.DefaultWidthMM,
			DepthMM:   pipeline.DefaultDepthMM,
			RoofRise:  footprint.DefaultRise,
			BaseLevel: pipeline.DefaultBaseLevel,
			TopLevel:  pipeline.DefaultTopLevel,
		},
		Levels:   pipeline.DefaultLevels(),
		Families: familiesOf(host.DefaultTypes()),
		Cache:    Cache{Backend: CacheFile, TTL: "168h"},
		Store:    Store{Backend: StoreMemory, Database: AppName},
		Server:   Server{Addr: ":8080", ReadTimeout: "30s", WriteTimeout: "60s"},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path means [Path]; a missing
// file at the default path yields the defaults, while a missing file at an
// explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, keeping cfg's values for absent keys.
// Levels replace the default list entirely when present.
func Decode(data []byte, cfg *Config) error {
	var peek struct {
		Levels []pipeline.LevelOption `toml:"levels"`
	}
	if err := toml.Unmarshal(data, &peek); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if len(peek.Levels) > 0 {
		cfg.Levels = nil
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := pipeline.ValidateLevels(c.Levels); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "levels")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone, "":
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, "":
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	for name, s := range map[string]string{
		"cache.ttl":            c.Cache.TTL,
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
	} {
		if s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	return nil
}

// =============================================================================
// Accessors
// =============================================================================

// Options returns pipeline options for the configured building.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		WidthMM:         c.Building.WidthMM,
		DepthMM:         c.Building.DepthMM,
		WallThicknessMM: c.Building.WallThicknessMM,
		Rise:            c.Building.RoofRise,
		Levels:          append([]pipeline.LevelOption(nil), c.Levels...),
		BaseLevel:       c.Building.BaseLevel,
		TopLevel:        c.Building.TopLevel,
		DoorWall:        c.Building.DoorWall,
		Types:           c.Types(),
	}
}

// Types returns the configured family types; unset entries are left zero
// and later filled with defaults by the pipeline.
func (c *Config) Types() host.Types {
	key := func(cat catalog.Category, f Family) catalog.Key {
		if f.Family == "" && f.Type == "" {
			return catalog.Key{}
		}
		return catalog.Key{Category: cat, Family: f.Family, Type: f.Type}
	}
	return host.Types{
		Wall:   key(catalog.Walls, c.Families.Wall),
		Door:   key(catalog.Doors, c.Families.Door),
		Window: key(catalog.Windows, c.Families.Window),
		Roof:   key(catalog.Roofs, c.Families.Roof),
	}
}

// LoadCatalog returns the configured catalog, or the built-in one.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(expandHome(c.Catalog))
}

// CacheTTL returns the parsed cache TTL, or zero for no expiry.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// CacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/footprint (~/.cache/footprint).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir), nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ServerTimeouts returns the parsed read and write timeouts.
func (c *Config) ServerTimeouts() (read, write time.Duration) {
	read, _ = time.ParseDuration(c.Server.ReadTimeout)
	write, _ = time.ParseDuration(c.Server.WriteTimeout)
	return read, write
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func familiesOf(t host.Types) Families {
	f := func(k catalog.Key) Family { return Family{Family: k.Family, Type: k.Type} }
	return Families{Wall: f(t.Wall), Door: f(t.Door), Window: f(t.Window), Roof: f(t.Roof)}
}
