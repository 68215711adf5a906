// Package config provides Viper-based configuration loading for the dungeon server.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. DUNGEON_SERVER_GRPC_PORT
const EnvPrefix = "DUNGEON"

// Storage backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ServerConfig holds listener settings
type ServerConfig struct {
	GRPCPort int `mapstructure:"grpc_port"`
	HTTPPort int `mapstructure:"http_port"`
	// ShutdownTimeout bounds the graceful stop of both listeners
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EngineConfig holds registry and resolver settings
type EngineConfig struct {
	LockTimeout        time.Duration `mapstructure:"lock_timeout"`
	MinCommandInterval time.Duration `mapstructure:"min_command_interval"`
	// Seed makes dice deterministic. Zero uses the shared random roller.
	Seed int64 `mapstructure:"seed"`
}

// StorageConfig selects where snapshots are kept
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text"
	Format string `mapstructure:"format"`
}

// WeaponUsesConfig is the weapon durability by rarity. -1 is unlimited.
type WeaponUsesConfig struct {
	Common int `mapstructure:"common"`
	Rare   int `mapstructure:"rare"`
	Epic   int `mapstructure:"epic"`
}

// RulesConfig holds the tunable game rules
type RulesConfig struct {
	WeaponUses WeaponUsesConfig `mapstructure:"weapon_uses"`
}

// Config is the top-level application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Rules   RulesConfig   `mapstructure:"rules"`
}

// Validate checks all configuration invariants and reports every violation
func (c Config) Validate() error {
	vb := errors.NewValidationBuilder()

	validatePort("server.grpc_port", c.Server.GRPCPort, vb)
	validatePort("server.http_port", c.Server.HTTPPort, vb)
	if c.Server.GRPCPort == c.Server.HTTPPort {
		vb.InvalidField("server.http_port", "must differ from server.grpc_port")
	}
	if c.Server.ShutdownTimeout <= 0 {
		vb.InvalidField("server.shutdown_timeout", "must be positive")
	}

	if c.Engine.LockTimeout <= 0 {
		vb.InvalidField("engine.lock_timeout", "must be positive")
	}
	if c.Engine.MinCommandInterval < 0 {
		vb.InvalidField("engine.min_command_interval", "must not be negative")
	}

	errors.ValidateEnum("storage.backend", c.Storage.Backend, []string{BackendMemory, BackendRedis}, vb)
	if c.Storage.Backend == BackendRedis && c.Storage.RedisAddr == "" {
		vb.RequiredField("storage.redis_addr")
	}

	errors.ValidateEnum("logging.level", c.Logging.Level, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("logging.format", c.Logging.Format, []string{"json", "text"}, vb)

	if err := c.Rules.ToRules().Validate(); err != nil {
		for field, msgs := range errors.FieldErrors(err) {
			for _, msg := range msgs {
				vb.Field("rules."+field, msg)
			}
		}
	}

	return vb.Build()
}

func validatePort(field string, port int, vb *errors.ValidationBuilder) {
	if port < 1 || port > 65535 {
		vb.Fieldf(field, "must be 1-65535, got %d", port)
	}
}

// ToRules converts the rules section into resolver rules
func (r RulesConfig) ToRules() combat.Rules {
	return combat.Rules{
		WeaponUses: map[dungeon.Rarity]int{
			dungeon.RarityCommon: r.WeaponUses.Common,
			dungeon.RarityRare:   r.WeaponUses.Rare,
			dungeon.RarityEpic:   r.WeaponUses.Epic,
		},
	}
}

// SlogLevel maps the configured level onto slog
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// GRPCAddr returns the gRPC listen address
func (s ServerConfig) GRPCAddr() string {
	return fmt.Sprintf(":%d", s.GRPCPort)
}

// HTTPAddr returns the HTTP listen address
func (s ServerConfig) HTTPAddr() string {
	return fmt.Sprintf(":%d", s.HTTPPort)
}

// NewViper returns a viper instance with defaults and environment overrides
// applied. Callers may bind flags onto it before LoadFromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration from the optional YAML file at path, applies
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.InvalidArgumentf("reading config file: %v", err)
	}
	return nil
}

// LoadFromViper builds a Config from an already-configured Viper instance
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.InvalidArgumentf("unmarshalling config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("engine.lock_timeout", "2s")
	v.SetDefault("engine.min_command_interval", "300ms")
	v.SetDefault("engine.seed", 0)

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.redis_addr", "localhost:6379")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	defaults := combat.DefaultRules().WeaponUses
	v.SetDefault("rules.weapon_uses.common", defaults[dungeon.RarityCommon])
	v.SetDefault("rules.weapon_uses.rare", defaults[dungeon.RarityRare])
	v.SetDefault("rules.weapon_uses.epic", defaults[dungeon.RarityEpic])
}
