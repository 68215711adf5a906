package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{GRPCPort: 50051, HTTPPort: 8080, ShutdownTimeout: 30 * time.Second},
		Engine: EngineConfig{LockTimeout: 2 * time.Second, MinCommandInterval: 300 * time.Millisecond},
		Storage: StorageConfig{
			Backend:   BackendMemory,
			RedisAddr: "localhost:6379",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Rules:   RulesConfig{WeaponUses: WeaponUsesConfig{Common: 3, Rare: -1, Epic: -1}},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, validConfig(), cfg)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr())
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dungeon.yaml")
	err := os.WriteFile(path, []byte(`
server:
  grpc_port: 6000
engine:
  lock_timeout: 500ms
  seed: 42
storage:
  backend: redis
  redis_addr: redis:6379
logging:
  level: debug
  format: text
rules:
  weapon_uses:
    common: 5
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.GRPCPort)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.LockTimeout)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())

	rules := cfg.Rules.ToRules()
	assert.Equal(t, 5, rules.WeaponUses[dungeon.RarityCommon])
	assert.Equal(t, -1, rules.WeaponUses[dungeon.RarityEpic])
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DUNGEON_SERVER_HTTP_PORT", "9090")
	t.Setenv("DUNGEON_ENGINE_MIN_COMMAND_INTERVAL", "0s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Zero(t, cfg.Engine.MinCommandInterval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Server.GRPCPort = 0
	cfg.Engine.LockTimeout = 0
	cfg.Storage.Backend = "postgres"
	cfg.Logging.Format = "console"
	cfg.Rules.WeaponUses.Common = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	fields := errors.FieldErrors(err)
	for _, field := range []string{
		"server.grpc_port",
		"engine.lock_timeout",
		"storage.backend",
		"logging.format",
		"rules.weapon_uses.common",
	} {
		assert.Contains(t, fields, field)
	}
}

func TestRedisNeedsAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = BackendRedis
	cfg.Storage.RedisAddr = ""
	assert.Contains(t, errors.FieldErrors(cfg.Validate()), "storage.redis_addr")
}

func TestPortRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(-1000, 70000).Draw(t, "port")
		cfg := validConfig()
		cfg.Server.GRPCPort = port

		err := cfg.Validate()
		valid := port >= 1 && port <= 65535 && port != cfg.Server.HTTPPort
		if valid && err != nil {
			t.Fatalf("port %d rejected: %v", port, err)
		}
		if !valid && err == nil {
			t.Fatalf("port %d accepted", port)
		}
	})
}
