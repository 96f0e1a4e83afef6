package storage

import (
	"fmt"
	"strings"
)

// Config selects and configures a backend.
type Config struct {
	Driver string
	Path   string
	DSN    string
	Redis  RedisConfig
}

// Open builds the Store named by cfg.Driver.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "sqlite", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return OpenSQL("sqlite", dsn)
	case "postgres", "postgresql":
		return OpenSQL("postgres", cfg.DSN)
	case "mysql":
		return OpenSQL("mysql", cfg.DSN)
	case "redis":
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
