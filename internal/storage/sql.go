package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type dialect struct {
	driver string
	schema string
	load   string
	upsert string
}

var dialects = map[string]dialect{
	"sqlite": {
		driver: "sqlite3",
		schema: `CREATE TABLE IF NOT EXISTS kv_documents (
			doc_key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		load: `SELECT value FROM kv_documents WHERE doc_key = ?`,
		upsert: `INSERT INTO kv_documents (doc_key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(doc_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	},
	"postgres": {
		driver: "postgres",
		schema: `CREATE TABLE IF NOT EXISTS kv_documents (
			doc_key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		load: `SELECT value FROM kv_documents WHERE doc_key = $1`,
		upsert: `INSERT INTO kv_documents (doc_key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (doc_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	},
	"mysql": {
		driver: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS kv_documents (
			doc_key VARCHAR(191) PRIMARY KEY,
			value LONGBLOB NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		load: `SELECT value FROM kv_documents WHERE doc_key = ?`,
		upsert: `INSERT INTO kv_documents (doc_key, value, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
	},
}

// SQLStore keeps documents in a single kv_documents table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQL connects to sqlite, postgres or mysql and ensures the schema.
func OpenSQL(kind, dsn string) (*SQLStore, error) {
	d, ok := dialects[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", kind)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s dsn must be provided", kind)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", kind, err)
	}
	if d.driver == "sqlite3" {
		// sqlite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate kv_documents: %w", err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.load, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
