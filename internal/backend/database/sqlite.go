package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
	table            string
}

func NewSQLiteDatabase(connectionString, table string) (*SQLiteDatabase, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
		table:            table,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteDatabase) SetSetting(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO "+s.table+" (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, value)
	if err != nil {
		return &UpsertError{Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteDatabase) GetSetting(ctx context.Context, key string) (*Setting, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT key, value, strftime('%Y-%m-%dT%H:%M:%SZ', updated_at) FROM "+s.table+" WHERE key = ?",
		key)

	var setting Setting
	var updatedAt sql.NullString
	if err := row.Scan(&setting.Key, &setting.Value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if updatedAt.Valid {
		ts, err := time.Parse(time.RFC3339, updatedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at of %s: %w", key, err)
		}
		setting.UpdatedAt = ts
	}
	return &setting, nil
}
