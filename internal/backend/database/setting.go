package database

import (
	"fmt"
	"regexp"
	"time"
)

const DefaultTable = "settings"

type Setting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"` // set by the store on every upsert
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	keyPattern        = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// validateTable guards table names, which end up in SQL text.
func validateTable(table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid table name: %q", table)
	}
	return nil
}

// validateKey guards setting keys, which end up in file names and SQL text.
func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid setting key: %q", key)
	}
	return nil
}
