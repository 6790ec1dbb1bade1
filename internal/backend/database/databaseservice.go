package database

import "context"

// SettingsService is a key/value settings table. SetSetting upserts, so each key
// holds at most one current value.
type SettingsService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	SetSetting(ctx context.Context, key, value string) error
	// GetSetting returns nil without error when the key is absent.
	GetSetting(ctx context.Context, key string) (*Setting, error)
}
