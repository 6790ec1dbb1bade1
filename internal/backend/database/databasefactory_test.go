package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewDatabase(t *testing.T) {
	server := miniredis.RunT(t)

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "sqlite", config: Config{Type: "sqlite", ConnectionString: ":memory:"}},
		{name: "redis", config: Config{Type: "redis", ConnectionString: "redis://" + server.Addr()}},
		{name: "wrangler", config: Config{Type: "wrangler", ScratchDir: t.TempDir(), Wrangler: WranglerOptions{Database: "db"}, Runner: &stubRunner{}}},
		{name: "unsupported", config: Config{Type: "postgres"}, wantErr: true},
		{name: "wrangler without database", config: Config{Type: "wrangler"}, wantErr: true},
		{name: "bad table", config: Config{Type: "sqlite", ConnectionString: ":memory:", Table: "x y"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDatabase(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDatabase error: %v", err)
			}
			t.Cleanup(func() { _ = ds.Close() })
		})
	}
}

func TestNewDatabase_SQLiteSchemaReady(t *testing.T) {
	ds, err := NewDatabase(context.Background(), Config{Type: "sqlite", ConnectionString: ":memory:"})
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	if err := ds.SetSetting(context.Background(), "seo_logo", "v"); err != nil {
		t.Fatalf("expected schema to exist after NewDatabase, got %v", err)
	}
}
