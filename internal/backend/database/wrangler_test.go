package database

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner records scripts and replies with canned output.
type stubRunner struct {
	scripts []string
	stdout  string
	stderr  string
	err     error
}

func (s *stubRunner) Run(ctx context.Context, script string) ([]byte, []byte, error) {
	s.scripts = append(s.scripts, script)
	return []byte(s.stdout), []byte(s.stderr), s.err
}

func newTestWrangler(t *testing.T, runner *stubRunner, options WranglerOptions) (*WranglerDatabase, string) {
	t.Helper()
	scratchDir := t.TempDir()
	if options.Database == "" {
		options.Database = "ocus-tickets"
	}
	ds, err := NewWranglerDatabase(options, DefaultTable, scratchDir, runner)
	if err != nil {
		t.Fatalf("NewWranglerDatabase error: %v", err)
	}
	return ds, scratchDir
}

func TestWrangler_SetSetting_WritesScratchAndRunsUpsert(t *testing.T) {
	runner := &stubRunner{}
	ds, scratchDir := newTestWrangler(t, runner, WranglerOptions{
		WorkDir:     "/srv/project",
		NvmScript:   "~/.nvm/nvm.sh",
		NodeVersion: "20",
		Remote:      true,
	})

	value := "data:image/png;base64,CCCC"
	if err := ds.SetSetting(context.Background(), "seo_logo", value); err != nil {
		t.Fatalf("SetSetting error: %v", err)
	}

	scratch := filepath.Join(scratchDir, "seo_logo.txt")
	content, err := os.ReadFile(scratch)
	if err != nil {
		t.Fatalf("scratch file not written: %v", err)
	}
	if string(content) != value {
		t.Errorf("expected scratch content %q, got %q", value, content)
	}

	if len(runner.scripts) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.scripts))
	}
	script := runner.scripts[0]
	expectedParts := []string{
		"cd '/srv/project' &&\n",
		`source "$HOME"/'.nvm/nvm.sh' &&` + "\n",
		"nvm use --silent '20' &&\n",
		`wrangler d1 execute 'ocus-tickets' --command "INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES ('seo_logo', '$(cat '` + scratch + `')', CURRENT_TIMESTAMP);" --remote`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(script, part) {
			t.Errorf("expected script to contain %q, got:\n%s", part, script)
		}
	}
}

func TestWrangler_Script_OmitsEmptySteps(t *testing.T) {
	runner := &stubRunner{}
	ds, _ := newTestWrangler(t, runner, WranglerOptions{Binary: "npx wrangler"})

	if err := ds.SetSetting(context.Background(), "seo_favicon", "v"); err != nil {
		t.Fatalf("SetSetting error: %v", err)
	}
	script := runner.scripts[0]
	if strings.Contains(script, "cd ") || strings.Contains(script, "nvm") {
		t.Errorf("expected no cd/nvm steps, got:\n%s", script)
	}
	if strings.Contains(script, "--remote") {
		t.Errorf("expected no --remote flag, got:\n%s", script)
	}
	if !strings.HasPrefix(script, "npx wrangler d1 execute") {
		t.Errorf("expected configured binary first, got:\n%s", script)
	}
}

func TestWrangler_SetSetting_NonZeroExit(t *testing.T) {
	runner := &stubRunner{
		stderr: "✘ [ERROR] A request to the Cloudflare API failed.\n",
		err:    errors.New("command exited with status 1"),
	}
	ds, _ := newTestWrangler(t, runner, WranglerOptions{})

	err := ds.SetSetting(context.Background(), "seo_cover_image", "v")
	var upsertErr *UpsertError
	if !errors.As(err, &upsertErr) {
		t.Fatalf("expected *UpsertError, got %v", err)
	}
	if upsertErr.Key != "seo_cover_image" {
		t.Errorf("expected key seo_cover_image, got %q", upsertErr.Key)
	}
	if !strings.Contains(upsertErr.Error(), "A request to the Cloudflare API failed.") {
		t.Errorf("expected stderr in error text, got %q", upsertErr.Error())
	}
}

func TestWrangler_SetSetting_ScratchWriteFailure(t *testing.T) {
	runner := &stubRunner{}
	ds, err := NewWranglerDatabase(WranglerOptions{Database: "db"}, DefaultTable,
		filepath.Join(t.TempDir(), "missing", "dir"), runner)
	if err != nil {
		t.Fatalf("NewWranglerDatabase error: %v", err)
	}

	err = ds.SetSetting(context.Background(), "seo_logo", "v")
	if err == nil {
		t.Fatal("expected error when scratch directory is missing")
	}
	var upsertErr *UpsertError
	if errors.As(err, &upsertErr) {
		t.Errorf("scratch failures must not be reported as per-key upsert errors: %v", err)
	}
	if len(runner.scripts) != 0 {
		t.Errorf("expected no command to run, got %d", len(runner.scripts))
	}
}

func TestWrangler_SetSetting_EscapesSingleQuotes(t *testing.T) {
	runner := &stubRunner{}
	ds, scratchDir := newTestWrangler(t, runner, WranglerOptions{})

	if err := ds.SetSetting(context.Background(), "seo_title", "Houman's Jobs"); err != nil {
		t.Fatalf("SetSetting error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(scratchDir, "seo_title.txt"))
	if err != nil {
		t.Fatalf("scratch file not written: %v", err)
	}
	if string(content) != "Houman''s Jobs" {
		t.Errorf("expected SQL-escaped scratch content, got %q", content)
	}
	if len(runner.scripts) != 1 {
		t.Errorf("expected one command, got %d", len(runner.scripts))
	}
}

// argvRunner runs scripts through sh and keeps stdout so tests can see the
// arguments the CLI would receive after expansion.
type argvRunner struct {
	shell  ShellRunner
	stdout []byte
}

func (r *argvRunner) Run(ctx context.Context, script string) ([]byte, []byte, error) {
	stdout, stderr, err := r.shell.Run(ctx, script)
	r.stdout = stdout
	return stdout, stderr, err
}

func TestWrangler_SetSetting_ExpandedStatementIsValidSQL(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := &argvRunner{shell: ShellRunner{Shell: "sh"}}
	ds, err := NewWranglerDatabase(WranglerOptions{
		Binary:   `printf '%s\n'`,
		Database: "ocus-tickets",
	}, DefaultTable, t.TempDir(), runner)
	if err != nil {
		t.Fatalf("NewWranglerDatabase error: %v", err)
	}

	if err := ds.SetSetting(context.Background(), "seo_title", `Houman's "best" $HOME jobs`); err != nil {
		t.Fatalf("SetSetting error: %v", err)
	}

	expected := `INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES ('seo_title', 'Houman''s "best" $HOME jobs', CURRENT_TIMESTAMP);`
	if !strings.Contains(string(runner.stdout), expected+"\n") {
		t.Errorf("expected expanded argument %q, got:\n%s", expected, runner.stdout)
	}
}

func TestWrangler_SetSetting_ValueSizeLimit(t *testing.T) {
	runner := &stubRunner{}
	ds, scratchDir := newTestWrangler(t, runner, WranglerOptions{})
	limit := ds.MaxValueLength("seo_cover_image")

	if limit <= 0 || limit >= maxArgLength {
		t.Fatalf("unexpected limit %d", limit)
	}

	if err := ds.SetSetting(context.Background(), "seo_cover_image", strings.Repeat("A", limit)); err != nil {
		t.Fatalf("expected value at the limit to be accepted, got %v", err)
	}
	if len(runner.scripts) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.scripts))
	}

	// Escaping counts: each quote doubles.
	tooLarge := strings.Repeat("A", limit-1) + "'"
	err := ds.SetSetting(context.Background(), "seo_logo", tooLarge)
	var upsertErr *UpsertError
	if !errors.As(err, &upsertErr) {
		t.Fatalf("expected *UpsertError, got %v", err)
	}
	if !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("expected ErrValueTooLarge, got %v", err)
	}
	if len(runner.scripts) != 1 {
		t.Errorf("expected no command for the oversized value, got %d total", len(runner.scripts))
	}
	if _, err := os.Stat(filepath.Join(scratchDir, "seo_logo.txt")); !os.IsNotExist(err) {
		t.Errorf("expected no scratch file for the oversized value, got %v", err)
	}
}

func TestWrangler_GetSetting(t *testing.T) {
	runner := &stubRunner{
		stdout: "Now using node v20.11.0\n" +
			`[{"results":[{"key":"seo_logo","value":"data:image/png;base64,DDDD","updated_at":"2026-10-17 09:30:00"}],"success":true,"meta":{}}]`,
	}
	ds, _ := newTestWrangler(t, runner, WranglerOptions{Remote: true})

	setting, err := ds.GetSetting(context.Background(), "seo_logo")
	if err != nil {
		t.Fatalf("GetSetting error: %v", err)
	}
	if setting == nil || setting.Value != "data:image/png;base64,DDDD" {
		t.Fatalf("unexpected setting %+v", setting)
	}
	if setting.UpdatedAt.Year() != 2026 || setting.UpdatedAt.Hour() != 9 {
		t.Errorf("unexpected UpdatedAt %v", setting.UpdatedAt)
	}
	script := runner.scripts[0]
	if !strings.Contains(script, "SELECT key, value, updated_at FROM settings WHERE key = 'seo_logo';") {
		t.Errorf("unexpected query script:\n%s", script)
	}
	if !strings.HasSuffix(script, "--remote --json") {
		t.Errorf("expected --json flag, got:\n%s", script)
	}
}

func TestWrangler_GetSetting_Missing(t *testing.T) {
	runner := &stubRunner{stdout: `[{"results":[],"success":true}]`}
	ds, _ := newTestWrangler(t, runner, WranglerOptions{})

	setting, err := ds.GetSetting(context.Background(), "seo_logo")
	if err != nil {
		t.Fatalf("GetSetting error: %v", err)
	}
	if setting != nil {
		t.Fatalf("expected nil, got %+v", setting)
	}
}

func TestWrangler_GetSetting_BadOutput(t *testing.T) {
	runner := &stubRunner{stdout: "no json here"}
	ds, _ := newTestWrangler(t, runner, WranglerOptions{})

	if _, err := ds.GetSetting(context.Background(), "seo_logo"); err == nil {
		t.Fatal("expected error for unparseable output")
	}
}

func TestNewWranglerDatabase_Validation(t *testing.T) {
	if _, err := NewWranglerDatabase(WranglerOptions{}, DefaultTable, t.TempDir(), &stubRunner{}); err == nil {
		t.Error("expected error when database name is missing")
	}
	if _, err := NewWranglerDatabase(WranglerOptions{Database: "db"}, DefaultTable, t.TempDir(), nil); err == nil {
		t.Error("expected error when runner is missing")
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "plain", want: "'plain'"},
		{in: "it's", want: `'it'\''s'`},
		{in: "", want: "''"},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
