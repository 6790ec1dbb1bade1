package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WranglerOptions describes how to reach a Cloudflare D1 database through the
// wrangler CLI. Empty WorkDir, NvmScript or NodeVersion skip the matching step.
type WranglerOptions struct {
	WorkDir     string
	NvmScript   string
	NodeVersion string
	Binary      string
	Database    string
	Remote      bool
}

// WranglerDatabase upserts settings by shelling out to "wrangler d1 execute". Values
// travel through a scratch file per key that the shell expands into the --command
// argument, so each value is bounded by MaxValueLength.
type WranglerDatabase struct {
	options    WranglerOptions
	table      string
	scratchDir string
	runner     CommandRunner
}

// maxArgLength is the Linux limit (MAX_ARG_STRLEN) on one argv string, terminator
// included. The expanded --command argument must fit in it.
const maxArgLength = 128 * 1024

const upsertTemplate = "INSERT OR REPLACE INTO %s (key, value, updated_at) VALUES ('%s', '%s', CURRENT_TIMESTAMP);"

func NewWranglerDatabase(options WranglerOptions, table, scratchDir string, runner CommandRunner) (*WranglerDatabase, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	if options.Database == "" {
		return nil, fmt.Errorf("wrangler database name is required")
	}
	if options.Binary == "" {
		options.Binary = "wrangler"
	}
	if runner == nil {
		return nil, fmt.Errorf("command runner is required")
	}
	return &WranglerDatabase{
		options:    options,
		table:      table,
		scratchDir: scratchDir,
		runner:     runner,
	}, nil
}

// CreateDatabase is a no-op: the remote table belongs to the application that reads it.
func (w *WranglerDatabase) CreateDatabase(ctx context.Context) error {
	return nil
}

func (w *WranglerDatabase) DoesDatabaseExist(ctx context.Context) bool {
	_, _, err := w.runner.Run(ctx, w.script(fmt.Sprintf("SELECT 1 FROM %s LIMIT 1;", w.table)))
	return err == nil
}

func (w *WranglerDatabase) Close() error {
	return nil
}

// ScratchPath returns the file that carries the value of key to the CLI.
func (w *WranglerDatabase) ScratchPath(key string) string {
	return filepath.Join(w.scratchDir, key+".txt")
}

// SetSetting writes value to the key's scratch file as an SQL string body and runs
// the upsert. A failing scratch write is returned as is; a value too large for one
// command-line argument or a failing CLI run is returned as *UpsertError.
func (w *WranglerDatabase) SetSetting(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	literal := sqlStringBody(value)
	if limit := w.MaxValueLength(key); len(literal) > limit {
		return &UpsertError{
			Key: key,
			Err: fmt.Errorf("%w: %d bytes after escaping, limit %d", ErrValueTooLarge, len(literal), limit),
		}
	}

	scratchPath := w.ScratchPath(key)
	if err := os.WriteFile(scratchPath, []byte(literal), 0644); err != nil {
		return fmt.Errorf("failed to write scratch file %s: %w", scratchPath, err)
	}

	statement := fmt.Sprintf(upsertTemplate, w.table, key, "$(cat "+shellQuote(scratchPath)+")")

	slog.Debug("WranglerDatabase: running upsert",
		"key", key,
		"database", w.options.Database,
		"scratch_file", scratchPath,
		"value_length", len(value))

	_, stderr, err := w.runner.Run(ctx, w.script(statement))
	if err != nil {
		return &UpsertError{Key: key, Stderr: string(stderr), Err: err}
	}
	return nil
}

// MaxValueLength is the longest escaped value that still fits the expanded upsert
// statement into a single argument.
func (w *WranglerDatabase) MaxValueLength(key string) int {
	return maxArgLength - 1 - len(fmt.Sprintf(upsertTemplate, w.table, key, ""))
}

// sqlStringBody escapes value for use between single quotes in SQL.
func sqlStringBody(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// d1Result mirrors one element of "wrangler d1 execute --json" output.
type d1Result struct {
	Results []map[string]any `json:"results"`
	Success bool             `json:"success"`
}

func (w *WranglerDatabase) GetSetting(ctx context.Context, key string) (*Setting, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	statement := fmt.Sprintf("SELECT key, value, updated_at FROM %s WHERE key = '%s';", w.table, key)

	stdout, stderr, err := w.runner.Run(ctx, w.script(statement, "--json"))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w: %s", key, err, strings.TrimSpace(string(stderr)))
	}

	rows, err := parseD1Rows(stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query result for %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	value, ok := rows[0]["value"].(string)
	if !ok {
		return nil, fmt.Errorf("query result for %s has no string value", key)
	}
	setting := &Setting{Key: key, Value: value}
	if raw, ok := rows[0]["updated_at"].(string); ok {
		setting.UpdatedAt, _ = parseSQLiteTimestamp(raw)
	}
	return setting, nil
}

// script builds the shell script that runs statement through the CLI. Steps are
// chained with && so a failed cd or runtime switch stops the run.
func (w *WranglerDatabase) script(statement string, extraFlags ...string) string {
	var steps []string
	if w.options.WorkDir != "" {
		steps = append(steps, "cd "+shellPath(w.options.WorkDir))
	}
	if w.options.NvmScript != "" {
		steps = append(steps, "source "+shellPath(w.options.NvmScript))
	}
	if w.options.NodeVersion != "" {
		steps = append(steps, "nvm use --silent "+shellQuote(w.options.NodeVersion))
	}

	// Binary is a command prefix such as "npx wrangler" and is left unquoted.
	execute := fmt.Sprintf("%s d1 execute %s --command \"%s\"",
		w.options.Binary, shellQuote(w.options.Database), statement)
	if w.options.Remote {
		execute += " --remote"
	}
	for _, flag := range extraFlags {
		execute += " " + flag
	}
	steps = append(steps, execute)

	return strings.Join(steps, " &&\n")
}

// parseD1Rows extracts the rows of the first result set. Anything printed before the
// JSON document is skipped.
func parseD1Rows(stdout []byte) ([]map[string]any, error) {
	start := bytes.IndexByte(stdout, '[')
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in output")
	}
	var results []d1Result
	if err := json.Unmarshal(stdout[start:], &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	if !results[0].Success {
		return nil, fmt.Errorf("query reported failure")
	}
	return results[0].Results, nil
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// shellPath quotes a path but leaves a leading ~/ expandable.
func shellPath(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return `"$HOME"/` + shellQuote(rest)
	}
	return shellQuote(p)
}
