package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jo-hoe/seoseed/internal/backend/database"
)

// Uploader writes settings one key at a time and reports each outcome on out.
type Uploader struct {
	store  database.SettingsService
	out    io.Writer
	verify bool
}

func NewUploader(store database.SettingsService, out io.Writer, verify bool) *Uploader {
	return &Uploader{
		store:  store,
		out:    out,
		verify: verify,
	}
}

// Upload stores value under key and reports whether it succeeded. A rejected upsert
// (or a failed read-back when verification is on) prints a failure line and returns
// false with a nil error. Any other error aborts the caller's run.
func (u *Uploader) Upload(ctx context.Context, key, value string) (bool, error) {
	slog.Debug("Uploader: uploading setting", "key", key, "value_length", len(value))

	if err := u.store.SetSetting(ctx, key, value); err != nil {
		var upsertErr *database.UpsertError
		if errors.As(err, &upsertErr) {
			u.reportFailure(key, upsertDetail(upsertErr))
			return false, nil
		}
		return false, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.verify {
		if detail, ok := u.readBack(ctx, key, value); !ok {
			u.reportFailure(key, detail)
			return false, nil
		}
	}

	fmt.Fprintf(u.out, "Successfully uploaded %s\n", key)
	slog.Info("Uploader: setting uploaded", "key", key, "verified", u.verify)
	return true, nil
}

// readBack compares the stored value with the one just written.
func (u *Uploader) readBack(ctx context.Context, key, want string) (string, bool) {
	setting, err := u.store.GetSetting(ctx, key)
	switch {
	case err != nil:
		return fmt.Sprintf("verification read failed: %v", err), false
	case setting == nil:
		return "verification failed: key not found after upsert", false
	case setting.Value != want:
		return fmt.Sprintf("verification failed: stored value has length %d, expected %d", len(setting.Value), len(want)), false
	}
	return "", true
}

func (u *Uploader) reportFailure(key, detail string) {
	fmt.Fprintf(u.out, "Failed to upload %s: %s\n", key, detail)
	slog.Error("Uploader: setting upload failed", "key", key, "error", detail)
}

// upsertDetail prefers the tool's own stderr over the generic wrapper text.
func upsertDetail(err *database.UpsertError) string {
	if stderr := strings.TrimSpace(err.Stderr); stderr != "" {
		return stderr
	}
	return err.Err.Error()
}
