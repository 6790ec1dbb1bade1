package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValueTooLarge is wrapped by backends that cannot store a value of the given size.
var ErrValueTooLarge = errors.New("value too large for the settings store")

// UpsertError reports that the store rejected a single key: the external tool exited
// non-zero or could not be launched, or the driver returned an error. Callers may
// continue with other keys.
type UpsertError struct {
	Key    string
	Stderr string
	Err    error
}

func (e *UpsertError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("upsert of %s failed: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("upsert of %s failed: %v: %s", e.Key, e.Err, stderr)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}
