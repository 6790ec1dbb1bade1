package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner executes a shell script and returns its captured output streams.
// A non-nil error means the script could not be launched or exited non-zero.
type CommandRunner interface {
	Run(ctx context.Context, script string) (stdout []byte, stderr []byte, err error)
}

// ShellRunner runs scripts with "<Shell> -c". Shell defaults to bash, which the
// nvm activation step requires.
type ShellRunner struct {
	Shell string
}

func (r *ShellRunner) Run(ctx context.Context, script string) ([]byte, []byte, error) {
	shell := r.Shell
	if shell == "" {
		shell = "bash"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("command exited with status %d", exitErr.ExitCode())
		}
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("failed to run %s: %w", shell, err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}
