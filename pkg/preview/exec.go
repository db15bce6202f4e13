package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// ErrEmptyCommand is returned for blank commands.
var ErrEmptyCommand = errors.New("empty command")

// ShellExecutor runs commands in Dir. Commands are split with shell quoting
// rules and run directly, without a shell.
type ShellExecutor struct {
	Dir string
}

// Exec runs cmd and returns its standard output.
func (e ShellExecutor) Exec(ctx context.Context, cmd string) ([]byte, error) {
	args, err := shlex.Split(cmd)
	if err != nil {
		return nil, fmt.Errorf("split command %q: %w", cmd, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	c := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // Commands come from the session configuration.
	c.Dir = e.Dir

	var stderr bytes.Buffer
	c.Stderr = &stderr

	out, err := c.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("run %s: %w: %s", args[0], err, msg)
		}
		return out, fmt.Errorf("run %s: %w", args[0], err)
	}

	return out, nil
}
