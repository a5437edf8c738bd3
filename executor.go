package hardwareid

import (
	"context"
	"os/exec"
	"time"
)

// defaultTimeout bounds a single system query.
const defaultTimeout = 5 * time.Second

// CommandExecutor runs a system command and returns its standard output,
// allowing the process runner to be replaced in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// NewCommandExecutor returns the os/exec based executor New installs, with
// each command bounded by timeout. A non-positive timeout means 5s.
func NewCommandExecutor(timeout time.Duration) CommandExecutor {
	return &defaultCommandExecutor{Timeout: timeout}
}

// defaultCommandExecutor implements CommandExecutor using os/exec.
type defaultCommandExecutor struct {
	Timeout time.Duration
}

// Execute runs a system command with a timeout and returns its raw stdout.
// The process is killed when the timeout or ctx expires; cmd.Output closes
// the pipes and waits for the process on every return path.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, name, args...)
	configureCommand(cmd)

	output, err := cmd.Output()
	if err != nil {
		if ctxErr := timeoutCtx.Err(); ctxErr != nil {
			return "", &CommandError{Command: name, Err: ctxErr}
		}

		return "", &CommandError{Command: name, Err: err}
	}

	return string(output), nil
}
