package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultTimeout bounds every OS command so a wedged network tool cannot
// stall the rotation loop indefinitely.
const defaultTimeout = 15 * time.Second

// Runner executes one system command and returns its trimmed stdout.
// Implementations must honor the context.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct {
	timeout time.Duration
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(runCtx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}
