package alter

import (
	"context"
	"os/exec"
	"time"
)

// DefaultTool is the ImageMagick command that edits files in place
const DefaultTool = "mogrify"

// Executor runs an external command and returns its combined output
type Executor interface {
	Execute(ctx context.Context, name string, args []string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Arguments are passed as an array,
// never through a shell.
type ExecRunner struct {
	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration
}

// Execute runs name with args
func (r ExecRunner) Execute(ctx context.Context, name string, args []string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
