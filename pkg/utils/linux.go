package utils

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

func IsRoot() bool {
	return os.Geteuid() == 0
}

// ExecCommand runs a command under the given context and captures its
// combined output. Used for short helper invocations, not the benchmark
// itself.
func ExecCommand(ctx context.Context, command string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, command, args...).CombinedOutput()
	if err != nil {
		// Check if the context was canceled or timed out
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("command `%s %v` timed out", command, args)
		}
		return nil, fmt.Errorf("failed to execute command `%s %v`: %s", command, args, err.Error())
	}
	return output, nil
}
