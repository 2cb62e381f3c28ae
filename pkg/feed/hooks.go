package feed

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const defaultHookTimeout = time.Minute

// ExecHook is a command to run after a feed has been generated
type ExecHook struct {
	Command []string `toml:"command"`
	Timeout int      `toml:"timeout"` // timeout in seconds, 0 means use default (60s)
}

// HookEnv builds the environment passed to hooks
func HookEnv(feedName, feedPath string, episodes int) []string {
	return []string{
		"FEED_NAME=" + feedName,
		"FEED_PATH=" + feedPath,
		fmt.Sprintf("EPISODE_COUNT=%d", episodes),
	}
}

// Invoke runs a hook with the provided environment variables
func (h *ExecHook) Invoke(ctx context.Context, env []string) error {
	if h == nil {
		return nil
	}
	if len(h.Command) == 0 {
		return fmt.Errorf("hook command is empty")
	}

	timeout := defaultHookTimeout
	if h.Timeout > 0 {
		timeout = time.Duration(h.Timeout) * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if len(h.Command) == 1 {
		// Single command, use shell to parse
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", h.Command[0])
	} else {
		cmd = exec.CommandContext(ctx, h.Command[0], h.Command[1:]...)
	}

	cmd.Env = append(os.Environ(), env...)

	data, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("hook execution failed: %v, output: %s", err, string(data))
	}

	return nil
}
