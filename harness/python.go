package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// RunPython executes the uploaded script under the given interpreter with a
// hard timeout. Hitting the timeout is not an error: the measurement then
// covers however long the script was allowed to run. A nonzero exit status
// from the script itself is also not an error; only failing to start the
// interpreter is.
func RunPython(ctx context.Context, pythonBin, path string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, pythonBin, path)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Seconds()

	if err != nil && runCtx.Err() == nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", path, err)
		}
	}

	var peakMB float64
	if state := cmd.ProcessState; state != nil {
		if ru, ok := state.SysUsage().(*syscall.Rusage); ok {
			// Maxrss is reported in KiB on Linux.
			peakMB = float64(ru.Maxrss) / 1024
		}
	}

	return buildResult(path, elapsed, peakMB), nil
}
