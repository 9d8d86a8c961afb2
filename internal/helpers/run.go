package helpers

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandResult holds the outcome of a blocking external command invocation.
// Both output streams are fully drained before the call returns.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code zero
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// RunCommand runs args[0] with the remaining arguments and blocks until the
// child has exited. env replaces the child's environment when non-nil so
// that callers can hand adjusted search paths to nested tool invocations.
// A non-zero exit code is reported through the result, not as an error;
// the returned error is reserved for commands that could not be started.
func RunCommand(env []string, args ...string) (CommandResult, error) {
	cmd := exec.Command(args[0], args[1:]...)
	if env != nil {
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

// Which searches the directories in the colon-delimited pathList for an
// executable with the given name and returns its full path, or an empty
// string if none is found.
func Which(name string, pathList string) string {
	for _, dir := range strings.Split(pathList, ":") {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0111 != 0 {
			return candidate
		}
	}
	return ""
}
