package qt

import (
	"os"
	"strings"
)

// ProcessEnvironment models the search paths handed to every external tool
// the deployment spawns. The orchestrator adjusts it after querying qmake
// so that nested tool invocations see the deployed Qt installation before
// any system-installed one, and decides when the adjusted paths are
// written back to the real process environment.
type ProcessEnvironment struct {
	Path          string
	LdLibraryPath string
	// QmakeOverride is the explicit qmake path from $QMAKE, taking
	// precedence unconditionally when set
	QmakeOverride string
}

// EnvironmentFromProcess captures the relevant variables of the current
// process environment
func EnvironmentFromProcess() ProcessEnvironment {
	return ProcessEnvironment{
		Path:          os.Getenv("PATH"),
		LdLibraryPath: os.Getenv("LD_LIBRARY_PATH"),
		QmakeOverride: os.Getenv("QMAKE"),
	}
}

// PrependPath puts dir in front of the executable search path
func (e *ProcessEnvironment) PrependPath(dir string) {
	if dir == "" {
		return
	}
	e.Path = dir + ":" + e.Path
}

// PrependLibraryPath puts dir in front of the library search path
func (e *ProcessEnvironment) PrependLibraryPath(dir string) {
	if dir == "" {
		return
	}
	e.LdLibraryPath = dir + ":" + e.LdLibraryPath
}

// List returns the environment for child processes: the current process
// environment with PATH and LD_LIBRARY_PATH replaced by the adjusted values
func (e ProcessEnvironment) List() []string {
	var env []string
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "PATH=") || strings.HasPrefix(entry, "LD_LIBRARY_PATH=") {
			continue
		}
		env = append(env, entry)
	}
	return append(env, "PATH="+e.Path, "LD_LIBRARY_PATH="+e.LdLibraryPath)
}

// Apply writes the adjusted search paths back into the process environment
func (e ProcessEnvironment) Apply() {
	os.Setenv("PATH", e.Path)
	os.Setenv("LD_LIBRARY_PATH", e.LdLibraryPath)
}
