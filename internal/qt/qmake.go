package qt

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/probonopd/go-qtdeploy/internal/helpers"
)

// QmakeVariables maps qmake -query variable names to filesystem paths.
// Missing keys read as empty strings; downstream deployers skip the
// affected portion of deployment rather than fail.
type QmakeVariables map[string]string

// FindQmake locates a qmake executable. An explicit $QMAKE override wins
// unconditionally and is not validated; otherwise the executable search
// path is searched for qmake-qt5 first, then qmake. Returns an empty
// string if neither is found.
func FindQmake(env ProcessEnvironment) string {
	if env.QmakeOverride != "" {
		log.Info().Str("qmake", env.QmakeOverride).Msg("using user specified qmake")
		return env.QmakeOverride
	}
	if path := helpers.Which("qmake-qt5", env.Path); path != "" {
		return path
	}
	return helpers.Which("qmake", env.Path)
}

// QueryQmake invokes the given qmake with -query and parses its output
// into the Qt installation paths. A non-zero exit is fatal for the whole
// run; deployment cannot proceed without Qt's install layout.
func QueryQmake(env ProcessEnvironment, qmakePath string) (QmakeVariables, error) {
	result, err := helpers.RunCommand(env.List(), qmakePath, "-query")
	if err != nil {
		return nil, fmt.Errorf("could not run qmake: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("call to qmake failed: %s", strings.TrimSpace(result.Stderr))
	}
	return ParseQmakeOutput(result.Stdout), nil
}

// ParseQmakeOutput parses qmake -query output line by line. Each line is
// split on the first colon; the value keeps any further colons (drive
// letters in Windows-style paths). Lines without a colon, such as version
// banners or blank lines, are silently ignored.
func ParseQmakeOutput(output string) QmakeVariables {
	variables := make(QmakeVariables)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found || key == "" {
			continue
		}
		variables[key] = value
	}
	return variables
}
