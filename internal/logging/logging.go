package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger. Verbose (debug-level) output is
// enabled when the $DEBUG environment variable is set, matching the
// behavior of the other linuxdeploy plugins.
func Setup(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    os.Getenv("NO_COLOR") != "",
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}).With().Logger()
}

// GetLogger returns a logger tagged with the given component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
