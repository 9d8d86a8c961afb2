package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/probonopd/go-qtdeploy/internal/logging"
	"github.com/probonopd/go-qtdeploy/internal/qt"
)

// the linuxdeploy plugin system queries these before invoking the plugin
const (
	pluginType       = "input"
	pluginAPIVersion = "0"
)

// commit is set at build time via -X main.commit=...
var commit string

// bootstrapQtDeploy converts the cli.Context into deployment options and
// runs the pipeline
func bootstrapQtDeploy(c *cli.Context) error {
	if c.Bool("plugin-type") {
		fmt.Println(pluginType)
		return nil
	}
	if c.Bool("plugin-api-version") {
		fmt.Println(pluginAPIVersion)
		return nil
	}

	appDirPath := c.String("appdir")
	if appDirPath == "" {
		return cli.Exit("--appdir parameter required", 1)
	}

	extraModules := c.StringSlice("extra-plugin")
	if fromEnv := os.Getenv("EXTRA_QT_PLUGINS"); fromEnv != "" {
		for _, name := range strings.Split(fromEnv, ";") {
			if name != "" {
				extraModules = append(extraModules, name)
			}
		}
	}

	err := qt.Deploy(qt.Options{
		AppDirPath:            appDirPath,
		ExtraModules:          extraModules,
		DisableCopyrightFiles: os.Getenv("DISABLE_COPYRIGHT_FILES_DEPLOYMENT") != "",
	})
	if err != nil {
		log.Error().Err(err).Msg("deployment failed")
		return cli.Exit("", 1)
	}

	log.Info().Msg("done")
	return nil
}

func main() {
	logging.Setup(os.Getenv("DEBUG") != "")

	version := commit
	if version == "" {
		version = "unsupported custom build"
	}

	app := &cli.App{
		Name:    "qtdeploy",
		Usage:   "Bundles Qt resources into an existing AppDir, for use with linuxdeploy-style tooling",
		Version: version,
		Action:  bootstrapQtDeploy,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "appdir",
				Usage: "Path to an existing AppDir",
			},
			&cli.StringSliceFlag{
				Name:    "extra-plugin",
				Aliases: []string{"p"},
				Usage:   "Extra Qt plugin to deploy (specified by name, filename or path)",
			},
			&cli.BoolFlag{
				Name:  "plugin-type",
				Usage: "Print plugin type and exit",
			},
			&cli.BoolFlag{
				Name:  "plugin-api-version",
				Usage: "Print plugin API version and exit",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		cli.HandleExitCoder(err)
		os.Exit(1)
	}
}
