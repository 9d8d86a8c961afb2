package qt

import (
	"errors"
	"fmt"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"github.com/rs/zerolog/log"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
)

// ErrNoQtModules is returned when neither the discovered libraries nor the
// requested extra plugins refer to any known Qt module
var ErrNoQtModules = errors.New("could not find Qt modules to deploy")

// ErrQmakeNotFound is returned when no qmake executable could be located
var ErrQmakeNotFound = errors.New("could not find qmake, please install or provide a path using $QMAKE")

// Options configures a deployment run
type Options struct {
	// AppDirPath is the root of an existing AppDir
	AppDirPath string
	// ExtraModules are module names, library filenames or paths the user
	// requested in addition to what dependency discovery finds
	ExtraModules []string
	// DisableCopyrightFiles skips the dpkg-based copyright file deployment
	DisableCopyrightFiles bool
}

// Deploy runs the whole deployment pipeline against the AppDir. The
// pipeline is strictly sequential; the first failing stage aborts the run
// with no retries, leaving no partial-success bundle behind by accident.
func Deploy(opts Options) error {
	appDir, err := appdir.New(opts.AppDirPath)
	if err != nil {
		return err
	}
	appDir.SetDisableCopyrightFilesDeployment(opts.DisableCopyrightFiles)

	env := EnvironmentFromProcess()

	libraryNames := discoverLibraries(appDir, env)
	log.Debug().Strs("libraries", libraryNames).Msg("libraries to consider")

	foundModules := MatchModules(libraryNames)
	extraModules := MatchModules(opts.ExtraModules)
	log.Info().Strs("modules", ModuleNames(foundModules)).Msg("found Qt modules")
	log.Info().Strs("modules", ModuleNames(extraModules)).Msg("extra Qt modules")

	modules := mergeModules(foundModules, extraModules)
	if len(modules) == 0 {
		return ErrNoQtModules
	}

	qmakePath := FindQmake(env)
	if qmakePath == "" {
		return ErrQmakeNotFound
	}
	log.Info().Str("qmake", qmakePath).Msg("using qmake")

	vars, err := QueryQmake(env, qmakePath)
	if err != nil {
		return err
	}
	if len(vars) == 0 {
		return errors.New("failed to query Qt paths using qmake -query")
	}
	if err := checkQtVersion(vars); err != nil {
		return err
	}

	// From here on, every spawned tool must see the deployed Qt first
	env.PrependLibraryPath(vars["QT_INSTALL_LIBS"])
	env.PrependPath(vars["QT_INSTALL_BINS"])
	env.Apply()
	log.Debug().Str("LD_LIBRARY_PATH", env.LdLibraryPath).Str("PATH", env.Path).Msg("adjusted search paths")

	factory := NewDeployerFactory(appDir, vars, env, libraryNames)
	for _, module := range modules {
		log.Info().Str("module", module.Name).Msg("deploying module")
		deployers, err := factory.GetDeployers(module.Name)
		if err != nil {
			return err
		}
		for _, deployer := range deployers {
			if err := deployer.Deploy(); err != nil {
				return fmt.Errorf("deploying module %s: %w", module.Name, err)
			}
		}
	}

	log.Info().Msg("deploying translations")
	if err := DeployTranslations(appDir, vars["QT_INSTALL_TRANSLATIONS"], modules); err != nil {
		return fmt.Errorf("failed to deploy translations: %w", err)
	}

	log.Info().Msg("executing deferred operations")
	if err := appDir.ExecuteDeferredOperations(); err != nil {
		return fmt.Errorf("failed to execute deferred operations: %w", err)
	}

	if err := appDir.DeployCopyrightFiles(); err != nil {
		return fmt.Errorf("failed to deploy copyright files: %w", err)
	}

	log.Info().Msg("creating qt.conf in AppDir")
	if err := WriteQtConf(appDir); err != nil {
		return fmt.Errorf("failed to create qt.conf: %w", err)
	}

	log.Info().Msg("creating AppRun hook")
	if err := WriteAppRunHook(appDir); err != nil {
		return fmt.Errorf("failed to create AppRun hook: %w", err)
	}

	return nil
}

// discoverLibraries builds the set of library filenames to match modules
// against: the AppDir's own shared libraries plus each one's transitive
// dynamic dependencies. Files that fail ELF parsing are skipped, not fatal.
func discoverLibraries(appDir *appdir.AppDir, env ProcessEnvironment) []string {
	tracer := helpers.NewElfTracer(env.LdLibraryPath)

	var names []string
	for _, library := range appDir.ListSharedLibraries() {
		names = helpers.AppendIfMissing(names, filepath.Base(library))
		deps, err := tracer.TraceDynamicDependencies(library)
		if err != nil {
			log.Debug().Str("file", library).Err(err).Msg("failed to parse file as ELF file")
			continue
		}
		for _, dep := range deps {
			names = helpers.AppendIfMissing(names, filepath.Base(dep))
		}
	}
	return names
}

// checkQtVersion verifies qmake points at a supported Qt installation.
// An absent or unparseable QT_VERSION is tolerated.
func checkQtVersion(vars QmakeVariables) error {
	raw := vars["QT_VERSION"]
	if raw == "" {
		return nil
	}
	detected, err := goversion.NewVersion(raw)
	if err != nil {
		log.Debug().Str("version", raw).Msg("could not parse QT_VERSION")
		return nil
	}
	log.Info().Str("version", detected.String()).Msg("detected Qt version")

	minimum := goversion.Must(goversion.NewVersion("5.0.0"))
	if detected.LessThan(minimum) {
		return fmt.Errorf("unsupported Qt version %s, need at least %s", detected, minimum)
	}
	return nil
}
