package qt

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// Deployer bundles the files one Qt module needs into the AppDir. A single
// Deploy call is one-shot; any returned error aborts the whole run.
type Deployer interface {
	Deploy() error
}

// pluginsDeployer is the generic building block for modules whose
// deployment is nothing more than copying fixed plugin subdirectories
// and/or individual plugin files into the AppDir.
type pluginsDeployer struct {
	log         zerolog.Logger
	appDir      *appdir.AppDir
	pluginsPath string

	// plugin subdirectories copied wholesale; a missing directory is an
	// error since the matched module cannot work without its plugins
	directories []string
	// individual plugin files, relative to the Qt plugins directory
	files []string
}

func (d *pluginsDeployer) Deploy() error {
	if d.pluginsPath == "" {
		d.log.Debug().Msg("Qt plugins path unknown, skipping plugin deployment")
		return nil
	}

	for _, dir := range d.directories {
		src := filepath.Join(d.pluginsPath, dir)
		if !helpers.IsDirectory(src) {
			return fmt.Errorf("plugin directory missing: %s", src)
		}
		if err := d.appDir.DeployDirectory(src, filepath.Join("usr/plugins", dir)); err != nil {
			return fmt.Errorf("could not deploy plugin directory %s: %w", dir, err)
		}
	}

	for _, file := range d.files {
		src := filepath.Join(d.pluginsPath, file)
		if !helpers.Exists(src) {
			return fmt.Errorf("plugin file missing: %s", src)
		}
		if err := d.appDir.DeployFile(src, filepath.Join("usr/plugins", file)); err != nil {
			return fmt.Errorf("could not deploy plugin file %s: %w", file, err)
		}
	}

	return nil
}

// DeployerFactory constructs the deployers for each matched module from
// the resolved Qt installation paths
type DeployerFactory struct {
	appDir *appdir.AppDir
	vars   QmakeVariables
	env    ProcessEnvironment
	// filenames of the discovered shared libraries, used by deployers
	// whose file set depends on what the target binaries link against
	libraryNames []string
}

// NewDeployerFactory returns a factory for the given AppDir, qmake
// variables and discovered library set
func NewDeployerFactory(appDir *appdir.AppDir, vars QmakeVariables, env ProcessEnvironment, libraryNames []string) *DeployerFactory {
	return &DeployerFactory{
		appDir:       appDir,
		vars:         vars,
		env:          env,
		libraryNames: libraryNames,
	}
}

func (f *DeployerFactory) basic(name string, directories, files []string) *pluginsDeployer {
	return &pluginsDeployer{
		log:         logging.GetLogger(name + "-deployer"),
		appDir:      f.appDir,
		pluginsPath: f.vars["QT_INSTALL_PLUGINS"],
		directories: directories,
		files:       files,
	}
}

// GetDeployers maps a matched module name to its deployers. A module may
// need more than one: gui requires both the platform plugins and the
// XCB-GL integrations. A name that is not in the module catalog indicates
// catalog/factory skew and aborts the run; a silently skipped module would
// produce a runtime-broken bundle.
func (f *DeployerFactory) GetDeployers(moduleName string) ([]Deployer, error) {
	if !KnownModule(moduleName) {
		return nil, fmt.Errorf("no deployer registered for module: %s", moduleName)
	}

	switch moduleName {
	case "gui":
		return []Deployer{f.platformDeployer(), f.xcbglIntegrationsDeployer()}, nil
	case "opengl", "xcbqpa":
		return []Deployer{f.xcbglIntegrationsDeployer()}, nil
	case "network":
		return []Deployer{f.basic("bearer", []string{"bearer"}, nil)}, nil
	case "svg":
		return []Deployer{f.basic("svg", nil, []string{
			"iconengines/libqsvgicon.so",
			"imageformats/libqsvg.so",
		})}, nil
	case "sql":
		return []Deployer{f.basic("sql", []string{"sqldrivers"}, nil)}, nil
	case "positioning":
		return []Deployer{f.basic("positioning", []string{"position"}, nil)}, nil
	case "multimedia":
		return []Deployer{f.basic("multimedia", []string{"mediaservice", "audio"}, nil)}, nil
	case "webenginecore":
		return []Deployer{f.webEngineDeployer()}, nil
	case "qml":
		return []Deployer{f.qmlDeployer()}, nil
	case "3drender":
		return []Deployer{f.basic("qt3d", []string{"sceneparsers", "geometryloaders"}, nil)}, nil
	case "gamepad":
		return []Deployer{f.basic("gamepad", []string{"gamepads"}, nil)}, nil
	default:
		// catalog modules without module-specific plugins still get the
		// generic deployer so the contract "every matched module has a
		// deployer" holds
		return []Deployer{f.basic(moduleName, nil, nil)}, nil
	}
}
