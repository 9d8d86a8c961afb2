package qt

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// platformPluginsDeployer bundles the XCB platform plugin plus the theme
// and style plugins, and the GL integration libraries when the target
// binaries need them
type platformPluginsDeployer struct {
	log          zerolog.Logger
	appDir       *appdir.AppDir
	pluginsPath  string
	libraryNames []string
}

func (f *DeployerFactory) platformDeployer() *platformPluginsDeployer {
	return &platformPluginsDeployer{
		log:          logging.GetLogger("platform-deployer"),
		appDir:       f.appDir,
		pluginsPath:  f.vars["QT_INSTALL_PLUGINS"],
		libraryNames: f.libraryNames,
	}
}

func (d *platformPluginsDeployer) Deploy() error {
	if d.pluginsPath == "" {
		d.log.Debug().Msg("Qt plugins path unknown, skipping platform plugin deployment")
		return nil
	}

	src := filepath.Join(d.pluginsPath, "platforms", "libqxcb.so")
	if !helpers.Exists(src) {
		return fmt.Errorf("XCB platform plugin missing: %s", src)
	}
	if err := d.appDir.DeployFile(src, "usr/plugins/platforms/libqxcb.so"); err != nil {
		return err
	}

	// themes and styles are optional extras of the platform integration
	for _, dir := range []string{"platformthemes", "styles"} {
		candidate := filepath.Join(d.pluginsPath, dir)
		if !helpers.IsDirectory(candidate) {
			d.log.Debug().Str("directory", candidate).Msg("not shipped by this Qt build")
			continue
		}
		if err := d.appDir.DeployDirectory(candidate, filepath.Join("usr/plugins", dir)); err != nil {
			return err
		}
	}

	if requiresOpenGLIntegration(d.libraryNames) {
		d.log.Info().Msg("target binaries use OpenGL, deploying XCB-GL integration")
		return deployXcbglIntegrations(d.log, d.appDir, d.pluginsPath)
	}

	return nil
}

// requiresOpenGLIntegration reports whether any of the discovered
// libraries pulls in OpenGL, meaning plain XCB will not be enough
func requiresOpenGLIntegration(libraryNames []string) bool {
	for _, name := range libraryNames {
		base := filepath.Base(name)
		if strings.HasPrefix(base, "libQt5OpenGL.") ||
			strings.HasPrefix(base, "libGL.") ||
			strings.HasPrefix(base, "libOpenGL.") ||
			strings.HasPrefix(base, "libEGL.") {
			return true
		}
	}
	return false
}

// xcbglIntegrationsDeployer bundles the xcbglintegrations plugin
// directory. Not all Qt builds ship the GL integration, so an absent
// directory is tolerated.
type xcbglIntegrationsDeployer struct {
	log         zerolog.Logger
	appDir      *appdir.AppDir
	pluginsPath string
}

func (f *DeployerFactory) xcbglIntegrationsDeployer() *xcbglIntegrationsDeployer {
	return &xcbglIntegrationsDeployer{
		log:         logging.GetLogger("xcbgl-deployer"),
		appDir:      f.appDir,
		pluginsPath: f.vars["QT_INSTALL_PLUGINS"],
	}
}

func (d *xcbglIntegrationsDeployer) Deploy() error {
	if d.pluginsPath == "" {
		d.log.Debug().Msg("Qt plugins path unknown, skipping XCB-GL integration deployment")
		return nil
	}
	return deployXcbglIntegrations(d.log, d.appDir, d.pluginsPath)
}

func deployXcbglIntegrations(log zerolog.Logger, appDir *appdir.AppDir, pluginsPath string) error {
	src := filepath.Join(pluginsPath, "xcbglintegrations")
	if !helpers.IsDirectory(src) {
		log.Debug().Str("directory", src).Msg("XCB-GL integrations not shipped by this Qt build")
		return nil
	}
	return appDir.DeployDirectory(src, "usr/plugins/xcbglintegrations")
}
