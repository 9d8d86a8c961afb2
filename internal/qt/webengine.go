package qt

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// webEnginePluginsDeployer bundles the QtWebEngine subprocess executable,
// its resources (icudtl.dat, .pak files) and its locales. It is the most
// resource-heavy deployer; the two fatal conditions, missing subprocess
// binary and missing resources directory, are reported distinctly.
type webEnginePluginsDeployer struct {
	log              zerolog.Logger
	appDir           *appdir.AppDir
	libexecsPath     string
	dataPath         string
	translationsPath string
}

func (f *DeployerFactory) webEngineDeployer() *webEnginePluginsDeployer {
	return &webEnginePluginsDeployer{
		log:              logging.GetLogger("webengine-deployer"),
		appDir:           f.appDir,
		libexecsPath:     f.vars["QT_INSTALL_LIBEXECS"],
		dataPath:         f.vars["QT_INSTALL_DATA"],
		translationsPath: f.vars["QT_INSTALL_TRANSLATIONS"],
	}
}

func (d *webEnginePluginsDeployer) Deploy() error {
	if err := d.deploySubprocess(); err != nil {
		return err
	}
	if err := d.deployResources(); err != nil {
		return err
	}
	return d.deployLocales()
}

func (d *webEnginePluginsDeployer) deploySubprocess() error {
	if d.libexecsPath == "" {
		d.log.Debug().Msg("Qt libexecs path unknown, skipping QtWebEngineProcess deployment")
		return nil
	}

	src := filepath.Join(d.libexecsPath, "QtWebEngineProcess")
	if !helpers.Exists(src) {
		return fmt.Errorf("QtWebEngineProcess executable missing: %s", src)
	}
	if err := d.appDir.DeployFile(src, "usr/libexec/QtWebEngineProcess"); err != nil {
		return err
	}

	// Qt looks for the subprocess next to the application binary
	d.appDir.QueueSymlink("../libexec/QtWebEngineProcess", "usr/bin/QtWebEngineProcess")
	return nil
}

func (d *webEnginePluginsDeployer) deployResources() error {
	if d.dataPath == "" {
		d.log.Debug().Msg("Qt data path unknown, skipping WebEngine resources deployment")
		return nil
	}

	src := filepath.Join(d.dataPath, "resources")
	if !helpers.IsDirectory(src) {
		return fmt.Errorf("WebEngine resources directory missing: %s", src)
	}
	if err := d.appDir.DeployDirectory(src, "usr/resources"); err != nil {
		return err
	}

	d.appDir.QueueSymlink("../resources", "usr/bin/resources")
	return nil
}

func (d *webEnginePluginsDeployer) deployLocales() error {
	if d.translationsPath == "" {
		d.log.Debug().Msg("Qt translations path unknown, skipping WebEngine locales deployment")
		return nil
	}

	src := filepath.Join(d.translationsPath, "qtwebengine_locales")
	if !helpers.IsDirectory(src) {
		// locales are enhancement; a bundle without them still runs
		d.log.Warn().Str("directory", src).Msg("WebEngine locales not found, not deploying")
		return nil
	}
	if err := d.appDir.DeployDirectory(src, "usr/translations/qtwebengine_locales"); err != nil {
		return err
	}

	d.appDir.QueueSymlink("../translations/qtwebengine_locales", "usr/bin/qtwebengine_locales")
	return nil
}
