package qt

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// qmlImport is one entry of qmlimportscanner's JSON output
type qmlImport struct {
	Classname    string `json:"classname,omitempty"`
	Name         string `json:"name"`
	Path         string `json:"path,omitempty"`
	Plugin       string `json:"plugin,omitempty"`
	RelativePath string `json:"relativePath,omitempty"`
	Type         string `json:"type"`
	Version      string `json:"version"`
}

// qmlImportsDeployer bundles the transitive closure of QML modules the
// AppDir's binaries import. Unlike the plugin deployers its file set is
// not fixed: qmlimportscanner statically analyzes the bundled files and
// reports the imports, which are then copied from the Qt QML import path
// preserving the dotted-name-to-nested-directory layout the QML engine
// resolves at runtime.
type qmlImportsDeployer struct {
	log           zerolog.Logger
	appDir        *appdir.AppDir
	qmlImportPath string
	libexecsPath  string
	env           ProcessEnvironment
}

func (f *DeployerFactory) qmlDeployer() *qmlImportsDeployer {
	return &qmlImportsDeployer{
		log:           logging.GetLogger("qml-deployer"),
		appDir:        f.appDir,
		qmlImportPath: f.vars["QT_INSTALL_QML"],
		libexecsPath:  f.vars["QT_INSTALL_LIBEXECS"],
		env:           f.env,
	}
}

func (d *qmlImportsDeployer) Deploy() error {
	if d.qmlImportPath == "" {
		d.log.Debug().Msg("Qt QML import path unknown, skipping QML deployment")
		return nil
	}

	scanner := d.findImportScanner()
	if scanner == "" {
		return fmt.Errorf("could not find qmlimportscanner")
	}
	d.log.Info().Str("scanner", scanner).Msg("scanning AppDir for QML imports")

	imports, err := d.scanImports(scanner)
	if err != nil {
		return err
	}

	for _, imp := range imports {
		if err := d.deployImport(imp); err != nil {
			return err
		}
	}
	return nil
}

// findImportScanner prefers the qmlimportscanner of the deployed Qt's
// libexec directory over whatever is on the executable search path
func (d *qmlImportsDeployer) findImportScanner() string {
	if d.libexecsPath != "" {
		candidate := filepath.Join(d.libexecsPath, "qmlimportscanner")
		if helpers.Exists(candidate) {
			return candidate
		}
	}
	return helpers.Which("qmlimportscanner", d.env.Path)
}

func (d *qmlImportsDeployer) scanImports(scanner string) ([]qmlImport, error) {
	result, err := helpers.RunCommand(d.env.List(), scanner,
		"-rootPath", d.appDir.Path(),
		"-importPath", d.qmlImportPath,
	)
	if err != nil {
		return nil, fmt.Errorf("could not run qmlimportscanner: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("qmlimportscanner failed: %s", strings.TrimSpace(result.Stderr))
	}

	var imports []qmlImport
	if err := json.Unmarshal([]byte(result.Stdout), &imports); err != nil {
		return nil, fmt.Errorf("could not parse qmlimportscanner output: %w", err)
	}
	return imports, nil
}

func (d *qmlImportsDeployer) deployImport(imp qmlImport) error {
	if imp.Type != "module" {
		return nil
	}
	if imp.Path == "" {
		// e.g. imports compiled into the Qt libraries themselves
		d.log.Debug().Str("import", imp.Name).Msg("import has no filesystem path, skipping")
		return nil
	}

	relativePath := imp.RelativePath
	if relativePath == "" {
		rel, err := filepath.Rel(d.qmlImportPath, imp.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			d.log.Debug().Str("import", imp.Name).Str("path", imp.Path).Msg("import outside QML import path, skipping")
			return nil
		}
		relativePath = rel
	}

	destination := filepath.Join("usr/qml", relativePath)
	if helpers.Exists(filepath.Join(d.appDir.Path(), destination)) {
		d.log.Debug().Str("import", imp.Name).Msg("already deployed, skipping")
		return nil
	}

	d.log.Info().Str("import", imp.Name).Str("version", imp.Version).Msg("deploying QML module")
	if err := d.appDir.DeployDirectory(imp.Path, destination); err != nil {
		return fmt.Errorf("could not deploy QML module %s: %w", imp.Name, err)
	}
	return nil
}
