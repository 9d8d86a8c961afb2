package qt

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImportScanner writes a qmlimportscanner stand-in that prints the
// given JSON and returns the libexec directory containing it
func fakeImportScanner(t *testing.T, jsonOutput string) string {
	t.Helper()
	libexec := t.TempDir()
	writeExecutable(t, filepath.Join(libexec, "qmlimportscanner"),
		fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", jsonOutput))
	return libexec
}

func TestQmlDeployerCopiesImportedModules(t *testing.T) {
	qmlDir := t.TempDir()
	writeFile(t, filepath.Join(qmlDir, "QtQuick", "Controls.2", "qmldir"), "module QtQuick.Controls")
	writeFile(t, filepath.Join(qmlDir, "QtQuick", "Controls.2", "libqtquickcontrols2plugin.so"), "plugin")

	jsonOutput := fmt.Sprintf(`[
	{"name": "QtQuick.Controls", "path": "%s/QtQuick/Controls.2", "relativePath": "QtQuick/Controls.2", "type": "module", "version": "2.15"},
	{"name": "QtQml", "type": "module", "version": "2.15"},
	{"name": "main.qml", "type": "file", "version": ""}
]`, qmlDir)
	libexec := fakeImportScanner(t, jsonOutput)

	factory, a := newTestFactory(t, QmakeVariables{
		"QT_INSTALL_QML":      qmlDir,
		"QT_INSTALL_LIBEXECS": libexec,
	}, nil)

	require.NoError(t, factory.qmlDeployer().Deploy())
	assert.FileExists(t, filepath.Join(a.Path(), "usr/qml/QtQuick/Controls.2/qmldir"))
	assert.FileExists(t, filepath.Join(a.Path(), "usr/qml/QtQuick/Controls.2/libqtquickcontrols2plugin.so"))
}

// the relative module path is derived from the QML import path when the
// scanner does not report one; the nested directory layout must survive
// since the QML engine resolves imports by that exact relative path
func TestQmlDeployerDerivesRelativePath(t *testing.T) {
	qmlDir := t.TempDir()
	writeFile(t, filepath.Join(qmlDir, "QtGraphicalEffects", "qmldir"), "module QtGraphicalEffects")

	jsonOutput := fmt.Sprintf(`[{"name": "QtGraphicalEffects", "path": "%s/QtGraphicalEffects", "type": "module", "version": "1.15"}]`, qmlDir)
	libexec := fakeImportScanner(t, jsonOutput)

	factory, a := newTestFactory(t, QmakeVariables{
		"QT_INSTALL_QML":      qmlDir,
		"QT_INSTALL_LIBEXECS": libexec,
	}, nil)

	require.NoError(t, factory.qmlDeployer().Deploy())
	assert.FileExists(t, filepath.Join(a.Path(), "usr/qml/QtGraphicalEffects/qmldir"))
}

func TestQmlDeployerSkipsAlreadyDeployedImports(t *testing.T) {
	qmlDir := t.TempDir()
	writeFile(t, filepath.Join(qmlDir, "QtQuick", "Layouts", "qmldir"), "module QtQuick.Layouts")

	jsonOutput := fmt.Sprintf(`[{"name": "QtQuick.Layouts", "path": "%s/QtQuick/Layouts", "relativePath": "QtQuick/Layouts", "type": "module", "version": "1.15"}]`, qmlDir)
	libexec := fakeImportScanner(t, jsonOutput)

	factory, a := newTestFactory(t, QmakeVariables{
		"QT_INSTALL_QML":      qmlDir,
		"QT_INSTALL_LIBEXECS": libexec,
	}, nil)

	deployed := filepath.Join(a.Path(), "usr/qml/QtQuick/Layouts/qmldir")
	writeFile(t, deployed, "pre-existing")

	require.NoError(t, factory.qmlDeployer().Deploy())
	content, err := os.ReadFile(deployed)
	require.NoError(t, err)
	assert.Equal(t, "pre-existing", string(content))
}

func TestQmlDeployerEmptyImportPathSkips(t *testing.T) {
	factory, a := newTestFactory(t, QmakeVariables{}, nil)
	require.NoError(t, factory.qmlDeployer().Deploy())
	assert.NoDirExists(t, filepath.Join(a.Path(), "usr/qml"))
}

func TestQmlDeployerScannerFailureIsFatal(t *testing.T) {
	libexec := t.TempDir()
	writeExecutable(t, filepath.Join(libexec, "qmlimportscanner"), "#!/bin/sh\necho 'scan error' >&2\nexit 1\n")

	factory, _ := newTestFactory(t, QmakeVariables{
		"QT_INSTALL_QML":      t.TempDir(),
		"QT_INSTALL_LIBEXECS": libexec,
	}, nil)

	err := factory.qmlDeployer().Deploy()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan error")
}
