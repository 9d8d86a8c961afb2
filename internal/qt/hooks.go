package qt

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
)

// WriteQtConf writes a qt.conf next to the application binary that points
// Qt's runtime at the bundled plugin and QML import paths
func WriteQtConf(appDir *appdir.AppDir) error {
	ini.PrettyFormat = false
	cfg := ini.Empty()

	section, err := cfg.NewSection("Paths")
	if err != nil {
		return err
	}
	for _, entry := range []struct{ key, value string }{
		{"Prefix", "../"},
		{"Plugins", "plugins"},
		{"Imports", "qml"},
		{"Qml2Imports", "qml"},
	} {
		if _, err := section.NewKey(entry.key, entry.value); err != nil {
			return err
		}
	}

	target := filepath.Join(appDir.Path(), "usr/bin/qt.conf")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return cfg.SaveTo(target)
}

// appRunHook is sourced by AppRun scripts that support the apprun_hooks
// convention; it points Qt at the bundled plugins and QML imports at
// bundle run time
const appRunHook = `# generated by go-qtdeploy

export QT_QPA_PLATFORM_PLUGIN_PATH="$APPDIR"/usr/plugins/platforms
export QT_PLUGIN_PATH="$APPDIR"/usr/plugins
export QML2_IMPORT_PATH="$APPDIR"/usr/qml:"$QML2_IMPORT_PATH"
`

// WriteAppRunHook writes the environment hook consumed by the AppDir's
// startup wrapper
func WriteAppRunHook(appDir *appdir.AppDir) error {
	target := filepath.Join(appDir.Path(), "apprun_hooks", "linuxdeploy-plugin-qt-hook.sh")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(appRunHook), 0644)
}
