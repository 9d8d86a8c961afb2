package qt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQtConf(t *testing.T) {
	appDir := newTestAppDir(t)

	require.NoError(t, WriteQtConf(appDir))

	data, err := os.ReadFile(filepath.Join(appDir.Path(), "usr/bin/qt.conf"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[Paths]")
	assert.Contains(t, content, "Prefix=../")
	assert.Contains(t, content, "Plugins=plugins")
	assert.Contains(t, content, "Imports=qml")
	assert.Contains(t, content, "Qml2Imports=qml")
}

func TestWriteAppRunHook(t *testing.T) {
	appDir := newTestAppDir(t)

	require.NoError(t, WriteAppRunHook(appDir))

	data, err := os.ReadFile(filepath.Join(appDir.Path(), "apprun_hooks/linuxdeploy-plugin-qt-hook.sh"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, `export QT_QPA_PLATFORM_PLUGIN_PATH="$APPDIR"/usr/plugins/platforms`)
	assert.Contains(t, content, `export QT_PLUGIN_PATH="$APPDIR"/usr/plugins`)
	assert.Contains(t, content, `export QML2_IMPORT_PATH="$APPDIR"/usr/qml`)
}
