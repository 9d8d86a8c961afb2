package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDpkgQuery puts a dpkg-query stand-in with the given script body on
// the executable search path
func stubDpkgQuery(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dpkg-query")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	t.Setenv("PATH", dir)
}

func overrideDocDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := dpkgDocDir
	dpkgDocDir = dir
	t.Cleanup(func() { dpkgDocDir = previous })
	return dir
}

func TestDeployCopyrightFiles(t *testing.T) {
	docDir := overrideDocDir(t)
	writeFile(t, filepath.Join(docDir, "libqt5sql5", "copyright"), "license text")
	stubDpkgQuery(t, "echo 'libqt5sql5: '$2\n")

	a := newTestAppDir(t)
	src := filepath.Join(t.TempDir(), "libqsqlite.so")
	writeFile(t, src, "driver")
	require.NoError(t, a.DeployFile(src, "usr/plugins/sqldrivers/libqsqlite.so"))

	require.NoError(t, a.DeployCopyrightFiles())

	deployed := filepath.Join(a.Path(), docDir, "libqt5sql5", "copyright")
	data, err := os.ReadFile(deployed)
	require.NoError(t, err)
	assert.Equal(t, "license text", string(data))
}

func TestDeployCopyrightFilesToleratesUnownedFiles(t *testing.T) {
	docDir := overrideDocDir(t)
	stubDpkgQuery(t, "echo 'dpkg-query: no path found matching pattern '$2 >&2\nexit 1\n")

	a := newTestAppDir(t)
	src := filepath.Join(t.TempDir(), "libqsqlite.so")
	writeFile(t, src, "driver")
	require.NoError(t, a.DeployFile(src, "usr/plugins/sqldrivers/libqsqlite.so"))

	require.NoError(t, a.DeployCopyrightFiles())
	assert.NoDirExists(t, filepath.Join(a.Path(), docDir))
}

func TestDeployCopyrightFilesToleratesMissingCopyrightFile(t *testing.T) {
	docDir := overrideDocDir(t)
	stubDpkgQuery(t, "echo 'packagewithoutdocs: '$2\n")

	a := newTestAppDir(t)
	src := filepath.Join(t.TempDir(), "libqsqlite.so")
	writeFile(t, src, "driver")
	require.NoError(t, a.DeployFile(src, "usr/plugins/sqldrivers/libqsqlite.so"))

	require.NoError(t, a.DeployCopyrightFiles())
	assert.NoDirExists(t, filepath.Join(a.Path(), docDir))
}

func TestDeployCopyrightFilesDisabled(t *testing.T) {
	docDir := overrideDocDir(t)
	writeFile(t, filepath.Join(docDir, "libqt5sql5", "copyright"), "license text")
	// a dpkg-query invocation would blow up loudly
	stubDpkgQuery(t, "echo 'must not be called' >&2\nexit 42\n")

	a := newTestAppDir(t)
	a.SetDisableCopyrightFilesDeployment(true)
	src := filepath.Join(t.TempDir(), "libqsqlite.so")
	writeFile(t, src, "driver")
	require.NoError(t, a.DeployFile(src, "usr/plugins/sqldrivers/libqsqlite.so"))

	require.NoError(t, a.DeployCopyrightFiles())
	assert.NoDirExists(t, filepath.Join(a.Path(), docDir))
}

func TestDeployCopyrightFilesSkipsWithoutDpkg(t *testing.T) {
	docDir := overrideDocDir(t)
	// empty search path, no dpkg-query anywhere
	t.Setenv("PATH", t.TempDir())

	a := newTestAppDir(t)
	src := filepath.Join(t.TempDir(), "libqsqlite.so")
	writeFile(t, src, "driver")
	require.NoError(t, a.DeployFile(src, "usr/plugins/sqldrivers/libqsqlite.so"))

	require.NoError(t, a.DeployCopyrightFiles())
	assert.NoDirExists(t, filepath.Join(a.Path(), docDir))
}
