package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceDynamicDependenciesRejectsNonElf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-elf.so")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	tracer := NewElfTracer("")
	_, err := tracer.TraceDynamicDependencies(path)
	assert.ErrorIs(t, err, ErrElfParse)
}

func TestTraceDynamicDependenciesOwnBinary(t *testing.T) {
	// the test binary itself is the one ELF file guaranteed to be around;
	// statically linked builds legitimately have no dependencies
	self, err := os.Executable()
	require.NoError(t, err)

	tracer := NewElfTracer(os.Getenv("LD_LIBRARY_PATH"))
	deps, err := tracer.TraceDynamicDependencies(self)
	require.NoError(t, err)
	for _, dep := range deps {
		assert.NotEmpty(t, dep)
	}
}

func TestNewElfTracerPrependsLdLibraryPath(t *testing.T) {
	tracer := NewElfTracer("/opt/qt/lib:/custom/lib")
	require.GreaterOrEqual(t, len(tracer.libraryLocations), 2)
	assert.Equal(t, "/opt/qt/lib", tracer.libraryLocations[0])
	assert.Equal(t, "/custom/lib", tracer.libraryLocations[1])
	assert.Contains(t, tracer.libraryLocations, "/usr/lib")
}

func TestGetDirsFromSoConf(t *testing.T) {
	dir := t.TempDir()

	included := filepath.Join(dir, "conf.d", "extra.conf")
	require.NoError(t, os.MkdirAll(filepath.Dir(included), 0755))
	require.NoError(t, os.WriteFile(included, []byte("/opt/included/lib\n"), 0644))

	conf := filepath.Join(dir, "ld.so.conf")
	content := "# comment\n\nhwcap 0 nosegneg\n/usr/local/qt/lib\ninclude conf.d/*.conf\n"
	require.NoError(t, os.WriteFile(conf, []byte(content), 0644))

	dirs := getDirsFromSoConf(conf)
	assert.Equal(t, []string{"/usr/local/qt/lib", "/opt/included/lib"}, dirs)
}

func TestGetDirsFromSoConfMissingFile(t *testing.T) {
	assert.Nil(t, getDirsFromSoConf(filepath.Join(t.TempDir(), "missing")))
}
