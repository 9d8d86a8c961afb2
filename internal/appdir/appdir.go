// Package appdir models the application bundle directory tree that the
// deployment engine copies Qt components into. Copies are skip-if-exists:
// deployers with overlapping file sets may deploy the same destination
// twice without error, and a pre-existing file is left untouched.
package appdir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"github.com/rs/zerolog"

	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// AppDir is an existing FHS-like application bundle directory
type AppDir struct {
	path string
	log  zerolog.Logger

	disableCopyrightFiles bool
	deferredOperations    []Operation

	// absolute source paths of everything deployed so far, used for
	// copyright file lookup
	deployedSources []string
}

// New returns an AppDir rooted at the given existing directory
func New(path string) (*AppDir, error) {
	if !helpers.IsDirectory(path) {
		return nil, errors.New("no such directory: " + path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &AppDir{path: abs, log: logging.GetLogger("appdir")}, nil
}

// Path returns the absolute path of the AppDir root
func (a *AppDir) Path() string {
	return a.path
}

// SetDisableCopyrightFilesDeployment disables the dpkg-based deployment
// of copyright files for bundled libraries
func (a *AppDir) SetDisableCopyrightFilesDeployment(disable bool) {
	a.disableCopyrightFiles = disable
}

// ListSharedLibraries returns the absolute paths of all shared libraries
// already bundled in the AppDir
func (a *AppDir) ListSharedLibraries() []string {
	var libraries []string
	_ = filepath.WalkDir(a.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && strings.Contains(d.Name(), ".so") && helpers.HasElfMagic(path) {
			libraries = append(libraries, path)
		}
		return nil
	})
	return libraries
}

// DeployFile copies the file at src to the given destination relative to
// the AppDir root. If the destination already exists the copy is skipped;
// content is assumed identical across deployers.
func (a *AppDir) DeployFile(src, dst string) error {
	target := filepath.Join(a.path, dst)
	if helpers.Exists(target) {
		a.log.Debug().Str("destination", target).Msg("destination exists, skipping")
		return nil
	}
	a.log.Debug().Str("source", src).Str("destination", target).Msg("deploying file")
	if err := helpers.CopyFile(src, target); err != nil {
		return err
	}
	a.deployedSources = helpers.AppendIfMissing(a.deployedSources, src)
	return nil
}

// DeployDirectory recursively copies the directory at src into the given
// destination relative to the AppDir root, preserving the relative layout.
// Files already present at their destination are left untouched.
func (a *AppDir) DeployDirectory(src, dst string) error {
	target := filepath.Join(a.path, dst)
	a.log.Debug().Str("source", src).Str("destination", target).Msg("deploying directory")
	err := copy.Copy(src, target, copy.Options{
		OnDirExists: func(src, dst string) copy.DirExistsAction {
			return copy.Merge
		},
		Skip: func(info os.FileInfo, src, dst string) (bool, error) {
			return !info.IsDir() && helpers.Exists(dst), nil
		},
	})
	if err != nil {
		return err
	}
	a.deployedSources = helpers.AppendIfMissing(a.deployedSources, src)
	return nil
}
