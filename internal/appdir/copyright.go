package appdir

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/probonopd/go-qtdeploy/internal/helpers"
)

// where dpkg installs per-package documentation
var dpkgDocDir = "/usr/share/doc"

// DeployCopyrightFiles bundles the distribution copyright file for every
// file deployed from the host system, resolved through dpkg. On non-dpkg
// systems, or for files not owned by any package, nothing is deployed;
// copyright files are best effort.
func (a *AppDir) DeployCopyrightFiles() error {
	if a.disableCopyrightFiles {
		a.log.Warn().Msg("copyright files deployment disabled")
		return nil
	}
	if !helpers.IsCommandAvailable("dpkg-query") {
		a.log.Debug().Msg("dpkg-query not found, not deploying copyright files")
		return nil
	}

	seen := make(map[string]bool)
	for _, src := range a.deployedSources {
		copyrightFile, err := copyrightFileForPath(src)
		if err != nil {
			// Perfectly fine, e.g. for files not installed from a package
			a.log.Debug().Str("path", src).Err(err).Msg("no copyright file")
			continue
		}
		if seen[copyrightFile] {
			continue
		}
		seen[copyrightFile] = true
		if err := a.DeployFile(copyrightFile, copyrightFile); err != nil {
			return err
		}
	}
	return nil
}

// copyrightFileForPath finds out which package the given file belongs to
// and returns the path of that package's copyright file
func copyrightFileForPath(path string) (string, error) {
	result, err := helpers.RunCommand(nil, "dpkg-query", "-S", path)
	if err != nil || !result.Success() {
		return "", errors.New("file does not belong to a package")
	}

	// dpkg-query -S prints "package: path"
	line := strings.SplitN(result.Stdout, "\n", 2)[0]
	pkg, _, found := strings.Cut(line, ":")
	if !found || pkg == "" {
		return "", errors.New("unexpected dpkg-query output")
	}

	candidate := filepath.Join(dpkgDocDir, strings.TrimSpace(pkg), "copyright")
	if !helpers.Exists(candidate) {
		return "", errors.New("package ships no copyright file")
	}
	return candidate, nil
}
