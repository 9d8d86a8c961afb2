package qt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/probonopd/go-qtdeploy/internal/appdir"
	"github.com/probonopd/go-qtdeploy/internal/helpers"
	"github.com/probonopd/go-qtdeploy/internal/logging"
)

// DeployTranslations copies the .qm translation files of every module to
// be deployed into the AppDir's translations directory. The qt meta
// catalog is always included. Translations are enhancement: a missing or
// empty source directory degrades to a no-op success.
func DeployTranslations(appDir *appdir.AppDir, translationsPath string, modules []Module) error {
	log := logging.GetLogger("translations")

	if translationsPath == "" || !helpers.IsDirectory(translationsPath) {
		log.Warn().Str("path", translationsPath).Msg("translations directory not found, not deploying translations")
		return nil
	}

	catalogs := []string{"qt"}
	for _, module := range modules {
		if module.TranslationCatalog != "" {
			catalogs = helpers.AppendIfMissing(catalogs, module.TranslationCatalog)
		}
	}

	entries, err := os.ReadDir(translationsPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".qm") {
			continue
		}
		for _, catalog := range catalogs {
			if !strings.HasPrefix(name, catalog+"_") {
				continue
			}
			src := filepath.Join(translationsPath, name)
			if err := appDir.DeployFile(src, filepath.Join("usr/translations", name)); err != nil {
				return err
			}
			break
		}
	}

	return nil
}
