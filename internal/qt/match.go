package qt

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// matchesModule reports whether the given library filename or module name
// refers to the candidate module
func matchesModule(libraryName string, module Module) bool {
	// extract filename if argument is a path
	libraryName = filepath.Base(libraryName)

	// the trailing dot makes sure e.g. libQt5WebEngineCore won't be
	// matched as both webengine and webenginecore
	if strings.HasPrefix(libraryName, module.LibraryFilePrefix+".") {
		log.Debug().Str("library", libraryName).Str("module", module.Name).Msg("matches library filename")
		return true
	}

	if libraryName == module.Name {
		log.Debug().Str("library", libraryName).Str("module", module.Name).Msg("matches module name")
		return true
	}

	return false
}

// MatchModules returns the catalog modules referred to by any of the given
// library filenames or module names, deduplicated, in catalog order.
func MatchModules(libraryNames []string) []Module {
	var matched []Module
	for _, module := range Modules {
		for _, libraryName := range libraryNames {
			if matchesModule(libraryName, module) {
				matched = append(matched, module)
				break
			}
		}
	}
	return matched
}

// ModuleNames returns the names of the given modules
func ModuleNames(modules []Module) []string {
	names := make([]string, 0, len(modules))
	for _, module := range modules {
		names = append(names, module.Name)
	}
	return names
}

// mergeModules unions the given module lists, deduplicated by name,
// preserving catalog order
func mergeModules(lists ...[]Module) []Module {
	wanted := make(map[string]bool)
	for _, list := range lists {
		for _, module := range list {
			wanted[module.Name] = true
		}
	}
	var merged []Module
	for _, module := range Modules {
		if wanted[module.Name] {
			merged = append(merged, module)
		}
	}
	return merged
}
