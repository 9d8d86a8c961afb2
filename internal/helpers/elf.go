package helpers

import (
	"debug/elf"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrElfParse is returned when a file cannot be parsed as an ELF binary.
// Callers are expected to skip such files rather than abort.
var ErrElfParse = errors.New("failed to parse ELF file")

// defaultLibraryLocations are the locations in which glibc ld.so looks for
// libraries on commonly used systems
var defaultLibraryLocations = []string{
	"/usr/lib64",
	"/lib64",
	"/usr/lib",
	"/lib",
	"/usr/local/lib",
	"/lib/x86_64-linux-gnu",
	"/usr/lib/x86_64-linux-gnu",
	"/usr/local/lib/x86_64-linux-gnu",
	"/lib32",
	"/usr/lib32",
}

// ElfTracer resolves the transitive dynamic dependencies of ELF binaries
// against the same locations ld.so would search: LD_LIBRARY_PATH entries,
// the directories listed in /etc/ld.so.conf and its includes, and the
// default library directories.
type ElfTracer struct {
	libraryLocations []string
}

// NewElfTracer returns a tracer whose library search path starts with the
// entries of the given colon-delimited LD_LIBRARY_PATH value
func NewElfTracer(ldLibraryPath string) *ElfTracer {
	t := &ElfTracer{}

	for _, dir := range strings.Split(ldLibraryPath, ":") {
		if dir != "" {
			t.libraryLocations = AppendIfMissing(t.libraryLocations, filepath.Clean(dir))
		}
	}

	if Exists("/etc/ld.so.conf") {
		for _, dir := range getDirsFromSoConf("/etc/ld.so.conf") {
			t.libraryLocations = AppendIfMissing(t.libraryLocations, filepath.Clean(dir))
		}
	}

	for _, dir := range defaultLibraryLocations {
		t.libraryLocations = AppendIfMissing(t.libraryLocations, dir)
	}

	return t
}

// TraceDynamicDependencies returns the transitive closure of the shared
// libraries the binary at path is linked against. Dependencies that cannot
// be resolved to a file on the system are reported by their bare soname.
// Returns ErrElfParse if path itself is not a dynamically linked ELF file;
// parse failures on nested dependencies are tolerated and skipped.
func (t *ElfTracer) TraceDynamicDependencies(path string) ([]string, error) {
	seen := make(map[string]bool)
	var deps []string
	if err := t.trace(path, seen, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (t *ElfTracer) trace(path string, seen map[string]bool, deps *[]string) error {
	f, err := elf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrElfParse, path, err)
	}

	libs, err := f.ImportedLibraries()
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", ErrElfParse, path, err)
	}

	// Pre-existing rpath/runpath entries of the binary are valid search
	// locations for its own dependencies
	extraLocations := runpathEntries(f, path)
	f.Close()

	for _, lib := range libs {
		if seen[lib] {
			continue
		}
		seen[lib] = true

		resolved := t.findLibrary(lib, extraLocations)
		if resolved == "" {
			log.Debug().Str("library", lib).Str("referencedBy", path).Msg("could not resolve dependency")
			*deps = append(*deps, lib)
			continue
		}
		*deps = append(*deps, resolved)

		if err := t.trace(resolved, seen, deps); err != nil {
			log.Debug().Err(err).Msg("skipping nested dependency")
		}
	}
	return nil
}

func (t *ElfTracer) findLibrary(soname string, extraLocations []string) string {
	for _, location := range extraLocations {
		candidate := filepath.Join(location, soname)
		if Exists(candidate) {
			return candidate
		}
	}
	for _, location := range t.libraryLocations {
		candidate := filepath.Join(location, soname)
		if Exists(candidate) {
			return candidate
		}
	}
	return ""
}

// runpathEntries returns the DT_RUNPATH/DT_RPATH directories recorded in
// the ELF file, with $ORIGIN expanded relative to the binary's location
func runpathEntries(f *elf.File, path string) []string {
	entries, err := f.DynString(elf.DT_RUNPATH)
	if err != nil || len(entries) == 0 {
		entries, _ = f.DynString(elf.DT_RPATH)
	}

	var dirs []string
	origin := filepath.Dir(path)
	for _, entry := range entries {
		for _, dir := range strings.Split(entry, ":") {
			if dir == "" {
				continue
			}
			dir = strings.ReplaceAll(dir, "$ORIGIN", origin)
			dirs = append(dirs, filepath.Clean(dir))
		}
	}
	return dirs
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t'
}

// getDirsFromSoConf returns the directories specified in the ld config
// file at path, usually '/etc/ld.so.conf', and in its included config files
func getDirsFromSoConf(path string) []string {
	var out []string
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "include") && len(line) > 7 && isBlank(rune(line[7])) {
			for _, pattern := range strings.FieldsFunc(line[8:], isBlank) {
				if !strings.HasPrefix(pattern, "/") {
					pattern = filepath.Join(filepath.Dir(path), pattern)
				}
				files, err := filepath.Glob(pattern)
				if err != nil {
					continue
				}
				for _, file := range files {
					out = append(out, getDirsFromSoConf(file)...)
				}
			}
			continue
		}
		if strings.HasPrefix(line, "hwcap") && len(line) > 5 && isBlank(rune(line[5])) {
			// hwcap directives are also ignored by glibc
			continue
		}
		out = append(out, line)
	}
	return out
}
