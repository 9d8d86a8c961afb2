package helpers

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Exists returns true if the given path exists
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDirectory returns true if the given path is a directory
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsCommandAvailable returns true if a file is on the $PATH
func IsCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// HasElfMagic returns true if the file at path starts with the ELF magic bytes
func HasElfMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return magic[0] == 0x7f && magic[1] == 'E' && magic[2] == 'L' && magic[3] == 'F'
}

// CopyFile copies the file at src to dst, creating parent directories
// as needed and preserving the source file's permissions
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// AppendIfMissing appends the given string to the slice unless it is
// already contained in it
func AppendIfMissing(slice []string, element string) []string {
	for _, item := range slice {
		if item == element {
			return slice
		}
	}
	return append(slice, element)
}
