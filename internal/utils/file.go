package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// ReplaceExt returns path with its extension replaced by ext (without dot).
// A path without an extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// IsSlideFile checks if a file has a whole-slide image extension
func IsSlideFile(filename string) bool {
	ext := GetFileExtension(filename)
	slideExts := []string{"svs", "tif", "tiff"}

	for _, slideExt := range slideExts {
		if ext == slideExt {
			return true
		}
	}
	return false
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
