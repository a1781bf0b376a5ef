// Package fileutil provides file, path and reference helpers shared by the
// document loader, the renderer and the size reducer.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotFileURL             = errors.New("not a file:// URL")
)

// tempPrefix names every temporary file created by this module.
const tempPrefix = "html2pdf-"

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsRemoteRef reports whether a stylesheet, script or image reference
// points off the local filesystem.
//
// Examples:
//   - "http://cdn.example.com/a.css" -> true
//   - "https://cdn.example.com/a.js" -> true
//   - "//cdn.example.com/a.css" -> true (protocol-relative)
//   - "css/site.css" -> false
//   - "/abs/site.css" -> false
//   - "file:///abs/site.css" -> false
func IsRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//")
}

// PathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths.
func PathToFileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	// Windows drive paths need a leading slash: file:///C:/docs
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme: "file",
		Path:   p,
	}
	return u.String()
}

// DirToFileURL converts an absolute directory path to a file:// URL with a
// trailing slash, suitable for use as a document base.
func DirToFileURL(absDir string) string {
	u := PathToFileURL(absDir)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// FileURLToPath converts a file:// URL back to a filesystem path.
func FileURLToPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrNotFileURL, raw)
	}
	p := u.Path
	// file:///C:/docs/a.css -> C:/docs/a.css
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
