// Package files validates chat attachments against the supported file types.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// mimeTypes is the attachment allowlist keyed by lower-case extension
var mimeTypes = map[string]string{
	// Images
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	// Documents
	".pdf": "application/pdf",
	".txt": "text/plain",
	".md":  "text/markdown",
	// Data
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
}

// ErrUnsupportedType is returned for files outside the allowlist
var ErrUnsupportedType = errors.New("unsupported file type")

// IsSupported reports whether path has an allowed extension
func IsSupported(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MimeType returns the MIME type for path, or "" when unsupported
func MimeType(path string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns the allowlist in a stable order
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".pdf", ".txt", ".md", ".csv", ".json", ".xml"}
}

// Validate checks that path is an existing regular file of a supported type
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if !IsSupported(path) {
		return fmt.Errorf("%s: %w (supported: %s)", path, ErrUnsupportedType, strings.Join(SupportedExtensions(), ", "))
	}
	return nil
}

// FileInfo describes an attachment for display
type FileInfo struct {
	Name      string
	Size      int64
	MimeType  string
	Extension string
}

// HumanSize returns the size formatted for display, e.g. "1.2 kB"
func (f FileInfo) HumanSize() string {
	return humanize.Bytes(uint64(f.Size))
}

// Info stats path and returns its display details
func Info(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:      filepath.Base(path),
		Size:      st.Size(),
		MimeType:  MimeType(path),
		Extension: strings.ToLower(filepath.Ext(path)),
	}, nil
}
