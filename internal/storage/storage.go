// Package storage keeps uploaded driver document files and returns the URL
// under which each file can be fetched.
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves an object and returns its public URL.
type Store interface {
	Put(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// objectKey builds "<folder>/<uuid><ext>"; the caller's file name only
// contributes its extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}
