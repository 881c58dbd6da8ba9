// Package imagestore saves base64-encoded image payloads under a local
// media directory and hands back reference URLs. Clients submit images the
// same way the frontend does: a data URI ("data:image/png;base64,....").
package imagestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes decoded images below Dir and serves them under URLPrefix.
type Store struct {
	dir       string
	urlPrefix string
}

// New creates a Store rooted at dir, served under urlPrefix (e.g. "/media").
func New(dir, urlPrefix string) *Store {
	return &Store{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Save decodes a data URI and writes it to <dir>/<subdir>/<uuid><ext>,
// returning the URL path of the stored file.
func (s *Store) Save(subdir, dataURI string) (string, error) {
	mediaType, payload, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ext, ok := extensions[mediaType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", mediaType)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	destDir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(destDir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.urlPrefix + "/" + subdir + "/" + name, nil
}

// Remove deletes a previously stored image by its URL path. Unknown paths
// are ignored.
func (s *Store) Remove(urlPath string) error {
	rel, ok := strings.CutPrefix(urlPath, s.urlPrefix+"/")
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// Dir returns the root media directory.
func (s *Store) Dir() string {
	return s.dir
}

func splitDataURI(dataURI string) (mediaType, payload string, err error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", "", fmt.Errorf("image must be a base64 data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mediaType, _, _ = strings.Cut(meta, ";")
	return mediaType, payload, nil
}
