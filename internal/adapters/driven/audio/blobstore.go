package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
)

// Ensure FileBlobStore implements the interface.
var _ driven.BlobStore = (*FileBlobStore)(nil)

// FileScheme prefixes URLs handed out by the file blob store.
const FileScheme = "file://"

// CacheDirName is the audio cache directory under the vfw home.
const CacheDirName = "cache/audio"

// extensions maps audio MIME types to cache file extensions.
var extensions = map[string]string{
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/mpeg":  ".mp3",
	"audio/mp4":   ".m4a",
	"audio/ogg":   ".ogg",
	"audio/webm":  ".webm",
	"audio/flac":  ".flac",
	"audio/aac":   ".aac",
}

// FileBlobStore writes audio into a cache directory and returns file URLs.
// Files are content-addressed so identical audio shares one file.
// Revoking a URL removes its file; CreateURL with the same bytes writes it
// again.
type FileBlobStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileBlobStore creates a blob store rooted at dir, creating it if needed.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob store: empty cache dir")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileBlobStore) Dir() string {
	return s.dir
}

// CreateURL writes data to the cache (if not already present) and returns
// a file:// URL for it.
func (s *FileBlobStore) CreateURL(data []byte, mimeType string) (string, error) {
	sum := sha256.Sum256(data)
	path := filepath.Join(s.dir, hex.EncodeToString(sum[:16])+extension(mimeType))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		if err := writeFile(path, data); err != nil {
			return "", err
		}
	}
	return FileScheme + path, nil
}

// Revoke removes the cache file behind a URL. Unknown or foreign URLs are
// ignored.
func (s *FileBlobStore) Revoke(url string) error {
	path, ok := s.Path(url)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(path)
}

// Retain removes every cache file not referenced by a URL in keep.
// Temp files of in-flight writes are left alone.
func (s *FileBlobStore) Retain(keep []string) error {
	kept := make(map[string]bool, len(keep))
	for _, url := range keep {
		if path, ok := s.Path(url); ok {
			kept[path] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if kept[path] {
			continue
		}
		if err := remove(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the cache file path for a URL handed out by this store.
func (s *FileBlobStore) Path(url string) (string, bool) {
	path, ok := FilePath(url)
	if !ok || filepath.Dir(path) != filepath.Clean(s.dir) {
		return "", false
	}
	return path, true
}

// FilePath extracts the local path from a file:// URL.
func FilePath(url string) (string, bool) {
	if !strings.HasPrefix(url, FileScheme) {
		return "", false
	}
	return filepath.Clean(strings.TrimPrefix(url, FileScheme)), true
}

func remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cached audio: %w", err)
	}
	return nil
}

func extension(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	if ext, ok := extensions[strings.TrimSpace(strings.ToLower(base))]; ok {
		return ext
	}
	return ".bin"
}

// writeFile writes through a temp file so readers never see partial audio.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cached audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cached audio: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cached audio: %w", err)
	}
	return nil
}
