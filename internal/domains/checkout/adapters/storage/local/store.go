// Package local persists uploaded payment slips on the local filesystem
// under a web-servable directory.
package local

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

var _ ports.SlipStore = (*Store)(nil)

// ErrUnsupportedType rejects a slip whose declared MIME type is not an image
// or whose extension is outside the allow-list.
var ErrUnsupportedType = errors.New("unsupported slip file type")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".avif": true,
}

// Store writes slips into dir and reports them under publicBase. Files are
// staged in tmpDir first and then moved, falling back to copy-then-remove
// when the two directories live on different filesystems.
type Store struct {
	dir        string
	publicBase string
	tmpDir     string
	now        func() time.Time
}

type Option func(*Store)

// WithTempDir overrides the staging directory.
func WithTempDir(dir string) Option {
	return func(s *Store) { s.tmpDir = dir }
}

// WithClock overrides the timestamp source used in generated names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(dir, publicBase string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slip dir: %w", err)
	}
	s := &Store{dir: dir, publicBase: strings.TrimRight(publicBase, "/"), tmpDir: os.TempDir(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SaveUpload validates and persists one uploaded slip, returning its public
// reference path.
func (s *Store) SaveUpload(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("no file supplied")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)
	}
	// Clients that don't sniff uploads declare application/octet-stream;
	// treat that the same as no declaration and rely on the extension check.
	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "image/") {
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedType, declared)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	staged, err := os.CreateTemp(s.tmpDir, "slip-*"+ext)
	if err != nil {
		return "", err
	}
	stagedPath := staged.Name()
	if _, err := io.Copy(staged, src); err != nil {
		staged.Close()
		os.Remove(stagedPath)
		return "", err
	}
	if err := staged.Close(); err != nil {
		os.Remove(stagedPath)
		return "", err
	}

	name := s.newName(ext)
	if err := moveFile(stagedPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(stagedPath)
		return "", err
	}
	return path.Join(s.publicBase, name), nil
}

// Dir exposes the storage directory so the router can serve it.
func (s *Store) Dir() string { return s.dir }

// PublicBase exposes the URL segment slips are served under.
func (s *Store) PublicBase() string { return s.publicBase }

// newName builds a collision-resistant filename: millisecond timestamp plus
// a random suffix, original extension preserved.
func (s *Store) newName(ext string) string {
	return strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + uuid.NewString()[:8] + ext
}

// moveFile renames src to dst, degrading to copy-then-remove when rename
// fails across filesystems. On success the source no longer exists.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
