package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads"

// Storage writes images under a root directory and serves them at URLPrefix.
type Storage struct {
	root   string
	logger *logger.Logger
}

func NewStorage(root string, log *logger.Logger) (*Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads dir %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir %s: %w", abs, err)
	}
	log.Info("Local image storage ready", zap.String("root", abs))
	return &Storage{root: abs, logger: log.Named("LocalStorage")}, nil
}

func (s *Storage) Save(ctx context.Context, folder string, upload domain.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(upload.Filename))
	dir := filepath.Join(s.root, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("Failed to create folder", zap.String("dir", dir), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	dst := filepath.Join(dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error("Failed to create file", zap.String("path", dst), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	written, err := io.Copy(f, upload.Content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		s.logger.Error("Failed to write file", zap.String("path", dst), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	ref := path.Join(URLPrefix, filepath.ToSlash(strings.TrimPrefix(dst, s.root)))
	s.logger.Info("Image stored", zap.String("ref", ref), zap.Int64("size_bytes", written))
	return ref, nil
}

// Delete removes the file behind ref. Missing files and foreign refs are not errors.
func (s *Storage) Delete(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	p, ok := s.pathFor(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("Failed to delete image", zap.String("ref", ref), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	s.logger.Info("Image deleted", zap.String("ref", ref))
	return nil
}

func (s *Storage) Owns(ref string) bool {
	return strings.HasPrefix(ref, URLPrefix+"/")
}

// pathFor maps ref to a path inside root, rejecting traversal.
func (s *Storage) pathFor(ref string) (string, bool) {
	rel := path.Clean("/" + strings.TrimPrefix(ref, URLPrefix))
	p := filepath.Join(s.root, filepath.FromSlash(rel))
	if p == s.root || !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", false
	}
	return p, true
}

// Handler serves stored files; mount it at URLPrefix.
func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.root)))
}
