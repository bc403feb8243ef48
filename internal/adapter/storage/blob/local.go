package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStore writes uploads under a root directory and serves them from
// publicURL, which the HTTP layer mounts as a static route.
type LocalStore struct {
	root      string
	publicURL string
	log       *zap.Logger
}

func NewLocalStore(root, publicURL string, log *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}, nil
}

func (s *LocalStore) Store(ctx context.Context, data []byte, suggestedName, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.resolve(suggestedName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.log.Debug("Blob stored",
		zap.String("name", suggestedName),
		zap.String("mime_type", mimeType),
		zap.Int("size", len(data)))
	return s.publicURL + "/" + filepath.ToSlash(suggestedName), nil
}

// Delete removes the file behind url. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	name := strings.TrimPrefix(url, s.publicURL+"/")
	if name == url {
		return fmt.Errorf("url %q is not served by this store", url)
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(s.root, clean), nil
}
