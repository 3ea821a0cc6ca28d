package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects below Dir; they are served under /uploads
type LocalStore struct {
	Dir     string // filesystem root
	BaseURL string // public base of the server, e.g. http://localhost:5000
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Name() string { return BackendLocal }

// Upload writes the object and returns <BaseURL>/uploads/<key>
func (s *LocalStore) Upload(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.Dir, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(target, obj.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.BaseURL + "/uploads/" + obj.Key, nil
}
