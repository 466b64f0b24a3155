package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
)

// LocalStore writes under a directory that the API serves at publicBase.
type LocalStore struct {
	root       string
	publicBase string
}

func NewLocalStore(root, publicBase string) *LocalStore {
	return &LocalStore{root: root, publicBase: publicBase}
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errs.NewStorageUnavailableError(string(obj.Bucket), err)
	}

	dst := filepath.Join(s.root, string(obj.Bucket), filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errs.NewStorageUnavailableError(string(obj.Bucket), err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", errs.NewStorageUnavailableError(string(obj.Bucket), err)
	}
	n, err := io.Copy(f, obj.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", errs.NewStorageUnavailableError(string(obj.Bucket), err)
	}

	metrics.RecordUpload(string(obj.Bucket), n)
	return PublicURL(s.publicBase, obj.Bucket, obj.Key), nil
}
