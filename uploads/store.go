package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/waste-point/web-go/config"
)

var ErrNotExist = errors.New("upload does not exist")

type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// FileStore is a flat namespace of uploaded files keyed by file name.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// NewFileStore builds the backend selected by UPLOAD_BACKEND.
func NewFileStore(ctx context.Context, c config.UploadConfig) (FileStore, error) {
	switch c.Backend {
	case "", config.UploadBackendLocal:
		return NewLocalStore(c.Dir)
	case config.UploadBackendS3:
		return NewS3Store(c.S3)
	case config.UploadBackendMinio:
		return NewMinioStore(ctx, c.Minio)
	default:
		return nil, fmt.Errorf("unsupported upload backend: %s", c.Backend)
	}
}

// ValidName accepts only bare file names, never paths.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
