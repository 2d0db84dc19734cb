package uploads

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/waste-point/web-go/config"
)

type MinioStore struct {
	Client *minio.Client
	Bucket string
}

// NewMinioStore connects and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, c config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	err = client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, c.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("create bucket %s: %w", c.Bucket, err)
		}
	} else {
		log.Printf("Created upload bucket %s", c.Bucket)
	}

	return &MinioStore{Client: client, Bucket: c.Bucket}, nil
}

func (s *MinioStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid upload name %q", name)
	}
	_, err := s.Client.PutObject(ctx, s.Bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	if !ValidName(name) {
		return nil, nil, ErrNotExist
	}

	st, err := s.Client.StatObject(ctx, s.Bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, err
	}

	obj, err := s.Client.GetObject(ctx, s.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}

	info := &ObjectInfo{Name: name, Size: st.Size, ContentType: st.ContentType}
	if info.ContentType == "" {
		info.ContentType = ContentType(name)
	}
	return obj, info, nil
}

func (s *MinioStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrNotExist
	}
	if _, err := s.Client.StatObject(ctx, s.Bucket, name, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return ErrNotExist
		}
		return err
	}
	return s.Client.RemoveObject(ctx, s.Bucket, name, minio.RemoveObjectOptions{})
}

func (s *MinioStore) List(ctx context.Context) ([]string, error) {
	// Returning early must stop the listing goroutine.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for obj := range s.Client.ListObjects(ctx, s.Bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if ValidName(obj.Key) {
			names = append(names, obj.Key)
		}
	}
	return names, nil
}

func isMinioNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
