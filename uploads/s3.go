package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/waste-point/web-go/config"
)

// S3Store keeps uploads in an S3 compatible bucket (AWS S3, Cloudflare R2).
type S3Store struct {
	Client *s3.Client
	Bucket string
}

func NewS3Store(c config.S3Config) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 upload backend")
	}

	opts := s3.Options{
		Region: c.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		),
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{Client: s3.New(opts), Bucket: c.Bucket}, nil
}

func (s *S3Store) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid upload name %q", name)
	}

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(name),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	if !ValidName(name) {
		return nil, nil, ErrNotExist
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, err
	}

	info := &ObjectInfo{Name: name, Size: aws.ToInt64(out.ContentLength), ContentType: aws.ToString(out.ContentType)}
	if info.ContentType == "" {
		info.ContentType = ContentType(name)
	}
	return out.Body, info, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrNotExist
	}

	// DeleteObject succeeds for missing keys, so probe first.
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return ErrNotExist
		}
		return err
	}

	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(name),
	})
	return err
}

func (s *S3Store) List(ctx context.Context) ([]string, error) {
	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); ValidName(key) {
				names = append(names, key)
			}
		}
	}
	return names, nil
}
