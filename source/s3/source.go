package s3

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
)

// Source reads packages stored below a prefix of an S3 compatible bucket.
type Source struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

func New(endpoint, bucketName, prefix, accessKey, secretKey string, useSsl bool) (*Source, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	return NewWithClient(client, bucketName, prefix), nil
}

func NewWithClient(client *minio.Client, bucketName, prefix string) *Source {
	return &Source{
		client:     client,
		bucketName: bucketName,
		prefix:     normalizePrefix(prefix),
	}
}

// Name returns the identifier name defined for this source
func (*Source) Name() string {
	return "s3"
}

func (s *Source) List(ctx context.Context) ([]*source.Entry, error) {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket '%s': %w", s.bucketName, err)
	}
	if !exists {
		return nil, fmt.Errorf("failed to list bucket '%s': %w", s.bucketName, data.ErrNotExist)
	}

	entries := make([]*source.Entry, 0)
	for object := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list bucket '%s': %w", s.bucketName, toError(object.Err))
		}

		name := strings.TrimPrefix(object.Key, s.prefix)
		// Common prefixes are reported with a trailing slash
		isDir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if name == "" {
			continue
		}

		entries = append(entries, &source.Entry{
			Name:  name,
			Size:  object.Size,
			IsDir: isDir,
		})
	}

	return entries, nil
}

func (s *Source) Open(ctx context.Context, name string) (source.File, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("failed to open '%s': %w", name, data.ErrInvalidPath)
	}

	key := s.prefix + name
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", key, toError(err))
	}

	// GetObject is lazy, so Stat reports missing keys
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat '%s': %w", key, toError(err))
	}

	return &object{Object: obj, size: info.Size}, nil
}

type object struct {
	*minio.Object
	size int64
}

func (o *object) Size() int64 {
	return o.size
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(path.Clean("/"+prefix), "/")
	if prefix == "" {
		return ""
	}

	return prefix + "/"
}

func toError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return data.ErrNotExist
	case "AccessDenied":
		return data.ErrPermission
	}

	return err
}
