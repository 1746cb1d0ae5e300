package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minPartSize is the smallest part S3 accepts for a multipart upload.
const minPartSize = 5 << 20

// MinioOptions configures a MinioStorage.
type MinioOptions struct {
	// Endpoint is host[:port], or a URL whose scheme overrides UseSSL.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	// PublicBase is the browser-facing base URL; defaults to the endpoint URL.
	PublicBase string
	// PartSize bounds memory per upload when the stream length is unknown.
	PartSize uint64
}

// MinioStorage implements ObjectStore using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	region     string
	publicBase string
	partSize   uint64
}

// NewMinioStorage creates a MinIO client. No network call is made until the
// first operation. With no access key, credentials come from the environment
// (AWS_* or MINIO_*) or the instance's IAM role.
func NewMinioStorage(opts MinioOptions) (*MinioStorage, error) {
	host, secure, err := parseEndpoint(opts.Endpoint, opts.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentialsFor(opts.AccessKey, opts.SecretKey),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicBase := opts.PublicBase
	if publicBase == "" {
		publicBase = client.EndpointURL().String()
	}

	partSize := opts.PartSize
	if partSize < minPartSize {
		partSize = minPartSize
	}

	return &MinioStorage{
		client:     client,
		region:     opts.Region,
		publicBase: strings.TrimRight(publicBase, "/"),
		partSize:   partSize,
	}, nil
}

// EnsureContainer creates the bucket if it is absent. A bucket created by a
// concurrent caller between the existence check and creation is not an error.
func (s *MinioStorage) EnsureContainer(ctx context.Context, container string, access AccessLevel) error {
	exists, err := s.client.BucketExists(ctx, container)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, container, minio.MakeBucketOptions{Region: s.region}); err != nil {
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("create bucket %q: %w", container, err)
	}
	slog.InfoContext(ctx, "storage: created bucket", "bucket", container)

	if access == AccessPublicRead {
		if err := s.client.SetBucketPolicy(ctx, container, publicReadPolicy(container)); err != nil {
			return fmt.Errorf("set bucket policy: %w", err)
		}
	}
	return nil
}

// WriteStream streams r to MinIO under key. The length is unknown, so the
// client uploads it in parts of partSize and aborts the multipart upload
// if r or ctx fails mid-stream.
func (s *MinioStorage) WriteStream(ctx context.Context, container, key string, r io.Reader, contentType string) (*WriteResult, error) {
	info, err := s.client.PutObject(ctx, container, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    s.partSize,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}
	return &WriteResult{
		Location: s.ObjectURL(container, key),
		Size:     info.Size,
	}, nil
}

// List returns up to limit objects under prefix. S3 lists keys in
// lexical order.
func (s *MinioStorage) List(ctx context.Context, container, prefix string, limit int) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []ObjectInfo
	for obj := range s.client.ListObjects(ctx, container, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ObjectURL returns the fully-qualified URL for key in container.
// For local MinIO: "http://localhost:9000/uploads/20260101-120000-<token>-photo.png"
func (s *MinioStorage) ObjectURL(container, key string) string {
	return s.publicBase + "/" + url.PathEscape(container) + "/" + url.PathEscape(key)
}

func parseEndpoint(raw string, useSSL bool) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("storage endpoint is empty")
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimRight(raw, "/"), useSSL, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("parse storage endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("storage endpoint %q has no host", raw)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("storage endpoint scheme %q is not supported", u.Scheme)
	}
}

func credentialsFor(accessKey, secretKey string) *credentials.Credentials {
	if accessKey != "" {
		return credentials.NewStaticV4(accessKey, secretKey, "")
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
	})
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}

var _ ObjectStore = (*MinioStorage)(nil)
