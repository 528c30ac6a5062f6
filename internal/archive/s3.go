// Package archive keeps copies of produced exports in S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"agriconsole/internal/config"
	"agriconsole/internal/exporter"
	"agriconsole/pkg/contracts/domain"
)

// ErrDisabled is returned by New when archiving is switched off
var ErrDisabled = errors.New("archive disabled")

// Archiver stores export artifacts
type Archiver interface {
	Archive(ctx context.Context, r domain.DateRange, a *exporter.Artifact) (*Object, error)
}

// PutObjectAPI is the slice of the S3 client the store needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object describes a stored artifact
type Object struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	ETag   string `json:"etag,omitempty"`
}

// URI returns the s3:// location of the object
func (o Object) URI() string {
	return "s3://" + o.Bucket + "/" + o.Key
}

// S3Store saves artifacts to an S3 bucket, or any S3-compatible endpoint
// such as MinIO or R2 when an endpoint is configured.
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an S3Store from configuration
func New(ctx context.Context, cfg config.ArchiveConfig, logger *slog.Logger) (*S3Store, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Store(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewS3Store wraps an existing client
func NewS3Store(client PutObjectAPI, bucket, prefix string, logger *slog.Logger) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.With(slog.String("component", "archive")),
	}
}

// Key lays artifacts out as {prefix}/{from}_to_{to}/{filename}
func (s *S3Store) Key(r domain.DateRange, filename string) string {
	return path.Join(s.prefix, r.FromString()+"_to_"+r.ToString(), filename)
}

// Archive uploads the artifact
func (s *S3Store) Archive(ctx context.Context, r domain.DateRange, a *exporter.Artifact) (*Object, error) {
	key := s.Key(r, a.Filename)

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(a.Body),
		ContentType:   aws.String(a.ContentType),
		ContentLength: aws.Int64(int64(len(a.Body))),
		Metadata: map[string]string{
			"format":    string(a.Format),
			"date-from": r.FromString(),
			"date-to":   r.ToString(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put object %s: %w", key, err)
	}

	obj := &Object{Bucket: s.bucket, Key: key, Size: int64(len(a.Body))}
	if out != nil && out.ETag != nil {
		obj.ETag = strings.Trim(*out.ETag, `"`)
	}

	s.logger.InfoContext(ctx, "Export archived",
		slog.String("uri", obj.URI()),
		slog.Int64("size", obj.Size))
	return obj, nil
}
