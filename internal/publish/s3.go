// Package publish uploads generated dataset files to an S3-compatible
// bucket (AWS S3 or MinIO).
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// Config describes the destination bucket.
type Config struct {
	Bucket    string
	Key       string // optional; defaults to the file's base name
	Prefix    string // optional key prefix
	Region    string
	Endpoint  string // optional custom endpoint, e.g. MinIO
	PathStyle bool
}

// ConfigFromEnv fills unset fields from CASEGEN_S3_* environment variables.
func ConfigFromEnv(cfg Config) Config {
	set := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	set(&cfg.Bucket, "CASEGEN_S3_BUCKET")
	set(&cfg.Prefix, "CASEGEN_S3_PREFIX")
	set(&cfg.Region, "CASEGEN_S3_REGION")
	set(&cfg.Endpoint, "CASEGEN_S3_ENDPOINT")
	if !cfg.PathStyle {
		cfg.PathStyle = strings.EqualFold(os.Getenv("CASEGEN_S3_PATH_STYLE"), "true")
	}
	return cfg
}

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes an uploaded object.
type Result struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Size   int64  `json:"size" yaml:"size"`
	ETag   string `json:"etag,omitempty" yaml:"etag,omitempty"`
	URI    string `json:"uri" yaml:"uri"`
}

// Publisher uploads files to one bucket.
type Publisher struct {
	client PutObjectAPI
	cfg    Config
}

// New builds a Publisher backed by the AWS default credential chain.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg)
}

// NewWithClient builds a Publisher around an existing client.
func NewWithClient(client PutObjectAPI, cfg Config) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	return &Publisher{client: client, cfg: cfg}, nil
}

// ObjectKey returns the key a file at path is uploaded to.
func (p *Publisher) ObjectKey(path string) string {
	key := p.cfg.Key
	if key == "" {
		key = filepath.Base(path)
	}
	if p.cfg.Prefix != "" {
		key = strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + strings.TrimPrefix(key, "/")
	}
	return key
}

// Upload sends the file at path with the given content type.
func (p *Publisher) Upload(ctx context.Context, path, contentType string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, err
	}

	key := p.ObjectKey(path)
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload s3://%s/%s: %w", p.cfg.Bucket, key, err)
	}

	res := Result{
		Bucket: p.cfg.Bucket,
		Key:    key,
		Size:   info.Size(),
		URI:    fmt.Sprintf("s3://%s/%s", p.cfg.Bucket, key),
	}
	if out != nil && out.ETag != nil {
		res.ETag = strings.Trim(*out.ETag, `"`)
	}

	log.Info().
		Str("bucket", res.Bucket).
		Str("key", res.Key).
		Int64("size", res.Size).
		Msg("Dataset uploaded")
	return res, nil
}
