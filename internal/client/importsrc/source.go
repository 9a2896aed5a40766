// Package importsrc loads the text of an import file from the local disk or
// from an S3-compatible object store (s3://bucket/key).
package importsrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophdiary/internal/filex"
)

// DefaultMaxSize caps the size of an import file.
const DefaultMaxSize int64 = 8 << 20

var (
	ErrTooLarge = errors.New("import file too large")
	ErrNotText  = errors.New("import file is not UTF-8 text")
)

// ObjectGetter is the part of the S3 API the reader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Options configures access to the object store. Empty fields fall back to
// the AWS SDK defaults (environment, shared config).
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Reader loads import files.
type Reader struct {
	s3      S3Options
	maxSize int64
}

// NewReader returns a Reader; maxSize <= 0 selects DefaultMaxSize.
func NewReader(opts S3Options, maxSize int64) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Reader{s3: opts, maxSize: maxSize}
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(src string) (bucket, key string, ok bool) {
	rest, ok := strings.CutPrefix(src, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Read returns the text stored at src.
func (r *Reader) Read(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", errors.New("import source is empty")
	}
	if strings.HasPrefix(src, "s3://") {
		bucket, key, ok := ParseS3URI(src)
		if !ok {
			return "", fmt.Errorf("malformed object URI %q", src)
		}
		return r.readObject(ctx, bucket, key)
	}
	return r.readFile(src)
}

func (r *Reader) readFile(path string) (string, error) {
	path, err := filex.ExpandHome(path)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	return r.readAll(f)
}

func (r *Reader) readObject(ctx context.Context, bucket, key string) (string, error) {
	var loadOpts []func(*config.LoadOptions) error
	if r.s3.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.s3.Region))
	}
	if r.s3.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(r.s3.AccessKey, r.s3.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if r.s3.Endpoint != "" {
			o.BaseEndpoint = aws.String(r.s3.Endpoint)
			o.UsePathStyle = true
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > r.maxSize {
		return "", ErrTooLarge
	}
	return r.readAll(out.Body)
}

func (r *Reader) readAll(src io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(src, r.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read import file: %w", err)
	}
	if int64(len(b)) > r.maxSize {
		return "", ErrTooLarge
	}
	if !utf8.Valid(b) {
		return "", ErrNotText
	}
	return string(b), nil
}
