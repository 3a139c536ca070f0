// Package storage publishes split output to an S3-compatible bucket such as
// MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config locates the bucket. An empty AccessKey falls back to the default
// AWS credential chain.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// API is the subset of the S3 client the uploader needs.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes local files into the configured bucket.
type Uploader struct {
	client API
	bucket string
	prefix string
}

// NewClient builds an S3 client for cfg. A custom endpoint switches to
// path-style addressing, which MinIO requires.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// New returns an Uploader for cfg.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Object is a local file and the name it is stored under, relative to the
// uploader's prefix.
type Object struct {
	File string
	Name string
}

// Key is the object key a local file is stored under by UploadFiles.
func (u *Uploader) Key(file string) string {
	return u.keyFor(filepath.Base(file))
}

func (u *Uploader) keyFor(name string) string {
	return path.Join(u.prefix, name)
}

// EnsureBucket creates the bucket if it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err == nil {
		return nil
	}
	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	log.Printf("Created bucket: %s", u.bucket)
	return nil
}

// UploadFiles uploads every file under its base name and returns the
// object keys that made it. Callers must not pass two files with the same
// base name; use UploadObjects to choose names.
func (u *Uploader) UploadFiles(ctx context.Context, files []string) ([]string, error) {
	objs := make([]Object, len(files))
	for i, f := range files {
		objs[i] = Object{File: f, Name: filepath.Base(f)}
	}
	return u.UploadObjects(ctx, objs)
}

// UploadObjects uploads every object and returns, in order, the keys of
// those that made it. A failing object does not stop the others; all
// failures are returned together. Duplicate names are rejected up front.
func (u *Uploader) UploadObjects(ctx context.Context, objs []Object) ([]string, error) {
	seen := make(map[string]string, len(objs))
	for _, o := range objs {
		if prev, ok := seen[o.Name]; ok {
			return nil, fmt.Errorf("%s and %s would both be stored as %s", prev, o.File, u.keyFor(o.Name))
		}
		seen[o.Name] = o.File
	}
	if err := u.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	var keys []string
	var errs []error
	for _, o := range objs {
		key := u.keyFor(o.Name)
		if err := u.put(ctx, o.File, key); err != nil {
			log.Printf("failed to upload %s: %v", o.File, err)
			errs = append(errs, fmt.Errorf("upload %s: %w", o.File, err))
			continue
		}
		log.Printf("uploaded: %s", key)
		keys = append(keys, key)
	}
	return keys, errors.Join(errs...)
}

func (u *Uploader) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	_, err = u.client.PutObject(ctx, in)
	return err
}
