// Package s3flags declares the S3 upload flags shared by the commands.
package s3flags

import "github.com/PhantomInTheWire/emoji-splitter/pkg/storage"

// Flags are embedded into a kong command with prefix "s3-".
type Flags struct {
	Endpoint  string `help:"S3 endpoint, e.g. http://localhost:9000 for MinIO." env:"S3_ENDPOINT"`
	Region    string `help:"S3 region." default:"us-east-1" env:"S3_REGION"`
	AccessKey string `help:"S3 access key." env:"S3_ACCESS_KEY"`
	SecretKey string `help:"S3 secret key." env:"S3_SECRET_KEY"`
	Bucket    string `help:"Bucket to upload to." env:"S3_BUCKET"`
	Prefix    string `help:"Key prefix for uploaded objects." env:"S3_PREFIX"`
}

// Config converts the flags, overriding the prefix when prefix is not empty.
func (f Flags) Config(prefix string) storage.Config {
	cfg := storage.Config{
		Endpoint:  f.Endpoint,
		Region:    f.Region,
		AccessKey: f.AccessKey,
		SecretKey: f.SecretKey,
		Bucket:    f.Bucket,
		Prefix:    f.Prefix,
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	return cfg
}
