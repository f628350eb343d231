package viewsrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectGetter is the subset of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads bundles from an S3 bucket.
type S3Source struct {
	client  ObjectGetter
	bucket  string
	prefix  string
	maxSize int64
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region string

	// Endpoint overrides the AWS endpoint, e.g. for MinIO or LocalStack.
	Endpoint string

	// UsePathStyle addresses buckets as endpoint/bucket/key.
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When both are
	// empty requests are sent unsigned.
	AccessKeyID     string
	SecretAccessKey string

	// RetryMaxAttempts limits attempts per request. Zero keeps the SDK
	// default.
	RetryMaxAttempts int
}

// NewS3Client builds an S3 client from explicit settings.
func NewS3Client(opts S3Options) *s3.Client {
	o := s3.Options{
		Region:           opts.Region,
		UsePathStyle:     opts.UsePathStyle,
		RetryMaxAttempts: opts.RetryMaxAttempts,
		Credentials:      aws.AnonymousCredentials{},
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			Source:          "messenger-config",
		}
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(o)
}

// S3 returns a source reading objects prefix+name from bucket.
//
//	client := viewsrc.NewS3Client(viewsrc.S3Options{Region: "eu-central-1"})
//	src := viewsrc.S3(client, "messenger-views", "bundles/")
func S3(client ObjectGetter, bucket, prefix string) *S3Source {
	return &S3Source{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: 16 << 20,
	}
}

// WithMaxSize sets the largest bundle accepted, in bytes.
func (s *S3Source) WithMaxSize(n int64) *S3Source {
	s.maxSize = n
	return s
}

// Key returns the object key for a bundle name.
func (s *S3Source) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	key := s.Key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, notExist(name)
		}
		return nil, fmt.Errorf("viewsrc: get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("viewsrc: read s3://%s/%s: %w", s.bucket, key, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("viewsrc: s3://%s/%s exceeds %d bytes", s.bucket, key, s.maxSize)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
