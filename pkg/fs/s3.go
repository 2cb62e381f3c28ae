package fs

import (
	"context"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// S3Config is the configuration for a S3-compatible storage provider
type S3Config struct {
	// S3 Bucket episodes are hosted in
	Bucket string `toml:"bucket"`
	// Region of the S3 service
	Region string `toml:"region"`
	// EndpointURL is an HTTP endpoint of the S3 API
	EndpointURL string `toml:"endpoint_url"`
	// Prefix is a prefix (subfolder) prepended to every key
	Prefix string `toml:"prefix"`
	// URLPrefix is the public URL the bucket (with Prefix) is served from.
	// Enclosure URLs starting with it are looked up in the bucket.
	URLPrefix string `toml:"url_prefix"`
}

// S3 reads object sizes from S3-compatible providers.
type S3 struct {
	api    s3iface.S3API
	bucket string
	prefix string
}

func NewS3(c S3Config) (*S3, error) {
	if c.Bucket == "" {
		return nil, errors.New("S3 bucket can't be empty")
	}

	cfg := aws.NewConfig().
		WithEndpoint(c.EndpointURL).
		WithRegion(c.Region).
		WithLogger(s3logger{}).
		WithLogLevel(aws.LogDebug)
	sess, err := session.NewSessionWithOptions(session.Options{Config: *cfg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize S3 session")
	}
	return &S3{
		api:    s3.New(sess),
		bucket: c.Bucket,
		prefix: c.Prefix,
	}, nil
}

// Bucket returns the name of the bucket objects are looked up in
func (s *S3) Bucket() string {
	return s.bucket
}

func (s *S3) Size(ctx context.Context, name string) (int64, error) {
	size, _, err := s.Head(ctx, name)
	return size, err
}

// Head returns the size and content type of an object
func (s *S3) Head(ctx context.Context, name string) (int64, string, error) {
	key := s.buildKey(name)
	logger := log.WithField("key", key)

	logger.Debugf("getting file size from %s", s.bucket)
	resp, err := s.api.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok {
			if awsErr.Code() == "NotFound" {
				return 0, "", os.ErrNotExist
			}
		}
		return 0, "", errors.Wrap(err, "failed to get file size")
	}

	if resp.ContentLength == nil {
		return 0, "", errors.Errorf("no content length reported for %s", key)
	}

	return *resp.ContentLength, aws.StringValue(resp.ContentType), nil
}

func (s *S3) buildKey(name string) string {
	if s.prefix == "" {
		return name
	}

	return path.Join(s.prefix, name)
}

type s3logger struct{}

func (s s3logger) Log(args ...interface{}) {
	log.Debug(args...)
}
