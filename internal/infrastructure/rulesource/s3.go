package rulesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mealguard-dev/mealguard/internal/version"
)

// S3Options configures an S3 rule source.
type S3Options struct {
	Bucket string
	Key    string
	Region string
	// Endpoint enables S3-compatible stores such as MinIO.
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	PollInterval    time.Duration
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// S3Source reads a rule set object from S3.
type S3Source struct {
	client   *s3.Client
	bucket   string
	key      string
	interval time.Duration
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: expected s3://bucket/key", raw)
	}
	return bucket, key, nil
}

// NewS3Source creates an S3 source. Empty credentials use the default AWS
// credential chain.
func NewS3Source(ctx context.Context, opts S3Options) (*S3Source, error) {
	if opts.Bucket == "" || opts.Key == "" {
		return nil, errors.New("s3 bucket and key are required")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithAppID(version.Get().UserAgent()),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		if opts.HTTPClient != nil {
			o.HTTPClient = opts.HTTPClient
		}
	})

	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &S3Source{client: client, bucket: opts.Bucket, key: opts.Key, interval: interval}, nil
}

// Fetch downloads the object.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Describe(), err)
	}
	defer func() {
		_ = out.Body.Close() // Best-effort cleanup
	}()
	return io.ReadAll(out.Body)
}

// Describe names the source.
func (s *S3Source) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Watch polls the object's ETag and calls onChange when it differs from
// the previous poll.
func (s *S3Source) Watch(ctx context.Context, onChange func()) error {
	last, err := s.etag(ctx)
	if err != nil {
		slog.WarnContext(ctx, "rule set head failed", "source", s.Describe(), "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current, err := s.etag(ctx)
			if err != nil {
				slog.WarnContext(ctx, "rule set head failed", "source", s.Describe(), "error", err)
				continue
			}
			if current != last {
				last = current
				onChange()
			}
		}
	}
}

func (s *S3Source) etag(ctx context.Context) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.ETag), nil
}
