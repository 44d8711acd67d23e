package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/metrics"
	"github.com/dd0wney/jnetc/pkg/result"
)

const contentType = "text/csv; charset=utf-8"

// Sink stores an encoded export under a name and returns where it went
type Sink interface {
	Name() string
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink writes exports into a local directory
type FileSink struct {
	Dir string
}

func (FileSink) Name() string { return "file" }

// Put writes the file through a temporary name so a failed write never
// leaves a truncated export behind
func (s FileSink) Put(_ context.Context, name string, data []byte) (location string, retErr error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if retErr != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return target, nil
}

// PutObjectAPI is the part of the S3 client the sink uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config selects the bucket and, optionally, explicit credentials and
// endpoint. Empty credentials fall back to the default AWS chain.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// ErrNoBucket is returned when an S3 sink is configured without a bucket
var ErrNoBucket = errors.New("s3 bucket is required")

// S3Sink uploads exports to a bucket
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink builds a sink around an existing client
func NewS3Sink(client PutObjectAPI, bucket, prefix string) (*S3Sink, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// OpenS3Sink loads AWS configuration and builds a client for cfg
func OpenS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			return nil, errors.New("s3 access key id and secret access key must be set together")
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Sink(client, cfg.Bucket, cfg.Prefix)
}

func (*S3Sink) Name() string { return "s3" }

// Key is the object key for an export name
func (s *S3Sink) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Exporter encodes result sets and hands them to sinks
type Exporter struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewExporter creates an exporter. Either argument may be nil.
func NewExporter(logger logging.Logger, reg *metrics.Registry) *Exporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Exporter{logger: logger.With(logging.Component("export")), metrics: reg}
}

// Export writes the set to every sink in order and returns the locations
// written. It stops at the first failing sink.
func (e *Exporter) Export(ctx context.Context, set *result.Set, sinks ...Sink) ([]string, error) {
	data, err := Encode(set)
	if err != nil {
		return nil, err
	}
	name := OutputName(set.Junction)

	locations := make([]string, 0, len(sinks))
	for _, sink := range sinks {
		loc, err := sink.Put(ctx, name, data)
		if e.metrics != nil {
			e.metrics.RecordExport(sink.Name(), len(data), err)
		}
		if err != nil {
			e.logger.Error("export failed",
				logging.String("sink", sink.Name()),
				logging.Error(err))
			return locations, err
		}
		e.logger.Info("export written",
			logging.String("sink", sink.Name()),
			logging.Path(loc),
			logging.Int("bytes", len(data)),
			logging.Count(len(set.Rows)))
		locations = append(locations, loc)
	}
	return locations, nil
}
