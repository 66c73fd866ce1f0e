package source

import (
	"context"
	"errors"
	"fmt"

	"restaurant-dashboard/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client used by s3Source.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures the S3 source.
type S3Options struct {
	Bucket string
	Region string
	Prefix string

	// Endpoint, AccessKey and SecretKey target an S3-compatible store
	// (R2, MinIO). Leave them empty for AWS with the default credential chain.
	Endpoint  string
	AccessKey string
	SecretKey string
}

// s3Source implements Source for CSV objects stored in S3.
type s3Source struct {
	client objectGetter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Source creates an S3-backed Source reading <prefix><dataset>.csv.
func NewS3Source(ctx context.Context, opts S3Options, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info().
		Str("bucket", opts.Bucket).
		Str("region", opts.Region).
		Str("endpoint", opts.Endpoint).
		Msg("S3 source initialised")

	return newS3Source(client, opts.Bucket, opts.Prefix, logger), nil
}

func newS3Source(client objectGetter, bucket, prefix string, logger zerolog.Logger) *s3Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Fetch downloads and parses the dataset object.
func (s *s3Source) Fetch(ctx context.Context, dataset model.Dataset) (*RawTable, error) {
	key := s.prefix + dataset.FileName()
	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("loading dataset from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			s.logger.Error().Str("location", location).Msg("dataset object not found")
			return nil, &model.DataNotFoundError{Dataset: dataset, Location: location, Err: err}
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	defer result.Body.Close()

	table, err := ReadCSV(ctx, result.Body)
	if err != nil {
		s.logger.Error().Err(err).Str("location", location).Msg("error reading dataset from S3")
		return nil, fmt.Errorf("error reading dataset from S3 %s: %w", key, err)
	}

	s.logger.Info().
		Str("location", location).
		Int("rows", table.Len()).
		Msg("dataset loaded successfully from S3")

	return table, nil
}
