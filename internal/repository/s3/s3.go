// Package s3 keeps each catalog slice as one JSON object in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

var _ repository.KeyValueStore = (*Store)(nil)

// ObjectAPI is the part of *s3.Client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

type Store struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// New loads the default AWS configuration (env, shared config, instance role)
// for region and returns a Store writing under bucket/prefix.
func New(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, apperror.ValidationFailed("bucket", "S3 bucket is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: loading AWS config: %w", err)
	}
	return NewWithAPI(awss3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewWithAPI wraps an existing client; tests pass a fake here.
func NewWithAPI(api ObjectAPI, bucket, prefix string) *Store {
	return &Store{api: api, bucket: bucket, prefix: prefix}
}

func (s *Store) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, apperror.NotFound("key", key)
		}
		return nil, fmt.Errorf("s3: getting %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: reading %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: putting %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
