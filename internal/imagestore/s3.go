package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in a bucket under a key prefix.
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store loads the default AWS config (env, shared config, instance role)
// for region and returns a store writing to bucket.
func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(awsCfg), bucket: bucket, prefix: "meals/"}, nil
}

func (s *S3Store) key(ref string) *string { return aws.String(s.prefix + ref) }

func (s *S3Store) Put(ctx context.Context, data []byte) (string, string, error) {
	m, err := Sniff(data)
	if err != nil {
		return "", "", err
	}
	ref := newRef(m)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         s.key(ref),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(m.String()),
	})
	if err != nil {
		log.Printf("[imagestore] s3 put %s: %v", ref, err)
		return "", "", fmt.Errorf("upload image: %w", err)
	}
	return ref, m.String(), nil
}

func (s *S3Store) Get(ctx context.Context, ref string) ([]byte, string, error) {
	if err := validRef(ref); err != nil {
		return nil, "", err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(ref),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", err
	}
	ct := aws.ToString(out.ContentType)
	if ct == "" {
		ct = contentTypeOf(data)
	}
	return data, ct, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if err := validRef(ref); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(ref),
	})
	return err
}
