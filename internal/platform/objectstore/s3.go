// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore stores course thumbnails in an S3-compatible bucket.

It works against AWS S3 as well as R2 or MinIO (custom endpoint, optional path-style
addressing). Objects are served from a public base URL, typically a CDN in front of
the bucket, so Upload returns a URL rather than an object reference.
*/
package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const pingTimeout = 3 * time.Second

// Options configures the bucket connection.
type Options struct {
	Bucket       string
	Region       string
	Endpoint     string // empty for AWS
	AccessKeyID  string // empty to use the default credential chain
	SecretKey    string
	UsePathStyle bool
	PublicURL    string
}

// S3 uploads objects to one bucket.
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 builds the S3 client. It does not touch the network; use [S3.Ping].
func NewS3(ctx context.Context, options Options, logger *slog.Logger) (*S3, error) {
	loadOptions := []func(*config.LoadOptions) error{config.WithRegion(options.Region)}
	if options.AccessKeyID != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKeyID, options.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.UsePathStyle
		// Several S3-compatible providers reject the default checksum trailers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	logger.Info("objectstore_configured",
		slog.String("bucket", options.Bucket),
		slog.String("endpoint", options.Endpoint),
		slog.Bool("path_style", options.UsePathStyle),
	)

	return &S3{
		client:    client,
		bucket:    options.Bucket,
		publicURL: strings.TrimRight(options.PublicURL, "/"),
	}, nil
}

/*
Upload stores body under key and returns its public URL.

Parameters:
  - ctx: context.Context
  - key: Object key, already URL-safe
  - contentType: MIME type served back to browsers
  - body: Object content; a seekable reader avoids buffering in the SDK
  - size: Content length in bytes
*/
func (store *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: put %s: %w", key, err)
	}

	return store.PublicURL(key), nil
}

// PublicURL returns the browser-facing URL of key.
func (store *S3) PublicURL(key string) string {
	return store.publicURL + "/" + strings.TrimLeft(key, "/")
}

// Ping verifies that the bucket exists and the credentials can reach it.
func (store *S3) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := store.client.HeadBucket(pingCtx, &s3.HeadBucketInput{Bucket: aws.String(store.bucket)}); err != nil {
		return fmt.Errorf("objectstore: head bucket %s: %w", store.bucket, err)
	}
	return nil
}
