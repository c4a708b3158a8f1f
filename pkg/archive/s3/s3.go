// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gentext/gentext-gw/pkg/archive"
)

func init() {
	archive.Providers.Register("s3", func(ctx context.Context, params map[string]string) (archive.Archive, error) {
		return New(ctx, Options{
			Bucket:   params["bucket"],
			Region:   params["region"],
			Prefix:   params["prefix"],
			Endpoint: params["endpoint"],
		})
	})
}

// compile-time check
var _ archive.Archive = (*Archive)(nil)

// Options configures the S3 backend.
type Options struct {
	Bucket   string // required
	Region   string // e.g. "us-east-1"
	Prefix   string // key prefix, e.g. "payloads/"
	Endpoint string // custom endpoint for MinIO compatibility
}

// payloadMetadata is the JSON sidecar stored alongside each payload in S3.
type payloadMetadata struct {
	ExtractionID string    `json:"extraction_id"`
	ContentType  string    `json:"content_type"`
	Bytes        int64     `json:"bytes"`
	StoredAt     time.Time `json:"stored_at"`
}

// Archive stores payloads in S3 (or MinIO).
//
// Object layout:
//
//	<prefix><extraction_id>/payload
//	<prefix><extraction_id>/metadata.json
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed Archive.
func New(ctx context.Context, opts Options) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 archive: bucket is required")
	}

	optFns := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	client := s3.NewFromConfig(cfg, s3Opts...)

	return &Archive{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

func (a *Archive) contentKey(extractionID string) string {
	return a.prefix + extractionID + "/payload"
}

func (a *Archive) metadataKey(extractionID string) string {
	return a.prefix + extractionID + "/metadata.json"
}

// PutPayload uploads both the payload and its metadata.json to S3.
func (a *Archive) PutPayload(ctx context.Context, p *archive.Payload) error {
	meta := payloadMetadata{
		ExtractionID: p.ExtractionID,
		ContentType:  p.ContentType,
		Bytes:        p.Bytes,
		StoredAt:     p.StoredAt,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	// Upload payload
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.contentKey(p.ExtractionID)),
		Body:        bytes.NewReader(p.Content),
		ContentType: aws.String(p.ContentType),
	})
	if err != nil {
		return fmt.Errorf("put payload: %w", err)
	}

	// Upload metadata
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.metadataKey(p.ExtractionID)),
		Body:        bytes.NewReader(metaBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}

	return nil
}

// GetPayload fetches the payload bytes and metadata from S3.
func (a *Archive) GetPayload(ctx context.Context, extractionID string) (*archive.Payload, error) {
	meta, err := a.readMetadata(ctx, extractionID)
	if err != nil {
		return nil, err
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.contentKey(extractionID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("payload %s: %w", extractionID, archive.ErrPayloadNotFound)
		}
		return nil, fmt.Errorf("get payload: %w", err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read payload body: %w", err)
	}

	return &archive.Payload{
		ExtractionID: meta.ExtractionID,
		ContentType:  meta.ContentType,
		Bytes:        meta.Bytes,
		Content:      content,
		StoredAt:     meta.StoredAt,
	}, nil
}

// DeletePayload removes both the payload and metadata objects.
func (a *Archive) DeletePayload(ctx context.Context, extractionID string) error {
	// Check existence first
	if _, err := a.readMetadata(ctx, extractionID); err != nil {
		return err
	}

	_, err := a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(a.bucket),
		Delete: &s3types.Delete{
			Objects: []s3types.ObjectIdentifier{
				{Key: aws.String(a.contentKey(extractionID))},
				{Key: aws.String(a.metadataKey(extractionID))},
			},
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

// Close is a no-op for the S3 archive.
func (a *Archive) Close(_ context.Context) error {
	return nil
}

// readMetadata fetches and unmarshals metadata.json from S3.
func (a *Archive) readMetadata(ctx context.Context, extractionID string) (*payloadMetadata, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.metadataKey(extractionID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("payload %s: %w", extractionID, archive.ErrPayloadNotFound)
		}
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	defer out.Body.Close()

	var meta payloadMetadata
	if err := json.NewDecoder(out.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", extractionID, err)
	}
	return &meta, nil
}

// isNotFound checks whether the error indicates a missing S3 object.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if ok := errors.As(err, &nsk); ok {
		return true
	}
	// Some S3-compatible services return a generic "NotFound" status.
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound")
}
