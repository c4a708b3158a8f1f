// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package s3_test

import (
	"context"
	"os"
	"testing"

	"github.com/gentext/gentext-gw/pkg/archive"
	"github.com/gentext/gentext-gw/pkg/archive/archivetest"
	as3 "github.com/gentext/gentext-gw/pkg/archive/s3"
)

func TestS3Conformance(t *testing.T) {
	bucket := os.Getenv("ARCHIVE_S3_BUCKET")
	endpoint := os.Getenv("ARCHIVE_S3_ENDPOINT")
	if bucket == "" || endpoint == "" {
		t.Skip("Skipping S3 conformance tests: ARCHIVE_S3_BUCKET and ARCHIVE_S3_ENDPOINT must be set (e.g. with MinIO)")
	}

	region := os.Getenv("ARCHIVE_S3_REGION")
	if region == "" {
		region = "us-east-1"
	}

	archivetest.RunConformanceTests(t, func(t *testing.T) archive.Archive {
		a, err := as3.New(context.Background(), as3.Options{
			Bucket:   bucket,
			Region:   region,
			Prefix:   "test-" + t.Name() + "/",
			Endpoint: endpoint,
		})
		if err != nil {
			t.Fatalf("s3.New: %v", err)
		}
		return a
	})
}
