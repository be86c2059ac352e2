package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"tandoorimport/common"
	"tandoorimport/importer"
)

const uploadTimeout = 30 * time.Second

// objectStore is the slice of common.S3 the archiver uses.
type objectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// Archiver uploads finished run records to S3.
type Archiver struct {
	store  objectStore
	bucket string
	prefix string
}

// NewArchiverFromEnv builds an archiver when S3_BUCKET is set. It returns
// nil when archiving is not configured, and also on client construction
// failure, which is logged rather than treated as fatal.
func NewArchiverFromEnv(ctx context.Context) *Archiver {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil
	}
	s3c, err := common.NewS3(ctx, common.S3Config{
		Region:       os.Getenv("AWS_REGION"),
		Profile:      os.Getenv("AWS_PROFILE"),
		UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
	})
	if err != nil {
		log.Printf("⚠️ Failed to init S3 client: %v (run archiving disabled)", err)
		return nil
	}
	prefix := os.Getenv("S3_PREFIX")
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return &Archiver{store: s3c, bucket: bucket, prefix: prefix}
}

// Archive uploads the run record as pretty-printed JSON under
// <prefix>runs/<run-id>.json.
func (a *Archiver) Archive(ctx context.Context, rec *importer.RunRecord) error {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	key := a.prefix + "runs/" + rec.RunID + ".json"
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	if err := a.store.Put(ctx, a.bucket, key, bytes.NewReader(b), "application/json"); err != nil {
		return fmt.Errorf("upload run record: %w", err)
	}
	log.Printf("✅ Archived run record to s3://%s/%s", a.bucket, key)
	return nil
}
