package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Trace is an exported mutation trace.
type Trace struct {
	Name       string    `json:"name"`
	CapturedAt time.Time `json:"captured_at"`
	Events     []Event   `json:"events"`
}

// S3Exporter uploads traces to an S3 bucket as JSON objects.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	exporter := record.NewS3Exporter(s3.NewFromConfig(cfg), "my-bucket", "traces/")
//	key, err := exporter.Export(ctx, "checkout-page", recorder.Events())
type S3Exporter struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Exporter creates an exporter writing under the given key prefix.
func NewS3Exporter(client *s3.Client, bucket, prefix string) *S3Exporter {
	return &S3Exporter{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Export uploads the events as one JSON trace object and returns its key.
func (e *S3Exporter) Export(ctx context.Context, name string, events []Event) (string, error) {
	trace := Trace{
		Name:       name,
		CapturedAt: time.Now().UTC(),
		Events:     events,
	}

	body, err := json.Marshal(trace)
	if err != nil {
		return "", fmt.Errorf("encode trace: %w", err)
	}

	key := fmt.Sprintf("%s%s-%d.json", e.prefix, name, trace.CapturedAt.UnixMilli())

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"trace-name":  name,
			"event-count": fmt.Sprint(len(events)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return key, nil
}
