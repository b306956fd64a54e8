package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/merror"
	"github.com/christophwitzko/csvbench/pkg/retry"
)

var contentTypes = map[string]string{
	"csv":  "text/csv",
	"json": "application/x-ndjson",
	"txt":  "text/plain",
}

var bucketCheckDelay = retry.DefaultDelay

// checkBucket retries transient attrs errors and gives up at once on a missing bucket.
func checkBucket(ctx context.Context, log *logger.Logger, bucket string, attrs func(ctx context.Context) error) error {
	return retry.OnError(ctx, retry.DefaultAttempts, bucketCheckDelay, func() error {
		err := attrs(ctx)
		if errors.Is(err, storage.ErrBucketNotExist) {
			return retry.Permanent(fmt.Errorf("bucket %s does not exist", bucket))
		}
		return err
	}, func(attempt int, err error) {
		log.Warnf("[gs://%s] bucket check error at attempt %d: %v", bucket, attempt, err)
	})
}

type gcsObjectWriter struct {
	*storage.Writer
	client *storage.Client
}

func (g *gcsObjectWriter) Close() error {
	return merror.MaybeMultiError(g.Writer.Close(), g.client.Close())
}

func openGCS(ctx context.Context, log *logger.Logger, bucketName, path, contentType string) (io.WriteCloser, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	bucket := client.Bucket(bucketName)
	err = checkBucket(ctx, log, bucketName, func(ctx context.Context) error {
		_, err := bucket.Attrs(ctx)
		return err
	})
	if err != nil {
		return nil, merror.MaybeMultiError(err, client.Close())
	}
	w := bucket.Object(strings.TrimPrefix(path, "/")).NewWriter(ctx)
	w.ContentType = contentType
	return &gcsObjectWriter{Writer: w, client: client}, nil
}
