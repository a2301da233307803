package receipt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectPutter is the subset of *minio.Client used for archiving.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver uploads rendered receipts to S3 compatible storage.
type Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewArchiver(client ObjectPutter, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key is the object name a bill's receipt is stored under.
func (a *Archiver) Key(billID string) string {
	if a.prefix == "" {
		return fmt.Sprintf("%s.txt", billID)
	}
	return fmt.Sprintf("%s/%s.txt", a.prefix, billID)
}

// Archive stores the text and returns its object key.
func (a *Archiver) Archive(ctx context.Context, billID, text string) (string, error) {
	key := a.Key(billID)
	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(text), int64(len(text)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt %s: %w", billID, err)
	}
	return key, nil
}
