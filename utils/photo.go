package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"
)

const (
	maxFileSize       = 5 * 1024 * 1024 // 5MB
	compressThreshold = 1 * 1024 * 1024 // 1MB
	mainWidth         = 800
	previewSize       = 200
)

var (
	ErrPhotoTooLarge   = errors.New("file size exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file format")
)

// ObjectPutter is the part of *minio.Client the uploaders need.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func NewS3Client(endpoint, accessKey, secretKey string, secure bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
}

// PhotoUploader stores product photos plus a square thumbnail.
type PhotoUploader struct {
	client    ObjectPutter
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewPhotoUploader builds an uploader. publicURL is the CDN or bucket base
// that object keys are appended to.
func NewPhotoUploader(client ObjectPutter, bucket, publicURL string) *PhotoUploader {
	return &PhotoUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// SaveProductPhoto uploads a JPEG or PNG. Images of 1MB or more are scaled
// to 800px wide and re-encoded; the preview is always a JPEG thumbnail.
func (u *PhotoUploader) SaveProductPhoto(ctx context.Context, productID, contentType string, data []byte) (string, string, error) {
	if len(data) > maxFileSize {
		return "", "", ErrPhotoTooLarge
	}

	var (
		img image.Image
		err error
		ext string
	)
	switch contentType {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
		ext = ".png"
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
		ext = ".jpg"
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	baseName := fmt.Sprintf("products/%s_%d", productID, u.now().Unix())
	mainFilename := baseName + ext
	mainType := contentType

	var bufMain bytes.Buffer
	if len(data) >= compressThreshold {
		resizedMain := resize.Resize(mainWidth, 0, img, resize.Lanczos3)
		if err := jpeg.Encode(&bufMain, resizedMain, &jpeg.Options{Quality: 80}); err != nil {
			return "", "", fmt.Errorf("failed to encode resized image: %w", err)
		}
		mainFilename, mainType = baseName+".jpg", "image/jpeg"
	} else {
		bufMain.Write(data)
	}

	if _, err := u.client.PutObject(ctx, u.bucket, mainFilename, &bufMain, int64(bufMain.Len()), minio.PutObjectOptions{
		ContentType: mainType,
	}); err != nil {
		return "", "", fmt.Errorf("failed to upload main image: %w", err)
	}

	previewFilename := baseName + "_preview.jpg"
	previewImg := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	var bufPreview bytes.Buffer
	if err := jpeg.Encode(&bufPreview, previewImg, &jpeg.Options{Quality: 75}); err != nil {
		return "", "", fmt.Errorf("failed to encode preview image: %w", err)
	}
	if _, err := u.client.PutObject(ctx, u.bucket, previewFilename, &bufPreview, int64(bufPreview.Len()), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	}); err != nil {
		return "", "", fmt.Errorf("failed to upload preview image: %w", err)
	}

	return u.publicURL + "/" + mainFilename, u.publicURL + "/" + previewFilename, nil
}
