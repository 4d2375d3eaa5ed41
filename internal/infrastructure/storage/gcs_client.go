package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"campusfound/internal/domain/service"
)

const photoFolder = "found-items"

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, credentialsPath string) (service.FileUploadService, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadItemPhoto stores a photo under found-items/{epochMillis}-{token}{ext}.
// The timestamp plus random token keeps names collision-free without any
// coordination between clients.
func (c *CloudStorageClient) UploadItemPhoto(ctx context.Context, file io.Reader, fileType, originalFilename string) (*service.UploadResult, error) {
	objectName := fmt.Sprintf("%s/%d-%s%s",
		photoFolder,
		time.Now().UnixMilli(),
		randomToken(),
		objectExtension(fileType, originalFilename),
	)

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = fileType
	wc.CacheControl = "public, max-age=86400" // 1 day caching

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return nil, fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return nil, fmt.Errorf("failed to set ACL: %v", err)
	}

	return &service.UploadResult{
		URL:        fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName),
		ObjectName: objectName,
	}, nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

func randomToken() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}

func objectExtension(fileType, originalFilename string) string {
	if ext := filepath.Ext(originalFilename); ext != "" {
		return strings.ToLower(ext)
	}

	switch fileType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
