package service

import (
	"context"
	"io"
)

type UploadResult struct {
	URL        string
	ObjectName string
}

type FileUploadService interface {
	UploadItemPhoto(ctx context.Context, file io.Reader, fileType, originalFilename string) (*UploadResult, error)
	Close() error
}
