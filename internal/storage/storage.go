package storage

import (
	"artcase-backend/config"
	"context"
	"fmt"
	"mime/multipart"
)

// FileStorage 上传文件并返回可访问的 URL
type FileStorage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	UploadBytes(ctx context.Context, data []byte, path, contentType string) (string, error)
}

// New 按 STORAGE_DRIVER 选择存储实现
func New(cfg config.Config) (FileStorage, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.BackendURL+"/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case "cloudinary":
		return NewCloudinaryStorage(cfg.CloudinaryURL)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.StorageDriver)
	}
}
