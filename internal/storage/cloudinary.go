package storage

import (
	"artcase-backend/internal/util"
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStorage 上传到 Cloudinary，path 去掉扩展名后作为 public_id
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(url string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("初始化 cloudinary 失败: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func publicID(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func (s *CloudinaryStorage) upload(ctx context.Context, src interface{}, path string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{PublicID: publicID(path)})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary 上传失败: 未返回地址")
	}
	util.Logger.Info("文件上传成功", zap.String("public_id", result.PublicID))
	return result.SecureURL, nil
}

func (s *CloudinaryStorage) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.upload(context.Background(), src, path)
}

func (s *CloudinaryStorage) UploadBytes(ctx context.Context, data []byte, path, _ string) (string, error) {
	return s.upload(ctx, bytes.NewReader(data), path)
}
