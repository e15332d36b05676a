package uploader

import (
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"
	"course_mall/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader 文件上传
type Uploader interface {
	UploadFile(dir string, file *multipart.FileHeader) (string, error)
}

type AliyunOSSUploader struct {
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 上传到 dir/YYYYMMDD/uuid.ext，返回公网地址
func (u *AliyunOSSUploader) UploadFile(dir string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := objectKey(dir, file.Filename, time.Now())
	if err := u.bucket.PutObject(key, src); err != nil {
		return "", fmt.Errorf("oss put object: %w", err)
	}

	// bucket 为 public-read 或走 CDN
	return publicURL(u.config, key), nil
}

func objectKey(dir, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(dir, now.Format("20060102"), uuid.New().String()+ext)
}

func publicURL(cfg config.OSSConfig, key string) string {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", cfg.BucketName, endpoint, key)
}
