// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/hadarhome/storefront/internal/config"
)

// MaxImageSize caps product image uploads at 5 MB.
const MaxImageSize = 5 << 20

type StorageService struct {
	client        *s3.S3
	bucket        string
	region        string
	cloudFrontURL string
	uploadFolder  string
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		client:        s3.New(sess),
		bucket:        cfg.S3Bucket,
		region:        cfg.Region,
		cloudFrontURL: strings.TrimRight(cfg.CloudFrontURL, "/"),
		uploadFolder:  cfg.UploadFolder,
	}, nil
}

type UploadResult struct {
	ImageURL      string `json:"imageUrl"`
	ImagePublicID string `json:"imagePublicId"`
}

// UploadImage stores an image under a generated key and returns the
// public URL plus the key needed to delete it later. The content type is
// sniffed from the file bytes, never trusted from the client.
func (s *StorageService) UploadImage(data []byte, originalName string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", len(data), MaxImageSize)
	}

	contentType, ext, ok := sniffImageType(data)
	if !ok {
		return nil, fmt.Errorf("unsupported image format")
	}

	key := s.generateKey(originalName, ext)

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{
		ImageURL:      s.publicURL(key),
		ImagePublicID: key,
	}, nil
}

func (s *StorageService) DeleteImage(publicID string) error {
	if publicID == "" {
		return fmt.Errorf("missing image id")
	}

	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

type StoredImage struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ListImages pages through the upload folder. A non-empty token resumes
// where the previous page stopped; the returned token is empty on the
// last page.
func (s *StorageService) ListImages(limit int, token string) ([]StoredImage, string, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.uploadFolder + "/"),
		MaxKeys: aws.Int64(int64(limit)),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := s.client.ListObjectsV2(input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]StoredImage, 0, len(out.Contents))
	for _, obj := range out.Contents {
		images = append(images, StoredImage{
			Key:          aws.StringValue(obj.Key),
			URL:          s.publicURL(aws.StringValue(obj.Key)),
			Size:         aws.Int64Value(obj.Size),
			LastModified: aws.TimeValue(obj.LastModified),
		})
	}

	return images, aws.StringValue(out.NextContinuationToken), nil
}

func (s *StorageService) generateKey(originalName, ext string) string {
	if e := strings.ToLower(path.Ext(originalName)); e == ".jpg" && ext == ".jpeg" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102"), uuid.NewString()[:8], ext)
	return path.Join(s.uploadFolder, name)
}

func (s *StorageService) publicURL(key string) string {
	if s.cloudFrontURL != "" {
		return s.cloudFrontURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// sniffImageType checks magic bytes for the formats the storefront
// accepts.
func sniffImageType(data []byte) (contentType, ext string, ok bool) {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg", ".jpeg", true
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png", ".png", true
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp", ".webp", true
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "image/gif", ".gif", true
	default:
		return "", "", false
	}
}
