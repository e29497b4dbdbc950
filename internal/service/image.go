package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/recipehub/backend/config"
)

// ImageUploader stores image bytes and returns a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, fileName string) (string, error)
}

// ImageService uploads recipe images to S3.
type ImageService struct {
	s3Config *config.S3Config
}

var _ ImageUploader = (*ImageService)(nil)

// NewImageService creates a new ImageService instance.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Upload puts the image into the configured bucket and returns its public
// URL. The content type is derived from the file extension, defaulting to
// PNG.
func (s *ImageService) Upload(ctx context.Context, data []byte, fileName string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "image/png"
	}

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] uploaded image to S3: %s", publicURL)
	return publicURL, nil
}
