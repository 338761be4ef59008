package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	appConfig "github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/utils"
)

// LocalImagePrefix prefixes the storage key of every locally stored image
const LocalImagePrefix = "uploads/"

// LocalImageURLPrefix is the public route that serves locally stored images
const LocalImageURLPrefix = "/api/v1/uploads/"

// ImageService handles car image upload, retrieval, and deletion
type ImageService interface {
	// UploadImage validates and stores an image file, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a URL clients can fetch the image from
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage. Missing images are not an error.
	DeleteImage(ctx context.Context, imageKey string) error
}

var imageServiceInstance ImageService

// InitImageService picks the storage driver named in configuration
func InitImageService(ctx context.Context, cfg *appConfig.Config) (ImageService, error) {
	switch cfg.StorageDriver {
	case appConfig.StorageS3:
		s3Service, err := InitS3Service(ctx, cfg)
		if err != nil {
			return nil, err
		}
		imageServiceInstance = NewS3ImageService(s3Service)
	case appConfig.StorageLocal:
		imageServiceInstance = NewLocalImageService(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	return imageServiceInstance, nil
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// LocalImageService stores images on the local filesystem under dir.
// Keys have the form "uploads/<filename>" and are served from LocalImageURLPrefix.
type LocalImageService struct {
	dir string
}

func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// Dir returns the directory images are written to
func (s *LocalImageService) Dir() string {
	return s.dir
}

// Path resolves a storage key to its file on disk
func (s *LocalImageService) Path(imageKey string) string {
	return filepath.Join(s.dir, path.Base(imageKey))
}

func (s *LocalImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return LocalImagePrefix + filename, nil
}

func (s *LocalImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return LocalImageURLPrefix + path.Base(imageKey), nil
}

func (s *LocalImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	name := path.Base(imageKey)
	if !utils.IsSafeFilename(name) || !strings.HasPrefix(imageKey, LocalImagePrefix) {
		return fmt.Errorf("refusing to delete image outside upload directory: %q", imageKey)
	}
	return utils.RemoveFile(s.Path(imageKey))
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(ctx, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s3Key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
