// Package media uploads user media (avatars, cover images, videos, thumbnails)
// to an S3 compatible object store and hands back durable URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Folders used as key prefixes.
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// Object is an uploaded file.
type Object struct {
	Key string
	URL string
}

// Storage is what services need from the object store.
type Storage interface {
	Upload(ctx context.Context, localPath string, folder string) (Object, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Settings struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	// PublicURL is the externally reachable base of the object store.
	PublicURL string
}

type S3Storage struct {
	client    objectAPI
	presigner *s3.PresignClient
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3Storage builds a client with static credentials and path-style
// addressing, which MinIO requires.
func NewS3Storage(ctx context.Context, s Settings) (*S3Storage, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	st := newStorage(client, s.Bucket, s.PublicURL)
	st.presigner = s3.NewPresignClient(client)
	return st, nil
}

func newStorage(client objectAPI, bucket, publicURL string) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// NewKey returns folder/yyyy/mm/dd/<uuid><ext> for the given file name.
func NewKey(folder string, fileName string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", folder, at.Year(), at.Month(), at.Day(), uuid.NewString(), ext)
}

// URL returns the durable address of key.
func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}

// Upload sends the local file to the bucket. The local file is removed
// afterwards whether or not the upload succeeded.
func (s *S3Storage) Upload(ctx context.Context, localPath string, folder string) (obj Object, err error) {
	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove staged file: %w", rmErr)
		}
	}()

	if localPath == "" {
		return Object{}, errors.New("empty upload path")
	}

	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return Object{}, fmt.Errorf("detect content type: %w", err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return Object{}, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	key := NewKey(folder, localPath, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mt.String()),
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object: %w", err)
	}

	return Object{Key: key, URL: s.URL(key)}, nil
}

// Delete removes an object. An empty key is a no-op.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.presigner == nil {
		return "", errors.New("presigning is not configured")
	}
	req, err := presignGetObject(s.presigner, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
