package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStorage keeps user avatar images in an S3-compatible bucket. The
// user record stores only the image URL; the bytes live here.
type AvatarStorage struct {
	client *minio.Client
	bucket string
}

// NewAvatarStorage creates the object-store client and ensures the avatar
// bucket exists.
func NewAvatarStorage(cfg *MinIOConfig) (*AvatarStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &AvatarStorage{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// UploadAvatar stores the avatar bytes for a user and returns the object key.
// One object per user; a re-upload replaces the previous avatar.
func (s *AvatarStorage) UploadAvatar(ctx context.Context, userKey string, reader io.Reader, size int64, contentType string) (string, error) {
	key := path.Join("avatars", userKey)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// AvatarURL returns a presigned GET URL for the stored avatar, valid for the
// given duration.
func (s *AvatarStorage) AvatarURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
