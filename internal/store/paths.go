package store

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/filecrate/filecrate/internal/config"
)

// PathResolver derives the storage path for a display name. The
// derivation is deterministic: identical names always resolve to the
// same path.
type PathResolver interface {
	Resolve(displayName string) string
}

// UploadPresigner is implemented by resolvers that can hand out a URL
// the owner may upload the file contents to.
type UploadPresigner interface {
	PresignUpload(displayName string) (string, error)
}

// LocalPaths shards files under a base directory by the hash of the
// display name, two levels deep to keep directories small.
type LocalPaths struct {
	basePath string
}

func NewLocalPaths(basePath string) *LocalPaths {
	return &LocalPaths{basePath: basePath}
}

func (l *LocalPaths) Resolve(displayName string) string {
	h := nameHash(displayName)
	return filepath.Join(l.basePath, h[:2], h[2:4], h)
}

// S3Paths resolves storage paths as object keys in an S3-compatible
// bucket and presigns upload URLs for them.
type S3Paths struct {
	svc           *s3.S3
	bucket        string
	prefix        string
	presignExpiry time.Duration
}

func NewS3Paths(cfg config.S3Config) (*S3Paths, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15
	}

	return &S3Paths{
		svc:           s3.New(sess),
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		presignExpiry: time.Duration(expiry) * time.Minute,
	}, nil
}

func (s *S3Paths) Resolve(displayName string) string {
	return "s3://" + path.Join(s.bucket, s.key(displayName))
}

func (s *S3Paths) PresignUpload(displayName string) (string, error) {
	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(displayName)),
	})
	url, err := req.Presign(s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return url, nil
}

func (s *S3Paths) key(displayName string) string {
	h := nameHash(displayName)
	return path.Join(s.prefix, h[:2], h[2:4], h)
}

func nameHash(displayName string) string {
	sum := sha1.Sum([]byte(displayName))
	return hex.EncodeToString(sum[:])
}
