package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bbyte-app/backend/internal/util"
	"github.com/google/uuid"
)

// S3Uploader handles video and report-evidence uploads to AWS S3
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// UploadResult contains the result of an S3 upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

// UploadVideo uploads a post video to S3 with proper naming and metadata.
// The returned Key doubles as the post's public_id for later deletion.
func (u *S3Uploader) UploadVideo(ctx context.Context, data []byte, userID, originalFilename string) (*UploadResult, error) {
	fileID := uuid.New().String()
	extension := strings.ToLower(filepath.Ext(originalFilename))
	if extension == "" {
		extension = ".mp4"
	}

	// Folder structure: videos/{year}/{month}/{userID}/{fileID}.mp4
	now := time.Now()
	key := fmt.Sprintf("videos/%d/%02d/%s/%s%s",
		now.Year(), now.Month(), userID, fileID, extension)

	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(util.VideoContentType(extension)),

		// Videos are immutable once posted
		CacheControl: aws.String("max-age=86400"),

		Metadata: map[string]string{
			"user-id":           userID,
			"original-filename": originalFilename,
			"upload-timestamp":  now.Format(time.RFC3339),
			"file-type":         "video",
		},
	}

	if _, err := u.client.PutObject(ctx, putObjectInput); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:    key,
		URL:    u.publicURL(key),
		Bucket: u.bucket,
		Region: u.region,
		Size:   int64(len(data)),
	}, nil
}

// UploadReportFile uploads one report evidence file. Evidence is private
// moderation material, so it goes under a separate prefix.
func (u *S3Uploader) UploadReportFile(ctx context.Context, data []byte, reporterID, originalFilename, contentType string) (*UploadResult, error) {
	fileID := uuid.New().String()
	extension := strings.ToLower(filepath.Ext(originalFilename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	key := fmt.Sprintf("reports/%d/%02d/%s/%s%s",
		now.Year(), now.Month(), reporterID, fileID, extension)

	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),

		Metadata: map[string]string{
			"reporter-id":       reporterID,
			"original-filename": originalFilename,
			"upload-timestamp":  now.Format(time.RFC3339),
			"file-type":         "report-evidence",
		},
	}

	if _, err := u.client.PutObject(ctx, putObjectInput); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:    key,
		URL:    u.publicURL(key),
		Bucket: u.bucket,
		Region: u.region,
		Size:   int64(len(data)),
	}, nil
}

// Delete deletes a file from S3
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}

	return nil
}

func (u *S3Uploader) publicURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.baseURL, "/"), key)
}
