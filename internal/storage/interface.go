package storage

import "context"

// Uploader is the object-storage surface the handlers depend on. The S3
// implementation is the production backend; tests substitute a mock.
type Uploader interface {
	// UploadVideo stores a post video and returns its key and public URL.
	UploadVideo(ctx context.Context, data []byte, userID, originalFilename string) (*UploadResult, error)
	// UploadReportFile stores one piece of report evidence.
	UploadReportFile(ctx context.Context, data []byte, reporterID, originalFilename, contentType string) (*UploadResult, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// Ensure S3Uploader implements Uploader
var _ Uploader = (*S3Uploader)(nil)
