package util

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxVideoSize caps post uploads at 100MB.
const MaxVideoSize = 100 << 20

// MaxReportFileSize caps report evidence files at 2MB.
const MaxReportFileSize = 2 << 20

var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

var videoMimeTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/avi":       true,
}

var reportFileExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// ValidateVideoUpload checks extension, declared mime type and size of a
// post upload.
func ValidateVideoUpload(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !videoExtensions[ext] {
		return fmt.Errorf("unsupported video format %q: must be mp4, mov or avi", ext)
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !videoMimeTypes[ct] {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	if header.Size > MaxVideoSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", header.Size, MaxVideoSize)
	}
	return nil
}

// ValidateReportFile checks extension and size of a report evidence file.
func ValidateReportFile(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !reportFileExtensions[ext] {
		return fmt.Errorf("unsupported file type %q: must be jpg, jpeg, png, pdf, doc, docx or txt", ext)
	}
	if header.Size > MaxReportFileSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", header.Size, MaxReportFileSize)
	}
	return nil
}

// VideoContentType returns the MIME type for a video file extension.
func VideoContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}
