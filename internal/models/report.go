package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportStatus is the moderation state of a user report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
)

// UserReport is an abuse report filed by one user against another, with
// uploaded evidence files. Creation is all-or-nothing: if any evidence file
// fails validation or upload, no report rows persist.
type UserReport struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ReporterID     string `gorm:"not null;index" json:"reporter_id"`
	ReportedUserID string `gorm:"not null;index" json:"reported_user_id"`

	Reporter User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reported User `gorm:"foreignKey:ReportedUserID" json:"reported,omitempty"`

	ReportDescription string       `gorm:"type:text" json:"report_description"`
	Status            ReportStatus `gorm:"default:pending" json:"status"`

	Files []UserReportFile `gorm:"foreignKey:UserReportID" json:"files,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserReportFile is one uploaded piece of evidence attached to a report.
type UserReportFile struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserReportID string `gorm:"not null;index" json:"user_report_id"`

	OriginalFileName string `json:"original_file_name"`
	FileURL          string `gorm:"not null" json:"file_url"`
	MimeType         string `json:"mime_type"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *UserReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	if r.Status == "" {
		r.Status = ReportStatusPending
	}
	return nil
}

func (f *UserReportFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}
