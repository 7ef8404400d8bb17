package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/metrics"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// CreateReport files an abuse report with evidence attachments. Creation is
// all-or-nothing: if any file fails validation or upload, no rows persist and
// already uploaded objects are deleted best-effort.
// POST /api/v1/reports
func (h *Handlers) CreateReport(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	reportedUserID := c.PostForm("reported_user_id")
	description := c.PostForm("report_description")
	if reportedUserID == "" || description == "" {
		util.RespondUploadError(c, "reported_user_id and report_description are required", nil)
		return
	}

	var reported models.User
	if err := database.DB.First(&reported, "id = ?", reportedUserID).Error; err != nil {
		util.RespondUploadError(c, "reported user not found", err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		util.RespondUploadError(c, "invalid multipart form", err)
		return
	}
	headers := form.File["files[]"]
	if len(headers) == 0 {
		headers = form.File["files"]
	}

	for _, header := range headers {
		if err := util.ValidateReportFile(header); err != nil {
			metrics.Get().UploadsTotal.WithLabelValues("report_file", "error").Inc()
			util.RespondUploadError(c, "invalid report file "+header.Filename, err)
			return
		}
	}

	var uploadedKeys []string
	cleanup := func() {
		for _, key := range uploadedKeys {
			if err := h.uploader.Delete(c.Request.Context(), key); err != nil {
				logger.Warn("Failed to delete orphaned report file "+key, err)
			}
		}
	}

	report := models.UserReport{
		ReporterID:        userID,
		ReportedUserID:    reportedUserID,
		ReportDescription: description,
		Status:            models.ReportStatusPending,
	}

	for _, header := range headers {
		data, err := readFormFile(header)
		if err != nil {
			metrics.Get().UploadsTotal.WithLabelValues("report_file", "error").Inc()
			cleanup()
			util.RespondUploadError(c, "failed to read report file "+header.Filename, err)
			return
		}

		contentType := header.Header.Get("Content-Type")
		result, err := h.uploader.UploadReportFile(c.Request.Context(), data, userID, header.Filename, contentType)
		if err != nil {
			metrics.Get().UploadsTotal.WithLabelValues("report_file", "error").Inc()
			cleanup()
			util.RespondUploadError(c, "failed to upload report file "+header.Filename, err)
			return
		}
		uploadedKeys = append(uploadedKeys, result.Key)

		report.Files = append(report.Files, models.UserReportFile{
			OriginalFileName: header.Filename,
			FileURL:          result.URL,
			MimeType:         contentType,
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&report).Error
	})
	if err != nil {
		cleanup()
		util.RespondUploadError(c, "failed to save report", err)
		return
	}

	metrics.Get().UploadsTotal.WithLabelValues("report_file", "ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// ReportView is a report row with minimal reporter and reported projections.
type ReportView struct {
	ID                string                  `json:"id"`
	Reporter          models.UserSummary      `json:"reporter"`
	Reported          models.UserSummary      `json:"reported"`
	ReportDescription string                  `json:"report_description"`
	Status            models.ReportStatus     `json:"status"`
	Files             []models.UserReportFile `json:"files"`
	CreatedAt         time.Time               `json:"created_at"`
}

// ListReports lists reports with optional status and date-range filters
// GET /api/v1/reports?status=&start_date=&end_date=
func (h *Handlers) ListReports(c *gin.Context) {
	query := database.DB.Model(&models.UserReport{}).
		Preload("Files").
		Preload("Reporter").Preload("Reporter.Profile").
		Preload("Reported").Preload("Reported.Profile").
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		if status != string(models.ReportStatusPending) && status != string(models.ReportStatusCompleted) {
			util.RespondBadRequest(c, "status must be pending or completed")
			return
		}
		query = query.Where("status = ?", status)
	}
	if start := c.Query("start_date"); start != "" {
		if _, err := time.Parse("2006-01-02", start); err != nil {
			util.RespondBadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		query = query.Where("DATE(created_at) >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		if _, err := time.Parse("2006-01-02", end); err != nil {
			util.RespondBadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		query = query.Where("DATE(created_at) <= ?", end)
	}

	var reports []models.UserReport
	if err := query.Find(&reports).Error; err != nil {
		util.RespondInternalError(c, "Failed to load reports", err)
		return
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, ReportView{
			ID:                r.ID,
			Reporter:          userSummary(r.Reporter),
			Reported:          userSummary(r.Reported),
			ReportDescription: r.ReportDescription,
			Status:            r.Status,
			Files:             r.Files,
			CreatedAt:         r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"reports": views})
}

// UpdateReportStatus moves a report between pending and completed
// PATCH /api/v1/reports/:id
func (h *Handlers) UpdateReportStatus(c *gin.Context) {
	reportID := c.Param("id")

	var req struct {
		Status models.ReportStatus `json:"status" binding:"required,oneof=pending completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var report models.UserReport
	if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
		util.RespondNotFound(c, "report")
		return
	}

	if err := database.DB.Model(&report).UpdateColumn("status", req.Status).Error; err != nil {
		util.RespondInternalError(c, "Failed to update report", err)
		return
	}
	report.Status = req.Status

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func userSummary(user models.User) models.UserSummary {
	summary := models.UserSummary{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
	}
	if user.Profile != nil {
		summary.ProfilePicture = user.Profile.ProfilePicture
	}
	return summary
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
