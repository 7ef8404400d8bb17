package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbyte-app/backend/internal/models"
)

func (suite *HandlersTestSuite) TestCreateReportWithFiles() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	w := suite.doMultipart("/api/v1/reports", alice.ID,
		map[string]string{
			"reported_user_id":   bob.ID,
			"report_description": "spamming my comments",
		},
		[]formFile{
			{field: "files[]", filename: "evidence.png", contentType: "image/png", data: []byte("png bytes")},
			{field: "files[]", filename: "notes.txt", contentType: "text/plain", data: []byte("notes")},
		})
	assert.Equal(t, http.StatusCreated, w.Code)

	var report models.UserReport
	require.NoError(t, suite.db.Preload("Files").First(&report, "reporter_id = ?", alice.ID).Error)
	assert.Equal(t, bob.ID, report.ReportedUserID)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Len(t, report.Files, 2)
}

func (suite *HandlersTestSuite) TestCreateReportAllOrNothing() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	// One valid file, one invalid extension: nothing may persist.
	w := suite.doMultipart("/api/v1/reports", alice.ID,
		map[string]string{
			"reported_user_id":   bob.ID,
			"report_description": "bad",
		},
		[]formFile{
			{field: "files[]", filename: "evidence.png", contentType: "image/png", data: []byte("png bytes")},
			{field: "files[]", filename: "malware.exe", contentType: "application/octet-stream", data: []byte("nope")},
		})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var reports int64
	require.NoError(t, suite.db.Model(&models.UserReport{}).Count(&reports).Error)
	assert.Equal(t, int64(0), reports)

	var files int64
	require.NoError(t, suite.db.Model(&models.UserReportFile{}).Count(&files).Error)
	assert.Equal(t, int64(0), files)
	assert.Empty(t, suite.uploader.Uploads)
}

func (suite *HandlersTestSuite) TestCreateReportUploadFailureCleansUp() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	suite.uploader.FailUploads = true

	w := suite.doMultipart("/api/v1/reports", alice.ID,
		map[string]string{
			"reported_user_id":   bob.ID,
			"report_description": "bad",
		},
		[]formFile{
			{field: "files[]", filename: "evidence.png", contentType: "image/png", data: []byte("png bytes")},
		})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var reports int64
	require.NoError(t, suite.db.Model(&models.UserReport{}).Count(&reports).Error)
	assert.Equal(t, int64(0), reports)
}

func (suite *HandlersTestSuite) TestCreateReportUnknownReportedUser() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doMultipart("/api/v1/reports", alice.ID,
		map[string]string{
			"reported_user_id":   "00000000-0000-0000-0000-000000000000",
			"report_description": "ghost",
		}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestListReportsFilters() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	pending := models.UserReport{
		ReporterID:        alice.ID,
		ReportedUserID:    bob.ID,
		ReportDescription: "first",
		Status:            models.ReportStatusPending,
	}
	require.NoError(t, suite.db.Create(&pending).Error)

	completed := models.UserReport{
		ReporterID:        bob.ID,
		ReportedUserID:    alice.ID,
		ReportDescription: "second",
		Status:            models.ReportStatusCompleted,
	}
	require.NoError(t, suite.db.Create(&completed).Error)

	w := suite.doJSON("GET", "/api/v1/reports?status=pending", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reports []ReportView `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, pending.ID, resp.Reports[0].ID)
	assert.Equal(t, "alice", resp.Reports[0].Reporter.Username)

	today := time.Now().Format("2006-01-02")
	w = suite.doJSON("GET", "/api/v1/reports?start_date="+today+"&end_date="+today, alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reports, 2)

	w = suite.doJSON("GET", "/api/v1/reports?end_date=2000-01-01", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Reports, 0)

	w = suite.doJSON("GET", "/api/v1/reports?status=bogus", alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateReportStatus() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	report := models.UserReport{
		ReporterID:        alice.ID,
		ReportedUserID:    bob.ID,
		ReportDescription: "spam",
	}
	require.NoError(t, suite.db.Create(&report).Error)

	w := suite.doJSON("PATCH", "/api/v1/reports/"+report.ID, alice.ID,
		map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.UserReport
	require.NoError(t, suite.db.First(&reloaded, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportStatusCompleted, reloaded.Status)

	w = suite.doJSON("PATCH", "/api/v1/reports/"+report.ID, alice.ID,
		map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
