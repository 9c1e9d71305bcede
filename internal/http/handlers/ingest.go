package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/creditdesk/backend/internal/ingest"
	"github.com/gin-gonic/gin"
)

type IngestService interface {
	Enqueue(ctx context.Context, kind, fileName string, src io.Reader) (*ingest.Job, error)
	GetJob(ctx context.Context, id string) (*ingest.Job, error)
}

type IngestHandler struct {
	service      IngestService
	maxFileBytes int64
}

func NewIngestHandler(service IngestService, maxFileBytes int64) *IngestHandler {
	return &IngestHandler{service: service, maxFileBytes: maxFileBytes}
}

func (h *IngestHandler) UploadCustomers(c *gin.Context) {
	h.upload(c, ingest.KindCustomers)
}

func (h *IngestHandler) UploadLoans(c *gin.Context) {
	h.upload(c, ingest.KindLoans)
}

func (h *IngestHandler) upload(c *gin.Context, kind string) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_file"})
		return
	}
	if h.maxFileBytes > 0 && file.Size > h.maxFileBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_too_large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_file"})
		return
	}
	defer src.Close()

	job, err := h.service.Enqueue(c.Request.Context(), kind, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"kind":   job.Kind,
		"status": job.Status,
	})
}

func (h *IngestHandler) JobStatus(c *gin.Context) {
	jobID := strings.TrimSpace(c.Param("jobId"))
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_job_id"})
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job_not_found"})
		return
	}

	resp := gin.H{
		"job_id":       job.ID,
		"kind":         job.Kind,
		"file_name":    job.FileName,
		"status":       job.Status,
		"attempts":     job.Attempts,
		"total_rows":   job.TotalRows,
		"created_rows": job.CreatedRows,
		"skipped_rows": job.SkippedRows,
		"failed_rows":  job.FailedRows,
		"row_errors":   job.RowErrors,
	}
	if job.LastError != "" {
		resp["last_error"] = job.LastError
	}
	c.JSON(http.StatusOK, resp)
}
