// internal/handlers/import.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmapos-be/internal/core/ports"
	"github.com/ammerola/pharmapos-be/internal/workers"
)

// ImportHandler accepts supplier invoice PDFs and stock sheet uploads
// and queues them for background processing
type ImportHandler struct {
	asynqClient *asynq.Client
	db          ports.Database
	logger      *slog.Logger
	maxFileSize int64
	uploadDir   string
}

// ImportJobStatus is the status row returned by the polling endpoint
type ImportJobStatus struct {
	JobID       string          `json:"job_id"`
	JobType     string          `json:"job_type"`
	FileName    string          `json:"file_name"`
	Status      string          `json:"status"`
	Error       *string         `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// NewImportHandler creates a new import handler
func NewImportHandler(asynqClient *asynq.Client, db ports.Database, logger *slog.Logger, maxFileSize int64, uploadDir string) *ImportHandler {
	return &ImportHandler{
		asynqClient: asynqClient,
		db:          db,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportPDF handles POST /api/v1/import/pdf
func (h *ImportHandler) ImportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		h.respondError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	supplier := r.FormValue("supplier")

	tempFile, err := h.saveUpload(ctx, file, header.Filename)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	if err := workers.CreateImportJob(ctx, h.db, jobID, "pdf_import", header.Filename); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to create job record",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create import job")
		return
	}

	payload := workers.PDFJobPayload{
		JobID:    jobID,
		FilePath: tempFile,
		Supplier: supplier,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to marshal payload",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	task := asynq.NewTask(workers.TypePDFImport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to enqueue task",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "PDF import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("supplier", supplier))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "PDF import has been queued for processing",
	})
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		h.respondError(w, http.StatusBadRequest, "Only Excel files are allowed")
		return
	}

	tempFile, err := h.saveUpload(ctx, file, header.Filename)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	if err := workers.CreateImportJob(ctx, h.db, jobID, "excel_import", header.Filename); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to create job record",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create import job")
		return
	}

	payload := workers.ExcelJobPayload{
		JobID:    jobID,
		FilePath: tempFile,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to marshal payload",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	task := asynq.NewTask(workers.TypeExcelImport, b)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to enqueue task",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "Excel import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Excel import has been queued for processing",
	})
}

// ImportBatch handles POST /api/v1/import/batch
func (h *ImportHandler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Allow larger payloads for batch uploads
	if err := r.ParseMultipartForm(h.maxFileSize * 10); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	fileType := r.FormValue("type")
	if fileType != "pdf" && fileType != "excel" {
		h.respondError(w, http.StatusBadRequest, "Invalid file type. Must be pdf or excel")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.respondError(w, http.StatusBadRequest, "No files provided")
		return
	}

	batchID := uuid.New().String()
	var jobIDs []string

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.WarnContext(ctx, "failed to open file in batch",
				slog.String("filename", fileHeader.Filename),
				slog.String("error", err.Error()))
			continue
		}

		tempFile, err := h.saveUpload(ctx, file, fileHeader.Filename)
		file.Close()
		if err != nil {
			continue
		}

		jobID := uuid.New().String()

		var taskType string
		var b []byte
		switch fileType {
		case "pdf":
			taskType = workers.TypePDFImport
			b, err = json.Marshal(workers.PDFJobPayload{JobID: jobID, FilePath: tempFile})
		case "excel":
			taskType = workers.TypeExcelImport
			b, err = json.Marshal(workers.ExcelJobPayload{JobID: jobID, FilePath: tempFile})
		}
		if err != nil {
			os.Remove(tempFile)
			continue
		}

		if err := workers.CreateImportJob(ctx, h.db, jobID, fileType+"_import", fileHeader.Filename); err != nil {
			os.Remove(tempFile)
			continue
		}

		if _, err := h.asynqClient.Enqueue(asynq.NewTask(taskType, b), asynq.Queue("low")); err != nil {
			os.Remove(tempFile)
			continue
		}

		jobIDs = append(jobIDs, jobID)
	}

	h.logger.InfoContext(ctx, "batch import queued",
		slog.String("batch_id", batchID),
		slog.Int("total_files", len(files)),
		slog.Int("queued_jobs", len(jobIDs)))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"batch_id":    batchID,
		"job_ids":     jobIDs,
		"total_files": len(files),
		"queued_jobs": len(jobIDs),
		"status":      "queued",
		"message":     fmt.Sprintf("Batch import of %d files has been queued", len(jobIDs)),
	})
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	if _, err := uuid.Parse(jobID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	status, err := h.getJobStatus(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Helper methods

func (h *ImportHandler) saveUpload(ctx context.Context, src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload directory",
			slog.String("error", err.Error()))
		return "", err
	}

	tempFile := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), filename))
	dst, err := os.Create(tempFile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create temp file",
			slog.String("error", err.Error()))
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to save file",
			slog.String("error", err.Error()))
		return "", err
	}

	return tempFile, nil
}

func (h *ImportHandler) getJobStatus(ctx context.Context, jobID string) (*ImportJobStatus, error) {
	query := `
		SELECT id, job_type, file_name, status, error, result,
		       created_at, updated_at, completed_at
		FROM import_jobs
		WHERE id = $1`

	var status ImportJobStatus
	err := h.db.QueryRow(ctx, query, jobID).Scan(
		&status.JobID,
		&status.JobType,
		&status.FileName,
		&status.Status,
		&status.Error,
		&status.Result,
		&status.CreatedAt,
		&status.UpdatedAt,
		&status.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
