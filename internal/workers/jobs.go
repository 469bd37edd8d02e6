// internal/workers/jobs.go
package workers

import (
	"context"
	"encoding/json"

	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// Job status values persisted to import_jobs.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// CreateImportJob inserts a pending import_jobs row. Called by the
// import handler before the task is enqueued so status polling works
// from the moment the upload is accepted.
func CreateImportJob(ctx context.Context, db ports.Database, jobID, jobType, fileName string) error {
	query := `
		INSERT INTO import_jobs (id, job_type, file_name, status)
		VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(ctx, query, jobID, jobType, fileName, JobStatusPending)
	return err
}

func updateJobStatus(ctx context.Context, db ports.Database, jobID, status string, errMsg *string) error {
	query := `
		UPDATE import_jobs
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := db.Exec(ctx, query, jobID, status, errMsg)
	return err
}

func completeJob(ctx context.Context, db ports.Database, jobID, status string, result json.RawMessage) error {
	query := `
		UPDATE import_jobs
		SET status = $2, result = $3, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	_, err := db.Exec(ctx, query, jobID, status, result)
	return err
}
