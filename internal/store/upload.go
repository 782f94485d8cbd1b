package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateUploadParams represents parameters for recording an upload
type CreateUploadParams struct {
	TaskID     uuid.UUID
	UploaderID uuid.UUID
	FileName   string
	FileURL    string
	MimeType   string
	Caption    *string
	Hashtags   *string
}

const sqlCreateUpload = `
INSERT INTO uploads (task_id, uploader_id, file_name, file_url, mime_type, caption, hashtags)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, task_id, uploader_id, file_name, file_url, mime_type, caption, hashtags, created_at
`

// CreateUpload records an uploaded file for a task
func (s *Store) CreateUpload(ctx context.Context, params CreateUploadParams) (Upload, error) {
	var upload Upload
	err := s.db.GetContext(ctx, &upload, sqlCreateUpload,
		params.TaskID,
		params.UploaderID,
		params.FileName,
		params.FileURL,
		params.MimeType,
		params.Caption,
		params.Hashtags)
	if err != nil {
		s.logger.Error(ctx, "failed to create upload", err)
		return Upload{}, fmt.Errorf("failed to create upload: %w", err)
	}
	return upload, nil
}

const sqlGetUploadByID = `
SELECT id, task_id, uploader_id, file_name, file_url, mime_type, caption, hashtags, created_at
FROM uploads
WHERE id = $1
`

// GetUploadByID retrieves an upload by id
func (s *Store) GetUploadByID(ctx context.Context, uploadID uuid.UUID) (Upload, error) {
	var upload Upload
	err := s.db.GetContext(ctx, &upload, sqlGetUploadByID, uploadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get upload by id", err)
		return Upload{}, fmt.Errorf("failed to get upload by id: %w", err)
	}
	return upload, nil
}

const sqlGetUploadsByTaskID = `
SELECT id, task_id, uploader_id, file_name, file_url, mime_type, caption, hashtags, created_at
FROM uploads
WHERE task_id = $1
ORDER BY created_at ASC
`

// GetUploadsByTaskID retrieves all uploads for a task in creation order
func (s *Store) GetUploadsByTaskID(ctx context.Context, taskID uuid.UUID) ([]Upload, error) {
	var uploads []Upload
	err := s.db.SelectContext(ctx, &uploads, sqlGetUploadsByTaskID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get uploads by task id", err)
		return nil, fmt.Errorf("failed to get uploads by task id: %w", err)
	}
	return uploads, nil
}

const sqlDeleteUpload = `
DELETE FROM uploads
WHERE id = $1 AND task_id = $2
`

// DeleteUpload removes an upload row
func (s *Store) DeleteUpload(ctx context.Context, taskID, uploadID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteUpload, uploadID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete upload", err)
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
