package persistence

import (
	"context"
	"database/sql"
	"time"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
)

// JobRepository implements background job persistence on PostgreSQL.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.IJob { return &JobRepository{db: db} }

func (r *JobRepository) Create(ctx context.Context, j *model.Job) error {
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, video_id, job_type, status, stage, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		j.ID, j.VideoID, j.JobType, j.Status, j.Stage, j.CreatedAt, j.UpdatedAt)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, video_id, job_type, status, stage, error_message, created_at, updated_at FROM jobs WHERE id=$1`, id)
	j := &model.Job{}
	var stage, errMsg sql.NullString
	err := row.Scan(&j.ID, &j.VideoID, &j.JobType, &j.Status, &stage, &errMsg, &j.CreatedAt, &j.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	j.Stage = stage.String
	if errMsg.Valid {
		j.ErrorMessage = &errMsg.String
	}
	return j, nil
}

func (r *JobRepository) UpdateStage(ctx context.Context, id, status, stage string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE jobs SET status=$1, stage=$2, updated_at=$3 WHERE id=$4`,
		status, stage, time.Now().UTC(), id)
	return err
}

func (r *JobRepository) MarkResult(ctx context.Context, id string, success bool, errMsg *string) error {
	status := model.JobStatusFailed
	if success {
		status = model.JobStatusCompleted
	}
	_, err := r.db.ExecContext(ctx, `UPDATE jobs SET status=$1, error_message=$2, updated_at=$3 WHERE id=$4`,
		status, errMsg, time.Now().UTC(), id)
	return err
}
