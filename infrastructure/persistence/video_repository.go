package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
)

const videoColumns = `id, series_id, topic, title, description, tags, project_dir, video_path, thumbnail_path, script_path,
	duration_seconds, status, progress, current_stage, error_message,
	youtube_id, youtube_url, youtube_published_at,
	tiktok_id, tiktok_url, tiktok_published_at,
	instagram_id, instagram_url, instagram_published_at,
	scheduled_for, created_at, updated_at`

// VideoRepository implements video persistence on PostgreSQL.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.IVideo { return &VideoRepository{db: db} }

func (r *VideoRepository) Create(ctx context.Context, v *model.Video) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO videos
		(id, series_id, topic, title, description, tags, status, progress, scheduled_for, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		v.ID, v.SeriesID, v.Topic, v.Title, v.Description, pq.Array(v.Tags), v.Status, v.Progress,
		v.ScheduledFor, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id=$1`, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VideoRepository) ListBySeries(ctx context.Context, seriesID string, limit, offset int) ([]*model.Video, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE series_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		seriesID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *VideoRepository) UpdateStatus(ctx context.Context, id, status string, errMsg *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET status=$1, error_message=$2, updated_at=$3 WHERE id=$4`,
		status, errMsg, time.Now().UTC(), id)
	return err
}

// MarkReady records the render output and flips the video to ready in one
// statement.
func (r *VideoRepository) MarkReady(ctx context.Context, v *model.Video) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET
		topic=$1, title=$2, description=$3, tags=$4,
		project_dir=$5, video_path=$6, thumbnail_path=$7, script_path=$8,
		duration_seconds=$9, status='ready', progress=100, current_stage='completed', error_message=NULL, updated_at=$10
		WHERE id=$11`,
		v.Topic, v.Title, v.Description, pq.Array(v.Tags),
		v.ProjectDir, v.VideoPath, v.ThumbnailPath, v.ScriptPath,
		v.DurationSeconds, time.Now().UTC(), v.ID)
	return err
}

func (r *VideoRepository) SetPlatformResult(ctx context.Context, id, platform, platformID, url string, publishedAt time.Time) error {
	// Column names are derived from a fixed whitelist, never from user input.
	switch platform {
	case model.PlatformYouTube, model.PlatformTikTok, model.PlatformInstagram:
	default:
		return fmt.Errorf("unknown platform %q", platform)
	}
	q := fmt.Sprintf(`UPDATE videos SET %s_id=$1, %s_url=$2, %s_published_at=$3, updated_at=$4 WHERE id=$5`,
		platform, platform, platform)
	_, err := r.db.ExecContext(ctx, q, platformID, url, publishedAt, time.Now().UTC(), id)
	return err
}

func (r *VideoRepository) ClearLocalPaths(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET project_dir=NULL, video_path=NULL, thumbnail_path=NULL, script_path=NULL, updated_at=$1 WHERE id=$2`,
		time.Now().UTC(), id)
	return err
}

func (r *VideoRepository) LastScheduledFor(ctx context.Context, seriesID string) (*time.Time, error) {
	row := r.db.QueryRowContext(ctx, `SELECT MAX(scheduled_for) FROM videos WHERE series_id=$1 AND scheduled_for IS NOT NULL`, seriesID)
	var last sql.NullTime
	if err := row.Scan(&last); err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time.UTC()
	return &t, nil
}

func (r *VideoRepository) ExistsForSlot(ctx context.Context, seriesID string, slot time.Time) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT 1 FROM videos WHERE series_id=$1 AND scheduled_for=$2 AND status <> 'failed' LIMIT 1`,
		seriesID, slot)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func scanVideo(row rowScanner) (*model.Video, error) {
	v := &model.Video{}
	var topic, title, desc, projectDir, videoPath, thumbPath, scriptPath, stage sql.NullString
	var duration sql.NullFloat64
	var errMsg, ytID, ytURL, ttID, ttURL, igID, igURL sql.NullString
	var ytAt, ttAt, igAt, scheduledFor sql.NullTime
	err := row.Scan(&v.ID, &v.SeriesID, &topic, &title, &desc, pq.Array(&v.Tags),
		&projectDir, &videoPath, &thumbPath, &scriptPath,
		&duration, &v.Status, &v.Progress, &stage, &errMsg,
		&ytID, &ytURL, &ytAt,
		&ttID, &ttURL, &ttAt,
		&igID, &igURL, &igAt,
		&scheduledFor, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Topic = topic.String
	v.Title = title.String
	v.Description = desc.String
	v.ProjectDir = projectDir.String
	v.VideoPath = videoPath.String
	v.ThumbnailPath = thumbPath.String
	v.ScriptPath = scriptPath.String
	v.CurrentStage = stage.String
	v.DurationSeconds = duration.Float64
	if errMsg.Valid {
		v.ErrorMessage = &errMsg.String
	}
	assignStr := func(dst **string, src sql.NullString) {
		if src.Valid {
			s := src.String
			*dst = &s
		}
	}
	assignTime := func(dst **time.Time, src sql.NullTime) {
		if src.Valid {
			t := src.Time.UTC()
			*dst = &t
		}
	}
	assignStr(&v.YouTubeID, ytID)
	assignStr(&v.YouTubeURL, ytURL)
	assignTime(&v.YouTubePublishedAt, ytAt)
	assignStr(&v.TikTokID, ttID)
	assignStr(&v.TikTokURL, ttURL)
	assignTime(&v.TikTokPublishedAt, ttAt)
	assignStr(&v.InstagramID, igID)
	assignStr(&v.InstagramURL, igURL)
	assignTime(&v.InstagramPublishedAt, igAt)
	assignTime(&v.ScheduledFor, scheduledFor)
	return v, nil
}
