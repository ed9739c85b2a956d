package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
)

const seriesColumns = `id, user_id, name, description, niche, niche_format, visual_style, voice_id, caption_style,
	video_duration, posting_times, timezone, platforms, status, videos_generated, videos_published,
	last_video_at, next_video_at, created_at, updated_at`

// SeriesRepository implements series persistence on PostgreSQL.
type SeriesRepository struct {
	db *sql.DB
}

func NewSeriesRepository(db *sql.DB) repository.ISeries { return &SeriesRepository{db: db} }

func (r *SeriesRepository) Create(ctx context.Context, s *model.Series) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO series
		(id, user_id, name, description, niche, niche_format, visual_style, voice_id, caption_style,
		 video_duration, posting_times, timezone, platforms, status, videos_generated, videos_published, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		s.ID, s.UserID, s.Name, s.Description, s.Niche, s.NicheFormat, s.VisualStyle, s.VoiceID, s.CaptionStyle,
		s.VideoDuration, pq.Array(s.PostingTimes), s.Timezone, pq.Array(s.Platforms), s.Status,
		s.VideosGenerated, s.VideosPublished, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SeriesRepository) GetByID(ctx context.Context, id string) (*model.Series, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id=$1`, id)
	s, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *SeriesRepository) ListByUser(ctx context.Context, userID string) ([]*model.Series, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE user_id=$1 AND status <> 'deleted' ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeries(rows)
}

func (r *SeriesRepository) ListActive(ctx context.Context) ([]*model.Series, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE status='active' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeries(rows)
}

func (r *SeriesRepository) Update(ctx context.Context, s *model.Series) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE series SET
		name=$1, description=$2, niche=$3, niche_format=$4, visual_style=$5, voice_id=$6, caption_style=$7,
		video_duration=$8, posting_times=$9, timezone=$10, platforms=$11, status=$12, updated_at=$13
		WHERE id=$14`,
		s.Name, s.Description, s.Niche, s.NicheFormat, s.VisualStyle, s.VoiceID, s.CaptionStyle,
		s.VideoDuration, pq.Array(s.PostingTimes), s.Timezone, pq.Array(s.Platforms), s.Status, s.UpdatedAt, s.ID)
	return err
}

func (r *SeriesRepository) AdvanceSchedule(ctx context.Context, id string, lastVideoAt, nextVideoAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE series SET
		last_video_at=$1, next_video_at=$2, videos_generated=videos_generated+1, updated_at=$3 WHERE id=$4`,
		lastVideoAt, nextVideoAt, time.Now().UTC(), id)
	return err
}

func (r *SeriesRepository) IncrementPublished(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE series SET videos_published=videos_published+1, updated_at=$1 WHERE id=$2`,
		time.Now().UTC(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeries(row rowScanner) (*model.Series, error) {
	s := &model.Series{}
	var desc, niche, nicheFormat, visualStyle, voiceID, captionStyle sql.NullString
	var lastVideoAt, nextVideoAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &desc, &niche, &nicheFormat, &visualStyle, &voiceID, &captionStyle,
		&s.VideoDuration, pq.Array(&s.PostingTimes), &s.Timezone, pq.Array(&s.Platforms), &s.Status,
		&s.VideosGenerated, &s.VideosPublished, &lastVideoAt, &nextVideoAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Description = desc.String
	s.Niche = niche.String
	s.NicheFormat = nicheFormat.String
	s.VisualStyle = visualStyle.String
	s.VoiceID = voiceID.String
	s.CaptionStyle = captionStyle.String
	if lastVideoAt.Valid {
		t := lastVideoAt.Time
		s.LastVideoAt = &t
	}
	if nextVideoAt.Valid {
		t := nextVideoAt.Time
		s.NextVideoAt = &t
	}
	return s, nil
}

func collectSeries(rows *sql.Rows) ([]*model.Series, error) {
	var list []*model.Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
