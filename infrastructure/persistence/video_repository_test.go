package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"reelpilot/domain/model"
)

func TestVideoRepository_SetPlatformResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)
	publishedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET tiktok_id=$1, tiktok_url=$2, tiktok_published_at=$3, updated_at=$4 WHERE id=$5`)).
		WithArgs("tt-1", "https://tiktok.com/@u/video/tt-1", publishedAt, sqlmock.AnyArg(), "video-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetPlatformResult(context.Background(), "video-1", model.PlatformTikTok, "tt-1", "https://tiktok.com/@u/video/tt-1", publishedAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_SetPlatformResult_UnknownPlatform(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	err = repo.SetPlatformResult(context.Background(), "video-1", "myspace", "x", "y", time.Now())
	require.Error(t, err)
}

func TestVideoRepository_LastScheduledFor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)
	last := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(scheduled_for) FROM videos`)).
		WithArgs("series-1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(last))

	got, err := repo.LastScheduledFor(context.Background(), "series-1")

	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, last, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_LastScheduledFor_NoneYet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(scheduled_for) FROM videos`)).
		WithArgs("series-1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	got, err := repo.LastScheduledFor(context.Background(), "series-1")

	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_ExistsForSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)
	slot := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM videos WHERE series_id=$1 AND scheduled_for=$2 AND status <> 'failed' LIMIT 1`)).
		WithArgs("series-1", slot).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsForSlot(context.Background(), "series-1", slot)

	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM videos WHERE series_id=$1 AND scheduled_for=$2 AND status <> 'failed' LIMIT 1`)).
		WithArgs("series-1", slot).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsForSlot(context.Background(), "series-1", slot)

	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_MarkReady(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)
	v := &model.Video{
		ID:              "video-1",
		Topic:           "Ancient Rome",
		Title:           "Rome in 60 seconds",
		Description:     "A quick history",
		Tags:            []string{"history", "rome"},
		ProjectDir:      "/tmp/projects/video-1",
		VideoPath:       "/tmp/projects/video-1/final_video.mp4",
		ThumbnailPath:   "/tmp/projects/video-1/thumbnail.jpg",
		ScriptPath:      "/tmp/projects/video-1/script.json",
		DurationSeconds: 58.2,
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET`)).
		WithArgs(v.Topic, v.Title, v.Description, sqlmock.AnyArg(),
			v.ProjectDir, v.VideoPath, v.ThumbnailPath, v.ScriptPath,
			v.DurationSeconds, sqlmock.AnyArg(), v.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkReady(context.Background(), v))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_ClearLocalPaths(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET project_dir=NULL, video_path=NULL, thumbnail_path=NULL, script_path=NULL`)).
		WithArgs(sqlmock.AnyArg(), "video-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearLocalPaths(context.Background(), "video-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
