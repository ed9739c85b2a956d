package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchema creates the core tables when they are missing. Safe to call at
// startup; every statement is idempotent.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			user_name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			plan TEXT NOT NULL DEFAULT 'free',
			series_purchased INTEGER NOT NULL DEFAULT 0,
			videos_generated_this_month INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS series (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			description TEXT,
			niche TEXT,
			niche_format TEXT,
			visual_style TEXT,
			voice_id TEXT,
			caption_style TEXT,
			video_duration INTEGER NOT NULL DEFAULT 45,
			posting_times TEXT[] NOT NULL DEFAULT '{}',
			timezone TEXT NOT NULL DEFAULT 'UTC',
			platforms TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'active',
			videos_generated INTEGER NOT NULL DEFAULT 0,
			videos_published INTEGER NOT NULL DEFAULT 0,
			last_video_at TIMESTAMPTZ,
			next_video_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			series_id TEXT NOT NULL REFERENCES series(id),
			topic TEXT,
			title TEXT,
			description TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			project_dir TEXT,
			video_path TEXT,
			thumbnail_path TEXT,
			script_path TEXT,
			duration_seconds DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'pending',
			progress INTEGER NOT NULL DEFAULT 0,
			current_stage TEXT,
			error_message TEXT,
			youtube_id TEXT,
			youtube_url TEXT,
			youtube_published_at TIMESTAMPTZ,
			tiktok_id TEXT,
			tiktok_url TEXT,
			tiktok_published_at TIMESTAMPTZ,
			instagram_id TEXT,
			instagram_url TEXT,
			instagram_published_at TIMESTAMPTZ,
			scheduled_for TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS platform_connections (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			platform TEXT NOT NULL,
			platform_user_id TEXT,
			platform_username TEXT,
			channel_id TEXT,
			channel_name TEXT,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			token_type TEXT NOT NULL DEFAULT 'Bearer',
			scope TEXT,
			access_token_expires_at TIMESTAMPTZ,
			refresh_token_expires_at TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'active',
			last_used_at TIMESTAMPTZ,
			last_error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, platform)
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL REFERENCES videos(id),
			job_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			stage TEXT,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_status ON series (status)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_series_scheduled ON videos (series_id, scheduled_for)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_video ON jobs (video_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
