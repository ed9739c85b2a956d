package persistence

import (
	"context"
	"database/sql"
	"time"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
)

const connColumns = `id, user_id, platform, platform_user_id, platform_username, channel_id, channel_name,
	access_token, refresh_token, token_type, scope, access_token_expires_at, refresh_token_expires_at,
	status, last_used_at, last_error, created_at, updated_at`

// PlatformConnectionRepository implements OAuth connection persistence on
// PostgreSQL.
type PlatformConnectionRepository struct {
	db *sql.DB
}

func NewPlatformConnectionRepository(db *sql.DB) repository.IPlatformConnection {
	return &PlatformConnectionRepository{db: db}
}

func (r *PlatformConnectionRepository) Upsert(ctx context.Context, c *model.PlatformConnection) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = model.ConnectionStatusActive
	}
	q := `INSERT INTO platform_connections
		(id, user_id, platform, platform_user_id, platform_username, channel_id, channel_name,
		 access_token, refresh_token, token_type, scope, access_token_expires_at, refresh_token_expires_at,
		 status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			platform_user_id=EXCLUDED.platform_user_id,
			platform_username=EXCLUDED.platform_username,
			channel_id=EXCLUDED.channel_id,
			channel_name=EXCLUDED.channel_name,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			token_type=EXCLUDED.token_type,
			scope=EXCLUDED.scope,
			access_token_expires_at=EXCLUDED.access_token_expires_at,
			refresh_token_expires_at=EXCLUDED.refresh_token_expires_at,
			status=EXCLUDED.status,
			last_error=NULL,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.UserID, c.Platform, c.PlatformUserID, c.PlatformUsername,
		c.ChannelID, c.ChannelName, c.AccessToken, c.RefreshToken, c.TokenType, c.Scope,
		c.AccessTokenExpiresAt, c.RefreshTokenExpiresAt, c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PlatformConnectionRepository) GetActive(ctx context.Context, userID, platform string) (*model.PlatformConnection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+connColumns+` FROM platform_connections WHERE user_id=$1 AND platform=$2 AND status='active'`,
		userID, platform)
	c, err := scanConnection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *PlatformConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*model.PlatformConnection, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+connColumns+` FROM platform_connections WHERE user_id=$1 ORDER BY platform ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.PlatformConnection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PlatformConnectionRepository) UpdateTokens(ctx context.Context, c *model.PlatformConnection) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE platform_connections SET
		access_token=$1, refresh_token=$2, access_token_expires_at=$3, refresh_token_expires_at=$4, status='active', last_error=NULL, updated_at=$5
		WHERE id=$6`,
		c.AccessToken, c.RefreshToken, c.AccessTokenExpiresAt, c.RefreshTokenExpiresAt, c.UpdatedAt, c.ID)
	return err
}

func (r *PlatformConnectionRepository) MarkStatus(ctx context.Context, id, status string, lastError *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE platform_connections SET status=$1, last_error=$2, updated_at=$3 WHERE id=$4`,
		status, lastError, time.Now().UTC(), id)
	return err
}

func (r *PlatformConnectionRepository) TouchLastUsed(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE platform_connections SET last_used_at=$1, updated_at=$1 WHERE id=$2`, now, id)
	return err
}

func scanConnection(row rowScanner) (*model.PlatformConnection, error) {
	c := &model.PlatformConnection{}
	var platformUserID, platformUsername, channelID, channelName, refreshToken, scope, lastError sql.NullString
	var accessExp, refreshExp, lastUsed sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.Platform, &platformUserID, &platformUsername, &channelID, &channelName,
		&c.AccessToken, &refreshToken, &c.TokenType, &scope, &accessExp, &refreshExp,
		&c.Status, &lastUsed, &lastError, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if platformUserID.Valid {
		c.PlatformUserID = &platformUserID.String
	}
	if platformUsername.Valid {
		c.PlatformUsername = &platformUsername.String
	}
	if channelID.Valid {
		c.ChannelID = &channelID.String
	}
	if channelName.Valid {
		c.ChannelName = &channelName.String
	}
	if refreshToken.Valid {
		c.RefreshToken = &refreshToken.String
	}
	if scope.Valid {
		c.Scope = &scope.String
	}
	if lastError.Valid {
		c.LastError = &lastError.String
	}
	if accessExp.Valid {
		t := accessExp.Time.UTC()
		c.AccessTokenExpiresAt = &t
	}
	if refreshExp.Valid {
		t := refreshExp.Time.UTC()
		c.RefreshTokenExpiresAt = &t
	}
	if lastUsed.Valid {
		t := lastUsed.Time.UTC()
		c.LastUsedAt = &t
	}
	return c, nil
}
