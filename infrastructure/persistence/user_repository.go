package persistence

import (
	"context"
	"database/sql"
	"time"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
)

const userColumns = `id, email, user_name, password, plan, series_purchased, videos_generated_this_month, created_at, updated_at`

// UserRepository implements user persistence on PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.IUser { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Plan == "" {
		u.Plan = model.TierFree
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, email, user_name, password, plan, series_purchased, videos_generated_this_month, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		u.ID, u.Email, u.UserName, u.Password, u.Plan, u.SeriesPurchased, u.VideosGeneratedThisMonth, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_name=$1`, userName)
	return scanUser(row)
}

func (r *UserRepository) IncrementMonthlyGenerated(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET videos_generated_this_month=videos_generated_this_month+1, updated_at=$1 WHERE id=$2`,
		time.Now().UTC(), id)
	return err
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.Password, &u.Plan, &u.SeriesPurchased, &u.VideosGeneratedThisMonth, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
