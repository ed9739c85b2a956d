package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// User is an account owner. Plan drives posting cadence and monthly quota.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	UserName string   `json:"user_name"`
	Password string   `json:"-"`
	Plan     PlanTier `json:"plan"`

	SeriesPurchased          int `json:"series_purchased"`
	VideosGeneratedThisMonth int `json:"videos_generated_this_month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthlyVideoLimit returns how many videos the plan allows per month across all
// purchased series.
func (u *User) MonthlyVideoLimit() int {
	series := u.SeriesPurchased
	if series < 1 {
		series = 1
	}
	switch u.Plan {
	case TierLaunch:
		return 12 * series // 3x/week each
	case TierGrow:
		return 30 * series // daily each
	case TierScale:
		return 60 * series // 2x/day each
	default:
		return 0
	}
}

// CanGenerateVideo reports whether the user is under the monthly quota.
func (u *User) CanGenerateVideo() bool {
	return u.VideosGeneratedThisMonth < u.MonthlyVideoLimit()
}

type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}

type ReqLogin struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type ReqRegister struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}
