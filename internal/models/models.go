package models

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Timezone     string    `db:"timezone" json:"timezone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Category is shared, read-only reference data; exactly six rows exist.
type Category struct {
	ID       int    `db:"id" json:"id"`
	Slug     string `db:"slug" json:"slug"`
	Name     string `db:"name" json:"name"`
	Color    string `db:"color" json:"color"`
	Icon     string `db:"icon" json:"icon"`
	Position int    `db:"position" json:"position"`
}

type Checkin struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	CategoryID int       `db:"category_id" json:"category_id"`
	Day        time.Time `db:"day" json:"day"`
	Mood       *int      `db:"mood" json:"mood,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Streak holds one row per (user, category). LastCheckinDay is nil only
// when every check-in for the pair has been deleted.
type Streak struct {
	UserID         int        `db:"user_id" json:"user_id"`
	CategoryID     int        `db:"category_id" json:"category_id"`
	CurrentStreak  int        `db:"current_streak" json:"current_streak"`
	LongestStreak  int        `db:"longest_streak" json:"longest_streak"`
	LastCheckinDay *time.Time `db:"last_checkin_day" json:"last_checkin_day,omitempty"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// StreakRef identifies a (user, category) pair, used by the reconciler.
type StreakRef struct {
	UserID     int `db:"user_id"`
	CategoryID int `db:"category_id"`
}

// DailyStat is a derived projection over Checkin rows; never authoritative.
type DailyStat struct {
	UserID              int       `db:"user_id" json:"user_id"`
	Day                 time.Time `db:"day" json:"day"`
	CategoriesCompleted int       `db:"categories_completed" json:"categories_completed"`
	AverageMood         *float64  `db:"average_mood" json:"average_mood"`
	CompletionRate      float64   `db:"completion_rate" json:"completion_rate"`
	ComputedAt          time.Time `db:"computed_at" json:"computed_at"`
}

// DashboardEntry is one category row of the composed dashboard read-model.
type DashboardEntry struct {
	CategoryID     int    `db:"id" json:"category_id"`
	Slug           string `db:"slug" json:"slug"`
	Name           string `db:"name" json:"name"`
	Color          string `db:"color" json:"color"`
	Icon           string `db:"icon" json:"icon"`
	Position       int    `db:"position" json:"position"`
	CompletedToday bool   `db:"completed_today" json:"completed_today"`
	CurrentStreak  int    `db:"current_streak" json:"current_streak"`
	LongestStreak  int    `db:"longest_streak" json:"longest_streak"`
}
