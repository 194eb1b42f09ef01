package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    timezone TEXT NOT NULL DEFAULT 'UTC',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS categories (
    id SERIAL PRIMARY KEY,
    slug TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    icon TEXT NOT NULL,
    position INTEGER UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS checkins (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id),
    day DATE NOT NULL,
    mood INTEGER CHECK (mood BETWEEN 1 AND 5),
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(user_id, category_id, day)
);

CREATE INDEX IF NOT EXISTS idx_checkins_user_day ON checkins(user_id, day);

CREATE TABLE IF NOT EXISTS streaks (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id),
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_checkin_day DATE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY(user_id, category_id)
);

CREATE TABLE IF NOT EXISTS daily_stats (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    day DATE NOT NULL,
    categories_completed INTEGER NOT NULL,
    average_mood DOUBLE PRECISION,
    completion_rate DOUBLE PRECISION NOT NULL,
    computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY(user_id, day)
);
`
	_, err := db.ExecContext(context.Background(), schema)
	if err != nil {
		return err
	}

	// Seed the six categories; slugs are stable so re-running is a no-op.
	seed := `
INSERT INTO categories (slug, name, color, icon, position) VALUES
    ('physical',  'Physical Health',  '#EF4444', 'dumbbell', 1),
    ('mental',    'Mental Health',    '#8B5CF6', 'brain',    2),
    ('nutrition', 'Nutrition',        '#22C55E', 'apple',    3),
    ('sleep',     'Sleep',            '#3B82F6', 'moon',     4),
    ('social',    'Social',           '#F59E0B', 'users',    5),
    ('growth',    'Personal Growth',  '#EC4899', 'book',     6)
ON CONFLICT (slug) DO NOTHING;`
	_, err = db.ExecContext(context.Background(), seed)
	return err
}
