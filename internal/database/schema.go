package database

import (
	"context"
	"fmt"
)

// schema is applied on startup. Like relations intentionally have no cascade
// from posts: deleting a post leaves its like rows behind (see the likes
// reconciliation in the gateway package).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		nickname    TEXT NOT NULL,
		photo_url   TEXT NOT NULL DEFAULT '',
		verified    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL,
		image_url   TEXT NOT NULL DEFAULT '',
		author_id   TEXT NOT NULL,
		author_name TEXT NOT NULL,
		like_count  INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS likes (
		post_id     TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id           TEXT PRIMARY KEY,
		post_id      TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		user_name    TEXT NOT NULL,
		user_profile TEXT NOT NULL DEFAULT '',
		content      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments (post_id, created_at ASC)`,
}

// Migrate creates the application tables if they do not exist yet.
func Migrate(ctx context.Context, db Service) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
