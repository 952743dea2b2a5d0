package repository

import (
	"context"
	"fmt"

	"threadhub/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		id              TEXT PRIMARY KEY,
		post_id         TEXT NOT NULL,
		parent_id       TEXT NULL REFERENCES comments(id) ON DELETE CASCADE,
		content         TEXT NOT NULL,
		author_id       TEXT NOT NULL,
		author_name     TEXT NOT NULL DEFAULT '',
		author_avatar   TEXT NOT NULL DEFAULT '',
		author_verified BOOLEAN NOT NULL DEFAULT FALSE,
		author_role     TEXT NOT NULL DEFAULT '',
		likes_count     INTEGER NOT NULL DEFAULT 0,
		replies_count   INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMP NOT NULL,
		edited_at       TIMESTAMP NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_parent
		ON comments (post_id, parent_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS comment_likes (
		comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (comment_id, user_id)
	)`,
}

// Migrate creates the tables the repositories need. It is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
