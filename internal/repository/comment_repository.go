package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"threadhub/pkg/database"
	"threadhub/pkg/logger"
	"threadhub/pkg/models"
)

// CommentRepository handles comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListRoots(ctx context.Context, postID, viewerID string, limit, offset int) ([]models.Comment, error)
	CountRoots(ctx context.Context, postID string) (int, error)
	ListReplies(ctx context.Context, postID, parentID, viewerID string, limit, offset int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error
	DeleteTree(ctx context.Context, id string) (int, error)
	ToggleLike(ctx context.Context, commentID, userID string) (liked bool, likesCount int, err error)

	// Transaction support
	WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a comment repository over any supported driver
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id, c.post_id, c.parent_id, c.content,
	c.author_id, c.author_name, c.author_avatar, c.author_verified, c.author_role,
	c.likes_count, c.replies_count, c.created_at, c.edited_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(row rowScanner, withLiked bool) (models.Comment, error) {
	var (
		c        models.Comment
		parentID sql.NullString
		editedAt sql.NullTime
	)
	dest := []interface{}{
		&c.ID, &c.PostID, &parentID, &c.Content,
		&c.Author.ID, &c.Author.Name, &c.Author.Avatar, &c.Author.Verified, &c.Author.Role,
		&c.LikesCount, &c.RepliesCount, &c.CreatedAt, &editedAt,
	}
	if withLiked {
		dest = append(dest, &c.UserLiked)
	}
	if err := row.Scan(dest...); err != nil {
		return models.Comment{}, err
	}
	c.ParentID = parentID.String
	if editedAt.Valid {
		t := editedAt.Time
		c.EditedAt = &t
		c.IsEdited = true
	}
	c.Replies = []models.Comment{}
	return c, nil
}

// Create inserts a comment and, for replies, bumps the parent's replies_count
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = generateUUID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var parentID interface{}
		if comment.ParentID != "" {
			parentID = comment.ParentID
			res, err := tx.ExecContext(ctx, r.db.Rebind(
				`UPDATE comments SET replies_count = replies_count + 1 WHERE id = ? AND post_id = ?`),
				comment.ParentID, comment.PostID)
			if err != nil {
				return r.mapDBError(err, "increment_replies_count")
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("parent %s: %w", comment.ParentID, models.ErrNotFound)
			}
		}

		_, err := tx.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO comments (
				id, post_id, parent_id, content,
				author_id, author_name, author_avatar, author_verified, author_role,
				likes_count, replies_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)`),
			comment.ID, comment.PostID, parentID, comment.Content,
			comment.Author.ID, comment.Author.Name, comment.Author.Avatar, comment.Author.Verified, comment.Author.Role,
			comment.CreatedAt,
		)
		if err != nil {
			return r.mapDBError(err, "create_comment")
		}
		return nil
	})
}

// GetByID retrieves a comment by ID
func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+commentColumns+` FROM comments c WHERE c.id = ?`), id)
	c, err := scanComment(row, false)
	if err != nil {
		return nil, r.mapDBError(err, "get_comment_by_id")
	}
	return &c, nil
}

// ListRoots returns top-level comments of a post, newest first
func (r *commentRepository) ListRoots(ctx context.Context, postID, viewerID string, limit, offset int) ([]models.Comment, error) {
	return r.list(ctx, "list_roots", `
		SELECT `+commentColumns+`, l.user_id IS NOT NULL
		FROM comments c
		LEFT JOIN comment_likes l ON l.comment_id = c.id AND l.user_id = ?
		WHERE c.post_id = ? AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ? OFFSET ?`,
		viewerID, postID, limit, offset)
}

// CountRoots counts top-level comments of a post
func (r *commentRepository) CountRoots(ctx context.Context, postID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM comments WHERE post_id = ? AND parent_id IS NULL`), postID).Scan(&total)
	if err != nil {
		return 0, r.mapDBError(err, "count_roots")
	}
	return total, nil
}

// ListReplies returns the direct replies of parentID, oldest first
func (r *commentRepository) ListReplies(ctx context.Context, postID, parentID, viewerID string, limit, offset int) ([]models.Comment, error) {
	return r.list(ctx, "list_replies", `
		SELECT `+commentColumns+`, l.user_id IS NOT NULL
		FROM comments c
		LEFT JOIN comment_likes l ON l.comment_id = c.id AND l.user_id = ?
		WHERE c.post_id = ? AND c.parent_id = ?
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT ? OFFSET ?`,
		viewerID, postID, parentID, limit, offset)
}

func (r *commentRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Comment, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, r.mapDBError(err, op)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows, true)
		if err != nil {
			return nil, r.mapDBError(err, "scan_comment")
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapDBError(err, op)
	}
	logger.SQL(op, int64(len(comments)), int(time.Since(start).Milliseconds()))
	return comments, nil
}

// UpdateContent replaces the content and stamps edited_at
func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE comments SET content = ?, edited_at = ? WHERE id = ?`), content, editedAt, id)
	if err != nil {
		return r.mapDBError(err, "update_comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.mapDBError(sql.ErrNoRows, "update_comment")
	}
	return nil
}

// DeleteTree removes a comment with all of its descendants and their likes.
// A deleted reply takes one off its parent's replies_count. It returns the
// number of comments removed.
func (r *commentRepository) DeleteTree(ctx context.Context, id string) (int, error) {
	removed := 0
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var parentID sql.NullString
		err := tx.QueryRowContext(ctx, r.db.Rebind(`SELECT parent_id FROM comments WHERE id = ?`), id).Scan(&parentID)
		if err != nil {
			return r.mapDBError(err, "delete_comment")
		}

		ids, err := r.collectSubtree(ctx, tx, id)
		if err != nil {
			return err
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]interface{}, len(ids))
		for i, v := range ids {
			args[i] = v
		}

		if _, err := tx.ExecContext(ctx, r.db.Rebind(
			`DELETE FROM comment_likes WHERE comment_id IN (`+placeholders+`)`), args...); err != nil {
			return r.mapDBError(err, "delete_comment_likes")
		}
		res, err := tx.ExecContext(ctx, r.db.Rebind(
			`DELETE FROM comments WHERE id IN (`+placeholders+`)`), args...)
		if err != nil {
			return r.mapDBError(err, "delete_comment")
		}
		n, _ := res.RowsAffected()
		removed = int(n)

		if parentID.Valid {
			_, err := tx.ExecContext(ctx, r.db.Rebind(`
				UPDATE comments
				SET replies_count = CASE WHEN replies_count > 0 THEN replies_count - 1 ELSE 0 END
				WHERE id = ?`), parentID.String)
			if err != nil {
				return r.mapDBError(err, "decrement_replies_count")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// collectSubtree walks down from id level by level
func (r *commentRepository) collectSubtree(ctx context.Context, tx *sql.Tx, id string) ([]string, error) {
	all := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(frontier)), ",")
		args := make([]interface{}, len(frontier))
		for i, v := range frontier {
			args[i] = v
		}
		rows, err := tx.QueryContext(ctx, r.db.Rebind(
			`SELECT id FROM comments WHERE parent_id IN (`+placeholders+`)`), args...)
		if err != nil {
			return nil, r.mapDBError(err, "collect_subtree")
		}
		var next []string
		for rows.Next() {
			var child string
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return nil, r.mapDBError(err, "collect_subtree")
			}
			next = append(next, child)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, r.mapDBError(err, "collect_subtree")
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// ToggleLike likes the comment for userID, or removes an existing like
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID string) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, r.db.Rebind(`SELECT likes_count FROM comments WHERE id = ?`), commentID).Scan(&count); err != nil {
			return r.mapDBError(err, "like_comment")
		}

		res, err := tx.ExecContext(ctx, r.db.Rebind(
			`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`), commentID, userID)
		if err != nil {
			return r.mapDBError(err, "unlike_comment")
		}
		delta := -1
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx, r.db.Rebind(
				`INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES (?, ?, ?)`),
				commentID, userID, time.Now().UTC()); err != nil {
				return r.mapDBError(err, "like_comment")
			}
			delta = 1
			liked = true
		}

		if _, err := tx.ExecContext(ctx, r.db.Rebind(`
			UPDATE comments
			SET likes_count = CASE WHEN likes_count + ? < 0 THEN 0 ELSE likes_count + ? END
			WHERE id = ?`), delta, delta, commentID); err != nil {
			return r.mapDBError(err, "update_comment_likes")
		}
		count += delta
		if count < 0 {
			count = 0
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// WithTransaction executes a function within a database transaction
func (r *commentRepository) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.mapDBError(err, "begin_transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return r.mapDBError(err, "commit_transaction")
	}
	return nil
}

// mapDBError maps database errors to application errors
func (r *commentRepository) mapDBError(err error, operation string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", operation, models.ErrNotFound)
	}

	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}

	switch code {
	case "23503": // foreign_key_violation
		return fmt.Errorf("%s: invalid parent reference: %w", operation, models.ErrInvalidInput)
	case "23505": // unique_violation
		return fmt.Errorf("%s: duplicate comment: %w", operation, models.ErrInvalidInput)
	case "22001": // string_data_right_truncation
		return fmt.Errorf("%s: %w", operation, models.ErrContentTooLong)
	}

	return fmt.Errorf("database error during %s: %w", operation, err)
}
