package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

// CreatePost inserts a new post document and signals the posts collection.
func (s *service) CreatePost(ctx context.Context, authorID, authorName, title, content, imageURL string) (*model.Post, error) {
	if authorID == "" || title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	post := &model.Post{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    content,
		ImageURL:   imageURL,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  time.Now(),
	}

	const q = `
		INSERT INTO posts (id, title, content, image_url, author_id, author_name, like_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`
	if _, err := s.db.Exec(ctx, q, post.ID, post.Title, post.Content, post.ImageURL,
		post.AuthorID, post.AuthorName, post.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	s.notify(ctx, topicPosts)
	return post, nil
}

// DeletePost removes a post owned by userID. Like relations and comments for
// the post are intentionally left behind.
func (s *service) DeletePost(ctx context.Context, postID, userID string) error {
	var authorID string
	err := s.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	if err != nil {
		return ErrPostNotFound
	}
	if authorID != userID {
		return ErrUnauthorized
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	s.notify(ctx, topicPosts)
	return nil
}

// ListPosts returns the full post collection, newest first.
func (s *service) ListPosts(ctx context.Context) ([]model.Post, error) {
	const q = `
		SELECT id, title, content, image_url, author_id, author_name, like_count, created_at
		FROM posts
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL,
			&p.AuthorID, &p.AuthorName, &p.LikeCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// AddComment inserts a comment and signals the post's comment collection.
func (s *service) AddComment(ctx context.Context, postID, userID, userName, content, userProfile string) (*model.Comment, error) {
	if postID == "" || userID == "" || content == "" {
		return nil, ErrInvalidInput
	}

	c := &model.Comment{
		ID:          uuid.New().String(),
		PostID:      postID,
		UserID:      userID,
		UserName:    userName,
		UserProfile: userProfile,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	const q = `
		INSERT INTO comments (id, post_id, user_id, user_name, user_profile, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.Exec(ctx, q, c.ID, c.PostID, c.UserID, c.UserName, c.UserProfile, c.Content, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	s.notify(ctx, topicComments(postID))
	return c, nil
}

// ListComments returns a post's comments ordered by creation time ascending.
func (s *service) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	const q = `
		SELECT id, post_id, user_id, user_name, user_profile, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName,
			&c.UserProfile, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// AddLikeRelation creates the like relation and, if it did not exist yet,
// increments the post's counter.
func (s *service) AddLikeRelation(ctx context.Context, postID, userID string) error {
	if postID == "" || userID == "" {
		return ErrInvalidInput
	}

	const q = `
		INSERT INTO likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := s.db.Exec(ctx, q, postID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Relation already present, counter already accounts for it.
		return nil
	}

	if _, err := s.db.Exec(ctx, `UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("increment like count: %w", err)
	}

	s.notify(ctx, topicPosts)
	return nil
}

// RemoveLikeRelation deletes the like relation and, if it existed,
// decrements the post's counter.
func (s *service) RemoveLikeRelation(ctx context.Context, postID, userID string) error {
	if postID == "" || userID == "" {
		return ErrInvalidInput
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := s.db.Exec(ctx, `UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("decrement like count: %w", err)
	}

	s.notify(ctx, topicPosts)
	return nil
}

// IsLiked reports whether the (post, user) like relation exists. Query
// failures are returned; callers decide how to degrade.
func (s *service) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`
	var liked bool
	if err := s.db.QueryRow(ctx, q, postID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// ReconcileLikeCounts recomputes every post's counter from its like
// relations and returns the number of posts that were out of sync. Run as a
// maintenance operation; the counter can diverge from the relations when a
// process dies between the two like statements.
func (s *service) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	const q = `
		UPDATE posts p
		SET like_count = l.cnt
		FROM (
			SELECT p2.id, COUNT(likes.user_id) AS cnt
			FROM posts p2
			LEFT JOIN likes ON likes.post_id = p2.id
			GROUP BY p2.id
		) l
		WHERE p.id = l.id AND p.like_count <> l.cnt
	`
	tag, err := s.db.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("reconcile like counts: %w", err)
	}

	if fixed := tag.RowsAffected(); fixed > 0 {
		s.notify(ctx, topicPosts)
		return fixed, nil
	}
	return 0, nil
}

// PropagateProfile rewrites the author name on the user's posts and the
// author name/image on their comments, then signals every affected
// collection.
func (s *service) PropagateProfile(ctx context.Context, userID, userName, userProfile string) error {
	if _, err := s.db.Exec(ctx, `UPDATE posts SET author_name = $1 WHERE author_id = $2`, userName, userID); err != nil {
		return fmt.Errorf("propagate profile to posts: %w", err)
	}
	if _, err := s.db.Exec(ctx,
		`UPDATE comments SET user_name = $1, user_profile = $2 WHERE user_id = $3`,
		userName, userProfile, userID); err != nil {
		return fmt.Errorf("propagate profile to comments: %w", err)
	}

	// Signal the posts collection plus every comment collection the user
	// has written into.
	s.notify(ctx, topicPosts)
	rows, err := s.db.Query(ctx, `SELECT DISTINCT post_id FROM comments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("list commented posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return fmt.Errorf("scan commented post: %w", err)
		}
		s.notify(ctx, topicComments(postID))
	}
	return rows.Err()
}

func (s *service) notify(ctx context.Context, topic string) {
	if err := s.notifier.Publish(ctx, topic); err != nil {
		slog.Warn("Failed to publish change notification", "topic", topic, "error", err)
	}
}
