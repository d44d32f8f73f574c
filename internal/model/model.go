// Package model holds the shared data types for the SnapBoard feed:
// posts, comments, like relations and user accounts.
package model

import "time"

// Post is a single feed entry. The server owns every field except IsLiked,
// which is derived per viewer from the like relation and never stored.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url,omitempty"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	LikeCount  int       `json:"like_count"`
	IsLiked    bool      `json:"is_liked"`
}

// Comment belongs to exactly one post and is ordered by creation time ascending.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserProfile string    `json:"user_profile,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Like is an existence-only relation keyed by (post, user). Its presence is
// the source of truth for Post.IsLiked; Post.LikeCount is a server-maintained
// counter mutated only together with this relation.
type Like struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an account record. Verified gates sign-in: accounts that never
// followed their verification link cannot log in.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePostRequest is the request body for creating a new post.
// The author is taken from the session, not from the body.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,max=30"`
	Content  string `json:"content" binding:"required,max=500"`
	ImageURL string `json:"image_url,omitempty"`
}

// CreateCommentRequest is the request body for adding a comment to a post.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=300"`
}

// AuthResponse is the shared shape of signup/login results: a success flag,
// a user-facing localized message and, on success, the user handle.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
