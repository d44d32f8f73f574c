// Package client is the Go client for the SnapBoard API. It implements the
// feed gateway over REST and SSE, so a feed synchronizer can run against a
// remote server exactly as it does against the in-process gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

// Client talks to a SnapBoard server. The session cookie from Login is kept
// in the jar, so subsequent calls are authenticated automatically.
type Client struct {
	baseURL string
	http    *http.Client

	mu          sync.Mutex
	streamLikes map[string]bool // post ID -> merged like status from the open feed stream
}

// New creates a client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		// No global timeout: SSE streams stay open indefinitely. Callers
		// bound individual requests with their context.
		http: &http.Client{Jar: jar},
	}, nil
}

// Login signs in and stores the session cookie for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp model.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("login failed: %s", resp.Message)
	}
	return resp.User, nil
}

// SignUp registers a new account. The account stays unusable until the
// emailed verification link is followed.
func (c *Client) SignUp(ctx context.Context, email, password, nickname string) (*model.User, error) {
	var resp model.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": password,
		"nickname":         nickname,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("signup failed: %s", resp.Message)
	}
	return resp.User, nil
}

// Logout invalidates the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the account behind the current session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ListPosts fetches the current post snapshot, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var resp struct {
		Data []model.Post `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, title, content, imageURL string) (*model.Post, error) {
	var resp struct {
		Data *model.Post `json:"data"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/posts", model.CreatePostRequest{
		Title: title, Content: content, ImageURL: imageURL,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeletePost removes one of the caller's posts.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+postID, nil, nil)
}

// AddComment comments on a post.
func (c *Client) AddComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	var resp struct {
		Data *model.Comment `json:"data"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/comments",
		model.CreateCommentRequest{Content: content}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListComments fetches a post's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var resp struct {
		Data []model.Comment `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+postID+"/comments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddLikeRelation likes a post as the signed-in user.
func (c *Client) AddLikeRelation(ctx context.Context, postID, userID string) error {
	return c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/like", nil, nil)
}

// RemoveLikeRelation removes the signed-in user's like from a post.
func (c *Client) RemoveLikeRelation(ctx context.Context, postID, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+postID+"/like", nil, nil)
}

// IsLiked reports whether the signed-in user liked the post. While the feed
// stream is open its snapshots already carry the merged status, so posts in
// the last snapshot are answered without a round trip.
func (c *Client) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	c.mu.Lock()
	liked, ok := c.streamLikes[postID]
	c.mu.Unlock()
	if ok {
		return liked, nil
	}

	var resp struct {
		IsLiked bool `json:"is_liked"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+postID+"/like", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsLiked, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr model.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
