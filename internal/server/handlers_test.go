package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeongUpGi/SnapBoard/internal/gateway"
	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/session"
)

// Stub gateway recording like mutations and serving canned posts.
type stubGateway struct {
	posts []model.Post
	liked map[string]bool

	likeAdds    []string
	likeRemoves []string

	deletePostErr error
}

func (g *stubGateway) CreatePost(ctx context.Context, authorID, authorName, title, content, imageURL string) (*model.Post, error) {
	p := model.Post{
		ID: "new-post", Title: title, Content: content, ImageURL: imageURL,
		AuthorID: authorID, AuthorName: authorName, CreatedAt: time.Now(),
	}
	g.posts = append([]model.Post{p}, g.posts...)
	return &p, nil
}

func (g *stubGateway) DeletePost(ctx context.Context, postID, userID string) error {
	return g.deletePostErr
}

func (g *stubGateway) ListPosts(ctx context.Context) ([]model.Post, error) {
	out := make([]model.Post, len(g.posts))
	copy(out, g.posts)
	return out, nil
}

func (g *stubGateway) PostsSubscription(ctx context.Context, onChange func([]model.Post)) (func(), error) {
	onChange(g.posts)
	return func() {}, nil
}

func (g *stubGateway) AddComment(ctx context.Context, postID, userID, userName, content, userProfile string) (*model.Comment, error) {
	return &model.Comment{ID: "new-comment", PostID: postID, UserID: userID,
		UserName: userName, UserProfile: userProfile, Content: content, CreatedAt: time.Now()}, nil
}

func (g *stubGateway) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	return []model.Comment{}, nil
}

func (g *stubGateway) CommentsSubscription(ctx context.Context, postID string, onChange func([]model.Comment)) (func(), error) {
	onChange(nil)
	return func() {}, nil
}

func (g *stubGateway) AddLikeRelation(ctx context.Context, postID, userID string) error {
	g.likeAdds = append(g.likeAdds, postID)
	return nil
}

func (g *stubGateway) RemoveLikeRelation(ctx context.Context, postID, userID string) error {
	g.likeRemoves = append(g.likeRemoves, postID)
	return nil
}

func (g *stubGateway) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	return g.liked[postID], nil
}

func (g *stubGateway) ReconcileLikeCounts(ctx context.Context) (int64, error) {
	return 0, nil
}

func (g *stubGateway) PropagateProfile(ctx context.Context, userID, userName, userProfile string) error {
	return nil
}

func (g *stubGateway) Health(ctx context.Context) error { return nil }

func testServer(gw gateway.Service) *Server {
	return &Server{
		gateway: gw,
		sessions: &mockSessionManager{
			getFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
				if sessionID == "good" {
					return validSession(sessionID), nil
				}
				return nil, session.ErrSessionNotFound
			},
		},
	}
}

func TestListPosts_MergesViewerLikeStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{
		posts: []model.Post{
			{ID: "p1", Title: "첫 글", LikeCount: 3},
			{ID: "p2", Title: "둘째 글", LikeCount: 0},
		},
		liked: map[string]bool{"p1": true},
	}
	s := testServer(gw)

	r := gin.New()
	r.GET("/posts", s.OptionalSessionAuth(), s.listPostsHandler)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Success bool         `json:"success"`
		Data    []model.Post `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("got %d posts, want 2", len(body.Data))
	}
	if !body.Data[0].IsLiked {
		t.Error("p1: expected is_liked = true")
	}
	if body.Data[1].IsLiked {
		t.Error("p2: expected is_liked = false")
	}
}

func TestListPosts_UnauthenticatedViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{
		posts: []model.Post{{ID: "p1", LikeCount: 3}},
		liked: map[string]bool{"p1": true},
	}
	s := testServer(gw)

	r := gin.New()
	r.GET("/posts", s.OptionalSessionAuth(), s.listPostsHandler)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Data []model.Post `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data[0].IsLiked {
		t.Error("expected is_liked = false without a session")
	}
}

func TestCreatePost_RequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := testServer(&stubGateway{})
	r := gin.New()
	r.POST("/posts", s.SessionAuth(), s.createPostHandler)

	payload, _ := json.Marshal(model.CreatePostRequest{Title: "제목", Content: "내용"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCreatePost_UsesSessionIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{}
	s := testServer(gw)
	r := gin.New()
	r.POST("/posts", s.SessionAuth(), s.createPostHandler)

	payload, _ := json.Marshal(model.CreatePostRequest{Title: "제목", Content: "내용"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	var body struct {
		Data model.Post `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.AuthorID != "test-user-id" {
		t.Errorf("author_id = %q, want session user", body.Data.AuthorID)
	}
	if body.Data.AuthorName != "테스터" {
		t.Errorf("author_name = %q, want session nickname", body.Data.AuthorName)
	}
}

func TestCreatePost_RejectsOverlongTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := testServer(&stubGateway{})
	r := gin.New()
	r.POST("/posts", s.SessionAuth(), s.createPostHandler)

	long := make([]rune, 31)
	for i := range long {
		long[i] = '글'
	}
	payload, _ := json.Marshal(model.CreatePostRequest{Title: string(long), Content: "내용"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestLikeEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{liked: map[string]bool{}}
	s := testServer(gw)
	r := gin.New()
	authed := r.Group("/posts")
	authed.Use(s.SessionAuth())
	authed.POST("/:post_id/like", s.addLikeHandler)
	authed.DELETE("/:post_id/like", s.removeLikeHandler)

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(http.MethodPost, "/posts/p1/like"); code != http.StatusOK {
		t.Fatalf("POST like status = %d, want %d", code, http.StatusOK)
	}
	if code := do(http.MethodDelete, "/posts/p1/like"); code != http.StatusOK {
		t.Fatalf("DELETE like status = %d, want %d", code, http.StatusOK)
	}

	if len(gw.likeAdds) != 1 || gw.likeAdds[0] != "p1" {
		t.Errorf("like adds = %v, want [p1]", gw.likeAdds)
	}
	if len(gw.likeRemoves) != 1 || gw.likeRemoves[0] != "p1" {
		t.Errorf("like removes = %v, want [p1]", gw.likeRemoves)
	}
}

func TestDeletePost_NotOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{deletePostErr: gateway.ErrUnauthorized}
	s := testServer(gw)
	r := gin.New()
	r.DELETE("/posts/:post_id", s.SessionAuth(), s.deletePostHandler)

	req := httptest.NewRequest(http.MethodDelete, "/posts/p1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
