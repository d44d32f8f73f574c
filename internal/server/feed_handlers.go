package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeongUpGi/SnapBoard/internal/feed"
	"github.com/JeongUpGi/SnapBoard/internal/model"
)

type sseEvent struct {
	name    string
	payload any
}

// streamPostsHandler handles GET /feed/stream. Each connection runs its own
// feed synchronizer: "posts" events carry the merged snapshot (like status
// resolved for the session's viewer, false without one) and "comments" events
// carry per-post comment snapshots for every visible post.
func (s *Server) streamPostsHandler(c *gin.Context) {
	viewerID := ""
	if sess, ok := GetSession(c); ok {
		viewerID = sess.UserID
	}

	events := make(chan sseEvent, 16)
	push := func(ev sseEvent) {
		// Dropped events are superseded by the next snapshot; never block
		// the notifier on a slow client.
		select {
		case events <- ev:
		default:
			slog.Debug("Dropped stream event for slow client", "event", ev.name)
		}
	}

	synchronizer := feed.NewSynchronizer(s.gateway, feed.Options{
		ViewerID: viewerID,
		OnPosts: func(posts []model.Post) {
			push(sseEvent{name: "posts", payload: posts})
		},
		OnComments: func(postID string, comments []model.Comment) {
			push(sseEvent{name: "comments", payload: gin.H{
				"post_id":  postID,
				"comments": comments,
			}})
		},
		OnError: func(err error) {
			slog.Warn("Feed stream subscription error", "error", err)
		},
	})
	if err := synchronizer.Start(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to subscribe to posts",
		})
		return
	}
	defer synchronizer.Stop()

	setSSEHeaders(c)
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent(ev.name, ev.payload)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// streamCommentsHandler handles GET /posts/:post_id/comments/stream, a
// standalone snapshot stream for one post's comments.
func (s *Server) streamCommentsHandler(c *gin.Context) {
	events := make(chan []model.Comment, 1)
	unsub, err := s.gateway.CommentsSubscription(c.Request.Context(), c.Param("post_id"), func(comments []model.Comment) {
		pushLatest(events, comments)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to subscribe to comments",
		})
		return
	}
	defer unsub()

	setSSEHeaders(c)
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot := <-events:
			c.SSEvent("comments", snapshot)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// pushLatest delivers a snapshot to a capacity-1 channel, replacing any
// undelivered older one. Safe because the subscription delivers serially.
func pushLatest[T any](ch chan T, snapshot T) {
	select {
	case ch <- snapshot:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// The server-wide WriteTimeout sets one deadline per request; the first
	// snapshot written past it would sever the stream.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		slog.Warn("Failed to clear stream write deadline", "error", err)
	}
}
