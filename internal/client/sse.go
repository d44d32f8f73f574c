package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

// How long to wait before re-dialing a dropped stream.
const reconnectDelay = 500 * time.Millisecond

// PostsSubscription opens the server's post snapshot stream. onChange runs
// for the initial snapshot and every subsequent one; a dropped connection is
// re-dialed until the returned cancel function is called. The stream carries
// the session viewer's merged like status, which IsLiked answers from while
// the subscription is open.
func (c *Client) PostsSubscription(ctx context.Context, onChange func([]model.Post)) (func(), error) {
	unsub, err := subscribeSSE(ctx, c, "/feed/stream", "posts", func(posts []model.Post) {
		c.rememberStreamLikes(posts)
		onChange(posts)
	})
	if err != nil {
		return nil, err
	}
	return func() {
		unsub()
		c.mu.Lock()
		c.streamLikes = nil
		c.mu.Unlock()
	}, nil
}

// CommentsSubscription opens the comment snapshot stream for one post.
func (c *Client) CommentsSubscription(ctx context.Context, postID string, onChange func([]model.Comment)) (func(), error) {
	return subscribeSSE(ctx, c, "/posts/"+postID+"/comments/stream", "comments", onChange)
}

func (c *Client) rememberStreamLikes(posts []model.Post) {
	likes := make(map[string]bool, len(posts))
	for _, p := range posts {
		likes[p.ID] = p.IsLiked
	}
	c.mu.Lock()
	c.streamLikes = likes
	c.mu.Unlock()
}

// subscribeSSE dials the stream and keeps it alive: when the server or the
// network drops the connection, it re-dials after a short delay so the feed
// cannot go silently stale. The initial dial still fails fast.
func subscribeSSE[T any](ctx context.Context, c *Client, path, event string, onChange func(T)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	body, err := c.openStream(ctx, path)
	if err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if body != nil {
				readSSE(body, event, onChange)
				body.Close()
				body = nil
			}
			if ctx.Err() != nil {
				return
			}
			slog.Warn("Stream disconnected, reconnecting", "path", path)

			select {
			case <-time.After(reconnectDelay):
			case <-ctx.Done():
				return
			}
			b, err := c.openStream(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("Stream reconnect failed", "path", path, "error", err)
				continue
			}
			body = b
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func (c *Client) openStream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("open stream %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// readSSE consumes a text/event-stream body, decoding the data of every
// matching event. Returns when the stream ends.
func readSSE[T any](body io.Reader, event string, onChange func(T)) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var currentEvent string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			currentEvent = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if currentEvent == event && data.Len() > 0 {
				var snapshot T
				if err := json.Unmarshal([]byte(data.String()), &snapshot); err != nil {
					slog.Warn("Failed to decode stream event", "event", event, "error", err)
				} else {
					onChange(snapshot)
				}
			}
			currentEvent = ""
			data.Reset()
		}
	}
}
