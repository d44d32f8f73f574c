package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

const topicPosts = "posts"

func topicComments(postID string) string {
	return "comments:" + postID
}

// PostsSubscription delivers the current post snapshot immediately and again
// on every change signal. Requery failures are logged and skipped: the
// subscription goes stale rather than tearing down the feed.
func (s *service) PostsSubscription(ctx context.Context, onChange func([]model.Post)) (func(), error) {
	var mu sync.Mutex
	deliver := func() {
		// Serialized so snapshots reach onChange in requery order.
		mu.Lock()
		defer mu.Unlock()

		posts, err := s.ListPosts(ctx)
		if err != nil {
			slog.Warn("Posts snapshot requery failed", "error", err)
			return
		}
		onChange(posts)
	}

	cancel, err := s.notifier.Subscribe(ctx, topicPosts, deliver)
	if err != nil {
		return nil, err
	}

	deliver()
	return cancel, nil
}

// CommentsSubscription is the per-post equivalent of PostsSubscription for
// the comments sub-collection, ordered by creation time ascending.
func (s *service) CommentsSubscription(ctx context.Context, postID string, onChange func([]model.Comment)) (func(), error) {
	var mu sync.Mutex
	deliver := func() {
		mu.Lock()
		defer mu.Unlock()

		comments, err := s.ListComments(ctx, postID)
		if err != nil {
			slog.Warn("Comments snapshot requery failed", "post_id", postID, "error", err)
			return
		}
		onChange(comments)
	}

	cancel, err := s.notifier.Subscribe(ctx, topicComments(postID), deliver)
	if err != nil {
		return nil, err
	}

	deliver()
	return cancel, nil
}
