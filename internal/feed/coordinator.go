package feed

import (
	"context"
	"errors"
	"fmt"
)

// ErrToggleFailed wraps remote like-mutation failures after the optimistic
// state has been rolled back.
var ErrToggleFailed = errors.New("like toggle failed")

// LikeFailureMessage is the user-facing text shown when a like mutation
// fails and the feed reverts.
const LikeFailureMessage = "좋아요 처리 중 문제가 발생했습니다.\n잠시 후 다시 시도해주세요."

// Coordinator applies like toggles optimistically against the synchronizer's
// mirror and reconciles them with the remote store.
type Coordinator struct {
	sync *Synchronizer
	gw   Gateway
}

// NewCoordinator creates a coordinator bound to a synchronizer and its gateway.
func NewCoordinator(sync *Synchronizer, gw Gateway) *Coordinator {
	return &Coordinator{sync: sync, gw: gw}
}

// ToggleLike flips the viewer's like on a post. The local flip is visible
// immediately; on remote failure the exact pre-mutation record is restored
// and an error is returned. At most one toggle per post is outstanding at a
// time: concurrent calls for the same post are no-ops. Calls without a user
// are ignored, matching an unauthenticated viewer tapping the button.
func (c *Coordinator) ToggleLike(ctx context.Context, postID, userID string) error {
	if userID == "" {
		return nil
	}

	prev, ok := c.sync.beginToggle(postID)
	if !ok {
		return nil
	}
	defer c.sync.endToggle(postID)

	var err error
	if prev.IsLiked {
		err = c.gw.RemoveLikeRelation(ctx, postID, userID)
	} else {
		err = c.gw.AddLikeRelation(ctx, postID, userID)
	}
	if err != nil {
		c.sync.restore(prev)
		return fmt.Errorf("%w: %v", ErrToggleFailed, err)
	}

	// On success the optimistic state already matches what the next
	// snapshot will deliver; leave it as-is.
	return nil
}
