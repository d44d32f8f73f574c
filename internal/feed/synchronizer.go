// Package feed maintains a live client-side mirror of the post collection:
// it merges per-viewer like status into every snapshot, keeps one comment
// subscription per visible post, and applies optimistic like mutations with
// rollback on failure.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

// Gateway is the slice of remote operations the feed needs. The production
// implementation is gateway.Service; tests substitute fakes.
type Gateway interface {
	PostsSubscription(ctx context.Context, onChange func([]model.Post)) (func(), error)
	CommentsSubscription(ctx context.Context, postID string, onChange func([]model.Comment)) (func(), error)
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
	AddLikeRelation(ctx context.Context, postID, userID string) error
	RemoveLikeRelation(ctx context.Context, postID, userID string) error
}

// Options configures a Synchronizer. ViewerID may be empty for an
// unauthenticated viewer: no like lookups are made and IsLiked stays false.
type Options struct {
	ViewerID string

	// OnPosts receives the merged post snapshot, exactly once per upstream
	// snapshot event and once per optimistic mutation or rollback.
	OnPosts func([]model.Post)
	// OnComments receives a post's comment list whenever it changes.
	OnComments func(postID string, comments []model.Comment)
	// OnError receives subscription setup failures. Requery failures inside
	// an established subscription only surface as staleness.
	OnError func(err error)
}

// Synchronizer owns the in-memory mirror of the feed. The mirror is mutated
// only by its own subscription callbacks and by the coordinator's optimistic
// updates; callers read copies via Snapshot.
type Synchronizer struct {
	gw   Gateway
	opts Options

	ctx context.Context

	mu          sync.Mutex
	posts       []model.Post
	comments    map[string][]model.Comment
	inFlight    map[string]bool
	commentSubs map[string]func()
	commentGen  uint64
	unsubPosts  func()
	stopped     bool
}

// NewSynchronizer creates a stopped synchronizer; call Start to subscribe.
func NewSynchronizer(gw Gateway, opts Options) *Synchronizer {
	return &Synchronizer{
		gw:          gw,
		opts:        opts,
		comments:    make(map[string][]model.Comment),
		inFlight:    make(map[string]bool),
		commentSubs: make(map[string]func()),
	}
}

// Start subscribes to the post collection. The initial snapshot is delivered
// before Start returns.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.ctx = ctx

	unsub, err := s.gw.PostsSubscription(ctx, s.handleSnapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		unsub()
		return nil
	}
	s.unsubPosts = unsub
	s.mu.Unlock()
	return nil
}

// Stop releases the post subscription and every comment subscription.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	s.stopped = true
	unsubPosts := s.unsubPosts
	s.unsubPosts = nil
	subs := s.commentSubs
	s.commentSubs = make(map[string]func())
	s.mu.Unlock()

	if unsubPosts != nil {
		unsubPosts()
	}
	for _, unsub := range subs {
		unsub()
	}
}

// Snapshot returns a copy of the current merged post list.
func (s *Synchronizer) Snapshot() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Comments returns a copy of the cached comment list for a post.
func (s *Synchronizer) Comments(postID string) []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Comment, len(s.comments[postID]))
	copy(out, s.comments[postID])
	return out
}

func (s *Synchronizer) snapshotLocked() []model.Post {
	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// handleSnapshot processes one upstream snapshot event: merge like status,
// swap the mirror, rebuild comment subscriptions if the list identity
// changed, and deliver the merged array exactly once.
func (s *Synchronizer) handleSnapshot(posts []model.Post) {
	posts = s.resolveLikes(posts)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	identityChanged := !samePostIDs(s.posts, posts)
	s.posts = posts
	snap := s.snapshotLocked()
	var oldSubs map[string]func()
	var gen uint64
	if identityChanged {
		oldSubs = s.commentSubs
		s.commentSubs = make(map[string]func())
		s.commentGen++
		gen = s.commentGen
	}
	s.mu.Unlock()

	if identityChanged {
		for _, unsub := range oldSubs {
			unsub()
		}
		s.subscribeComments(snap, gen)
	}

	if s.opts.OnPosts != nil {
		s.opts.OnPosts(snap)
	}
}

// resolveLikes attaches the viewer's like status to every post. A failed
// per-post lookup defaults to not-liked and never fails the snapshot.
func (s *Synchronizer) resolveLikes(posts []model.Post) []model.Post {
	if s.opts.ViewerID == "" {
		return posts
	}

	var wg sync.WaitGroup
	for i := range posts {
		wg.Add(1)
		go func(p *model.Post) {
			defer wg.Done()
			liked, err := s.gw.IsLiked(s.ctx, p.ID, s.opts.ViewerID)
			if err != nil {
				slog.Warn("Like status lookup failed", "post_id", p.ID, "error", err)
				p.IsLiked = false
				return
			}
			p.IsLiked = liked
		}(&posts[i])
	}
	wg.Wait()
	return posts
}

// subscribeComments builds the comment subscription set for one snapshot
// generation. The set is installed only while that generation is still
// current; a newer snapshot owns the map by then and the stale set is
// released instead of overwriting it.
func (s *Synchronizer) subscribeComments(posts []model.Post, gen uint64) {
	newSubs := make(map[string]func(), len(posts))
	for _, p := range posts {
		postID := p.ID
		unsub, err := s.gw.CommentsSubscription(s.ctx, postID, func(comments []model.Comment) {
			s.handleComments(postID, comments)
		})
		if err != nil {
			s.reportError(err)
			continue
		}
		newSubs[postID] = unsub
	}

	s.mu.Lock()
	if s.stopped || s.commentGen != gen {
		s.mu.Unlock()
		for _, unsub := range newSubs {
			unsub()
		}
		return
	}
	s.commentSubs = newSubs
	s.mu.Unlock()
}

func (s *Synchronizer) handleComments(postID string, comments []model.Comment) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.comments[postID] = comments
	s.mu.Unlock()

	if s.opts.OnComments != nil {
		s.opts.OnComments(postID, comments)
	}
}

func (s *Synchronizer) reportError(err error) {
	if s.opts.OnError != nil {
		s.opts.OnError(err)
		return
	}
	slog.Warn("Feed subscription error", "error", err)
}

// beginToggle marks the post's like mutation in flight and applies the
// optimistic flip. It returns the exact pre-mutation record for rollback,
// and ok=false when the post is unknown or a toggle is already outstanding.
func (s *Synchronizer) beginToggle(postID string) (prev model.Post, ok bool) {
	s.mu.Lock()
	idx := s.indexLocked(postID)
	if idx < 0 || s.inFlight[postID] {
		s.mu.Unlock()
		return model.Post{}, false
	}

	prev = s.posts[idx]
	s.inFlight[postID] = true

	next := prev
	if next.IsLiked {
		next.IsLiked = false
		next.LikeCount--
	} else {
		next.IsLiked = true
		next.LikeCount++
	}
	s.posts[idx] = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.opts.OnPosts != nil {
		s.opts.OnPosts(snap)
	}
	return prev, true
}

// restore puts the exact pre-mutation record back after a failed remote
// write. A concurrent snapshot may have removed the post; then there is
// nothing to roll back.
func (s *Synchronizer) restore(prev model.Post) {
	s.mu.Lock()
	idx := s.indexLocked(prev.ID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.posts[idx] = prev
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.opts.OnPosts != nil {
		s.opts.OnPosts(snap)
	}
}

// endToggle releases the in-flight guard. Called on every outcome.
func (s *Synchronizer) endToggle(postID string) {
	s.mu.Lock()
	delete(s.inFlight, postID)
	s.mu.Unlock()
}

func (s *Synchronizer) indexLocked(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func samePostIDs(a, b []model.Post) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
