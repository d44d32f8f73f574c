// Package gateway is the boundary to the hosted data plane: post, comment
// and like documents in Postgres, live snapshot subscriptions driven by
// change notifications, and image blobs in S3. It contains no feed logic;
// callers get full ordered snapshots and mutate through narrow operations.
package gateway

import (
	"context"
	"errors"

	"github.com/JeongUpGi/SnapBoard/internal/database"
	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/pubsub"
)

var (
	// ErrPostNotFound is returned when a post does not exist
	ErrPostNotFound = errors.New("post not found")
	// ErrUnauthorized is returned when a caller mutates a document it does not own
	ErrUnauthorized = errors.New("unauthorized to modify this post")
	// ErrInvalidInput is returned for empty identifiers
	ErrInvalidInput = errors.New("invalid input")
)

// Service exposes the remote data operations used by the feed and the HTTP
// surface. All operations are remote calls: they may fail with transport
// errors and provide no transactional guarantee across documents.
type Service interface {
	CreatePost(ctx context.Context, authorID, authorName, title, content, imageURL string) (*model.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	ListPosts(ctx context.Context) ([]model.Post, error)
	// PostsSubscription delivers the full ordered post list on subscribe and
	// again after every collection change, until the returned unsubscribe
	// function is called.
	PostsSubscription(ctx context.Context, onChange func([]model.Post)) (func(), error)

	AddComment(ctx context.Context, postID, userID, userName, content, userProfile string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
	CommentsSubscription(ctx context.Context, postID string, onChange func([]model.Comment)) (func(), error)

	// AddLikeRelation creates the (post, user) relation and increments the
	// post counter; RemoveLikeRelation is the inverse. The relation write
	// and the counter update are separate statements: a crash in between
	// leaves a divergence that ReconcileLikeCounts repairs.
	AddLikeRelation(ctx context.Context, postID, userID string) error
	RemoveLikeRelation(ctx context.Context, postID, userID string) error
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
	ReconcileLikeCounts(ctx context.Context) (int64, error)

	// PropagateProfile rewrites the denormalized author name and image on
	// the user's posts and comments after a profile edit.
	PropagateProfile(ctx context.Context, userID, userName, userProfile string) error

	Health(ctx context.Context) error
}

type service struct {
	db       database.Service
	notifier pubsub.Notifier
}

// NewService creates a gateway over the given database and change notifier.
func NewService(db database.Service, notifier pubsub.Notifier) Service {
	return &service{db: db, notifier: notifier}
}

func (s *service) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
