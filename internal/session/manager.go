// Package session provides session management for the HTTP surface.
// Sessions are stored in Redis with TTL-based expiration.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session has expired
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the interface for session management operations
type Manager interface {
	Create(ctx context.Context, sess Session, maxAge int) (string, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type manager struct {
	store Store
}

// NewManager creates a new session manager on top of the given store.
func NewManager(store Store) Manager {
	return &manager{store: store}
}

// Create stores the session under a fresh ID and returns that ID.
func (m *manager) Create(ctx context.Context, sess Session, maxAge int) (string, error) {
	sess.ID = uuid.New().String()

	now := time.Now()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(time.Duration(maxAge) * time.Second)

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	key := fmt.Sprintf("session:%s", sess.ID)
	ttl := time.Duration(maxAge) * time.Second

	if err := m.store.Set(ctx, key, string(data), ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return sess.ID, nil
}

// Get retrieves a session by ID, deleting it if it turns out expired.
func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	key := fmt.Sprintf("session:%s", sessionID)

	data, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidSession
	}

	if time.Now().After(sess.ExpiresAt) {
		m.store.Delete(ctx, key)
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Delete removes a session
func (m *manager) Delete(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("session:%s", sessionID)
	return m.store.Delete(ctx, key)
}
