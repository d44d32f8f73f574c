package storage

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestBlobKey(t *testing.T) {
	now := time.Date(2025, 6, 7, 12, 0, 0, 123_000_000, time.UTC)

	key := BlobKey(now, ".png")
	if !strings.HasPrefix(key, BlobPrefix) {
		t.Errorf("key %q lacks prefix %q", key, BlobPrefix)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q lacks extension", key)
	}

	rest := strings.TrimSuffix(strings.TrimPrefix(key, BlobPrefix), ".png")
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		t.Fatalf("key body %q is not <millis>_<rand>", rest)
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || millis != now.UnixMilli() {
		t.Errorf("timestamp part = %q, want %d", parts[0], now.UnixMilli())
	}
	if _, err := strconv.Atoi(parts[1]); err != nil {
		t.Errorf("random part = %q, want an integer", parts[1])
	}
}

func TestBlobKey_NoExtension(t *testing.T) {
	key := BlobKey(time.Now(), "")
	if strings.Contains(strings.TrimPrefix(key, BlobPrefix), "/") {
		t.Errorf("key %q escapes the prefix", key)
	}
}
