package client

import (
	"strings"
	"testing"

	"github.com/JeongUpGi/SnapBoard/internal/model"
)

func TestReadSSE(t *testing.T) {
	stream := "event:posts\n" +
		`data:[{"id":"p1","title":"첫 글","like_count":2}]` + "\n\n" +
		"event:other\n" +
		`data:[{"id":"ignored"}]` + "\n\n" +
		"event:posts\n" +
		`data:[{"id":"p1","like_count":3},{"id":"p2"}]` + "\n\n"

	var snapshots [][]model.Post
	readSSE(strings.NewReader(stream), "posts", func(posts []model.Post) {
		snapshots = append(snapshots, posts)
	})

	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if snapshots[0][0].Title != "첫 글" || snapshots[0][0].LikeCount != 2 {
		t.Errorf("first snapshot = %+v", snapshots[0])
	}
	if len(snapshots[1]) != 2 || snapshots[1][0].LikeCount != 3 {
		t.Errorf("second snapshot = %+v", snapshots[1])
	}
}

func TestReadSSE_SkipsMalformedData(t *testing.T) {
	stream := "event:posts\ndata:{not json\n\n" +
		"event:posts\n" +
		`data:[{"id":"p1"}]` + "\n\n"

	var snapshots [][]model.Post
	readSSE(strings.NewReader(stream), "posts", func(posts []model.Post) {
		snapshots = append(snapshots, posts)
	})

	if len(snapshots) != 1 || snapshots[0][0].ID != "p1" {
		t.Errorf("snapshots = %+v, want only the valid one", snapshots)
	}
}
