// snapboardctl is a terminal client for a SnapBoard server. It signs in,
// tails the live feed through a local synchronizer and toggles likes through
// the optimistic coordinator, so the terminal behaves like the mobile feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/JeongUpGi/SnapBoard/internal/client"
	"github.com/JeongUpGi/SnapBoard/internal/feed"
	"github.com/JeongUpGi/SnapBoard/internal/format"
	"github.com/JeongUpGi/SnapBoard/internal/logger"
	"github.com/JeongUpGi/SnapBoard/internal/model"
)

func main() {
	logger.SetDefault(logger.New())

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "signup":
		err = runSignup(os.Args[2:])
	case "post":
		err = runPost(os.Args[2:])
	case "comment":
		err = runComment(os.Args[2:])
	case "like":
		err = runLike(os.Args[2:])
	case "tail":
		err = runTail(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: snapboardctl <command> [flags]

commands:
  signup   create an account
  post     publish a post
  comment  comment on a post
  like     toggle a like on a post
  tail     stream the live feed`)
}

func commonFlags(fs *flag.FlagSet) (server, email, password *string) {
	server = fs.String("server", envOr("SNAPBOARD_SERVER", "http://localhost:8080"), "server base URL")
	email = fs.String("email", os.Getenv("SNAPBOARD_EMAIL"), "account email")
	password = fs.String("password", os.Getenv("SNAPBOARD_PASSWORD"), "account password")
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runSignup(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	server, email, password := commonFlags(fs)
	nickname := fs.String("nickname", "", "display name")
	fs.Parse(args)

	c, err := client.New(*server)
	if err != nil {
		return err
	}

	ctx := context.Background()
	user, err := c.SignUp(ctx, *email, *password, *nickname)
	if err != nil {
		return err
	}

	fmt.Printf("account created for %s; check %s for the verification link\n", user.Nickname, user.Email)
	return nil
}

func login(ctx context.Context, server, email, password string) (*client.Client, *model.User, error) {
	c, err := client.New(server)
	if err != nil {
		return nil, nil, err
	}
	user, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	return c, user, nil
}

func runPost(args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	server, email, password := commonFlags(fs)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post body")
	fs.Parse(args)

	ctx := context.Background()
	c, _, err := login(ctx, *server, *email, *password)
	if err != nil {
		return err
	}

	post, err := c.CreatePost(ctx, *title, *content, "")
	if err != nil {
		return err
	}
	fmt.Printf("published %s\n", post.ID)
	return nil
}

func runComment(args []string) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	server, email, password := commonFlags(fs)
	postID := fs.String("post", "", "post ID")
	content := fs.String("content", "", "comment text")
	fs.Parse(args)

	ctx := context.Background()
	c, _, err := login(ctx, *server, *email, *password)
	if err != nil {
		return err
	}

	comment, err := c.AddComment(ctx, *postID, *content)
	if err != nil {
		return err
	}
	fmt.Printf("commented %s\n", comment.ID)
	return nil
}

// runLike starts a synchronizer so the toggle goes through the same
// optimistic path the mobile feed uses.
func runLike(args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	server, email, password := commonFlags(fs)
	postID := fs.String("post", "", "post ID")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, user, err := login(ctx, *server, *email, *password)
	if err != nil {
		return err
	}

	firstSnapshot := make(chan struct{})
	var once sync.Once
	synchronizer := feed.NewSynchronizer(c, feed.Options{
		ViewerID: user.ID,
		OnPosts: func([]model.Post) {
			once.Do(func() { close(firstSnapshot) })
		},
	})
	if err := synchronizer.Start(ctx); err != nil {
		return err
	}
	defer synchronizer.Stop()

	select {
	case <-firstSnapshot:
	case <-ctx.Done():
		return ctx.Err()
	}

	coord := feed.NewCoordinator(synchronizer, c)
	if err := coord.ToggleLike(ctx, *postID, user.ID); err != nil {
		return fmt.Errorf("%s: %w", feed.LikeFailureMessage, err)
	}

	for _, p := range synchronizer.Snapshot() {
		if p.ID == *postID {
			fmt.Printf("%s: liked=%v count=%d\n", p.ID, p.IsLiked, p.LikeCount)
		}
	}
	return nil
}

func runTail(args []string) error {
	fs := flag.NewFlagSet("tail", flag.ExitOnError)
	server, email, password := commonFlags(fs)
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := client.New(*server)
	if err != nil {
		return err
	}

	var viewerID string
	if *email != "" && *password != "" {
		user, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		viewerID = user.ID
		fmt.Printf("signed in as %s\n", user.Nickname)
	}

	synchronizer := feed.NewSynchronizer(c, feed.Options{
		ViewerID: viewerID,
		OnPosts:  printFeed,
		OnError: func(err error) {
			slog.Warn("Subscription error", "error", err)
		},
	})
	if err := synchronizer.Start(ctx); err != nil {
		return err
	}
	defer synchronizer.Stop()

	<-ctx.Done()
	return nil
}

func printFeed(posts []model.Post) {
	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "---- feed (%d posts) ----\n", len(posts))
	for _, p := range posts {
		mark := " "
		if p.IsLiked {
			mark = "♥"
		}
		fmt.Fprintf(&b, "%s %-20s %s · %s · 좋아요 %d\n",
			mark, p.Title, p.AuthorName, format.Date(p.CreatedAt, now), p.LikeCount)
	}
	fmt.Print(b.String())
}
