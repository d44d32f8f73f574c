package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", s.signupHandler)
		authGroup.GET("/verify", s.verifyHandler)
		authGroup.POST("/login", s.loginHandler)
		authGroup.POST("/logout", s.logoutHandler)

		authed := authGroup.Group("")
		authed.Use(s.SessionAuth())
		{
			authed.GET("/me", s.meHandler)
			authed.PATCH("/profile", s.updateProfileHandler)
			authed.DELETE("/account", s.deleteAccountHandler)
		}
	}

	// The feed is readable without an account.
	public := r.Group("/posts")
	public.Use(s.OptionalSessionAuth())
	{
		public.GET("", s.listPostsHandler)
		public.GET("/:post_id/comments", s.listCommentsHandler)
		public.GET("/:post_id/comments/stream", s.streamCommentsHandler)
	}
	r.GET("/feed/stream", s.OptionalSessionAuth(), s.streamPostsHandler)

	authedPosts := r.Group("/posts")
	authedPosts.Use(s.SessionAuth())
	{
		authedPosts.POST("", s.createPostHandler)
		authedPosts.DELETE("/:post_id", s.deletePostHandler)
		authedPosts.POST("/:post_id/comments", s.addCommentHandler)
		authedPosts.POST("/:post_id/like", s.addLikeHandler)
		authedPosts.DELETE("/:post_id/like", s.removeLikeHandler)
		authedPosts.GET("/:post_id/like", s.isLikedHandler)
	}

	r.POST("/upload", s.SessionAuth(), s.uploadHandler)

	files := r.Group("/files")
	files.Use(s.SessionAuth())
	{
		files.POST("/download-url", s.downloadURLHandler)
		files.DELETE("/*key", s.deleteFileHandler)
	}

	r.POST("/admin/reconcile-likes", s.SessionAuth(), s.reconcileLikesHandler)

	return r
}
