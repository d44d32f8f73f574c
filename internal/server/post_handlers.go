package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/JeongUpGi/SnapBoard/internal/gateway"
	"github.com/JeongUpGi/SnapBoard/internal/model"
)

// MaxUploadSize caps post image uploads at 10MB.
const MaxUploadSize = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// listPostsHandler handles GET /posts. With a session the viewer's like
// status is merged into every entry; without one it stays false.
func (s *Server) listPostsHandler(c *gin.Context) {
	posts, err := s.gateway.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to retrieve posts",
		})
		return
	}

	if sess, ok := GetSession(c); ok {
		for i := range posts {
			liked, err := s.gateway.IsLiked(c.Request.Context(), posts[i].ID, sess.UserID)
			if err == nil {
				posts[i].IsLiked = liked
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    posts,
	})
}

// createPostHandler handles POST /posts. The author identity comes from the
// session, never from the body.
func (s *Server) createPostHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	post, err := s.gateway.CreatePost(c.Request.Context(), sess.UserID, sess.Nickname,
		req.Title, req.Content, req.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to create post",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    post,
	})
}

// deletePostHandler handles DELETE /posts/:post_id.
func (s *Server) deletePostHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	err := s.gateway.DeletePost(c.Request.Context(), c.Param("post_id"), sess.UserID)
	if err != nil {
		if errors.Is(err, gateway.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "Post not found",
			})
			return
		}
		if errors.Is(err, gateway.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, model.ErrorResponse{
				Success: false,
				Error:   "You are not authorized to delete this post",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to delete post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// listCommentsHandler handles GET /posts/:post_id/comments.
func (s *Server) listCommentsHandler(c *gin.Context) {
	comments, err := s.gateway.ListComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to retrieve comments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comments,
	})
}

// addCommentHandler handles POST /posts/:post_id/comments.
func (s *Server) addCommentHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	comment, err := s.gateway.AddComment(c.Request.Context(), c.Param("post_id"),
		sess.UserID, sess.Nickname, req.Content, sess.PhotoURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to add comment",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

// addLikeHandler handles POST /posts/:post_id/like.
func (s *Server) addLikeHandler(c *gin.Context) {
	s.mutateLike(c, s.gateway.AddLikeRelation)
}

// removeLikeHandler handles DELETE /posts/:post_id/like.
func (s *Server) removeLikeHandler(c *gin.Context) {
	s.mutateLike(c, s.gateway.RemoveLikeRelation)
}

func (s *Server) mutateLike(c *gin.Context, op func(ctx context.Context, postID, userID string) error) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	if err := op(c.Request.Context(), c.Param("post_id"), sess.UserID); err != nil {
		if errors.Is(err, gateway.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   "Invalid post ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to update like",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// isLikedHandler handles GET /posts/:post_id/like.
func (s *Server) isLikedHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	liked, err := s.gateway.IsLiked(c.Request.Context(), c.Param("post_id"), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to check like status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"is_liked": liked,
	})
}

// uploadHandler handles POST /upload with a multipart "image" field and
// returns the public blob URL for use as a post image.
func (s *Server) uploadHandler(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Error:   "Storage service is not available",
		})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Missing image file",
		})
		return
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Image exceeds the maximum upload size",
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Unsupported image type",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	url, err := s.storage.UploadBlob(c.Request.Context(), file, contentType, filepath.Ext(header.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to store image",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"url":     url,
	})
}

// reconcileLikesHandler handles POST /admin/reconcile-likes, a maintenance
// operation repairing like counters that diverged from their relations.
func (s *Server) reconcileLikesHandler(c *gin.Context) {
	fixed, err := s.gateway.ReconcileLikeCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "Failed to reconcile like counts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fixed":   fixed,
	})
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *gin.Context) {
	response := gin.H{}

	if err := s.db.Health(c.Request.Context()); err != nil {
		response["database"] = gin.H{"status": "down", "error": err.Error()}
	} else {
		response["database"] = gin.H{"status": "up"}
	}

	if s.storage != nil {
		if err := s.storage.Health(c.Request.Context()); err != nil {
			response["storage"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["storage"] = gin.H{"status": "up"}
		}
	}

	c.JSON(http.StatusOK, response)
}
