package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.AddComment)
	g.GET("/posts/:id/comments", h.GetComments)
}

// AddComment persists a comment on a post and returns it with the author
// summary so the client can render it without a follow-up read. Commenting on
// someone else's post notifies the author.
func (h *CommentHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		return httpError(apperror.NotFound("post"))
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return httpError(apperror.Validation("comment cannot be empty"))
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	comment := &models.Comment{
		PostID: post.ID,
		UserID: currentUserID,
		Text:   text,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != currentUserID {
		notif := &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     currentUserID,
			RecipientID: post.UserID,
			PostID:      &post.ID,
		}
		if err := h.notificationRepository.CreateNotification(notif); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data": echo.Map{
			"comment": FeedComment{
				Text:      comment.Text,
				CreatedAt: comment.CreatedAt,
				Author:    user.ToCompact(),
			},
		},
	})
}

// GetComments returns a post's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if _, err := h.postRepository.GetPostByID(uint(postID)); err != nil {
		return httpError(apperror.NotFound("post"))
	}

	comments, err := h.commentRepository.GetCommentsByPostID(uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userCache := make(map[uint]models.UserCompact)
	result := make([]FeedComment, len(comments))
	for i, cm := range comments {
		author, ok := userCache[cm.UserID]
		if !ok {
			if user, err := h.userRepository.GetUserByID(cm.UserID); err == nil {
				author = user.ToCompact()
			} else {
				author = models.UserCompact{ID: cm.UserID}
			}
			userCache[cm.UserID] = author
		}
		result[i] = FeedComment{Text: cm.Text, CreatedAt: cm.CreatedAt, Author: author}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": result}})
}
