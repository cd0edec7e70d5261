package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
)

// LikeHandler handles the like toggle on posts
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike flips the viewer's like on a post. A second invocation undoes
// the first. Liking someone else's post notifies the author; retracting a
// like does not retract the notification.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
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

	hasLiked, err := h.likeRepository.HasUserLikedPost(post.ID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if hasLiked {
		if err := h.likeRepository.DeleteLike(post.ID, currentUserID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		count, _ := h.likeRepository.GetLikesCountByPostID(post.ID)
		return c.JSON(http.StatusOK, echo.Map{"status": "unliked", "likes_count": count})
	}

	like := &models.Like{PostID: post.ID, UserID: currentUserID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		// A racing toggle may hit the (post, user) unique constraint; the
		// like exists either way.
		return echo.NewHTTPError(http.StatusConflict, "Post already liked")
	}

	if post.UserID != currentUserID {
		notif := &models.Notification{
			Type:        models.NotificationLike,
			ActorID:     currentUserID,
			RecipientID: post.UserID,
			PostID:      &post.ID,
		}
		if err := h.notificationRepository.CreateNotification(notif); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	count, _ := h.likeRepository.GetLikesCountByPostID(post.ID)
	return c.JSON(http.StatusOK, echo.Map{"status": "liked", "likes_count": count})
}
