package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.FollowUser)
	g.DELETE("/users/:username/follow", h.UnfollowUser)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// FollowUser inserts a follow edge from the viewer to the target. Following
// an already-followed user is a no-op; a fresh edge notifies the target.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	if target.ID == currentUserID {
		return httpError(apperror.Conflict("you cannot follow yourself"))
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: target.ID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif := &models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     currentUserID,
		RecipientID: target.ID,
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser removes the follow edge if present. Never notifies.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	if target.ID == currentUserID {
		return httpError(apperror.Conflict("you cannot unfollow yourself"))
	}

	if err := h.followRepository.DeleteFollow(currentUserID, target.ID); err != nil && err != repositories.ErrFollowNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowers lists the identity summaries of a user's followers
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	followers, err := h.followRepository.GetFollowers(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(followers)}})
}

// GetFollowing lists the identity summaries of everyone a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	following, err := h.followRepository.GetFollowing(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(following)}})
}

func toCompactList(users []models.User) []models.UserCompact {
	result := make([]models.UserCompact, len(users))
	for i, u := range users {
		result[i] = u.ToCompact()
	}
	return result
}
