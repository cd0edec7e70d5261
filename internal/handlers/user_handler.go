package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
	"github.com/vidflow/backend/pkg/logger"
	"github.com/vidflow/backend/pkg/media"
)

// searchLimit caps username search results.
const searchLimit = 10

// UserHandler handles HTTP requests related to users and profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	mediaStore     *media.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, mediaStore *media.Store) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		mediaStore:     mediaStore,
	}
}

// RegisterUserRoutes registers profile and search routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile/:username", h.GetProfile)
	g.PUT("/profile/bio", h.UpdateBio)
	g.PUT("/profile/picture", h.UpdateProfilePic)
	g.GET("/users/search", h.SearchUsers)
}

// GetProfile returns a user's profile together with their posts, newest first
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	posts, err := h.postRepository.GetPostsByAuthor(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":  user,
			"posts": posts,
		},
	})
}

// UpdateBio updates the authenticated user's bio
func (h *UserHandler) UpdateBio(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateBioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	user.Bio = strings.TrimSpace(req.Bio)
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// UpdateProfilePic replaces the authenticated user's avatar. The previous
// file is removed best-effort; the stock avatar is never deleted.
func (h *UserHandler) UpdateProfilePic(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	file, err := c.FormFile("profile_pic")
	if err != nil {
		return httpError(apperror.Validation("no file selected"))
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	filename, err := h.mediaStore.Save(file, media.SubdirProfiles)
	if err != nil {
		if err == media.ErrDisallowedType {
			return httpError(apperror.Validation("file type not allowed"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if user.ProfilePic != media.DefaultProfilePic {
		if err := h.mediaStore.Delete(media.SubdirProfiles, user.ProfilePic); err != nil {
			logger.Log.Warn("failed to delete old profile picture",
				zap.String("filename", user.ProfilePic), zap.Error(err))
		}
	}

	user.ProfilePic = filename
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// SearchUsers matches usernames by case-insensitive substring, excluding the
// viewer, capped at 10 results
func (h *UserHandler) SearchUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": []models.UserCompact{}}})
	}

	users, err := h.userRepository.SearchUsers(query, currentUserID, searchLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}
