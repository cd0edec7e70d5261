package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
	"github.com/vidflow/backend/pkg/logger"
	"github.com/vidflow/backend/pkg/media"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
	mediaStore      *media.Store
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, mediaStore *media.Store) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
		mediaStore:      mediaStore,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories/:username", h.GetUserStories)
	g.POST("/stories", h.CreateStory)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// StoryDetail is one story inside the viewer playlist
type StoryDetail struct {
	ID       uint               `json:"id"`
	Filename string             `json:"filename"`
	Author   models.UserCompact `json:"author"`
}

// GetUserStories returns one author's active stories oldest first, plus the
// playback start index. The optional story_id query param positions playback
// at that story; an absent or unknown id starts from the beginning.
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	since := time.Now().Add(-models.StoryLifetime)
	stories, err := h.storyRepository.GetActiveByAuthor(user.ID, since)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(stories) == 0 {
		return httpError(apperror.NotFound("active stories"))
	}

	author := user.ToCompact()
	serialized := make([]StoryDetail, len(stories))
	for i, s := range stories {
		serialized[i] = StoryDetail{ID: s.ID, Filename: s.Filename, Author: author}
	}

	startIndex := 0
	if startID, err := strconv.ParseUint(c.QueryParam("story_id"), 10, 32); err == nil {
		for i, s := range serialized {
			if s.ID == uint(startID) {
				startIndex = i
				break
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"stories":     serialized,
			"start_index": startIndex,
		},
	})
}

// CreateStory uploads a new story. Creator accounts only.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}
	if user.Role != models.RoleCreator {
		return httpError(apperror.Forbidden("only creator accounts can upload stories"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return httpError(apperror.Validation("no file selected"))
	}

	filename, err := h.mediaStore.Save(file, media.SubdirStories)
	if err != nil {
		if err == media.ErrDisallowedType {
			return httpError(apperror.Validation("file type not allowed"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	story := &models.Story{
		UserID:   currentUserID,
		Filename: filename,
	}
	if err := h.storyRepository.CreateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story}})
}

// DeleteStory removes a story. Author only; the media file removal is
// best-effort and never blocks the deletion.
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	story, err := h.storyRepository.GetStoryByID(uint(storyID))
	if err != nil {
		return httpError(apperror.NotFound("story"))
	}
	if story.UserID != currentUserID {
		return httpError(apperror.Forbidden("you do not have permission to delete this story"))
	}

	if err := h.storyRepository.DeleteStory(story.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mediaStore.Delete(media.SubdirStories, story.Filename); err != nil {
		logger.Log.Warn("failed to delete story file",
			zap.String("filename", story.Filename), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}
