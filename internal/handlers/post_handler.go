package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
	"github.com/vidflow/backend/pkg/logger"
	"github.com/vidflow/backend/pkg/media"
)

// PostHandler handles post upload, detail, edit and deletion
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	commentRepository repositories.CommentRepository
	likeRepository    repositories.LikeRepository
	mediaStore        *media.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	mediaStore *media.Store,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		commentRepository: commentRepo,
		likeRepository:    likeRepo,
		mediaStore:        mediaStore,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdateCaption)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost uploads a new post. Creator accounts only. The media type is
// derived from the uploaded file's extension.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}
	if user.Role != models.RoleCreator {
		return httpError(apperror.Forbidden("only creator accounts can upload content"))
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return httpError(apperror.Validation("no file selected"))
	}

	filename, err := h.mediaStore.Save(file, media.SubdirPosts)
	if err != nil {
		if err == media.ErrDisallowedType {
			return httpError(apperror.Validation("file type not allowed"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post := &models.Post{
		UserID:    currentUserID,
		Caption:   req.Caption,
		Filename:  filename,
		MediaType: media.TypeOf(filename),
		Title:     req.Title,
		Publisher: req.Publisher,
		Producer:  req.Producer,
		Genre:     req.Genre,
		AgeRating: req.AgeRating,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetPost returns a single post with author, comments and like state
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		return httpError(apperror.NotFound("post"))
	}

	userCache := make(map[uint]models.UserCompact)
	author := h.lookupUser(userCache, post.UserID)

	comments, err := h.commentRepository.GetCommentsByPostID(post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	feedComments := make([]FeedComment, len(comments))
	for i, cm := range comments {
		feedComments[i] = FeedComment{
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
			Author:    h.lookupUser(userCache, cm.UserID),
		}
	}

	likesCount, _ := h.likeRepository.GetLikesCountByPostID(post.ID)
	isLiked := false
	if currentUserID > 0 {
		isLiked, _ = h.likeRepository.HasUserLikedPost(post.ID, currentUserID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post": FeedPost{
				Post:       *post,
				Author:     author,
				IsLiked:    isLiked,
				LikesCount: likesCount,
				Comments:   feedComments,
			},
		},
	})
}

// UpdateCaption edits a post's caption. Author only; the caption must be
// non-empty after trimming.
func (h *PostHandler) UpdateCaption(c echo.Context) error {
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
	if post.UserID != currentUserID {
		return httpError(apperror.Forbidden("you do not have permission to edit this post"))
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	caption := strings.TrimSpace(req.Caption)
	if caption == "" {
		return httpError(apperror.Validation("caption cannot be empty"))
	}

	post.Caption = caption
	if err := h.postRepository.UpdatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"caption": caption}})
}

// DeletePost removes a post together with its comments, likes and
// notifications in one transaction. The media file removal runs after the
// commit and is best-effort: a failure is logged, never surfaced as an error.
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.UserID != currentUserID {
		return httpError(apperror.Forbidden("you do not have permission to delete this post"))
	}

	if err := h.postRepository.DeletePostCascade(post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mediaStore.Delete(media.SubdirPosts, post.Filename); err != nil {
		logger.Log.Warn("failed to delete post file",
			zap.String("filename", post.Filename), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

func (h *PostHandler) lookupUser(cache map[uint]models.UserCompact, id uint) models.UserCompact {
	if compact, ok := cache[id]; ok {
		return compact
	}
	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return models.UserCompact{ID: id}
	}
	compact := user.ToCompact()
	cache[id] = compact
	return compact
}
