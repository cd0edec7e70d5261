package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
)

// FeedHandler assembles the personalized feed: posts and active stories from
// the viewer and everyone the viewer follows.
type FeedHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	followRepository  repositories.FollowRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	storyRepository   repositories.StoryRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	storyRepo repositories.StoryRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		followRepository:  followRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		storyRepository:   storyRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// FeedComment is a comment with its author summary
type FeedComment struct {
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"created_at"`
	Author    models.UserCompact `json:"author"`
}

// FeedPost is a post with author info and user-specific flags
type FeedPost struct {
	models.Post
	Author     models.UserCompact `json:"author"`
	IsLiked    bool               `json:"is_liked"`
	LikesCount int64              `json:"likes_count"`
	Comments   []FeedComment      `json:"comments"`
}

// StoryRef points at a single story inside a rail group
type StoryRef struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
}

// StoryGroup is the feed rail entry for one author: their identity summary
// plus their active stories, newest first.
type StoryGroup struct {
	Author  models.UserCompact `json:"author"`
	Stories []StoryRef         `json:"stories"`
}

// GetFeed returns posts authored by the viewer or anyone the viewer follows,
// newest first, together with the active-story rail over the same author set.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	closure := append(followingIDs, currentUserID)

	totalItems, err := h.postRepository.CountPostsByAuthorIDs(closure)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByAuthorIDs(closure, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	comments, err := h.commentRepository.GetCommentsByPostIDs(postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userCache := make(map[uint]models.UserCompact)

	commentsByPost := make(map[uint][]FeedComment)
	for _, cm := range comments {
		commentsByPost[cm.PostID] = append(commentsByPost[cm.PostID], FeedComment{
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
			Author:    h.lookupUser(userCache, cm.UserID),
		})
	}

	likedMap, err := h.likeRepository.GetLikedPostIDs(currentUserID, postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feedPosts := make([]FeedPost, len(posts))
	for i, p := range posts {
		likesCount, _ := h.likeRepository.GetLikesCountByPostID(p.ID)
		feedPosts[i] = FeedPost{
			Post:       p,
			Author:     h.lookupUser(userCache, p.UserID),
			IsLiked:    likedMap[p.ID],
			LikesCount: likesCount,
			Comments:   commentsByPost[p.ID],
		}
	}

	storyGroups, err := h.buildStoryRail(closure, userCache)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts":   feedPosts,
			"stories": storyGroups,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// buildStoryRail groups the closure set's active stories by author. Stories
// within a group come back newest first; the per-author viewer endpoint uses
// the opposite order so playback can catch up from the oldest story.
func (h *FeedHandler) buildStoryRail(authorIDs []uint, userCache map[uint]models.UserCompact) ([]StoryGroup, error) {
	since := time.Now().Add(-models.StoryLifetime)
	stories, err := h.storyRepository.GetActiveByAuthorIDs(authorIDs, since)
	if err != nil {
		return nil, err
	}

	groups := make([]StoryGroup, 0)
	groupIndex := make(map[uint]int)
	for _, s := range stories {
		idx, ok := groupIndex[s.UserID]
		if !ok {
			idx = len(groups)
			groupIndex[s.UserID] = idx
			groups = append(groups, StoryGroup{Author: h.lookupUser(userCache, s.UserID)})
		}
		groups[idx].Stories = append(groups[idx].Stories, StoryRef{ID: s.ID, Filename: s.Filename})
	}
	return groups, nil
}

// lookupUser resolves an identity summary through a per-request cache.
func (h *FeedHandler) lookupUser(cache map[uint]models.UserCompact, id uint) models.UserCompact {
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
