package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
	"github.com/vidflow/backend/validators"
)

// In-memory fakes for the repository interfaces. Handlers only see the
// interfaces, so tests exercise the aggregation logic without a database.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func (f *fakeUserRepo) CreateUser(u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(u *models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) SearchUsers(query string, excludeID uint, limit int) ([]models.User, error) {
	var result []models.User
	q := strings.ToLower(query)
	ids := make([]uint, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := f.users[id]
		if u.ID == excludeID || !strings.Contains(strings.ToLower(u.Username), q) {
			continue
		}
		result = append(result, *u)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

type fakeFollowRepo struct {
	users  *fakeUserRepo
	edges  []models.Follow
	nextID uint
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	for _, e := range f.edges {
		if e.FollowerID == follow.FollowerID && e.FollowingID == follow.FollowingID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	follow.ID = f.nextID
	f.edges = append(f.edges, *follow)
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	for i, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return repositories.ErrFollowNotFound
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	var result []models.User
	for _, e := range f.edges {
		if e.FollowingID == userID {
			if u, ok := f.users.users[e.FollowerID]; ok {
				result = append(result, *u)
			}
		}
	}
	return result, nil
}

func (f *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	var result []models.User
	for _, e := range f.edges {
		if e.FollowerID == userID {
			if u, ok := f.users.users[e.FollowingID]; ok {
				result = append(result, *u)
			}
		}
	}
	return result, nil
}

func (f *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range f.edges {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

type fakeCommentRepo struct {
	comments []models.Comment
	nextID   uint
}

func (f *fakeCommentRepo) CreateComment(c *models.Comment) error {
	f.nextID++
	c.ID = f.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeCommentRepo) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	return f.GetCommentsByPostIDs([]uint{postID})
}

func (f *fakeCommentRepo) GetCommentsByPostIDs(postIDs []uint) ([]models.Comment, error) {
	wanted := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	var result []models.Comment
	for _, c := range f.comments {
		if wanted[c.PostID] {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type fakeLikeRepo struct {
	likes  []models.Like
	nextID uint
}

func (f *fakeLikeRepo) CreateLike(like *models.Like) error {
	for _, l := range f.likes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	like.ID = f.nextID
	f.likes = append(f.likes, *like)
	return nil
}

func (f *fakeLikeRepo) DeleteLike(postID, userID uint) error {
	for i, l := range f.likes {
		if l.PostID == postID && l.UserID == userID {
			f.likes = append(f.likes[:i], f.likes[i+1:]...)
			return nil
		}
	}
	return repositories.ErrLikeNotFound
}

func (f *fakeLikeRepo) HasUserLikedPost(postID, userID uint) (bool, error) {
	for _, l := range f.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLikeRepo) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	for _, l := range f.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	wanted := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	result := make(map[uint]bool)
	for _, l := range f.likes {
		if l.UserID == userID && wanted[l.PostID] {
			result[l.PostID] = true
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i := range f.notifications {
		if f.notifications[i].RecipientID == recipientID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

// forRecipient returns notifications addressed to the given user.
func (f *fakeNotificationRepo) forRecipient(recipientID uint) []models.Notification {
	result, _ := f.GetByRecipientID(recipientID)
	return result
}

type fakePostRepo struct {
	posts         map[uint]*models.Post
	nextID        uint
	comments      *fakeCommentRepo
	likes         *fakeLikeRepo
	notifications *fakeNotificationRepo
}

func (f *fakePostRepo) CreatePost(p *models.Post) error {
	f.nextID++
	p.ID = f.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	stored := *p
	f.posts[p.ID] = &stored
	return nil
}

func (f *fakePostRepo) GetPostByID(id uint) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *p
	return &result, nil
}

func (f *fakePostRepo) sortedByAuthorIDs(authorIDs []uint) []models.Post {
	wanted := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}
	var result []models.Post
	for _, p := range f.posts {
		if wanted[p.UserID] {
			result = append(result, *p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (f *fakePostRepo) GetPostsByAuthorIDs(authorIDs []uint, offset, limit int) ([]models.Post, error) {
	result := f.sortedByAuthorIDs(authorIDs)
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakePostRepo) CountPostsByAuthorIDs(authorIDs []uint) (int64, error) {
	return int64(len(f.sortedByAuthorIDs(authorIDs))), nil
}

func (f *fakePostRepo) GetPostsByAuthor(userID uint) ([]models.Post, error) {
	return f.sortedByAuthorIDs([]uint{userID}), nil
}

func (f *fakePostRepo) UpdatePost(p *models.Post) error {
	if _, ok := f.posts[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	f.posts[p.ID] = &stored
	return nil
}

func (f *fakePostRepo) DeletePostCascade(id uint) error {
	var keptComments []models.Comment
	for _, c := range f.comments.comments {
		if c.PostID != id {
			keptComments = append(keptComments, c)
		}
	}
	f.comments.comments = keptComments

	var keptLikes []models.Like
	for _, l := range f.likes.likes {
		if l.PostID != id {
			keptLikes = append(keptLikes, l)
		}
	}
	f.likes.likes = keptLikes

	var keptNotifs []models.Notification
	for _, n := range f.notifications.notifications {
		if n.PostID == nil || *n.PostID != id {
			keptNotifs = append(keptNotifs, n)
		}
	}
	f.notifications.notifications = keptNotifs

	delete(f.posts, id)
	return nil
}

type fakeStoryRepo struct {
	stories map[uint]*models.Story
	nextID  uint
}

func (f *fakeStoryRepo) CreateStory(s *models.Story) error {
	f.nextID++
	s.ID = f.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	stored := *s
	f.stories[s.ID] = &stored
	return nil
}

func (f *fakeStoryRepo) GetStoryByID(id uint) (*models.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *s
	return &result, nil
}

func (f *fakeStoryRepo) GetActiveByAuthorIDs(authorIDs []uint, since time.Time) ([]models.Story, error) {
	wanted := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}
	var result []models.Story
	for _, s := range f.stories {
		if wanted[s.UserID] && s.CreatedAt.After(since) {
			result = append(result, *s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStoryRepo) GetActiveByAuthor(userID uint, since time.Time) ([]models.Story, error) {
	var result []models.Story
	for _, s := range f.stories {
		if s.UserID == userID && s.CreatedAt.After(since) {
			result = append(result, *s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStoryRepo) DeleteStory(id uint) error {
	delete(f.stories, id)
	return nil
}

type fakeMessageRepo struct {
	messages []models.Message
	nextID   uint
}

func (f *fakeMessageRepo) CreateMessage(m *models.Message) error {
	f.nextID++
	m.ID = f.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) GetPeerIDs(userID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	var peers []uint
	for _, m := range f.messages {
		var peer uint
		switch userID {
		case m.SenderID:
			peer = m.ReceiverID
		case m.ReceiverID:
			peer = m.SenderID
		default:
			continue
		}
		if !seen[peer] {
			seen[peer] = true
			peers = append(peers, peer)
		}
	}
	return peers, nil
}

func (f *fakeMessageRepo) between(userID, peerID uint) []models.Message {
	var result []models.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == peerID) ||
			(m.SenderID == peerID && m.ReceiverID == userID) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (f *fakeMessageRepo) GetLastMessageBetween(userID, peerID uint) (*models.Message, error) {
	msgs := f.between(userID, peerID)
	if len(msgs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (f *fakeMessageRepo) GetMessagesBetween(userID, peerID uint) ([]models.Message, error) {
	return f.between(userID, peerID), nil
}

// fixture bundles the fakes so cascades and cross-entity lookups work the
// way the real store does.
type fixture struct {
	users         *fakeUserRepo
	follows       *fakeFollowRepo
	posts         *fakePostRepo
	stories       *fakeStoryRepo
	comments      *fakeCommentRepo
	likes         *fakeLikeRepo
	messages      *fakeMessageRepo
	notifications *fakeNotificationRepo
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: map[uint]*models.User{}}
	comments := &fakeCommentRepo{}
	likes := &fakeLikeRepo{}
	notifications := &fakeNotificationRepo{}
	return &fixture{
		users:    users,
		follows:  &fakeFollowRepo{users: users},
		comments: comments,
		likes:    likes,
		posts: &fakePostRepo{
			posts:         map[uint]*models.Post{},
			comments:      comments,
			likes:         likes,
			notifications: notifications,
		},
		stories:       &fakeStoryRepo{stories: map[uint]*models.Story{}},
		messages:      &fakeMessageRepo{},
		notifications: notifications,
	}
}

func (f *fixture) addUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		ProfilePic: "default.jpg",
		Role:       role,
	}
	if err := f.users.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (f *fixture) addPost(t *testing.T, userID uint, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Caption:   "caption",
		Filename:  "media.jpg",
		MediaType: models.MediaTypeImage,
		CreatedAt: createdAt,
	}
	if err := f.posts.CreatePost(post); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func (f *fixture) addStory(t *testing.T, userID uint, createdAt time.Time) *models.Story {
	t.Helper()
	story := &models.Story{
		UserID:    userID,
		Filename:  "story.jpg",
		CreatedAt: createdAt,
	}
	if err := f.stories.CreateStory(story); err != nil {
		t.Fatalf("seed story: %v", err)
	}
	return story
}

func (f *fixture) addMessage(t *testing.T, senderID, receiverID uint, text string, createdAt time.Time) *models.Message {
	t.Helper()
	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  createdAt,
	}
	if err := f.messages.CreateMessage(message); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return message
}

// newEcho builds an Echo instance with the application validator.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// newContext creates a request context with an authenticated viewer.
// viewerID 0 leaves the request unauthenticated.
func newContext(e *echo.Echo, method, target string, body io.Reader, contentType string, viewerID uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if viewerID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: viewerID})
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
