package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/pkg/media"
)

func newUserHandler(t *testing.T, f *fixture) *UserHandler {
	t.Helper()
	store, err := media.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewUserHandler(f.users, f.posts, store)
}

func TestGetProfileWithPosts(t *testing.T) {
	f := newFixture()
	bob := f.addUser(t, "bob", models.RoleCreator)
	alice := f.addUser(t, "alice", models.RoleConsumer)

	now := time.Now()
	f.addPost(t, bob.ID, now.Add(-time.Hour))
	newest := f.addPost(t, bob.ID, now)

	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/", nil, "", alice.ID)
	c.SetPath("/profile/:username")
	c.SetParamNames("username")
	c.SetParamValues("bob")
	require.NoError(t, h.GetProfile(c))

	var resp struct {
		Data struct {
			User  models.User   `json:"user"`
			Posts []models.Post `json:"posts"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "bob", resp.Data.User.Username)
	require.Len(t, resp.Data.Posts, 2)
	assert.Equal(t, newest.ID, resp.Data.Posts[0].ID)
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice", models.RoleConsumer)

	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/", nil, "", alice.ID)
	c.SetPath("/profile/:username")
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	if err := h.GetProfile(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBio(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice", models.RoleConsumer)

	h := newUserHandler(t, f)
	e := newEcho()
	form := url.Values{"bio": {"  hello there  "}}
	c, rec := newContext(e, http.MethodPut, "/", strings.NewReader(form.Encode()), echo.MIMEApplicationForm, alice.ID)
	require.NoError(t, h.UpdateBio(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := f.users.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", updated.Bio)
}

func TestUpdateProfilePic(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice", models.RoleConsumer)

	body, contentType := multipartFile(t, "profile_pic", "me.png")
	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodPut, "/", body, contentType, alice.ID)
	require.NoError(t, h.UpdateProfilePic(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := f.users.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, media.DefaultProfilePic, updated.ProfilePic)
	assert.True(t, strings.HasSuffix(updated.ProfilePic, ".png"))
}

func TestSearchUsers(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice_stream", models.RoleConsumer)
	f.addUser(t, "bob_stream", models.RoleCreator)
	f.addUser(t, "carol", models.RoleCreator)

	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/?query=stream", nil, "", alice.ID)
	require.NoError(t, h.SearchUsers(c))

	var resp struct {
		Data struct {
			Users []models.UserCompact `json:"users"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	// the viewer never appears in their own results
	require.Len(t, resp.Data.Users, 1)
	assert.Equal(t, "bob_stream", resp.Data.Users[0].Username)
}

func TestSearchUsersCapped(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice", models.RoleConsumer)
	for i := 0; i < 15; i++ {
		f.addUser(t, fmt.Sprintf("viewer_%02d", i), models.RoleConsumer)
	}

	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/?query=viewer", nil, "", alice.ID)
	require.NoError(t, h.SearchUsers(c))

	var resp struct {
		Data struct {
			Users []models.UserCompact `json:"users"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Data.Users, searchLimit)
}

func TestSearchUsersEmptyQuery(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice", models.RoleConsumer)

	h := newUserHandler(t, f)
	e := newEcho()
	c, rec := newContext(e, http.MethodGet, "/", nil, "", alice.ID)
	require.NoError(t, h.SearchUsers(c))

	var resp struct {
		Data struct {
			Users []models.UserCompact `json:"users"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Data.Users)
}
