package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/auth"
	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second)
}

func TestCreateUserComment(t *testing.T) {
	var got models.UserCommentInput
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/usercomments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Location", "/api/usercomments/11")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateUserComment(context.Background(), auth.Session{Token: "tok", ViewerID: 2}, models.UserCommentInput{
		UserID: 1, WriterID: 2, Content: "hi", UserCommentStatus: models.StatusPrivate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserCommentInput{UserID: 1, WriterID: 2, Content: "hi", UserCommentStatus: models.StatusPrivate}, got)
}

func TestListCommentsToUserPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/usercomments/users/3", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "15", r.URL.Query().Get("size"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{
			"currentPage": 1,
			"data": [{"userCommentId": 9, "userId": 3, "writerId": 4, "content": "hello",
			          "status": "PUBLIC", "createdAt": [2023, 3, 14, 10, 20, 30]}],
			"pageInfo": {"totalElements": 1, "totalPages": 1}
		}`)
	})

	page, err := c.ListCommentsToUser(context.Background(), auth.Session{}, 3, PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(9), page.Data[0].UserCommentID)
	assert.Equal(t, 2023, page.Data[0].CreatedAt.Year())
	assert.Equal(t, 1, page.PageInfo.TotalPages)
}

func TestSearchPortfoliosQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/portfolios/search", r.URL.Path)
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "likes", q.Get("sortBy"))
		assert.Equal(t, "skill", q.Get("category"))
		assert.Equal(t, "go", q.Get("value"))
		_, _ = io.WriteString(w, `{"currentPage":2,"data":[],"pageInfo":{"totalElements":0,"totalPages":0}}`)
	})

	page, err := c.SearchPortfolios(context.Background(), auth.Session{}, SearchQuery{
		PageQuery: PageQuery{Page: 2, Size: 15},
		Category:  models.SearchSkill,
		SortBy:    models.SortLikes,
		Value:     "go",
	})
	require.NoError(t, err)
	assert.True(t, page.Empty())
}

func TestLikeUnlikeAndViews(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	sess := auth.Session{Token: "tok", ViewerID: 1}
	require.NoError(t, c.Like(context.Background(), sess, 42))
	require.NoError(t, c.Unlike(context.Background(), sess, 42))
	require.NoError(t, c.IncreaseViewCount(context.Background(), 42))

	assert.Equal(t, []string{
		"POST /portfolios/42/likes",
		"DELETE /portfolios/42/likes",
		"POST /portfolios/42/views",
	}, calls)
}

func TestErrorMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":404,"message":"Portfolio not found"}`)
	})

	_, err := c.GetPortfolio(context.Background(), auth.Session{}, 5)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Portfolio not found", apiErr.Message)
	assert.Equal(t, "/portfolios/5", apiErr.Path)
}

func TestLoginTokenFromHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer abc.def.ghi")
		w.WriteHeader(http.StatusOK)
	})

	token, err := c.Login(context.Background(), models.LoginInput{Username: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestLoginTokenFromBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"accessToken":"Bearer xyz"}`)
	})

	token, err := c.Login(context.Background(), models.LoginInput{Username: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)
}

func TestSignUpReadsLocation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://api/users/77")
		w.WriteHeader(http.StatusCreated)
	})

	id, err := c.SignUp(context.Background(), models.SignUpInput{Email: "a@b.c", Password: "password1", Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
}

func TestGetUserProfileUnwrapsData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/3/profile", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"userId":3,"name":"kim","createdAt":"2023-01-02T03:04:05"}}`)
	})

	p, err := c.GetUserProfile(context.Background(), auth.Session{}, 3)
	require.NoError(t, err)
	assert.Equal(t, "kim", p.Name)
	assert.Equal(t, int64(3), p.UserID)
}
