package api

import (
	"context"
	"net/http"

	"folio/internal/auth"
	"folio/internal/models"
)

// SignUp 注册，返回新用户 ID（取自 Location 头，可能为 0）
func (c *Client) SignUp(ctx context.Context, in models.SignUpInput) (int64, error) {
	resp, err := c.do(ctx, auth.Session{}, request{
		method: http.MethodPost,
		path:   "/users/signup",
		body:   in,
	})
	if err != nil {
		return 0, err
	}
	return idFromLocation(resp.header), nil
}

// CheckEmail 返回邮箱是否已被注册
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	_, err := c.do(ctx, auth.Session{}, request{
		method: http.MethodPost,
		path:   "/users/check-email",
		body:   map[string]string{"email": email},
		out:    &exists,
	})
	return exists, err
}

// Login 返回 access token。token 优先取 Authorization 头，其次取响应体
func (c *Client) Login(ctx context.Context, in models.LoginInput) (string, error) {
	var body struct {
		AccessToken string `json:"accessToken"`
	}
	resp, err := c.do(ctx, auth.Session{}, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   in,
		out:    &body,
	})
	if err != nil {
		return "", err
	}

	token := auth.StripBearer(resp.header.Get("Authorization"))
	if token == "" {
		token = auth.StripBearer(body.AccessToken)
	}
	if token == "" {
		return "", &Error{Status: http.StatusUnauthorized, Method: http.MethodPost, Path: "/auth/login", Message: "no access token in response"}
	}
	return token, nil
}

func (c *Client) GetUserProfile(ctx context.Context, sess auth.Session, userID int64) (*models.UserProfile, error) {
	var out models.Single[models.UserProfile]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/users/%d/profile", userID),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) PatchUserProfile(ctx context.Context, sess auth.Session, userID int64, in models.ProfilePatch) (*models.UserProfile, error) {
	var out models.Single[models.UserProfile]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodPatch,
		path:   idPath("/users/%d", userID),
		body:   in,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteUser(ctx context.Context, sess auth.Session, userID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   idPath("/users/%d", userID),
	})
	return err
}
