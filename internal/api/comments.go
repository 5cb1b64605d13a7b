package api

import (
	"context"
	"net/http"

	"folio/internal/auth"
	"folio/internal/models"
)

func (c *Client) ListPortfolioComments(ctx context.Context, sess auth.Session, portfolioID int64, p PageQuery) (*models.Page[models.PortfolioComment], error) {
	var out models.Page[models.PortfolioComment]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/portfolios/%d/portfoliocomments", portfolioID),
		query:  p.values(),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPortfolioCommentsByUser 某用户写过的作品评论
func (c *Client) ListPortfolioCommentsByUser(ctx context.Context, sess auth.Session, userID int64, p PageQuery) (*models.Page[models.UserComment], error) {
	var out models.Page[models.UserComment]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/users/%d/portfoliocomments", userID),
		query:  p.values(),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePortfolioComment(ctx context.Context, sess auth.Session, in models.PortfolioCommentInput) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/portfoliocomments",
		body:   in,
	})
	return err
}

func (c *Client) PatchPortfolioComment(ctx context.Context, sess auth.Session, commentID int64, in models.PortfolioCommentPatch) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPatch,
		path:   idPath("/portfoliocomments/%d", commentID),
		body:   in,
	})
	return err
}

func (c *Client) DeletePortfolioComment(ctx context.Context, sess auth.Session, commentID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   idPath("/portfoliocomments/%d", commentID),
	})
	return err
}

func (c *Client) CreateUserComment(ctx context.Context, sess auth.Session, in models.UserCommentInput) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/api/usercomments",
		body:   in,
	})
	return err
}

func (c *Client) PatchUserComment(ctx context.Context, sess auth.Session, commentID int64, in models.UserCommentPatch) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPatch,
		path:   idPath("/api/usercomments/%d", commentID),
		body:   in,
	})
	return err
}

func (c *Client) DeleteUserComment(ctx context.Context, sess auth.Session, commentID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   idPath("/api/usercomments/%d", commentID),
	})
	return err
}

// ListCommentsToUser 写在 userID 主页上的留言
func (c *Client) ListCommentsToUser(ctx context.Context, sess auth.Session, userID int64, p PageQuery) (*models.Page[models.UserComment], error) {
	var out models.Page[models.UserComment]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/api/usercomments/users/%d", userID),
		query:  p.values(),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCommentsByWriter writerID 在别人主页上写过的留言
func (c *Client) ListCommentsByWriter(ctx context.Context, sess auth.Session, writerID int64, p PageQuery) (*models.Page[models.UserComment], error) {
	var out models.Page[models.UserComment]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/api/usercomments/writers/%d", writerID),
		query:  p.values(),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
