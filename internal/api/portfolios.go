package api

import (
	"context"
	"net/http"

	"folio/internal/auth"
	"folio/internal/models"
)

type SearchQuery struct {
	PageQuery
	Category models.SearchCategory
	SortBy   models.SortOption
	Value    string
}

func (c *Client) SearchPortfolios(ctx context.Context, sess auth.Session, q SearchQuery) (*models.Page[models.PortfolioSummary], error) {
	v := q.values()
	v.Set("sortBy", string(q.SortBy))
	if q.Value != "" {
		v.Set("category", string(q.Category))
		v.Set("value", q.Value)
	}

	var out models.Page[models.PortfolioSummary]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/portfolios/search",
		query:  v,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUserPortfolios(ctx context.Context, sess auth.Session, userID int64, sortBy models.SortOption, p PageQuery) (*models.Page[models.PortfolioSummary], error) {
	v := p.values()
	v.Set("sortBy", string(sortBy))

	var out models.Page[models.PortfolioSummary]
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/users/%d/portfolios", userID),
		query:  v,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPortfolio(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error) {
	var out models.Portfolio
	if _, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   idPath("/portfolios/%d", id),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePortfolio 返回新作品 ID；兼容响应体和 Location 两种返回方式
func (c *Client) CreatePortfolio(ctx context.Context, sess auth.Session, in models.PortfolioInput) (int64, error) {
	var out models.PortfolioCreated
	resp, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/portfolios",
		body:   in,
		out:    &out,
	})
	if err != nil {
		return 0, err
	}
	if out.PortfolioID > 0 {
		return out.PortfolioID, nil
	}
	return idFromLocation(resp.header), nil
}

func (c *Client) PatchPortfolio(ctx context.Context, sess auth.Session, id int64, in models.PortfolioInput) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPatch,
		path:   idPath("/portfolios/%d", id),
		body:   in,
	})
	return err
}

func (c *Client) DeletePortfolio(ctx context.Context, sess auth.Session, id int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   idPath("/portfolios/%d", id),
	})
	return err
}

// IncreaseViewCount 浏览量 +1，匿名访问也会计数
func (c *Client) IncreaseViewCount(ctx context.Context, id int64) error {
	_, err := c.do(ctx, auth.Session{}, request{
		method: http.MethodPost,
		path:   idPath("/portfolios/%d/views", id),
	})
	return err
}

func (c *Client) Like(ctx context.Context, sess auth.Session, id int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   idPath("/portfolios/%d/likes", id),
	})
	return err
}

func (c *Client) Unlike(ctx context.Context, sess auth.Session, id int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   idPath("/portfolios/%d/likes", id),
	})
	return err
}
