package services

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"folio/internal/api"
	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/logger"
	"folio/internal/models"
	"folio/internal/utils"

	"golang.org/x/sync/errgroup"
)

type PortfolioAPI interface {
	SearchPortfolios(ctx context.Context, sess auth.Session, q api.SearchQuery) (*models.Page[models.PortfolioSummary], error)
	ListUserPortfolios(ctx context.Context, sess auth.Session, userID int64, sortBy models.SortOption, p api.PageQuery) (*models.Page[models.PortfolioSummary], error)
	GetPortfolio(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error)
	CreatePortfolio(ctx context.Context, sess auth.Session, in models.PortfolioInput) (int64, error)
	PatchPortfolio(ctx context.Context, sess auth.Session, id int64, in models.PortfolioInput) error
	DeletePortfolio(ctx context.Context, sess auth.Session, id int64) error
}

// PortfolioCommentLister 详情页评论区的数据来源
type PortfolioCommentLister interface {
	ListPortfolioComments(ctx context.Context, sess auth.Session, portfolioID int64, page int) (*models.Page[models.PortfolioComment], error)
}

// ViewSink 接收浏览记录，不阻塞调用方
type ViewSink interface {
	Record(portfolioID int64) bool
}

type PortfolioService struct {
	api      PortfolioAPI
	comments PortfolioCommentLister
	cache    *cache.Cache
	inv      cache.Invalidator
	views    ViewSink
	pageSize int
}

func NewPortfolioService(client PortfolioAPI, comments PortfolioCommentLister, c *cache.Cache, inv cache.Invalidator, views ViewSink, pageSize int) *PortfolioService {
	return &PortfolioService{
		api:      client,
		comments: comments,
		cache:    c,
		inv:      inv,
		views:    views,
		pageSize: pageSize,
	}
}

// 详情页各区块

type TitleBlock struct {
	UserID           int64
	Name             string
	ProfileImg       string
	Title            string
	GitLink          string
	DistributionLink string
	Skills           []string
	CreatedAt        models.Timestamp
}

type ImageBlock struct {
	RepresentativeImgURL string
	ViewCount            int64
	LikesCount           int64
}

type CommentsBlock struct {
	PortfolioID int64
	Page        *models.Page[models.PortfolioComment]
	// Failed 评论加载失败，页面其余部分照常显示
	Failed bool
}

type DetailView struct {
	PortfolioID int64
	Title       TitleBlock
	Image       ImageBlock
	Description string
	Content     template.HTML
	Like        LikeState
	Comments    CommentsBlock
	// Auth 当前用户是作品作者，可编辑/删除
	Auth bool
}

func (s *PortfolioService) Get(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error) {
	key := cache.Key{Topic: cache.TopicPortfolio, ID: id, Viewer: sess.ViewerID}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Portfolio, error) {
		return s.api.GetPortfolio(ctx, sess, id)
	})
}

// RecordView 记录一次浏览，立即返回
func (s *PortfolioService) RecordView(id int64) {
	s.views.Record(id)
}

// Detail 并行获取作品与第一页评论并组装详情页。评论失败不影响作品展示
func (s *PortfolioService) Detail(ctx context.Context, sess auth.Session, id int64) (*DetailView, error) {
	var (
		portfolio *models.Portfolio
		comments  *models.Page[models.PortfolioComment]
		failed    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Get(gctx, sess, id)
		if err != nil {
			return err
		}
		portfolio = p
		return nil
	})
	g.Go(func() error {
		page, err := s.comments.ListPortfolioComments(gctx, sess, id, 1)
		if err != nil {
			if gctx.Err() == nil {
				logger.CtxWithError(ctx, "load portfolio comments failed", err, "portfolio_id", id)
			}
			failed = true
			return nil
		}
		comments = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assembleDetail(portfolio, comments, failed), nil
}

func assembleDetail(p *models.Portfolio, comments *models.Page[models.PortfolioComment], failed bool) *DetailView {
	return &DetailView{
		PortfolioID: p.PortfolioID,
		Title: TitleBlock{
			UserID:           p.UserID,
			Name:             p.Name,
			ProfileImg:       p.ProfileImg,
			Title:            p.Title,
			GitLink:          p.GitLink,
			DistributionLink: p.DistributionLink,
			Skills:           p.Skills,
			CreatedAt:        p.CreatedAt,
		},
		Image: ImageBlock{
			RepresentativeImgURL: p.RepresentativeImgURL,
			ViewCount:            p.ViewCount,
			LikesCount:           p.LikesCount,
		},
		Description: p.Description,
		Content:     utils.RenderMarkdown(p.Content),
		Like: LikeState{
			PortfolioID: p.PortfolioID,
			Liked:       p.Likes,
			LikesCount:  p.LikesCount,
		},
		Comments: CommentsBlock{
			PortfolioID: p.PortfolioID,
			Page:        comments,
			Failed:      failed,
		},
		Auth: p.Auth,
	}
}

type SearchParams struct {
	Page     int
	SortBy   models.SortOption
	Category models.SearchCategory
	Value    string
}

func (s *PortfolioService) Search(ctx context.Context, sess auth.Session, p SearchParams) (*models.Page[models.PortfolioSummary], error) {
	p.Value = strings.TrimSpace(p.Value)
	key := cache.Key{
		Topic:   cache.TopicPortfolioSearch,
		Viewer:  sess.ViewerID,
		Variant: fmt.Sprintf("page=%d&sort=%s&cat=%s&q=%s", p.Page, p.SortBy, p.Category, p.Value),
	}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.PortfolioSummary], error) {
		return s.api.SearchPortfolios(ctx, sess, api.SearchQuery{
			PageQuery: api.PageQuery{Page: p.Page, Size: s.pageSize},
			Category:  p.Category,
			SortBy:    p.SortBy,
			Value:     p.Value,
		})
	})
}

// Recent 最新发布的作品，供 sitemap 使用
func (s *PortfolioService) Recent(ctx context.Context, size int) ([]models.PortfolioSummary, error) {
	page, err := s.api.SearchPortfolios(ctx, auth.Session{}, api.SearchQuery{
		PageQuery: api.PageQuery{Page: 1, Size: size},
		SortBy:    models.SortCreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (s *PortfolioService) UserPortfolios(ctx context.Context, sess auth.Session, userID int64, sortBy models.SortOption, page int) (*models.Page[models.PortfolioSummary], error) {
	key := cache.Key{
		Topic:   cache.TopicUserPortfolios,
		ID:      userID,
		Viewer:  sess.ViewerID,
		Variant: fmt.Sprintf("page=%d&sort=%s", page, sortBy),
	}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.PortfolioSummary], error) {
		return s.api.ListUserPortfolios(ctx, sess, userID, sortBy, api.PageQuery{Page: page, Size: s.pageSize})
	})
}

func normalizeInput(in models.PortfolioInput) models.PortfolioInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.GitLink = strings.TrimSpace(in.GitLink)
	in.DistributionLink = strings.TrimSpace(in.DistributionLink)
	skills := make([]string, 0, len(in.Skills))
	for _, sk := range in.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	in.Skills = skills
	return in
}

func (s *PortfolioService) invalidateLists(ownerID int64) {
	s.inv.InvalidateTopic(cache.TopicPortfolioSearch)
	s.inv.Invalidate(cache.TopicUserPortfolios, ownerID)
}

func (s *PortfolioService) Create(ctx context.Context, sess auth.Session, in models.PortfolioInput) (int64, error) {
	if !sess.Authenticated() {
		return 0, ErrNotAuthenticated
	}
	in = normalizeInput(in)
	if err := check(in); err != nil {
		return 0, err
	}

	id, err := s.api.CreatePortfolio(ctx, sess, in)
	if err != nil {
		logger.CtxWithError(ctx, "create portfolio failed", err)
		return 0, fmt.Errorf("create portfolio: %w", err)
	}
	s.invalidateLists(sess.ViewerID)
	return id, nil
}

// editable 只有作者本人能编辑/删除
func (s *PortfolioService) editable(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error) {
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	p, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !p.Auth && p.UserID != sess.ViewerID {
		return nil, ErrForbidden
	}
	return p, nil
}

// ForEdit 返回编辑表单的初始值
func (s *PortfolioService) ForEdit(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error) {
	return s.editable(ctx, sess, id)
}

func (s *PortfolioService) Update(ctx context.Context, sess auth.Session, id int64, in models.PortfolioInput) error {
	p, err := s.editable(ctx, sess, id)
	if err != nil {
		return err
	}
	in = normalizeInput(in)
	if err := check(in); err != nil {
		return err
	}
	if err := s.api.PatchPortfolio(ctx, sess, id, in); err != nil {
		logger.CtxWithError(ctx, "update portfolio failed", err, "portfolio_id", id)
		return fmt.Errorf("update portfolio: %w", err)
	}
	s.inv.Invalidate(cache.TopicPortfolio, id)
	s.invalidateLists(p.UserID)
	return nil
}

func (s *PortfolioService) Delete(ctx context.Context, sess auth.Session, id int64) error {
	p, err := s.editable(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.api.DeletePortfolio(ctx, sess, id); err != nil {
		logger.CtxWithError(ctx, "delete portfolio failed", err, "portfolio_id", id)
		return fmt.Errorf("delete portfolio: %w", err)
	}
	s.inv.Invalidate(cache.TopicPortfolio, id)
	s.inv.Invalidate(cache.TopicPortfolioComments, id)
	s.invalidateLists(p.UserID)
	return nil
}
