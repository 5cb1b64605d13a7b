package services

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/api"
	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/logger"
	"folio/internal/models"
)

// CommentAPI 评论相关的上游接口
type CommentAPI interface {
	CreateUserComment(ctx context.Context, sess auth.Session, in models.UserCommentInput) error
	PatchUserComment(ctx context.Context, sess auth.Session, commentID int64, in models.UserCommentPatch) error
	DeleteUserComment(ctx context.Context, sess auth.Session, commentID int64) error
	ListCommentsToUser(ctx context.Context, sess auth.Session, userID int64, p api.PageQuery) (*models.Page[models.UserComment], error)
	ListCommentsByWriter(ctx context.Context, sess auth.Session, writerID int64, p api.PageQuery) (*models.Page[models.UserComment], error)
	ListPortfolioCommentsByUser(ctx context.Context, sess auth.Session, userID int64, p api.PageQuery) (*models.Page[models.UserComment], error)

	ListPortfolioComments(ctx context.Context, sess auth.Session, portfolioID int64, p api.PageQuery) (*models.Page[models.PortfolioComment], error)
	CreatePortfolioComment(ctx context.Context, sess auth.Session, in models.PortfolioCommentInput) error
	PatchPortfolioComment(ctx context.Context, sess auth.Session, commentID int64, in models.PortfolioCommentPatch) error
	DeletePortfolioComment(ctx context.Context, sess auth.Session, commentID int64) error
}

type CommentService struct {
	api      CommentAPI
	cache    *cache.Cache
	inv      cache.Invalidator
	pageSize int
}

func NewCommentService(client CommentAPI, c *cache.Cache, inv cache.Invalidator, pageSize int) *CommentService {
	return &CommentService{api: client, cache: c, inv: inv, pageSize: pageSize}
}

func (s *CommentService) page(n int) api.PageQuery {
	return api.PageQuery{Page: n, Size: s.pageSize}
}

// invalidateGuestbook 留言变化后让留言作者写过的留言列表和主页留言板失效
func (s *CommentService) invalidateGuestbook(writerID, targetID int64) {
	s.inv.Invalidate(cache.TopicUserComments, writerID)
	s.inv.Invalidate(cache.TopicCommentsToUser, targetID)
}

// PostUserComment 在 targetID 的主页上留言。
// 无法确定留言者时不做任何请求；失败时只记录日志，不让缓存失效，也不重试
func (s *CommentService) PostUserComment(ctx context.Context, sess auth.Session, targetID int64, content string, status models.CommentStatus) error {
	if sess.ViewerID <= 0 {
		return nil
	}

	in := models.UserCommentInput{
		UserID:            targetID,
		WriterID:          sess.ViewerID,
		Content:           strings.TrimSpace(content),
		UserCommentStatus: status,
	}
	if err := check(in); err != nil {
		return err
	}

	if err := s.api.CreateUserComment(ctx, sess, in); err != nil {
		logger.CtxWithError(ctx, "post user comment failed", err, "target_id", targetID)
		return fmt.Errorf("post user comment: %w", err)
	}

	s.invalidateGuestbook(sess.ViewerID, targetID)
	return nil
}

// PatchUserComment 只有留言作者能编辑，作者即当前用户
func (s *CommentService) PatchUserComment(ctx context.Context, sess auth.Session, targetID, commentID int64, content string, status models.CommentStatus) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	in := models.UserCommentPatch{Content: strings.TrimSpace(content), UserCommentStatus: status}
	if err := check(in); err != nil {
		return err
	}
	if err := s.api.PatchUserComment(ctx, sess, commentID, in); err != nil {
		logger.CtxWithError(ctx, "patch user comment failed", err, "comment_id", commentID)
		return fmt.Errorf("patch user comment: %w", err)
	}
	s.invalidateGuestbook(sess.ViewerID, targetID)
	return nil
}

// DeleteUserComment 作者或主页主人都可以删除。
// 主页主人删除时不知道作者是谁，只能让所有"写过的留言"列表失效
func (s *CommentService) DeleteUserComment(ctx context.Context, sess auth.Session, targetID, commentID int64) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.DeleteUserComment(ctx, sess, commentID); err != nil {
		logger.CtxWithError(ctx, "delete user comment failed", err, "comment_id", commentID)
		return fmt.Errorf("delete user comment: %w", err)
	}
	if sess.ViewerID == targetID {
		s.inv.InvalidateTopic(cache.TopicUserComments)
		s.inv.Invalidate(cache.TopicCommentsToUser, targetID)
		return nil
	}
	s.invalidateGuestbook(sess.ViewerID, targetID)
	return nil
}

func visible(p *models.Page[models.UserComment], viewerID int64) *models.Page[models.UserComment] {
	out := *p
	out.Data = make([]models.UserComment, 0, len(p.Data))
	for _, c := range p.Data {
		if c.VisibleTo(viewerID) {
			out.Data = append(out.Data, c)
		}
	}
	return &out
}

// CommentsToUser 主页留言板，PRIVATE 留言只有主页主人和作者能看到
func (s *CommentService) CommentsToUser(ctx context.Context, sess auth.Session, userID int64, page int) (*models.Page[models.UserComment], error) {
	key := cache.Key{Topic: cache.TopicCommentsToUser, ID: userID, Viewer: sess.ViewerID, Variant: fmt.Sprintf("page=%d", page)}
	p, err := cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.UserComment], error) {
		return s.api.ListCommentsToUser(ctx, sess, userID, s.page(page))
	})
	if err != nil {
		return nil, err
	}
	return visible(p, sess.ViewerID), nil
}

// CommentsByUser 用户在作品下写过的评论
func (s *CommentService) CommentsByUser(ctx context.Context, sess auth.Session, userID int64, page int) (*models.Page[models.UserComment], error) {
	key := cache.Key{Topic: cache.TopicUserComments, ID: userID, Viewer: sess.ViewerID, Variant: fmt.Sprintf("portfolio:page=%d", page)}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.UserComment], error) {
		return s.api.ListPortfolioCommentsByUser(ctx, sess, userID, s.page(page))
	})
}

// GuestbookByWriter 用户在别人主页上写过的留言
func (s *CommentService) GuestbookByWriter(ctx context.Context, sess auth.Session, writerID int64, page int) (*models.Page[models.UserComment], error) {
	key := cache.Key{Topic: cache.TopicUserComments, ID: writerID, Viewer: sess.ViewerID, Variant: fmt.Sprintf("guestbook:page=%d", page)}
	p, err := cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.UserComment], error) {
		return s.api.ListCommentsByWriter(ctx, sess, writerID, s.page(page))
	})
	if err != nil {
		return nil, err
	}
	return visible(p, sess.ViewerID), nil
}

func (s *CommentService) ListPortfolioComments(ctx context.Context, sess auth.Session, portfolioID int64, page int) (*models.Page[models.PortfolioComment], error) {
	key := cache.Key{Topic: cache.TopicPortfolioComments, ID: portfolioID, Viewer: sess.ViewerID, Variant: fmt.Sprintf("page=%d", page)}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.PortfolioComment], error) {
		return s.api.ListPortfolioComments(ctx, sess, portfolioID, s.page(page))
	})
}

func (s *CommentService) invalidatePortfolio(portfolioID, authorID int64) {
	s.inv.Invalidate(cache.TopicPortfolioComments, portfolioID)
	s.inv.Invalidate(cache.TopicUserComments, authorID)
}

func (s *CommentService) PostPortfolioComment(ctx context.Context, sess auth.Session, portfolioID int64, content string) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	in := models.PortfolioCommentInput{UserID: sess.ViewerID, PortfolioID: portfolioID, Content: strings.TrimSpace(content)}
	if err := check(in); err != nil {
		return err
	}
	if err := s.api.CreatePortfolioComment(ctx, sess, in); err != nil {
		logger.CtxWithError(ctx, "post portfolio comment failed", err, "portfolio_id", portfolioID)
		return fmt.Errorf("post portfolio comment: %w", err)
	}
	s.invalidatePortfolio(portfolioID, sess.ViewerID)
	return nil
}

func (s *CommentService) PatchPortfolioComment(ctx context.Context, sess auth.Session, portfolioID, commentID int64, content string) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	in := models.PortfolioCommentPatch{Content: strings.TrimSpace(content)}
	if err := check(in); err != nil {
		return err
	}
	if err := s.api.PatchPortfolioComment(ctx, sess, commentID, in); err != nil {
		logger.CtxWithError(ctx, "patch portfolio comment failed", err, "comment_id", commentID)
		return fmt.Errorf("patch portfolio comment: %w", err)
	}
	s.invalidatePortfolio(portfolioID, sess.ViewerID)
	return nil
}

func (s *CommentService) DeletePortfolioComment(ctx context.Context, sess auth.Session, portfolioID, commentID int64) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.DeletePortfolioComment(ctx, sess, commentID); err != nil {
		logger.CtxWithError(ctx, "delete portfolio comment failed", err, "comment_id", commentID)
		return fmt.Errorf("delete portfolio comment: %w", err)
	}
	s.invalidatePortfolio(portfolioID, sess.ViewerID)
	return nil
}
