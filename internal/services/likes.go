package services

import (
	"context"
	"fmt"
	"sync"

	"folio/internal/api"
	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/logger"
	"folio/internal/models"
)

type LikeAPI interface {
	Like(ctx context.Context, sess auth.Session, portfolioID int64) error
	Unlike(ctx context.Context, sess auth.Session, portfolioID int64) error
}

// PortfolioReader 冲突时用来重新读取作品的点赞状态
type PortfolioReader interface {
	Get(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error)
}

// LikeState 点赞按钮渲染所需的状态
type LikeState struct {
	PortfolioID int64
	Liked       bool
	LikesCount  int64
}

type likeKey struct {
	viewer    int64
	portfolio int64
}

type LikeService struct {
	api        LikeAPI
	inv        cache.Invalidator
	portfolios PortfolioReader

	mu      sync.Mutex
	pending map[likeKey]struct{}
}

func NewLikeService(client LikeAPI, inv cache.Invalidator, portfolios PortfolioReader) *LikeService {
	return &LikeService{
		api:        client,
		inv:        inv,
		portfolios: portfolios,
		pending:    make(map[likeKey]struct{}),
	}
}

func (s *LikeService) acquire(k likeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[k]; ok {
		return false
	}
	s.pending[k] = struct{}{}
	return true
}

func (s *LikeService) release(k likeKey) {
	s.mu.Lock()
	delete(s.pending, k)
	s.mu.Unlock()
}

// Toggle 根据当前状态点赞或取消点赞。
// 同一用户对同一作品的请求未完成前，再次切换直接返回 ErrToggleInFlight
func (s *LikeService) Toggle(ctx context.Context, sess auth.Session, portfolioID int64, current bool, count int64) (LikeState, error) {
	state := LikeState{PortfolioID: portfolioID, Liked: current, LikesCount: count}
	if !sess.Authenticated() {
		return state, ErrNotAuthenticated
	}

	k := likeKey{viewer: sess.ViewerID, portfolio: portfolioID}
	if !s.acquire(k) {
		return state, ErrToggleInFlight
	}
	defer s.release(k)

	var err error
	if current {
		err = s.api.Unlike(ctx, sess, portfolioID)
	} else {
		err = s.api.Like(ctx, sess, portfolioID)
	}
	if err != nil {
		if api.IsConflict(err) {
			// 页面上的状态已过期（例如在另一个标签页操作过），以服务端为准
			return s.resync(ctx, sess, state, err)
		}
		logger.CtxWithError(ctx, "toggle like failed", err, "portfolio_id", portfolioID, "liked", current)
		return state, fmt.Errorf("toggle like: %w", err)
	}

	state.Liked = !current
	if state.Liked {
		state.LikesCount++
	} else if state.LikesCount > 0 {
		state.LikesCount--
	}

	// 列表中的点赞数也会变化，作者 ID 未知时整体失效
	s.inv.Invalidate(cache.TopicPortfolio, portfolioID)
	s.inv.InvalidateTopic(cache.TopicPortfolioSearch)
	s.inv.InvalidateTopic(cache.TopicUserPortfolios)
	return state, nil
}

func (s *LikeService) resync(ctx context.Context, sess auth.Session, state LikeState, cause error) (LikeState, error) {
	s.inv.Invalidate(cache.TopicPortfolio, state.PortfolioID)
	if s.portfolios == nil {
		return state, fmt.Errorf("toggle like: %w", cause)
	}
	p, err := s.portfolios.Get(ctx, sess, state.PortfolioID)
	if err != nil {
		logger.CtxWithError(ctx, "reload like state failed", err, "portfolio_id", state.PortfolioID)
		return state, fmt.Errorf("toggle like: %w", cause)
	}
	logger.CtxWarn(ctx, "stale like state, reloaded", "portfolio_id", state.PortfolioID, "liked", p.Likes)
	return LikeState{PortfolioID: state.PortfolioID, Liked: p.Likes, LikesCount: p.LikesCount}, nil
}
