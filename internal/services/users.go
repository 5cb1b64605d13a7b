package services

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/logger"
	"folio/internal/models"
)

type UserAPI interface {
	GetUserProfile(ctx context.Context, sess auth.Session, userID int64) (*models.UserProfile, error)
	PatchUserProfile(ctx context.Context, sess auth.Session, userID int64, in models.ProfilePatch) (*models.UserProfile, error)
}

type UserService struct {
	api   UserAPI
	cache *cache.Cache
	inv   cache.Invalidator
}

func NewUserService(client UserAPI, c *cache.Cache, inv cache.Invalidator) *UserService {
	return &UserService{api: client, cache: c, inv: inv}
}

func (s *UserService) Profile(ctx context.Context, sess auth.Session, userID int64) (*models.UserProfile, error) {
	key := cache.Key{Topic: cache.TopicUserProfile, ID: userID, Viewer: sess.ViewerID}
	return cache.Query(ctx, s.cache, key, func(ctx context.Context) (*models.UserProfile, error) {
		return s.api.GetUserProfile(ctx, sess, userID)
	})
}

// UpdateProfile 只能修改自己的资料
func (s *UserService) UpdateProfile(ctx context.Context, sess auth.Session, userID int64, in models.ProfilePatch) (*models.UserProfile, error) {
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !sess.Owns(userID) {
		return nil, ErrForbidden
	}

	in.Name = strings.TrimSpace(in.Name)
	in.GitLink = strings.TrimSpace(in.GitLink)
	in.BlogLink = strings.TrimSpace(in.BlogLink)
	in.About = strings.TrimSpace(in.About)
	if err := check(in); err != nil {
		return nil, err
	}

	p, err := s.api.PatchUserProfile(ctx, sess, userID, in)
	if err != nil {
		logger.CtxWithError(ctx, "update profile failed", err, "user_id", userID)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.inv.Invalidate(cache.TopicUserProfile, userID)
	// 作品与评论列表里带着作者名
	s.inv.Invalidate(cache.TopicUserPortfolios, userID)
	s.inv.InvalidateTopic(cache.TopicPortfolioSearch)
	return p, nil
}
