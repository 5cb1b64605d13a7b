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

type AccountAPI interface {
	SignUp(ctx context.Context, in models.SignUpInput) (int64, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, in models.LoginInput) (string, error)
	DeleteUser(ctx context.Context, sess auth.Session, userID int64) error
}

type AccountService struct {
	api AccountAPI
	inv cache.Invalidator
}

func NewAccountService(client AccountAPI, inv cache.Invalidator) *AccountService {
	return &AccountService{api: client, inv: inv}
}

func (s *AccountService) SignUp(ctx context.Context, in models.SignUpInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return err
	}

	exists, err := s.api.CheckEmail(ctx, in.Email)
	if err != nil {
		logger.CtxWithError(ctx, "check email failed", err)
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	if _, err := s.api.SignUp(ctx, in); err != nil {
		if api.IsConflict(err) {
			return ErrEmailTaken
		}
		logger.CtxWithError(ctx, "sign up failed", err)
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// Login 换取 access token 并解析出当前用户
func (s *AccountService) Login(ctx context.Context, in models.LoginInput) (auth.Session, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	if err := check(in); err != nil {
		return auth.Session{}, err
	}

	token, err := s.api.Login(ctx, in)
	if err != nil {
		return auth.Session{}, fmt.Errorf("login: %w", err)
	}

	sess := auth.NewSession(token)
	if !sess.Authenticated() {
		return auth.Session{}, fmt.Errorf("login: access token carries no user id")
	}
	return sess, nil
}

// Withdraw 注销自己的账号
func (s *AccountService) Withdraw(ctx context.Context, sess auth.Session) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.DeleteUser(ctx, sess, sess.ViewerID); err != nil {
		logger.CtxWithError(ctx, "withdraw failed", err)
		return fmt.Errorf("withdraw: %w", err)
	}
	s.inv.Invalidate(cache.TopicUserProfile, sess.ViewerID)
	s.inv.Invalidate(cache.TopicUserPortfolios, sess.ViewerID)
	s.inv.InvalidateTopic(cache.TopicPortfolioSearch)
	return nil
}
