package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"folio/internal/api"
	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"

	"github.com/stretchr/testify/require"
)

type invalidation struct {
	Topic cache.Topic
	ID    int64
	All   bool
}

// recordingInvalidator 记录失效调用，同时转发给真实缓存
type recordingInvalidator struct {
	mu    sync.Mutex
	calls []invalidation
	next  cache.Invalidator
}

func (r *recordingInvalidator) Invalidate(topic cache.Topic, id int64) {
	r.mu.Lock()
	r.calls = append(r.calls, invalidation{Topic: topic, ID: id})
	r.mu.Unlock()
	if r.next != nil {
		r.next.Invalidate(topic, id)
	}
}

func (r *recordingInvalidator) InvalidateTopic(topic cache.Topic) {
	r.mu.Lock()
	r.calls = append(r.calls, invalidation{Topic: topic, All: true})
	r.mu.Unlock()
	if r.next != nil {
		r.next.InvalidateTopic(topic)
	}
}

func (r *recordingInvalidator) Calls() []invalidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invalidation(nil), r.calls...)
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(100, time.Minute, time.Second)
	require.NoError(t, err)
	return c
}

// fakeAPI 实现所有 service 依赖的上游接口
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	err   error
	// likeErr 只作用于 Like/Unlike
	likeErr error

	createdUserComments []models.UserCommentInput
	commentsToUser      *models.Page[models.UserComment]
	commentsByWriter    *models.Page[models.UserComment]
	portfolio           *models.Portfolio
	portfolioComments   *models.Page[models.PortfolioComment]
	commentsErr         error
	views               map[int64]int
	block               chan struct{}
	loginToken          string
	emailTaken          bool
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) CreateUserComment(ctx context.Context, sess auth.Session, in models.UserCommentInput) error {
	f.mu.Lock()
	f.createdUserComments = append(f.createdUserComments, in)
	f.mu.Unlock()
	return f.record("CreateUserComment")
}

func (f *fakeAPI) PatchUserComment(ctx context.Context, sess auth.Session, commentID int64, in models.UserCommentPatch) error {
	return f.record("PatchUserComment")
}

func (f *fakeAPI) DeleteUserComment(ctx context.Context, sess auth.Session, commentID int64) error {
	return f.record("DeleteUserComment")
}

func (f *fakeAPI) ListCommentsToUser(ctx context.Context, sess auth.Session, userID int64, p api.PageQuery) (*models.Page[models.UserComment], error) {
	if err := f.record("ListCommentsToUser"); err != nil {
		return nil, err
	}
	return f.commentsToUser, nil
}

func (f *fakeAPI) ListCommentsByWriter(ctx context.Context, sess auth.Session, writerID int64, p api.PageQuery) (*models.Page[models.UserComment], error) {
	if err := f.record("ListCommentsByWriter"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentsByWriter == nil {
		return &models.Page[models.UserComment]{CurrentPage: 1}, nil
	}
	return f.commentsByWriter, nil
}

func (f *fakeAPI) ListPortfolioCommentsByUser(ctx context.Context, sess auth.Session, userID int64, p api.PageQuery) (*models.Page[models.UserComment], error) {
	if err := f.record("ListPortfolioCommentsByUser"); err != nil {
		return nil, err
	}
	return &models.Page[models.UserComment]{CurrentPage: 1}, nil
}

func (f *fakeAPI) ListPortfolioComments(ctx context.Context, sess auth.Session, portfolioID int64, p api.PageQuery) (*models.Page[models.PortfolioComment], error) {
	f.record("ListPortfolioComments")
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	if f.portfolioComments == nil {
		return &models.Page[models.PortfolioComment]{CurrentPage: 1}, nil
	}
	return f.portfolioComments, nil
}

func (f *fakeAPI) CreatePortfolioComment(ctx context.Context, sess auth.Session, in models.PortfolioCommentInput) error {
	return f.record("CreatePortfolioComment")
}

func (f *fakeAPI) PatchPortfolioComment(ctx context.Context, sess auth.Session, commentID int64, in models.PortfolioCommentPatch) error {
	return f.record("PatchPortfolioComment")
}

func (f *fakeAPI) DeletePortfolioComment(ctx context.Context, sess auth.Session, commentID int64) error {
	return f.record("DeletePortfolioComment")
}

func (f *fakeAPI) Like(ctx context.Context, sess auth.Session, portfolioID int64) error {
	if err := f.record("Like"); err != nil {
		return err
	}
	return f.likeErr
}

func (f *fakeAPI) Unlike(ctx context.Context, sess auth.Session, portfolioID int64) error {
	if err := f.record("Unlike"); err != nil {
		return err
	}
	return f.likeErr
}

func (f *fakeAPI) IncreaseViewCount(ctx context.Context, portfolioID int64) error {
	f.mu.Lock()
	if f.views == nil {
		f.views = make(map[int64]int)
	}
	f.views[portfolioID]++
	f.mu.Unlock()
	return f.record("IncreaseViewCount")
}

func (f *fakeAPI) Views(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views[id]
}

func (f *fakeAPI) SearchPortfolios(ctx context.Context, sess auth.Session, q api.SearchQuery) (*models.Page[models.PortfolioSummary], error) {
	if err := f.record("SearchPortfolios"); err != nil {
		return nil, err
	}
	return &models.Page[models.PortfolioSummary]{CurrentPage: q.Page}, nil
}

func (f *fakeAPI) ListUserPortfolios(ctx context.Context, sess auth.Session, userID int64, sortBy models.SortOption, p api.PageQuery) (*models.Page[models.PortfolioSummary], error) {
	if err := f.record("ListUserPortfolios"); err != nil {
		return nil, err
	}
	return &models.Page[models.PortfolioSummary]{CurrentPage: p.Page}, nil
}

func (f *fakeAPI) GetPortfolio(ctx context.Context, sess auth.Session, id int64) (*models.Portfolio, error) {
	if err := f.record("GetPortfolio"); err != nil {
		return nil, err
	}
	p := *f.portfolio
	return &p, nil
}

func (f *fakeAPI) CreatePortfolio(ctx context.Context, sess auth.Session, in models.PortfolioInput) (int64, error) {
	if err := f.record("CreatePortfolio"); err != nil {
		return 0, err
	}
	return 99, nil
}

func (f *fakeAPI) PatchPortfolio(ctx context.Context, sess auth.Session, id int64, in models.PortfolioInput) error {
	return f.record("PatchPortfolio")
}

func (f *fakeAPI) DeletePortfolio(ctx context.Context, sess auth.Session, id int64) error {
	return f.record("DeletePortfolio")
}

func (f *fakeAPI) GetUserProfile(ctx context.Context, sess auth.Session, userID int64) (*models.UserProfile, error) {
	if err := f.record("GetUserProfile"); err != nil {
		return nil, err
	}
	return &models.UserProfile{UserID: userID, Name: "kim"}, nil
}

func (f *fakeAPI) PatchUserProfile(ctx context.Context, sess auth.Session, userID int64, in models.ProfilePatch) (*models.UserProfile, error) {
	if err := f.record("PatchUserProfile"); err != nil {
		return nil, err
	}
	return &models.UserProfile{UserID: userID, Name: in.Name}, nil
}

func (f *fakeAPI) SignUp(ctx context.Context, in models.SignUpInput) (int64, error) {
	if err := f.record("SignUp"); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeAPI) CheckEmail(ctx context.Context, email string) (bool, error) {
	if err := f.record("CheckEmail"); err != nil {
		return false, err
	}
	return f.emailTaken, nil
}

func (f *fakeAPI) Login(ctx context.Context, in models.LoginInput) (string, error) {
	if err := f.record("Login"); err != nil {
		return "", err
	}
	return f.loginToken, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, sess auth.Session, userID int64) error {
	return f.record("DeleteUser")
}
