package router

import (
	"net/http"

	"folio/internal/api"
	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/services"
	"folio/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Portfolio *handlers.PortfolioHandler
	Like      *handlers.LikeHandler
	Comment   *handlers.CommentHandler
	User      *handlers.UserHandler
	Auth      *handlers.AuthHandler
	SEO       *handlers.SEOHandler
}

// App 持有需要在退出时关闭的后台组件
type App struct {
	Engine *gin.Engine
	Views  *services.ViewRecorder
}

func (a *App) Close() {
	a.Views.Close()
}

// New 组装缓存、服务、模板与路由
func New(cfg *config.Config) (*App, error) {
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	qc, err := cache.New(cfg.Cache.Size, cfg.Cache.TTL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	views := services.NewViewRecorder(client, qc, cfg.Views.Workers, cfg.Views.QueueSize, cfg.RequestTimeout)
	views.Start()

	comments := services.NewCommentService(client, qc, qc, cfg.PageSize)
	portfolios := services.NewPortfolioService(client, comments, qc, qc, views, cfg.PageSize)
	likes := services.NewLikeService(client, qc, portfolios)
	users := services.NewUserService(client, qc, qc)
	accounts := services.NewAccountService(client, qc)

	h := Handlers{
		Portfolio: handlers.NewPortfolioHandler(portfolios, cfg.RenderWait),
		Like:      handlers.NewLikeHandler(likes),
		Comment:   handlers.NewCommentHandler(comments),
		User:      handlers.NewUserHandler(users, portfolios, comments, accounts),
		Auth:      handlers.NewAuthHandler(accounts, services.NewCaptchaService()),
		SEO:       handlers.NewSEOHandler(portfolios, cfg.SiteURL),
	}

	tmpl, err := web.LoadTemplates(web.Templates())
	if err != nil {
		views.Close()
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("folio_session", store))
	r.Use(middleware.LoadSession())

	r.HTMLRender = tmpl
	RegisterRoutes(r, h)

	return &App{Engine: r, Views: views}, nil
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// 公共路由 (Public Routes)
	r.GET("/", h.Portfolio.List)                                   // 首页 - 搜索与排序
	r.GET("/portfolios/:id", h.Portfolio.Detail)                   // 作品详情，记录浏览
	r.GET("/portfolios/:id/content", h.Portfolio.Content)          // 详情片段，不计浏览
	r.GET("/portfolios/:id/comments", h.Comment.PortfolioComments) // 作品评论片段
	r.GET("/users/:id", h.User.Profile)                            // 用户主页
	r.GET("/users/:id/comments", h.Comment.UserComments)           // 主页留言板片段
	r.GET("/robots.txt", h.SEO.RobotsTxt)
	r.GET("/sitemap.xml", h.SEO.SitemapXML)

	r.GET("/signup", h.Auth.ShowRegister)
	r.POST("/signup", h.Auth.Register)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/submit", h.Portfolio.ShowCreate)
		authorized.POST("/submit", h.Portfolio.Create)
		authorized.GET("/portfolios/:id/edit", h.Portfolio.ShowEdit)
		authorized.POST("/portfolios/:id/edit", h.Portfolio.Update)
		authorized.DELETE("/portfolios/:id", h.Portfolio.Delete)

		authorized.POST("/portfolios/:id/like", h.Like.Toggle)

		authorized.POST("/portfolios/:id/comments", h.Comment.CreatePortfolioComment)
		authorized.PATCH("/portfolio-comments/:cid", h.Comment.UpdatePortfolioComment)
		authorized.DELETE("/portfolio-comments/:cid", h.Comment.DeletePortfolioComment)

		authorized.POST("/users/:id/comments", h.Comment.CreateUserComment)
		authorized.PATCH("/user-comments/:cid", h.Comment.UpdateUserComment)
		authorized.DELETE("/user-comments/:cid", h.Comment.DeleteUserComment)

		authorized.GET("/settings", h.User.ShowSettings)
		authorized.POST("/settings", h.User.UpdateSettings)
		authorized.POST("/settings/withdraw", h.User.Withdraw)
	}
}
