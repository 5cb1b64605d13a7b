package handlers

import (
	"net/http"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"
	"folio/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users      *services.UserService
	portfolios *services.PortfolioService
	comments   *services.CommentService
	accounts   *services.AccountService
}

func NewUserHandler(users *services.UserService, portfolios *services.PortfolioService, comments *services.CommentService, accounts *services.AccountService) *UserHandler {
	return &UserHandler{users: users, portfolios: portfolios, comments: comments, accounts: accounts}
}

// Profile 用户主页标签：作品、留言板、TA 的评论、TA 的留言
func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "用户不存在")
		return
	}
	ctx := c.Request.Context()
	sess := middleware.GetSession(c)

	profile, err := h.users.Profile(ctx, sess, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	page := utils.PageParam(c.Query("page"))
	data := gin.H{
		"UserID":  id,
		"Profile": profile,
		"IsOwner": sess.Owns(id),
		"Title":   profile.Name,
	}

	switch tab := c.Query("tab"); tab {
	case "comments":
		data["Tab"] = tab
		data["Comments"], err = h.comments.CommentsToUser(ctx, sess, id, page)
	case "written":
		data["Tab"] = tab
		data["Written"], err = h.comments.CommentsByUser(ctx, sess, id, page)
	case "guestbook":
		data["Tab"] = tab
		data["Guestbook"], err = h.comments.GuestbookByWriter(ctx, sess, id, page)
	default:
		sort := models.ParseSortOption(c.Query("sort"))
		data["Tab"] = "portfolios"
		data["Sort"] = string(sort)
		data["Portfolios"], err = h.portfolios.UserPortfolios(ctx, sess, id, sort, page)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	Render(c, http.StatusOK, "user/profile.html", data)
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	sess := middleware.GetSession(c)
	profile, err := h.users.Profile(c.Request.Context(), sess, sess.ViewerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Render(c, http.StatusOK, "user/settings.html", gin.H{"Profile": profile, "Title": "个人设置"})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	sess := middleware.GetSession(c)
	in := models.ProfilePatch{
		Name:      c.PostForm("name"),
		GitLink:   c.PostForm("git_link"),
		BlogLink:  c.PostForm("blog_link"),
		JobStatus: c.PostForm("job_status"),
		About:     c.PostForm("about"),
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), sess, sess.ViewerID, in)
	if err != nil {
		if isInvalid(err) {
			Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
				"Profile": models.UserProfile{Name: in.Name, GitLink: in.GitLink, BlogLink: in.BlogLink, JobStatus: in.JobStatus, About: in.About},
				"Error":   "请检查昵称和链接格式",
			})
			return
		}
		HandleError(c, err)
		return
	}
	Render(c, http.StatusOK, "user/settings.html", gin.H{"Profile": profile, "Success": "已保存"})
}

// Withdraw 注销账号并退出登录
func (h *UserHandler) Withdraw(c *gin.Context) {
	if err := h.accounts.Withdraw(c.Request.Context(), middleware.GetSession(c)); err != nil {
		HandleError(c, err)
		return
	}
	store := sessions.Default(c)
	store.Clear()
	_ = store.Save()
	Redirect(c, "/")
}
