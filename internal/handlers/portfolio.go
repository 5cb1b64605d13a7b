package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"
	"folio/internal/utils"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	portfolios *services.PortfolioService
	renderWait time.Duration
}

func NewPortfolioHandler(portfolios *services.PortfolioService, renderWait time.Duration) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, renderWait: renderWait}
}

// List 首页：搜索与排序
func (h *PortfolioHandler) List(c *gin.Context) {
	params := services.SearchParams{
		Page:     utils.PageParam(c.Query("page")),
		SortBy:   models.ParseSortOption(c.Query("sort")),
		Category: models.ParseSearchCategory(c.Query("category")),
		Value:    strings.TrimSpace(c.Query("q")),
	}

	page, err := h.portfolios.Search(c.Request.Context(), middleware.GetSession(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}

	q := url.Values{}
	q.Set("sort", string(params.SortBy))
	if params.Value != "" {
		q.Set("category", string(params.Category))
		q.Set("q", params.Value)
	}
	Render(c, http.StatusOK, "portfolio/list.html", gin.H{
		"Page":    page,
		"Params":  params,
		"BaseURL": "/?" + q.Encode() + "&",
	})
}

type detailResult struct {
	view *services.DetailView
	err  error
}

// Detail 作品详情。每次访问记录一次浏览；
// 数据在 renderWait 内没准备好时先返回加载骨架，由 Content 片段补齐
func (h *PortfolioHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
		return
	}

	h.portfolios.RecordView(id)

	sess := middleware.GetSession(c)
	ctx := c.Request.Context()
	done := make(chan detailResult, 1)
	go func() {
		view, err := h.portfolios.Detail(ctx, sess, id)
		done <- detailResult{view: view, err: err}
	}()

	timer := time.NewTimer(h.renderWait)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			HandleError(c, res.err)
			return
		}
		Render(c, http.StatusOK, "portfolio/detail.html", detailData(res.view))
	case <-timer.C:
		Render(c, http.StatusOK, "portfolio/loading.html", gin.H{"PortfolioID": id})
	}
}

func detailData(view *services.DetailView) gin.H {
	return gin.H{
		"View":        view,
		"Title":       view.Title.Title,
		"Description": view.Description,
	}
}

// Content 详情页正文片段，不计浏览量
func (h *PortfolioHandler) Content(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
		return
	}

	view, err := h.portfolios.Detail(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !middleware.IsHtmx(c) {
		Render(c, http.StatusOK, "portfolio/detail.html", detailData(view))
		return
	}
	Render(c, http.StatusOK, "fragments/content.html", detailData(view))
}

func bindPortfolioForm(c *gin.Context) models.PortfolioInput {
	return models.PortfolioInput{
		Title:            c.PostForm("title"),
		GitLink:          c.PostForm("git_link"),
		DistributionLink: c.PostForm("distribution_link"),
		Description:      c.PostForm("description"),
		Content:          c.PostForm("content"),
		Skills:           strings.Split(c.PostForm("skills"), ","),
	}
}

func (h *PortfolioHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "portfolio/form.html", gin.H{"Form": models.PortfolioInput{}, "Title": "发布作品"})
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	in := bindPortfolioForm(c)
	id, err := h.portfolios.Create(c.Request.Context(), middleware.GetSession(c), in)
	if err != nil {
		if isInvalid(err) {
			Render(c, http.StatusBadRequest, "portfolio/form.html", gin.H{"Form": in, "Error": "请检查标题、链接和正文"})
			return
		}
		HandleError(c, err)
		return
	}
	if id > 0 {
		Redirect(c, "/portfolios/"+utils.FormatID(id))
		return
	}
	Redirect(c, "/users/"+utils.FormatID(middleware.GetSession(c).ViewerID))
}

func (h *PortfolioHandler) ShowEdit(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
		return
	}
	p, err := h.portfolios.ForEdit(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Render(c, http.StatusOK, "portfolio/form.html", gin.H{
		"PortfolioID": id,
		"Title":       "编辑作品",
		"Form": models.PortfolioInput{
			Title:            p.Title,
			GitLink:          p.GitLink,
			DistributionLink: p.DistributionLink,
			Description:      p.Description,
			Content:          p.Content,
			Skills:           p.Skills,
		},
	})
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
		return
	}
	in := bindPortfolioForm(c)
	if err := h.portfolios.Update(c.Request.Context(), middleware.GetSession(c), id, in); err != nil {
		if isInvalid(err) {
			Render(c, http.StatusBadRequest, "portfolio/form.html", gin.H{"PortfolioID": id, "Form": in, "Error": "请检查标题、链接和正文"})
			return
		}
		HandleError(c, err)
		return
	}
	Redirect(c, "/portfolios/"+utils.FormatID(id))
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
		return
	}
	sess := middleware.GetSession(c)
	if err := h.portfolios.Delete(c.Request.Context(), sess, id); err != nil {
		HandleError(c, err)
		return
	}
	Redirect(c, "/users/"+utils.FormatID(sess.ViewerID))
}
