package handlers

import (
	"context"
	"errors"
	"net/http"

	"folio/internal/api"
	"folio/internal/logger"
	"folio/internal/middleware"
	"folio/internal/services"

	"github.com/gin-gonic/gin"
)

const genericError = "出错了，请稍后再试"

// Render 注入当前登录态和路径后渲染页面
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	obj["Session"] = middleware.GetSession(c)
	obj["CurrentPath"] = c.Request.URL.RequestURI()
	c.HTML(code, name, obj)
}

// HtmxRedirect 让 HTMX 在客户端跳转
func HtmxRedirect(c *gin.Context, path string) {
	c.Header("HX-Redirect", path)
	c.Status(http.StatusOK)
}

// Redirect 根据请求类型选择 HX-Redirect 或 302
func Redirect(c *gin.Context, path string) {
	if middleware.IsHtmx(c) {
		HtmxRedirect(c, path)
		return
	}
	c.Redirect(http.StatusFound, path)
}

// RenderError 完整页面请求渲染错误页，HTMX 请求只返回错误片段
func RenderError(c *gin.Context, code int, message string) {
	if middleware.IsHtmx(c) {
		// HTMX 默认不替换非 2xx 响应，由页面上的 htmx:responseError 处理
		c.HTML(code, "fragments/error.html", gin.H{"Error": message})
		return
	}
	Render(c, code, "error.html", gin.H{"Error": message})
}

// HandleError 把上游错误映射为页面响应，不向用户暴露具体原因
func HandleError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// 用户已离开页面
		c.Abort()
	case errors.Is(err, services.ErrNotAuthenticated), api.IsUnauthorized(err):
		Redirect(c, "/login?next="+c.Request.URL.Path)
	case errors.Is(err, services.ErrForbidden), api.IsForbidden(err):
		RenderError(c, http.StatusForbidden, "没有权限执行此操作")
	case api.IsNotFound(err):
		RenderError(c, http.StatusNotFound, "内容不存在或已被删除")
	case errors.Is(err, services.ErrInvalidInput):
		RenderError(c, http.StatusBadRequest, "输入内容不符合要求")
	default:
		logger.CtxWithError(ctx, "request failed", err, "path", c.Request.URL.Path)
		RenderError(c, http.StatusInternalServerError, genericError)
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, services.ErrInvalidInput)
}
