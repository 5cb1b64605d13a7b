package middleware

import (
	"net/http"
	"net/url"

	"folio/internal/auth"
	"folio/internal/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionKey gin 上下文中 auth.Session 的键
	SessionKey = "session"
	// TokenKey cookie session 中保存 access token 的键
	TokenKey = "access_token"
)

// LoadSession 从 cookie 中取出 access token 并构造 auth.Session
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessions.Default(c)

		var sess auth.Session
		if token, ok := store.Get(TokenKey).(string); ok && token != "" {
			sess = auth.NewSession(token)
			if !sess.Authenticated() {
				// token 已损坏或过期，清掉后按未登录处理
				store.Delete(TokenKey)
				_ = store.Save()
			}
		}

		c.Set(SessionKey, sess)
		if sess.ViewerID > 0 {
			c.Request = c.Request.WithContext(logger.WithViewerID(c.Request.Context(), sess.ViewerID))
		}
		c.Next()
	}
}

// GetSession 返回当前请求的登录态，未登录时为零值
func GetSession(c *gin.Context) auth.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(auth.Session); ok {
			return sess
		}
	}
	return auth.Session{}
}

func IsHtmx(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c).Authenticated() {
			c.Next()
			return
		}

		target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		if IsHtmx(c) {
			c.Header("HX-Redirect", target)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}
