package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session 是单次请求的登录态，由中间件从 cookie 中构造后显式传递
type Session struct {
	Token    string
	ViewerID int64
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.ViewerID > 0
}

// Owns 判断当前用户是否为 userID 本人
func (s Session) Owns(userID int64) bool {
	return s.Authenticated() && s.ViewerID == userID
}

// NewSession 从 access token 构造 Session；无法解析时返回匿名会话
func NewSession(token string) Session {
	token = StripBearer(token)
	id, err := ViewerIDFromToken(token)
	if err != nil {
		return Session{}
	}
	return Session{Token: token, ViewerID: id}
}

func StripBearer(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// ViewerIDFromToken 读取 JWT 中的 userId，不校验签名（签名由 API 校验），
// 但已过期的 token 视为无效
func ViewerIDFromToken(token string) (int64, error) {
	return viewerIDAt(token, time.Now())
}

func viewerIDAt(token string, now time.Time) (int64, error) {
	if token == "" {
		return 0, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("decode token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, fmt.Errorf("exp claim: %w", err)
	}
	if exp != nil && !now.Before(exp.Time) {
		return 0, jwt.ErrTokenExpired
	}

	raw, ok := claims["userId"]
	if !ok {
		return 0, fmt.Errorf("token has no userId claim")
	}

	var id int64
	switch v := raw.(type) {
	case float64:
		id = int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("userId claim: %w", err)
		}
		id = n
	default:
		return 0, fmt.Errorf("userId claim has type %T", raw)
	}

	if id <= 0 {
		return 0, fmt.Errorf("userId claim is not positive")
	}
	return id, nil
}
