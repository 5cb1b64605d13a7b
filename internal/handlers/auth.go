package handlers

import (
	"errors"
	"net/http"
	"strings"

	"folio/internal/api"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const captchaKey = "captcha_answer"

type AuthHandler struct {
	accounts       *services.AccountService
	captchaService *services.CaptchaService
}

func NewAuthHandler(accounts *services.AccountService, captcha *services.CaptchaService) *AuthHandler {
	return &AuthHandler{accounts: accounts, captchaService: captcha}
}

// renderRegister 每次渲染注册页都换一道新题
func (h *AuthHandler) renderRegister(c *gin.Context, code int, data gin.H) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set(captchaKey, answer)
	_ = session.Save()

	if data == nil {
		data = gin.H{}
	}
	data["Captcha"] = question
	data["Title"] = "注册"
	Render(c, code, "auth/register.html", data)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	in := models.SignUpInput{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Name:     c.PostForm("name"),
	}
	form := gin.H{"Email": in.Email, "Name": in.Name}

	session := sessions.Default(c)
	if !h.captchaService.Verify(session.Get(captchaKey), c.PostForm("captcha")) {
		form["Error"] = "验证码错误"
		h.renderRegister(c, http.StatusBadRequest, form)
		return
	}
	session.Delete(captchaKey)
	_ = session.Save()

	if err := h.accounts.SignUp(c.Request.Context(), in); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			form["Error"] = "邮箱已注册"
			h.renderRegister(c, http.StatusConflict, form)
		case isInvalid(err):
			form["Error"] = "请填写有效的邮箱、昵称，密码至少 8 位"
			h.renderRegister(c, http.StatusBadRequest, form)
		default:
			HandleError(c, err)
		}
		return
	}

	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "注册成功，请登录", "Email": in.Email, "Title": "登录"})
}

// safeNext 只允许站内相对路径，防止开放重定向
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.GetSession(c).Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Next": safeNext(c.Query("next")), "Title": "登录"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	next := safeNext(c.PostForm("next"))

	sess, err := h.accounts.Login(c.Request.Context(), models.LoginInput{
		Username: email,
		Password: c.PostForm("password"),
	})
	if err != nil {
		msg := "邮箱或密码错误"
		code := http.StatusUnauthorized
		if !isInvalid(err) && !api.IsUnauthorized(err) && !api.IsNotFound(err) {
			HandleError(c, err)
			return
		}
		Render(c, code, "auth/login.html", gin.H{"Error": msg, "Email": email, "Next": next, "Title": "登录"})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.TokenKey, sess.Token)
	if err := session.Save(); err != nil {
		HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}
