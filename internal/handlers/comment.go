package handlers

import (
	"net/http"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"
	"folio/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func statusFromForm(c *gin.Context) models.CommentStatus {
	if models.CommentStatus(c.PostForm("status")) == models.StatusPrivate {
		return models.StatusPrivate
	}
	return models.StatusPublic
}

// renderPortfolioComments 变更后重新拉取评论列表并返回片段
func (h *CommentHandler) renderPortfolioComments(c *gin.Context, portfolioID int64, page int, notice string) {
	sess := middleware.GetSession(c)
	block := services.CommentsBlock{PortfolioID: portfolioID}

	p, err := h.comments.ListPortfolioComments(c.Request.Context(), sess, portfolioID, page)
	if err != nil {
		HandleError(c, err)
		return
	}
	block.Page = p

	if !middleware.IsHtmx(c) {
		c.Redirect(http.StatusFound, "/portfolios/"+utils.FormatID(portfolioID)+"#portfolio-comments")
		return
	}
	Render(c, http.StatusOK, "fragments/portfolio_comments.html", gin.H{"Comments": block, "Error": notice})
}

func (h *CommentHandler) PortfolioComments(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	h.renderPortfolioComments(c, id, utils.PageParam(c.Query("page")), "")
}

func (h *CommentHandler) CreatePortfolioComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	notice := ""
	if err := h.comments.PostPortfolioComment(c.Request.Context(), middleware.GetSession(c), id, c.PostForm("content")); err != nil {
		if !isInvalid(err) {
			HandleError(c, err)
			return
		}
		notice = "评论不能为空，且不超过 500 字"
	}
	h.renderPortfolioComments(c, id, 1, notice)
}

func (h *CommentHandler) UpdatePortfolioComment(c *gin.Context) {
	cid, ok1 := utils.ParseID(c.Param("cid"))
	pid, ok2 := utils.ParseID(c.PostForm("portfolio_id"))
	if !ok1 || !ok2 {
		c.Status(http.StatusBadRequest)
		return
	}
	notice := ""
	if err := h.comments.PatchPortfolioComment(c.Request.Context(), middleware.GetSession(c), pid, cid, c.PostForm("content")); err != nil {
		if !isInvalid(err) {
			HandleError(c, err)
			return
		}
		notice = "评论不能为空，且不超过 500 字"
	}
	h.renderPortfolioComments(c, pid, 1, notice)
}

func (h *CommentHandler) DeletePortfolioComment(c *gin.Context) {
	cid, ok1 := utils.ParseID(c.Param("cid"))
	pid, ok2 := utils.ParseID(c.Query("portfolio_id"))
	if !ok1 || !ok2 {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.comments.DeletePortfolioComment(c.Request.Context(), middleware.GetSession(c), pid, cid); err != nil {
		HandleError(c, err)
		return
	}
	h.renderPortfolioComments(c, pid, 1, "")
}

// renderUserComments 主页留言板片段
func (h *CommentHandler) renderUserComments(c *gin.Context, userID int64, page int, notice string) {
	p, err := h.comments.CommentsToUser(c.Request.Context(), middleware.GetSession(c), userID, page)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !middleware.IsHtmx(c) {
		c.Redirect(http.StatusFound, "/users/"+utils.FormatID(userID)+"?tab=comments")
		return
	}
	Render(c, http.StatusOK, "fragments/user_comments.html", gin.H{
		"UserID":   userID,
		"Comments": p,
		"Error":    notice,
	})
}

func (h *CommentHandler) UserComments(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	h.renderUserComments(c, id, utils.PageParam(c.Query("page")), "")
}

func (h *CommentHandler) CreateUserComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	notice := ""
	err := h.comments.PostUserComment(c.Request.Context(), middleware.GetSession(c), id, c.PostForm("content"), statusFromForm(c))
	if err != nil {
		if isInvalid(err) {
			notice = "留言不能为空，且不超过 500 字"
		} else {
			notice = genericError
		}
	}
	h.renderUserComments(c, id, 1, notice)
}

func (h *CommentHandler) UpdateUserComment(c *gin.Context) {
	cid, ok1 := utils.ParseID(c.Param("cid"))
	uid, ok2 := utils.ParseID(c.PostForm("user_id"))
	if !ok1 || !ok2 {
		c.Status(http.StatusBadRequest)
		return
	}
	notice := ""
	if err := h.comments.PatchUserComment(c.Request.Context(), middleware.GetSession(c), uid, cid, c.PostForm("content"), statusFromForm(c)); err != nil {
		if !isInvalid(err) {
			HandleError(c, err)
			return
		}
		notice = "留言不能为空，且不超过 500 字"
	}
	h.renderUserComments(c, uid, 1, notice)
}

func (h *CommentHandler) DeleteUserComment(c *gin.Context) {
	cid, ok1 := utils.ParseID(c.Param("cid"))
	uid, ok2 := utils.ParseID(c.Query("user_id"))
	if !ok1 || !ok2 {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.comments.DeleteUserComment(c.Request.Context(), middleware.GetSession(c), uid, cid); err != nil {
		HandleError(c, err)
		return
	}
	h.renderUserComments(c, uid, 1, "")
}
