package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"folio/internal/middleware"
	"folio/internal/services"
	"folio/internal/utils"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// Toggle 切换点赞状态，返回新的点赞按钮片段
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	current, _ := strconv.ParseBool(c.PostForm("liked"))
	count, _ := strconv.ParseInt(c.PostForm("count"), 10, 64)
	if count < 0 {
		count = 0
	}

	state, err := h.likes.Toggle(c.Request.Context(), middleware.GetSession(c), id, current, count)
	switch {
	case err == nil:
		Render(c, http.StatusOK, "fragments/like.html", gin.H{"Like": state})
	case errors.Is(err, services.ErrToggleInFlight):
		Render(c, http.StatusOK, "fragments/like.html", gin.H{"Like": state, "Notice": "处理中，请稍候"})
	case errors.Is(err, services.ErrNotAuthenticated):
		HandleError(c, err)
	default:
		// 保持原状态，按钮可以再次点击
		Render(c, http.StatusOK, "fragments/like.html", gin.H{"Like": state, "Notice": genericError})
	}
}
