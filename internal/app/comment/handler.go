package comment

import (
	"fmt"
	"net/http"
	"strconv"

	"frontend/internal/app/session"
	"frontend/internal/app/visit"
	"frontend/internal/providers/api"
	"frontend/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgActionFailed = "작업에 실패했습니다."

var validationMessages = map[string]string{
	"Content.required": "댓글 내용을 입력해주세요",
	"Content.max":      "댓글은 1000자를 초과할 수 없습니다",
}

type Handler interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service  Service
	sessions session.Service
	logger   *zap.SugaredLogger
}

func NewHandler(service Service, sessions session.Service, logger *zap.Logger) Handler {
	return &handler{
		service:  service,
		sessions: sessions,
		logger:   logger.Sugar(),
	}
}

// DetailURL points back at the board page. Carrying the visit id keeps it the
// same page visit, so the board is not fetched again.
func DetailURL(boardID uint64, visitID string) string {
	if id, ok := visit.ParseVisitID(visitID); ok {
		return fmt.Sprintf("/boards/%d?visit=%s", boardID, id)
	}
	return fmt.Sprintf("/boards/%d", boardID)
}

func (h *handler) Create(c *gin.Context) {
	boardID, ok := parseID(c, "id")
	if !ok {
		return
	}
	back := DetailURL(boardID, c.Query("visit"))

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		session.Flash(c, h.sessions, h.logger, utils.ValidationMessage(err, validationMessages, msgActionFailed))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := h.service.Create(c.Request.Context(), boardID, req); err != nil {
		h.logger.Warnw("Failed to create comment", "board_id", boardID, "error", err)
		session.Flash(c, h.sessions, h.logger, failureMessage(err))
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (h *handler) Update(c *gin.Context) {
	boardID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "cid")
	if !ok {
		return
	}
	back := DetailURL(boardID, c.Query("visit"))

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		session.Flash(c, h.sessions, h.logger, utils.ValidationMessage(err, validationMessages, msgActionFailed))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), boardID, commentID, req); err != nil {
		h.logger.Warnw("Failed to update comment", "board_id", boardID, "comment_id", commentID, "error", err)
		session.Flash(c, h.sessions, h.logger, failureMessage(err))
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (h *handler) Delete(c *gin.Context) {
	boardID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "cid")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), boardID, commentID); err != nil {
		h.logger.Warnw("Failed to delete comment", "board_id", boardID, "comment_id", commentID, "error", err)
		session.Flash(c, h.sessions, h.logger, failureMessage(err))
	}
	c.Redirect(http.StatusSeeOther, DetailURL(boardID, c.Query("visit")))
}

func failureMessage(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return msgActionFailed
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
