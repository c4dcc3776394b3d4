package board

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"frontend/internal/app/comment"
	"frontend/internal/app/session"
	"frontend/internal/app/visit"
	"frontend/internal/providers/api"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgDeleted      = "삭제되었습니다."
	msgDeleteFailed = "삭제에 실패했습니다."
	msgInvalidID    = "잘못된 게시글 번호입니다."
	msgComments     = "댓글을 불러오는데 실패했습니다."
)

type Handler interface {
	List(c *gin.Context)
	UserList(c *gin.Context)
	Detail(c *gin.Context)
	New(c *gin.Context)
	Edit(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	DeleteConfirm(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service  Service
	comments comment.Service
	visits   visit.Store
	sessions session.Service
	pageSize int
	// fetchTimeout bounds how long a reload waits for another request's fetch.
	fetchTimeout time.Duration
	logger       *zap.Logger
}

func NewHandler(service Service, comments comment.Service, visits visit.Store, sessions session.Service, pageSize int, fetchTimeout time.Duration, logger *zap.Logger) Handler {
	return &handler{
		service:      service,
		comments:     comments,
		visits:       visits,
		sessions:     sessions,
		pageSize:     pageSize,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

type detailPage struct {
	BoardID       uint64
	VisitID       string
	Board         *Board
	Error         string
	IsAuthor      bool
	CanComment    bool
	Comments      []comment.Item
	CommentsError string
}

type deletePage struct {
	ID      uint64
	VisitID string
	Title   string
}

func (h *handler) List(c *gin.Context) {
	h.renderList(c, ListQuery{
		Page:    queryInt(c, "page"),
		Keyword: c.Query("keyword"),
	})
}

func (h *handler) UserList(c *gin.Context) {
	h.renderList(c, ListQuery{
		Page:     queryInt(c, "page"),
		Username: c.Param("username"),
	})
}

func (h *handler) renderList(c *gin.Context, q ListQuery) {
	ctx := c.Request.Context()
	sess := session.Current(c)
	known, ok := sess.KnownTotal(q.Key())

	view, err := LoadList(ctx, h.service, q, h.pageSize, known, ok)
	if err != nil {
		h.logger.Sugar().Warnw("Failed to fetch boards", "list", q.Key(), "page", view.Page, "error", err)
	} else if sess.Key != "" {
		if err := h.sessions.RememberTotal(ctx, sess, q.Key(), view.TotalPages); err != nil {
			h.logger.Sugar().Warnw("Failed to remember list total", "list", q.Key(), "error", err)
		}
	}

	c.HTML(http.StatusOK, "board_list", session.NewPage(c, h.sessions, view.Heading, view))
}

func (h *handler) Detail(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}
	visitID, ok := visit.ParseVisitID(c.Query("visit"))
	if !ok {
		visitID = visit.NewVisitID()
	}

	ctx := c.Request.Context()
	sess := session.Current(c)
	view := NewDetailView(h.service, h.visits, visit.Mount{
		SessionKey: sess.Key,
		VisitID:    visitID,
		BoardID:    id,
	}, h.logger)
	if h.fetchTimeout > 0 {
		view.PendingLimit = h.fetchTimeout
	}
	view.Init(ctx)

	if view.Loading {
		page := session.NewPage(c, h.sessions, "불러오는 중", gin.H{"BoardID": id, "VisitID": visitID})
		page.Refresh = 1
		c.HTML(http.StatusAccepted, "board_loading", page)
		return
	}

	data := detailPage{
		BoardID:    id,
		VisitID:    visitID,
		Board:      view.Board,
		Error:      view.Error,
		IsAuthor:   sess.IsAuthenticated() && view.Board.IsAuthor(sess.Username()),
		CanComment: sess.IsAuthenticated(),
	}

	comments, err := h.comments.List(ctx, id)
	if err != nil {
		h.logger.Sugar().Warnw("Failed to fetch comments", "board_id", id, "error", err)
		data.CommentsError = msgComments
	}
	editing, _ := strconv.ParseUint(c.Query("edit_comment"), 10, 64)
	data.Comments = comment.Items(comments, sess.Username(), editing)

	title := ""
	if view.Board != nil {
		title = view.Board.Title
	}
	status := http.StatusOK
	if view.NotFound {
		status = http.StatusNotFound
	}
	c.HTML(status, "board_detail", session.NewPage(c, h.sessions, title, data))
}

func (h *handler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, NewFormView(0))
}

func (h *handler) Edit(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}
	form := NewFormView(id)
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Sugar().Warnw("Failed to fetch board for edit", "board_id", id, "error", err)
		form.Error = msgLoadFailed
		if errors.Is(err, api.ErrNotFound) {
			form.Error = msgNotFound
		}
	} else {
		form.Populate(b)
	}
	h.renderForm(c, http.StatusOK, form)
}

func (h *handler) Create(c *gin.Context) {
	form := NewFormView(0)
	var req BoardRequest
	if err := c.ShouldBind(&req); err != nil {
		form.Title, form.Content = req.Title, req.Content
		form.failValidation(err)
		h.renderForm(c, http.StatusBadRequest, form)
		return
	}
	form.Title, form.Content = req.Title, req.Content

	b, err := h.service.Create(c.Request.Context(), form.request())
	if err != nil {
		h.logger.Sugar().Warnw("Failed to create board", "error", err)
		form.failSubmit(err)
		h.renderForm(c, http.StatusBadGateway, form)
		return
	}

	session.Flash(c, h.sessions, h.logger.Sugar(), msgCreated)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/boards/%d", b.ID))
}

func (h *handler) Update(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}
	form := NewFormView(id)
	var req BoardRequest
	if err := c.ShouldBind(&req); err != nil {
		form.Title, form.Content = req.Title, req.Content
		form.failValidation(err)
		h.renderForm(c, http.StatusBadRequest, form)
		return
	}
	form.Title, form.Content = req.Title, req.Content

	if _, err := h.service.Update(c.Request.Context(), id, form.request()); err != nil {
		h.logger.Sugar().Warnw("Failed to update board", "board_id", id, "error", err)
		form.failSubmit(err)
		h.renderForm(c, http.StatusBadGateway, form)
		return
	}

	session.Flash(c, h.sessions, h.logger.Sugar(), msgUpdated)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/boards/%d", id))
}

func (h *handler) DeleteConfirm(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}
	data := deletePage{ID: id}
	if visitID, ok := visit.ParseVisitID(c.Query("visit")); ok {
		data.VisitID = visitID
		mount := visit.Mount{SessionKey: session.Current(c).Key, VisitID: visitID, BoardID: id}
		if b, err := loadSnapshot(c.Request.Context(), h.visits, mount); err == nil {
			data.Title = b.Title
		}
	}
	c.HTML(http.StatusOK, "board_delete", session.NewPage(c, h.sessions, "게시글 삭제", data))
}

func (h *handler) Delete(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}
	back := comment.DetailURL(id, c.Query("visit"))
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.logger.Sugar().Warnw("Failed to delete board", "board_id", id, "error", err)
		session.Flash(c, h.sessions, h.logger.Sugar(), msgDeleteFailed)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	session.Flash(c, h.sessions, h.logger.Sugar(), msgDeleted)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) renderForm(c *gin.Context, status int, form *FormView) {
	c.HTML(status, "board_form", session.NewPage(c, h.sessions, form.pageTitle(), form))
}

func (h *handler) boardID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.HTML(http.StatusBadRequest, "error", session.NewPage(c, h.sessions, "오류", gin.H{"Message": msgInvalidID}))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
