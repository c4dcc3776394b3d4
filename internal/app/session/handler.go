package session

import (
	"errors"
	"net/http"

	"frontend/internal/providers/api"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgLoginFailed    = "로그인에 실패했습니다."
	msgRegisterFailed = "회원가입에 실패했습니다."
	msgInvalidInput   = "입력값을 확인해주세요."
)

type Handler interface {
	LoginPage(c *gin.Context)
	Login(c *gin.Context)
	RegisterPage(c *gin.Context)
	Register(c *gin.Context)
	Logout(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

type loginForm struct {
	Username string
	Error    string
}

type registerForm struct {
	Username string
	Email    string
	FullName string
	Error    string
}

func (h *handler) LoginPage(c *gin.Context) {
	if Current(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login", NewPage(c, h.service, "로그인", loginForm{}))
}

func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login", NewPage(c, h.service, "로그인", loginForm{
			Username: req.Username,
			Error:    msgInvalidInput,
		}))
		return
	}

	if err := h.service.Login(c.Request.Context(), Current(c), req); err != nil {
		h.logger.Warnw("Login failed", "username", req.Username, "error", err)
		c.HTML(statusFor(err), "login", NewPage(c, h.service, "로그인", loginForm{
			Username: req.Username,
			Error:    messageFor(err, msgLoginFailed),
		}))
		return
	}

	RefreshCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) RegisterPage(c *gin.Context) {
	if Current(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "register", NewPage(c, h.service, "회원가입", registerForm{}))
}

func (h *handler) Register(c *gin.Context) {
	var req RegisterRequest
	form := func(msg string) registerForm {
		return registerForm{Username: req.Username, Email: req.Email, FullName: req.FullName, Error: msg}
	}

	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register", NewPage(c, h.service, "회원가입", form(msgInvalidInput)))
		return
	}

	if err := h.service.Register(c.Request.Context(), Current(c), req); err != nil {
		h.logger.Warnw("Register failed", "username", req.Username, "error", err)
		c.HTML(statusFor(err), "register", NewPage(c, h.service, "회원가입", form(messageFor(err, msgRegisterFailed))))
		return
	}

	RefreshCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), Current(c)); err != nil {
		h.logger.Errorw("Logout failed", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func messageFor(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// statusFor passes backend client errors through and maps anything else to
// a gateway failure.
func statusFor(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
