package session

import (
	"net/http"
	"strings"
	"time"

	"frontend/internal/providers/api"
	"frontend/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextKey       = "session"
	cookieContextKey = "session_cookie"
)

const MsgLoginRequired = "로그인이 필요합니다."

type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Middleware attaches the browser's session to the gin context and, for
// authenticated sessions, the bearer token to the request context.
func Middleware(svc Service, cookie CookieOptions, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Sugar()
	return func(c *gin.Context) {
		key, _ := c.Cookie(cookie.Name)
		session, created, err := svc.Ensure(c.Request.Context(), key)
		if err != nil {
			log.Errorw("Session unavailable", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if created {
			log.Debugw("Session created", "client_ip", c.ClientIP())
		}

		c.Set(contextKey, session)
		c.Set(cookieContextKey, cookie)
		writeCookie(c, cookie, session.Key)

		if session.IsAuthenticated() {
			c.Request = c.Request.WithContext(api.WithToken(c.Request.Context(), session.Token))
		}
		c.Next()
	}
}

// RefreshCookie re-sends the cookie after the session key was rotated.
func RefreshCookie(c *gin.Context) {
	v, ok := c.Get(cookieContextKey)
	if !ok {
		return
	}
	if cookie, ok := v.(CookieOptions); ok {
		writeCookie(c, cookie, Current(c).Key)
	}
}

// writeCookie replaces any Set-Cookie already queued for the session cookie.
func writeCookie(c *gin.Context, cookie CookieOptions, key string) {
	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, cookie.Name+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, key, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
}

// Current returns the request's session, or an empty anonymous one when the
// middleware did not run.
func Current(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if session, ok := v.(*Session); ok {
			return session
		}
	}
	return &Session{}
}

// RequireLogin redirects anonymous visitors to the login page with a flash.
func RequireLogin(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Current(c)
		if session.IsAuthenticated() {
			c.Next()
			return
		}
		if session.Key != "" {
			_ = svc.SetFlash(c.Request.Context(), session, MsgLoginRequired)
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// NewPage builds the template envelope, consuming any pending flash.
func NewPage(c *gin.Context, svc Service, title string, data interface{}) web.Page {
	session := Current(c)
	return web.Page{
		Title:  title,
		Viewer: session.Viewer(),
		Flash:  svc.TakeFlash(c.Request.Context(), session),
		Data:   data,
	}
}

// Flash stores message for the next rendered page. Failures are logged only.
func Flash(c *gin.Context, svc Service, logger *zap.SugaredLogger, message string) {
	session := Current(c)
	if session.Key == "" {
		return
	}
	if err := svc.SetFlash(c.Request.Context(), session, message); err != nil {
		logger.Warnw("Failed to set flash", "error", err)
	}
}
