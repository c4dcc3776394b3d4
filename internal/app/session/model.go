package session

import (
	"time"

	"frontend/internal/web"
)

type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Session is the per-browser state kept in the session store. ListTotals
// remembers the last total page count seen per list so page requests can be
// clamped before the backend is asked.
type Session struct {
	Key        string         `json:"key"`
	User       *User          `json:"user,omitempty"`
	Token      string         `json:"token,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	Flash      string         `json:"flash,omitempty"`
	ListTotals map[string]int `json:"list_totals,omitempty"`
}

func (s *Session) IsAuthenticated() bool {
	if s == nil || s.User == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt == nil || time.Now().Before(*s.ExpiresAt)
}

// Username is empty for anonymous sessions.
func (s *Session) Username() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.User.Username
}

func (s *Session) Viewer() web.Viewer {
	if !s.IsAuthenticated() {
		return web.Viewer{}
	}
	return web.Viewer{
		IsAuthenticated: true,
		Username:        s.User.Username,
		DisplayName:     web.DisplayName(s.User.FullName, s.User.Username),
	}
}

// KnownTotal returns the last total page count recorded for listKey.
func (s *Session) KnownTotal(listKey string) (int, bool) {
	if s == nil || s.ListTotals == nil {
		return 0, false
	}
	total, ok := s.ListTotals[listKey]
	return total, ok
}

func (s *Session) clearAuth() {
	s.User = nil
	s.Token = ""
	s.ExpiresAt = nil
}

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=50"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=4"`
	FullName string `form:"fullName" json:"fullName" binding:"max=100"`
}

// AuthResponse is what the backend returns from login and register.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
}

func (r *AuthResponse) credential() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}
