package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"frontend/internal/providers/api"
	"frontend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	EventSessionStarted = "session_started"
	EventSessionEnded   = "session_ended"
)

// AuthClient is the slice of the backend client the session service needs.
type AuthClient interface {
	Post(ctx context.Context, path string, body, out interface{}) error
}

type Service interface {
	// Ensure loads the session for key, creating a new anonymous one when key
	// is empty or unknown. created reports whether a new key was issued.
	Ensure(ctx context.Context, key string) (session *Session, created bool, err error)
	Login(ctx context.Context, session *Session, req LoginRequest) error
	Register(ctx context.Context, session *Session, req RegisterRequest) error
	Logout(ctx context.Context, session *Session) error
	SetFlash(ctx context.Context, session *Session, message string) error
	TakeFlash(ctx context.Context, session *Session) string
	RememberTotal(ctx context.Context, session *Session, listKey string, totalPages int) error
}

type service struct {
	repo     Repository
	client   AuthClient
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, client AuthClient, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		client:   client,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func (s *service) Ensure(ctx context.Context, key string) (*Session, bool, error) {
	if key != "" {
		session, err := s.repo.Get(ctx, key)
		if err == nil && session.User != nil && !session.IsAuthenticated() {
			session.clearAuth()
			err = s.repo.Update(ctx, key, clearAuthPatch())
		}
		if err == nil {
			return session, false, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, false, fmt.Errorf("failed to load session: %w", err)
		}
	}

	newKey, err := generateSessionKey()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate session key: %w", err)
	}
	session := &Session{
		Key:       newKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}
	return session, true, nil
}

func (s *service) Login(ctx context.Context, session *Session, req LoginRequest) error {
	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return err
	}
	if resp.Username == "" {
		resp.Username = req.Username
	}
	return s.start(ctx, session, &resp)
}

func (s *service) Register(ctx context.Context, session *Session, req RegisterRequest) error {
	var resp AuthResponse
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return err
	}
	if resp.Username == "" {
		resp.Username = req.Username
		resp.Email = req.Email
		resp.FullName = req.FullName
	}
	if resp.credential() == "" {
		return s.Login(ctx, session, LoginRequest{Username: req.Username, Password: req.Password})
	}
	return s.start(ctx, session, &resp)
}

// start authenticates the browser under a freshly issued key and deletes the
// anonymous record, so a key known before login never carries the credential.
// session is updated in place; callers re-send the cookie.
func (s *service) start(ctx context.Context, session *Session, resp *AuthResponse) error {
	token := resp.credential()
	if token == "" {
		return fmt.Errorf("backend returned no credential for %s", resp.Username)
	}

	newKey, err := generateSessionKey()
	if err != nil {
		return fmt.Errorf("failed to generate session key: %w", err)
	}
	next := *session
	next.Key = newKey
	next.User = &User{
		Username: resp.Username,
		Email:    resp.Email,
		FullName: resp.FullName,
	}
	next.Token = token
	next.ExpiresAt = tokenExpiry(token)
	if next.CreatedAt.IsZero() {
		next.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, &next); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if session.Key != "" {
		if err := s.repo.Delete(ctx, session.Key); err != nil {
			s.logger.Warnw("Failed to delete anonymous session", "error", err)
		}
	}
	*session = next

	s.eventBus.Publish(EventSessionStarted, map[string]interface{}{
		"username": resp.Username,
	})
	return nil
}

// Logout tells the backend best-effort and always clears the local session.
func (s *service) Logout(ctx context.Context, session *Session) error {
	username := session.Username()
	if session.Token != "" {
		if err := s.client.Post(api.WithToken(ctx, session.Token), "/auth/logout", nil, nil); err != nil {
			s.logger.Warnw("Backend logout failed", "username", username, "error", err)
		}
	}

	session.clearAuth()
	if err := s.repo.Update(ctx, session.Key, clearAuthPatch()); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if username != "" {
		s.eventBus.Publish(EventSessionEnded, map[string]interface{}{
			"username": username,
		})
	}
	return nil
}

func (s *service) SetFlash(ctx context.Context, session *Session, message string) error {
	if err := s.repo.Update(ctx, session.Key, flashPatch(message)); err != nil {
		return err
	}
	session.Flash = message
	return nil
}

// TakeFlash returns and clears the pending flash message. Only sessions that
// were loaded with a flash pay the round trip.
func (s *service) TakeFlash(ctx context.Context, session *Session) string {
	if session == nil || session.Key == "" || session.Flash == "" {
		return ""
	}
	session.Flash = ""
	message, err := s.repo.TakeFlash(ctx, session.Key)
	if err != nil {
		s.logger.Warnw("Failed to take flash", "error", err)
		return ""
	}
	return message
}

// RememberTotal records totalPages for listKey. Only one key per list kind
// ("search:", "user:") is kept, so distinct searches do not pile up.
func (s *service) RememberTotal(ctx context.Context, session *Session, listKey string, totalPages int) error {
	if known, ok := session.KnownTotal(listKey); ok && known == totalPages {
		return nil
	}

	var evict []string
	if kind := listKind(listKey); kind != "" {
		for k := range session.ListTotals {
			if k != listKey && listKind(k) == kind {
				evict = append(evict, k)
			}
		}
	}
	if err := s.repo.Update(ctx, session.Key, totalPatch(listKey, totalPages, evict)); err != nil {
		return err
	}

	if session.ListTotals == nil {
		session.ListTotals = make(map[string]int)
	}
	for _, k := range evict {
		delete(session.ListTotals, k)
	}
	session.ListTotals[listKey] = totalPages
	return nil
}

func listKind(listKey string) string {
	if i := strings.Index(listKey, ":"); i >= 0 {
		return listKey[:i+1]
	}
	return ""
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend verifies the token on every call. Opaque tokens have no expiry.
func tokenExpiry(token string) *time.Time {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
