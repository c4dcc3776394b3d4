package session

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// A session is stored as a flat field map (a Redis hash) so each mutation
// writes only the fields it owns.
const (
	fieldCreatedAt = "created_at"
	fieldUser      = "user"
	fieldToken     = "token"
	fieldExpiresAt = "expires_at"
	fieldFlash     = "flash"
	totalPrefix    = "total:"
)

// Patch is a partial session write: Set fields are written, Unset fields are
// removed.
type Patch struct {
	Set   map[string]string
	Unset []string
}

func authPatch(user *User, token string, expiresAt *time.Time) (Patch, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return Patch{}, err
	}
	p := Patch{Set: map[string]string{
		fieldUser:  string(data),
		fieldToken: token,
	}}
	if expiresAt != nil {
		p.Set[fieldExpiresAt] = expiresAt.UTC().Format(time.RFC3339)
	} else {
		p.Unset = []string{fieldExpiresAt}
	}
	return p, nil
}

func clearAuthPatch() Patch {
	return Patch{Unset: []string{fieldUser, fieldToken, fieldExpiresAt}}
}

func flashPatch(message string) Patch {
	if message == "" {
		return Patch{Unset: []string{fieldFlash}}
	}
	return Patch{Set: map[string]string{fieldFlash: message}}
}

func totalPatch(listKey string, totalPages int, evict []string) Patch {
	p := Patch{Set: map[string]string{totalPrefix + listKey: strconv.Itoa(totalPages)}}
	for _, k := range evict {
		p.Unset = append(p.Unset, totalPrefix+k)
	}
	return p
}

func encodeFields(s *Session) (map[string]string, error) {
	fields := map[string]string{
		fieldCreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if s.User != nil {
		auth, err := authPatch(s.User, s.Token, s.ExpiresAt)
		if err != nil {
			return nil, err
		}
		for k, v := range auth.Set {
			fields[k] = v
		}
	}
	if s.Flash != "" {
		fields[fieldFlash] = s.Flash
	}
	for k, total := range s.ListTotals {
		fields[totalPrefix+k] = strconv.Itoa(total)
	}
	return fields, nil
}

// decodeFields ignores malformed values rather than failing the request.
func decodeFields(key string, fields map[string]string) *Session {
	s := &Session{Key: key}
	for name, value := range fields {
		switch {
		case name == fieldCreatedAt:
			s.CreatedAt, _ = time.Parse(time.RFC3339Nano, value)
		case name == fieldUser:
			var user User
			if json.Unmarshal([]byte(value), &user) == nil && user.Username != "" {
				s.User = &user
			}
		case name == fieldToken:
			s.Token = value
		case name == fieldExpiresAt:
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				s.ExpiresAt = &t
			}
		case name == fieldFlash:
			s.Flash = value
		case strings.HasPrefix(name, totalPrefix):
			if total, err := strconv.Atoi(value); err == nil {
				if s.ListTotals == nil {
					s.ListTotals = make(map[string]int)
				}
				s.ListTotals[strings.TrimPrefix(name, totalPrefix)] = total
			}
		}
	}
	return s
}
