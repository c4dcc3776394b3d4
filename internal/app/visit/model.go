package visit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

var ErrNoSnapshot = errors.New("visit snapshot not found")

// Mount identifies one mounted detail view: a single page visit of one board
// by one session.
type Mount struct {
	SessionKey string
	VisitID    string
	BoardID    uint64
}

func (m Mount) key(suffix string) string {
	return fmt.Sprintf("visit:%s:%s:board:%d:%s", m.SessionKey, m.VisitID, m.BoardID, suffix)
}

// Snapshot is what the winning fetch left behind for re-renders of the same
// mount. Exactly one of Payload and Error is set.
type Snapshot struct {
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
}

func NewVisitID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// ParseVisitID normalizes a visit id taken from a URL. Anything that is not a
// UUID is treated as absent, which makes the request a fresh navigation.
func ParseVisitID(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	id, err := uuid.FromString(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
