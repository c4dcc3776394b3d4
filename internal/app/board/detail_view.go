package board

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"frontend/internal/app/visit"
	"frontend/internal/providers/api"

	"go.uber.org/zap"
)

const (
	msgLoadFailed = "게시글을 불러오는데 실패했습니다."
	msgNotFound   = "게시글을 찾을 수 없습니다."
)

const defaultPendingLimit = 10 * time.Second

// DetailView is the state of one mounted board detail page. The board is
// fetched at most once per mount: Init takes the mount's latch before calling
// GetByID, and every later Init for the same mount, from this instance or any
// other, renders the stored snapshot instead. The latch is never released; it
// lapses with the visit store's TTL.
//
// A later Init that finds no snapshot reports Loading until PendingLimit has
// passed since the latch was taken, then gives up with msgLoadFailed, so a
// winner that died before saving does not leave the page loading forever.
type DetailView struct {
	Mount        visit.Mount
	Board        *Board
	Error        string
	NotFound     bool
	Loading      bool
	PendingLimit time.Duration

	boards      Service
	visits      visit.Store
	logger      *zap.SugaredLogger
	now         func() time.Time
	initialized bool
}

func NewDetailView(boards Service, visits visit.Store, mount visit.Mount, logger *zap.Logger) *DetailView {
	return &DetailView{
		Mount:        mount,
		PendingLimit: defaultPendingLimit,
		boards:       boards,
		visits:       visits,
		logger:       logger.Sugar(),
		now:          time.Now,
	}
}

// Init populates the view. It does nothing without a board id, and nothing on
// a second call. Failures end up in Error; Init never returns them.
func (v *DetailView) Init(ctx context.Context) {
	if v.Mount.BoardID == 0 || v.initialized {
		return
	}
	v.initialized = true

	won, err := v.visits.Acquire(ctx, v.Mount)
	if err != nil {
		v.logger.Errorw("Failed to acquire visit latch", "board_id", v.Mount.BoardID, "error", err)
		v.Error = msgLoadFailed
		return
	}
	if won {
		v.fetch(ctx)
		return
	}
	v.restore(ctx)
}

func (v *DetailView) fetch(ctx context.Context) {
	snap := &visit.Snapshot{FetchedAt: v.now().UTC()}

	b, err := v.boards.GetByID(ctx, v.Mount.BoardID)
	switch {
	case errors.Is(err, api.ErrNotFound):
		v.setError(msgNotFound)
		snap.Error = msgNotFound
	case err != nil:
		v.logger.Warnw("Failed to fetch board", "board_id", v.Mount.BoardID, "error", err)
		v.setError(msgLoadFailed)
		snap.Error = msgLoadFailed
	default:
		v.Board = b
		if snap.Payload, err = json.Marshal(b); err != nil {
			snap.Payload = nil
			snap.Error = msgLoadFailed
		}
	}

	if err := v.visits.Save(ctx, v.Mount, snap); err != nil {
		v.logger.Errorw("Failed to save visit snapshot", "board_id", v.Mount.BoardID, "error", err)
	}
}

func (v *DetailView) restore(ctx context.Context) {
	b, err := loadSnapshot(ctx, v.visits, v.Mount)
	switch {
	case errors.Is(err, visit.ErrNoSnapshot):
		if v.pendingTooLong(ctx) {
			v.setError(msgLoadFailed)
			return
		}
		v.Loading = true
	case err != nil:
		v.setError(err.Error())
	default:
		v.Board = b
	}
}

// pendingTooLong reports whether the latch for this mount is older than
// PendingLimit. A missing latch counts as stale.
func (v *DetailView) pendingTooLong(ctx context.Context) bool {
	latchedAt, err := v.visits.LatchedAt(ctx, v.Mount)
	if errors.Is(err, visit.ErrNoLatch) {
		return true
	}
	if err != nil {
		v.logger.Warnw("Failed to read visit latch", "board_id", v.Mount.BoardID, "error", err)
		return false
	}
	if v.now().Sub(latchedAt) <= v.PendingLimit {
		return false
	}
	v.logger.Warnw("Visit snapshot never arrived", "board_id", v.Mount.BoardID, "latched_at", latchedAt)
	return true
}

func (v *DetailView) setError(message string) {
	v.Error = message
	v.NotFound = message == msgNotFound
}

var errSnapshotFailed = errors.New(msgLoadFailed)

// loadSnapshot returns the board stored for mount without touching the
// backend, visit.ErrNoSnapshot while the fetch is still in flight, or an
// error carrying the message the fetch failed with.
func loadSnapshot(ctx context.Context, visits visit.Store, mount visit.Mount) (*Board, error) {
	snap, err := visits.Load(ctx, mount)
	if err != nil {
		if errors.Is(err, visit.ErrNoSnapshot) {
			return nil, err
		}
		return nil, errSnapshotFailed
	}
	if snap.Error != "" {
		return nil, errors.New(snap.Error)
	}
	if len(snap.Payload) == 0 {
		return nil, errSnapshotFailed
	}
	var b Board
	if err := json.Unmarshal(snap.Payload, &b); err != nil {
		return nil, errSnapshotFailed
	}
	return &b, nil
}
