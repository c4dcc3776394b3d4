package board_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"frontend/internal/app/board"
	"frontend/internal/app/visit"
	"frontend/internal/mocks"
	"frontend/internal/providers/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMount(id uint64) visit.Mount {
	return visit.Mount{SessionKey: "sess", VisitID: visit.NewVisitID(), BoardID: id}
}

func TestDetailViewFetchesOnceAcrossRepeatedInit(t *testing.T) {
	svc := mocks.NewMockBoardService()
	store := visit.NewMemoryStore(time.Minute)
	mount := newMount(42)
	ctx := context.Background()

	first := board.NewDetailView(svc, store, mount, zap.NewNop())
	first.Init(ctx)
	first.Init(ctx)

	second := board.NewDetailView(svc, store, mount, zap.NewNop())
	second.Init(ctx)

	assert.Equal(t, 1, svc.GetByIDCount())
	require.NotNil(t, first.Board)
	require.NotNil(t, second.Board)
	assert.Equal(t, uint64(42), second.Board.ID)
	assert.Equal(t, first.Board.Title, second.Board.Title)
}

func TestDetailViewConcurrentInitFetchesOnce(t *testing.T) {
	release := make(chan struct{})
	svc := mocks.NewMockBoardService()
	svc.GetByIDFunc = func(ctx context.Context, id uint64) (*board.Board, error) {
		<-release
		return &board.Board{ID: id, Title: "동시성"}, nil
	}
	store := visit.NewMemoryStore(time.Minute)
	mount := newMount(9)

	views := make([]*board.DetailView, 16)
	var wg sync.WaitGroup
	for i := range views {
		views[i] = board.NewDetailView(svc, store, mount, zap.NewNop())
		wg.Add(1)
		go func(v *board.DetailView) {
			defer wg.Done()
			v.Init(context.Background())
		}(views[i])
	}

	// Losers return without waiting on the fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, svc.GetByIDCount())
	for _, v := range views {
		assert.True(t, v.Board != nil || v.Loading, "every view either rendered or is loading")
		assert.Empty(t, v.Error)
	}

	late := board.NewDetailView(svc, store, mount, zap.NewNop())
	late.Init(context.Background())
	require.NotNil(t, late.Board)
	assert.Equal(t, "동시성", late.Board.Title)
	assert.Equal(t, 1, svc.GetByIDCount())
}

func TestDetailViewWithoutIDDoesNothing(t *testing.T) {
	svc := mocks.NewMockBoardService()
	v := board.NewDetailView(svc, visit.NewMemoryStore(time.Minute), newMount(0), zap.NewNop())
	v.Init(context.Background())

	assert.Equal(t, 0, svc.GetByIDCount())
	assert.Nil(t, v.Board)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
}

func TestDetailViewFailureIsNotRetriedWithinVisit(t *testing.T) {
	svc := mocks.NewMockBoardService()
	svc.GetByIDFunc = func(ctx context.Context, id uint64) (*board.Board, error) {
		return nil, errors.New("connection refused")
	}
	store := visit.NewMemoryStore(time.Minute)
	mount := newMount(5)

	v := board.NewDetailView(svc, store, mount, zap.NewNop())
	v.Init(context.Background())
	assert.Equal(t, "게시글을 불러오는데 실패했습니다.", v.Error)

	again := board.NewDetailView(svc, store, mount, zap.NewNop())
	again.Init(context.Background())
	assert.Equal(t, "게시글을 불러오는데 실패했습니다.", again.Error)
	assert.Equal(t, 1, svc.GetByIDCount())
}

func TestDetailViewNewVisitFetchesAgain(t *testing.T) {
	svc := mocks.NewMockBoardService()
	store := visit.NewMemoryStore(time.Minute)

	board.NewDetailView(svc, store, newMount(3), zap.NewNop()).Init(context.Background())
	board.NewDetailView(svc, store, newMount(3), zap.NewNop()).Init(context.Background())

	assert.Equal(t, 2, svc.GetByIDCount())
}

type unsavableStore struct {
	visit.Store
}

func (unsavableStore) Save(context.Context, visit.Mount, *visit.Snapshot) error {
	return errors.New("redis: connection pool timeout")
}

func TestDetailViewGivesUpWhenSnapshotNeverArrives(t *testing.T) {
	svc := mocks.NewMockBoardService()
	store := unsavableStore{visit.NewMemoryStore(time.Minute)}
	mount := newMount(11)
	ctx := context.Background()

	winner := board.NewDetailView(svc, store, mount, zap.NewNop())
	winner.Init(ctx)
	require.NotNil(t, winner.Board, "the winner still renders what it fetched")

	waiting := board.NewDetailView(svc, store, mount, zap.NewNop())
	waiting.PendingLimit = time.Minute
	waiting.Init(ctx)
	assert.True(t, waiting.Loading)
	assert.Empty(t, waiting.Error)

	time.Sleep(5 * time.Millisecond)
	stale := board.NewDetailView(svc, store, mount, zap.NewNop())
	stale.PendingLimit = time.Millisecond
	stale.Init(ctx)
	assert.False(t, stale.Loading)
	assert.Equal(t, "게시글을 불러오는데 실패했습니다.", stale.Error)

	assert.Equal(t, 1, svc.GetByIDCount())
}

func TestDetailViewReportsMissingBoard(t *testing.T) {
	svc := mocks.NewMockBoardService()
	svc.GetByIDFunc = func(ctx context.Context, id uint64) (*board.Board, error) {
		return nil, &api.Error{Method: http.MethodGet, Path: "/boards/404", Status: http.StatusNotFound}
	}
	store := visit.NewMemoryStore(time.Minute)
	mount := newMount(404)

	v := board.NewDetailView(svc, store, mount, zap.NewNop())
	v.Init(context.Background())
	assert.True(t, v.NotFound)
	assert.Equal(t, "게시글을 찾을 수 없습니다.", v.Error)

	again := board.NewDetailView(svc, store, mount, zap.NewNop())
	again.Init(context.Background())
	assert.True(t, again.NotFound, "the stored snapshot keeps the not-found message")
	assert.Equal(t, "게시글을 찾을 수 없습니다.", again.Error)
	assert.Equal(t, 1, svc.GetByIDCount())
}
