package mocks

import (
	"context"
	"sync"

	"frontend/internal/app/board"
	"frontend/internal/app/comment"
)

// ListCall records the arguments of a board listing call. Kind is "list",
// "search" or "user".
type ListCall struct {
	Kind     string
	Keyword  string
	Username string
	Page     int
	Size     int
}

// MockBoardService is a mock implementation of board.Service
type MockBoardService struct {
	ListFunc    func(ctx context.Context, q ListCall) (*board.BoardPage, error)
	GetByIDFunc func(ctx context.Context, id uint64) (*board.Board, error)
	CreateFunc  func(ctx context.Context, req board.BoardRequest) (*board.Board, error)
	UpdateFunc  func(ctx context.Context, id uint64, req board.BoardRequest) (*board.Board, error)
	DeleteFunc  func(ctx context.Context, id uint64) error

	mu           sync.Mutex
	ListCalls    []ListCall
	GetByIDCalls []uint64
	Created      []board.BoardRequest
	Updated      map[uint64]board.BoardRequest
	Deleted      []uint64
}

// Verify interface compliance
var _ board.Service = (*MockBoardService)(nil)

func NewMockBoardService() *MockBoardService {
	return &MockBoardService{Updated: make(map[uint64]board.BoardRequest)}
}

func (m *MockBoardService) list(ctx context.Context, call ListCall) (*board.BoardPage, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, call)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, call)
	}
	return &board.BoardPage{Content: []*board.Board{}, Number: call.Page, Size: call.Size, Empty: true}, nil
}

func (m *MockBoardService) List(ctx context.Context, page, size int) (*board.BoardPage, error) {
	return m.list(ctx, ListCall{Kind: "list", Page: page, Size: size})
}

func (m *MockBoardService) Search(ctx context.Context, keyword string, page, size int) (*board.BoardPage, error) {
	return m.list(ctx, ListCall{Kind: "search", Keyword: keyword, Page: page, Size: size})
}

func (m *MockBoardService) ListByUser(ctx context.Context, username string, page, size int) (*board.BoardPage, error) {
	return m.list(ctx, ListCall{Kind: "user", Username: username, Page: page, Size: size})
}

func (m *MockBoardService) GetByID(ctx context.Context, id uint64) (*board.Board, error) {
	m.mu.Lock()
	m.GetByIDCalls = append(m.GetByIDCalls, id)
	m.mu.Unlock()
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &board.Board{ID: id, Title: "title", Content: "content", AuthorUsername: "author"}, nil
}

// GetByIDCount is the number of GetByID calls so far.
func (m *MockBoardService) GetByIDCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetByIDCalls)
}

func (m *MockBoardService) Create(ctx context.Context, req board.BoardRequest) (*board.Board, error) {
	m.mu.Lock()
	m.Created = append(m.Created, req)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &board.Board{ID: 1, Title: req.Title, Content: req.Content}, nil
}

func (m *MockBoardService) Update(ctx context.Context, id uint64, req board.BoardRequest) (*board.Board, error) {
	m.mu.Lock()
	m.Updated[id] = req
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return &board.Board{ID: id, Title: req.Title, Content: req.Content}, nil
}

func (m *MockBoardService) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommentService is a mock implementation of comment.Service
type MockCommentService struct {
	ListFunc   func(ctx context.Context, boardID uint64) ([]*comment.Comment, error)
	CreateFunc func(ctx context.Context, boardID uint64, req comment.CommentRequest) (*comment.Comment, error)
	UpdateFunc func(ctx context.Context, boardID, commentID uint64, req comment.CommentRequest) (*comment.Comment, error)
	DeleteFunc func(ctx context.Context, boardID, commentID uint64) error

	mu      sync.Mutex
	Created []comment.CommentRequest
	Updated []uint64
	Deleted []uint64
}

// Verify interface compliance
var _ comment.Service = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) List(ctx context.Context, boardID uint64) ([]*comment.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, boardID)
	}
	return []*comment.Comment{}, nil
}

func (m *MockCommentService) Create(ctx context.Context, boardID uint64, req comment.CommentRequest) (*comment.Comment, error) {
	m.mu.Lock()
	m.Created = append(m.Created, req)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, boardID, req)
	}
	return &comment.Comment{ID: 1, BoardID: boardID, Content: req.Content}, nil
}

func (m *MockCommentService) Update(ctx context.Context, boardID, commentID uint64, req comment.CommentRequest) (*comment.Comment, error) {
	m.mu.Lock()
	m.Updated = append(m.Updated, commentID)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, boardID, commentID, req)
	}
	return &comment.Comment{ID: commentID, BoardID: boardID, Content: req.Content}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, boardID, commentID uint64) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, commentID)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, boardID, commentID)
	}
	return nil
}
