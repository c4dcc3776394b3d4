package board

import (
	"context"

	"frontend/internal/utils"
)

const (
	EventBoardCreated = "board_created"
	EventBoardUpdated = "board_updated"
	EventBoardDeleted = "board_deleted"
)

type Service interface {
	List(ctx context.Context, page, size int) (*BoardPage, error)
	Search(ctx context.Context, keyword string, page, size int) (*BoardPage, error)
	ListByUser(ctx context.Context, username string, page, size int) (*BoardPage, error)
	GetByID(ctx context.Context, id uint64) (*Board, error)
	Create(ctx context.Context, req BoardRequest) (*Board, error)
	Update(ctx context.Context, id uint64, req BoardRequest) (*Board, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo     Repository
	eventBus *utils.EventBus
}

func NewService(repo Repository, eventBus *utils.EventBus) Service {
	return &service{repo: repo, eventBus: eventBus}
}

func (s *service) List(ctx context.Context, page, size int) (*BoardPage, error) {
	return s.repo.List(ctx, page, size)
}

func (s *service) Search(ctx context.Context, keyword string, page, size int) (*BoardPage, error) {
	return s.repo.Search(ctx, keyword, page, size)
}

func (s *service) ListByUser(ctx context.Context, username string, page, size int) (*BoardPage, error) {
	return s.repo.ListByUser(ctx, username, page, size)
}

func (s *service) GetByID(ctx context.Context, id uint64) (*Board, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req BoardRequest) (*Board, error) {
	b, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(EventBoardCreated, map[string]interface{}{
		"board_id": b.ID,
		"title":    b.Title,
	})
	return b, nil
}

func (s *service) Update(ctx context.Context, id uint64, req BoardRequest) (*Board, error) {
	b, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(EventBoardUpdated, map[string]interface{}{
		"board_id": id,
		"title":    b.Title,
	})
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.eventBus.Publish(EventBoardDeleted, map[string]interface{}{
		"board_id": id,
	})
	return nil
}
