package comment

import (
	"context"

	"frontend/internal/utils"
)

const (
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
	EventCommentDeleted = "comment_deleted"
)

type Service interface {
	List(ctx context.Context, boardID uint64) ([]*Comment, error)
	Create(ctx context.Context, boardID uint64, req CommentRequest) (*Comment, error)
	Update(ctx context.Context, boardID, commentID uint64, req CommentRequest) (*Comment, error)
	Delete(ctx context.Context, boardID, commentID uint64) error
}

type service struct {
	repo     Repository
	eventBus *utils.EventBus
}

func NewService(repo Repository, eventBus *utils.EventBus) Service {
	return &service{repo: repo, eventBus: eventBus}
}

func (s *service) List(ctx context.Context, boardID uint64) ([]*Comment, error) {
	return s.repo.List(ctx, boardID)
}

func (s *service) Create(ctx context.Context, boardID uint64, req CommentRequest) (*Comment, error) {
	c, err := s.repo.Create(ctx, boardID, req)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(EventCommentCreated, map[string]interface{}{
		"board_id":   boardID,
		"comment_id": c.ID,
	})
	return c, nil
}

func (s *service) Update(ctx context.Context, boardID, commentID uint64, req CommentRequest) (*Comment, error) {
	c, err := s.repo.Update(ctx, boardID, commentID, req)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(EventCommentUpdated, map[string]interface{}{
		"board_id":   boardID,
		"comment_id": commentID,
	})
	return c, nil
}

func (s *service) Delete(ctx context.Context, boardID, commentID uint64) error {
	if err := s.repo.Delete(ctx, boardID, commentID); err != nil {
		return err
	}
	s.eventBus.Publish(EventCommentDeleted, map[string]interface{}{
		"board_id":   boardID,
		"comment_id": commentID,
	})
	return nil
}
