package comment

import (
	"context"
	"fmt"

	"frontend/internal/providers/api"
)

// Repository maps one call to each comment endpoint of the backend.
type Repository interface {
	List(ctx context.Context, boardID uint64) ([]*Comment, error)
	Create(ctx context.Context, boardID uint64, req CommentRequest) (*Comment, error)
	Update(ctx context.Context, boardID, commentID uint64, req CommentRequest) (*Comment, error)
	Delete(ctx context.Context, boardID, commentID uint64) error
}

type repository struct {
	client api.Requester
}

func NewRepository(client api.Requester) Repository {
	return &repository{client: client}
}

func commentsPath(boardID uint64) string {
	return fmt.Sprintf("/boards/%d/comments", boardID)
}

func commentPath(boardID, commentID uint64) string {
	return fmt.Sprintf("/boards/%d/comments/%d", boardID, commentID)
}

func (r *repository) List(ctx context.Context, boardID uint64) ([]*Comment, error) {
	var comments []*Comment
	err := r.client.Get(ctx, commentsPath(boardID), nil, &comments)
	return comments, err
}

func (r *repository) Create(ctx context.Context, boardID uint64, req CommentRequest) (*Comment, error) {
	var c Comment
	if err := r.client.Post(ctx, commentsPath(boardID), req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, boardID, commentID uint64, req CommentRequest) (*Comment, error) {
	var c Comment
	if err := r.client.Put(ctx, commentPath(boardID, commentID), req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Delete(ctx context.Context, boardID, commentID uint64) error {
	return r.client.Delete(ctx, commentPath(boardID, commentID))
}
