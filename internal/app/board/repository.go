package board

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"frontend/internal/providers/api"
)

// Repository maps one call to each board endpoint of the backend. It does
// not validate, cache or retry.
type Repository interface {
	List(ctx context.Context, page, size int) (*BoardPage, error)
	Search(ctx context.Context, keyword string, page, size int) (*BoardPage, error)
	ListByUser(ctx context.Context, username string, page, size int) (*BoardPage, error)
	GetByID(ctx context.Context, id uint64) (*Board, error)
	Create(ctx context.Context, req BoardRequest) (*Board, error)
	Update(ctx context.Context, id uint64, req BoardRequest) (*Board, error)
	Delete(ctx context.Context, id uint64) error
}

type repository struct {
	client api.Requester
}

func NewRepository(client api.Requester) Repository {
	return &repository{client: client}
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func boardPath(id uint64) string {
	return fmt.Sprintf("/boards/%d", id)
}

func (r *repository) List(ctx context.Context, page, size int) (*BoardPage, error) {
	var out BoardPage
	if err := r.client.Get(ctx, "/boards", pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) Search(ctx context.Context, keyword string, page, size int) (*BoardPage, error) {
	query := pageQuery(page, size)
	query.Set("keyword", keyword)

	var out BoardPage
	if err := r.client.Get(ctx, "/boards/search", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) ListByUser(ctx context.Context, username string, page, size int) (*BoardPage, error) {
	var out BoardPage
	if err := r.client.Get(ctx, "/boards/user/"+url.PathEscape(username), pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID increments the board's view count on the backend.
func (r *repository) GetByID(ctx context.Context, id uint64) (*Board, error) {
	var b Board
	if err := r.client.Get(ctx, boardPath(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Create(ctx context.Context, req BoardRequest) (*Board, error) {
	var b Board
	if err := r.client.Post(ctx, "/boards", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, id uint64, req BoardRequest) (*Board, error) {
	var b Board
	if err := r.client.Put(ctx, boardPath(id), req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Delete(ctx context.Context, id uint64) error {
	return r.client.Delete(ctx, boardPath(id))
}
