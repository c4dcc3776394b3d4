package board

import (
	"frontend/internal/providers/api"
	"frontend/internal/web"
)

type Board struct {
	ID             uint64   `json:"id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	AuthorUsername string   `json:"authorUsername"`
	AuthorFullName string   `json:"authorFullName,omitempty"`
	ViewCount      int64    `json:"viewCount"`
	CreatedAt      api.Time `json:"createdAt"`
	UpdatedAt      api.Time `json:"updatedAt"`
}

func (b *Board) AuthorName() string {
	return web.DisplayName(b.AuthorFullName, b.AuthorUsername)
}

func (b *Board) Edited() bool {
	return !b.UpdatedAt.IsZero() && !b.UpdatedAt.Equal(b.CreatedAt.Time)
}

// IsAuthor reports whether username wrote the board. Anonymous viewers pass "".
func (b *Board) IsAuthor(username string) bool {
	return b != nil && username != "" && b.AuthorUsername == username
}

type BoardRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=200"`
	Content string `json:"content" form:"content" binding:"required"`
}

type BoardPage = api.Page[*Board]
