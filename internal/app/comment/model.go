package comment

import "frontend/internal/providers/api"

type Comment struct {
	ID             uint64   `json:"id"`
	BoardID        uint64   `json:"boardId"`
	Content        string   `json:"content"`
	AuthorUsername string   `json:"authorUsername"`
	CreatedAt      api.Time `json:"createdAt"`
	UpdatedAt      api.Time `json:"updatedAt"`
}

func (c *Comment) Edited() bool {
	return !c.UpdatedAt.IsZero() && !c.UpdatedAt.Equal(c.CreatedAt.Time)
}

type CommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,max=1000"`
}

// Item is a comment as rendered for one viewer.
type Item struct {
	*Comment
	IsAuthor bool
	Editing  bool
}

// Items marks which comments username may edit. editing selects the comment
// shown with an inline edit form; it only applies to the viewer's own.
func Items(comments []*Comment, username string, editing uint64) []Item {
	items := make([]Item, 0, len(comments))
	for _, c := range comments {
		isAuthor := username != "" && c.AuthorUsername == username
		items = append(items, Item{
			Comment:  c,
			IsAuthor: isAuthor,
			Editing:  isAuthor && editing != 0 && c.ID == editing,
		})
	}
	return items
}
