package comment

import (
	"testing"
	"time"

	"frontend/internal/providers/api"

	"github.com/stretchr/testify/assert"
)

func TestItemsMarksOwnComments(t *testing.T) {
	comments := []*Comment{
		{ID: 1, AuthorUsername: "hong"},
		{ID: 2, AuthorUsername: "kim"},
	}

	items := Items(comments, "hong", 2)
	assert.True(t, items[0].IsAuthor)
	assert.False(t, items[1].IsAuthor)
	assert.False(t, items[1].Editing, "cannot edit someone else's comment")

	items = Items(comments, "hong", 1)
	assert.True(t, items[0].Editing)

	items = Items(comments, "", 1)
	assert.False(t, items[0].IsAuthor)
	assert.False(t, items[0].Editing)
}

func TestCommentEdited(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	c := &Comment{CreatedAt: api.Time{Time: at}, UpdatedAt: api.Time{Time: at}}
	assert.False(t, c.Edited())

	c.UpdatedAt = api.Time{Time: at.Add(time.Minute)}
	assert.True(t, c.Edited())
}

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "/boards/3", DetailURL(3, ""))
	assert.Equal(t, "/boards/3", DetailURL(3, "not-a-uuid"))
	assert.Equal(t, "/boards/3?visit=6ba7b810-9dad-11d1-80b4-00c04fd430c8", DetailURL(3, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
