package board

import (
	"unicode/utf8"

	"frontend/internal/providers/api"
	"frontend/internal/utils"
)

const (
	msgCreated      = "작성되었습니다."
	msgUpdated      = "수정되었습니다."
	msgActionFailed = "작업에 실패했습니다."
)

var validationMessages = map[string]string{
	"Title.required":   "제목을 입력해주세요",
	"Title.max":        "제목은 200자를 초과할 수 없습니다",
	"Content.required": "내용을 입력해주세요",
}

// FormView backs both the create and the edit page. A zero ID means create.
type FormView struct {
	ID      uint64
	Title   string
	Content string
	Error   string
}

func NewFormView(id uint64) *FormView {
	return &FormView{ID: id}
}

func (f *FormView) IsEdit() bool {
	return f.ID != 0
}

func (f *FormView) TitleLength() int {
	return utf8.RuneCountInString(f.Title)
}

func (f *FormView) request() BoardRequest {
	return BoardRequest{Title: f.Title, Content: f.Content}
}

func (f *FormView) pageTitle() string {
	if f.IsEdit() {
		return "게시글 수정"
	}
	return "게시글 작성"
}

// Populate fills the edit form from the backend.
func (f *FormView) Populate(b *Board) {
	f.Title = b.Title
	f.Content = b.Content
}

func (f *FormView) failValidation(err error) {
	f.Error = utils.ValidationMessage(err, validationMessages, msgActionFailed)
}

// failSubmit shows the backend's message verbatim when it sent one.
func (f *FormView) failSubmit(err error) {
	if msg := api.ServerMessage(err); msg != "" {
		f.Error = msg
		return
	}
	f.Error = msgActionFailed
}
