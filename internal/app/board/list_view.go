package board

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const msgListFailed = "게시글을 불러오는데 실패했습니다."

// ListQuery selects one of the three board listings. Username wins over
// Keyword.
type ListQuery struct {
	Page     int
	Keyword  string
	Username string
}

// Key identifies the listing for remembering its total page count.
func (q ListQuery) Key() string {
	switch {
	case q.Username != "":
		return "user:" + q.Username
	case q.keyword() != "":
		return "search:" + q.keyword()
	default:
		return "all"
	}
}

func (q ListQuery) keyword() string {
	return strings.TrimSpace(q.Keyword)
}

func (q ListQuery) basePath() string {
	if q.Username != "" {
		return "/users/" + url.PathEscape(q.Username)
	}
	return "/"
}

// PageLink is one pagination control. Number is zero-based, Label one-based.
type PageLink struct {
	Number   int
	Label    string
	Href     string
	Current  bool
	Ellipsis bool
	Disabled bool
}

type ListView struct {
	Heading    string
	BasePath   string
	Keyword    string
	Page       int
	TotalPages int
	Boards     []*Board
	Pager      []PageLink
	Prev       PageLink
	Next       PageLink
	Error      string
}

// ClampPage keeps page inside [0, total-1] when the listing's total is known.
func ClampPage(page, total int, known bool) int {
	if page < 0 {
		page = 0
	}
	if known && total > 0 && page > total-1 {
		page = total - 1
	}
	if known && total == 0 {
		page = 0
	}
	return page
}

// LoadList fetches one page of the listing selected by q. knownTotal is the
// last total page count seen for q.Key(). If the backend reports fewer pages
// than requested, the last page is fetched instead.
func LoadList(ctx context.Context, svc Service, q ListQuery, size, knownTotal int, known bool) (*ListView, error) {
	view := &ListView{
		Heading:  "게시판",
		BasePath: q.basePath(),
		Keyword:  q.keyword(),
		Page:     ClampPage(q.Page, knownTotal, known),
	}
	if q.Username != "" {
		view.Heading = q.Username + "님의 게시글"
		view.Keyword = ""
	}

	fetch := func(page int) (*BoardPage, error) {
		switch {
		case q.Username != "":
			return svc.ListByUser(ctx, q.Username, page, size)
		case view.Keyword != "":
			return svc.Search(ctx, view.Keyword, page, size)
		default:
			return svc.List(ctx, page, size)
		}
	}

	result, err := fetch(view.Page)
	if err == nil && result.TotalPages > 0 && view.Page > result.TotalPages-1 {
		view.Page = result.TotalPages - 1
		result, err = fetch(view.Page)
	}
	if err != nil {
		view.Error = msgListFailed
		return view, err
	}

	view.Boards = result.Content
	view.TotalPages = result.TotalPages
	view.Pager, view.Prev, view.Next = buildPager(view, view.Page, view.TotalPages)
	return view, nil
}

func (v *ListView) href(page int) string {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if v.Keyword != "" {
		query.Set("keyword", v.Keyword)
	}
	if len(query) == 0 {
		return v.BasePath
	}
	return v.BasePath + "?" + query.Encode()
}

// buildPager shows the first and last pages and the current page with its
// neighbours, with an ellipsis two pages out. No controls for zero pages.
func buildPager(v *ListView, page, total int) ([]PageLink, PageLink, PageLink) {
	if total <= 0 {
		return nil, PageLink{}, PageLink{}
	}

	var links []PageLink
	for i := 0; i < total; i++ {
		switch {
		case i == 0 || i == total-1 || (i >= page-1 && i <= page+1):
			links = append(links, PageLink{
				Number:  i,
				Label:   strconv.Itoa(i + 1),
				Href:    v.href(i),
				Current: i == page,
			})
		case i == page-2 || i == page+2:
			links = append(links, PageLink{Number: i, Ellipsis: true})
		}
	}

	prev := PageLink{Number: page - 1, Disabled: page == 0}
	if !prev.Disabled {
		prev.Href = v.href(page - 1)
	}
	next := PageLink{Number: page + 1, Disabled: page >= total-1}
	if !next.Disabled {
		next.Href = v.href(page + 1)
	}
	return links, prev, next
}
