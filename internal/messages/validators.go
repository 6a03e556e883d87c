package messages

import (
	"net/url"

	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/paging"
)

// MaxKeywordLen bounds the search keyword in bytes.
const MaxKeywordLen = 200

type SearchQuery struct {
	Keyword string
	UserID  *int64
	Paging  paging.Params
}

func ParseSearch(v url.Values) (SearchQuery, error) {
	q := SearchQuery{
		Keyword: v.Get("keyword"),
		Paging:  paging.Parse(v, paging.DefaultLimit),
	}
	if len(q.Keyword) > MaxKeywordLen {
		return q, httputil.BadRequest("keyword too long")
	}
	var err error
	if q.UserID, err = httputil.OptionalID(v, "user_id"); err != nil {
		return q, err
	}
	return q, nil
}
