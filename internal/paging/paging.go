// Package paging holds the page/limit request parameters and the paginated
// response envelope shared by the list endpoints.
package paging

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	HistoryLimit = 50
	MaxLimit     = 200
)

type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit from q. Missing, malformed or out-of-range
// values fall back to page 1 and defLimit; limit is capped at MaxLimit and
// page at MaxPage(limit).
func Parse(q url.Values, defLimit int) Params {
	p := Params{Page: 1, Limit: defLimit}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil && v > 0 {
		p.Limit = min(v, MaxLimit)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && v >= 1 {
		p.Page = min(v, MaxPage(p.Limit))
	}
	return p
}

// MaxPage bounds page so that Offset stays within a 32-bit integer.
func MaxPage(limit int) int {
	if limit <= 0 {
		return 1
	}
	return math.MaxInt32 / limit
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// Page is the response envelope for paginated lists.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func New[T any](data []T, total int, p Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
