package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

type Sort struct {
	Field string
	Desc  bool
}

// Query carries equality filters, pagination and ordering to repositories.
type Query struct {
	Filters map[string]any
	Page    int
	Limit   int
	Sort    []Sort
}

func New() *Query {
	return &Query{
		Filters: map[string]any{},
		Page:    DefaultPage,
		Limit:   DefaultLimit,
	}
}

func ByID(id string) *Query {
	return New().Where("id", id)
}

func (q *Query) Where(field string, value any) *Query {
	q.Filters[field] = value
	return q
}

func (q *Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// TotalPages returns the page count for total records.
func (q *Query) TotalPages(total int64) int {
	if q.Limit <= 0 {
		return 0
	}
	return int((total + int64(q.Limit) - 1) / int64(q.Limit))
}

// Parse reads page, limit, sort and equality filters from url values. Only the
// fields listed in allowed are accepted as filters or sort keys; allowed maps
// the query string name to the column name.
func Parse(values url.Values, allowed map[string]string) *Query {
	q := New()

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = min(limit, MaxLimit)
	}

	for _, key := range strings.Split(values.Get("sort"), ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		desc := strings.HasPrefix(key, "-")
		key = strings.TrimLeft(key, "-+")
		if column, ok := allowed[key]; ok {
			q.Sort = append(q.Sort, Sort{Field: column, Desc: desc})
		}
	}

	for key, vals := range values {
		switch key {
		case "page", "limit", "sort":
			continue
		}
		if column, ok := allowed[key]; ok && len(vals) > 0 && vals[0] != "" {
			q.Filters[column] = vals[0]
		}
	}

	return q
}
