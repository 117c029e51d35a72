// Package query parses the shared list-endpoint parameters and turns them
// into gorm scopes: visibility (drafts, soft-deleted rows), free-text search,
// tag and featured filters, ordering and pagination.
package query

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params carries the parsed list parameters. Flags that only admins may use
// are parsed for everyone; the scopes ignore them unless the caller is
// privileged.
type Params struct {
	Q              string
	Tag            string
	Featured       *bool
	Published      *bool
	IncludeDrafts  bool
	IncludeDeleted bool
	Page           int
	Limit          int
}

// Parse reads the list parameters from the request query string, applying
// defaults and clamping pagination to sane bounds.
func Parse(r *http.Request) Params {
	values := r.URL.Query()

	p := Params{
		Q:              strings.TrimSpace(values.Get("q")),
		Tag:            strings.ToLower(strings.TrimSpace(values.Get("tag"))),
		Featured:       parseBool(values.Get("featured")),
		Published:      parseBool(values.Get("published")),
		IncludeDrafts:  values.Get("includeDrafts") == "true",
		IncludeDeleted: values.Get("includeDeleted") == "true",
		Page:           DefaultPage,
		Limit:          DefaultLimit,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		if limit > MaxLimit {
			limit = MaxLimit
		}
		p.Limit = limit
	}
	return p
}

// Meta is the pagination block returned alongside every list.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta derives the pagination block from the params and the unpaginated
// row count.
func NewMeta(p Params, total int64) Meta {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// Visibility gates rows by publication state and soft deletion. Anonymous and
// regular callers only ever see published, live rows. Admins see drafts when
// they ask for them (includeDrafts or an explicit published filter) and
// soft-deleted rows only with includeDeleted.
func Visibility(admin bool, p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if admin && p.IncludeDeleted {
			db = db.Unscoped()
		}
		switch {
		case !admin:
			db = db.Where("published = ?", true)
		case p.Published != nil:
			db = db.Where("published = ?", *p.Published)
		case !p.IncludeDrafts:
			db = db.Where("published = ?", true)
		}
		return db
	}
}

// Filters applies the tag and featured filters. Tags are stored as a JSON
// string array in a text column, so tag matching looks for the quoted,
// lowercased value.
func Filters(p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Tag != "" {
			db = db.Where("tags LIKE ?", `%"`+p.Tag+`"%`)
		}
		if p.Featured != nil {
			db = db.Where("featured = ?", *p.Featured)
		}
		return db
	}
}

// Search matches the lowercased query as a substring of any of the given
// columns. A blank query is a no-op.
func Search(q string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(q) + "%"
		clause := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, column := range columns {
			clause = append(clause, "LOWER("+column+") LIKE ?")
			args = append(args, pattern)
		}
		return db.Where(strings.Join(clause, " OR "), args...)
	}
}

// Paginate applies the 1-based page window.
func Paginate(p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
	}
}

// Order sorts featured rows first, then by descending priority and recency.
func Order() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("featured DESC").Order("priority DESC").Order("created_at DESC")
	}
}

func parseBool(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
