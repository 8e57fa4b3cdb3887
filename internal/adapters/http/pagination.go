package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// pageParams reads offset/limit from the query string, clamping bad values.
func pageParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	limit = c.QueryInt("limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return offset, limit
}

// paginate slices items to the requested page.
func paginate[T any](items []T, offset, limit int) ([]T, Pagination) {
	total := len(items)
	pg := Pagination{Offset: offset, Limit: limit, Total: total}
	if offset >= total {
		return []T{}, pg
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], pg
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
// Filter parameters other than offset and limit are carried over.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	extra := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key != "offset" && key != "limit" {
			extra.Add(key, string(v))
		}
	})
	suffix := ""
	if len(extra) > 0 {
		suffix = "&" + extra.Encode()
	}

	link := func(offset int, rel string) string {
		return fmt.Sprintf(`<%s?offset=%d&limit=%d%s>; rel="%s"`, base, offset, p.Limit, suffix, rel)
	}

	var links []string
	links = append(links, link(0, "first"))

	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		links = append(links, link(prev, "prev"))
	}

	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}

	lastOffset := p.Total - p.Limit
	if lastOffset < 0 {
		lastOffset = 0
	}
	links = append(links, link(lastOffset, "last"))

	c.Set("Link", strings.Join(links, ", "))
}
