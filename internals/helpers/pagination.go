package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListQuery holds the common list parameters: page, limit, search, sortBy, sortOrder.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string // ASC|DESC
}

// ParseListQuery normalizes the common list parameters; invalid values fall back to defaults.
func ParseListQuery(c *fiber.Ctx) ListQuery {
	q := ListQuery{
		Page:      atoiDefault(c.Query("page"), DefaultPage),
		Limit:     atoiDefault(c.Query("limit"), DefaultLimit),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    strings.TrimSpace(c.Query("sortBy")),
		SortOrder: strings.ToUpper(strings.TrimSpace(c.Query("sortOrder"))),
	}
	return q.Normalize()
}

func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortOrder != "ASC" && q.SortOrder != "DESC" {
		q.SortOrder = "DESC"
	}
	return q
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

// SearchPattern is the LIKE pattern for a case-insensitive contains match.
func (q ListQuery) SearchPattern() string {
	s := strings.ToLower(q.Search)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// OrderClause resolves sortBy through a whitelist (JSON name -> column).
// Unknown keys fall back to defaultKey.
func (q ListQuery) OrderClause(allowed map[string]string, defaultKey string) string {
	col, ok := allowed[q.SortBy]
	if !ok {
		col = allowed[defaultKey]
	}
	return col + " " + q.SortOrder
}

/* ===============================
   Pagination envelope
=================================*/

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// BuildPagination: totalPages = ceil(total/limit), 0 when there are no rows.
func BuildPagination(total int64, page, limit int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// ApplySearch adds an OR of case-insensitive LIKEs over columns when a search term is present.
func ApplySearch(db *gorm.DB, q ListQuery, columns ...string) *gorm.DB {
	if q.Search == "" || len(columns) == 0 {
		return db
	}
	pattern := q.SearchPattern()
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER(COALESCE("+col+", '')) LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// Paginate counts with the full filter set, then loads one ordered page.
func Paginate[T any](db *gorm.DB, q ListQuery, sortable map[string]string, defaultSort string) ([]T, Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	rows := make([]T, 0, q.Limit)
	if total > int64(q.Offset()) {
		if err := db.Session(&gorm.Session{}).
			Order(q.OrderClause(sortable, defaultSort)).
			Offset(q.Offset()).
			Limit(q.Limit).
			Find(&rows).Error; err != nil {
			return nil, Pagination{}, err
		}
	}
	return rows, BuildPagination(total, q.Page, q.Limit), nil
}
