package helper

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:50"`
	Color string `gorm:"size:20"`
}

func openWidgets(t *testing.T, n int) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&widget{}, &CodeSequence{}))
	for i := 1; i <= n; i++ {
		color := "red"
		if i%2 == 0 {
			color = "blue"
		}
		require.NoError(t, db.Create(&widget{Name: fmt.Sprintf("Widget %02d", i), Color: color}).Error)
	}
	return db
}

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		total      int64
		limit      int
		totalPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 10, 5},
	}
	for _, tc := range cases {
		p := BuildPagination(tc.total, 1, tc.limit)
		assert.Equal(t, tc.totalPages, p.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.total, p.Total)
	}
}

func TestParseListQuery(t *testing.T) {
	app := fiber.New()
	var got ListQuery
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseListQuery(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?page=3&limit=500&search=%20Acme%20&sortBy=name&sortOrder=asc", nil))
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 3, Limit: MaxLimit, Search: "Acme", SortBy: "name", SortOrder: "ASC"}, got)

	_, err = app.Test(httptest.NewRequest("GET", "/?page=-1&limit=abc&sortOrder=sideways", nil))
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 1, Limit: DefaultLimit, SortOrder: "DESC"}, got)
}

func TestPaginate_TotalIndependentOfPage(t *testing.T) {
	db := openWidgets(t, 45)
	sortable := map[string]string{"name": "name", "id": "id"}

	for _, limit := range []int{1, 7, 10, 45, 100} {
		for _, page := range []int{1, 2, 9} {
			q := ListQuery{Page: page, Limit: limit, SortBy: "id", SortOrder: "ASC"}
			rows, p, err := Paginate[widget](db.Model(&widget{}), q, sortable, "id")
			require.NoError(t, err)
			assert.EqualValues(t, 45, p.Total)
			assert.Equal(t, (45+limit-1)/limit, p.TotalPages)

			want := 45 - (page-1)*limit
			if want > limit {
				want = limit
			}
			if want < 0 {
				want = 0
			}
			assert.Len(t, rows, want, "page=%d limit=%d", page, limit)
		}
	}
}

func TestPaginate_FiltersSearchAndOrder(t *testing.T) {
	db := openWidgets(t, 12)
	q := ListQuery{Page: 1, Limit: 5, Search: "1", SortBy: "name", SortOrder: "DESC"}

	scoped := ApplySearch(db.Model(&widget{}).Where("color = ?", "red"), q, "name")
	rows, p, err := Paginate[widget](scoped, q, map[string]string{"name": "name"}, "name")
	require.NoError(t, err)

	// red widgets are odd numbers; "1" matches 01 and 11
	assert.EqualValues(t, 2, p.Total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Widget 11", rows[0].Name)
	assert.Equal(t, "Widget 01", rows[1].Name)
}

func TestPaginate_OutOfRangePageIsEmpty(t *testing.T) {
	db := openWidgets(t, 3)
	rows, p, err := Paginate[widget](db.Model(&widget{}), ListQuery{Page: 4, Limit: 2, SortOrder: "ASC"}, map[string]string{"id": "id"}, "id")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
	assert.EqualValues(t, 3, p.Total)
	assert.Equal(t, 2, p.TotalPages)
}

func TestSearchPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_%`, ListQuery{Search: "50% OFF_"}.SearchPattern())
}

func TestJsonList_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonList(c, "", []string{}, BuildPagination(0, 1, 20))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":[],"pagination":{"page":1,"limit":20,"total":0,"totalPages":0}}`, string(body))
}
