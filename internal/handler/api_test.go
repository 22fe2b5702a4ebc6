package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dinopage/internal/db"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T, opts ...func(*Options)) (*API, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	options := Options{
		UploadDir: t.TempDir(),
		UploadURL: "/static/uploads",
		BaseURL:   "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(&options)
	}

	api := NewAPI(gdb, options)
	return api, func() {
		api.Close()
		_ = db.Close(gdb)
	}
}

// callJSON 直接调用 handler，body 为 nil 时不带请求体。
func callJSON(t *testing.T, handler gin.HandlerFunc, method, target string, body any, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			reader = bytes.NewBufferString(v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("encode body: %v", err)
			}
			reader = bytes.NewReader(encoded)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Params = params

	handler(c)
	return w
}

func idParam(id uint) gin.Param {
	return gin.Param{Key: "id", Value: fmt.Sprint(id)}
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var payload []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func createTestPage(t *testing.T, api *API, title, slug string, published bool) *db.Page {
	t.Helper()
	page := &db.Page{Title: title, Slug: slug, Content: "# " + title, Template: db.PageTemplateDefault, IsPublished: published}
	if err := api.DB().Create(page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return page
}
