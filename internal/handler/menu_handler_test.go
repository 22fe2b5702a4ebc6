package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dinopage/internal/db"
)

func createTestMenu(t *testing.T, api *API, body map[string]any) map[string]any {
	t.Helper()
	w := callJSON(t, api.CreateMenu, http.MethodPost, "/api/menus", body)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to create menu: %d %s", w.Code, w.Body.String())
	}
	return decodeObject(t, w)
}

func menuID(payload map[string]any) uint {
	return uint(payload["id"].(float64))
}

func TestCreateMenuResolvesHref(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	page := createTestPage(t, api, "About", "about", true)

	pageMenu := createTestMenu(t, api, map[string]any{"name": "About", "type": "PAGE", "pageId": page.ID})
	if pageMenu["href"] != "/pages/about" || pageMenu["newTab"] != false {
		t.Fatalf("unexpected page menu payload: %v", pageMenu)
	}
	if pageMenu["sortOrder"].(float64) != 0 {
		t.Fatalf("expected first menu at sortOrder 0, got %v", pageMenu["sortOrder"])
	}

	custom := createTestMenu(t, api, map[string]any{"name": "Docs", "type": "CUSTOM", "customUrl": "https://docs.example.com"})
	if custom["href"] != "https://docs.example.com" || custom["newTab"] != true {
		t.Fatalf("unexpected custom menu payload: %v", custom)
	}
	if custom["sortOrder"].(float64) != 1 {
		t.Fatalf("expected second menu at sortOrder 1, got %v", custom["sortOrder"])
	}

	child := createTestMenu(t, api, map[string]any{"name": "Child", "type": "CUSTOM", "customUrl": "#team", "parentId": menuID(custom)})
	if child["sortOrder"].(float64) != 0 {
		t.Fatalf("expected first child at sortOrder 0, got %v", child["sortOrder"])
	}
}

func TestCreateMenuValidation(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{name: "missing name", body: map[string]any{"type": "CUSTOM", "customUrl": "/x"}, want: http.StatusBadRequest},
		{name: "bad type", body: map[string]any{"name": "x", "type": "LINK"}, want: http.StatusBadRequest},
		{name: "missing page", body: map[string]any{"name": "x", "type": "PAGE", "pageId": 42}, want: http.StatusBadRequest},
		{name: "bad url", body: map[string]any{"name": "x", "type": "CUSTOM", "customUrl": "javascript:alert(1)"}, want: http.StatusBadRequest},
		{name: "unknown parent", body: map[string]any{"name": "x", "type": "CUSTOM", "customUrl": "/x", "parentId": 77}, want: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := callJSON(t, api.CreateMenu, http.MethodPost, "/api/menus", tc.body); w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestMenuUpdateRequestDistinguishesNull(t *testing.T) {
	var absent menuUpdateRequest
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.ParentID.Set || absent.CustomURL.Set {
		t.Fatalf("absent fields must not be marked as set: %+v", absent)
	}

	var cleared menuUpdateRequest
	if err := json.Unmarshal([]byte(`{"parentId":null,"customUrl":null,"pageId":0}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cleared.ParentID.Set || cleared.ParentID.Value != nil {
		t.Fatalf("expected explicit null parent, got %+v", cleared.ParentID)
	}
	if !cleared.CustomURL.Set || cleared.CustomURL.Value != nil {
		t.Fatalf("expected explicit null url, got %+v", cleared.CustomURL)
	}
	if !cleared.PageID.Set || cleared.PageID.Value != nil {
		t.Fatalf("expected zero page id to clear, got %+v", cleared.PageID)
	}

	var set menuUpdateRequest
	if err := json.Unmarshal([]byte(`{"parentId":3}`), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if set.ParentID.Value == nil || *set.ParentID.Value != 3 {
		t.Fatalf("expected parent 3, got %+v", set.ParentID)
	}
}

func TestUpdateMenuMovesToTopLevel(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	parent := createTestMenu(t, api, map[string]any{"name": "Parent", "type": "CUSTOM", "customUrl": "/parent"})
	createTestMenu(t, api, map[string]any{"name": "Sibling", "type": "CUSTOM", "customUrl": "/sibling"})
	child := createTestMenu(t, api, map[string]any{"name": "Child", "type": "CUSTOM", "customUrl": "/child", "parentId": menuID(parent)})

	w := callJSON(t, api.UpdateMenu, http.MethodPut, "/", map[string]any{"parentId": nil, "name": "Moved"}, idParam(menuID(child)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	payload := decodeObject(t, w)
	if payload["parentId"] != nil || payload["name"] != "Moved" {
		t.Fatalf("unexpected updated menu: %v", payload)
	}
	if payload["sortOrder"].(float64) != 2 {
		t.Fatalf("expected moved menu appended at 2, got %v", payload["sortOrder"])
	}

	w = callJSON(t, api.UpdateMenu, http.MethodPut, "/", map[string]any{"customUrl": nil}, idParam(menuID(child)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when clearing custom url, got %d", w.Code)
	}
	if w := callJSON(t, api.UpdateMenu, http.MethodPut, "/", map[string]any{"name": "x"}, idParam(999)); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestReorderMenus(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	a := menuID(createTestMenu(t, api, map[string]any{"name": "A", "type": "CUSTOM", "customUrl": "/a"}))
	b := menuID(createTestMenu(t, api, map[string]any{"name": "B", "type": "CUSTOM", "customUrl": "/b"}))
	c := menuID(createTestMenu(t, api, map[string]any{"name": "C", "type": "CUSTOM", "customUrl": "/c"}))

	w := callJSON(t, api.ReorderMenus, http.MethodPut, "/api/menus/reorder", map[string]any{
		"items": []map[string]any{
			{"id": a, "sortOrder": 2},
			{"id": b, "parentId": 0, "sortOrder": 0},
			{"id": c, "parentId": a, "sortOrder": 1},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var menus []db.Menu
	api.DB().Order("id asc").Find(&menus)
	got := map[uint]db.Menu{}
	for _, m := range menus {
		got[m.ID] = m
	}
	if got[b].SortOrder != 0 || got[a].SortOrder != 1 {
		t.Fatalf("expected top level order b,a; got b=%d a=%d", got[b].SortOrder, got[a].SortOrder)
	}
	if got[c].ParentID == nil || *got[c].ParentID != a || got[c].SortOrder != 0 {
		t.Fatalf("expected c nested under a at 0, got %+v", got[c])
	}

	listed := decodeArray(t, callJSON(t, api.ListMenus, http.MethodGet, "/api/menus", nil))
	if len(listed) != 2 || listed[0]["name"] != "B" {
		t.Fatalf("unexpected menu tree: %v", listed)
	}
	if children := listed[1]["children"].([]any); len(children) != 1 {
		t.Fatalf("expected one child under A, got %v", children)
	}
}

func TestReorderMenusMixedSortOrder(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	a := menuID(createTestMenu(t, api, map[string]any{"name": "A", "type": "CUSTOM", "customUrl": "/a"}))
	b := menuID(createTestMenu(t, api, map[string]any{"name": "B", "type": "CUSTOM", "customUrl": "/b"}))
	c := menuID(createTestMenu(t, api, map[string]any{"name": "C", "type": "CUSTOM", "customUrl": "/c"}))

	// B 没有 sortOrder，以提交位置 1 参与排序
	w := callJSON(t, api.ReorderMenus, http.MethodPut, "/api/menus/reorder", map[string]any{
		"items": []map[string]any{
			{"id": a, "sortOrder": 2},
			{"id": b},
			{"id": c, "sortOrder": 0},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var menus []db.Menu
	api.DB().Find(&menus)
	got := map[uint]int{}
	for _, m := range menus {
		got[m.ID] = m.SortOrder
	}
	if got[c] != 0 || got[b] != 1 || got[a] != 2 {
		t.Fatalf("expected order c,b,a; got a=%d b=%d c=%d", got[a], got[b], got[c])
	}
}

func TestSortReorderItems(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	cases := []struct {
		name  string
		items []menuReorderItem
		want  []uint
	}{
		{
			name:  "submission order",
			items: []menuReorderItem{{ID: 3}, {ID: 1}, {ID: 2}},
			want:  []uint{3, 1, 2},
		},
		{
			name:  "explicit order",
			items: []menuReorderItem{{ID: 1, SortOrder: intPtr(5)}, {ID: 2, SortOrder: intPtr(1)}, {ID: 3, SortOrder: intPtr(3)}},
			want:  []uint{2, 3, 1},
		},
		{
			name:  "mixed",
			items: []menuReorderItem{{ID: 1, SortOrder: intPtr(2)}, {ID: 2}, {ID: 3, SortOrder: intPtr(0)}},
			want:  []uint{3, 2, 1},
		},
		{
			name:  "ties keep submission order",
			items: []menuReorderItem{{ID: 1, SortOrder: intPtr(0)}, {ID: 2}, {ID: 3, SortOrder: intPtr(0)}},
			want:  []uint{1, 3, 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sorted := sortReorderItems(tc.items)
			for i, item := range sorted {
				if item.ID != tc.want[i] {
					t.Fatalf("position %d: got id %d, want %d (%+v)", i, item.ID, tc.want[i], sorted)
				}
			}
		})
	}
}

func TestReorderMenusRejectsInvalidOrder(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	a := menuID(createTestMenu(t, api, map[string]any{"name": "A", "type": "CUSTOM", "customUrl": "/a"}))

	cases := []map[string]any{
		{"items": []map[string]any{{"id": a}, {"id": a}}},
		{"items": []map[string]any{{"id": a}, {"id": 404}}},
		{"items": []map[string]any{{"id": a, "parentId": a}}},
		{"items": []map[string]any{}},
	}
	for i, body := range cases {
		if w := callJSON(t, api.ReorderMenus, http.MethodPut, "/", body); w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestListMenusHidesInactive(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	createTestMenu(t, api, map[string]any{"name": "Visible", "type": "CUSTOM", "customUrl": "/v"})
	createTestMenu(t, api, map[string]any{"name": "Hidden", "type": "CUSTOM", "customUrl": "/h", "isActive": false})

	if menus := decodeArray(t, callJSON(t, api.ListMenus, http.MethodGet, "/api/menus", nil)); len(menus) != 1 {
		t.Fatalf("expected only active menus, got %v", menus)
	}
	if menus := decodeArray(t, callJSON(t, api.ListMenus, http.MethodGet, "/api/menus?all=true", nil)); len(menus) != 2 {
		t.Fatalf("expected all menus with ?all=true, got %v", menus)
	}
}

func TestDeleteMenuRemovesChildren(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	parent := menuID(createTestMenu(t, api, map[string]any{"name": "Parent", "type": "CUSTOM", "customUrl": "/p"}))
	createTestMenu(t, api, map[string]any{"name": "Child", "type": "CUSTOM", "customUrl": "/c", "parentId": parent})

	if w := callJSON(t, api.DeleteMenu, http.MethodDelete, "/", nil, idParam(parent)); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var remaining int64
	api.DB().Model(&db.Menu{}).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected children to be deleted, %d left", remaining)
	}
	if w := callJSON(t, api.GetMenu, http.MethodGet, "/", nil, idParam(parent)); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
