package service

import (
	"errors"
	"testing"

	"github.com/dinopage/internal/db"
)

func seedMenuPage(t *testing.T, svc *PageService, title string) *db.Page {
	t.Helper()
	page, err := svc.Create(PageInput{Title: title, IsPublished: true})
	if err != nil {
		t.Fatalf("seed page %q: %v", title, err)
	}
	return page
}

func TestMenuServiceCreateAssignsSiblingSortOrder(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-create")
	pages := NewPageService(gdb)
	svc := NewMenuService(gdb)

	about := seedMenuPage(t, pages, "About")

	first, err := svc.Create(MenuInput{Name: "About", Type: "page", PageID: &about.ID})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.SortOrder != 0 || !first.IsActive || first.Type != db.MenuTypePage {
		t.Fatalf("unexpected first menu: %+v", first)
	}
	if first.Href() != "/pages/about" {
		t.Fatalf("expected page href, got %q", first.Href())
	}

	second, err := svc.Create(MenuInput{Name: "Blog", Type: db.MenuTypeCustom, CustomURL: strPtr(" https://blog.example.com ")})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.SortOrder != 1 {
		t.Fatalf("expected sort order 1, got %d", second.SortOrder)
	}
	if second.CustomURL == nil || *second.CustomURL != "https://blog.example.com" {
		t.Fatalf("expected trimmed custom url, got %v", second.CustomURL)
	}

	child, err := svc.Create(MenuInput{Name: "Team", Type: db.MenuTypeCustom, CustomURL: strPtr("/team"), ParentID: &first.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.SortOrder != 0 {
		t.Fatalf("expected first child sort order 0, got %d", child.SortOrder)
	}

	hidden, err := svc.Create(MenuInput{Name: "Hidden", Type: db.MenuTypeCustom, CustomURL: strPtr("#top"), IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	if hidden.IsActive {
		t.Fatalf("expected inactive menu to stay inactive")
	}
}

func TestMenuServiceCreateValidation(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-validate")
	svc := NewMenuService(gdb)

	parent, err := svc.Create(MenuInput{Name: "Parent", Type: db.MenuTypeCustom, CustomURL: strPtr("/")})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(MenuInput{Name: "Child", Type: db.MenuTypeCustom, CustomURL: strPtr("/c"), ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	tests := []struct {
		name  string
		input MenuInput
		want  error
	}{
		{name: "missing name", input: MenuInput{Type: db.MenuTypeCustom, CustomURL: strPtr("/")}, want: ErrMenuNameMissing},
		{name: "bad type", input: MenuInput{Name: "x", Type: "LINK"}, want: ErrMenuType},
		{name: "page without id", input: MenuInput{Name: "x", Type: db.MenuTypePage}, want: ErrMenuPageMissing},
		{name: "page not found", input: MenuInput{Name: "x", Type: db.MenuTypePage, PageID: uintPtr(999)}, want: ErrMenuPageMissing},
		{name: "custom without url", input: MenuInput{Name: "x", Type: db.MenuTypeCustom}, want: ErrMenuURLInvalid},
		{name: "custom bad url", input: MenuInput{Name: "x", Type: db.MenuTypeCustom, CustomURL: strPtr("javascript:alert(1)")}, want: ErrMenuURLInvalid},
		{name: "missing parent", input: MenuInput{Name: "x", Type: db.MenuTypeCustom, CustomURL: strPtr("/"), ParentID: uintPtr(999)}, want: ErrMenuParent},
		{name: "nested too deep", input: MenuInput{Name: "x", Type: db.MenuTypeCustom, CustomURL: strPtr("/"), ParentID: &child.ID}, want: ErrMenuParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIsValidMenuURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com":     true,
		"http://example.com/path": true,
		"/about":                  true,
		"#contact":                true,
		"mailto:hi@example.com":   true,
		"mailto:":                 false,
		"//evil.example.com":      false,
		"ftp://example.com":       false,
		"javascript:alert(1)":     false,
		"example.com":             false,
		"":                        false,
	}
	for input, want := range cases {
		if got := IsValidMenuURL(input); got != want {
			t.Fatalf("IsValidMenuURL(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMenuServiceListFiltersInactive(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-list")
	svc := NewMenuService(gdb)

	home, _ := svc.Create(MenuInput{Name: "Home", Type: db.MenuTypeCustom, CustomURL: strPtr("/")})
	_, _ = svc.Create(MenuInput{Name: "Off", Type: db.MenuTypeCustom, CustomURL: strPtr("/off"), IsActive: boolPtr(false)})
	_, _ = svc.Create(MenuInput{Name: "Child On", Type: db.MenuTypeCustom, CustomURL: strPtr("/a"), ParentID: &home.ID})
	_, _ = svc.Create(MenuInput{Name: "Child Off", Type: db.MenuTypeCustom, CustomURL: strPtr("/b"), ParentID: &home.ID, IsActive: boolPtr(false)})

	active, err := svc.List(false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Home" {
		t.Fatalf("expected only Home at top level, got %d menus", len(active))
	}
	if len(active[0].Children) != 1 || active[0].Children[0].Name != "Child On" {
		t.Fatalf("expected only active child, got %+v", active[0].Children)
	}

	all, err := svc.List(true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || len(all[0].Children) != 2 {
		t.Fatalf("expected inactive menus in admin view, got %d top-level", len(all))
	}
}

func TestMenuServiceReorderAssignsDenseOrder(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-reorder")
	svc := NewMenuService(gdb)

	a, _ := svc.Create(MenuInput{Name: "A", Type: db.MenuTypeCustom, CustomURL: strPtr("/a")})
	b, _ := svc.Create(MenuInput{Name: "B", Type: db.MenuTypeCustom, CustomURL: strPtr("/b")})
	c, _ := svc.Create(MenuInput{Name: "C", Type: db.MenuTypeCustom, CustomURL: strPtr("/c")})
	d, _ := svc.Create(MenuInput{Name: "D", Type: db.MenuTypeCustom, CustomURL: strPtr("/d")})

	err := svc.Reorder([]MenuOrderItem{
		{ID: c.ID},
		{ID: d.ID, ParentID: &c.ID},
		{ID: a.ID},
		{ID: b.ID, ParentID: &c.ID},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	expect := map[uint]struct {
		sort   int
		parent *uint
	}{
		c.ID: {0, nil},
		a.ID: {1, nil},
		d.ID: {0, &c.ID},
		b.ID: {1, &c.ID},
	}
	for id, want := range expect {
		var menu db.Menu
		if err := gdb.First(&menu, id).Error; err != nil {
			t.Fatalf("reload %d: %v", id, err)
		}
		if menu.SortOrder != want.sort || !sameParent(menu.ParentID, want.parent) {
			t.Fatalf("menu %s: got sort=%d parent=%v", menu.Name, menu.SortOrder, menu.ParentID)
		}
	}
}

func TestMenuServiceReorderRejectsInvalid(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-reorder-invalid")
	svc := NewMenuService(gdb)

	a, _ := svc.Create(MenuInput{Name: "A", Type: db.MenuTypeCustom, CustomURL: strPtr("/a")})
	b, _ := svc.Create(MenuInput{Name: "B", Type: db.MenuTypeCustom, CustomURL: strPtr("/b")})
	child, _ := svc.Create(MenuInput{Name: "Child", Type: db.MenuTypeCustom, CustomURL: strPtr("/c"), ParentID: &a.ID})

	tests := []struct {
		name  string
		items []MenuOrderItem
	}{
		{name: "duplicate", items: []MenuOrderItem{{ID: a.ID}, {ID: a.ID}}},
		{name: "zero id", items: []MenuOrderItem{{ID: 0}}},
		{name: "unknown id", items: []MenuOrderItem{{ID: 999}}},
		{name: "self parent", items: []MenuOrderItem{{ID: a.ID, ParentID: &a.ID}}},
		{name: "parent listed as child", items: []MenuOrderItem{{ID: a.ID, ParentID: &b.ID}, {ID: b.ID, ParentID: &a.ID}}},
		{name: "parent is nested", items: []MenuOrderItem{{ID: b.ID, ParentID: &child.ID}}},
		{name: "moving menu with children", items: []MenuOrderItem{{ID: a.ID, ParentID: &b.ID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Reorder(tt.items); !errors.Is(err, ErrMenuOrder) {
				t.Fatalf("expected ErrMenuOrder, got %v", err)
			}
		})
	}

	var reloaded db.Menu
	gdb.First(&reloaded, a.ID)
	if reloaded.ParentID != nil || reloaded.SortOrder != 0 {
		t.Fatalf("expected failed reorder to leave menus untouched, got %+v", reloaded)
	}
}

func TestMenuServiceUpdate(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-update")
	pages := NewPageService(gdb)
	svc := NewMenuService(gdb)
	page := seedMenuPage(t, pages, "Contact")

	parent, _ := svc.Create(MenuInput{Name: "Parent", Type: db.MenuTypeCustom, CustomURL: strPtr("/")})
	_, _ = svc.Create(MenuInput{Name: "Existing Child", Type: db.MenuTypeCustom, CustomURL: strPtr("/e"), ParentID: &parent.ID})
	menu, _ := svc.Create(MenuInput{Name: "Link", Type: db.MenuTypeCustom, CustomURL: strPtr("/link")})

	updated, err := svc.Update(menu.ID, MenuUpdate{
		Type:   strPtr(db.MenuTypePage),
		PageID: NullableUint{Set: true, Value: &page.ID},
	})
	if err != nil {
		t.Fatalf("switch to page: %v", err)
	}
	if updated.Type != db.MenuTypePage || updated.CustomURL != nil || updated.Href() != "/pages/contact" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Name != "Link" {
		t.Fatalf("expected name to be preserved, got %q", updated.Name)
	}

	moved, err := svc.Update(menu.ID, MenuUpdate{ParentID: NullableUint{Set: true, Value: &parent.ID}})
	if err != nil {
		t.Fatalf("move under parent: %v", err)
	}
	if moved.SortOrder != 1 {
		t.Fatalf("expected moved menu at end of group, got %d", moved.SortOrder)
	}

	if _, err := svc.Update(parent.ID, MenuUpdate{ParentID: NullableUint{Set: true, Value: &menu.ID}}); !errors.Is(err, ErrMenuParent) {
		t.Fatalf("expected ErrMenuParent, got %v", err)
	}

	deactivated, err := svc.Update(menu.ID, MenuUpdate{IsActive: boolPtr(false), ParentID: NullableUint{Set: true}})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if deactivated.IsActive || deactivated.ParentID != nil {
		t.Fatalf("expected inactive top-level menu, got %+v", deactivated)
	}

	if _, err := svc.Update(999, MenuUpdate{Name: strPtr("x")}); !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
}

func TestMenuServiceDeleteRemovesChildren(t *testing.T) {
	gdb := setupServiceTestDB(t, "menu-delete")
	svc := NewMenuService(gdb)

	parent, _ := svc.Create(MenuInput{Name: "Parent", Type: db.MenuTypeCustom, CustomURL: strPtr("/")})
	_, _ = svc.Create(MenuInput{Name: "Child", Type: db.MenuTypeCustom, CustomURL: strPtr("/c"), ParentID: &parent.ID})
	_, _ = svc.Create(MenuInput{Name: "Other", Type: db.MenuTypeCustom, CustomURL: strPtr("/o")})

	if err := svc.Delete(parent.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := svc.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining menu, got %d", count)
	}

	if err := svc.Delete(parent.ID); !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
}
