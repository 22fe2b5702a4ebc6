package service

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dinopage/internal/db"
	"gorm.io/gorm"
)

var (
	ErrMenuNotFound    = errors.New("menu not found")
	ErrMenuNameMissing = errors.New("menu name is required")
	ErrMenuType        = errors.New("menu type must be PAGE or CUSTOM")
	ErrMenuPageMissing = errors.New("menu page is required")
	ErrMenuURLInvalid  = errors.New("menu url is invalid")
	ErrMenuParent      = errors.New("invalid parent menu")
	ErrMenuOrder       = errors.New("invalid menu order")
)

// MenuInput 创建菜单时的参数。IsActive 为 nil 时默认启用。
type MenuInput struct {
	Name      string
	Type      string
	PageID    *uint
	CustomURL *string
	ParentID  *uint
	IsActive  *bool
}

// NullableUint 用于区分“未提供”和“显式置空”。
type NullableUint struct {
	Set   bool
	Value *uint
}

// NullableString 与 NullableUint 相同，用于字符串字段。
type NullableString struct {
	Set   bool
	Value *string
}

// MenuUpdate 只更新被设置的字段，校验规则与创建一致。
type MenuUpdate struct {
	Name      *string
	Type      *string
	PageID    NullableUint
	CustomURL NullableString
	ParentID  NullableUint
	IsActive  *bool
	SortOrder *int
}

// MenuOrderItem 描述拖拽排序后某个菜单的位置。
type MenuOrderItem struct {
	ID       uint
	ParentID *uint
}

// MenuService wraps navigation menu operations.
type MenuService struct {
	db *gorm.DB
}

// NewMenuService creates a MenuService instance.
func NewMenuService(gdb *gorm.DB) *MenuService {
	return &MenuService{db: gdb}
}

// List 返回一级菜单及其子菜单，均按 sort_order 排序。includeInactive 为 false 时只返回启用的菜单。
func (s *MenuService) List(includeInactive bool) ([]db.Menu, error) {
	query := s.db.
		Preload("Page").
		Preload("Children", func(tx *gorm.DB) *gorm.DB {
			if !includeInactive {
				tx = tx.Where("is_active = ?", true)
			}
			return tx.Order("sort_order asc").Order("id asc")
		}).
		Preload("Children.Page").
		Where("parent_id IS NULL")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var menus []db.Menu
	if err := query.Order("sort_order asc").Order("id asc").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// Get 读取单个菜单及其子菜单。
func (s *MenuService) Get(id uint) (*db.Menu, error) {
	var menu db.Menu
	err := s.db.
		Preload("Page").
		Preload("Children", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc").Order("id asc")
		}).
		Preload("Children.Page").
		First(&menu, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

// Count 返回菜单总数。
func (s *MenuService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Menu{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 新建菜单并排在同级菜单的最后。
func (s *MenuService) Create(input MenuInput) (*db.Menu, error) {
	menu := db.Menu{
		Name:      strings.TrimSpace(input.Name),
		Type:      strings.ToUpper(strings.TrimSpace(input.Type)),
		PageID:    input.PageID,
		CustomURL: trimmedPtr(input.CustomURL),
		ParentID:  input.ParentID,
		IsActive:  true,
	}
	if input.IsActive != nil {
		menu.IsActive = *input.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateMenu(tx, &menu); err != nil {
			return err
		}

		sortOrder, err := nextMenuSortOrder(tx, menu.ParentID)
		if err != nil {
			return err
		}
		menu.SortOrder = sortOrder

		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		return tx.Preload("Page").First(&menu, menu.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &menu, nil
}

// Update 部分更新菜单。更换上级且未指定 sortOrder 时排到新分组的末尾。
func (s *MenuService) Update(id uint, input MenuUpdate) (*db.Menu, error) {
	var menu db.Menu
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&menu, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMenuNotFound
			}
			return err
		}

		originalParent := menu.ParentID
		if input.Name != nil {
			menu.Name = strings.TrimSpace(*input.Name)
		}
		if input.Type != nil {
			menu.Type = strings.ToUpper(strings.TrimSpace(*input.Type))
		}
		if input.PageID.Set {
			menu.PageID = input.PageID.Value
		}
		if input.CustomURL.Set {
			menu.CustomURL = trimmedPtr(input.CustomURL.Value)
		}
		if input.ParentID.Set {
			menu.ParentID = input.ParentID.Value
		}
		if input.IsActive != nil {
			menu.IsActive = *input.IsActive
		}

		if err := validateMenu(tx, &menu); err != nil {
			return err
		}

		switch {
		case input.SortOrder != nil:
			menu.SortOrder = *input.SortOrder
		case !sameParent(originalParent, menu.ParentID):
			sortOrder, err := nextMenuSortOrder(tx, menu.ParentID)
			if err != nil {
				return err
			}
			menu.SortOrder = sortOrder
		}

		if err := tx.Model(&menu).Select(
			"name", "type", "page_id", "custom_url", "parent_id", "is_active", "sort_order", "updated_at",
		).Updates(&menu).Error; err != nil {
			return err
		}

		return tx.Preload("Page").First(&menu, menu.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &menu, nil
}

// Delete 删除菜单以及它的子菜单。
func (s *MenuService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var menu db.Menu
		if err := tx.First(&menu, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMenuNotFound
			}
			return err
		}

		if err := tx.Where("parent_id = ?", id).Delete(&db.Menu{}).Error; err != nil {
			return err
		}
		return tx.Delete(&menu).Error
	})
}

// Reorder 按提交顺序为每个分组重新分配从 0 开始的连续 sort_order。
func (s *MenuService) Reorder(items []MenuOrderItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	children := make(map[uint]struct{})
	for _, item := range items {
		if item.ID == 0 {
			return ErrMenuOrder
		}
		if _, ok := seen[item.ID]; ok {
			return ErrMenuOrder
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
		if item.ParentID != nil {
			children[item.ID] = struct{}{}
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing []db.Menu
		if err := tx.Where("id IN ?", ids).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) != len(ids) {
			return ErrMenuOrder
		}

		for _, item := range items {
			if item.ParentID == nil {
				continue
			}
			parentID := *item.ParentID
			if parentID == item.ID {
				return ErrMenuOrder
			}
			if _, isChild := children[parentID]; isChild {
				return ErrMenuOrder
			}
			if _, listed := seen[parentID]; !listed {
				var parent db.Menu
				if err := tx.First(&parent, parentID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrMenuOrder
					}
					return err
				}
				if parent.ParentID != nil {
					return ErrMenuOrder
				}
			}

			// 被挪到二级的菜单不能再带着未提交的子菜单
			var orphaned int64
			if err := tx.Model(&db.Menu{}).
				Where("parent_id = ? AND id NOT IN ?", item.ID, ids).
				Count(&orphaned).Error; err != nil {
				return err
			}
			if orphaned > 0 {
				return ErrMenuOrder
			}
		}

		positions := make(map[uint]int)
		for _, item := range items {
			var group uint
			if item.ParentID != nil {
				group = *item.ParentID
			}
			idx := positions[group]
			positions[group] = idx + 1

			result := tx.Model(&db.Menu{}).Where("id = ?", item.ID).Updates(map[string]any{
				"sort_order": idx,
				"parent_id":  item.ParentID,
			})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrMenuNotFound
			}
		}
		return nil
	})
}

func validateMenu(tx *gorm.DB, menu *db.Menu) error {
	if menu.Name == "" {
		return ErrMenuNameMissing
	}

	switch menu.Type {
	case db.MenuTypePage:
		if menu.PageID == nil || *menu.PageID == 0 {
			return ErrMenuPageMissing
		}
		var count int64
		if err := tx.Model(&db.Page{}).Where("id = ?", *menu.PageID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrMenuPageMissing
		}
		menu.CustomURL = nil
	case db.MenuTypeCustom:
		if menu.CustomURL == nil || !IsValidMenuURL(*menu.CustomURL) {
			return ErrMenuURLInvalid
		}
		menu.PageID = nil
	default:
		return ErrMenuType
	}

	if menu.ParentID == nil {
		return nil
	}
	if *menu.ParentID == 0 {
		menu.ParentID = nil
		return nil
	}
	if menu.ID != 0 && *menu.ParentID == menu.ID {
		return ErrMenuParent
	}

	var parent db.Menu
	if err := tx.First(&parent, *menu.ParentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuParent
		}
		return err
	}
	if parent.ParentID != nil {
		return ErrMenuParent
	}

	if menu.ID != 0 {
		var childCount int64
		if err := tx.Model(&db.Menu{}).Where("parent_id = ?", menu.ID).Count(&childCount).Error; err != nil {
			return err
		}
		if childCount > 0 {
			return ErrMenuParent
		}
	}

	return nil
}

// IsValidMenuURL 接受 http(s) 绝对地址、站内路径、mailto: 与页内锚点。
func IsValidMenuURL(raw string) bool {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return false
	case strings.HasPrefix(value, "#"):
		return true
	case strings.HasPrefix(value, "/"):
		return !strings.HasPrefix(value, "//")
	case strings.HasPrefix(strings.ToLower(value), "mailto:"):
		return len(value) > len("mailto:")
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

func nextMenuSortOrder(tx *gorm.DB, parentID *uint) (int, error) {
	query := tx.Model(&db.Menu{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var maxSort int
	if err := query.Select("COALESCE(MAX(sort_order), -1)").Scan(&maxSort).Error; err != nil {
		return 0, err
	}
	return maxSort + 1, nil
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
