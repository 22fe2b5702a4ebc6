package db

import "time"

const (
	MenuTypePage   = "PAGE"
	MenuTypeCustom = "CUSTOM"
)

// Menu 是导航菜单项，只支持一级嵌套。
type Menu struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Type      string  `gorm:"size:20;not null"`
	PageID    *uint   `gorm:"index"`
	Page      *Page   `gorm:"foreignKey:PageID"`
	CustomURL *string `gorm:"column:custom_url;size:500"`
	ParentID  *uint   `gorm:"index"`
	Children  []Menu  `gorm:"foreignKey:ParentID"`
	SortOrder int     `gorm:"not null;default:0;index"`
	IsActive  bool    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Href 计算菜单在前台的跳转地址，PAGE 类型需要预加载 Page。
func (m Menu) Href() string {
	switch m.Type {
	case MenuTypePage:
		if m.Page != nil && m.Page.Slug != "" {
			return "/pages/" + m.Page.Slug
		}
	case MenuTypeCustom:
		if m.CustomURL != nil && *m.CustomURL != "" {
			return *m.CustomURL
		}
	}
	return "#"
}

// OpensInNewTab 自定义链接在新窗口打开。
func (m Menu) OpensInNewTab() bool {
	return m.Type == MenuTypeCustom
}
