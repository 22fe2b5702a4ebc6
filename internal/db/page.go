package db

import "time"

const (
	PageTemplateDefault   = "default"
	PageTemplateLanding   = "landing"
	PageTemplateFullWidth = "full-width"
)

// PageTemplates 列出允许使用的页面模板。
var PageTemplates = []string{PageTemplateDefault, PageTemplateLanding, PageTemplateFullWidth}

// Page 是一篇可独立发布的 Markdown 页面。
// 同一时间最多只有一篇 IsHomepage 为 true，由服务层在事务内保证。
type Page struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"size:200;not null"`
	Slug            string `gorm:"size:200;uniqueIndex;not null"`
	MetaDescription string `gorm:"type:text"`
	Content         string `gorm:"type:text"`
	ContentHTML     string `gorm:"column:content_html;type:text"`
	Template        string `gorm:"size:50;not null"`
	IsPublished     bool   `gorm:"not null;index"`
	IsHomepage      bool   `gorm:"not null;index"`
	CreatedBy       *uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidTemplate 判断模板名称是否受支持。
func IsValidTemplate(template string) bool {
	for _, candidate := range PageTemplates {
		if candidate == template {
			return true
		}
	}
	return false
}
