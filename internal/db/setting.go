package db

import "time"

// Setting 存储站点级的通用键值对。
type Setting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:100;uniqueIndex;not null"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (Setting) TableName() string {
	return "settings"
}

const (
	// SettingKeySiteTitle 表示站点标题。
	SettingKeySiteTitle = "site_title"
	// SettingKeySiteDescription 表示站点描述。
	SettingKeySiteDescription = "site_description"
	// SettingKeyFooterContent 页脚内容，Markdown 格式。
	SettingKeyFooterContent = "footer_content"
	// SettingKeySocialLinks 以 JSON 数组保存社交链接。
	SettingKeySocialLinks = "social_links"
	// SettingKeyCustomDomain 由域名接口维护，不允许通过设置接口直接写入。
	SettingKeyCustomDomain = "custom_domain"
)
