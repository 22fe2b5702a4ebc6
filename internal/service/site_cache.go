package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/dinopage/internal/db"
)

// NavItem 是前台导航中的一项。
type NavItem struct {
	ID       uint
	Name     string
	Href     string
	NewTab   bool
	Children []NavItem
}

// SiteView 是前台公共部分（页头、页脚）所需的数据。
type SiteView struct {
	Title         string
	Description   string
	FooterContent string
	FooterHTML    string
	SocialLinks   []SocialLink
	CustomDomain  string
	Navigation    []NavItem
}

// SiteCache 缓存 SiteView，后台修改页面、菜单、设置或域名后需要调用 Invalidate。
type SiteCache struct {
	mu       sync.RWMutex
	view     *SiteView
	fetched  time.Time
	ttl      time.Duration
	settings *SettingService
	menus    *MenuService
}

// NewSiteCache creates a SiteCache. ttl <= 0 disables caching.
func NewSiteCache(settings *SettingService, menus *MenuService, ttl time.Duration) *SiteCache {
	return &SiteCache{settings: settings, menus: menus, ttl: ttl}
}

func (c *SiteCache) valid() bool {
	return c.view != nil && c.ttl > 0 && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.view = nil
	c.mu.Unlock()
}

// Get 返回缓存的 SiteView，过期时重新加载。
func (c *SiteCache) Get() (SiteView, error) {
	c.mu.RLock()
	if c.valid() {
		view := *c.view
		c.mu.RUnlock()
		return view, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return *c.view, nil
	}

	view, err := c.build()
	if err != nil {
		return SiteView{}, err
	}
	c.view = &view
	c.fetched = time.Now()
	return view, nil
}

func (c *SiteCache) build() (SiteView, error) {
	site, err := c.settings.Site()
	if err != nil {
		return SiteView{}, err
	}

	footerHTML, err := RenderMarkdown(site.FooterContent)
	if err != nil {
		return SiteView{}, fmt.Errorf("render footer: %w", err)
	}

	menus, err := c.menus.List(false)
	if err != nil {
		return SiteView{}, fmt.Errorf("load navigation: %w", err)
	}

	links := site.SocialLinks
	if links == nil {
		links = []SocialLink{}
	}

	return SiteView{
		Title:         site.Title,
		Description:   site.Description,
		FooterContent: site.FooterContent,
		FooterHTML:    footerHTML,
		SocialLinks:   links,
		CustomDomain:  site.CustomDomain,
		Navigation:    buildNavigation(menus),
	}, nil
}

func buildNavigation(menus []db.Menu) []NavItem {
	items := make([]NavItem, 0, len(menus))
	for _, menu := range menus {
		item := NavItem{
			ID:     menu.ID,
			Name:   menu.Name,
			Href:   menu.Href(),
			NewTab: menu.OpensInNewTab(),
		}
		if len(menu.Children) > 0 {
			item.Children = buildNavigation(menu.Children)
		}
		items = append(items, item)
	}
	return items
}
