package handler

import (
	"strings"
	"time"

	"github.com/dinopage/internal/service"
	"gorm.io/gorm"
)

// Options 描述构造 API 所需的运行参数。
type Options struct {
	UploadDir         string
	UploadURL         string
	BaseURL           string
	SiteTTL           time.Duration
	AllowRegistration bool
	LoginMaxAttempts  int
	LoginWindow       time.Duration
	// Domains 为 nil 时域名接口返回“未配置”。
	Domains service.DomainProvider
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	pages     *service.PageService
	menus     *service.MenuService
	settings  *service.SettingService
	domains   *service.DomainService
	auth      *service.AuthService
	site      *service.SiteCache
	limiter   *LoginLimiter
	uploadDir string
	uploadURL string
	baseURL   string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	useJSONFieldNames()

	settings := service.NewSettingService(gdb)
	menus := service.NewMenuService(gdb)

	maxAttempts := opts.LoginMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	window := opts.LoginWindow
	if window <= 0 {
		window = 15 * time.Minute
	}

	uploadURL := strings.TrimRight(strings.TrimSpace(opts.UploadURL), "/")
	if uploadURL == "" {
		uploadURL = "/static/uploads"
	}
	uploadDir := strings.TrimSpace(opts.UploadDir)
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	return &API{
		db:        gdb,
		pages:     service.NewPageService(gdb),
		menus:     menus,
		settings:  settings,
		domains:   service.NewDomainService(settings, opts.Domains),
		auth:      service.NewAuthService(gdb, opts.AllowRegistration),
		site:      service.NewSiteCache(settings, menus, opts.SiteTTL),
		limiter:   NewLoginLimiter(maxAttempts, window),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Close 停止后台清理协程。
func (a *API) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
}
