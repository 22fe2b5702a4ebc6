package router

import (
	"net/http"
	"strings"

	"github.com/dinopage/internal/handler"
	"github.com/dinopage/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionName 是会话 Cookie 的名称。
const SessionName = "dinopage_session"

// Options 描述路由层需要的会话与静态文件参数。
type Options struct {
	SessionSecret string
	// SessionMaxAge 以秒为单位，0 表示浏览器会话
	SessionMaxAge int
	CookieSecure  bool
	UploadDir     string
	UploadURL     string
	Logger        zerolog.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(opts.Logger), middleware.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	// 上传的图片
	uploadURL := strings.TrimRight(opts.UploadURL, "/")
	if uploadURL != "" && opts.UploadDir != "" {
		r.Static(uploadURL, opts.UploadDir)
	}

	r.GET("/healthz", api.HealthCheck)
	r.GET("/sitemap.xml", api.Sitemap)

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/session", api.Session)
		}

		public := apiGroup.Group("/public")
		{
			public.GET("/site", api.PublicSite)
			public.GET("/home", api.PublicHome)
			public.GET("/pages/:slug", api.PublicPage)
		}

		// 读取开放，写入需要登录
		content := apiGroup.Group("")
		content.Use(middleware.MutationsRequireAuth())
		{
			content.GET("/pages", api.ListPages)
			content.GET("/pages/:id", api.GetPage)
			content.POST("/pages", api.CreatePage)
			content.PUT("/pages/:id", api.UpdatePage)
			content.DELETE("/pages/:id", api.DeletePage)

			content.GET("/menus", api.ListMenus)
			content.GET("/menus/:id", api.GetMenu)
			content.POST("/menus", api.CreateMenu)
			content.PUT("/menus/reorder", api.ReorderMenus)
			content.PUT("/menus/:id", api.UpdateMenu)
			content.DELETE("/menus/:id", api.DeleteMenu)

			content.GET("/settings", api.GetSettings)
			content.GET("/settings/social-platforms", api.SocialPlatforms)
			content.POST("/settings", api.SaveSettings)
			content.PUT("/settings", api.SaveSettings)

			content.GET("/domain", api.GetDomain)
			content.POST("/domain", api.AddDomain)
			content.PUT("/domain", api.VerifyDomain)
			content.DELETE("/domain", api.RemoveDomain)
		}

		// 需要认证的后台接口
		admin := apiGroup.Group("")
		admin.Use(middleware.AuthRequired())
		{
			admin.GET("/dashboard", api.Dashboard)
			admin.POST("/uploads/images", api.UploadImage)
		}
	}

	return r
}
