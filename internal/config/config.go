package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// 存在 .env 文件时，在读取环境变量之前自动加载
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// EnvPrefix 是所有环境变量的统一前缀，例如 DINOPAGE_DATABASE_PATH。
const EnvPrefix = "DINOPAGE"

// DefaultSessionSecret 仅供本地开发，release 模式下必须替换。
const DefaultSessionSecret = "dinopage-dev-session-secret"

// ErrDefaultSessionSecret 表示 release 模式仍在使用内置的会话密钥。
var ErrDefaultSessionSecret = errors.New("session.secret must be changed from the built-in default in release mode")

// AppConfig 汇总运行服务所需的全部配置。
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload" validate:"required"`
	Site     SiteConfig     `mapstructure:"site" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Vercel   VercelConfig   `mapstructure:"vercel"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	ListenAddr   string `mapstructure:"listen_addr" validate:"required"`
	GinMode      string `mapstructure:"gin_mode" validate:"required,oneof=debug release test"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret" validate:"required,min=16"`
	// MaxAge 以秒为单位
	MaxAge int `mapstructure:"max_age" validate:"gte=0"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir" validate:"required"`
	URLPath string `mapstructure:"url_path" validate:"required,startswith=/"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

type CacheConfig struct {
	SiteTTL time.Duration `mapstructure:"site_ttl" validate:"gte=0"`
}

// AuthConfig 控制注册开关与登录限流。
type AuthConfig struct {
	AllowRegistration bool          `mapstructure:"allow_registration"`
	LoginMaxAttempts  int           `mapstructure:"login_max_attempts" validate:"gte=1"`
	LoginWindow       time.Duration `mapstructure:"login_window" validate:"gt=0"`
}

// VercelConfig 为空时自定义域名功能不可用，但不影响其它接口。
type VercelConfig struct {
	APIURL    string `mapstructure:"api_url" validate:"omitempty,url"`
	Token     string `mapstructure:"token"`
	ProjectID string `mapstructure:"project_id"`
	TeamID    string `mapstructure:"team_id"`
}

// Configured 表示是否具备调用 Vercel API 的最少信息。
func (v VercelConfig) Configured() bool {
	return strings.TrimSpace(v.Token) != "" && strings.TrimSpace(v.ProjectID) != ""
}

// AdminConfig 用于启动时自动创建首个管理员。
type AdminConfig struct {
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Password string `mapstructure:"password" validate:"omitempty,min=8"`
	Name     string `mapstructure:"name"`
}

// Option 在加载阶段覆盖单个配置项，通常来自命令行参数。
type Option func(v *viper.Viper)

// WithOverride 以最高优先级设置 key 对应的值。
func WithOverride(key string, value any) Option {
	return func(v *viper.Viper) {
		v.Set(key, value)
	}
}

var defaults = map[string]any{
	"server.listen_addr":        ":8080",
	"server.gin_mode":           "release",
	"server.cookie_secure":      false,
	"database.path":             "data/dinopage.db",
	"session.secret":            DefaultSessionSecret,
	"session.max_age":           7 * 24 * 60 * 60,
	"upload.dir":                "web/static/uploads",
	"upload.url_path":           "/static/uploads",
	"site.base_url":             "http://localhost:8080",
	"log.level":                 "info",
	"log.format":                "json",
	"cache.site_ttl":            "5m",
	"auth.allow_registration":   false,
	"auth.login_max_attempts":   5,
	"auth.login_window":         "15m",
	"vercel.api_url":            "https://api.vercel.com",
	"vercel.token":              "",
	"vercel.project_id":         "",
	"vercel.team_id":            "",
	"admin.email":               "",
	"admin.password":            "",
	"admin.name":                "Admin",
}

// Load 依次合并默认值、配置文件、环境变量与 opts，并校验结果。
// configFile 为空时尝试读取工作目录下的 dinopage.yaml，不存在则忽略。
func Load(configFile string, opts ...Option) (AppConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file := strings.TrimSpace(configFile); file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("dinopage")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strings.TrimSpace(configFile) != "" {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		opt(v)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Server.GinMode == "release" && cfg.Session.Secret == DefaultSessionSecret {
		return AppConfig{}, ErrDefaultSessionSecret
	}

	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Server.ListenAddr = strings.TrimSpace(c.Server.ListenAddr)
	c.Server.GinMode = strings.ToLower(strings.TrimSpace(c.Server.GinMode))
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	c.Session.Secret = strings.TrimSpace(c.Session.Secret)
	c.Upload.Dir = strings.TrimSpace(c.Upload.Dir)
	c.Upload.URLPath = strings.TrimRight(strings.TrimSpace(c.Upload.URLPath), "/")
	if c.Upload.URLPath == "" {
		c.Upload.URLPath = "/"
	}
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Vercel.APIURL = strings.TrimRight(strings.TrimSpace(c.Vercel.APIURL), "/")
	c.Vercel.Token = strings.TrimSpace(c.Vercel.Token)
	c.Vercel.ProjectID = strings.TrimSpace(c.Vercel.ProjectID)
	c.Vercel.TeamID = strings.TrimSpace(c.Vercel.TeamID)
	c.Admin.Email = strings.ToLower(strings.TrimSpace(c.Admin.Email))
	c.Admin.Name = strings.TrimSpace(c.Admin.Name)
}
