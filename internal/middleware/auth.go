package middleware

import (
	"net/http"

	"github.com/dinopage/internal/locale"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionUserIDKey 会话中保存登录用户 ID 的键。
	SessionUserIDKey = "user_id"
	// SessionUserEmailKey 会话中保存登录邮箱的键。
	SessionUserEmailKey = "user_email"
)

// SessionUserID 从会话中读取当前登录用户，未挂载会话中间件或未登录时返回 false。
func SessionUserID(c *gin.Context) (uint, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return 0, false
	}
	session := sessions.Default(c)
	switch value := session.Get(SessionUserIDKey).(type) {
	case uint:
		return value, value != 0
	case int:
		return uint(value), value > 0
	default:
		return 0, false
	}
}

// AuthRequired 拦截没有有效会话的请求并返回 401 JSON。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionUserID(c); !ok {
			lang := locale.Negotiate(c.Request)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": locale.T(lang, locale.MsgUnauthorized),
			})
			return
		}
		c.Next()
	}
}

// MutationsRequireAuth 仅对 POST/PUT/PATCH/DELETE 要求登录，读取请求直接放行。
func MutationsRequireAuth() gin.HandlerFunc {
	gate := AuthRequired()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			gate(c)
		}
	}
}
