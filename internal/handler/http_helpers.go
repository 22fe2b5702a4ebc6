package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// fieldError 是返回给客户端的单个字段校验错误。
type fieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

var registerTagNameOnce sync.Once

// useJSONFieldNames 让 gin 的校验器在错误中使用 json 标签名。
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

func requestLanguage(c *gin.Context) string {
	return locale.Negotiate(c.Request)
}

func respondError(c *gin.Context, status int, key locale.MessageKey) {
	c.JSON(status, gin.H{"error": locale.T(requestLanguage(c), key)})
}

// respondInternalError 记录错误后返回通用的 500 文案。
func respondInternalError(c *gin.Context, err error, key locale.MessageKey) {
	_ = c.Error(err)
	middleware.Logger(c).Error().Err(err).Str("path", c.FullPath()).Msg(string(key))
	respondError(c, http.StatusInternalServerError, key)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  locale.T(requestLanguage(c), locale.MsgValidationFailed),
				"errors": extractFieldErrors(verrs),
			})
			return false
		}
		respondError(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return false
	}
	return true
}

func extractFieldErrors(verrs validator.ValidationErrors) []fieldError {
	result := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}
		case "email":
			msg = "must be a valid email address"
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			msg = fmt.Sprintf("failed on %s", fe.Tag())
		}
		result = append(result, fieldError{Field: fieldPath(fe), Error: msg})
	}
	return result
}

// fieldPath 去掉顶层结构体名，例如 menuReorderRequest.items[0].id -> items[0].id。
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
