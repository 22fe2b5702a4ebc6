package handler

import (
	"errors"
	"net/http"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/middleware"
	"github.com/dinopage/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 创建后台账号；已有账号后需开启 auth.allow_registration
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthFieldsMissing):
			respondError(c, http.StatusBadRequest, locale.MsgAuthFieldsRequired)
		case errors.Is(err, service.ErrAuthPasswordTooShort):
			respondError(c, http.StatusBadRequest, locale.MsgAuthPasswordTooShort)
		case errors.Is(err, service.ErrAuthEmailTaken):
			respondError(c, http.StatusBadRequest, locale.MsgAuthEmailTaken)
		case errors.Is(err, service.ErrRegistrationClosed):
			respondError(c, http.StatusForbidden, locale.MsgAuthRegisterClosed)
		default:
			respondInternalError(c, err, locale.MsgAuthRegisterFailed)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Login 校验邮箱密码并写入会话，同一 IP 失败过多时返回 429
func (a *API) Login(c *gin.Context) {
	ip := c.ClientIP()
	if !a.limiter.Check(ip) {
		respondError(c, http.StatusTooManyRequests, locale.MsgTooManyAttempts)
		return
	}

	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthInvalidLogin) {
			a.limiter.Record(ip)
			middleware.Logger(c).Warn().Str("ip", ip).Msg("login failed")
			respondError(c, http.StatusUnauthorized, locale.MsgAuthInvalidLogin)
			return
		}
		respondInternalError(c, err, locale.MsgUnexpected)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserIDKey, user.ID)
	session.Set(middleware.SessionUserEmailKey, user.Email)
	if err := session.Save(); err != nil {
		respondInternalError(c, err, locale.MsgAuthSessionFailed)
		return
	}

	a.limiter.Reset(ip)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(user)})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true})
	if err := session.Save(); err != nil {
		respondInternalError(c, err, locale.MsgAuthSessionFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session 返回当前登录用户
func (a *API) Session(c *gin.Context) {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, locale.MsgUnauthorized)
		return
	}

	user, err := a.auth.Get(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, locale.MsgUnauthorized)
			return
		}
		respondInternalError(c, err, locale.MsgUnexpected)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
}
