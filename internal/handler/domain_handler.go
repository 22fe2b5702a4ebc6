package handler

import (
	"errors"
	"net/http"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/middleware"
	"github.com/dinopage/internal/service"
	"github.com/dinopage/internal/vercel"
	"github.com/gin-gonic/gin"
)

type domainRequest struct {
	Domain string `json:"domain" binding:"required,max=253"`
}

// GetDomain 返回当前自定义域名及其在托管平台上的状态。
// 托管平台查询失败时仍返回已保存的域名，status 为 null 并附带 error 与 code。
func (a *API) GetDomain(c *gin.Context) {
	state, err := a.domains.Current(c.Request.Context())
	if err != nil {
		a.respondDomainError(c, err, locale.MsgDomainLoadFailed)
		return
	}
	if state.Domain == "" {
		c.JSON(http.StatusOK, gin.H{"domain": nil})
		return
	}

	payload := gin.H{"domain": state.Domain, "status": domainPayload(state.Status)}
	if state.ProviderErr != nil {
		message, code := a.providerProblem(c, state.ProviderErr)
		payload["error"] = message
		payload["code"] = code
	}
	c.JSON(http.StatusOK, payload)
}

// providerProblem 把查询状态时的托管平台错误转换成展示给后台的文案与错误码
func (a *API) providerProblem(c *gin.Context, err error) (string, string) {
	lang := requestLanguage(c)
	var apiErr *vercel.APIError
	switch {
	case errors.Is(err, service.ErrDomainNotConfigured):
		return locale.T(lang, locale.MsgDomainNotConfigured), "not_configured"
	case errors.As(err, &apiErr):
		middleware.Logger(c).Warn().Err(err).Msg("domain status lookup rejected")
		message := apiErr.Message
		if message == "" {
			message = locale.T(lang, locale.MsgDomainLoadFailed)
		}
		code := apiErr.Code
		if code == "" {
			code = "provider_error"
		}
		return message, code
	default:
		middleware.Logger(c).Warn().Err(err).Msg("domain status lookup failed")
		return locale.T(lang, locale.MsgDomainLoadFailed), "provider_unavailable"
	}
}

// AddDomain 在托管平台绑定域名并保存设置
func (a *API) AddDomain(c *gin.Context) {
	var req domainRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := a.domains.Add(c.Request.Context(), req.Domain)
	if err != nil {
		a.respondDomainError(c, err, locale.MsgDomainAddFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, result)
}

// RemoveDomain 解绑域名，未设置时同样返回成功
func (a *API) RemoveDomain(c *gin.Context) {
	if err := a.domains.Remove(c.Request.Context()); err != nil {
		a.respondDomainError(c, err, locale.MsgDomainRemoveFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyDomain 触发重新校验
func (a *API) VerifyDomain(c *gin.Context) {
	result, err := a.domains.Verify(c.Request.Context())
	if err != nil {
		a.respondDomainError(c, err, locale.MsgDomainVerifyFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) respondDomainError(c *gin.Context, err error, fallback locale.MessageKey) {
	var apiErr *vercel.APIError
	switch {
	case errors.Is(err, service.ErrDomainInvalid):
		respondError(c, http.StatusBadRequest, locale.MsgDomainInvalid)
	case errors.Is(err, service.ErrDomainNotSet):
		respondError(c, http.StatusNotFound, locale.MsgDomainNotSet)
	case errors.Is(err, service.ErrDomainNotConfigured):
		respondInternalError(c, err, locale.MsgDomainNotConfigured)
	case errors.As(err, &apiErr) && fallback != locale.MsgDomainLoadFailed && fallback != locale.MsgDomainRemoveFailed:
		// 托管平台拒绝请求时直接透出其错误信息
		message := apiErr.Message
		if message == "" {
			message = locale.T(requestLanguage(c), fallback)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": apiErr.Code})
	default:
		respondInternalError(c, err, fallback)
	}
}
