package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/service"
	"github.com/dinopage/internal/view"
	"github.com/gin-gonic/gin"
)

// GetSettings 以 {key: value} 返回全部设置
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.All()
	if err != nil {
		respondInternalError(c, err, locale.MsgSettingsLoadFailed)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings 批量写入设置，任一项不合法时整体失败
func (a *API) SaveSettings(c *gin.Context) {
	var payload map[string]any
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	if _, err := a.settings.Save(payload); err != nil {
		switch {
		case errors.Is(err, service.ErrSettingKeyInvalid):
			respondError(c, http.StatusBadRequest, locale.MsgSettingsKeyInvalid)
		case errors.Is(err, service.ErrSettingKeyReserved):
			respondError(c, http.StatusBadRequest, locale.MsgSettingsKeyReserved)
		case errors.Is(err, service.ErrSocialLinksInvalid):
			respondError(c, http.StatusBadRequest, locale.MsgSocialLinksInvalid)
		default:
			respondInternalError(c, err, locale.MsgSettingsSaveFailed)
		}
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SocialPlatforms 返回页脚社交链接可选的平台
func (a *API) SocialPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, view.SocialIconOptions())
}
