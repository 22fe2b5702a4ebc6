package handler

import (
	"net/http"

	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/locale"
	"github.com/gin-gonic/gin"
)

const dashboardRecentPages = 5

// Dashboard 汇总后台首页的统计信息
func (a *API) Dashboard(c *gin.Context) {
	counts, err := a.pages.Counts()
	if err != nil {
		respondInternalError(c, err, locale.MsgPageListFailed)
		return
	}

	menuCount, err := a.menus.Count()
	if err != nil {
		respondInternalError(c, err, locale.MsgMenuListFailed)
		return
	}

	domain, hasDomain, err := a.settings.Get(db.SettingKeyCustomDomain)
	if err != nil {
		respondInternalError(c, err, locale.MsgSettingsLoadFailed)
		return
	}

	pages, err := a.pages.List()
	if err != nil {
		respondInternalError(c, err, locale.MsgPageListFailed)
		return
	}
	if len(pages) > dashboardRecentPages {
		pages = pages[:dashboardRecentPages]
	}
	recent := make([]gin.H, 0, len(pages))
	for i := range pages {
		recent = append(recent, gin.H{
			"id":          pages[i].ID,
			"title":       pages[i].Title,
			"slug":        pages[i].Slug,
			"isPublished": pages[i].IsPublished,
			"updatedAt":   pages[i].UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totalPages":     counts.Total,
		"publishedPages": counts.Published,
		"menus":          menuCount,
		"hasDomain":      hasDomain && domain != "",
		"customDomain":   domain,
		"recentPages":    recent,
	})
}
