package handler

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/middleware"
	"github.com/dinopage/internal/service"
	"github.com/gin-gonic/gin"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// PublicSite 返回前台页头页脚所需的数据
func (a *API) PublicSite(c *gin.Context) {
	site, err := a.site.Get()
	if err != nil {
		respondInternalError(c, err, locale.MsgSettingsLoadFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":        site.Title,
		"description":  site.Description,
		"footerHtml":   site.FooterHTML,
		"socialLinks":  socialLinksPayload(site.SocialLinks),
		"customDomain": site.CustomDomain,
		"navigation":   navigationPayload(site.Navigation),
	})
}

// PublicHome 返回首页：优先已发布的主页，否则最早发布的页面
func (a *API) PublicHome(c *gin.Context) {
	page, err := a.pages.Home()
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, locale.MsgPageNotFound)
			return
		}
		respondInternalError(c, err, locale.MsgPageLoadFailed)
		return
	}
	c.JSON(http.StatusOK, publicPagePayload(page))
}

// PublicPage 按 slug 返回已发布页面
func (a *API) PublicPage(c *gin.Context) {
	page, err := a.pages.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, locale.MsgPageNotFound)
			return
		}
		respondInternalError(c, err, locale.MsgPageLoadFailed)
		return
	}
	c.JSON(http.StatusOK, publicPagePayload(page))
}

// Sitemap 输出已发布页面的 sitemap.xml
func (a *API) Sitemap(c *gin.Context) {
	pages, err := a.pages.ListPublished()
	if err != nil {
		respondInternalError(c, err, locale.MsgPageListFailed)
		return
	}

	base := a.baseURL
	if domain, ok, err := a.settings.Get(db.SettingKeyCustomDomain); err == nil && ok && strings.TrimSpace(domain) != "" {
		base = "https://" + strings.TrimSpace(domain)
	}

	urls := make([]sitemapURL, 0, len(pages)+1)
	urls = append(urls, sitemapURL{Loc: buildURL(base)})
	for _, page := range pages {
		if page.IsHomepage {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     buildURL(base, "pages", page.Slug),
			LastMod: page.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write([]byte(xml.Header))
	if err := xml.NewEncoder(c.Writer).Encode(sitemapURLSet{XMLNS: sitemapNamespace, URLs: urls}); err != nil {
		middleware.Logger(c).Error().Err(err).Msg("encode sitemap")
	}
}

// buildURL 拼接站点地址与路径片段，路径片段会被转义。
func buildURL(base string, segments ...string) string {
	base = strings.TrimRight(base, "/")
	if len(segments) == 0 {
		return base + "/"
	}
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return base + "/" + strings.Join(escaped, "/")
}
