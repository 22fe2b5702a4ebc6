package handler

import (
	"errors"
	"net/http"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/middleware"
	"github.com/dinopage/internal/service"
	"github.com/gin-gonic/gin"
)

type pageCreateRequest struct {
	Title           string `json:"title" binding:"max=200"`
	Slug            string `json:"slug" binding:"max=200"`
	MetaDescription string `json:"metaDescription" binding:"max=500"`
	Content         string `json:"content"`
	Template        string `json:"template" binding:"max=50"`
	IsPublished     bool   `json:"isPublished"`
	IsHomepage      bool   `json:"isHomepage"`
}

type pageUpdateRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=200"`
	Slug            *string `json:"slug" binding:"omitempty,max=200"`
	MetaDescription *string `json:"metaDescription" binding:"omitempty,max=500"`
	Content         *string `json:"content"`
	Template        *string `json:"template" binding:"omitempty,max=50"`
	IsPublished     *bool   `json:"isPublished"`
	IsHomepage      *bool   `json:"isHomepage"`
}

// ListPages 返回全部页面，按更新时间倒序
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		respondInternalError(c, err, locale.MsgPageListFailed)
		return
	}

	response := make([]gin.H, 0, len(pages))
	for i := range pages {
		response = append(response, pagePayload(&pages[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetPage 获取单个页面
func (a *API) GetPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	page, err := a.pages.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, locale.MsgPageNotFound)
			return
		}
		respondInternalError(c, err, locale.MsgPageLoadFailed)
		return
	}

	c.JSON(http.StatusOK, pagePayload(page))
}

// CreatePage 创建页面
func (a *API) CreatePage(c *gin.Context) {
	var req pageCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.PageInput{
		Title:           req.Title,
		Slug:            req.Slug,
		MetaDescription: req.MetaDescription,
		Content:         req.Content,
		Template:        req.Template,
		IsPublished:     req.IsPublished,
		IsHomepage:      req.IsHomepage,
	}
	if userID, ok := middleware.SessionUserID(c); ok {
		input.CreatedBy = &userID
	}

	page, err := a.pages.Create(input)
	if err != nil {
		a.respondPageError(c, err, locale.MsgPageCreateFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, pagePayload(page))
}

// UpdatePage 部分更新页面
func (a *API) UpdatePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	var req pageUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := a.pages.Update(id, service.PageUpdate{
		Title:           req.Title,
		Slug:            req.Slug,
		MetaDescription: req.MetaDescription,
		Content:         req.Content,
		Template:        req.Template,
		IsPublished:     req.IsPublished,
		IsHomepage:      req.IsHomepage,
	})
	if err != nil {
		a.respondPageError(c, err, locale.MsgPageUpdateFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, pagePayload(page))
}

// DeletePage 删除页面
func (a *API) DeletePage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	if err := a.pages.Delete(id); err != nil {
		a.respondPageError(c, err, locale.MsgPageDeleteFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondPageError(c *gin.Context, err error, fallback locale.MessageKey) {
	switch {
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, locale.MsgPageNotFound)
	case errors.Is(err, service.ErrPageTitleMissing):
		respondError(c, http.StatusBadRequest, locale.MsgPageTitleRequired)
	case errors.Is(err, service.ErrPageSlugInvalid):
		respondError(c, http.StatusBadRequest, locale.MsgPageSlugInvalid)
	case errors.Is(err, service.ErrPageSlugExists):
		respondError(c, http.StatusBadRequest, locale.MsgPageSlugExists)
	case errors.Is(err, service.ErrPageTemplate):
		respondError(c, http.StatusBadRequest, locale.MsgPageTemplate)
	default:
		respondInternalError(c, err, fallback)
	}
}
