package handler

import (
	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/service"
	"github.com/dinopage/internal/view"
	"github.com/dinopage/internal/vercel"
	"github.com/gin-gonic/gin"
)

func pagePayload(page *db.Page) gin.H {
	return gin.H{
		"id":              page.ID,
		"title":           page.Title,
		"slug":            page.Slug,
		"metaDescription": page.MetaDescription,
		"content":         page.Content,
		"contentHtml":     page.ContentHTML,
		"template":        page.Template,
		"isPublished":     page.IsPublished,
		"isHomepage":      page.IsHomepage,
		"createdBy":       page.CreatedBy,
		"createdAt":       page.CreatedAt,
		"updatedAt":       page.UpdatedAt,
	}
}

func publicPagePayload(page *db.Page) gin.H {
	return gin.H{
		"title":           page.Title,
		"slug":            page.Slug,
		"metaDescription": page.MetaDescription,
		"contentHtml":     page.ContentHTML,
		"template":        page.Template,
		"isHomepage":      page.IsHomepage,
		"updatedAt":       page.UpdatedAt,
	}
}

func menuPayload(menu *db.Menu) gin.H {
	payload := gin.H{
		"id":        menu.ID,
		"name":      menu.Name,
		"type":      menu.Type,
		"pageId":    menu.PageID,
		"customUrl": menu.CustomURL,
		"parentId":  menu.ParentID,
		"sortOrder": menu.SortOrder,
		"isActive":  menu.IsActive,
		"href":      menu.Href(),
		"newTab":    menu.OpensInNewTab(),
		"page":      nil,
		"createdAt": menu.CreatedAt,
		"updatedAt": menu.UpdatedAt,
	}
	if menu.Page != nil {
		payload["page"] = gin.H{
			"id":    menu.Page.ID,
			"title": menu.Page.Title,
			"slug":  menu.Page.Slug,
		}
	}

	children := make([]gin.H, 0, len(menu.Children))
	for i := range menu.Children {
		children = append(children, menuPayload(&menu.Children[i]))
	}
	payload["children"] = children
	return payload
}

func navigationPayload(items []service.NavItem) []gin.H {
	result := make([]gin.H, 0, len(items))
	for _, item := range items {
		result = append(result, gin.H{
			"id":       item.ID,
			"name":     item.Name,
			"href":     item.Href,
			"newTab":   item.NewTab,
			"children": navigationPayload(item.Children),
		})
	}
	return result
}

func socialLinksPayload(links []service.SocialLink) []gin.H {
	result := make([]gin.H, 0, len(links))
	for _, link := range links {
		result = append(result, gin.H{
			"platform": link.Platform,
			"label":    view.SocialIconLabel(link.Platform),
			"url":      link.URL,
			"icon":     view.SocialIconSVG(link.Platform),
		})
	}
	return result
}

func userPayload(user *db.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"image": user.Image,
	}
}

func domainPayload(domain *vercel.Domain) any {
	if domain == nil {
		return nil
	}
	return domain
}
