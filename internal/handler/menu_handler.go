package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/dinopage/internal/locale"
	"github.com/dinopage/internal/service"
	"github.com/gin-gonic/gin"
)

var jsonNull = []byte("null")

// optionalUint 区分字段缺省、显式 null 与具体数值，0 视为 null。
type optionalUint struct {
	Set   bool
	Value *uint
}

func (o *optionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value != 0 {
		o.Value = &value
	}
	return nil
}

func (o optionalUint) nullable() service.NullableUint {
	return service.NullableUint{Set: o.Set, Value: o.Value}
}

type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

func (o optionalString) nullable() service.NullableString {
	return service.NullableString{Set: o.Set, Value: o.Value}
}

type menuCreateRequest struct {
	Name      string  `json:"name" binding:"max=100"`
	Type      string  `json:"type"`
	PageID    *uint   `json:"pageId"`
	CustomURL *string `json:"customUrl" binding:"omitempty,max=2048"`
	ParentID  *uint   `json:"parentId"`
	IsActive  *bool   `json:"isActive"`
}

type menuUpdateRequest struct {
	Name      *string        `json:"name" binding:"omitempty,max=100"`
	Type      *string        `json:"type"`
	PageID    optionalUint   `json:"pageId"`
	CustomURL optionalString `json:"customUrl"`
	ParentID  optionalUint   `json:"parentId"`
	IsActive  *bool          `json:"isActive"`
	SortOrder *int           `json:"sortOrder" binding:"omitempty,min=0"`
}

type menuReorderItem struct {
	ID        uint  `json:"id" binding:"required"`
	ParentID  *uint `json:"parentId"`
	SortOrder *int  `json:"sortOrder"`
}

type menuReorderRequest struct {
	Items []menuReorderItem `json:"items" binding:"required,min=1,dive"`
}

func zeroUintToNil(value *uint) *uint {
	if value == nil || *value == 0 {
		return nil
	}
	return value
}

// ListMenus 返回顶层菜单及其子菜单；?all=true 时包含停用项
func (a *API) ListMenus(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("all"))

	menus, err := a.menus.List(includeInactive)
	if err != nil {
		respondInternalError(c, err, locale.MsgMenuListFailed)
		return
	}

	response := make([]gin.H, 0, len(menus))
	for i := range menus {
		response = append(response, menuPayload(&menus[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetMenu 获取单个菜单
func (a *API) GetMenu(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	menu, err := a.menus.Get(id)
	if err != nil {
		a.respondMenuError(c, err, locale.MsgMenuListFailed)
		return
	}
	c.JSON(http.StatusOK, menuPayload(menu))
}

// CreateMenu 创建菜单，排在同级末尾
func (a *API) CreateMenu(c *gin.Context) {
	var req menuCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	menu, err := a.menus.Create(service.MenuInput{
		Name:      req.Name,
		Type:      req.Type,
		PageID:    zeroUintToNil(req.PageID),
		CustomURL: req.CustomURL,
		ParentID:  zeroUintToNil(req.ParentID),
		IsActive:  req.IsActive,
	})
	if err != nil {
		a.respondMenuError(c, err, locale.MsgMenuCreateFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, menuPayload(menu))
}

// UpdateMenu 部分更新菜单
func (a *API) UpdateMenu(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	var req menuUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	menu, err := a.menus.Update(id, service.MenuUpdate{
		Name:      req.Name,
		Type:      req.Type,
		PageID:    req.PageID.nullable(),
		CustomURL: req.CustomURL.nullable(),
		ParentID:  req.ParentID.nullable(),
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		a.respondMenuError(c, err, locale.MsgMenuUpdateFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, menuPayload(menu))
}

// ReorderMenus 按提交顺序重排菜单；带 sortOrder 时先按其稳定排序
func (a *API) ReorderMenus(c *gin.Context) {
	var req menuReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := sortReorderItems(req.Items)

	order := make([]service.MenuOrderItem, 0, len(items))
	for _, item := range items {
		order = append(order, service.MenuOrderItem{ID: item.ID, ParentID: zeroUintToNil(item.ParentID)})
	}

	if err := a.menus.Reorder(order); err != nil {
		a.respondMenuError(c, err, locale.MsgMenuReorderFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": locale.T(requestLanguage(c), locale.MsgMenuReorderSuccess),
	})
}

// DeleteMenu 删除菜单及其子菜单
func (a *API) DeleteMenu(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, locale.MsgInvalidID)
		return
	}

	if err := a.menus.Delete(id); err != nil {
		a.respondMenuError(c, err, locale.MsgMenuDeleteFailed)
		return
	}

	a.site.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// sortReorderItems 按 sortOrder 稳定排序，未带 sortOrder 的条目以其提交位置作为排序键
func sortReorderItems(items []menuReorderItem) []menuReorderItem {
	type keyedItem struct {
		item menuReorderItem
		key  int
	}
	keyed := make([]keyedItem, len(items))
	for i, item := range items {
		keyed[i] = keyedItem{item: item, key: i}
		if item.SortOrder != nil {
			keyed[i].key = *item.SortOrder
		}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].key < keyed[j].key
	})

	sorted := make([]menuReorderItem, len(keyed))
	for i, k := range keyed {
		sorted[i] = k.item
	}
	return sorted
}

func (a *API) respondMenuError(c *gin.Context, err error, fallback locale.MessageKey) {
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		respondError(c, http.StatusNotFound, locale.MsgMenuNotFound)
	case errors.Is(err, service.ErrMenuNameMissing):
		respondError(c, http.StatusBadRequest, locale.MsgMenuNameRequired)
	case errors.Is(err, service.ErrMenuType):
		respondError(c, http.StatusBadRequest, locale.MsgMenuTypeInvalid)
	case errors.Is(err, service.ErrMenuPageMissing):
		respondError(c, http.StatusBadRequest, locale.MsgMenuPageRequired)
	case errors.Is(err, service.ErrMenuURLInvalid):
		respondError(c, http.StatusBadRequest, locale.MsgMenuURLInvalid)
	case errors.Is(err, service.ErrMenuParent):
		respondError(c, http.StatusBadRequest, locale.MsgMenuParentInvalid)
	case errors.Is(err, service.ErrMenuOrder):
		respondError(c, http.StatusBadRequest, locale.MsgMenuOrderInvalid)
	default:
		respondInternalError(c, err, fallback)
	}
}
