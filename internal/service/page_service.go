package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dinopage/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrPageTitleMissing = errors.New("page title is required")
	ErrPageSlugInvalid  = errors.New("page slug is invalid")
	ErrPageSlugExists   = errors.New("page slug already exists")
	ErrPageTemplate     = errors.New("page template is not supported")
)

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
)

// PageInput 创建页面时的参数。Slug 为空时由标题生成。
type PageInput struct {
	Title           string
	Slug            string
	MetaDescription string
	Content         string
	Template        string
	IsPublished     bool
	IsHomepage      bool
	CreatedBy       *uint
}

// PageUpdate 只更新非 nil 的字段。
type PageUpdate struct {
	Title           *string
	Slug            *string
	MetaDescription *string
	Content         *string
	Template        *string
	IsPublished     *bool
	IsHomepage      *bool
}

// PageCounts 是后台概览使用的统计数据。
type PageCounts struct {
	Total     int64
	Published int64
}

// PageService 负责页面的增删改查以及首页切换。
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// Slugify 将标题转换为 URL 友好的 slug，无法转换时返回空串。
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	return strings.Trim(slugSeparator.ReplaceAllString(lowered, "-"), "-")
}

// List 按更新时间倒序返回全部页面。
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("updated_at desc").Order("id desc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// ListPublished 按创建时间正序返回已发布页面。
func (s *PageService) ListPublished() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Where("is_published = ?", true).Order("created_at asc").Order("id asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Get 根据 ID 读取页面。
func (s *PageService) Get(id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// GetPublishedBySlug 只返回已发布的页面。
func (s *PageService) GetPublishedBySlug(slug string) (*db.Page, error) {
	var page db.Page
	err := s.db.Where("slug = ? AND is_published = ?", strings.TrimSpace(slug), true).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Home 返回前台首页：优先已发布的首页，其次是最早发布的页面。
func (s *PageService) Home() (*db.Page, error) {
	var page db.Page
	err := s.db.Where("is_homepage = ? AND is_published = ?", true, true).First(&page).Error
	if err == nil {
		return &page, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("is_published = ?", true).Order("created_at asc").Order("id asc").First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Counts 统计页面总数与已发布数量。
func (s *PageService) Counts() (PageCounts, error) {
	var counts PageCounts
	if err := s.db.Model(&db.Page{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := s.db.Model(&db.Page{}).Where("is_published = ?", true).Count(&counts.Published).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// Create 新建页面，slug 重复时返回 ErrPageSlugExists。
func (s *PageService) Create(input PageInput) (*db.Page, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPageTitleMissing
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugPattern.MatchString(slug) {
		return nil, ErrPageSlugInvalid
	}

	template := strings.TrimSpace(input.Template)
	if template == "" {
		template = db.PageTemplateDefault
	}
	if !db.IsValidTemplate(template) {
		return nil, ErrPageTemplate
	}

	contentHTML, err := RenderMarkdown(input.Content)
	if err != nil {
		return nil, err
	}

	page := db.Page{
		Title:           title,
		Slug:            slug,
		MetaDescription: strings.TrimSpace(input.MetaDescription),
		Content:         input.Content,
		ContentHTML:     contentHTML,
		Template:        template,
		IsPublished:     input.IsPublished,
		IsHomepage:      input.IsHomepage,
		CreatedBy:       input.CreatedBy,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugAvailable(tx, slug, 0); err != nil {
			return err
		}
		if err := tx.Create(&page).Error; err != nil {
			return err
		}
		if page.IsHomepage {
			return clearOtherHomepages(tx, page.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// Update 部分更新页面。设置为首页时在同一事务内取消其它页面的首页标记。
func (s *PageService) Update(id uint, input PageUpdate) (*db.Page, error) {
	updates := make(map[string]any)

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrPageTitleMissing
		}
		updates["title"] = title
	}
	var slug string
	if input.Slug != nil {
		slug = strings.TrimSpace(*input.Slug)
		if !slugPattern.MatchString(slug) {
			return nil, ErrPageSlugInvalid
		}
		updates["slug"] = slug
	}
	if input.MetaDescription != nil {
		updates["meta_description"] = strings.TrimSpace(*input.MetaDescription)
	}
	if input.Content != nil {
		contentHTML, err := RenderMarkdown(*input.Content)
		if err != nil {
			return nil, err
		}
		updates["content"] = *input.Content
		updates["content_html"] = contentHTML
	}
	if input.Template != nil {
		template := strings.TrimSpace(*input.Template)
		if template == "" {
			template = db.PageTemplateDefault
		}
		if !db.IsValidTemplate(template) {
			return nil, ErrPageTemplate
		}
		updates["template"] = template
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}
	if input.IsHomepage != nil {
		updates["is_homepage"] = *input.IsHomepage
	}

	var page db.Page
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&page, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return err
		}

		if slug != "" && slug != page.Slug {
			if err := ensureSlugAvailable(tx, slug, page.ID); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&page).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.IsHomepage != nil && *input.IsHomepage {
			if err := clearOtherHomepages(tx, page.ID); err != nil {
				return err
			}
		}

		return tx.First(&page, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// Delete 删除页面，并把指向它的菜单解除关联。PAGE 类型的菜单同时停用。
func (s *PageService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var page db.Page
		if err := tx.First(&page, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return err
		}

		if err := tx.Model(&db.Menu{}).
			Where("page_id = ? AND type = ?", id, db.MenuTypePage).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Menu{}).
			Where("page_id = ?", id).
			Update("page_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&page).Error
	})
}

func ensureSlugAvailable(tx *gorm.DB, slug string, excludeID uint) error {
	query := tx.Model(&db.Page{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPageSlugExists
	}
	return nil
}

func clearOtherHomepages(tx *gorm.DB, keepID uint) error {
	return tx.Model(&db.Page{}).
		Where("id <> ? AND is_homepage = ?", keepID, true).
		Update("is_homepage", false).Error
}
