package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dinopage/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSettingKeyInvalid  = errors.New("setting key is invalid")
	ErrSettingKeyReserved = errors.New("setting key is reserved")
	ErrSocialLinksInvalid = errors.New("social links are invalid")
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9_]{1,100}$`)

// SocialPlatforms 列出页脚支持的社交平台，顺序即前台展示顺序。
var SocialPlatforms = []string{"instagram", "youtube", "twitter", "facebook", "linkedin", "github"}

// SocialLink 是 social_links 设置中的一项。
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SiteSettings 是前台需要的已知设置项。
type SiteSettings struct {
	Title         string
	Description   string
	FooterContent string
	SocialLinks   []SocialLink
	CustomDomain  string
}

// SettingService 提供通用键值设置的读写。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

// All 以 map 形式返回全部设置。
func (s *SettingService) All() (map[string]string, error) {
	var records []db.Setting
	if err := s.db.Order("key asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	result := make(map[string]string, len(records))
	for _, record := range records {
		result[record.Key] = record.Value
	}
	return result, nil
}

// Get 读取单个设置，ok 表示该键是否存在。
func (s *SettingService) Get(key string) (string, bool, error) {
	var record db.Setting
	if err := s.db.Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return record.Value, true, nil
}

// Site 汇总前台使用的设置，social_links 解析失败时按空列表处理。
func (s *SettingService) Site() (SiteSettings, error) {
	values, err := s.All()
	if err != nil {
		return SiteSettings{}, err
	}

	site := SiteSettings{
		Title:         values[db.SettingKeySiteTitle],
		Description:   values[db.SettingKeySiteDescription],
		FooterContent: values[db.SettingKeyFooterContent],
		CustomDomain:  values[db.SettingKeyCustomDomain],
	}
	if links, err := ParseSocialLinks(values[db.SettingKeySocialLinks]); err == nil {
		site.SocialLinks = links
	}
	return site, nil
}

// Save 在一个事务中批量写入设置，任一项不合法时整体不生效。
func (s *SettingService) Save(input map[string]any) (map[string]string, error) {
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(input))
	for _, key := range keys {
		if !settingKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: %q", ErrSettingKeyInvalid, key)
		}
		if key == db.SettingKeyCustomDomain {
			return nil, fmt.Errorf("%w: %s", ErrSettingKeyReserved, key)
		}

		value, err := stringifySetting(input[key])
		if err != nil {
			return nil, fmt.Errorf("encode setting %s: %w", key, err)
		}

		if key == db.SettingKeySocialLinks {
			links, err := ParseSocialLinks(value)
			if err != nil {
				return nil, err
			}
			encoded, err := json.Marshal(links)
			if err != nil {
				return nil, fmt.Errorf("encode social links: %w", err)
			}
			value = string(encoded)
		}

		values[key] = value
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			if err := upsertSetting(tx, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return s.All()
}

// Set 直接写入单个设置，不做保留键检查，供内部服务使用。
func (s *SettingService) Set(key, value string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return upsertSetting(tx, key, value)
	})
}

// Delete 删除单个设置，不存在时忽略。
func (s *SettingService) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&db.Setting{}).Error
}

// ParseSocialLinks 解析并校验 social_links 的 JSON 值，空串视为空列表。
func ParseSocialLinks(raw string) ([]SocialLink, error) {
	links := []SocialLink{}
	if strings.TrimSpace(raw) == "" {
		return links, nil
	}

	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSocialLinksInvalid, err)
	}

	for i := range links {
		links[i].Platform = strings.ToLower(strings.TrimSpace(links[i].Platform))
		links[i].URL = strings.TrimSpace(links[i].URL)

		if !isSocialPlatform(links[i].Platform) {
			return nil, fmt.Errorf("%w: unsupported platform %q", ErrSocialLinksInvalid, links[i].Platform)
		}
		parsed, err := url.Parse(links[i].URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, fmt.Errorf("%w: invalid url for %s", ErrSocialLinksInvalid, links[i].Platform)
		}
	}

	return links, nil
}

func isSocialPlatform(platform string) bool {
	for _, candidate := range SocialPlatforms {
		if candidate == platform {
			return true
		}
	}
	return false
}

// stringifySetting 把 JSON 解码得到的值转换为存储用的字符串。
func stringifySetting(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.Setting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
