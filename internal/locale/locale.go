package locale

import (
	"net/http"
	"strings"
)

const (
	LanguageKorean  = "ko"
	LanguageChinese = "zh"
	LanguageEnglish = "en"

	// DefaultLanguage 在请求未指定受支持语言时使用。
	DefaultLanguage = LanguageKorean

	// CookieName 保存用户显式选择的语言。
	CookieName = "dp_lang"
	// QueryParam 允许通过 ?lang=en 临时切换语言。
	QueryParam = "lang"
)

type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "ko") || trimmed == "kr" {
		return LanguageKorean
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 按 Accept-Language 中出现的先后顺序选取第一个受支持的语言。
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	for _, part := range strings.Split(trimmed, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if normalized := NormalizeLanguage(tag); normalized != "" {
			return normalized
		}
	}
	return ""
}

func PreferenceForLanguage(language string) Preference {
	switch NormalizeLanguage(language) {
	case LanguageEnglish:
		return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
	case LanguageChinese:
		return Preference{Language: LanguageChinese, Locale: "zh_CN", HTMLLang: "zh-CN"}
	default:
		return Preference{Language: LanguageKorean, Locale: "ko_KR", HTMLLang: "ko-KR"}
	}
}

// Negotiate 依次检查 ?lang、语言 Cookie 与 Accept-Language，默认韩语。
func Negotiate(r *http.Request) string {
	if r == nil {
		return DefaultLanguage
	}
	if r.URL != nil {
		if lang := NormalizeLanguage(r.URL.Query().Get(QueryParam)); lang != "" {
			return lang
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if lang := NormalizeLanguage(cookie.Value); lang != "" {
			return lang
		}
	}
	if lang := LanguageFromAcceptLanguage(r.Header.Get("Accept-Language")); lang != "" {
		return lang
	}
	return DefaultLanguage
}
