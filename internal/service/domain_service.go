package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/vercel"
	"github.com/go-playground/validator/v10"
)

var (
	ErrDomainInvalid       = errors.New("domain is invalid")
	ErrDomainNotSet        = errors.New("custom domain is not set")
	ErrDomainNotConfigured = errors.New("domain provider is not configured")
)

// DomainProvider 是托管平台域名接口的最小集合，生产环境由 vercel.Client 实现。
type DomainProvider interface {
	Configured() bool
	AddDomain(ctx context.Context, domain string) (*vercel.Domain, error)
	GetDomain(ctx context.Context, domain string) (*vercel.Domain, error)
	VerifyDomain(ctx context.Context, domain string) (*vercel.Domain, error)
	RemoveDomain(ctx context.Context, domain string) error
}

// DomainService 维护 custom_domain 设置并与托管平台同步。
type DomainService struct {
	settings *SettingService
	provider DomainProvider
	validate *validator.Validate
}

// NewDomainService 构造 DomainService。
func NewDomainService(settings *SettingService, provider DomainProvider) *DomainService {
	return &DomainService{settings: settings, provider: provider, validate: validator.New()}
}

// NormalizeDomain 去掉协议、路径与末尾的点，并转为小写。
func NormalizeDomain(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, "https://")
	value = strings.TrimPrefix(value, "http://")
	if idx := strings.IndexAny(value, "/?#"); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSuffix(value, ".")
}

// DomainState 是当前域名及其在托管平台上的状态。
// 查询托管平台失败时 Status 为 nil，失败原因放在 ProviderErr，域名本身仍然返回。
type DomainState struct {
	Domain      string
	Status      *vercel.Domain
	ProviderErr error
}

// Current 返回当前域名；未设置时 Domain 为空且不访问托管平台。
// 只有读取设置失败才返回 error。
func (s *DomainService) Current(ctx context.Context) (DomainState, error) {
	domain, ok, err := s.settings.Get(db.SettingKeyCustomDomain)
	if err != nil {
		return DomainState{}, err
	}
	if !ok || strings.TrimSpace(domain) == "" {
		return DomainState{}, nil
	}

	state := DomainState{Domain: domain}
	if !s.configured() {
		state.ProviderErr = ErrDomainNotConfigured
		return state, nil
	}

	status, err := s.provider.GetDomain(ctx, domain)
	if err != nil {
		state.ProviderErr = err
		return state, nil
	}
	state.Status = status
	return state, nil
}

// Add 先在托管平台添加域名，成功后才写入 custom_domain。
func (s *DomainService) Add(ctx context.Context, raw string) (*vercel.Domain, error) {
	domain := NormalizeDomain(raw)
	if err := s.validate.Var(domain, "required,fqdn"); err != nil {
		return nil, ErrDomainInvalid
	}
	if !s.configured() {
		return nil, ErrDomainNotConfigured
	}

	result, err := s.provider.AddDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Set(db.SettingKeyCustomDomain, domain); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove 从托管平台移除域名并删除设置，未设置时直接返回。
// 托管平台未配置或已不存在该域名时只删除本地设置。
func (s *DomainService) Remove(ctx context.Context) error {
	domain, ok, err := s.settings.Get(db.SettingKeyCustomDomain)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(domain) == "" {
		return nil
	}

	if s.configured() {
		if err := s.provider.RemoveDomain(ctx, domain); err != nil && !vercel.IsNotFound(err) {
			return err
		}
	}
	return s.settings.Delete(db.SettingKeyCustomDomain)
}

// Verify 触发托管平台重新校验当前域名。
func (s *DomainService) Verify(ctx context.Context) (*vercel.Domain, error) {
	domain, ok, err := s.settings.Get(db.SettingKeyCustomDomain)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(domain) == "" {
		return nil, ErrDomainNotSet
	}
	if !s.configured() {
		return nil, ErrDomainNotConfigured
	}
	return s.provider.VerifyDomain(ctx, domain)
}

func (s *DomainService) configured() bool {
	return s.provider != nil && s.provider.Configured()
}
