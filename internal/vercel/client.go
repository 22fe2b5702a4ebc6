// Package vercel 封装 Vercel 项目域名相关的 REST 接口。
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinopage/internal/config"
)

// DefaultBaseURL 是 Vercel API 的默认地址。
const DefaultBaseURL = "https://api.vercel.com"

// ErrNotConfigured 表示缺少 token 或 project id。
var ErrNotConfigured = errors.New("vercel client is not configured")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Verification 是域名归属校验需要添加的 DNS 记录。
type Verification struct {
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Domain 是项目域名接口返回的主要字段。
type Domain struct {
	Name               string         `json:"name"`
	ApexName           string         `json:"apexName"`
	ProjectID          string         `json:"projectId"`
	Redirect           *string        `json:"redirect"`
	RedirectStatusCode *int           `json:"redirectStatusCode"`
	GitBranch          *string        `json:"gitBranch"`
	Verified           bool           `json:"verified"`
	Verification       []Verification `json:"verification,omitempty"`
	CreatedAt          int64          `json:"createdAt,omitempty"`
	UpdatedAt          int64          `json:"updatedAt,omitempty"`
}

// APIError 是 Vercel 返回的错误，Message 可以直接展示给用户。
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("vercel api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("vercel api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound 判断错误是否为 Vercel 返回的 404。
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client 调用 v9/v10 项目域名接口。
type Client struct {
	http      httpDoer
	baseURL   string
	token     string
	projectID string
	teamID    string
}

// New 根据配置创建客户端，缺少凭据时仍返回实例，调用时报 ErrNotConfigured。
func New(cfg config.VercelConfig) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   base,
		token:     strings.TrimSpace(cfg.Token),
		projectID: strings.TrimSpace(cfg.ProjectID),
		teamID:    strings.TrimSpace(cfg.TeamID),
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，主要面向测试场景。
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL 覆盖 API 地址，便于测试或自定义代理。
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Configured 表示 token 与 project id 均已提供。
func (c *Client) Configured() bool {
	return c != nil && c.token != "" && c.projectID != ""
}

// AddDomain 把域名挂到项目上。
func (c *Client) AddDomain(ctx context.Context, domain string) (*Domain, error) {
	payload, err := json.Marshal(map[string]string{"name": domain})
	if err != nil {
		return nil, err
	}
	var result Domain
	if err := c.do(ctx, http.MethodPost, "/v10/projects/%s/domains", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDomain 查询域名当前的配置与校验状态。
func (c *Client) GetDomain(ctx context.Context, domain string) (*Domain, error) {
	var result Domain
	if err := c.do(ctx, http.MethodGet, "/v9/projects/%s/domains/%s", domain, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyDomain 触发一次归属校验。
func (c *Client) VerifyDomain(ctx context.Context, domain string) (*Domain, error) {
	var result Domain
	if err := c.do(ctx, http.MethodPost, "/v9/projects/%s/domains/%s/verify", domain, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveDomain 从项目中移除域名，Vercel 已不存在该域名时视为成功。
func (c *Client) RemoveDomain(ctx context.Context, domain string) error {
	err := c.do(ctx, http.MethodDelete, "/v9/projects/%s/domains/%s", domain, nil, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

func (c *Client) endpoint(pathFormat, domain string) string {
	var path string
	if domain == "" {
		path = fmt.Sprintf(pathFormat, url.PathEscape(c.projectID))
	} else {
		path = fmt.Sprintf(pathFormat, url.PathEscape(c.projectID), url.PathEscape(domain))
	}

	endpoint := c.baseURL + path
	if c.teamID != "" {
		endpoint += "?teamId=" + url.QueryEscape(c.teamID)
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, pathFormat, domain string, body []byte, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(pathFormat, domain), reader)
	if err != nil {
		return fmt.Errorf("build vercel request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dinopage/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request vercel api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read vercel response: %w", err)
	}

	var envelope errorEnvelope
	if len(bytes.TrimSpace(respBody)) > 0 {
		_ = json.Unmarshal(respBody, &envelope)
	}
	if envelope.Error != nil || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = strings.TrimSpace(envelope.Error.Message)
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode vercel response: %w", err)
	}
	return nil
}
