package cnpj

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
)

const DefaultBaseURL = "https://www.receitaws.com.br/v1/cnpj/"

// ErrNotFound means the registry has no company for the number.
var ErrNotFound = errors.New("cnpj not found")

type getter interface {
	GetJSON(ctx context.Context, url string, out interface{}) error
}

// receitaResponse is the ReceitaWS payload. Errors come back as 200 with
// status "ERROR".
type receitaResponse struct {
	ports.CompanyInfo
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client looks CNPJs up on ReceitaWS and caches answers.
type Client struct {
	http    getter
	baseURL string
	cache   ports.Cache
	ttl     time.Duration
	log     *zap.Logger
}

func NewClient(http getter, baseURL string, cache ports.Cache, ttl time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{http: http, baseURL: baseURL, cache: cache, ttl: ttl, log: log}
}

func (c *Client) Lookup(ctx context.Context, cnpj string) (*ports.CompanyInfo, error) {
	key := "cnpj:" + cnpj
	if info := c.cached(ctx, key); info != nil {
		return info, nil
	}

	var resp receitaResponse
	err := c.http.GetJSON(ctx, c.baseURL+cnpj, &resp)
	telemetry.ExternalLookupsTotal.WithLabelValues("receitaws", telemetry.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("receitaws lookup: %w", err)
	}
	if strings.EqualFold(resp.Status, "ERROR") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Message)
	}

	info := resp.CompanyInfo
	if info.CNPJ == "" {
		info.CNPJ = cnpj
	}
	c.log.Info("CNPJ looked up",
		zap.String("cnpj", cnpj),
		zap.String("razao_social", info.RazaoSocial),
		zap.String("situacao", info.Situacao))

	if c.cache != nil {
		if data, err := json.Marshal(info); err == nil {
			if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
				c.log.Warn("Failed to cache CNPJ lookup", zap.Error(err))
			}
		}
	}
	return &info, nil
}

func (c *Client) cached(ctx context.Context, key string) *ports.CompanyInfo {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			c.log.Warn("CNPJ cache read failed", zap.Error(err))
		}
		return nil
	}
	var info ports.CompanyInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil
	}
	return &info
}

var _ ports.CNPJLookup = (*Client)(nil)
var _ getter = (*circuitbreaker.HTTPClient)(nil)
