package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
)

const DefaultURL = "https://brasilapi.com.br/api/banks/v1"

const cacheKey = "banks:list"

type getter interface {
	GetJSON(ctx context.Context, url string, out interface{}) error
}

// Directory lists Brazilian banks from BrasilAPI. The list feeds the
// institution picker of the listing form.
type Directory struct {
	http  getter
	url   string
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewDirectory(http getter, url string, cache ports.Cache, ttl time.Duration, log *zap.Logger) *Directory {
	if url == "" {
		url = DefaultURL
	}
	return &Directory{http: http, url: url, cache: cache, ttl: ttl, log: log}
}

func (d *Directory) ListBanks(ctx context.Context) ([]ports.Bank, error) {
	if d.cache != nil {
		raw, err := d.cache.Get(ctx, cacheKey)
		if err == nil {
			var banks []ports.Bank
			if json.Unmarshal([]byte(raw), &banks) == nil {
				return banks, nil
			}
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			d.log.Warn("Bank cache read failed", zap.Error(err))
		}
	}

	var banks []ports.Bank
	err := d.http.GetJSON(ctx, d.url, &banks)
	telemetry.ExternalLookupsTotal.WithLabelValues("brasilapi", telemetry.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("brasilapi banks: %w", err)
	}

	// Entries without a compensation code are payment institutions, not banks.
	out := banks[:0]
	for _, b := range banks {
		if b.Code != nil && b.Name != "" {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Code < *out[j].Code })

	if d.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = d.cache.Set(ctx, cacheKey, data, d.ttl)
		}
	}
	d.log.Info("Bank list refreshed", zap.Int("count", len(out)))
	return out, nil
}

var _ ports.BankDirectory = (*Directory)(nil)
