package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/search"
)

const (
	defaultHighlights = 5
	defaultRecent     = 10
	defaultMostWanted = 5

	generationKey = "stats:generation"
)

// StatisticsService computes aggregates over listings in memory. Results are
// cached under a generation token; Invalidate replaces the token so every
// cached variant is dropped at once.
type StatisticsService struct {
	listings ports.ListingRepository
	cache    ports.Cache
	ttl      time.Duration
	log      *zap.Logger
}

func NewStatisticsService(listings ports.ListingRepository, cache ports.Cache, ttl time.Duration, log *zap.Logger) *StatisticsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatisticsService{
		listings: listings,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

var _ ports.StatisticsService = (*StatisticsService)(nil)

// Statistics counts every listing matching filter for the totals and
// aggregates the active ones.
func (s *StatisticsService) Statistics(ctx context.Context, filter search.Filter) (*domain.ListingStatistics, error) {
	key, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	var stats domain.ListingStatistics
	err = s.cached(ctx, "summary:"+string(key), &stats, func() (interface{}, error) {
		all, err := s.listings.FindAll(ctx, search.FromFilter(filter).Build())
		if err != nil {
			return nil, fmt.Errorf("failed to load listings: %w", err)
		}
		return summarize(all), nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Highlights returns the most valuable active listings that have images.
func (s *StatisticsService) Highlights(ctx context.Context, limit int) ([]domain.Listing, error) {
	limit = orDefault(limit, defaultHighlights)
	return s.ranked(ctx, "highlights:"+strconv.Itoa(limit), func(active []domain.Listing) []domain.Listing {
		out := withImages(active)
		sort.SliceStable(out, func(i, j int) bool { return out[i].AppraisalValue > out[j].AppraisalValue })
		return head(out, limit)
	})
}

// Recent returns the newest active listings.
func (s *StatisticsService) Recent(ctx context.Context, limit int) ([]domain.Listing, error) {
	limit = orDefault(limit, defaultRecent)
	return s.ranked(ctx, "recent:"+strconv.Itoa(limit), func(active []domain.Listing) []domain.Listing {
		sort.SliceStable(active, func(i, j int) bool { return active[i].CreatedAt.After(active[j].CreatedAt) })
		return head(active, limit)
	})
}

// MostWanted ranks active listings by image count, then by lowest value.
func (s *StatisticsService) MostWanted(ctx context.Context, limit int) ([]domain.Listing, error) {
	limit = orDefault(limit, defaultMostWanted)
	return s.ranked(ctx, "most-wanted:"+strconv.Itoa(limit), func(active []domain.Listing) []domain.Listing {
		out := withImages(active)
		sort.SliceStable(out, func(i, j int) bool {
			if len(out[i].Images) != len(out[j].Images) {
				return len(out[i].Images) > len(out[j].Images)
			}
			return out[i].AppraisalValue < out[j].AppraisalValue
		})
		return head(out, limit)
	})
}

// Invalidate drops every cached result.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, generationKey, uuid.New().String(), 0); err != nil {
		s.log.Warn("Failed to invalidate statistics cache", zap.Error(err))
	}
}

func (s *StatisticsService) ranked(ctx context.Context, key string, rank func([]domain.Listing) []domain.Listing) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.cached(ctx, key, &out, func() (interface{}, error) {
		active, err := s.listings.FindAll(ctx, search.NewBuilder().ActiveOnly().Build())
		if err != nil {
			return nil, fmt.Errorf("failed to load listings: %w", err)
		}
		return rank(active), nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, nil
}

// cached decodes the stored value for key into dst, or computes, stores and
// decodes it. Cache failures only cost a recomputation.
func (s *StatisticsService) cached(ctx context.Context, key string, dst interface{}, compute func() (interface{}, error)) error {
	if s.cache == nil {
		return s.fill(compute, dst)
	}

	key = "stats:" + s.generation(ctx) + ":" + key
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), dst); err == nil {
			telemetry.StatisticsCacheTotal.WithLabelValues("hit").Inc()
			return nil
		}
	} else if err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		s.log.Warn("Statistics cache read failed", zap.String("key", key), zap.Error(err))
	}

	telemetry.StatisticsCacheTotal.WithLabelValues("miss").Inc()
	value, err := compute()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn("Statistics cache write failed", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(data, dst)
}

func (s *StatisticsService) fill(compute func() (interface{}, error), dst interface{}) error {
	value, err := compute()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func (s *StatisticsService) generation(ctx context.Context) string {
	gen, err := s.cache.Get(ctx, generationKey)
	if err == nil && gen != "" {
		return gen
	}
	return "0"
}

func summarize(all []domain.Listing) domain.ListingStatistics {
	stats := domain.ListingStatistics{
		Total:         int64(len(all)),
		ByUF:          map[string]int64{},
		ByCity:        map[string]int64{},
		ByType:        map[string]int64{},
		ByInstitution: map[string]int64{},
		ByStatus:      map[string]int64{},
	}

	first := true
	for i := range all {
		l := &all[i]
		if !l.Ativo {
			continue
		}
		stats.Active++
		stats.ByUF[l.UF]++
		stats.ByCity[l.City]++
		stats.ByType[l.PropertyType]++
		stats.ByInstitution[l.Institution]++
		stats.ByStatus[string(l.Status)]++

		stats.ValueSum += l.AppraisalValue
		if first || l.AppraisalValue < stats.ValueMin {
			stats.ValueMin = l.AppraisalValue
		}
		if first || l.AppraisalValue > stats.ValueMax {
			stats.ValueMax = l.AppraisalValue
		}
		first = false

		if len(l.Images) > 0 {
			stats.WithImages++
		}
	}
	stats.Inactive = stats.Total - stats.Active
	stats.WithoutImages = stats.Active - stats.WithImages

	if stats.Active > 0 {
		stats.ValueAvg = round2(stats.ValueSum / float64(stats.Active))
		stats.ImagesPercentage = round2(float64(stats.WithImages) * 100 / float64(stats.Active))
	}
	return stats
}

// round2 rounds half up (away from zero) to two decimals on the shortest
// decimal form of v, so 1.005 becomes 1.01.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	if len(frac) <= 2 {
		return v
	}
	n, ok := new(big.Int).SetString(whole+frac[:2], 10)
	if !ok {
		return math.Round(v*100) / 100
	}
	if frac[2] >= '5' {
		n.Add(n, big.NewInt(1))
	}
	rounded, _ := new(big.Rat).SetFrac(n, big.NewInt(100)).Float64()
	if v < 0 {
		return -rounded
	}
	return rounded
}

func withImages(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if len(l.Images) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func head(listings []domain.Listing, n int) []domain.Listing {
	if len(listings) > n {
		return listings[:n]
	}
	return listings
}

func orDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
