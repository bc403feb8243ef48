package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/mocks"
	"github.com/seu-repo/arremateai/internal/search"
)

func statsFixture() (*StatisticsService, *mocks.MockListingRepository, *mocks.MockCache) {
	images := mocks.NewMockImageRepository()
	listings := mocks.NewMockListingRepository(images)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	listings.Seed(
		domain.Listing{ID: "a", LotNumber: "A", UF: "SP", City: "Campinas", PropertyType: "Casa", Institution: "Caixa", Status: domain.ListingStatusAvailable, AppraisalValue: 100000, Ativo: true, CreatedAt: base},
		domain.Listing{ID: "b", LotNumber: "B", UF: "SP", City: "Santos", PropertyType: "Apartamento", Institution: "Caixa", Status: domain.ListingStatusSold, AppraisalValue: 200000, Ativo: true, CreatedAt: base.Add(time.Hour)},
		domain.Listing{ID: "c", LotNumber: "C", UF: "RJ", City: "Niterói", PropertyType: "Casa", Institution: "Santander", Status: domain.ListingStatusAvailable, AppraisalValue: 50000.01, Ativo: true, CreatedAt: base.Add(2 * time.Hour)},
		domain.Listing{ID: "d", LotNumber: "D", UF: "MG", City: "Uberaba", PropertyType: "Terreno", Institution: "Caixa", Status: domain.ListingStatusAvailable, AppraisalValue: 999999, Ativo: false, CreatedAt: base.Add(3 * time.Hour)},
	)
	ctx := context.Background()
	for _, img := range []domain.ListingImage{
		{ListingID: "a", Order: 1, Principal: true},
		{ListingID: "b", Order: 1, Principal: true},
		{ListingID: "b", Order: 2},
		{ListingID: "d", Order: 1, Principal: true},
	} {
		img := img
		_ = images.Create(ctx, &img)
	}

	cache := mocks.NewMockCache()
	return NewStatisticsService(listings, cache, time.Minute, newTestLogger()), listings, cache
}

func listingIDs(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func equalIDs(got []domain.Listing, want ...string) bool {
	ids := listingIDs(got)
	if len(ids) != len(want) {
		return false
	}
	for i := range ids {
		if ids[i] != want[i] {
			return false
		}
	}
	return true
}

func TestStatistics_Summary(t *testing.T) {
	svc, _, _ := statsFixture()

	stats, err := svc.Statistics(context.Background(), search.Filter{})

	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Total != 4 || stats.Active != 3 || stats.Inactive != 1 {
		t.Errorf("Unexpected totals: %+v", stats)
	}
	if stats.ByUF["SP"] != 2 || stats.ByUF["RJ"] != 1 || stats.ByUF["MG"] != 0 {
		t.Errorf("Unexpected UF counts: %v", stats.ByUF)
	}
	if stats.ByType["Casa"] != 2 || stats.ByInstitution["Caixa"] != 2 || stats.ByStatus["VENDIDO"] != 1 {
		t.Errorf("Unexpected group counts: %+v", stats)
	}
	if stats.ValueMin != 50000.01 || stats.ValueMax != 200000 {
		t.Errorf("Unexpected min/max: %v/%v", stats.ValueMin, stats.ValueMax)
	}
	if stats.ValueAvg != 116666.67 {
		t.Errorf("Expected average rounded to 116666.67, got %v", stats.ValueAvg)
	}
	if stats.WithImages != 2 || stats.WithoutImages != 1 || stats.ImagesPercentage != 66.67 {
		t.Errorf("Unexpected image stats: with=%d without=%d pct=%v", stats.WithImages, stats.WithoutImages, stats.ImagesPercentage)
	}
}

func TestStatistics_Filtered(t *testing.T) {
	svc, _, _ := statsFixture()

	stats, err := svc.Statistics(context.Background(), search.Filter{UF: "sp"})

	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Total != 2 || stats.Active != 2 || stats.ValueSum != 300000 {
		t.Errorf("Unexpected filtered stats: %+v", stats)
	}
}

func TestStatistics_Empty(t *testing.T) {
	svc := NewStatisticsService(mocks.NewMockListingRepository(nil), nil, 0, newTestLogger())

	stats, err := svc.Statistics(context.Background(), search.Filter{})

	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Total != 0 || stats.ValueAvg != 0 || stats.ImagesPercentage != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestRankings(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := statsFixture()

	highlights, err := svc.Highlights(ctx, 0)
	if err != nil {
		t.Fatalf("Highlights failed: %v", err)
	}
	if !equalIDs(highlights, "b", "a") {
		t.Errorf("Expected highlights [b a], got %v", listingIDs(highlights))
	}

	recent, _ := svc.Recent(ctx, 2)
	if !equalIDs(recent, "c", "b") {
		t.Errorf("Expected recent [c b], got %v", listingIDs(recent))
	}

	wanted, _ := svc.MostWanted(ctx, 5)
	if !equalIDs(wanted, "b", "a") {
		t.Errorf("Expected most wanted [b a], got %v", listingIDs(wanted))
	}
}

func TestStatistics_CachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	svc, listings, _ := statsFixture()

	first, _ := svc.Statistics(ctx, search.Filter{})
	listings.Seed(domain.Listing{ID: "e", LotNumber: "E", UF: "SP", AppraisalValue: 1, Ativo: true})
	cached, _ := svc.Statistics(ctx, search.Filter{})
	if cached.Active != first.Active {
		t.Errorf("Expected cached result, got %d then %d", first.Active, cached.Active)
	}

	svc.Invalidate(ctx)
	fresh, _ := svc.Statistics(ctx, search.Filter{})
	if fresh.Active != first.Active+1 {
		t.Errorf("Expected refreshed result after invalidation, got %d", fresh.Active)
	}
}

func TestStatistics_CacheFailureRecomputes(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := statsFixture()
	cache.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", errors.New("connection refused")
	}
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return errors.New("connection refused")
	}

	stats, err := svc.Statistics(ctx, search.Filter{})

	if err != nil {
		t.Fatalf("Expected cache failures to be tolerated, got %v", err)
	}
	if stats.Active != 3 {
		t.Errorf("Expected 3 active listings, got %d", stats.Active)
	}
}

func TestRound2HalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{-1.005, -1.01},
		{1.004, 1},
		{66.666666, 66.67},
		{33.333333, 33.33},
		{116666.67, 116666.67},
		{150000, 150000},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
