package search

import (
	"strings"
	"testing"
	"time"

	"github.com/seu-repo/arremateai/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int { return &v }

func sampleListings() []domain.Listing {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Listing{
		{ID: "1", UF: "SP", City: "São Paulo", Neighborhood: "Moema", PropertyType: "Apartamento", Institution: "Caixa",
			Description: "Apartamento com varanda", AppraisalValue: 450000, TotalArea: floatPtr(80), Rooms: 2, Bathrooms: 2, ParkingSpots: 1,
			Ativo: true, AuctionDate: base.AddDate(0, 0, 3)},
		{ID: "2", UF: "sp", City: "Campinas", Neighborhood: "Cambuí", PropertyType: "Casa", Institution: "Banco do Brasil",
			Description: "Casa térrea", AppraisalValue: 320000, TotalArea: floatPtr(150), Rooms: 3, Bathrooms: 1, ParkingSpots: 2,
			Ativo: true, AuctionDate: base.AddDate(0, 0, 1)},
		{ID: "3", UF: "RJ", City: "Rio de Janeiro", Neighborhood: "Copacabana", PropertyType: "Apartamento", Institution: "Caixa",
			Description: "Vista para o mar", AppraisalValue: 900000, Rooms: 3, Bathrooms: 3, ParkingSpots: 0,
			Ativo: true, AuctionDate: base.AddDate(0, 0, 2)},
		{ID: "4", UF: "MG", City: "Belo Horizonte", Address: "Rua da Bahia, 100", PropertyType: "Terreno", Institution: "Santander",
			Description: "Terreno plano", AppraisalValue: 120000, TotalArea: floatPtr(500),
			Ativo: false, AuctionDate: base},
	}
}

func ids(listings []domain.Listing) string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return strings.Join(out, ",")
}

func TestEmptySpecificationMatchesEverything(t *testing.T) {
	spec := NewBuilder().Build()

	if !spec.Empty() {
		t.Fatal("Expected empty specification")
	}
	if where, args := spec.Where(); where != "" || args != nil {
		t.Errorf("Expected no clause, got %q %v", where, args)
	}
	if got := spec.Apply(sampleListings()); len(got) != 4 {
		t.Errorf("Expected 4 listings, got %d", len(got))
	}
}

func TestActiveOnlyWithNoFilters(t *testing.T) {
	spec := FromFilter(Filter{}).ActiveOnly().Build()

	got := spec.Apply(sampleListings())

	if ids(got) != "1,2,3" {
		t.Errorf("Expected active listings 1,2,3, got %s", ids(got))
	}
}

func TestSingleFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"uf case-insensitive", Filter{UF: "sp"}, "1,2"},
		{"city contains", Filter{City: "janeiro"}, "3"},
		{"type contains", Filter{PropertyType: "APTO"}, ""},
		{"type contains partial", Filter{PropertyType: "apart"}, "1,3"},
		{"institution contains", Filter{Institution: "caixa"}, "1,3"},
		{"min value inclusive", Filter{MinValue: floatPtr(450000)}, "1,3"},
		{"max value inclusive", Filter{MaxValue: floatPtr(320000)}, "2,4"},
		{"value range", Filter{MinValue: floatPtr(300000), MaxValue: floatPtr(500000)}, "1,2"},
		{"area range skips missing area", Filter{MinArea: floatPtr(0)}, "1,2,4"},
		{"max area", Filter{MaxArea: floatPtr(150)}, "1,2"},
		{"min rooms", Filter{MinRooms: intPtr(3)}, "2,3"},
		{"min bathrooms", Filter{MinBathrooms: intPtr(2)}, "1,3"},
		{"min parking", Filter{MinParking: intPtr(1)}, "1,2"},
		{"text in description", Filter{Text: "VARANDA"}, "1"},
		{"text in neighborhood", Filter{Text: "copa"}, "3"},
		{"text in address", Filter{Text: "bahia"}, "4"},
		{"text in institution", Filter{Text: "santander"}, "4"},
		{"text without match", Filter{Text: "castelo"}, ""},
		{"like wildcard is literal", Filter{Text: "%"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromFilter(tt.filter).Build().Apply(sampleListings())
			if ids(got) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, ids(got))
			}
		})
	}
}

func TestFiltersNarrowMonotonically(t *testing.T) {
	listings := sampleListings()
	steps := []func(*Builder) *Builder{
		func(b *Builder) *Builder { return b.ActiveOnly() },
		func(b *Builder) *Builder { return b.UF("SP") },
		func(b *Builder) *Builder { return b.ValueRange(floatPtr(100000), nil) },
		func(b *Builder) *Builder { return b.Text("casa") },
		func(b *Builder) *Builder { return b.MinRooms(intPtr(5)) },
	}

	b := NewBuilder()
	previous := len(b.Build().Apply(listings))
	for i, step := range steps {
		b = step(b)
		current := len(b.Build().Apply(listings))
		if current > previous {
			t.Fatalf("Step %d widened the result: %d -> %d", i, previous, current)
		}
		previous = current
	}
	if previous != 0 {
		t.Errorf("Expected final result to be empty, got %d", previous)
	}
}

func TestFilterOrderDoesNotMatter(t *testing.T) {
	listings := sampleListings()

	a := NewBuilder().UF("sp").Text("casa").ValueRange(nil, floatPtr(400000)).ActiveOnly().Build()
	b := NewBuilder().ActiveOnly().ValueRange(nil, floatPtr(400000)).Text("casa").UF("sp").Build()

	if ids(a.Apply(listings)) != ids(b.Apply(listings)) {
		t.Errorf("Expected same result, got %s and %s", ids(a.Apply(listings)), ids(b.Apply(listings)))
	}
	if ids(a.Apply(listings)) != "2" {
		t.Errorf("Expected listing 2, got %s", ids(a.Apply(listings)))
	}
}

func TestWhereClause(t *testing.T) {
	spec := FromFilter(Filter{UF: "sp", MinValue: floatPtr(10), Text: "50%"}).ActiveOnly().Build()

	where, args := spec.Where()

	if !strings.HasPrefix(where, "(UPPER(uf) = ?) AND (valor_avaliacao >= ?) AND (UPPER(descricao) LIKE ? OR") {
		t.Errorf("Unexpected clause: %s", where)
	}
	if !strings.HasSuffix(where, "AND (ativo = ?)") {
		t.Errorf("Expected active clause last, got %s", where)
	}
	if strings.Count(where, "?") != len(args) {
		t.Errorf("Placeholder count %d does not match %d args", strings.Count(where, "?"), len(args))
	}
	if args[0] != "SP" {
		t.Errorf("Expected upper-cased uf, got %v", args[0])
	}
	if args[2] != `%50\%%` {
		t.Errorf("Expected escaped pattern, got %v", args[2])
	}
}

func TestBlankInputsAddNothing(t *testing.T) {
	spec := FromFilter(Filter{UF: "  ", City: "", Text: "   "}).Build()

	if !spec.Empty() {
		t.Errorf("Expected no criteria, got %d", len(spec.Criteria()))
	}
}

func TestResolveSort(t *testing.T) {
	tests := []struct {
		field, direction string
		want             Sort
		column           string
	}{
		{"valorAvaliacao", "DESC", Sort{Field: "valorAvaliacao", Desc: true}, "valor_avaliacao"},
		{"cidade", "asc", Sort{Field: "cidade"}, "cidade"},
		{"dataCadastro", "desc", Sort{Field: "createdAt", Desc: true}, "created_at"},
		{"senha", "ASC", Sort{Field: DefaultSortField}, "data_leilao"},
		{"", "", Sort{Field: DefaultSortField}, "data_leilao"},
	}

	for _, tt := range tests {
		got := ResolveSort(tt.field, tt.direction)
		if got != tt.want {
			t.Errorf("ResolveSort(%q, %q) = %+v, want %+v", tt.field, tt.direction, got, tt.want)
		}
		if got.Column() != tt.column {
			t.Errorf("Expected column %s, got %s", tt.column, got.Column())
		}
	}
}

func TestSortApply(t *testing.T) {
	listings := sampleListings()

	ResolveSort("valorAvaliacao", "DESC").Apply(listings)
	if ids(listings) != "3,1,2,4" {
		t.Errorf("Expected 3,1,2,4, got %s", ids(listings))
	}

	ResolveSort("unknown", "").Apply(listings)
	if ids(listings) != "4,2,3,1" {
		t.Errorf("Expected auction-date order 4,2,3,1, got %s", ids(listings))
	}
}
