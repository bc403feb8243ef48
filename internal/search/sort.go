package search

import (
	"sort"
	"strings"

	"github.com/seu-repo/arremateai/internal/domain"
)

const DefaultSortField = "dataLeilao"

// sortColumns is the allow-list of sortable fields.
var sortColumns = map[string]string{
	"dataLeilao":     "data_leilao",
	"valorAvaliacao": "valor_avaliacao",
	"createdAt":      "created_at",
	"cidade":         "cidade",
	"uf":             "uf",
	"tipoImovel":     "tipo_imovel",
}

// legacySortFields are accepted aliases kept for older clients.
var legacySortFields = map[string]string{
	"dataCadastro": "createdAt",
}

type Sort struct {
	Field string
	Desc  bool
}

// ResolveSort never fails: unknown fields fall back to DefaultSortField and
// anything other than "DESC" (any case) sorts ascending.
func ResolveSort(field, direction string) Sort {
	if alias, ok := legacySortFields[field]; ok {
		field = alias
	}
	if _, ok := sortColumns[field]; !ok {
		field = DefaultSortField
	}
	return Sort{Field: field, Desc: strings.EqualFold(direction, "DESC")}
}

func (s Sort) Column() string {
	if col, ok := sortColumns[s.Field]; ok {
		return col
	}
	return sortColumns[DefaultSortField]
}

// OrderClause is the ORDER BY expression, with id as a tie-breaker so pages
// are stable.
func (s Sort) OrderClause() string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return s.Column() + " " + dir + ", id ASC"
}

// Apply sorts listings in place the same way OrderClause does.
func (s Sort) Apply(listings []domain.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		c := compare(s.Field, &listings[i], &listings[j])
		if c == 0 {
			return listings[i].ID < listings[j].ID
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(field string, a, b *domain.Listing) int {
	switch field {
	case "valorAvaliacao":
		return cmpFloat(a.AppraisalValue, b.AppraisalValue)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "cidade":
		return strings.Compare(a.City, b.City)
	case "uf":
		return strings.Compare(a.UF, b.UF)
	case "tipoImovel":
		return strings.Compare(a.PropertyType, b.PropertyType)
	default:
		return a.AuctionDate.Compare(b.AuctionDate)
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
