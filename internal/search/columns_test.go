package search

import (
	"regexp"
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"github.com/seu-repo/arremateai/internal/domain"
)

var clauseColumn = regexp.MustCompile(`(?:UPPER\()?([a-z_]+)\)? (?:=|>=|<=|LIKE) \?`)

func listingColumns(t *testing.T) map[string]*schema.Field {
	t.Helper()
	s, err := schema.Parse(&domain.Listing{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("Failed to parse listing schema: %v", err)
	}
	return s.FieldsByDBName
}

func TestClauseColumnsExistOnListingTable(t *testing.T) {
	columns := listingColumns(t)

	spec := FromFilter(Filter{
		UF: "SP", City: "Santos", PropertyType: "Casa", Institution: "Caixa", Text: "mar",
		MinValue: floatPtr(1), MaxValue: floatPtr(2), MinArea: floatPtr(3), MaxArea: floatPtr(4),
		MinRooms: intPtr(1), MinBathrooms: intPtr(1), MinParking: intPtr(1),
	}).ActiveOnly().OwnedBy("seller").Status(domain.ListingStatusAvailable).Build()

	where, _ := spec.Where()
	matches := clauseColumn.FindAllStringSubmatch(where, -1)
	if len(matches) == 0 {
		t.Fatalf("No columns found in clause %s", where)
	}
	for _, m := range matches {
		if _, ok := columns[m[1]]; !ok {
			t.Errorf("Column %q used in search clause is not a column of imoveis", m[1])
		}
	}

	for _, col := range textColumns {
		if _, ok := columns[col]; !ok {
			t.Errorf("Free-text column %q is not a column of imoveis", col)
		}
	}
}

func TestSortColumnsExistOnListingTable(t *testing.T) {
	columns := listingColumns(t)

	for field, col := range sortColumns {
		if _, ok := columns[col]; !ok {
			t.Errorf("Sort field %s maps to %q, which is not a column of imoveis", field, col)
		}
	}
	if _, ok := columns["id"]; !ok {
		t.Error("Expected id column for the sort tie-break")
	}
}
