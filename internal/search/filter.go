package search

import (
	"strings"

	"github.com/seu-repo/arremateai/internal/domain"
)

// Filter holds the optional search inputs. Blank strings and nil pointers
// are inactive.
type Filter struct {
	UF           string
	City         string
	PropertyType string
	Institution  string
	Text         string

	MinValue *float64
	MaxValue *float64
	MinArea  *float64
	MaxArea  *float64

	MinRooms     *int
	MinBathrooms *int
	MinParking   *int
}

// Criterion is one predicate over listings, expressed both as a SQL clause
// with "?" placeholders and as an in-memory check.
type Criterion struct {
	Name   string
	Clause string
	Args   []interface{}
	Match  func(l *domain.Listing) bool
}

// Specification is the conjunction of its criteria. No criteria matches
// every listing.
type Specification struct {
	criteria []Criterion
}

func (s Specification) Criteria() []Criterion {
	out := make([]Criterion, len(s.criteria))
	copy(out, s.criteria)
	return out
}

func (s Specification) Empty() bool { return len(s.criteria) == 0 }

func (s Specification) Matches(l *domain.Listing) bool {
	for _, c := range s.criteria {
		if !c.Match(l) {
			return false
		}
	}
	return true
}

// Apply returns the listings that satisfy every criterion, preserving order.
func (s Specification) Apply(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		if s.Matches(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out
}

// Where joins the SQL clauses with AND. It returns "" when there is nothing
// to filter on.
func (s Specification) Where() (string, []interface{}) {
	if len(s.criteria) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(s.criteria))
	args := make([]interface{}, 0, len(s.criteria))
	for _, c := range s.criteria {
		clauses = append(clauses, "("+c.Clause+")")
		args = append(args, c.Args...)
	}
	return strings.Join(clauses, " AND "), args
}

type Builder struct {
	criteria []Criterion
}

func NewBuilder() *Builder {
	return &Builder{}
}

// FromFilter activates one criterion per non-empty field of f.
func FromFilter(f Filter) *Builder {
	return NewBuilder().
		UF(f.UF).
		CityContains(f.City).
		TypeContains(f.PropertyType).
		InstitutionContains(f.Institution).
		ValueRange(f.MinValue, f.MaxValue).
		AreaRange(f.MinArea, f.MaxArea).
		MinRooms(f.MinRooms).
		MinBathrooms(f.MinBathrooms).
		MinParking(f.MinParking).
		Text(f.Text)
}

func (b *Builder) add(c Criterion) *Builder {
	b.criteria = append(b.criteria, c)
	return b
}

func (b *Builder) UF(uf string) *Builder {
	uf = strings.TrimSpace(uf)
	if uf == "" {
		return b
	}
	return b.add(Criterion{
		Name:   "uf",
		Clause: "UPPER(uf) = ?",
		Args:   []interface{}{strings.ToUpper(uf)},
		Match:  func(l *domain.Listing) bool { return strings.EqualFold(l.UF, uf) },
	})
}

func (b *Builder) CityContains(city string) *Builder {
	return b.contains("cidade", "cidade", city, func(l *domain.Listing) string { return l.City })
}

func (b *Builder) TypeContains(propertyType string) *Builder {
	return b.contains("tipo_imovel", "tipo_imovel", propertyType, func(l *domain.Listing) string { return l.PropertyType })
}

func (b *Builder) InstitutionContains(institution string) *Builder {
	return b.contains("instituicao", "instituicao", institution, func(l *domain.Listing) string { return l.Institution })
}

func (b *Builder) contains(name, column, value string, field func(*domain.Listing) string) *Builder {
	value = strings.TrimSpace(value)
	if value == "" {
		return b
	}
	return b.add(Criterion{
		Name:   name,
		Clause: "UPPER(" + column + ") LIKE ?",
		Args:   []interface{}{likePattern(value)},
		Match:  func(l *domain.Listing) bool { return containsFold(field(l), value) },
	})
}

// ValueRange bounds the appraisal value; either side may be nil.
func (b *Builder) ValueRange(min, max *float64) *Builder {
	if min != nil {
		v := *min
		b.add(Criterion{
			Name:   "valor_min",
			Clause: "valor_avaliacao >= ?",
			Args:   []interface{}{v},
			Match:  func(l *domain.Listing) bool { return l.AppraisalValue >= v },
		})
	}
	if max != nil {
		v := *max
		b.add(Criterion{
			Name:   "valor_max",
			Clause: "valor_avaliacao <= ?",
			Args:   []interface{}{v},
			Match:  func(l *domain.Listing) bool { return l.AppraisalValue <= v },
		})
	}
	return b
}

// AreaRange bounds the total area. Listings without an area never match an
// active bound.
func (b *Builder) AreaRange(min, max *float64) *Builder {
	if min != nil {
		v := *min
		b.add(Criterion{
			Name:   "area_min",
			Clause: "area_total >= ?",
			Args:   []interface{}{v},
			Match:  func(l *domain.Listing) bool { return l.TotalArea != nil && *l.TotalArea >= v },
		})
	}
	if max != nil {
		v := *max
		b.add(Criterion{
			Name:   "area_max",
			Clause: "area_total <= ?",
			Args:   []interface{}{v},
			Match:  func(l *domain.Listing) bool { return l.TotalArea != nil && *l.TotalArea <= v },
		})
	}
	return b
}

func (b *Builder) MinRooms(n *int) *Builder {
	return b.atLeast("quartos_min", "quartos", n, func(l *domain.Listing) int { return l.Rooms })
}

func (b *Builder) MinBathrooms(n *int) *Builder {
	return b.atLeast("banheiros_min", "banheiros", n, func(l *domain.Listing) int { return l.Bathrooms })
}

func (b *Builder) MinParking(n *int) *Builder {
	return b.atLeast("vagas_min", "vagas", n, func(l *domain.Listing) int { return l.ParkingSpots })
}

func (b *Builder) atLeast(name, column string, n *int, field func(*domain.Listing) int) *Builder {
	if n == nil {
		return b
	}
	v := *n
	return b.add(Criterion{
		Name:   name,
		Clause: column + " >= ?",
		Args:   []interface{}{v},
		Match:  func(l *domain.Listing) bool { return field(l) >= v },
	})
}

var textColumns = []string{"descricao", "cidade", "bairro", "endereco", "tipo_imovel", "instituicao"}

// Text matches when any of the six descriptive fields contains the term.
func (b *Builder) Text(term string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	pattern := likePattern(term)
	ors := make([]string, len(textColumns))
	args := make([]interface{}, len(textColumns))
	for i, col := range textColumns {
		ors[i] = "UPPER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return b.add(Criterion{
		Name:   "busca",
		Clause: strings.Join(ors, " OR "),
		Args:   args,
		Match: func(l *domain.Listing) bool {
			for _, f := range []string{l.Description, l.City, l.Neighborhood, l.Address, l.PropertyType, l.Institution} {
				if containsFold(f, term) {
					return true
				}
			}
			return false
		},
	})
}

// ActiveOnly restricts to listings that were not soft-deleted. Every
// consumer-facing query appends it; admin listings skip it.
func (b *Builder) ActiveOnly() *Builder {
	return b.add(Criterion{
		Name:   "ativo",
		Clause: "ativo = ?",
		Args:   []interface{}{true},
		Match:  func(l *domain.Listing) bool { return l.Ativo },
	})
}

// OwnedBy restricts to one seller's listings.
func (b *Builder) OwnedBy(sellerID string) *Builder {
	return b.add(Criterion{
		Name:   "vendedor",
		Clause: "vendedor_id = ?",
		Args:   []interface{}{sellerID},
		Match:  func(l *domain.Listing) bool { return l.OwnedBy(sellerID) },
	})
}

func (b *Builder) Status(status domain.ListingStatus) *Builder {
	if status == "" {
		return b
	}
	return b.add(Criterion{
		Name:   "status",
		Clause: "status = ?",
		Args:   []interface{}{string(status)},
		Match:  func(l *domain.Listing) bool { return l.Status == status },
	})
}

func (b *Builder) Build() Specification {
	criteria := make([]Criterion, len(b.criteria))
	copy(criteria, b.criteria)
	return Specification{criteria: criteria}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds an upper-cased substring pattern with LIKE wildcards in
// the input escaped, so SQL and in-memory matching agree.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToUpper(s)) + "%"
}
