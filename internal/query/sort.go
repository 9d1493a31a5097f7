package query

import (
	"strings"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one ORDER BY term expressed in store column names.
type Order struct {
	Column    string
	Direction Direction
}

func (o Order) String() string {
	return o.Column + " " + string(o.Direction)
}

// SortSpec always ends with the resource tie-break.
type SortSpec []Order

// Clauses renders the spec as "column DIR" terms.
func (s SortSpec) Clauses() []string {
	out := make([]string, 0, len(s))
	for _, o := range s {
		out = append(out, o.String())
	}
	return out
}

// SanitizeSort flattens a sort request into field tokens. It accepts a
// comma-joined string, an array of such strings, or nested arrays; blank
// tokens are dropped.
func SanitizeSort(raw any) []string {
	var tokens []string
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			for _, part := range strings.Split(t, ",") {
				if part = strings.TrimSpace(part); part != "" {
					tokens = append(tokens, part)
				}
			}
		case []string:
			for _, s := range t {
				walk(s)
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		}
	}
	walk(raw)
	return tokens
}

// SortBuilder maps public sort fields to store columns. Each resource
// supplies its own column map and tie-break; the control flow is shared.
type SortBuilder struct {
	columns  map[string]string
	tieBreak Order
}

func NewSortBuilder(columns map[string]string, tieBreak Order) *SortBuilder {
	return &SortBuilder{columns: columns, tieBreak: tieBreak}
}

// TieBreak returns the order appended to every spec.
func (b *SortBuilder) TieBreak() Order {
	return b.tieBreak
}

// Build compiles raw into a SortSpec. A leading "-" means descending. The
// tie-break is appended even when the client already asked for it.
func (b *SortBuilder) Build(raw any) (SortSpec, error) {
	tokens := SanitizeSort(raw)
	spec := make(SortSpec, 0, len(tokens)+1)
	for _, tok := range tokens {
		name, dir := tok, Asc
		if strings.HasPrefix(tok, "-") {
			name, dir = tok[1:], Desc
		}
		column, ok := b.columns[name]
		if !ok {
			return nil, domain.UnknownFieldError{Field: name}
		}
		spec = append(spec, Order{Column: column, Direction: dir})
	}
	return append(spec, b.tieBreak), nil
}
