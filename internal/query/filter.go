package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/domain"
	"github.com/hashicorp/go-multierror"
)

// Params is the raw query of one request: every value is a string or a
// []string.
type Params map[string]any

// ParamsFromValues converts url.Values, keeping single values as plain strings
// and repeated parameters as arrays.
func ParamsFromValues(values url.Values) Params {
	params := make(Params, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			params[key] = vals[0]
		default:
			params[key] = append([]string(nil), vals...)
		}
	}
	return params
}

// FieldSpec declares one client-visible field of a resource.
type FieldSpec struct {
	Name      string
	Column    string
	Type      FieldType
	Operators OperatorSet // nil means DefaultOperators(Type)
	Filter    bool
	Sort      bool
}

// AllowedOperators returns the operators the field accepts.
func (f FieldSpec) AllowedOperators() OperatorSet {
	return orDefault(f.Operators, f.Type)
}

// Condition is one (field, operator, operand) predicate. For OpBetween the
// operand is a two-element []any.
type Condition struct {
	Field    string
	Column   string
	Operator Operator
	Operand  any
}

// Filter is an ordered list of conditions. A run of consecutive conditions on
// the same field is OR-combined; runs are AND-combined.
type Filter []Condition

// Groups splits the filter into its OR-groups.
func (f Filter) Groups() []Filter {
	var groups []Filter
	for i := 0; i < len(f); {
		j := i + 1
		for j < len(f) && f[j].Field == f[i].Field {
			j++
		}
		groups = append(groups, f[i:j])
		i = j
	}
	return groups
}

type FilterOption func(*FilterBuilder)

// WithStringPattern replaces the safe character set for string operands.
func WithStringPattern(p *regexp.Regexp) FilterOption {
	return func(b *FilterBuilder) {
		b.safe = p
	}
}

// StringPatternOption compiles expr into a WithStringPattern option. The
// expression must be anchored at both ends. An empty expr keeps
// DefaultStringPattern.
func StringPatternOption(expr string) (FilterOption, error) {
	if expr == "" {
		return WithStringPattern(DefaultStringPattern), nil
	}
	if !strings.HasPrefix(expr, "^") || !strings.HasSuffix(expr, "$") {
		return nil, fmt.Errorf("string pattern %q must be anchored with ^ and $", expr)
	}
	p, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("string pattern: %w", err)
	}
	return WithStringPattern(p), nil
}

// FilterBuilder compiles raw query values into a Filter. Keys without a
// filterable FieldSpec are dropped.
type FilterBuilder struct {
	fields []FieldSpec
	safe   *regexp.Regexp
}

func NewFilterBuilder(fields []FieldSpec, opts ...FilterOption) *FilterBuilder {
	b := &FilterBuilder{fields: fields, safe: DefaultStringPattern}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates every declared field present in params and returns the
// conditions in field-table order. All malformed fields are reported together.
func (b *FilterBuilder) Build(params Params) (Filter, error) {
	var result *multierror.Error
	var filter Filter

	for _, f := range b.fields {
		if !f.Filter {
			continue
		}
		raw, ok := params[f.Name]
		if !ok {
			continue
		}
		operands, err := parseOperands(raw, f.Type, f.AllowedOperators(), b.safe)
		if err != nil {
			result = Collect(result, domain.FormatError{Field: f.Name, Message: err.Error()})
			continue
		}
		for _, o := range operands {
			filter = append(filter, Condition{
				Field:    f.Name,
				Column:   f.Column,
				Operator: o.op,
				Operand:  o.value,
			})
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return filter, nil
}
