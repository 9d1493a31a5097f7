package resource

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/query"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

type nodeContext int

const (
	ctxTable nodeContext = iota
	ctxTieBreak
	ctxFields
	ctxField
	ctxValue
)

func (c nodeContext) String() string {
	switch c {
	case ctxTable:
		return "table"
	case ctxTieBreak:
		return "tie_break"
	case ctxFields:
		return "fields"
	case ctxField:
		return "field"
	}
	return "value"
}

var allowedKeys = map[nodeContext]map[string]bool{
	ctxTable:    {"table": true, "tie_break": true, "fields": true},
	ctxTieBreak: {"field": true, "direction": true},
	ctxField:    {"name": true, "column": true, "type": true, "operators": true, "filter": true, "sort": true},
}

// validateNode rejects keys the table format does not define.
func validateNode(node *yaml.Node, ctx nodeContext) error {
	switch node.Kind {
	case yaml.MappingNode:
		keys := allowedKeys[ctx]
		if keys == nil {
			return fmt.Errorf("unexpected mapping in %s", ctx)
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if !keys[key] {
				return fmt.Errorf("unknown key '%s' in %s (line %d)", key, ctx, node.Content[i].Line)
			}
			next := ctxValue
			switch {
			case ctx == ctxTable && key == "tie_break":
				next = ctxTieBreak
			case ctx == ctxTable && key == "fields":
				next = ctxFields
			}
			if err := validateNode(node.Content[i+1], next); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		next := ctxValue
		if ctx == ctxFields {
			next = ctxField
		}
		for _, item := range node.Content {
			if err := validateNode(item, next); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		if ctx == ctxTable || ctx == ctxTieBreak || ctx == ctxFields || ctx == ctxField {
			return fmt.Errorf("expected a mapping or list for %s (line %d)", ctx, node.Line)
		}
	}
	return nil
}

var (
	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	fieldNamePattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

	// reservedNames are query keys consumed by the sort and pagination
	// builders.
	reservedNames = map[string]bool{
		query.ParamSort: true,
		query.ParamPage: true,
		query.ParamSize: true,
	}

	// typeOperators is what each type can support at all; a field may
	// narrow it but never widen it.
	typeOperators = map[query.FieldType]query.OperatorSet{
		query.TypeNumber:  query.DefaultOperators(query.TypeNumber),
		query.TypeDate:    query.DefaultOperators(query.TypeDate),
		query.TypeString:  query.DefaultOperators(query.TypeString),
		query.TypeBoolean: query.DefaultOperators(query.TypeBoolean),
	}
)

// validateTable checks a decoded table for completeness and reports every
// problem at once.
func validateTable(name string, doc tableDoc, fields []query.FieldSpec) error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if !identifierPattern.MatchString(doc.Table) {
		add("table %q is not a valid identifier", doc.Table)
	}
	if len(fields) == 0 {
		add("no fields declared")
	}

	seen := map[string]bool{}
	for _, f := range fields {
		switch {
		case f.Name == "":
			add("field without a name")
			continue
		case !fieldNamePattern.MatchString(f.Name):
			add("field %q: name must be alphanumeric camelCase", f.Name)
		case reservedNames[f.Name]:
			add("field %q: name is reserved", f.Name)
		}
		if seen[f.Name] {
			add("field %q: declared twice", f.Name)
		}
		seen[f.Name] = true

		if !identifierPattern.MatchString(f.Column) {
			add("field %q: column %q is not a valid identifier", f.Name, f.Column)
		}
		if !f.Type.Valid() {
			add("field %q: unknown type %q", f.Name, f.Type)
			continue
		}
		if !f.Filter && !f.Sort {
			add("field %q: neither filterable nor sortable", f.Name)
		}
		if f.Operators != nil && len(f.Operators) == 0 {
			add("field %q: empty operator list", f.Name)
		}
		for _, op := range f.Operators {
			if !typeOperators[f.Type].Has(op) {
				add("field %q: operator %q not supported for %s", f.Name, op, f.Type)
			}
		}
	}

	switch strings.ToLower(doc.TieBreak.Direction) {
	case "asc", "desc":
	default:
		add("tie_break: direction must be asc or desc, got %q", doc.TieBreak.Direction)
	}
	if !seen[doc.TieBreak.Field] {
		add("tie_break: field %q is not declared", doc.TieBreak.Field)
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
