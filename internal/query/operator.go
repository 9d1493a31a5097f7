package query

import (
	"errors"
	"regexp"
)

// Operator tags a condition. OpEq is implicit: it is never written as a tag.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNe      Operator = "ne"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpLike    Operator = "like"
	OpBetween Operator = "between"
)

// taggedOperators are the operators a client may spell as "[op]".
var taggedOperators = map[Operator]bool{
	OpNe:      true,
	OpGt:      true,
	OpGte:     true,
	OpLt:      true,
	OpLte:     true,
	OpLike:    true,
	OpBetween: true,
}

var errInvalidOperator = errors.New("invalid operator")

var operatorTag = regexp.MustCompile(`^\[([^\[\]]*)\]`)

// ParseOperand splits a raw filter value into its operator and operand.
//
//	"100"            -> eq, "100"
//	"[gte]100"       -> gte, "100"
//	"[between]10,20" -> between, "10,20"
//	"[foo]1"         -> error "invalid operator"
func ParseOperand(raw string) (Operator, string, error) {
	m := operatorTag.FindStringSubmatch(raw)
	if m == nil {
		return OpEq, raw, nil
	}
	op := Operator(m[1])
	if !taggedOperators[op] {
		return "", "", errInvalidOperator
	}
	return op, raw[len(m[0]):], nil
}

// OperatorSet is the list of operators a field accepts.
type OperatorSet []Operator

func (s OperatorSet) Has(op Operator) bool {
	for _, o := range s {
		if o == op {
			return true
		}
	}
	return false
}

// FieldType is the semantic type of a filterable field.
type FieldType string

const (
	TypeNumber  FieldType = "number"
	TypeString  FieldType = "string"
	TypeDate    FieldType = "date"
	TypeBoolean FieldType = "boolean"
)

var defaultOperators = map[FieldType]OperatorSet{
	TypeNumber:  {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpBetween},
	TypeDate:    {OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpBetween},
	TypeString:  {OpEq, OpNe, OpLike},
	TypeBoolean: {OpEq, OpNe},
}

// DefaultOperators returns the widest operator set the type supports.
// Unknown types support nothing.
func DefaultOperators(t FieldType) OperatorSet {
	return defaultOperators[t]
}

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	_, ok := defaultOperators[t]
	return ok
}
