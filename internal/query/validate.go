package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	numberPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	datePattern   = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

	// DefaultStringPattern is the safe character set for string operands.
	// Quotes other than the apostrophe, wildcards, brackets, backslashes and
	// statement separators are rejected.
	DefaultStringPattern = regexp.MustCompile(`^[\p{L}\p{N} \-_.,'@&()/+:#!?]+$`)
)

var errNotStringOrArray = errors.New("should be a string or an array")

// formatMessages holds the scalar and array variants of each type's format error.
var formatMessages = map[FieldType][2]string{
	TypeNumber: {"should have valid number format", "array should contain valid number formats"},
	TypeString: {"should have valid string format", "array should contain valid string formats"},
	TypeDate:   {"should have valid date format", "array should contain valid date formats"},
}

func formatError(t FieldType, isArray bool) error {
	msgs := formatMessages[t]
	if isArray {
		return errors.New(msgs[1])
	}
	return errors.New(msgs[0])
}

// operand is one parsed element of a raw filter value.
type operand struct {
	op    Operator
	value any
}

// ValidateNumber checks raw against the number grammar. A nil allowed set
// means every operator numbers support.
func ValidateNumber(raw any, allowed OperatorSet) error {
	_, err := parseOperands(raw, TypeNumber, orDefault(allowed, TypeNumber), nil)
	return err
}

// ValidateString checks raw against the string grammar; safe defaults to
// DefaultStringPattern.
func ValidateString(raw any, allowed OperatorSet, safe *regexp.Regexp) error {
	_, err := parseOperands(raw, TypeString, orDefault(allowed, TypeString), safe)
	return err
}

func ValidateDate(raw any, allowed OperatorSet) error {
	_, err := parseOperands(raw, TypeDate, orDefault(allowed, TypeDate), nil)
	return err
}

// ParseBoolean accepts only the literals "true" and "false". Anything else
// yields nil instead of an error.
func ParseBoolean(raw string) *bool {
	var v bool
	switch raw {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}

// StringValues validates raw as plain (untagged) strings and returns them.
func StringValues(raw any) ([]string, error) {
	ops, err := parseOperands(raw, TypeString, OperatorSet{OpEq}, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ops))
	for _, o := range ops {
		out = append(out, o.value.(string))
	}
	return out, nil
}

func orDefault(allowed OperatorSet, t FieldType) OperatorSet {
	if allowed == nil {
		return DefaultOperators(t)
	}
	return allowed
}

// rawStrings normalises a raw query value into its string elements.
func rawStrings(raw any) (values []string, isArray bool, err error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, false, nil
	case []string:
		return append([]string(nil), v...), true, nil
	case []any:
		values = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, true, errNotStringOrArray
			}
			values = append(values, s)
		}
		return values, true, nil
	default:
		return nil, false, errNotStringOrArray
	}
}

// parseOperands runs the operator parser and the type grammar over every
// element of raw. It stops at the first violation.
func parseOperands(raw any, t FieldType, allowed OperatorSet, safe *regexp.Regexp) ([]operand, error) {
	values, isArray, err := rawStrings(raw)
	if err != nil {
		return nil, err
	}
	if t == TypeBoolean {
		return parseBooleans(values, allowed)
	}

	parse := scalarParser(t, safe)
	if parse == nil {
		return nil, errInvalidOperator
	}
	out := make([]operand, 0, len(values))
	for _, v := range values {
		op, rest, err := ParseOperand(v)
		if err != nil {
			return nil, err
		}
		if !allowed.Has(op) {
			return nil, errInvalidOperator
		}

		if op == OpBetween {
			bounds := strings.Split(rest, ",")
			if len(bounds) != 2 {
				return nil, formatError(t, isArray)
			}
			lo, okLo := parse(strings.TrimSpace(bounds[0]))
			hi, okHi := parse(strings.TrimSpace(bounds[1]))
			if !okLo || !okHi {
				return nil, formatError(t, isArray)
			}
			out = append(out, operand{op: op, value: []any{lo, hi}})
			continue
		}

		val, ok := parse(rest)
		if !ok {
			return nil, formatError(t, isArray)
		}
		out = append(out, operand{op: op, value: val})
	}
	return out, nil
}

func parseBooleans(values []string, allowed OperatorSet) ([]operand, error) {
	out := make([]operand, 0, len(values))
	for _, v := range values {
		op, rest, err := ParseOperand(v)
		if err != nil {
			return nil, err
		}
		if !allowed.Has(op) {
			return nil, errInvalidOperator
		}
		b := ParseBoolean(rest)
		if b == nil {
			continue
		}
		out = append(out, operand{op: op, value: *b})
	}
	return out, nil
}

func scalarParser(t FieldType, safe *regexp.Regexp) func(string) (any, bool) {
	switch t {
	case TypeNumber:
		return parseNumber
	case TypeDate:
		return parseDate
	case TypeString:
		if safe == nil {
			safe = DefaultStringPattern
		}
		return func(s string) (any, bool) {
			if s == "" || !safe.MatchString(s) {
				return nil, false
			}
			return s, true
		}
	}
	return nil
}

func parseNumber(s string) (any, bool) {
	if !numberPattern.MatchString(s) {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func parseDate(s string) (any, bool) {
	if !datePattern.MatchString(s) {
		return nil, false
	}
	// The pattern admits 2024-02-30; time.Parse rejects it.
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, false
	}
	return d, true
}
