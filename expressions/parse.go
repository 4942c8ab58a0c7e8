package expressions

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownExpressionType = errors.New("unknown expression type")
	ErrMalformedExpression   = errors.New("malformed expression description")

	// expression parsers keyed by type tag, populated once at package load.
	// A duplicate tag overwrites, the last registration wins.
	parsers     = make(map[string]parseFunc)
	joinParsers = make(map[string]joinParseFunc)
)

type (
	parseFunc     func(desc map[string]any) (Expression, error)
	joinParseFunc func(desc map[string]any) (JoinExpression, error)
)

func init() {
	parsers["EQ"] = parseEquals
	parsers["LT"] = parseLessThan
	parsers["GT"] = parseGreaterThan
	parsers["AND"] = func(desc map[string]any) (Expression, error) {
		left, right, err := parseChildren(desc)
		if err != nil {
			return nil, err
		}
		return NewAndExpression(left, right), nil
	}
	parsers["OR"] = func(desc map[string]any) (Expression, error) {
		left, right, err := parseChildren(desc)
		if err != nil {
			return nil, err
		}
		return NewOrExpression(left, right), nil
	}
	parsers["NOT"] = parseNot

	joinParsers["EQ"] = parseEqualsJoin
	joinParsers["AND"] = func(desc map[string]any) (JoinExpression, error) {
		left, right, err := parseJoinChildren(desc)
		if err != nil {
			return nil, err
		}
		return NewAndJoinExpression(left, right), nil
	}
	joinParsers["OR"] = func(desc map[string]any) (JoinExpression, error) {
		left, right, err := parseJoinChildren(desc)
		if err != nil {
			return nil, err
		}
		return NewOrJoinExpression(left, right), nil
	}
}

// ParseExpression builds a predicate from a plan description node like
//
//	{"type": "EQ", "in": 0, "f": "country", "value": "DE"}
//	{"type": "AND", "l": {...}, "r": {...}}
//
// "f" selects the field by name (string) or index (number), "in" is the input
// slot and defaults to 0. String values build string predicates, numbers and
// bools build float64 predicates, matching how tables encode columns.
func ParseExpression(desc map[string]any) (Expression, error) {
	exprType, ok := desc["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing type tag", ErrMalformedExpression)
	}
	parse, ok := parsers[exprType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExpressionType, exprType)
	}
	return parse(desc)
}

// ParseJoinExpression builds a two-table predicate from a node like
//
//	{"type": "EQ", "l_in": 0, "l_f": "id", "r_in": 1, "r_f": "user_id"}
func ParseJoinExpression(desc map[string]any) (JoinExpression, error) {
	exprType, ok := desc["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing type tag", ErrMalformedExpression)
	}
	parse, ok := joinParsers[exprType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExpressionType, exprType)
	}
	return parse(desc)
}

func parseEquals(desc map[string]any) (Expression, error) {
	input, fieldIdx, fieldName, byName, err := parseFieldRef(desc)
	if err != nil {
		return nil, err
	}
	switch value := desc["value"].(type) {
	case string:
		if byName {
			return NewEqualsExpressionByName[string](input, fieldName, value), nil
		}
		return NewEqualsExpression[string](input, fieldIdx, value), nil
	case float64:
		if byName {
			return NewEqualsExpressionByName[float64](input, fieldName, value), nil
		}
		return NewEqualsExpression[float64](input, fieldIdx, value), nil
	case bool:
		num := float64(0)
		if value {
			num = 1
		}
		if byName {
			return NewEqualsExpressionByName[float64](input, fieldName, num), nil
		}
		return NewEqualsExpression[float64](input, fieldIdx, num), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrMalformedExpression, desc["value"])
	}
}

func parseLessThan(desc map[string]any) (Expression, error) {
	input, fieldIdx, fieldName, byName, err := parseFieldRef(desc)
	if err != nil {
		return nil, err
	}
	switch value := desc["value"].(type) {
	case string:
		if byName {
			return NewLessThanExpressionByName[string](input, fieldName, value), nil
		}
		return NewLessThanExpression[string](input, fieldIdx, value), nil
	case float64:
		if byName {
			return NewLessThanExpressionByName[float64](input, fieldName, value), nil
		}
		return NewLessThanExpression[float64](input, fieldIdx, value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrMalformedExpression, desc["value"])
	}
}

func parseGreaterThan(desc map[string]any) (Expression, error) {
	input, fieldIdx, fieldName, byName, err := parseFieldRef(desc)
	if err != nil {
		return nil, err
	}
	switch value := desc["value"].(type) {
	case string:
		if byName {
			return NewGreaterThanExpressionByName[string](input, fieldName, value), nil
		}
		return NewGreaterThanExpression[string](input, fieldIdx, value), nil
	case float64:
		if byName {
			return NewGreaterThanExpressionByName[float64](input, fieldName, value), nil
		}
		return NewGreaterThanExpression[float64](input, fieldIdx, value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrMalformedExpression, desc["value"])
	}
}

func parseNot(desc map[string]any) (Expression, error) {
	childDesc, ok := desc["e"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: NOT needs a child under \"e\"", ErrMalformedExpression)
	}
	child, err := ParseExpression(childDesc)
	if err != nil {
		return nil, err
	}
	return NewNotExpression(child), nil
}

func parseChildren(desc map[string]any) (Expression, Expression, error) {
	leftDesc, ok := desc["l"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing left child under \"l\"", ErrMalformedExpression)
	}
	rightDesc, ok := desc["r"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing right child under \"r\"", ErrMalformedExpression)
	}
	left, err := ParseExpression(leftDesc)
	if err != nil {
		return nil, nil, err
	}
	right, err := ParseExpression(rightDesc)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func parseJoinChildren(desc map[string]any) (JoinExpression, JoinExpression, error) {
	leftDesc, ok := desc["l"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing left child under \"l\"", ErrMalformedExpression)
	}
	rightDesc, ok := desc["r"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing right child under \"r\"", ErrMalformedExpression)
	}
	left, err := ParseJoinExpression(leftDesc)
	if err != nil {
		return nil, nil, err
	}
	right, err := ParseJoinExpression(rightDesc)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func parseEqualsJoin(desc map[string]any) (JoinExpression, error) {
	inputLeft := intOrDefault(desc["l_in"], 0)
	inputRight := intOrDefault(desc["r_in"], 1)

	leftName, leftByName := desc["l_f"].(string)
	rightName, rightByName := desc["r_f"].(string)
	if leftByName != rightByName {
		return nil, fmt.Errorf("%w: join fields must both be names or both be indexes", ErrMalformedExpression)
	}
	// join columns default to string, "vtype": "float" selects float64 columns
	vtype, _ := desc["vtype"].(string)
	if vtype != "" && vtype != "string" && vtype != "float" {
		return nil, fmt.Errorf("%w: unknown vtype %q", ErrMalformedExpression, vtype)
	}

	if leftByName {
		if vtype == "float" {
			return NewEqualsJoinExpressionByName[float64](inputLeft, leftName, inputRight, rightName), nil
		}
		return NewEqualsJoinExpressionByName[string](inputLeft, leftName, inputRight, rightName), nil
	}

	leftIdx, leftOk := desc["l_f"].(float64)
	rightIdx, rightOk := desc["r_f"].(float64)
	if !leftOk || !rightOk {
		return nil, fmt.Errorf("%w: missing join fields \"l_f\"/\"r_f\"", ErrMalformedExpression)
	}
	if vtype == "float" {
		return NewEqualsJoinExpression[float64](inputLeft, int(leftIdx), inputRight, int(rightIdx)), nil
	}
	return NewEqualsJoinExpression[string](inputLeft, int(leftIdx), inputRight, int(rightIdx)), nil
}

func parseFieldRef(desc map[string]any) (input, fieldIdx int, fieldName string, byName bool, err error) {
	input = intOrDefault(desc["in"], 0)
	switch field := desc["f"].(type) {
	case string:
		fieldName = field
		byName = true
	case float64:
		fieldIdx = int(field)
	default:
		err = fmt.Errorf("%w: missing field reference \"f\"", ErrMalformedExpression)
	}
	return
}

func intOrDefault(v any, fallback int) int {
	f, ok := v.(float64)
	if !ok {
		return fallback
	}
	return int(f)
}
