// Package filterexpr compiles list filters written in a small CEL subset
// (AND-ed comparisons against literals) and order_by clauses into column
// predicates that a store can apply.
package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Msg is implemented by list requests that carry filter and order_by inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
)

// Op is a supported comparison.
type Op string

const (
	OpEQ  Op = "=="
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
	OpIN  Op = "in"
)

// Normalizer rewrites a literal before it reaches the predicate, e.g. to
// upper-case enum values or truncate timestamps to a day.
type Normalizer func(value any) (any, error)

// FilterField whitelists a filter identifier.
type FilterField struct {
	Column    string
	Kind      ValueKind
	Ops       []Op
	Normalize Normalizer
}

// OrderField whitelists an order_by key.
type OrderField struct {
	Column string
}

// OrderSchema describes ordering defaults and whitelisted keys.
type OrderSchema struct {
	Default     string
	DefaultDesc bool
	Fallback    string
	Fields      map[string]OrderField
}

// ResourceSchema aggregates filtering and ordering rules for a resource.
type ResourceSchema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

// Predicate is one compiled comparison. For OpIN, Value is a []any.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// OrderTerm is one compiled ordering key.
type OrderTerm struct {
	Column string
	Desc   bool
}

// Result is the compiled form of a list request.
type Result struct {
	Predicates []Predicate
	Order      []OrderTerm
}

// Compile parses the request's filter and order_by against schema.
func Compile(msg Msg, schema ResourceSchema) (Result, error) {
	preds, err := CompileFilter(msg.GetFilter(), schema.Filter)
	if err != nil {
		return Result{}, fmt.Errorf("filter: %w", err)
	}
	order, err := ParseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return Result{}, fmt.Errorf("order_by: %w", err)
	}
	return Result{Predicates: preds, Order: order}, nil
}

// CompileFilter parses filter into predicates. An empty filter yields none.
func CompileFilter(filter string, fields map[string]FilterField) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := buildEnv(fields)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.New("filter must be a boolean expression")
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}

	conjuncts, err := extractConjuncts(parsed.GetExpr())
	if err != nil {
		return nil, err
	}

	preds := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		name, op, value, err := parseComparison(expr)
		if err != nil {
			return nil, err
		}
		rule := fields[name]
		if !allows(rule.Ops, op) {
			return nil, fmt.Errorf("operator %q is not allowed for field %q", string(op), name)
		}
		if err := validateLiteral(rule.Kind, op, value); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if rule.Normalize != nil {
			if value, err = normalize(rule.Normalize, value); err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
		}
		column := rule.Column
		if column == "" {
			column = name
		}
		preds = append(preds, Predicate{Column: column, Op: op, Value: value})
	}
	return preds, nil
}

func allows(ops []Op, op Op) bool {
	for _, candidate := range ops {
		if candidate == op {
			return true
		}
	}
	return false
}

func normalize(fn Normalizer, value any) (any, error) {
	list, ok := value.([]any)
	if !ok {
		return fn(value)
	}
	out := make([]any, len(list))
	for i, item := range list {
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func buildEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		celType, err := celTypeForKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

func extractConjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}
	switch call.Function {
	case "_&&_":
		var result []*exprpb.Expr
		for _, arg := range call.Args {
			conjuncts, err := extractConjuncts(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, conjuncts...)
		}
		return result, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

var comparisonOps = map[string]Op{
	"_==_": OpEQ,
	"_>_":  OpGT,
	"_>=_": OpGTE,
	"_<_":  OpLT,
	"_<=_": OpLTE,
	"@in":  OpIN,
}

func parseComparison(expr *exprpb.Expr) (string, Op, any, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return "", "", nil, errors.New("unsupported expression; expected a comparison")
	}
	op, ok := comparisonOps[call.Function]
	if !ok {
		return "", "", nil, fmt.Errorf("function %q is not supported", call.Function)
	}
	if call.Target != nil || len(call.Args) != 2 {
		return "", "", nil, fmt.Errorf("operator %q expects two operands", string(op))
	}
	ident := call.Args[0].GetIdentExpr()
	if ident == nil {
		return "", "", nil, errors.New("left-hand side must be an identifier")
	}
	value, err := parseLiteral(call.Args[1])
	if err != nil {
		return "", "", nil, err
	}
	return ident.GetName(), op, value, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		if len(elements) == 0 {
			return nil, errors.New("list literal must not be empty")
		}
		values := make([]any, len(elements))
		for i, elem := range elements {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			values[i] = val
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 {
			return nil, errors.New("timestamp() expects a single string argument")
		}
		arg := call.Args[0].GetConstExpr()
		if arg == nil {
			return nil, errors.New("timestamp() argument must be a string literal")
		}
		return parseTimestamp(arg.GetStringValue())
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp literal %q is not RFC3339", raw)
}

func validateLiteral(kind ValueKind, op Op, value any) error {
	if op == OpIN {
		list, ok := value.([]any)
		if !ok {
			return errors.New("in requires a list literal")
		}
		for _, item := range list {
			if err := validateLiteral(kind, OpEQ, item); err != nil {
				return err
			}
		}
		return nil
	}
	var ok bool
	switch kind {
	case KindString:
		_, ok = value.(string)
	case KindNumber:
		_, ok = value.(float64)
	case KindTimestamp:
		_, ok = value.(time.Time)
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	if !ok {
		return fmt.Errorf("expected %s literal", kind)
	}
	return nil
}
