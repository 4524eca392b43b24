package filterexpr

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Predicate is one comparison from a conjunctive filter expression.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Parse turns a filter expression into its AND-ed predicates. Only fields
// declared in fields may appear; their CEL types come from the field kinds.
func Parse(filter string, fields map[string]FilterField) ([]Predicate, error) {
	if len(fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := newEnv(fields)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}

	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("convert filter AST: %w", err)
	}

	conjuncts, err := flattenAnd(parsed.GetExpr())
	if err != nil {
		return nil, err
	}

	preds := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := toPredicate(expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func newEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		t, err := rule.Kind.celType()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, t))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

// flattenAnd walks nested _&&_ calls; the parser emits them as binary trees.
func flattenAnd(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}

	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}

	switch call.Function {
	case "_&&_":
		if call.Target != nil || len(call.Args) < 2 {
			return nil, errors.New("logical AND must have at least two operands")
		}
		var out []*exprpb.Expr
		for _, arg := range call.Args {
			sub, err := flattenAnd(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case "_||_", "_?_:_", "!_", "!":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func toPredicate(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("unsupported expression; expected comparison or function call")
	}

	switch call.Function {
	case "_==_":
		return binaryPredicate(call, OpEQ)
	case "_>=_":
		return binaryPredicate(call, OpGTE)
	case "_<=_":
		return binaryPredicate(call, OpLTE)
	case "@in", "_in_":
		return receiverPredicate(call, OpIN, true)
	case "startsWith":
		return receiverPredicate(call, OpSW, false)
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func binaryPredicate(call *exprpb.Expr_Call, op Op) (Predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return Predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
	}
	return predicateFrom(call.Args[0], call.Args[1], op)
}

// receiverPredicate handles both the method form (x.startsWith('a')) and the
// global form. For "in" the receiver holds the list, for startsWith the field.
func receiverPredicate(call *exprpb.Expr_Call, op Op, listIsReceiver bool) (Predicate, error) {
	if call.Target == nil {
		if len(call.Args) != 2 {
			return Predicate{}, fmt.Errorf("%s expects two operands", op)
		}
		return predicateFrom(call.Args[0], call.Args[1], op)
	}
	if len(call.Args) != 1 {
		return Predicate{}, fmt.Errorf("%s with a receiver expects exactly one argument", op)
	}
	if listIsReceiver {
		return predicateFrom(call.Args[0], call.Target, op)
	}
	return predicateFrom(call.Target, call.Args[0], op)
}

func predicateFrom(fieldExpr, valueExpr *exprpb.Expr, op Op) (Predicate, error) {
	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := literal(valueExpr)
	if err != nil {
		return Predicate{}, err
	}
	if op == OpSW {
		if _, ok := value.(string); !ok {
			return Predicate{}, errors.New("startsWith requires a string literal argument")
		}
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func literal(expr *exprpb.Expr) (any, error) {
	if c := expr.GetConstExpr(); c != nil {
		switch c.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return c.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(c.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(c.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return c.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", c.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elems := list.GetElements()
		values := make([]string, len(elems))
		for i, elem := range elems {
			v, err := literal(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = s
		}
		return values, nil
	}

	return nil, errors.New("right-hand side must be a literal or list literal")
}
