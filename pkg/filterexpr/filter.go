package filterexpr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// Msg wraps request DTOs that expose filter and order_by raw inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind describes the type a field is exposed as inside filter expressions.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
)

// ResourceSchema aggregates filtering and ordering rules for a resource.
type ResourceSchema struct {
	Fields map[string]ValueKind
	Order  OrderSchema
}

// Query is a compiled filter plus the resolved ordering.
type Query struct {
	program cel.Program
	fields  map[string]ValueKind
	Order   Order
}

// Compile parses the filter and order_by of msg against schema.
func Compile[M Msg](msg M, schema ResourceSchema) (*Query, error) {
	program, err := compileFilter(msg.GetFilter(), schema.Fields)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	order, err := parseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return nil, fmt.Errorf("order_by: %w", err)
	}

	return &Query{program: program, fields: schema.Fields, Order: order}, nil
}

// HasFilter reports whether a non-empty filter was compiled.
func (q *Query) HasFilter() bool {
	return q != nil && q.program != nil
}

// Match evaluates the filter against one record. Records always match an empty filter.
func (q *Query) Match(vars map[string]any) (bool, error) {
	if !q.HasFilter() {
		return true, nil
	}
	activation := make(map[string]any, len(q.fields))
	for name, kind := range q.fields {
		activation[name] = zeroFor(kind)
	}
	for name, value := range vars {
		if _, ok := q.fields[name]; ok {
			activation[name] = value
		}
	}

	out, _, err := q.program.Eval(activation)
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter evaluated to %T, expected bool", out.Value())
	}
	return matched, nil
}

func compileFilter(filter string, fields map[string]ValueKind) (cel.Program, error) {
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
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program: %w", err)
	}
	return program, nil
}

func buildEnv(fields map[string]ValueKind) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, kind := range fields {
		celType, err := celTypeForKind(kind)
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

func zeroFor(kind ValueKind) any {
	switch kind {
	case KindNumber:
		return float64(0)
	case KindTimestamp:
		return time.Time{}
	default:
		return ""
	}
}
