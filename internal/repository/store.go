package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDuplicate reports a uniqueness violation in the store.
var ErrDuplicate = errors.New("duplicate key")

// Error wraps a failure returned by the store. Its message is the store's own.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap annotates err with the operation and collection, leaving nil untouched.
func Wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}
	return &Error{Op: op, Collection: collection, Err: err}
}

// Op is a comparison used in a Cond.
type Op string

const (
	OpEQ  Op = "="
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpLT  Op = "<"
	OpIN  Op = "in"
)

// Cond is a single column predicate; conditions in a query are AND-ed.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Filter is a set of column equality constraints.
type Filter map[string]any

// Conds converts the filter into equality conditions.
func (f Filter) Conds() []Cond {
	conds := make([]Cond, 0, len(f))
	for col, v := range f {
		conds = append(conds, Cond{Column: col, Op: OpEQ, Value: v})
	}
	return conds
}

// OrderTerm orders a select by one column.
type OrderTerm struct {
	Column string
	Desc   bool
}

// Query describes a select over one collection.
type Query struct {
	Where   []Cond
	OrderBy []OrderTerm
	Limit   int
	Offset  int
}

// Where starts a query from an equality filter.
func Where(f Filter) *Query { return &Query{Where: f.Conds()} }

// And appends a condition.
func (q *Query) And(column string, op Op, value any) *Query {
	q.Where = append(q.Where, Cond{Column: column, Op: op, Value: value})
	return q
}

// Order appends an order term.
func (q *Query) Order(column string, desc bool) *Query {
	q.OrderBy = append(q.OrderBy, OrderTerm{Column: column, Desc: desc})
	return q
}

// Page sets limit and offset.
func (q *Query) Page(limit, offset int) *Query {
	q.Limit, q.Offset = limit, offset
	return q
}

// Store is the narrow persistence contract used by the domain. Every
// operation is scoped to a named collection.
type Store interface {
	// Insert writes row and returns the stored row including its generated id.
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	// InsertIgnore writes row unless it conflicts on conflictColumns.
	InsertIgnore(ctx context.Context, collection string, row Row, conflictColumns ...string) error
	// SelectOne returns the first row matching filter, or nil when none does.
	SelectOne(ctx context.Context, collection string, filter Filter) (Row, error)
	Select(ctx context.Context, collection string, query *Query) ([]Row, error)
	Count(ctx context.Context, collection string, query *Query) (int64, error)
	// Update applies patch to rows matching filter and reports how many changed.
	Update(ctx context.Context, collection string, filter Filter, patch Row) (int64, error)
	// Delete removes rows matching filter and reports how many were removed.
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)
	// InTx runs fn against a transactional view of the store. Any error rolls back.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// Row is a single record keyed by column name. Values are normalised to
// int64, float64, string, bool, time.Time or nil.
type Row map[string]any

// Int64 returns the integer value of column, or 0.
func (r Row) Int64(column string) int64 {
	switch v := r[column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Int returns the integer value of column as int.
func (r Row) Int(column string) int { return int(r.Int64(column)) }

// OptInt64 returns nil for NULL columns.
func (r Row) OptInt64(column string) *int64 {
	if r[column] == nil {
		return nil
	}
	v := r.Int64(column)
	return &v
}

// OptInt returns nil for NULL columns.
func (r Row) OptInt(column string) *int {
	if r[column] == nil {
		return nil
	}
	v := r.Int(column)
	return &v
}

// Float64 returns the float value of column, or 0.
func (r Row) Float64(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// String returns the text value of column, or "".
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the boolean value of column.
func (r Row) Bool(column string) bool {
	switch v := r[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	default:
		return false
	}
}

// Time returns the time value of column, or the zero time.
func (r Row) Time(column string) time.Time {
	if v, ok := r[column].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// OptTime returns nil for NULL columns.
func (r Row) OptTime(column string) *time.Time {
	v, ok := r[column].(time.Time)
	if !ok {
		return nil
	}
	return &v
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
