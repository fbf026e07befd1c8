package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/infrastructure/database"
	"github.com/eslsoft/examtrack/internal/repository"
)

// SQLStore implements repository.Store over database/sql, building statements
// with the ent SQL builder.
type SQLStore struct {
	db      *sql.DB
	conn    conn
	dialect string
	tables  map[string]*schema.Table
}

type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var _ repository.Store = (*SQLStore)(nil)

// NewSQLStore wraps an open database.
func NewSQLStore(db *database.DB) *SQLStore {
	tables := make(map[string]*schema.Table, len(database.Tables))
	for _, t := range database.Tables {
		tables[t.Name] = t
	}
	return &SQLStore{db: db.DB, conn: db.DB, dialect: db.Dialect, tables: tables}
}

func (s *SQLStore) table(collection string) (*schema.Table, error) {
	t, ok := s.tables[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	return t, nil
}

func (s *SQLStore) Insert(ctx context.Context, collection string, row repository.Row) (repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.table(collection); err != nil {
		return nil, repository.Wrap("insert", collection, err)
	}
	cols, values := splitRow(row)
	ins := entsql.Dialect(s.dialect).Insert(collection).Columns(cols...).Values(values...)

	var id int64
	if s.dialect == dialect.Postgres {
		ins.Returning("id")
		query, args := ins.Query()
		if err := s.queryRow(ctx, query, args, &id); err != nil {
			return nil, translateError("insert", collection, err)
		}
	} else {
		query, args := ins.Query()
		res, err := s.conn.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, translateError("insert", collection, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, repository.Wrap("insert", collection, err)
		}
	}

	stored := make(repository.Row, len(row)+1)
	for i, c := range cols {
		stored[c] = values[i]
	}
	stored["id"] = id
	return stored, nil
}

func (s *SQLStore) InsertIgnore(ctx context.Context, collection string, row repository.Row, conflictColumns ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(conflictColumns) == 0 {
		return repository.Wrap("insert", collection, errors.New("conflict columns are required"))
	}
	if _, err := s.table(collection); err != nil {
		return repository.Wrap("insert", collection, err)
	}
	cols, values := splitRow(row)
	query, args := entsql.Dialect(s.dialect).Insert(collection).
		Columns(cols...).
		Values(values...).
		OnConflict(entsql.ConflictColumns(conflictColumns...), entsql.DoNothing()).
		Query()
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return translateError("insert", collection, err)
	}
	return nil
}

func (s *SQLStore) SelectOne(ctx context.Context, collection string, filter repository.Filter) (repository.Row, error) {
	rows, err := s.Select(ctx, collection, repository.Where(filter).Page(1, 0))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *SQLStore) Select(ctx context.Context, collection string, query *repository.Query) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := s.table(collection)
	if err != nil {
		return nil, repository.Wrap("select", collection, err)
	}
	if query == nil {
		query = &repository.Query{}
	}
	columns := lo.Map(t.Columns, func(c *schema.Column, _ int) string { return c.Name })

	b := entsql.Dialect(s.dialect)
	sel := b.Select(columns...).From(b.Table(collection))
	if p := predicate(query.Where); p != nil {
		sel.Where(p)
	}
	ordered := false
	for _, term := range query.OrderBy {
		if term.Desc {
			sel.OrderBy(entsql.Desc(term.Column))
		} else {
			sel.OrderBy(entsql.Asc(term.Column))
		}
		ordered = ordered || term.Column == "id"
	}
	if !ordered {
		sel.OrderBy(entsql.Asc("id"))
	}
	if query.Limit > 0 {
		sel.Limit(query.Limit)
	}
	if query.Offset > 0 {
		sel.Offset(query.Offset)
	}

	stmt, args := sel.Query()
	rows, err := s.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, translateError("select", collection, err)
	}
	defer rows.Close()

	var out []repository.Row
	for rows.Next() {
		holders := lo.Map(t.Columns, func(c *schema.Column, _ int) any { return holderFor(c.Type) })
		if err := rows.Scan(holders...); err != nil {
			return nil, repository.Wrap("select", collection, err)
		}
		row := make(repository.Row, len(columns))
		for i, c := range columns {
			row[c] = holderValue(holders[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("select", collection, err)
	}
	return out, nil
}

func (s *SQLStore) Count(ctx context.Context, collection string, query *repository.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.table(collection); err != nil {
		return 0, repository.Wrap("select", collection, err)
	}
	b := entsql.Dialect(s.dialect)
	sel := b.Select(entsql.Count("*")).From(b.Table(collection))
	if query != nil {
		if p := predicate(query.Where); p != nil {
			sel.Where(p)
		}
	}
	stmt, args := sel.Query()
	var n int64
	if err := s.queryRow(ctx, stmt, args, &n); err != nil {
		return 0, translateError("select", collection, err)
	}
	return n, nil
}

func (s *SQLStore) Update(ctx context.Context, collection string, filter repository.Filter, patch repository.Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.table(collection); err != nil {
		return 0, repository.Wrap("update", collection, err)
	}
	if len(patch) == 0 {
		return s.Count(ctx, collection, repository.Where(filter))
	}
	upd := entsql.Dialect(s.dialect).Update(collection)
	cols, values := splitRow(patch)
	for i, c := range cols {
		if values[i] == nil {
			upd.SetNull(c)
			continue
		}
		upd.Set(c, values[i])
	}
	if p := predicate(filter.Conds()); p != nil {
		upd.Where(p)
	}
	stmt, args := upd.Query()
	res, err := s.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, translateError("update", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, repository.Wrap("update", collection, err)
	}
	return n, nil
}

func (s *SQLStore) Delete(ctx context.Context, collection string, filter repository.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.table(collection); err != nil {
		return 0, repository.Wrap("delete", collection, err)
	}
	del := entsql.Dialect(s.dialect).Delete(collection)
	if p := predicate(filter.Conds()); p != nil {
		del.Where(p)
	}
	stmt, args := del.Query()
	res, err := s.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, translateError("delete", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, repository.Wrap("delete", collection, err)
	}
	return n, nil
}

// InTx runs fn inside a database transaction. Nested calls join the outer one.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if _, inTx := s.conn.(*sql.Tx); inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txStore := &SQLStore{db: s.db, conn: tx, dialect: s.dialect, tables: s.tables}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args []any, dest any) error {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest); err != nil {
		return err
	}
	return rows.Err()
}

// splitRow returns the row's non-id columns in a stable order with
// normalised values.
func splitRow(row repository.Row) ([]string, []any) {
	cols := lo.Without(lo.Keys(row), "id")
	sort.Strings(cols)
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = repository.NormalizeValue(row[c])
	}
	return cols, values
}

func predicate(conds []repository.Cond) *entsql.Predicate {
	if len(conds) == 0 {
		return nil
	}
	preds := make([]*entsql.Predicate, 0, len(conds))
	for _, c := range conds {
		preds = append(preds, condPredicate(c))
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return entsql.And(preds...)
}

func condPredicate(c repository.Cond) *entsql.Predicate {
	v := repository.NormalizeValue(c.Value)
	switch c.Op {
	case repository.OpGT:
		return entsql.GT(c.Column, v)
	case repository.OpGTE:
		return entsql.GTE(c.Column, v)
	case repository.OpLTE:
		return entsql.LTE(c.Column, v)
	case repository.OpLT:
		return entsql.LT(c.Column, v)
	case repository.OpIN:
		values, _ := c.Value.([]any)
		if len(values) == 0 {
			return entsql.False()
		}
		return entsql.In(c.Column, lo.Map(values, func(v any, _ int) any { return repository.NormalizeValue(v) })...)
	default:
		if v == nil {
			return entsql.IsNull(c.Column)
		}
		return entsql.EQ(c.Column, v)
	}
}

func holderFor(t field.Type) any {
	switch t {
	case field.TypeInt, field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt64,
		field.TypeUint, field.TypeUint8, field.TypeUint16, field.TypeUint32, field.TypeUint64:
		return new(sql.NullInt64)
	case field.TypeFloat32, field.TypeFloat64:
		return new(sql.NullFloat64)
	case field.TypeBool:
		return new(sql.NullBool)
	case field.TypeTime:
		return new(sql.NullTime)
	default:
		return new(sql.NullString)
	}
}

func holderValue(h any) any {
	switch v := h.(type) {
	case *sql.NullInt64:
		if v.Valid {
			return v.Int64
		}
	case *sql.NullFloat64:
		if v.Valid {
			return v.Float64
		}
	case *sql.NullBool:
		if v.Valid {
			return v.Bool
		}
	case *sql.NullTime:
		if v.Valid {
			return v.Time.UTC()
		}
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	}
	return nil
}

// duplicateError keeps the driver's message while matching ErrDuplicate.
type duplicateError struct{ err error }

func (e *duplicateError) Error() string   { return e.err.Error() }
func (e *duplicateError) Unwrap() []error { return []error{repository.ErrDuplicate, e.err} }

func translateError(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		err = &duplicateError{err: err}
	}
	return repository.Wrap(op, collection, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	// go-sqlite3 error types need cgo; match on the message instead.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
