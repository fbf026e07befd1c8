// Package repotest provides an in-memory repository.Store for tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/eslsoft/examtrack/internal/repository"
)

// ErrInjected is returned by operations registered with FailOn.
var ErrInjected = errors.New("injected failure")

type cascade struct {
	child  string
	column string
}

// Store keeps collections in memory and mimics the SQL store: generated ids,
// unique keys, cascading deletes and transactional rollback.
type Store struct {
	mu      sync.Mutex
	seq     map[string]int64
	data    map[string][]repository.Row
	unique  map[string][][]string
	cascade map[string][]cascade
	failOn  map[string]error
	calls   map[string]int
	inTx    bool
}

// NewStore returns a store with the application's unique keys and cascades.
func NewStore() *Store {
	return &Store{
		seq:  make(map[string]int64),
		data: make(map[string][]repository.Row),
		unique: map[string][][]string{
			repository.Subjects: {{"name", "type"}},
			repository.Profiles: {{"user_id"}},
		},
		cascade: map[string][]cascade{
			repository.Exams:     {{child: repository.ExamResults, column: "exam_id"}},
			repository.Books:     {{child: repository.BookUnits, column: "book_id"}},
			repository.BookUnits: {{child: repository.BookTests, column: "unit_id"}},
		},
		failOn: make(map[string]error),
		calls:  make(map[string]int),
	}
}

// FailOn makes every op ("insert", "select", "update", "delete") on collection fail with err.
func (s *Store) FailOn(op, collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.failOn[op+":"+collection] = err
}

// Calls reports how many times op ran against collection.
func (s *Store) Calls(op, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op+":"+collection]
}

// Rows returns a copy of every row in collection ordered by id.
func (s *Store) Rows(collection string) []repository.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.Row, 0, len(s.data[collection]))
	for _, r := range s.data[collection] {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) hit(op, collection string) error {
	s.calls[op+":"+collection]++
	if err, ok := s.failOn[op+":"+collection]; ok {
		return repository.Wrap(op, collection, err)
	}
	return nil
}

func normalizeRow(row repository.Row) repository.Row {
	out := make(repository.Row, len(row))
	for k, v := range row {
		out[k] = repository.NormalizeValue(v)
	}
	return out
}

func (s *Store) violatesUnique(collection string, row repository.Row, skipID int64) bool {
	for _, key := range s.unique[collection] {
		for _, existing := range s.data[collection] {
			if existing.Int64("id") == skipID {
				continue
			}
			same := true
			for _, col := range key {
				if c, ok := repository.Compare(existing[col], row[col]); !ok || c != 0 {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}
	return false
}

func (s *Store) Insert(ctx context.Context, collection string, row repository.Row) (repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("insert", collection); err != nil {
		return nil, err
	}
	rec := normalizeRow(row)
	if s.violatesUnique(collection, rec, 0) {
		return nil, repository.Wrap("insert", collection, fmt.Errorf("%w: %s", repository.ErrDuplicate, collection))
	}
	s.seq[collection]++
	rec["id"] = s.seq[collection]
	s.data[collection] = append(s.data[collection], rec)
	return rec.Clone(), nil
}

func (s *Store) InsertIgnore(ctx context.Context, collection string, row repository.Row, _ ...string) error {
	_, err := s.Insert(ctx, collection, row)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *Store) SelectOne(ctx context.Context, collection string, filter repository.Filter) (repository.Row, error) {
	rows, err := s.Select(ctx, collection, repository.Where(filter).Page(1, 0))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *Store) Select(ctx context.Context, collection string, query *repository.Query) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("select", collection); err != nil {
		return nil, err
	}
	if query == nil {
		query = &repository.Query{}
	}
	var out []repository.Row
	for _, r := range s.data[collection] {
		if matches(r, query.Where) {
			out = append(out, r.Clone())
		}
	}
	sortRows(out, query.OrderBy)
	if query.Offset > 0 {
		if query.Offset >= len(out) {
			return []repository.Row{}, nil
		}
		out = out[query.Offset:]
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, collection string, query *repository.Query) (int64, error) {
	q := &repository.Query{}
	if query != nil {
		q.Where = query.Where
	}
	rows, err := s.Select(ctx, collection, q)
	return int64(len(rows)), err
}

func (s *Store) Update(ctx context.Context, collection string, filter repository.Filter, patch repository.Row) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("update", collection); err != nil {
		return 0, err
	}
	norm := normalizeRow(patch)
	conds := filter.Conds()
	var affected int64
	for i, r := range s.data[collection] {
		if !matches(r, conds) {
			continue
		}
		next := r.Clone()
		for k, v := range norm {
			next[k] = v
		}
		if s.violatesUnique(collection, next, r.Int64("id")) {
			return affected, repository.Wrap("update", collection, fmt.Errorf("%w: %s", repository.ErrDuplicate, collection))
		}
		s.data[collection][i] = next
		affected++
	}
	return affected, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter repository.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hit("delete", collection); err != nil {
		return 0, err
	}
	return s.deleteLocked(collection, filter.Conds()), nil
}

func (s *Store) deleteLocked(collection string, conds []repository.Cond) int64 {
	var kept []repository.Row
	var removed []int64
	for _, r := range s.data[collection] {
		if matches(r, conds) {
			removed = append(removed, r.Int64("id"))
			continue
		}
		kept = append(kept, r)
	}
	s.data[collection] = kept
	for _, c := range s.cascade[collection] {
		for _, id := range removed {
			s.deleteLocked(c.child, []repository.Cond{{Column: c.column, Op: repository.OpEQ, Value: id}})
		}
	}
	return int64(len(removed))
}

// InTx snapshots the data and restores it when fn fails.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	snapshot := make(map[string][]repository.Row, len(s.data))
	for k, rows := range s.data {
		cp := make([]repository.Row, len(rows))
		for i, r := range rows {
			cp[i] = r.Clone()
		}
		snapshot[k] = cp
	}
	seq := make(map[string]int64, len(s.seq))
	for k, v := range s.seq {
		seq[k] = v
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.seq = seq
		s.mu.Unlock()
		return err
	}
	return nil
}

func matches(r repository.Row, conds []repository.Cond) bool {
	for _, c := range conds {
		if !matchCond(r[c.Column], c) {
			return false
		}
	}
	return true
}

func matchCond(v any, c repository.Cond) bool {
	if c.Op == repository.OpIN {
		values, _ := c.Value.([]any)
		for _, want := range values {
			if cmp, ok := repository.Compare(v, want); ok && cmp == 0 {
				return true
			}
		}
		return false
	}
	want := repository.NormalizeValue(c.Value)
	if want == nil || v == nil {
		return c.Op == repository.OpEQ && want == nil && v == nil
	}
	cmp, ok := repository.Compare(v, want)
	if !ok {
		return false
	}
	switch c.Op {
	case repository.OpEQ:
		return cmp == 0
	case repository.OpGT:
		return cmp > 0
	case repository.OpGTE:
		return cmp >= 0
	case repository.OpLTE:
		return cmp <= 0
	case repository.OpLT:
		return cmp < 0
	default:
		return false
	}
}

func sortRows(rows []repository.Row, order []repository.OrderTerm) {
	order = append(append([]repository.OrderTerm{}, order...), repository.OrderTerm{Column: "id"})
	sort.SliceStable(rows, func(i, j int) bool {
		for _, term := range order {
			cmp, ok := repository.Compare(rows[i][term.Column], rows[j][term.Column])
			if !ok || cmp == 0 {
				continue
			}
			if term.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
