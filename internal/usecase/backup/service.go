// Package backup streams the application tables to and from newline delimited JSON.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/infrastructure/database"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
	metaRecord       = "meta"
)

var errNoTablesSelected = errors.New("backup: no tables selected")

// ProgressReporter receives per table progress during an export.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service exports and imports every application table. Tables are handled in
// dependency order so foreign keys hold while importing.
type Service struct {
	db         *sql.DB
	dialect    string
	batchSize  int
	tables     []*schema.Table
	tableIndex map[string]*schema.Table
	schemaHash string
	now        func() time.Time
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithClock overrides the export timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService binds a backup service to an open database.
func NewService(db *database.DB, opts ...Option) (*Service, error) {
	if db == nil || db.DB == nil {
		return nil, errors.New("backup: database is required")
	}
	tables, err := schema.CopyTables(database.Tables)
	if err != nil {
		return nil, fmt.Errorf("copy schema tables: %w", err)
	}
	svc := &Service{
		db:         db.DB,
		dialect:    db.Dialect,
		batchSize:  defaultBatchSize,
		tables:     tables,
		tableIndex: lo.KeyBy(tables, func(t *schema.Table) string { return t.Name }),
		schemaHash: computeSchemaHash(tables),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the given table names.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts import to the given table names.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	SchemaHash string         `json:"schema_hash,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	SchemaHash string          `json:"schema_hash"`
	Payload    json.RawMessage `json:"payload"`
}

// Export writes a meta record followed by one record per row.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	counts := make(map[string]int, len(tables))
	for _, tbl := range tables {
		count, err := s.countRows(ctx, tbl.Name)
		if err != nil {
			return fmt.Errorf("count table %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = count
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := s.now().UTC()
	meta := record{
		Type:       metaRecord,
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     lo.Map(tables, func(t *schema.Table, _ int) string { return t.Name }),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, tbl := range tables {
		reporter.StartTable(tbl.Name, counts[tbl.Name])
		if err := s.exportTable(ctx, tbl, reporter, writer); err != nil {
			return err
		}
		reporter.FinishTable(tbl.Name)
	}
	return writer.Flush()
}

// Import upserts every row of the selected tables in a single transaction.
// Records of other tables are skipped.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	wanted := lo.KeyBy(tables, func(t *schema.Table) string { return t.Name })

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	var (
		metaSeen bool
		maxIDs   = make(map[string]int64)
	)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if rec.Type == metaRecord {
				if rec.Version != formatVersion {
					return fmt.Errorf("backup: unsupported format version %d", rec.Version)
				}
				metaSeen = true
			} else if tbl, ok := wanted[rec.Type]; ok {
				if !metaSeen {
					return errors.New("backup: meta record must come first")
				}
				if len(rec.Payload) == 0 {
					return fmt.Errorf("backup: missing payload for table %s", rec.Type)
				}
				id, err := s.importRow(ctx, tx, tbl, rec.Payload)
				if err != nil {
					return err
				}
				if id > maxIDs[tbl.Name] {
					maxIDs[tbl.Name] = id
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if !metaSeen {
		return errors.New("backup: missing meta record")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true
	return s.syncSequences(ctx, maxIDs)
}

func (s *Service) exportTable(ctx context.Context, table *schema.Table, reporter ProgressReporter, w io.Writer) error {
	columns := lo.Map(table.Columns, func(c *schema.Column, _ int) string { return c.Name })
	for offset := 0; ; offset += s.batchSize {
		query, args := entsql.Dialect(s.dialect).
			Select(columns...).
			From(entsql.Table(table.Name)).
			OrderBy("id").
			Limit(s.batchSize).
			Offset(offset).
			Query()
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query %s: %w", table.Name, err)
		}

		n := 0
		for rows.Next() {
			values := make([]any, len(columns))
			dest := make([]any, len(columns))
			for i := range dest {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s: %w", table.Name, err)
			}
			payload := make(map[string]any, len(columns))
			for i, col := range table.Columns {
				v, err := convertDBValue(col, values[i])
				if err != nil {
					rows.Close()
					return fmt.Errorf("convert %s.%s: %w", table.Name, col.Name, err)
				}
				payload[col.Name] = v
			}
			if err := writeRecord(w, record{Type: table.Name, Payload: payload}); err != nil {
				rows.Close()
				return err
			}
			reporter.Increment(table.Name, 1)
			n++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate %s: %w", table.Name, err)
		}
		rows.Close()
		if n < s.batchSize {
			return nil
		}
	}
}

// importRow upserts one row by primary key and returns its id.
func (s *Service) importRow(ctx context.Context, tx *sql.Tx, table *schema.Table, payload json.RawMessage) (int64, error) {
	values, err := decodePayload(table, payload)
	if err != nil {
		return 0, fmt.Errorf("decode payload for %s: %w", table.Name, err)
	}
	var (
		cols []string
		args []any
	)
	for _, col := range table.Columns {
		val, ok := values[col.Name]
		if !ok {
			continue
		}
		if val == nil && !col.Nullable {
			return 0, fmt.Errorf("backup: missing required value for %s.%s", table.Name, col.Name)
		}
		cols = append(cols, col.Name)
		args = append(args, val)
	}
	id, _ := values["id"].(int64)
	if id <= 0 {
		return 0, fmt.Errorf("backup: row of %s has no id", table.Name)
	}

	query, qargs := entsql.Dialect(s.dialect).
		Insert(table.Name).
		Columns(cols...).
		Values(args...).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, qargs...); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	return id, nil
}

func (s *Service) selectTables(requested []string) ([]*schema.Table, error) {
	if len(requested) == 0 {
		return append([]*schema.Table{}, s.tables...), nil
	}
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		n := strings.TrimSpace(strings.ToLower(name))
		if n == "" {
			continue
		}
		if _, ok := s.tableIndex[n]; !ok {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		set[n] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errNoTablesSelected
	}
	return lo.Filter(s.tables, func(t *schema.Table, _ int) bool {
		_, ok := set[t.Name]
		return ok
	}), nil
}

func (s *Service) countRows(ctx context.Context, table string) (int, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(entsql.Count("*")).
		From(entsql.Table(table)).
		Query()
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// syncSequences moves postgres serial sequences past the imported ids.
func (s *Service) syncSequences(ctx context.Context, maxIDs map[string]int64) error {
	if s.dialect != dialect.Postgres {
		return nil
	}
	for table, maxID := range maxIDs {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST(%d, (SELECT COALESCE(MAX(id), 0) FROM %s)))",
			table, maxID, table,
		)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("sync sequence for %s: %w", table, err)
		}
	}
	return nil
}

func convertDBValue(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []byte:
		value = string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	}

	switch col.Type {
	case field.TypeBool:
		return toBool(value)
	case field.TypeInt, field.TypeInt16, field.TypeInt32, field.TypeInt64:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	case field.TypeTime:
		str := fmt.Sprint(value)
		t, err := parseTime(str)
		if err != nil {
			return nil, err
		}
		return t.Format(time.RFC3339Nano), nil
	default:
		return value, nil
	}
}

func decodePayload(table *schema.Table, payload json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(raw))
	for key, val := range raw {
		col, ok := lo.Find(table.Columns, func(c *schema.Column) bool { return c.Name == key })
		if !ok {
			return nil, fmt.Errorf("column %s not found in table %s", key, table.Name)
		}
		converted, err := convertJSONValue(col, val)
		if err != nil {
			return nil, fmt.Errorf("convert %s.%s: %w", table.Name, key, err)
		}
		result[key] = converted
	}
	return result, nil
}

func convertJSONValue(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.Type {
	case field.TypeBool:
		return toBool(value)
	case field.TypeInt, field.TypeInt16, field.TypeInt32, field.TypeInt64:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	case field.TypeTime:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", value)
		}
		return parseTime(str)
	default:
		return value, nil
	}
}

// parseTime accepts RFC 3339 and the text layouts sqlite hands back.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func computeSchemaHash(tables []*schema.Table) string {
	var b strings.Builder
	sorted := append([]*schema.Table{}, tables...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, tbl := range sorted {
		b.WriteString(tbl.Name)
		b.WriteString("|cols:")
		for _, col := range tbl.Columns {
			fmt.Fprintf(&b, "%s:%d:%t:%t;", col.Name, col.Type, col.Nullable, col.Unique)
		}
		b.WriteString("|idx:")
		for _, idx := range tbl.Indexes {
			fmt.Fprintf(&b, "%s:%t;", idx.Name, idx.Unique)
		}
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case json.Number:
		i, err := v.Int64()
		return i != 0, err
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported int type %T", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported float type %T", value)
	}
}
