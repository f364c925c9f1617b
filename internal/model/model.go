// Package model implements active-record style persistence for entities
// described by a static Schema.
package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/wbnkit/internal/database"
)

// Row is a plain column to value mapping.
type Row map[string]any

// Op describes one finished model operation.
type Op struct {
	Name     string
	Table    string
	Duration time.Duration
	Err      error
}

type options struct {
	now      func() time.Time
	observer func(Op)
}

// Option configures a Model.
type Option func(*options)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithObserver registers a callback invoked after every operation.
func WithObserver(fn func(Op)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Model provides CRUD and finder operations for one entity type.
type Model[T Record] struct {
	db        *database.DB
	newRecord func() T
	schema    *Schema
	opts      options
}

// New creates a model for the entity type produced by newRecord.
func New[T Record](db *database.DB, newRecord func() T, opts ...Option) *Model[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	schema := newRecord().Schema()
	if schema == nil {
		panic("model: entity returned a nil schema")
	}
	return &Model[T]{
		db:        db,
		newRecord: newRecord,
		schema:    schema,
		opts:      o,
	}
}

// Schema returns the entity schema.
func (m *Model[T]) Schema() *Schema {
	return m.schema
}

// Create inserts rec, stamping both timestamps when enabled, and assigns the
// generated id back to rec. It returns the generated id.
func (m *Model[T]) Create(ctx context.Context, rec T) (id int64, err error) {
	defer m.observe("create", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return 0, err
	}

	if m.schema.Timestamps {
		now := m.timestamp()
		setString(rec.Ref(FieldCreatedOn), now)
		setString(rec.Ref(FieldLastUpdatedOn), now)
	}

	columns, values, err := m.bindFields(rec, m.schema.Attributes())
	if err != nil {
		return 0, err
	}

	dialect := m.db.Dialect()
	insert := m.builder().Insert(m.schema.Table).Columns(columns...).Values(values...)
	hasID := m.schema.Has(FieldID)

	if dialect.Returning && hasID {
		query, args, err := insert.Suffix("RETURNING " + m.schema.idColumn()).ToSql()
		if err != nil {
			return 0, m.fail("create", err)
		}
		if err := m.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, m.fail("create", err)
		}
	} else {
		query, args, err := insert.ToSql()
		if err != nil {
			return 0, m.fail("create", err)
		}
		res, err := m.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, m.fail("create", err)
		}
		if hasID {
			if id, err = res.LastInsertId(); err != nil {
				return 0, m.fail("create", err)
			}
		}
	}

	if hasID {
		setInt64(rec.Ref(FieldID), id)
	}
	return id, nil
}

// Find returns the entity with the given id.
func (m *Model[T]) Find(ctx context.Context, id int64) (rec T, err error) {
	defer m.observe("find", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return rec, err
	}

	fields := m.schema.persisted()
	query, args, err := m.builder().
		Select(columnsOf(fields)...).
		From(m.schema.Table).
		Where(sq.Eq{m.schema.idColumn(): id}).
		ToSql()
	if err != nil {
		return rec, m.fail("find", err)
	}

	rec = m.newRecord()
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(scanTargets(rec, fields)...); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%w: %s %d", ErrRecordNotFound, m.schema.Name, id)
		}
		return zero, m.fail("find", err)
	}
	return rec, nil
}

// AssocFind returns the row with the given id as a plain mapping.
func (m *Model[T]) AssocFind(ctx context.Context, id int64) (row Row, err error) {
	defer m.observe("assoc_find", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return nil, err
	}

	rows, err := m.queryRows(ctx, "assoc_find", sq.Eq{m.schema.idColumn(): id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrRecordNotFound, m.schema.Name, id)
	}
	return rows[0], nil
}

// FindBy returns every entity whose column equals value. The column must be
// a persisted field of the entity. The bind type is hint when given,
// otherwise the field's declared type.
func (m *Model[T]) FindBy(ctx context.Context, column string, value any, hint ...BindType) (recs []T, err error) {
	defer m.observe("find_by", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return nil, err
	}
	cond, err := m.columnCondition(column, value, hint)
	if err != nil {
		return nil, err
	}
	return m.queryRecords(ctx, "find_by", cond)
}

// AssocFindBy is FindBy returning plain rows.
func (m *Model[T]) AssocFindBy(ctx context.Context, column string, value any, hint ...BindType) (rows []Row, err error) {
	defer m.observe("assoc_find_by", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return nil, err
	}
	cond, err := m.columnCondition(column, value, hint)
	if err != nil {
		return nil, err
	}
	return m.queryRows(ctx, "assoc_find_by", cond)
}

// All returns every entity in the table.
func (m *Model[T]) All(ctx context.Context) (recs []T, err error) {
	defer m.observe("all", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return nil, err
	}
	return m.queryRecords(ctx, "all", nil)
}

// AssocAll returns every row in the table as plain mappings.
func (m *Model[T]) AssocAll(ctx context.Context) (rows []Row, err error) {
	defer m.observe("assoc_all", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return nil, err
	}
	return m.queryRows(ctx, "assoc_all", nil)
}

// Count returns the number of rows in the table.
func (m *Model[T]) Count(ctx context.Context) (n int64, err error) {
	defer m.observe("count", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return 0, err
	}

	query, args, err := m.builder().Select("COUNT(*)").From(m.schema.Table).ToSql()
	if err != nil {
		return 0, m.fail("count", err)
	}
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, m.fail("count", err)
	}
	return n, nil
}

// Update writes the attributes of rec to its row and stamps
// last_updated_on when enabled. created_on is never rewritten.
// It returns the number of affected rows.
func (m *Model[T]) Update(ctx context.Context, rec T) (affected int64, err error) {
	defer m.observe("update", time.Now(), &err)

	if err := m.requireDeclared(); err != nil {
		return 0, err
	}

	id := int64Of(rec.Ref(FieldID))
	if !m.schema.Has(FieldID) || id == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, m.schema.Name)
	}

	if m.schema.Timestamps {
		setString(rec.Ref(FieldLastUpdatedOn), m.timestamp())
	}

	columns, values, err := m.bindFields(rec, m.schema.updateAttributes())
	if err != nil {
		return 0, err
	}

	update := m.builder().Update(m.schema.Table).Where(sq.Eq{m.schema.idColumn(): id})
	for i, col := range columns {
		update = update.Set(col, values[i])
	}
	if m.db.Dialect().LimitWrites {
		update = update.Limit(1)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return 0, m.fail("update", err)
	}
	return m.exec(ctx, "update", query, args)
}

// Delete removes at most one row by id and returns the number of affected
// rows. It is a no-op when the schema is not declared.
func (m *Model[T]) Delete(ctx context.Context, id int64) (affected int64, err error) {
	defer m.observe("delete", time.Now(), &err)

	if !m.schema.Declared() {
		return 0, nil
	}

	del := m.builder().Delete(m.schema.Table).Where(sq.Eq{m.schema.idColumn(): id})
	if m.db.Dialect().LimitWrites {
		del = del.Limit(1)
	}

	query, args, err := del.ToSql()
	if err != nil {
		return 0, m.fail("delete", err)
	}
	return m.exec(ctx, "delete", query, args)
}

func (m *Model[T]) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(m.db.Dialect().Placeholder)
}

func (m *Model[T]) timestamp() string {
	return m.opts.now().Format(TimestampLayout)
}

func (m *Model[T]) requireDeclared() error {
	if !m.schema.Declared() {
		return fmt.Errorf("%w: %w: table=%q name=%q", ErrSchemaNotDeclared, database.ErrTableNotFound, m.schema.Table, m.schema.Name)
	}
	return nil
}

// bindFields reads the values of fields from rec, converted to their bind
// types.
func (m *Model[T]) bindFields(rec T, fields []Field) ([]string, []any, error) {
	columns := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))
	for _, f := range fields {
		v, ok := valueOf(rec.Ref(f.Name))
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s.%s has no bindable value", ErrInvalidValue, m.schema.Name, f.Name)
		}
		v, err := coerce(v, f.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s: %w", m.schema.Name, f.Name, err)
		}
		columns = append(columns, f.Column)
		values = append(values, v)
	}
	return columns, values, nil
}

// columnCondition validates column against the schema before any query is
// built.
func (m *Model[T]) columnCondition(column string, value any, hint []BindType) (sq.Sqlizer, error) {
	field, ok := m.schema.fieldForColumn(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no column %q", ErrColumnNotFound, m.schema.Name, column)
	}

	bind := field.Type
	if len(hint) > 0 && hint[0] != BindAuto {
		bind = hint[0]
	}
	v, err := coerce(value, bind)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return sq.Eq{field.Column: nil}, nil
	}
	return sq.Expr(field.Column+" = ?", v), nil
}

func (m *Model[T]) queryRecords(ctx context.Context, op string, where sq.Sqlizer) ([]T, error) {
	fields := m.schema.persisted()
	sel := m.builder().Select(columnsOf(fields)...).From(m.schema.Table)
	if where != nil {
		sel = sel.Where(where)
	}
	if m.schema.Has(FieldID) {
		sel = sel.OrderBy(m.schema.idColumn())
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, m.fail(op, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, m.fail(op, err)
	}
	defer rows.Close()

	recs := []T{}
	for rows.Next() {
		rec := m.newRecord()
		if err := rows.Scan(scanTargets(rec, fields)...); err != nil {
			return nil, m.fail(op, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, m.fail(op, err)
	}
	return recs, nil
}

func (m *Model[T]) queryRows(ctx context.Context, op string, where sq.Sqlizer) ([]Row, error) {
	sel := m.builder().Select("*").From(m.schema.Table)
	if where != nil {
		sel = sel.Where(where)
	}
	if m.schema.Has(FieldID) {
		sel = sel.OrderBy(m.schema.idColumn())
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, m.fail(op, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, m.fail(op, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, m.fail(op, err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, m.fail(op, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, m.fail(op, err)
	}
	return out, nil
}

func (m *Model[T]) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, m.fail(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, m.fail(op, err)
	}
	return n, nil
}

// fail classifies a backend error and logs it.
func (m *Model[T]) fail(op string, err error) error {
	classified := database.Classify(err, m.schema.Table)

	event := log.Error()
	if errors.Is(classified, database.ErrUniqueViolation) {
		event = log.Warn()
	}
	event.Err(err).
		Str("op", op).
		Str("table", m.schema.Table).
		Msg("Database operation failed")

	return classified
}

func (m *Model[T]) observe(op string, start time.Time, err *error) {
	if m.opts.observer == nil {
		return
	}
	m.opts.observer(Op{
		Name:     op,
		Table:    m.schema.Table,
		Duration: time.Since(start),
		Err:      *err,
	})
}

func columnsOf(fields []Field) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return cols
}

// scanTargets returns the field references of rec in fields order. Fields the
// record cannot store are scanned and discarded.
func scanTargets(rec Record, fields []Field) []any {
	targets := make([]any, len(fields))
	for i, f := range fields {
		if ref := rec.Ref(f.Name); ref != nil {
			targets[i] = ref
			continue
		}
		var discard any
		targets[i] = &discard
	}
	return targets
}
