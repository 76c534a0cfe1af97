package repository

import (
	"context"
	"fmt"
	"reflect"

	"bookstore-api/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgCall struct {
	sql  string
	args []any
}

// pgResult is what the next statement returns: rows for Query/QueryRow,
// a command tag for Exec.
type pgResult struct {
	rows [][]any
	tag  string
	err  error
}

var _ database.PgxIface = (*fakePgx)(nil)

// fakePgx replays queued results in order and records every statement.
type fakePgx struct {
	calls   []pgCall
	results []pgResult
}

func (f *fakePgx) queue(results ...pgResult) *fakePgx {
	f.results = append(f.results, results...)
	return f
}

func (f *fakePgx) next(sql string, args []any) pgResult {
	f.calls = append(f.calls, pgCall{sql: sql, args: args})
	if len(f.results) == 0 {
		return pgResult{}
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r
}

func (f *fakePgx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	r := f.next(sql, args)
	if r.err != nil {
		return nil, r.err
	}
	return &fakeRows{values: r.rows, pos: -1}, nil
}

func (f *fakePgx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	r := f.next(sql, args)
	switch {
	case r.err != nil:
		return fakeRow{err: r.err}
	case len(r.rows) == 0:
		return fakeRow{err: pgx.ErrNoRows}
	default:
		return fakeRow{values: r.rows[0]}
	}
}

func (f *fakePgx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r := f.next(sql, args)
	return pgconn.NewCommandTag(r.tag), r.err
}

func (f *fakePgx) Ping(context.Context) error { return nil }

func (f *fakePgx) Close() {}

func (f *fakePgx) lastCall() pgCall {
	if len(f.calls) == 0 {
		return pgCall{}
	}
	return f.calls[len(f.calls)-1]
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanValues(r.values, dest)
}

type fakeRows struct {
	values [][]any
	pos    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanValues(r.values[r.pos], dest)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos], nil
}

// scanValues copies values into dest pointers, converting between named
// types such as string and entity.UserRole.
func scanValues(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		elem := target.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		src := reflect.ValueOf(values[i])
		switch {
		case src.Type().AssignableTo(elem.Type()):
			elem.Set(src)
		case src.Kind() == elem.Kind() && src.Type().ConvertibleTo(elem.Type()):
			elem.Set(src.Convert(elem.Type()))
		default:
			return fmt.Errorf("scan: cannot put %T into %s", values[i], elem.Type())
		}
	}
	return nil
}
